package authz

import (
	"context"
	"errors"
	"fmt"

	"lab-booking-api/internal/domain/user"

	"github.com/google/uuid"
)

// Operation names the mutation or read being authorized. Transport concerns
// (HTTP methods, routes) never reach this package.
type Operation string

const (
	OpViewBooking       Operation = "view_booking"
	OpUpdateBooking     Operation = "update_booking"
	OpCancelBooking     Operation = "cancel_booking"
	OpCreateOrder       Operation = "create_payment_order"
	OpConfirmPayment    Operation = "confirm_payment"
	OpProcessLabPayment Operation = "process_lab_payment"
	OpUpdateStatus      Operation = "update_status"
	OpSubmitResults     Operation = "submit_results"
	OpUploadReport      Operation = "upload_report"
	OpListLabBookings   Operation = "list_lab_bookings"
)

// Resource is the lab-scoped target of an operation: a booking (owner + lab)
// or a bare lab scope (OwnerID zero).
type Resource struct {
	OwnerID uuid.UUID
	LabID   uuid.UUID
}

// Actor is the authenticated caller. The lab assignment may be a stale or
// absent cached credential; EffectiveLab resolves and caches the authoritative
// value for the remainder of the operation.
type Actor struct {
	ID          uuid.UUID
	Role        user.Role
	assignedLab *uuid.UUID
	resolved    bool
}

func NewActor(id uuid.UUID, role user.Role, assignedLab *uuid.UUID) *Actor {
	return &Actor{
		ID:          id,
		Role:        role,
		assignedLab: assignedLab,
		resolved:    assignedLab != nil,
	}
}

// Identity is the directory's view of a user.
type Identity struct {
	ID          uuid.UUID
	Role        user.Role
	AssignedLab *uuid.UUID
	IsActive    bool
	IsBlocked   bool
}

// IdentityDirectory is the external collaborator holding user records.
type IdentityDirectory interface {
	FindUser(ctx context.Context, id uuid.UUID) (*Identity, error)
}

// ForbiddenError is a final denial. It is never retried and never escalated.
type ForbiddenError struct {
	Reason string
}

func (e *ForbiddenError) Error() string {
	return "forbidden: " + e.Reason
}

func Deny(reason string) error {
	return &ForbiddenError{Reason: reason}
}

func IsForbidden(err error) bool {
	var fe *ForbiddenError
	return errors.As(err, &fe)
}

type Engine struct {
	directory IdentityDirectory
}

func NewEngine(directory IdentityDirectory) *Engine {
	return &Engine{directory: directory}
}

// Authorize decides ALLOW/DENY for an actor performing an operation on a
// lab-scoped resource. Operation-specific state guards (status windows,
// payment-method coupling) stay in the domain; this engine decides scope.
func (e *Engine) Authorize(ctx context.Context, actor *Actor, op Operation, res Resource) error {
	switch {
	case actor.Role.IsGlobalAdmin():
		return nil

	case actor.Role.IsPatient():
		if res.OwnerID == actor.ID {
			return nil
		}
		return Deny("booking belongs to another user")

	case actor.Role.CanOperateLab():
		lab, err := e.EffectiveLab(ctx, actor)
		if err != nil {
			return err
		}
		if lab == nil {
			return Deny("no lab assigned to this account")
		}
		if *lab != res.LabID {
			return Deny(fmt.Sprintf("operation %s is outside your assigned lab", op))
		}
		return nil

	default:
		return Deny("role not permitted to perform this operation")
	}
}

// EffectiveLab resolves the actor's lab assignment. A credential without the
// assignment is never denied outright: the directory is consulted once and the
// answer cached on the actor for the rest of the request.
func (e *Engine) EffectiveLab(ctx context.Context, actor *Actor) (*uuid.UUID, error) {
	if actor.resolved {
		return actor.assignedLab, nil
	}

	identity, err := e.directory.FindUser(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if !identity.IsActive || identity.IsBlocked {
		return nil, Deny("account is inactive or blocked")
	}

	actor.assignedLab = identity.AssignedLab
	actor.resolved = true
	return actor.assignedLab, nil
}
