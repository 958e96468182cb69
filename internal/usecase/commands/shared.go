package commands

import (
	"context"

	"lab-booking-api/internal/domain/booking"
	"lab-booking-api/internal/infra"
	"lab-booking-api/internal/pkg/errs"
	"lab-booking-api/internal/usecase/authz"

	"github.com/google/uuid"
)

func loadBooking(ctx context.Context, repo BookingRepository, id uuid.UUID) (*booking.Booking, error) {
	b, err := repo.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrBookingNotFound
		}
		return nil, errs.Wrap(err, "failed to find booking")
	}
	return b, nil
}

// loadOwnedBooking loads a booking for an owner-only operation. Existence is
// hidden from non-owners: a patient probing someone else's booking gets a
// not-found, not a forbidden.
func loadOwnedBooking(ctx context.Context, repo BookingRepository, engine *authz.Engine, actor *authz.Actor, id uuid.UUID, op authz.Operation) (*booking.Booking, error) {
	b, err := loadBooking(ctx, repo, id)
	if err != nil {
		return nil, err
	}

	res := authz.Resource{OwnerID: b.UserID(), LabID: b.LabID()}
	if err := engine.Authorize(ctx, actor, op, res); err != nil {
		if actor.Role.IsPatient() && authz.IsForbidden(err) {
			return nil, errs.ErrBookingNotFound
		}
		return nil, err
	}
	if !b.IsActive() {
		return nil, errs.ErrBookingNotFound
	}
	return b, nil
}

// loadScopedBooking loads a booking for a lab-operator operation.
func loadScopedBooking(ctx context.Context, repo BookingRepository, engine *authz.Engine, actor *authz.Actor, id uuid.UUID, op authz.Operation) (*booking.Booking, error) {
	b, err := loadBooking(ctx, repo, id)
	if err != nil {
		return nil, err
	}

	res := authz.Resource{OwnerID: b.UserID(), LabID: b.LabID()}
	if err := engine.Authorize(ctx, actor, op, res); err != nil {
		return nil, err
	}
	if !b.IsActive() {
		return nil, errs.ErrBookingInactive
	}
	return b, nil
}

func persistBooking(ctx context.Context, repo BookingRepository, b *booking.Booking, guard WriteGuard) error {
	if err := repo.Update(ctx, b, guard); err != nil {
		if infra.IsKind(err, infra.KindConflict) {
			return errs.ErrConcurrentUpdate
		}
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return nil
}
