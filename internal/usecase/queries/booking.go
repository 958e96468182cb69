package queries

import (
	"context"

	"lab-booking-api/internal/domain/booking"
	"lab-booking-api/internal/infra"
	"lab-booking-api/internal/pkg/errs"
	"lab-booking-api/internal/usecase/authz"

	"github.com/google/uuid"
)

// BookingReadStore is the read-side persistence port.
type BookingReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	FindByUser(ctx context.Context, userID uuid.UUID, status *booking.Status, page Page) ([]*BookingListItem, int64, error)
	FindByLab(ctx context.Context, labID uuid.UUID, status *booking.Status, page Page) ([]*BookingListItem, int64, error)
	FindAll(ctx context.Context, status *booking.Status, page Page) ([]*BookingListItem, int64, error)
}

type BookingQueries interface {
	GetByID(ctx context.Context, actor *authz.Actor, id uuid.UUID) (*BookingView, error)
	ListForUser(ctx context.Context, userID uuid.UUID, status *booking.Status, page Page) (*PagedBookings, error)
	ListForLab(ctx context.Context, actor *authz.Actor, labID uuid.UUID, status *booking.Status, page Page) (*PagedBookings, error)
	ListAll(ctx context.Context, actor *authz.Actor, status *booking.Status, page Page) (*PagedBookings, error)
}

type bookingQueriesImpl struct {
	store  BookingReadStore
	engine *authz.Engine
}

func NewBookingQueries(store BookingReadStore, engine *authz.Engine) BookingQueries {
	return &bookingQueriesImpl{store: store, engine: engine}
}

// GetByID scopes the read through the authorization engine. A patient probing
// someone else's booking gets a not-found, not a forbidden, so existence stays
// hidden.
func (q *bookingQueriesImpl) GetByID(ctx context.Context, actor *authz.Actor, id uuid.UUID) (*BookingView, error) {
	view, err := q.store.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrBookingNotFound
		}
		return nil, errs.Wrap(err, "failed to find booking")
	}

	res := authz.Resource{OwnerID: view.UserID, LabID: view.LabID}
	if err := q.engine.Authorize(ctx, actor, authz.OpViewBooking, res); err != nil {
		if actor.Role.IsPatient() && authz.IsForbidden(err) {
			return nil, errs.ErrBookingNotFound
		}
		return nil, err
	}

	return view, nil
}

func (q *bookingQueriesImpl) ListForUser(ctx context.Context, userID uuid.UUID, status *booking.Status, page Page) (*PagedBookings, error) {
	items, total, err := q.store.FindByUser(ctx, userID, status, page)
	if err != nil {
		return nil, errs.Wrap(err, "failed to list user bookings")
	}
	return &PagedBookings{Items: items, Total: total, Page: page.Number, Limit: page.Limit}, nil
}

func (q *bookingQueriesImpl) ListForLab(ctx context.Context, actor *authz.Actor, labID uuid.UUID, status *booking.Status, page Page) (*PagedBookings, error) {
	res := authz.Resource{LabID: labID}
	if err := q.engine.Authorize(ctx, actor, authz.OpListLabBookings, res); err != nil {
		return nil, err
	}

	items, total, err := q.store.FindByLab(ctx, labID, status, page)
	if err != nil {
		return nil, errs.Wrap(err, "failed to list lab bookings")
	}
	return &PagedBookings{Items: items, Total: total, Page: page.Number, Limit: page.Limit}, nil
}

func (q *bookingQueriesImpl) ListAll(ctx context.Context, actor *authz.Actor, status *booking.Status, page Page) (*PagedBookings, error) {
	if !actor.Role.IsGlobalAdmin() {
		return nil, authz.Deny("admin scope required")
	}

	items, total, err := q.store.FindAll(ctx, status, page)
	if err != nil {
		return nil, errs.Wrap(err, "failed to list bookings")
	}
	return &PagedBookings{Items: items, Total: total, Page: page.Number, Limit: page.Limit}, nil
}
