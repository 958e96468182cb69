package commands

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"lab-booking-api/internal/domain/booking"
	"lab-booking-api/internal/infra"
	"lab-booking-api/internal/pkg/clock"
	"lab-booking-api/internal/pkg/errs"
	"lab-booking-api/internal/usecase/authz"

	"github.com/google/uuid"
)

type SelectedTestInput struct {
	TestID uuid.UUID
	Name   string
	Price  int64
}

type SelectedPackageInput struct {
	PackageID uuid.UUID
	Name      string
	Price     int64
}

type CreateBookingInput struct {
	LabID            uuid.UUID
	SelectedTests    []SelectedTestInput
	SelectedPackages []SelectedPackageInput
	AppointmentDate  time.Time
	AppointmentTime  string
	PaymentMethod    booking.PaymentMethod
	Notes            string
	UserLocation     string
}

type UpdateBookingInput struct {
	AppointmentDate *time.Time
	AppointmentTime *string
	Notes           *string
}

type BookingCommands interface {
	Create(ctx context.Context, actor *authz.Actor, in CreateBookingInput) (*booking.Booking, error)
	Update(ctx context.Context, actor *authz.Actor, id uuid.UUID, in UpdateBookingInput) (*booking.Booking, error)
	Cancel(ctx context.Context, actor *authz.Actor, id uuid.UUID) (*booking.Booking, error)
	UpdateStatus(ctx context.Context, actor *authz.Actor, id uuid.UUID, target booking.Status) (*booking.Booking, error)
	AdminOverrideStatus(ctx context.Context, actor *authz.Actor, id uuid.UUID, target booking.Status) (*booking.Booking, error)
	AdminDelete(ctx context.Context, actor *authz.Actor, id uuid.UUID) error
}

type bookingCommandsImpl struct {
	bookings BookingRepository
	catalog  CatalogRepository
	engine   *authz.Engine
	mailer   Mailer
	clock    clock.Clock
	logger   *slog.Logger
}

func NewBookingCommands(
	bookings BookingRepository,
	catalog CatalogRepository,
	engine *authz.Engine,
	mailer Mailer,
	clk clock.Clock,
	logger *slog.Logger,
) BookingCommands {
	return &bookingCommandsImpl{
		bookings: bookings,
		catalog:  catalog,
		engine:   engine,
		mailer:   mailer,
		clock:    clk,
		logger:   logger,
	}
}

// Create re-prices every line item from the catalog at write time. Client
// prices are accepted only as a consistency check: a mismatch is rejected so
// stale clients notice, and the stored snapshot always carries catalog prices.
func (c *bookingCommandsImpl) Create(ctx context.Context, actor *authz.Actor, in CreateBookingInput) (*booking.Booking, error) {
	if len(in.SelectedTests)+len(in.SelectedPackages) == 0 {
		return nil, errs.Mark(booking.ErrNoLineItems, errs.ErrDomainValidation)
	}

	lab, err := c.catalog.FindLab(ctx, in.LabID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrLabNotFound
		}
		return nil, errs.Wrap(err, "failed to find lab")
	}
	if !lab.IsActive {
		return nil, errs.ErrLabNotFound
	}

	tests, err := c.snapshotTests(ctx, in.LabID, in.SelectedTests)
	if err != nil {
		return nil, err
	}
	packages, err := c.snapshotPackages(ctx, in.LabID, in.SelectedPackages)
	if err != nil {
		return nil, err
	}

	schedule, err := booking.NewSchedule(in.AppointmentDate, in.AppointmentTime)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}

	services := &booking.Services{Clock: c.clock}
	b, err := booking.NewBooking(services, actor.ID, in.LabID, tests, packages, schedule, in.PaymentMethod, in.Notes, in.UserLocation)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}

	if err := c.bookings.Create(ctx, b); err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	c.mailer.Send("booking_created", actor.ID, map[string]string{
		"booking_id": b.ID().String(),
		"lab_name":   lab.Name,
		"amount":     moneyString(b.TotalAmount()),
	})

	return b, nil
}

func (c *bookingCommandsImpl) snapshotTests(ctx context.Context, labID uuid.UUID, selected []SelectedTestInput) ([]booking.LineItem, error) {
	if len(selected) == 0 {
		return nil, nil
	}

	available, err := c.catalog.FindLabTests(ctx, labID)
	if err != nil {
		return nil, errs.Wrap(err, "failed to load lab test set")
	}
	byID := make(map[uuid.UUID]TestSnapshot, len(available))
	for _, t := range available {
		byID[t.ID] = t
	}

	items := make([]booking.LineItem, 0, len(selected))
	seen := make(map[uuid.UUID]struct{}, len(selected))
	for _, sel := range selected {
		if _, dup := seen[sel.TestID]; dup {
			return nil, errs.Mark(booking.ErrDuplicateLineItem, errs.ErrDomainValidation)
		}
		seen[sel.TestID] = struct{}{}
		snap, ok := byID[sel.TestID]
		if !ok || !snap.IsActive {
			return nil, errs.ErrTestNotAvailable
		}
		if sel.Price != 0 && sel.Price != snap.Price {
			return nil, errs.ErrPriceMismatch
		}
		price, err := booking.NewMoney(snap.Price)
		if err != nil {
			return nil, errs.Mark(err, errs.ErrDomainValidation)
		}
		item, err := booking.NewLineItem(snap.ID, snap.Name, price)
		if err != nil {
			return nil, errs.Mark(err, errs.ErrDomainValidation)
		}
		items = append(items, item)
	}
	return items, nil
}

func (c *bookingCommandsImpl) snapshotPackages(ctx context.Context, labID uuid.UUID, selected []SelectedPackageInput) ([]booking.LineItem, error) {
	if len(selected) == 0 {
		return nil, nil
	}

	available, err := c.catalog.FindLabPackages(ctx, labID)
	if err != nil {
		return nil, errs.Wrap(err, "failed to load lab package set")
	}
	byID := make(map[uuid.UUID]PackageSnapshot, len(available))
	for _, p := range available {
		byID[p.ID] = p
	}

	items := make([]booking.LineItem, 0, len(selected))
	seen := make(map[uuid.UUID]struct{}, len(selected))
	for _, sel := range selected {
		if _, dup := seen[sel.PackageID]; dup {
			return nil, errs.Mark(booking.ErrDuplicateLineItem, errs.ErrDomainValidation)
		}
		seen[sel.PackageID] = struct{}{}
		snap, ok := byID[sel.PackageID]
		if !ok || !snap.IsActive {
			return nil, errs.ErrPackageNotAvailable
		}
		if sel.Price != 0 && sel.Price != snap.Price {
			return nil, errs.ErrPriceMismatch
		}
		price, err := booking.NewMoney(snap.Price)
		if err != nil {
			return nil, errs.Mark(err, errs.ErrDomainValidation)
		}
		item, err := booking.NewLineItem(snap.ID, snap.Name, price)
		if err != nil {
			return nil, errs.Mark(err, errs.ErrDomainValidation)
		}
		items = append(items, item)
	}
	return items, nil
}

// Update is the owner-only reschedule/notes operation.
func (c *bookingCommandsImpl) Update(ctx context.Context, actor *authz.Actor, id uuid.UUID, in UpdateBookingInput) (*booking.Booking, error) {
	b, err := loadOwnedBooking(ctx, c.bookings, c.engine, actor, id, authz.OpUpdateBooking)
	if err != nil {
		return nil, err
	}

	// Checked before mutating so a notes-only change on a closed booking gets
	// a state error instead of tripping the write guard.
	if b.Status() != booking.StatusPending && b.Status() != booking.StatusConfirmed {
		return nil, booking.ErrNotEditable
	}

	now := c.clock.Now()
	if in.AppointmentDate != nil || in.AppointmentTime != nil {
		date := b.Schedule().Date()
		timeOfDay := b.Schedule().TimeOfDay()
		if in.AppointmentDate != nil {
			date = *in.AppointmentDate
		}
		if in.AppointmentTime != nil {
			timeOfDay = *in.AppointmentTime
		}
		schedule, err := booking.NewSchedule(date, timeOfDay)
		if err != nil {
			return nil, errs.Mark(err, errs.ErrDomainValidation)
		}
		if err := b.Reschedule(schedule, now); err != nil {
			return nil, err
		}
	}
	if in.Notes != nil {
		b.SetNotes(*in.Notes, now)
	}

	guard := WriteGuard{
		ExpectStatus: []booking.Status{booking.StatusPending, booking.StatusConfirmed},
		ExpectActive: true,
	}
	if err := persistBooking(ctx, c.bookings, b, guard); err != nil {
		return nil, err
	}
	return b, nil
}

// Cancel is the owner soft-cancel behind the 24-hour window.
func (c *bookingCommandsImpl) Cancel(ctx context.Context, actor *authz.Actor, id uuid.UUID) (*booking.Booking, error) {
	b, err := loadOwnedBooking(ctx, c.bookings, c.engine, actor, id, authz.OpCancelBooking)
	if err != nil {
		return nil, err
	}

	now := c.clock.Now()
	if err := b.Cancel(now); err != nil {
		return nil, err
	}
	b.Deactivate(now)

	guard := WriteGuard{
		ExpectStatus: []booking.Status{booking.StatusPending, booking.StatusConfirmed},
		ExpectActive: true,
	}
	if err := persistBooking(ctx, c.bookings, b, guard); err != nil {
		return nil, err
	}

	c.mailer.Send("booking_cancelled", b.UserID(), map[string]string{"booking_id": b.ID().String()})
	return b, nil
}

// UpdateStatus is the lab-operator status update with its restricted target set.
func (c *bookingCommandsImpl) UpdateStatus(ctx context.Context, actor *authz.Actor, id uuid.UUID, target booking.Status) (*booking.Booking, error) {
	b, err := loadScopedBooking(ctx, c.bookings, c.engine, actor, id, authz.OpUpdateStatus)
	if err != nil {
		return nil, err
	}

	from := b.Status()
	if err := b.StaffUpdateStatus(target, c.clock.Now()); err != nil {
		return nil, err
	}

	guard := WriteGuard{ExpectStatus: []booking.Status{from}, ExpectActive: true}
	if err := persistBooking(ctx, c.bookings, b, guard); err != nil {
		return nil, err
	}
	return b, nil
}

// AdminOverrideStatus can assign any valid status to any non-terminal booking.
func (c *bookingCommandsImpl) AdminOverrideStatus(ctx context.Context, actor *authz.Actor, id uuid.UUID, target booking.Status) (*booking.Booking, error) {
	if !actor.Role.IsGlobalAdmin() {
		return nil, authz.Deny("admin scope required")
	}

	b, err := loadBooking(ctx, c.bookings, id)
	if err != nil {
		return nil, err
	}

	from := b.Status()
	if err := b.AdminOverrideStatus(target, c.clock.Now()); err != nil {
		return nil, err
	}

	guard := WriteGuard{ExpectStatus: []booking.Status{from}}
	if err := persistBooking(ctx, c.bookings, b, guard); err != nil {
		return nil, err
	}
	return b, nil
}

func (c *bookingCommandsImpl) AdminDelete(ctx context.Context, actor *authz.Actor, id uuid.UUID) error {
	if !actor.Role.IsGlobalAdmin() {
		return authz.Deny("admin scope required")
	}

	b, err := loadBooking(ctx, c.bookings, id)
	if err != nil {
		return err
	}
	if !b.IsActive() {
		return errs.ErrBookingInactive
	}
	b.Deactivate(c.clock.Now())

	return persistBooking(ctx, c.bookings, b, WriteGuard{ExpectActive: true})
}

func moneyString(m booking.Money) string {
	return strconv.FormatInt(m.Amount(), 10)
}
