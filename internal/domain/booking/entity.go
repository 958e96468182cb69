package booking

import (
	"errors"
	"time"

	"lab-booking-api/internal/pkg/clock"

	"github.com/google/uuid"
)

var (
	ErrNoLineItems           = errors.New("booking requires at least one test or package")
	ErrInvalidPaymentMethod  = errors.New("invalid payment method")
	ErrInvalidStatus         = errors.New("invalid booking status")
	ErrInvalidTransition     = errors.New("status transition not allowed")
	ErrStatusNotAssignable   = errors.New("status target reserved for another flow")
	ErrNotCancellable        = errors.New("booking can no longer be cancelled")
	ErrCancellationTooLate   = errors.New("cancellation window has closed")
	ErrNotReschedulable      = errors.New("booking can no longer be rescheduled")
	ErrNotEditable           = errors.New("booking can no longer be modified")
	ErrResultsNotAccepted    = errors.New("booking does not accept results in its current status")
	ErrPaymentMethodMismatch = errors.New("operation not valid for this payment method")
	ErrPaymentCompleted      = errors.New("payment already completed")
	ErrOrderMismatch         = errors.New("payment order does not belong to this booking")
	ErrBookingNotActive      = errors.New("booking is not active")
	ErrDuplicateLineItem     = errors.New("duplicate test or package in booking")
)

type Services struct {
	Clock clock.Clock
}

// Booking is the central aggregate: line-item snapshots, appointment schedule,
// payment state, clinical results, and the lifecycle status. All transitions go
// through its methods.
type Booking struct {
	id           uuid.UUID
	userID       uuid.UUID
	labID        uuid.UUID
	tests        []LineItem
	packages     []LineItem
	schedule     Schedule
	method       PaymentMethod
	payStatus    PaymentStatus
	orderID      *string
	paymentID    *string
	signature    *string
	paidAmount   Money
	paymentDate  *time.Time
	status       Status
	results      map[uuid.UUID]ResultSet
	reportFile   *string
	reportDate   *time.Time
	notes        string
	userLocation string
	active       bool
	createdAt    time.Time
	updatedAt    time.Time
}

func NewBooking(
	services *Services,
	userID, labID uuid.UUID,
	tests, packages []LineItem,
	schedule Schedule,
	method PaymentMethod,
	notes, userLocation string,
) (*Booking, error) {
	if len(tests)+len(packages) == 0 {
		return nil, ErrNoLineItems
	}
	if !method.IsValid() {
		return nil, ErrInvalidPaymentMethod
	}

	now := services.Clock.Now()
	return &Booking{
		id:           uuid.New(),
		userID:       userID,
		labID:        labID,
		tests:        tests,
		packages:     packages,
		schedule:     schedule,
		method:       method,
		payStatus:    PaymentPending,
		status:       StatusPending,
		results:      map[uuid.UUID]ResultSet{},
		notes:        notes,
		userLocation: userLocation,
		active:       true,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

func ReconstructBooking(
	id, userID, labID uuid.UUID,
	tests, packages []LineItem,
	schedule Schedule,
	method PaymentMethod,
	payStatus PaymentStatus,
	orderID, paymentID, signature *string,
	paidAmount Money,
	paymentDate *time.Time,
	status Status,
	results map[uuid.UUID]ResultSet,
	reportFile *string,
	reportDate *time.Time,
	notes, userLocation string,
	active bool,
	createdAt, updatedAt time.Time,
) *Booking {
	if results == nil {
		results = map[uuid.UUID]ResultSet{}
	}
	return &Booking{
		id:           id,
		userID:       userID,
		labID:        labID,
		tests:        tests,
		packages:     packages,
		schedule:     schedule,
		method:       method,
		payStatus:    payStatus,
		orderID:      orderID,
		paymentID:    paymentID,
		signature:    signature,
		paidAmount:   paidAmount,
		paymentDate:  paymentDate,
		status:       status,
		results:      results,
		reportFile:   reportFile,
		reportDate:   reportDate,
		notes:        notes,
		userLocation: userLocation,
		active:       active,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

// TotalAmount is a pure function of the creation-time snapshots. It is never
// recomputed from live catalog data.
func (b *Booking) TotalAmount() Money {
	total := Money{}
	for _, t := range b.tests {
		total = total.Add(t.Price())
	}
	for _, p := range b.packages {
		total = total.Add(p.Price())
	}
	return total
}

// TransitionTo moves the booking along the transition table.
func (b *Booking) TransitionTo(target Status, now time.Time) error {
	if !target.IsValid() {
		return ErrInvalidStatus
	}
	if !b.status.CanTransitionTo(target) {
		return ErrInvalidTransition
	}
	b.status = target
	b.updatedAt = now
	return nil
}

// StaffUpdateStatus applies the staff status-update operation: the target must
// be in the staff-assignable set and the move must be legal in the table.
func (b *Booking) StaffUpdateStatus(target Status, now time.Time) error {
	if !target.IsValid() {
		return ErrInvalidStatus
	}
	if !target.StaffAssignable() {
		return ErrStatusNotAssignable
	}
	return b.TransitionTo(target, now)
}

// AdminOverrideStatus bypasses the forward-only table but still refuses to
// leave a terminal state or to assign an unknown status.
func (b *Booking) AdminOverrideStatus(target Status, now time.Time) error {
	if !target.IsValid() {
		return ErrInvalidStatus
	}
	if b.status.IsTerminal() {
		return ErrInvalidTransition
	}
	b.status = target
	b.updatedAt = now
	return nil
}

// Cancel is the owner-initiated cancellation. Denied once fewer than 24 hours
// remain before the appointment; the boundary instant itself is denied.
func (b *Booking) Cancel(now time.Time) error {
	if b.status != StatusPending && b.status != StatusConfirmed {
		return ErrNotCancellable
	}
	if !now.Before(b.schedule.CancellationDeadline()) {
		return ErrCancellationTooLate
	}
	b.status = StatusCancelled
	b.updatedAt = now
	return nil
}

// Reschedule replaces the appointment slot. Only pending and confirmed
// bookings may move.
func (b *Booking) Reschedule(schedule Schedule, now time.Time) error {
	if b.status != StatusPending && b.status != StatusConfirmed {
		return ErrNotReschedulable
	}
	b.schedule = schedule
	b.updatedAt = now
	return nil
}

func (b *Booking) SetNotes(notes string, now time.Time) {
	b.notes = notes
	b.updatedAt = now
}

// SubmitResults upserts result sets keyed by test id: an incoming set replaces
// any existing set for the same test wholesale, all others stay untouched.
// A successful submission publishes the results.
func (b *Booking) SubmitResults(sets []ResultSet, now time.Time) error {
	if !b.status.AcceptsResults() {
		return ErrResultsNotAccepted
	}
	if len(sets) == 0 {
		return errors.New("no result sets submitted")
	}
	for _, set := range sets {
		b.results[set.TestID()] = set
	}
	b.status = StatusResultPublished
	b.updatedAt = now
	return nil
}

// AttachReport records an uploaded report file and publishes the results.
func (b *Booking) AttachReport(fileKey string, now time.Time) error {
	if !b.status.AcceptsResults() {
		return ErrResultsNotAccepted
	}
	b.reportFile = &fileKey
	t := now
	b.reportDate = &t
	b.status = StatusResultPublished
	b.updatedAt = now
	return nil
}

// AssignGatewayOrder stores the gateway order correlation for a pay_now
// booking whose payment is still open.
func (b *Booking) AssignGatewayOrder(orderID string, now time.Time) error {
	if b.method != PayNow {
		return ErrPaymentMethodMismatch
	}
	if b.payStatus == PaymentCompleted {
		return ErrPaymentCompleted
	}
	b.orderID = &orderID
	b.updatedAt = now
	return nil
}

// ConfirmGatewayPayment records a signature-verified gateway payment exactly
// once. The submitted order id must match the one stored at order creation, so
// a valid signature for some other order cannot settle this booking. A second
// confirmation is rejected, never silently re-applied. A pending booking is
// promoted to confirmed as part of the pay_now confirm flow.
func (b *Booking) ConfirmGatewayPayment(orderID, paymentID, signature string, now time.Time) error {
	if b.method != PayNow {
		return ErrPaymentMethodMismatch
	}
	if b.payStatus == PaymentCompleted {
		return ErrPaymentCompleted
	}
	if b.orderID == nil || *b.orderID != orderID {
		return ErrOrderMismatch
	}
	b.paymentID = &paymentID
	b.signature = &signature
	b.payStatus = PaymentCompleted
	b.paidAmount = b.TotalAmount()
	t := now
	b.paymentDate = &t
	if b.status == StatusPending {
		b.status = StatusConfirmed
	}
	b.updatedAt = now
	return nil
}

// SettleAtLab completes a pay_later booking's payment by staff action. Gateway
// correlation fields are untouched.
func (b *Booking) SettleAtLab(now time.Time) error {
	if b.method != PayLater {
		return ErrPaymentMethodMismatch
	}
	if b.payStatus == PaymentCompleted {
		return ErrPaymentCompleted
	}
	b.payStatus = PaymentCompleted
	b.paidAmount = b.TotalAmount()
	t := now
	b.paymentDate = &t
	b.updatedAt = now
	return nil
}

// Deactivate marks the booking logically deleted. Rows are never removed.
func (b *Booking) Deactivate(now time.Time) {
	b.active = false
	b.updatedAt = now
}

func (b *Booking) ID() uuid.UUID                     { return b.id }
func (b *Booking) UserID() uuid.UUID                 { return b.userID }
func (b *Booking) LabID() uuid.UUID                  { return b.labID }
func (b *Booking) Tests() []LineItem                 { return b.tests }
func (b *Booking) Packages() []LineItem              { return b.packages }
func (b *Booking) Schedule() Schedule                { return b.schedule }
func (b *Booking) PaymentMethod() PaymentMethod      { return b.method }
func (b *Booking) PaymentStatus() PaymentStatus      { return b.payStatus }
func (b *Booking) OrderID() *string                  { return b.orderID }
func (b *Booking) PaymentID() *string                { return b.paymentID }
func (b *Booking) Signature() *string                { return b.signature }
func (b *Booking) PaidAmount() Money                 { return b.paidAmount }
func (b *Booking) PaymentDate() *time.Time           { return b.paymentDate }
func (b *Booking) Status() Status                    { return b.status }
func (b *Booking) Results() map[uuid.UUID]ResultSet  { return b.results }
func (b *Booking) ReportFile() *string               { return b.reportFile }
func (b *Booking) ReportUploadedAt() *time.Time      { return b.reportDate }
func (b *Booking) Notes() string                     { return b.notes }
func (b *Booking) UserLocation() string              { return b.userLocation }
func (b *Booking) IsActive() bool                    { return b.active }
func (b *Booking) CreatedAt() time.Time              { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time              { return b.updatedAt }
