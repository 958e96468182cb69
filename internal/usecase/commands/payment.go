package commands

import (
	"context"
	"errors"
	"log/slog"

	"lab-booking-api/internal/domain/booking"
	"lab-booking-api/internal/pkg/clock"
	"lab-booking-api/internal/pkg/config"
	"lab-booking-api/internal/pkg/errs"
	"lab-booking-api/internal/usecase/authz"

	"github.com/google/uuid"
)

type GatewayOrder struct {
	OrderID     string
	AmountMinor int64
	Currency    string
}

type ConfirmPaymentInput struct {
	OrderID   string
	PaymentID string
	Signature string
}

type PaymentCommands interface {
	CreateOrder(ctx context.Context, actor *authz.Actor, bookingID uuid.UUID) (*GatewayOrder, error)
	ConfirmPayment(ctx context.Context, actor *authz.Actor, bookingID uuid.UUID, in ConfirmPaymentInput) (*booking.Booking, error)
	ProcessLabPayment(ctx context.Context, actor *authz.Actor, bookingID uuid.UUID) (*booking.Booking, error)
}

type paymentCommandsImpl struct {
	bookings BookingRepository
	gateway  PaymentGateway
	engine   *authz.Engine
	mailer   Mailer
	clock    clock.Clock
	currency string
	logger   *slog.Logger
}

func NewPaymentCommands(
	bookings BookingRepository,
	gateway PaymentGateway,
	engine *authz.Engine,
	mailer Mailer,
	clk clock.Clock,
	cfg config.Config,
	logger *slog.Logger,
) PaymentCommands {
	return &paymentCommandsImpl{
		bookings: bookings,
		gateway:  gateway,
		engine:   engine,
		mailer:   mailer,
		clock:    clk,
		currency: cfg.Razorpay.Currency,
		logger:   logger,
	}
}

// CreateOrder opens a gateway order for a pay_now booking whose payment is
// still open and stores the correlation id for later reconciliation.
func (c *paymentCommandsImpl) CreateOrder(ctx context.Context, actor *authz.Actor, bookingID uuid.UUID) (*GatewayOrder, error) {
	b, err := loadOwnedBooking(ctx, c.bookings, c.engine, actor, bookingID, authz.OpCreateOrder)
	if err != nil {
		return nil, err
	}

	if b.PaymentMethod() != booking.PayNow {
		return nil, errs.ErrInvalidPaymentState
	}
	if b.PaymentStatus() == booking.PaymentCompleted {
		return nil, errs.ErrPaymentAlreadyDone
	}

	amountMinor := b.TotalAmount().MinorUnits()
	orderID, err := c.gateway.CreateOrder(ctx, amountMinor, c.currency, b.ID().String())
	if err != nil {
		return nil, errs.Mark(err, errs.ErrGatewayUnavailable)
	}

	if err := b.AssignGatewayOrder(orderID, c.clock.Now()); err != nil {
		return nil, err
	}

	guard := WriteGuard{ExpectPaymentIncomplete: true, ExpectActive: true}
	if err := c.persist(ctx, b, guard); err != nil {
		return nil, err
	}

	return &GatewayOrder{OrderID: orderID, AmountMinor: amountMinor, Currency: c.currency}, nil
}

// ConfirmPayment records a gateway payment exactly once. The booking is
// re-read immediately before the write and the UPDATE itself re-checks that
// the payment is still open, so a double confirmation is rejected rather than
// re-applied.
func (c *paymentCommandsImpl) ConfirmPayment(ctx context.Context, actor *authz.Actor, bookingID uuid.UUID, in ConfirmPaymentInput) (*booking.Booking, error) {
	b, err := loadOwnedBooking(ctx, c.bookings, c.engine, actor, bookingID, authz.OpConfirmPayment)
	if err != nil {
		return nil, err
	}

	if b.PaymentMethod() != booking.PayNow {
		return nil, errs.ErrInvalidPaymentState
	}
	if b.PaymentStatus() == booking.PaymentCompleted {
		return nil, errs.ErrPaymentAlreadyDone
	}

	if !c.gateway.VerifySignature(in.OrderID, in.PaymentID, in.Signature) {
		return nil, errs.ErrInvalidSignature
	}

	if err := b.ConfirmGatewayPayment(in.OrderID, in.PaymentID, in.Signature, c.clock.Now()); err != nil {
		return nil, err
	}

	guard := WriteGuard{ExpectPaymentIncomplete: true, ExpectActive: true}
	if err := c.persist(ctx, b, guard); err != nil {
		return nil, err
	}

	c.mailer.Send("payment_confirmed", b.UserID(), map[string]string{
		"booking_id": b.ID().String(),
		"payment_id": in.PaymentID,
	})
	return b, nil
}

// ProcessLabPayment settles a pay_later booking by staff action, gated by the
// lab-scope check. Gateway correlation fields stay untouched.
func (c *paymentCommandsImpl) ProcessLabPayment(ctx context.Context, actor *authz.Actor, bookingID uuid.UUID) (*booking.Booking, error) {
	b, err := loadScopedBooking(ctx, c.bookings, c.engine, actor, bookingID, authz.OpProcessLabPayment)
	if err != nil {
		return nil, err
	}

	if b.PaymentMethod() != booking.PayLater {
		return nil, errs.ErrInvalidPaymentState
	}
	if b.PaymentStatus() == booking.PaymentCompleted {
		return nil, errs.ErrPaymentAlreadyDone
	}

	if err := b.SettleAtLab(c.clock.Now()); err != nil {
		return nil, err
	}

	guard := WriteGuard{ExpectPaymentIncomplete: true, ExpectActive: true}
	if err := c.persist(ctx, b, guard); err != nil {
		return nil, err
	}
	return b, nil
}

// persist maps a write-guard conflict on the payment path to the
// AlreadyProcessed outcome: the only guard in use here is the open-payment
// check, so zero matched rows means another confirmation won the race.
func (c *paymentCommandsImpl) persist(ctx context.Context, b *booking.Booking, guard WriteGuard) error {
	if err := persistBooking(ctx, c.bookings, b, guard); err != nil {
		if errors.Is(err, errs.ErrConcurrentUpdate) {
			return errs.ErrPaymentAlreadyDone
		}
		return err
	}
	return nil
}
