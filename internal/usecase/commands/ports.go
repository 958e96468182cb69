package commands

import (
	"context"
	"io"

	"lab-booking-api/internal/domain/booking"

	"github.com/google/uuid"
)

// Write-side snapshots keep the commands independent of the read-side query
// types and of the catalog's storage shape.

type LabSnapshot struct {
	ID       uuid.UUID
	Name     string
	IsActive bool
}

type TestSnapshot struct {
	ID       uuid.UUID
	Name     string
	Price    int64
	IsActive bool
}

type PackageSnapshot struct {
	ID       uuid.UUID
	Name     string
	Price    int64
	IsActive bool
}

// CatalogRepository reads labs and their available test/package sets with
// current prices. The booking core never writes to the catalog.
type CatalogRepository interface {
	FindLab(ctx context.Context, id uuid.UUID) (*LabSnapshot, error)
	FindLabTests(ctx context.Context, labID uuid.UUID) ([]TestSnapshot, error)
	FindLabPackages(ctx context.Context, labID uuid.UUID) ([]PackageSnapshot, error)
}

// WriteGuard re-checks booking state inside the UPDATE itself, so a stale
// read-modify-write never clobbers a concurrent transition.
type WriteGuard struct {
	ExpectStatus            []booking.Status
	ExpectPaymentIncomplete bool
	ExpectActive            bool
}

// BookingRepository loads and persists the aggregate. Update applies the guard
// in the same statement and reports a conflict when zero rows match.
type BookingRepository interface {
	Create(ctx context.Context, b *booking.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	Update(ctx context.Context, b *booking.Booking, guard WriteGuard) error
}

// PaymentGateway is the external order/charge collaborator. Signature
// verification happens inside it; the core never completes a pay_now payment
// without a verified signature.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (string, error)
	VerifySignature(orderID, paymentID, signature string) bool
}

// FileStore persists uploaded report files and returns the stored key.
type FileStore interface {
	Save(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
	Delete(ctx context.Context, key string) error
}

// Mailer delivers templated mail best-effort; it must never block or fail the
// caller's response. The recipient is addressed by user id; the implementation
// resolves the address.
type Mailer interface {
	Send(template string, userID uuid.UUID, vars map[string]string)
}
