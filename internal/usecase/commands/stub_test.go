//go:build unit

package commands_test

import (
	"context"
	"io"
	"log/slog"

	"lab-booking-api/internal/domain/booking"
	"lab-booking-api/internal/domain/user"
	"lab-booking-api/internal/usecase/authz"
	"lab-booking-api/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Booking), args.Error(1)
}

func (m *MockBookingRepository) Update(ctx context.Context, b *booking.Booking, guard commands.WriteGuard) error {
	args := m.Called(ctx, b, guard)
	return args.Error(0)
}

type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) FindLab(ctx context.Context, id uuid.UUID) (*commands.LabSnapshot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*commands.LabSnapshot), args.Error(1)
}

func (m *MockCatalogRepository) FindLabTests(ctx context.Context, labID uuid.UUID) ([]commands.TestSnapshot, error) {
	args := m.Called(ctx, labID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]commands.TestSnapshot), args.Error(1)
}

func (m *MockCatalogRepository) FindLabPackages(ctx context.Context, labID uuid.UUID) ([]commands.PackageSnapshot, error) {
	args := m.Called(ctx, labID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]commands.PackageSnapshot), args.Error(1)
}

type MockPaymentGateway struct {
	mock.Mock
}

func (m *MockPaymentGateway) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (string, error) {
	args := m.Called(ctx, amountMinor, currency, receipt)
	return args.String(0), args.Error(1)
}

func (m *MockPaymentGateway) VerifySignature(orderID, paymentID, signature string) bool {
	args := m.Called(orderID, paymentID, signature)
	return args.Bool(0)
}

type MockFileStore struct {
	mock.Mock
}

func (m *MockFileStore) Save(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	args := m.Called(ctx, key, contentType, body, size)
	return args.String(0), args.Error(1)
}

func (m *MockFileStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// recordingMailer captures sends; delivery is fire-and-forget in production so
// assertions only need the template and recipient.
type recordingMailer struct {
	sent []sentMail
}

type sentMail struct {
	template string
	userID   uuid.UUID
	vars     map[string]string
}

func (m *recordingMailer) Send(template string, userID uuid.UUID, vars map[string]string) {
	m.sent = append(m.sent, sentMail{template: template, userID: userID, vars: vars})
}

type stubDirectory struct {
	identity *authz.Identity
}

func (d *stubDirectory) FindUser(_ context.Context, _ uuid.UUID) (*authz.Identity, error) {
	return d.identity, nil
}

func newEngine() *authz.Engine {
	return authz.NewEngine(&stubDirectory{})
}

func patientActor(id uuid.UUID) *authz.Actor {
	return authz.NewActor(id, user.RoleUser, nil)
}

func staffActor(labID uuid.UUID) *authz.Actor {
	return authz.NewActor(uuid.New(), user.RoleStaff, &labID)
}

func adminActor() *authz.Actor {
	return authz.NewActor(uuid.New(), user.RoleAdmin, nil)
}

func silentLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
