package writerepo

import (
	"context"
	"encoding/json"
	"time"

	"lab-booking-api/internal/domain/booking"
	"lab-booking-api/internal/infra"
	"lab-booking-api/internal/usecase/commands"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// DB is the subset of pgxpool.Pool the repository needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type BookingRepository struct {
	db DB
}

func NewBookingRepository(db DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// JSONB shapes for the snapshot columns. These mirror the external contract's
// field names so read-side queries can project them without re-mapping.

type lineItemRow struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Price int64     `json:"price"`
}

type resultSetRow struct {
	TestID      uuid.UUID             `json:"testId"`
	Entries     []booking.ResultEntry `json:"entries"`
	SubmittedBy uuid.UUID             `json:"submittedBy"`
	SubmittedAt time.Time             `json:"submittedAt"`
}

func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	tests, packages, results, err := marshalSnapshots(b)
	if err != nil {
		return infra.WrapRepoErr("failed to encode booking snapshots", err)
	}

	query, args, err := psql.Insert("bookings").
		Columns(
			"id", "user_id", "lab_id",
			"selected_tests", "selected_packages",
			"appointment_date", "appointment_time",
			"payment_method", "payment_status",
			"order_id", "payment_id", "signature",
			"paid_amount", "payment_date", "total_amount",
			"status", "test_results",
			"report_file", "report_date",
			"notes", "user_location",
			"is_active", "created_at", "updated_at",
		).
		Values(
			b.ID(), b.UserID(), b.LabID(),
			tests, packages,
			b.Schedule().Date(), b.Schedule().TimeOfDay(),
			b.PaymentMethod().String(), b.PaymentStatus().String(),
			b.OrderID(), b.PaymentID(), b.Signature(),
			b.PaidAmount().Amount(), b.PaymentDate(), b.TotalAmount().Amount(),
			b.Status().String(), results,
			b.ReportFile(), b.ReportUploadedAt(),
			b.Notes(), b.UserLocation(),
			b.IsActive(), b.CreatedAt(), b.UpdatedAt(),
		).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr("failed to build booking insert", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return infra.WrapPgErr("failed to create booking", err)
	}
	return nil
}

func (r *BookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	query, args, err := psql.Select(
		"id", "user_id", "lab_id",
		"selected_tests", "selected_packages",
		"appointment_date", "appointment_time",
		"payment_method", "payment_status",
		"order_id", "payment_id", "signature",
		"paid_amount", "payment_date",
		"status", "test_results",
		"report_file", "report_date",
		"notes", "user_location",
		"is_active", "created_at", "updated_at",
	).
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build booking select", err)
	}

	var (
		bookingID, userID, labID             uuid.UUID
		testsJSON, packagesJSON, resultsJSON []byte
		appointmentDate                      time.Time
		appointmentTime                      string
		method, payStatus, status            string
		orderID, paymentID, signature        *string
		paidAmount                           int64
		paymentDate                          *time.Time
		reportFile                           *string
		reportDate                           *time.Time
		notes, userLocation                  string
		active                               bool
		createdAt, updatedAt                 time.Time
	)

	err = r.db.QueryRow(ctx, query, args...).Scan(
		&bookingID, &userID, &labID,
		&testsJSON, &packagesJSON,
		&appointmentDate, &appointmentTime,
		&method, &payStatus,
		&orderID, &paymentID, &signature,
		&paidAmount, &paymentDate,
		&status, &resultsJSON,
		&reportFile, &reportDate,
		&notes, &userLocation,
		&active, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, infra.WrapPgErr("failed to find booking", err)
	}

	tests, err := unmarshalLineItems(testsJSON)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to decode selected tests", err)
	}
	packages, err := unmarshalLineItems(packagesJSON)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to decode selected packages", err)
	}
	results, err := unmarshalResultSets(resultsJSON)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to decode test results", err)
	}

	return booking.ReconstructBooking(
		bookingID, userID, labID,
		tests, packages,
		booking.ReconstructSchedule(appointmentDate, appointmentTime),
		booking.PaymentMethod(method),
		booking.PaymentStatus(payStatus),
		orderID, paymentID, signature,
		booking.ReconstructMoney(paidAmount),
		paymentDate,
		booking.Status(status),
		results,
		reportFile, reportDate,
		notes, userLocation,
		active,
		createdAt, updatedAt,
	), nil
}

// Update persists the aggregate with the guard folded into the WHERE clause.
// Zero matched rows means another writer moved the booking first; the caller
// gets a conflict, never a silent overwrite.
func (r *BookingRepository) Update(ctx context.Context, b *booking.Booking, guard commands.WriteGuard) error {
	tests, packages, results, err := marshalSnapshots(b)
	if err != nil {
		return infra.WrapRepoErr("failed to encode booking snapshots", err)
	}

	upd := psql.Update("bookings").
		Set("selected_tests", tests).
		Set("selected_packages", packages).
		Set("appointment_date", b.Schedule().Date()).
		Set("appointment_time", b.Schedule().TimeOfDay()).
		Set("payment_status", b.PaymentStatus().String()).
		Set("order_id", b.OrderID()).
		Set("payment_id", b.PaymentID()).
		Set("signature", b.Signature()).
		Set("paid_amount", b.PaidAmount().Amount()).
		Set("payment_date", b.PaymentDate()).
		Set("total_amount", b.TotalAmount().Amount()).
		Set("status", b.Status().String()).
		Set("test_results", results).
		Set("report_file", b.ReportFile()).
		Set("report_date", b.ReportUploadedAt()).
		Set("notes", b.Notes()).
		Set("is_active", b.IsActive()).
		Set("updated_at", b.UpdatedAt()).
		Where(squirrel.Eq{"id": b.ID()})

	if len(guard.ExpectStatus) > 0 {
		statuses := make([]string, len(guard.ExpectStatus))
		for i, s := range guard.ExpectStatus {
			statuses[i] = s.String()
		}
		upd = upd.Where(squirrel.Eq{"status": statuses})
	}
	if guard.ExpectPaymentIncomplete {
		upd = upd.Where(squirrel.NotEq{"payment_status": booking.PaymentCompleted.String()})
	}
	if guard.ExpectActive {
		upd = upd.Where(squirrel.Eq{"is_active": true})
	}

	query, args, err := upd.ToSql()
	if err != nil {
		return infra.WrapRepoErr("failed to build booking update", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return infra.WrapPgErr("failed to update booking", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking changed since it was read", nil, infra.KindConflict)
	}
	return nil
}

func marshalSnapshots(b *booking.Booking) (tests, packages, results []byte, err error) {
	tests, err = json.Marshal(toLineItemRows(b.Tests()))
	if err != nil {
		return nil, nil, nil, err
	}
	packages, err = json.Marshal(toLineItemRows(b.Packages()))
	if err != nil {
		return nil, nil, nil, err
	}
	results, err = json.Marshal(toResultSetRows(b.Results()))
	if err != nil {
		return nil, nil, nil, err
	}
	return tests, packages, results, nil
}

func toLineItemRows(items []booking.LineItem) []lineItemRow {
	rows := make([]lineItemRow, len(items))
	for i, item := range items {
		rows[i] = lineItemRow{
			ID:    item.ID(),
			Name:  item.Name(),
			Price: item.Price().Amount(),
		}
	}
	return rows
}

func toResultSetRows(sets map[uuid.UUID]booking.ResultSet) []resultSetRow {
	rows := make([]resultSetRow, 0, len(sets))
	for _, set := range sets {
		rows = append(rows, resultSetRow{
			TestID:      set.TestID(),
			Entries:     set.Entries(),
			SubmittedBy: set.SubmittedBy(),
			SubmittedAt: set.SubmittedAt(),
		})
	}
	return rows
}

func unmarshalLineItems(data []byte) ([]booking.LineItem, error) {
	var rows []lineItemRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, err
	}
	items := make([]booking.LineItem, len(rows))
	for i, row := range rows {
		items[i] = booking.ReconstructLineItem(row.ID, row.Name, booking.ReconstructMoney(row.Price))
	}
	return items, nil
}

func unmarshalResultSets(data []byte) (map[uuid.UUID]booking.ResultSet, error) {
	var rows []resultSetRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, err
	}
	sets := make(map[uuid.UUID]booking.ResultSet, len(rows))
	for _, row := range rows {
		sets[row.TestID] = booking.ReconstructResultSet(row.TestID, row.Entries, row.SubmittedBy, row.SubmittedAt)
	}
	return sets, nil
}
