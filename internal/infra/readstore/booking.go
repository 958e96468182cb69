package readstore

import (
	"context"
	"encoding/json"

	"lab-booking-api/internal/domain/booking"
	"lab-booking-api/internal/infra"
	"lab-booking-api/internal/usecase/queries"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// DB is the subset of pgxpool.Pool the read stores need.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type BookingReadStore struct {
	db DB
}

func NewBookingReadStore(db DB) *BookingReadStore {
	return &BookingReadStore{db: db}
}

func (r *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	query, args, err := psql.Select(
		"b.id", "b.user_id", "u.email",
		"b.lab_id", "l.name",
		"b.selected_tests", "b.selected_packages",
		"b.appointment_date", "b.appointment_time",
		"b.payment_method", "b.payment_status",
		"b.order_id", "b.payment_id",
		"b.paid_amount", "b.payment_date", "b.total_amount",
		"b.status", "b.test_results",
		"b.report_file", "b.report_date",
		"b.notes", "b.user_location",
		"b.is_active", "b.created_at", "b.updated_at",
	).
		From("bookings b").
		Join("users u ON u.id = b.user_id").
		Join("labs l ON l.id = b.lab_id").
		Where(squirrel.Eq{"b.id": id}).
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build booking view select", err)
	}

	var (
		view                                 queries.BookingView
		testsJSON, packagesJSON, resultsJSON []byte
	)
	err = r.db.QueryRow(ctx, query, args...).Scan(
		&view.ID, &view.UserID, &view.UserEmail,
		&view.LabID, &view.LabName,
		&testsJSON, &packagesJSON,
		&view.AppointmentDate, &view.AppointmentTime,
		&view.PaymentMethod, &view.PaymentStatus,
		&view.OrderID, &view.PaymentID,
		&view.PaidAmount, &view.PaymentDate, &view.TotalAmount,
		&view.Status, &resultsJSON,
		&view.ReportFile, &view.ReportUploadDate,
		&view.Notes, &view.UserLocation,
		&view.IsActive, &view.CreatedAt, &view.UpdatedAt,
	)
	if err != nil {
		return nil, infra.WrapPgErr("failed to find booking view", err)
	}

	if err := json.Unmarshal(testsJSON, &view.SelectedTests); err != nil {
		return nil, infra.WrapRepoErr("failed to decode selected tests", err)
	}
	if err := json.Unmarshal(packagesJSON, &view.SelectedPackages); err != nil {
		return nil, infra.WrapRepoErr("failed to decode selected packages", err)
	}
	if err := json.Unmarshal(resultsJSON, &view.TestResults); err != nil {
		return nil, infra.WrapRepoErr("failed to decode test results", err)
	}

	return &view, nil
}

func (r *BookingReadStore) FindByUser(ctx context.Context, userID uuid.UUID, status *booking.Status, page queries.Page) ([]*queries.BookingListItem, int64, error) {
	return r.list(ctx, squirrel.Eq{"b.user_id": userID}, status, page)
}

func (r *BookingReadStore) FindByLab(ctx context.Context, labID uuid.UUID, status *booking.Status, page queries.Page) ([]*queries.BookingListItem, int64, error) {
	return r.list(ctx, squirrel.Eq{"b.lab_id": labID}, status, page)
}

func (r *BookingReadStore) FindAll(ctx context.Context, status *booking.Status, page queries.Page) ([]*queries.BookingListItem, int64, error) {
	return r.list(ctx, nil, status, page)
}

func (r *BookingReadStore) list(ctx context.Context, scope squirrel.Sqlizer, status *booking.Status, page queries.Page) ([]*queries.BookingListItem, int64, error) {
	sel := psql.Select(
		"b.id", "b.lab_id", "l.name",
		"b.appointment_date", "b.appointment_time",
		"b.status", "b.payment_method", "b.payment_status",
		"b.total_amount", "b.created_at",
	).
		From("bookings b").
		Join("labs l ON l.id = b.lab_id").
		Where(squirrel.Eq{"b.is_active": true})

	count := psql.Select("COUNT(*)").
		From("bookings b").
		Where(squirrel.Eq{"b.is_active": true})

	if scope != nil {
		sel = sel.Where(scope)
		count = count.Where(scope)
	}
	if status != nil {
		sel = sel.Where(squirrel.Eq{"b.status": status.String()})
		count = count.Where(squirrel.Eq{"b.status": status.String()})
	}

	sel = sel.
		OrderBy("b.created_at DESC, b.id DESC").
		Limit(uint64(page.Limit)).
		Offset(uint64(page.Offset()))

	query, args, err := sel.ToSql()
	if err != nil {
		return nil, 0, infra.WrapRepoErr("failed to build booking list select", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, infra.WrapPgErr("failed to list bookings", err)
	}
	defer rows.Close()

	items := make([]*queries.BookingListItem, 0)
	for rows.Next() {
		var item queries.BookingListItem
		err := rows.Scan(
			&item.ID, &item.LabID, &item.LabName,
			&item.AppointmentDate, &item.AppointmentTime,
			&item.Status, &item.PaymentMethod, &item.PaymentStatus,
			&item.TotalAmount, &item.CreatedAt,
		)
		if err != nil {
			return nil, 0, infra.WrapRepoErr("failed to scan booking list item", err)
		}
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, infra.WrapRepoErr("failed to read booking list rows", err)
	}

	countQuery, countArgs, err := count.ToSql()
	if err != nil {
		return nil, 0, infra.WrapRepoErr("failed to build booking count select", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, infra.WrapPgErr("failed to count bookings", err)
	}

	return items, total, nil
}
