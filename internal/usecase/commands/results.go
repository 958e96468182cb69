package commands

import (
	"context"
	"io"
	"log/slog"
	"path"
	"strings"

	"lab-booking-api/internal/domain/booking"
	"lab-booking-api/internal/pkg/clock"
	"lab-booking-api/internal/pkg/errs"
	"lab-booking-api/internal/usecase/authz"

	"github.com/google/uuid"
)

const MaxReportSize = 10 << 20 // 10MB

var allowedReportTypes = map[string]string{
	"application/pdf": ".pdf",
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
}

type ResultEntryInput struct {
	Label          string
	Value          string
	Unit           string
	ReferenceRange string
	Type           string
	Required       bool
}

type ResultSetInput struct {
	TestID  uuid.UUID
	Entries []ResultEntryInput
}

type ReportUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type ResultCommands interface {
	SubmitResults(ctx context.Context, actor *authz.Actor, bookingID uuid.UUID, sets []ResultSetInput) (*booking.Booking, error)
	UploadReport(ctx context.Context, actor *authz.Actor, bookingID uuid.UUID, upload ReportUpload) (*booking.Booking, error)
}

type resultCommandsImpl struct {
	bookings BookingRepository
	files    FileStore
	engine   *authz.Engine
	mailer   Mailer
	clock    clock.Clock
	logger   *slog.Logger
}

func NewResultCommands(
	bookings BookingRepository,
	files FileStore,
	engine *authz.Engine,
	mailer Mailer,
	clk clock.Clock,
	logger *slog.Logger,
) ResultCommands {
	return &resultCommandsImpl{
		bookings: bookings,
		files:    files,
		engine:   engine,
		mailer:   mailer,
		clock:    clk,
		logger:   logger,
	}
}

// SubmitResults upserts result sets keyed by test id. An incoming submission
// replaces any existing set for the same test wholesale; all others stay
// untouched.
func (c *resultCommandsImpl) SubmitResults(ctx context.Context, actor *authz.Actor, bookingID uuid.UUID, sets []ResultSetInput) (*booking.Booking, error) {
	b, err := loadScopedBooking(ctx, c.bookings, c.engine, actor, bookingID, authz.OpSubmitResults)
	if err != nil {
		return nil, err
	}
	if !b.Status().AcceptsResults() {
		return nil, errs.ErrResultsNotAcceptable
	}

	now := c.clock.Now()
	domainSets := make([]booking.ResultSet, 0, len(sets))
	for _, in := range sets {
		entries := make([]booking.ResultEntry, len(in.Entries))
		for i, e := range in.Entries {
			entries[i] = booking.ResultEntry{
				Label:          e.Label,
				Value:          e.Value,
				Unit:           e.Unit,
				ReferenceRange: e.ReferenceRange,
				Type:           e.Type,
				Required:       e.Required,
			}
		}
		set, err := booking.NewResultSet(in.TestID, entries, actor.ID, now)
		if err != nil {
			return nil, errs.Mark(err, errs.ErrDomainValidation)
		}
		domainSets = append(domainSets, set)
	}

	from := b.Status()
	if err := b.SubmitResults(domainSets, now); err != nil {
		return nil, err
	}

	guard := WriteGuard{ExpectStatus: []booking.Status{from}, ExpectActive: true}
	if err := persistBooking(ctx, c.bookings, b, guard); err != nil {
		return nil, err
	}

	c.mailer.Send("results_published", b.UserID(), map[string]string{"booking_id": b.ID().String()})
	return b, nil
}

// UploadReport stores the report file first, then attaches it under the status
// guard. If the guarded write loses, the stored file is cleaned up best-effort;
// a cleanup failure is logged and swallowed, never surfaced.
func (c *resultCommandsImpl) UploadReport(ctx context.Context, actor *authz.Actor, bookingID uuid.UUID, upload ReportUpload) (*booking.Booking, error) {
	ext, ok := allowedReportTypes[upload.ContentType]
	if !ok || upload.Size <= 0 || upload.Size > MaxReportSize {
		return nil, errs.ErrInvalidReportFile
	}

	b, err := loadScopedBooking(ctx, c.bookings, c.engine, actor, bookingID, authz.OpUploadReport)
	if err != nil {
		return nil, err
	}
	if !b.Status().AcceptsResults() {
		return nil, errs.ErrReportNotAcceptable
	}

	key := reportKey(b.ID(), upload.Filename, ext)
	storedKey, err := c.files.Save(ctx, key, upload.ContentType, upload.Body, upload.Size)
	if err != nil {
		return nil, errs.Wrap(err, "failed to store report file")
	}

	now := c.clock.Now()
	from := b.Status()
	if err := b.AttachReport(storedKey, now); err != nil {
		c.cleanupFile(ctx, storedKey)
		return nil, err
	}

	guard := WriteGuard{ExpectStatus: []booking.Status{from}, ExpectActive: true}
	if err := persistBooking(ctx, c.bookings, b, guard); err != nil {
		c.cleanupFile(ctx, storedKey)
		return nil, err
	}

	c.mailer.Send("report_uploaded", b.UserID(), map[string]string{"booking_id": b.ID().String()})
	return b, nil
}

func (c *resultCommandsImpl) cleanupFile(ctx context.Context, key string) {
	if err := c.files.Delete(ctx, key); err != nil {
		c.logger.Warn("failed to clean up report file", "key", key, "error", err)
	}
}

func reportKey(bookingID uuid.UUID, filename, ext string) string {
	base := strings.TrimSuffix(path.Base(filename), path.Ext(filename))
	if base == "" || base == "." {
		base = "report"
	}
	return "reports/" + bookingID.String() + "/" + uuid.New().String() + "-" + base + ext
}
