//go:build unit

package commands_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"lab-booking-api/internal/domain/booking"
	"lab-booking-api/internal/infra"
	"lab-booking-api/internal/pkg/clock"
	"lab-booking-api/internal/pkg/errs"
	"lab-booking-api/internal/usecase/commands"
	"lab-booking-api/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type resultCommandsEnv struct {
	repo   *MockBookingRepository
	files  *MockFileStore
	mailer *recordingMailer
	sut    commands.ResultCommands
}

func newResultCommandsEnv(now time.Time) *resultCommandsEnv {
	env := &resultCommandsEnv{
		repo:   new(MockBookingRepository),
		files:  new(MockFileStore),
		mailer: &recordingMailer{},
	}
	env.sut = commands.NewResultCommands(env.repo, env.files, newEngine(), env.mailer, clock.NewMockClock(now), silentLogger())
	return env
}

func resultInput(testID uuid.UUID, value string) commands.ResultSetInput {
	return commands.ResultSetInput{
		TestID: testID,
		Entries: []commands.ResultEntryInput{
			{Label: "Hemoglobin", Value: value, Unit: "g/dL", ReferenceRange: "12-16"},
		},
	}
}

func TestSubmitResults(t *testing.T) {
	ctx := context.Background()
	bb := builder.NewBookingBuilder()

	t.Run("publishes results and notifies the owner", func(t *testing.T) {
		env := newResultCommandsEnv(bb.Now)
		stored := bb.BuildReconstructed(booking.StatusSampleCollected, booking.PaymentCompleted)
		env.repo.On("FindByID", mock.Anything, stored.ID()).Return(stored, nil)
		env.repo.On("Update", mock.Anything, stored, mock.MatchedBy(func(g commands.WriteGuard) bool {
			return len(g.ExpectStatus) == 1 && g.ExpectStatus[0] == booking.StatusSampleCollected && g.ExpectActive
		})).Return(nil)

		actor := staffActor(bb.LabID)
		b, err := env.sut.SubmitResults(ctx, actor, stored.ID(), []commands.ResultSetInput{resultInput(bb.TestID, "13.5")})
		require.NoError(t, err)

		assert.Equal(t, booking.StatusResultPublished, b.Status())
		require.Len(t, b.Results(), 1)
		set := b.Results()[bb.TestID]
		assert.Equal(t, actor.ID, set.SubmittedBy())
		assert.Equal(t, "13.5", set.Entries()[0].Value)

		require.Len(t, env.mailer.sent, 1)
		assert.Equal(t, "results_published", env.mailer.sent[0].template)
		assert.Equal(t, bb.UserID, env.mailer.sent[0].userID)
	})

	t.Run("status outside the accepting set is rejected", func(t *testing.T) {
		env := newResultCommandsEnv(bb.Now)
		stored := bb.BuildReconstructed(booking.StatusResultPublished, booking.PaymentCompleted)
		env.repo.On("FindByID", mock.Anything, stored.ID()).Return(stored, nil)

		_, err := env.sut.SubmitResults(ctx, staffActor(bb.LabID), stored.ID(), []commands.ResultSetInput{resultInput(bb.TestID, "13.5")})
		assert.ErrorIs(t, err, errs.ErrResultsNotAcceptable)
	})

	t.Run("entry without a label is a validation error", func(t *testing.T) {
		env := newResultCommandsEnv(bb.Now)
		stored := bb.BuildReconstructed(booking.StatusSampleCollected, booking.PaymentCompleted)
		env.repo.On("FindByID", mock.Anything, stored.ID()).Return(stored, nil)

		in := commands.ResultSetInput{
			TestID:  bb.TestID,
			Entries: []commands.ResultEntryInput{{Label: "  ", Value: "13.5"}},
		}
		_, err := env.sut.SubmitResults(ctx, staffActor(bb.LabID), stored.ID(), []commands.ResultSetInput{in})
		assert.ErrorIs(t, err, errs.ErrDomainValidation)
	})
}

func TestUploadReport(t *testing.T) {
	ctx := context.Background()
	bb := builder.NewBookingBuilder()

	upload := func() commands.ReportUpload {
		return commands.ReportUpload{
			Filename:    "cbc-report.pdf",
			ContentType: "application/pdf",
			Size:        2048,
			Body:        strings.NewReader("%PDF-1.4"),
		}
	}

	t.Run("stores the file and publishes", func(t *testing.T) {
		env := newResultCommandsEnv(bb.Now)
		stored := bb.BuildReconstructed(booking.StatusSampleCollected, booking.PaymentCompleted)
		env.repo.On("FindByID", mock.Anything, stored.ID()).Return(stored, nil)
		env.repo.On("Update", mock.Anything, stored, mock.Anything).Return(nil)

		var savedKey string
		env.files.On("Save", mock.Anything, mock.MatchedBy(func(key string) bool {
			savedKey = key
			return strings.HasPrefix(key, "reports/"+stored.ID().String()+"/") && strings.HasSuffix(key, "-cbc-report.pdf")
		}), "application/pdf", mock.Anything, int64(2048)).Return("reports/stored-key.pdf", nil)

		b, err := env.sut.UploadReport(ctx, staffActor(bb.LabID), stored.ID(), upload())
		require.NoError(t, err)

		assert.NotEmpty(t, savedKey)
		assert.Equal(t, booking.StatusResultPublished, b.Status())
		require.NotNil(t, b.ReportFile())
		assert.Equal(t, "reports/stored-key.pdf", *b.ReportFile())

		require.Len(t, env.mailer.sent, 1)
		assert.Equal(t, "report_uploaded", env.mailer.sent[0].template)
	})

	t.Run("file validation happens before any IO", func(t *testing.T) {
		cases := []struct {
			name   string
			mutate func(*commands.ReportUpload)
		}{
			{"unsupported content type", func(u *commands.ReportUpload) { u.ContentType = "application/zip" }},
			{"zero size", func(u *commands.ReportUpload) { u.Size = 0 }},
			{"oversized file", func(u *commands.ReportUpload) { u.Size = commands.MaxReportSize + 1 }},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				env := newResultCommandsEnv(bb.Now)
				u := upload()
				tc.mutate(&u)

				_, err := env.sut.UploadReport(ctx, staffActor(bb.LabID), uuid.New(), u)
				assert.ErrorIs(t, err, errs.ErrInvalidReportFile)
				env.repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
				env.files.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			})
		}
	})

	t.Run("losing the guarded write cleans up the stored file", func(t *testing.T) {
		env := newResultCommandsEnv(bb.Now)
		stored := bb.BuildReconstructed(booking.StatusSampleCollected, booking.PaymentCompleted)
		env.repo.On("FindByID", mock.Anything, stored.ID()).Return(stored, nil)
		env.repo.On("Update", mock.Anything, stored, mock.Anything).
			Return(infra.WrapRepoErr("booking changed since it was read", nil, infra.KindConflict))
		env.files.On("Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return("reports/stored-key.pdf", nil)
		env.files.On("Delete", mock.Anything, "reports/stored-key.pdf").Return(nil)

		_, err := env.sut.UploadReport(ctx, staffActor(bb.LabID), stored.ID(), upload())
		assert.ErrorIs(t, err, errs.ErrConcurrentUpdate)
		env.files.AssertCalled(t, "Delete", mock.Anything, "reports/stored-key.pdf")
		assert.Empty(t, env.mailer.sent)
	})

	t.Run("cleanup failure is swallowed", func(t *testing.T) {
		env := newResultCommandsEnv(bb.Now)
		stored := bb.BuildReconstructed(booking.StatusSampleCollected, booking.PaymentCompleted)
		env.repo.On("FindByID", mock.Anything, stored.ID()).Return(stored, nil)
		env.repo.On("Update", mock.Anything, stored, mock.Anything).
			Return(infra.WrapRepoErr("booking changed since it was read", nil, infra.KindConflict))
		env.files.On("Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return("reports/stored-key.pdf", nil)
		env.files.On("Delete", mock.Anything, "reports/stored-key.pdf").Return(errs.New("access denied"))

		_, err := env.sut.UploadReport(ctx, staffActor(bb.LabID), stored.ID(), upload())
		assert.ErrorIs(t, err, errs.ErrConcurrentUpdate)
	})

	t.Run("booking outside the accepting set never stores a file", func(t *testing.T) {
		env := newResultCommandsEnv(bb.Now)
		stored := bb.BuildReconstructed(booking.StatusPending, booking.PaymentPending)
		env.repo.On("FindByID", mock.Anything, stored.ID()).Return(stored, nil)

		_, err := env.sut.UploadReport(ctx, staffActor(bb.LabID), stored.ID(), upload())
		assert.ErrorIs(t, err, errs.ErrReportNotAcceptable)
		env.files.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
