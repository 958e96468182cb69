//go:build unit

package api_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	nethttptest "net/http/httptest"
	"net/textproto"
	"testing"

	"lab-booking-api/internal/domain/booking"
	"lab-booking-api/internal/domain/user"
	"lab-booking-api/internal/handler/api"
	"lab-booking-api/internal/pkg/errs"
	"lab-booking-api/internal/usecase/commands"
	"lab-booking-api/internal/usecase/queries"
	"lab-booking-api/tests/common/builder"
	"lab-booking-api/tests/common/httptest"
	commandsmock "lab-booking-api/tests/mock/commands"
	queriesmock "lab-booking-api/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type LabHandlerTestSuite struct {
	suite.Suite
	router              *gin.Engine
	mockCtrl            *gomock.Controller
	mockBookingCommands *commandsmock.MockBookingCommands
	mockResultCommands  *commandsmock.MockResultCommands
	mockQueries         *queriesmock.MockBookingQueries
	handler             *api.LabHandler
	labID               uuid.UUID
}

func (s *LabHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockBookingCommands = commandsmock.NewMockBookingCommands(s.mockCtrl)
	s.mockResultCommands = commandsmock.NewMockResultCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockBookingQueries(s.mockCtrl)
	s.handler = api.NewLabHandler(s.mockBookingCommands, s.mockResultCommands, s.mockQueries)
	s.labID = uuid.New()

	authMiddleware := func(c *gin.Context) {
		c.Set("user_id", uuid.New())
		c.Set("user_role", user.RoleLabTechnician)
		c.Set("user_lab", s.labID)
		c.Next()
	}

	s.router.GET("/api/bookings/lab/:labId", authMiddleware, s.handler.ListLabBookings)
	s.router.PUT("/api/bookings/:id/status", authMiddleware, s.handler.UpdateStatus)
	s.router.POST("/api/bookings/:id/results", authMiddleware, s.handler.SubmitResults)
	s.router.POST("/api/bookings/:id/upload-report", authMiddleware, s.handler.UploadReport)
}

func (s *LabHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestLabHandlerSuite(t *testing.T) {
	suite.Run(t, new(LabHandlerTestSuite))
}

func (s *LabHandlerTestSuite) newStaffBooking(status booking.Status) *booking.Booking {
	bb := builder.NewBookingBuilder()
	bb.LabID = s.labID
	return bb.BuildReconstructed(status, booking.PaymentCompleted)
}

// ================================================================================
// TestUpdateStatus
// ================================================================================

func (s *LabHandlerTestSuite) TestUpdateStatus() {
	b := s.newStaffBooking(booking.StatusSampleCollected)
	url := "/api/bookings/" + b.ID().String() + "/status"

	s.Run("success: moves the booking to the requested status", func() {
		s.mockBookingCommands.EXPECT().
			UpdateStatus(gomock.Any(), gomock.Any(), b.ID(), booking.StatusSampleCollected).
			Return(b, nil).Times(1)

		body := map[string]any{"status": "sample_collected"}
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, body, "bearer-token")

		var data map[string]any
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &data)
		s.Equal("sample_collected", data["status"])
	})

	s.Run("error: 400 without a status field", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, map[string]any{}, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request format")
	})

	s.Run("error: 400 on a reserved status target", func() {
		s.mockBookingCommands.EXPECT().
			UpdateStatus(gomock.Any(), gomock.Any(), b.ID(), booking.StatusCompleted).
			Return(nil, booking.ErrStatusNotAssignable).Times(1)

		body := map[string]any{"status": "completed"}
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, body, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "not assignable")
	})
}

// ================================================================================
// TestSubmitResults
// ================================================================================

func (s *LabHandlerTestSuite) TestSubmitResults() {
	b := s.newStaffBooking(booking.StatusSampleCollected)
	url := "/api/bookings/" + b.ID().String() + "/results"

	validBody := map[string]any{
		"results": []map[string]any{
			{
				"testId": uuid.New().String(),
				"entries": []map[string]any{
					{"label": "Hemoglobin", "value": "13.5", "unit": "g/dL"},
				},
			},
		},
	}

	s.Run("success: submits result sets", func() {
		s.mockResultCommands.EXPECT().
			SubmitResults(gomock.Any(), gomock.Any(), b.ID(), gomock.Len(1)).
			Return(b, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, validBody, "bearer-token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: 400 on empty result list", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"results": []any{}}, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request format")
	})

	s.Run("error: 400 on entry without a value label", func() {
		body := map[string]any{
			"results": []map[string]any{
				{
					"testId":  uuid.New().String(),
					"entries": []map[string]any{{"value": "13.5"}},
				},
			},
		}
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request format")
	})

	s.Run("error: 400 once results are published", func() {
		s.mockResultCommands.EXPECT().
			SubmitResults(gomock.Any(), gomock.Any(), b.ID(), gomock.Any()).
			Return(nil, errs.ErrResultsNotAcceptable).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, validBody, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "does not accept results")
	})
}

// ================================================================================
// TestUploadReport
// ================================================================================

func (s *LabHandlerTestSuite) performUpload(url, fieldName, filename, contentType string, payload []byte) *nethttptest.ResponseRecorder {
	s.T().Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="`+fieldName+`"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	s.Require().NoError(err)
	_, err = part.Write(payload)
	s.Require().NoError(err)
	s.Require().NoError(writer.Close())

	req := nethttptest.NewRequest(http.MethodPost, url, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	rec := nethttptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *LabHandlerTestSuite) TestUploadReport() {
	b := s.newStaffBooking(booking.StatusSampleCollected)
	url := "/api/bookings/" + b.ID().String() + "/upload-report"
	payload := []byte("%PDF-1.4 test")

	s.Run("success: forwards the multipart file to the command", func() {
		s.mockResultCommands.EXPECT().
			UploadReport(gomock.Any(), gomock.Any(), b.ID(), gomock.Cond(func(u commands.ReportUpload) bool {
				return u.Filename == "cbc.pdf" && u.ContentType == "application/pdf" && u.Size == int64(len(payload))
			})).
			Return(b, nil).Times(1)

		rec := s.performUpload(url, "report", "cbc.pdf", "application/pdf", payload)
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: 400 without a report file", func() {
		rec := s.performUpload(url, "attachment", "cbc.pdf", "application/pdf", payload)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Report file is required")
	})

	s.Run("error: 400 on an unsupported file type", func() {
		s.mockResultCommands.EXPECT().
			UploadReport(gomock.Any(), gomock.Any(), b.ID(), gomock.Any()).
			Return(nil, errs.ErrInvalidReportFile).Times(1)

		rec := s.performUpload(url, "report", "cbc.zip", "application/zip", payload)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "PDF, JPEG or PNG")
	})
}

// ================================================================================
// TestListLabBookings
// ================================================================================

func (s *LabHandlerTestSuite) TestListLabBookings() {
	s.Run("success: lists bookings for the lab", func() {
		bb := builder.NewBookingBuilder()
		bb.LabID = s.labID
		paged := &queries.PagedBookings{
			Items: []*queries.BookingListItem{bb.BuildListItem()},
			Total: 1,
			Page:  1,
			Limit: 20,
		}
		s.mockQueries.EXPECT().
			ListForLab(gomock.Any(), gomock.Any(), s.labID, gomock.Nil(), gomock.Any()).
			Return(paged, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/bookings/lab/"+s.labID.String(), nil, "bearer-token")

		var data map[string]any
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &data)
		s.EqualValues(1, data["total"])
	})

	s.Run("error: 400 on malformed lab id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/bookings/lab/not-a-uuid", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid lab ID format")
	})
}
