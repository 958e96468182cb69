//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"

	"lab-booking-api/internal/domain/booking"
	"lab-booking-api/internal/domain/user"
	"lab-booking-api/internal/handler/api"
	"lab-booking-api/internal/handler/httperr"
	"lab-booking-api/internal/pkg/errs"
	"lab-booking-api/internal/usecase/queries"
	"lab-booking-api/tests/common/builder"
	"lab-booking-api/tests/common/httptest"
	"lab-booking-api/tests/common/testutil"
	commandsmock "lab-booking-api/tests/mock/commands"
	queriesmock "lab-booking-api/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type BookingHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockBookingCommands
	mockQueries  *queriesmock.MockBookingQueries
	handler      *api.BookingHandler
	userID       uuid.UUID
}

func (s *BookingHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockBookingCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockBookingQueries(s.mockCtrl)
	s.handler = api.NewBookingHandler(s.mockCommands, s.mockQueries)
	s.userID = uuid.New()

	// Mock authentication middleware for testing
	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, httperr.Envelope{Success: false, Message: "Unauthorized"})
			return
		}
		c.Set("user_id", s.userID)
		c.Set("user_role", user.RoleUser)
		c.Next()
	}

	// Setup routes
	s.router.POST("/api/bookings", authMiddleware, s.handler.Create)
	s.router.GET("/api/bookings", authMiddleware, s.handler.List)
	s.router.GET("/api/bookings/:id", authMiddleware, s.handler.Get)
	s.router.PUT("/api/bookings/:id", authMiddleware, s.handler.Update)
	s.router.DELETE("/api/bookings/:id", authMiddleware, s.handler.Cancel)
}

func (s *BookingHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestBookingHandlerSuite(t *testing.T) {
	suite.Run(t, new(BookingHandlerTestSuite))
}

type bookingTestCase struct {
	name       string
	mutate     func(m map[string]any)
	expectCode int
}

// ================================================================================
// TestCreate
// ================================================================================

func (s *BookingHandlerTestSuite) TestCreate() {
	url := "/api/bookings"

	bb := builder.NewBookingBuilder()
	bb.UserID = s.userID
	reqBody := bb.BuildCreateRequestDTO()

	newReturn := func() *booking.Booking {
		b, err := bb.BuildDomain()
		s.Require().NoError(err)
		return b
	}

	s.Run("success: returns 201 Created for valid request", func() {
		b, err := bb.BuildDomain()
		s.Require().NoError(err)
		s.mockCommands.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(b, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")

		var body map[string]any
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
		s.Equal(b.ID().String(), body["id"])
		s.Equal(string(b.Status()), body["status"])
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		validationCases := []bookingTestCase{
			{name: "missing field: labId (required)", mutate: testutil.Field("labId", nil), expectCode: http.StatusBadRequest},
			{name: "missing field: appointmentDate (required)", mutate: testutil.Field("appointmentDate", nil), expectCode: http.StatusBadRequest},
			{name: "missing field: appointmentTime (required)", mutate: testutil.Field("appointmentTime", nil), expectCode: http.StatusBadRequest},
			{name: "missing field: paymentMethod (required)", mutate: testutil.Field("paymentMethod", nil), expectCode: http.StatusBadRequest},
			{name: "invalid payment method value", mutate: testutil.Field("paymentMethod", "cash"), expectCode: http.StatusBadRequest},
			{name: "valid pay_later method", mutate: testutil.Field("paymentMethod", "pay_later"), expectCode: http.StatusCreated},
		}

		for _, tc := range validationCases {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)

				if tc.expectCode == http.StatusCreated {
					s.mockCommands.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).
						Return(newReturn(), nil).Times(1)
				}
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "bearer-token")
				if tc.expectCode == http.StatusCreated {
					httptest.AssertSuccessResponse(s.T(), rec, tc.expectCode, nil)
				} else {
					httptest.AssertErrorResponse(s.T(), rec, tc.expectCode, "")
				}
			})
		}
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Unauthorized")
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{
				name:           "lab not found",
				commandsError:  errs.ErrLabNotFound,
				expectedStatus: http.StatusNotFound,
				expectedMsg:    "Lab not found",
			},
			{
				name:           "test not available",
				commandsError:  errs.ErrTestNotAvailable,
				expectedStatus: http.StatusBadRequest,
				expectedMsg:    "not available at this lab",
			},
			{
				name:           "price mismatch",
				commandsError:  errs.ErrPriceMismatch,
				expectedStatus: http.StatusBadRequest,
				expectedMsg:    "does not match the lab catalog",
			},
			{
				name:           "domain validation error",
				commandsError:  errs.Mark(errs.New("appointment time required"), errs.ErrDomainValidation),
				expectedStatus: http.StatusBadRequest,
				expectedMsg:    "Validation failed",
			},
			{
				name:           "internal server error",
				commandsError:  errors.New("database error"),
				expectedStatus: http.StatusInternalServerError,
				expectedMsg:    "Internal server error",
			},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}

// ================================================================================
// TestGet
// ================================================================================

func (s *BookingHandlerTestSuite) TestGet() {
	bb := builder.NewBookingBuilder()
	bb.UserID = s.userID
	view := bb.BuildView()
	url := "/api/bookings/" + view.ID.String()

	s.Run("success: returns the booking view", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), gomock.Any(), view.ID).
			Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")

		var body map[string]any
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(view.ID.String(), body["id"])
		s.Equal(view.LabName, body["labName"])
	})

	s.Run("error: 400 on malformed booking id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/bookings/not-a-uuid", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid booking ID format")
	})

	s.Run("error: 404 when the booking does not exist", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), gomock.Any(), view.ID).
			Return(nil, errs.ErrBookingNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Booking not found")
	})
}

// ================================================================================
// TestList
// ================================================================================

func (s *BookingHandlerTestSuite) TestList() {
	url := "/api/bookings"
	bb := builder.NewBookingBuilder()

	s.Run("success: returns the caller's paged bookings", func() {
		paged := &queries.PagedBookings{
			Items: []*queries.BookingListItem{bb.BuildListItem()},
			Total: 1,
			Page:  1,
			Limit: 20,
		}
		s.mockQueries.EXPECT().ListForUser(gomock.Any(), s.userID, gomock.Nil(), queries.NewPage(1, 20)).
			Return(paged, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")

		var body map[string]any
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.EqualValues(1, body["total"])
	})

	s.Run("success: forwards page and status filters", func() {
		status := gomock.Not(gomock.Nil())
		s.mockQueries.EXPECT().ListForUser(gomock.Any(), s.userID, status, queries.NewPage(2, 5)).
			Return(&queries.PagedBookings{Page: 2, Limit: 5}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url+"?page=2&limit=5&status=confirmed", nil, "bearer-token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: 400 on unknown status filter", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url+"?status=archived", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Unknown booking status")
	})
}

// ================================================================================
// TestUpdate
// ================================================================================

func (s *BookingHandlerTestSuite) TestUpdate() {
	bb := builder.NewBookingBuilder()
	bb.UserID = s.userID
	bookingID := uuid.New()
	url := "/api/bookings/" + bookingID.String()

	s.Run("success: reschedules the booking", func() {
		b, err := bb.BuildDomain()
		s.Require().NoError(err)
		s.mockCommands.EXPECT().Update(gomock.Any(), gomock.Any(), bookingID, gomock.Any()).
			Return(b, nil).Times(1)

		body := map[string]any{"appointmentTime": "04:00 PM"}
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, body, "bearer-token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: 400 when a concurrent write wins", func() {
		s.mockCommands.EXPECT().Update(gomock.Any(), gomock.Any(), bookingID, gomock.Any()).
			Return(nil, errs.ErrConcurrentUpdate).Times(1)

		body := map[string]any{"notes": "updated"}
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, body, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "modified by another request")
	})

	s.Run("error: 400 once the booking is past editing", func() {
		s.mockCommands.EXPECT().Update(gomock.Any(), gomock.Any(), bookingID, gomock.Any()).
			Return(nil, booking.ErrNotEditable).Times(1)

		body := map[string]any{"notes": "updated"}
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, body, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "can no longer be modified")
	})
}

// ================================================================================
// TestCancel
// ================================================================================

func (s *BookingHandlerTestSuite) TestCancel() {
	bb := builder.NewBookingBuilder()
	bb.UserID = s.userID
	bookingID := uuid.New()
	url := "/api/bookings/" + bookingID.String()

	s.Run("success: cancels the booking", func() {
		b, err := bb.BuildDomain()
		s.Require().NoError(err)
		s.mockCommands.EXPECT().Cancel(gomock.Any(), gomock.Any(), bookingID).
			Return(b, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, "bearer-token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: 400 inside the cancellation window", func() {
		s.mockCommands.EXPECT().Cancel(gomock.Any(), gomock.Any(), bookingID).
			Return(nil, booking.ErrCancellationTooLate).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "at least 24 hours")
	})
}
