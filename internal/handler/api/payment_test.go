//go:build unit

package api_test

import (
	"net/http"
	"testing"

	"lab-booking-api/internal/domain/booking"
	"lab-booking-api/internal/domain/user"
	"lab-booking-api/internal/handler/api"
	"lab-booking-api/internal/pkg/errs"
	"lab-booking-api/internal/usecase/commands"
	"lab-booking-api/tests/common/builder"
	"lab-booking-api/tests/common/httptest"
	"lab-booking-api/tests/common/testutil"
	commandsmock "lab-booking-api/tests/mock/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type PaymentHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockPaymentCommands
	handler      *api.PaymentHandler
	userID       uuid.UUID
}

func (s *PaymentHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockPaymentCommands(s.mockCtrl)
	s.handler = api.NewPaymentHandler(s.mockCommands)
	s.userID = uuid.New()

	authMiddleware := func(c *gin.Context) {
		c.Set("user_id", s.userID)
		c.Set("user_role", user.RoleUser)
		c.Next()
	}

	s.router.POST("/api/bookings/:id/create-order", authMiddleware, s.handler.CreateOrder)
	s.router.POST("/api/bookings/:id/payment", authMiddleware, s.handler.ConfirmPayment)
	s.router.POST("/api/bookings/:id/lab-payment", authMiddleware, s.handler.ProcessLabPayment)
}

func (s *PaymentHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestPaymentHandlerSuite(t *testing.T) {
	suite.Run(t, new(PaymentHandlerTestSuite))
}

// ================================================================================
// TestCreateOrder
// ================================================================================

func (s *PaymentHandlerTestSuite) TestCreateOrder() {
	bookingID := uuid.New()
	url := "/api/bookings/" + bookingID.String() + "/create-order"

	s.Run("success: returns the gateway order", func() {
		order := &commands.GatewayOrder{OrderID: "order_abc", AmountMinor: 244900, Currency: "INR"}
		s.mockCommands.EXPECT().CreateOrder(gomock.Any(), gomock.Any(), bookingID).
			Return(order, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")

		var data map[string]any
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &data)
		s.Equal("order_abc", data["orderId"])
		s.EqualValues(244900, data["amount"])
		s.Equal("INR", data["currency"])
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{
				name:           "pay_later booking",
				commandsError:  errs.ErrInvalidPaymentState,
				expectedStatus: http.StatusBadRequest,
				expectedMsg:    "not valid for this booking",
			},
			{
				name:           "payment already processed",
				commandsError:  errs.ErrPaymentAlreadyDone,
				expectedStatus: http.StatusBadRequest,
				expectedMsg:    "already been processed",
			},
			{
				name:           "gateway unavailable",
				commandsError:  errs.ErrGatewayUnavailable,
				expectedStatus: http.StatusInternalServerError,
				expectedMsg:    "gateway is unavailable",
			},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().CreateOrder(gomock.Any(), gomock.Any(), bookingID).
					Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}

// ================================================================================
// TestConfirmPayment
// ================================================================================

func (s *PaymentHandlerTestSuite) TestConfirmPayment() {
	bb := builder.NewBookingBuilder()
	bb.UserID = s.userID
	bookingID := uuid.New()
	url := "/api/bookings/" + bookingID.String() + "/payment"

	reqBody := map[string]any{
		"razorpayOrderId":   "order_abc",
		"razorpayPaymentId": "pay_def",
		"razorpaySignature": "sig",
	}

	s.Run("success: confirms the payment", func() {
		b := bb.BuildReconstructed(booking.StatusConfirmed, booking.PaymentCompleted)
		s.mockCommands.EXPECT().
			ConfirmPayment(gomock.Any(), gomock.Any(), bookingID, commands.ConfirmPaymentInput{
				OrderID: "order_abc", PaymentID: "pay_def", Signature: "sig",
			}).
			Return(b, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")

		var data map[string]any
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &data)
		s.Equal("completed", data["paymentStatus"])
	})

	s.Run("error: 400 on missing gateway fields", func() {
		for _, field := range []string{"razorpayOrderId", "razorpayPaymentId", "razorpaySignature"} {
			s.Run("missing "+field, func() {
				body := testutil.DtoMap(s.T(), reqBody, testutil.Field(field, nil))
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request format")
			})
		}
	})

	s.Run("error: 400 on signature verification failure", func() {
		s.mockCommands.EXPECT().ConfirmPayment(gomock.Any(), gomock.Any(), bookingID, gomock.Any()).
			Return(nil, errs.ErrInvalidSignature).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "signature verification failed")
	})

	s.Run("error: 400 when the order belongs to another booking", func() {
		s.mockCommands.EXPECT().ConfirmPayment(gomock.Any(), gomock.Any(), bookingID, gomock.Any()).
			Return(nil, booking.ErrOrderMismatch).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "does not belong to this booking")
	})
}

// ================================================================================
// TestProcessLabPayment
// ================================================================================

func (s *PaymentHandlerTestSuite) TestProcessLabPayment() {
	bb := builder.NewBookingBuilder()
	bb.PaymentMethod = booking.PayLater
	bookingID := uuid.New()
	url := "/api/bookings/" + bookingID.String() + "/lab-payment"

	s.Run("success: records the lab payment", func() {
		b := bb.BuildReconstructed(booking.StatusSampleCollected, booking.PaymentCompleted)
		s.mockCommands.EXPECT().ProcessLabPayment(gomock.Any(), gomock.Any(), bookingID).
			Return(b, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")

		var data map[string]any
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &data)
		s.Equal("pay_later", data["paymentMethod"])
		s.Equal("completed", data["paymentStatus"])
	})

	s.Run("error: 400 on a pay_now booking", func() {
		s.mockCommands.EXPECT().ProcessLabPayment(gomock.Any(), gomock.Any(), bookingID).
			Return(nil, errs.ErrInvalidPaymentState).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "not valid for this booking")
	})
}
