package api

import (
	"net/http"

	reqdto "lab-booking-api/internal/handler/dto/request"
	resdto "lab-booking-api/internal/handler/dto/response"
	"lab-booking-api/internal/handler/httperr"
	"lab-booking-api/internal/handler/middleware"
	"lab-booking-api/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	commands commands.PaymentCommands
}

func NewPaymentHandler(paymentCommands commands.PaymentCommands) *PaymentHandler {
	return &PaymentHandler{commands: paymentCommands}
}

type gatewayOrderResponse struct {
	OrderID  string `json:"orderId"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		internalError(c)
		return
	}

	id, ok := parseBookingID(c)
	if !ok {
		return
	}

	order, err := h.commands.CreateOrder(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}

	httperr.OK(c, http.StatusOK, "Payment order created", gatewayOrderResponse{
		OrderID:  order.OrderID,
		Amount:   order.AmountMinor,
		Currency: order.Currency,
	})
}

func (h *PaymentHandler) ConfirmPayment(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		internalError(c)
		return
	}

	id, ok := parseBookingID(c)
	if !ok {
		return
	}

	var req reqdto.ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	b, err := h.commands.ConfirmPayment(c.Request.Context(), actor, id, req.ToInput())
	if err != nil {
		respondError(c, err)
		return
	}

	httperr.OK(c, http.StatusOK, "Payment confirmed successfully", resdto.FromBooking(b))
}

func (h *PaymentHandler) ProcessLabPayment(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		internalError(c)
		return
	}

	id, ok := parseBookingID(c)
	if !ok {
		return
	}

	b, err := h.commands.ProcessLabPayment(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}

	httperr.OK(c, http.StatusOK, "Payment recorded successfully", resdto.FromBooking(b))
}
