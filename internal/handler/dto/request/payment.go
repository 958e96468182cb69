package request

import "lab-booking-api/internal/usecase/commands"

type ConfirmPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpayOrderId" binding:"required"`
	RazorpayPaymentID string `json:"razorpayPaymentId" binding:"required"`
	RazorpaySignature string `json:"razorpaySignature" binding:"required"`
}

func (r ConfirmPaymentRequest) ToInput() commands.ConfirmPaymentInput {
	return commands.ConfirmPaymentInput{
		OrderID:   r.RazorpayOrderID,
		PaymentID: r.RazorpayPaymentID,
		Signature: r.RazorpaySignature,
	}
}
