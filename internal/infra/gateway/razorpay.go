package gateway

import (
	"context"

	"lab-booking-api/internal/pkg/config"
	"lab-booking-api/internal/pkg/errs"

	razorpay "github.com/razorpay/razorpay-go"
	"github.com/razorpay/razorpay-go/utils"
)

// RazorpayGateway wraps the Razorpay SDK behind the payment port. Signature
// verification uses the key secret; a booking payment is never completed
// without it passing.
type RazorpayGateway struct {
	client *razorpay.Client
	secret string
}

func NewRazorpayGateway(cfg config.RazorpayConfig) *RazorpayGateway {
	return &RazorpayGateway{
		client: razorpay.NewClient(cfg.KeyID, cfg.KeySecret),
		secret: cfg.KeySecret,
	}
}

func (g *RazorpayGateway) CreateOrder(_ context.Context, amountMinor int64, currency, receipt string) (string, error) {
	data := map[string]interface{}{
		"amount":   amountMinor,
		"currency": currency,
		"receipt":  receipt,
	}

	order, err := g.client.Order.Create(data, nil)
	if err != nil {
		return "", errs.Wrap(err, "failed to create gateway order")
	}

	orderID, ok := order["id"].(string)
	if !ok || orderID == "" {
		return "", errs.New("gateway order response missing id")
	}
	return orderID, nil
}

func (g *RazorpayGateway) VerifySignature(orderID, paymentID, signature string) bool {
	params := map[string]interface{}{
		"razorpay_order_id":   orderID,
		"razorpay_payment_id": paymentID,
	}
	return utils.VerifyPaymentSignature(params, signature, g.secret)
}
