package fixtures

import (
	"time"

	"github.com/kodlan/sait-paypal/models"
	"github.com/plutov/paypal/v4"
)

// OrderID is the PayPal order every fixture refers to
const OrderID = "5O190127TN364715T"

// ApproveURL is where the created order sends the buyer
const ApproveURL = "https://www.sandbox.paypal.com/checkoutnow?token=" + OrderID

func GetCreatedPayPalOrder() *paypal.Order {
	return &paypal.Order{
		ID:     OrderID,
		Status: paypal.OrderStatusCreated,
		Links: []paypal.Link{
			{
				Href:   "https://api.sandbox.paypal.com/v2/checkout/orders/" + OrderID,
				Rel:    "self",
				Method: "GET",
			},
			{
				Href:   ApproveURL,
				Rel:    "approve",
				Method: "GET",
			},
		},
	}
}

func GetPayPalOrder(status string) *paypal.Order {
	return &paypal.Order{
		ID:     OrderID,
		Status: status,
	}
}

func GetCaptureOrderResponse(status string) *paypal.CaptureOrderResponse {
	return &paypal.CaptureOrderResponse{
		ID:     OrderID,
		Status: status,
	}
}

func GetPaymentResourceDB(status string) *models.PaymentResourceDB {
	return &models.PaymentResourceDB{
		ID:            1,
		Amount:        "10.00",
		Percentage:    25,
		PayPalOrderID: OrderID,
		Status:        status,
		CreatedAt:     time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}
