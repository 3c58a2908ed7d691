package models

import "time"

// IncomingPaymentRequest is the form posted to create a PayPal order
type IncomingPaymentRequest struct {
	Amount     string `validate:"required,numeric"`
	Percentage string `validate:"required,number"`
}

// PaymentResourceRest is public facing payment details to be returned in the response
type PaymentResourceRest struct {
	ID            int64      `json:"id,omitempty"`
	Amount        string     `json:"amount"`
	Percentage    int        `json:"percentage"`
	PayPalOrderID string     `json:"paypal_order_id"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"timestamp"`
	CapturedAt    *time.Time `json:"captured_at,omitempty"`
}

// CaptureResultRest is returned once PayPal redirects the buyer back and the order is captured
type CaptureResultRest struct {
	OrderID string               `json:"order_id"`
	Status  string               `json:"status"`
	Payment *PaymentResourceRest `json:"payment,omitempty"`
}
