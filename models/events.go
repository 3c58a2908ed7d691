package models

import "time"

// PaymentProcessed is the message produced once a PayPal order has been captured
type PaymentProcessed struct {
	PayPalOrderID string    `json:"paypal_order_id"`
	Status        string    `json:"status"`
	Amount        string    `json:"amount"`
	Percentage    int       `json:"percentage"`
	CapturedAt    time.Time `json:"captured_at"`
}
