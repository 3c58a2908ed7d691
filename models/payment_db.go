package models

import (
	"fmt"
	"time"
)

// PaymentResourceDB contains all payment details to be stored in the DB
type PaymentResourceDB struct {
	ID            int64      `bson:"-"`
	Amount        string     `bson:"amount"`
	Percentage    int        `bson:"percentage"`
	PayPalOrderID string     `bson:"paypal_order_id"`
	Status        string     `bson:"status"`
	CreatedAt     time.Time  `bson:"timestamp"`
	CapturedAt    *time.Time `bson:"captured_at,omitempty"`
}

func (p PaymentResourceDB) String() string {
	return fmt.Sprintf("<Payment %d - $%s - %d%%>", p.ID, p.Amount, p.Percentage)
}
