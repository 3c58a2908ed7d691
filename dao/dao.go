package dao

import (
	"context"
	"errors"
	"fmt"

	"github.com/kodlan/sait-paypal/config"
	"github.com/kodlan/sait-paypal/models"
)

var (
	// ErrPaymentNotFound is returned when a patch targets an unknown order
	ErrPaymentNotFound = errors.New("payment not found")
	// ErrDuplicatePayment is returned when a PayPal order id is already stored
	ErrDuplicatePayment = errors.New("payment for paypal order already exists")
)

// DAO is an interface for accessing payments from a backend store
type DAO interface {
	CreatePaymentResource(ctx context.Context, paymentResource *models.PaymentResourceDB) error
	GetPaymentResource(ctx context.Context, paypalOrderID string) (*models.PaymentResourceDB, error)
	PatchPaymentResource(ctx context.Context, paypalOrderID string, paymentUpdate *models.PaymentResourceDB) error
	Close(ctx context.Context) error
}

// NewDAO returns the store selected by PAYMENTS_STORE, with its table or
// index in place.
func NewDAO(ctx context.Context, cfg *config.Config) (DAO, error) {
	switch cfg.PaymentsStore {
	case "postgres":
		pg, err := NewPostgres(ctx, cfg.PostgresURL, int32(cfg.PostgresMaxConns), cfg.PostgresMaxIdleTime)
		if err != nil {
			return nil, fmt.Errorf("error connecting to postgres: [%v]", err)
		}
		if err = pg.EnsureSchema(ctx); err != nil {
			pg.Close(ctx)
			return nil, fmt.Errorf("error creating payments table: [%v]", err)
		}
		return pg, nil
	case "mongo":
		m := NewMongoService(cfg)
		if err := m.EnsureIndexes(ctx); err != nil {
			return nil, fmt.Errorf("error creating payments index: [%v]", err)
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unknown payments store in config: %s", cfg.PaymentsStore)
	}
}
