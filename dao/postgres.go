package dao

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kodlan/sait-paypal/models"
)

const uniqueViolation = "23505"

const createPaymentsTable = `
CREATE TABLE IF NOT EXISTS payment (
	id              BIGSERIAL PRIMARY KEY,
	amount          NUMERIC(12, 2) NOT NULL,
	percentage      INTEGER NOT NULL,
	paypal_order_id VARCHAR(120) NOT NULL UNIQUE,
	status          VARCHAR(32) NOT NULL DEFAULT 'CREATED',
	timestamp       TIMESTAMPTZ NOT NULL DEFAULT now(),
	captured_at     TIMESTAMPTZ
)`

// Postgres stores payments in a single relational table
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres sets up a new pgx connection pool
func NewPostgres(ctx context.Context, addr string, maxConns int32, maxIdleTime string) (*Postgres, error) {
	config, err := pgxpool.ParseConfig(addr)
	if err != nil {
		return nil, err
	}

	if maxConns > 0 {
		config.MaxConns = maxConns
	}

	duration, err := time.ParseDuration(maxIdleTime)
	if err != nil {
		return nil, err
	}
	config.MaxConnIdleTime = duration

	// Bounds pool start-up, including the initial ping.
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &Postgres{pool: pool}, nil
}

// EnsureSchema creates the payment table when it does not exist yet
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, createPaymentsTable)
	return err
}

// CreatePaymentResource writes a new payment resource to the DB
func (p *Postgres) CreatePaymentResource(ctx context.Context, paymentResource *models.PaymentResourceDB) error {
	err := p.pool.QueryRow(ctx,
		`INSERT INTO payment (amount, percentage, paypal_order_id, status, timestamp)
		 VALUES ($1::text::numeric, $2, $3, $4, $5)
		 RETURNING id`,
		paymentResource.Amount,
		paymentResource.Percentage,
		paymentResource.PayPalOrderID,
		paymentResource.Status,
		paymentResource.CreatedAt,
	).Scan(&paymentResource.ID)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicatePayment
	}
	return err
}

// GetPaymentResource gets a payment resource from the DB
// If payment not found in DB, return nil
func (p *Postgres) GetPaymentResource(ctx context.Context, paypalOrderID string) (*models.PaymentResourceDB, error) {
	var resource models.PaymentResourceDB
	err := p.pool.QueryRow(ctx,
		`SELECT id, amount::text, percentage, paypal_order_id, status, timestamp, captured_at
		 FROM payment WHERE paypal_order_id = $1`,
		paypalOrderID,
	).Scan(
		&resource.ID,
		&resource.Amount,
		&resource.Percentage,
		&resource.PayPalOrderID,
		&resource.Status,
		&resource.CreatedAt,
		&resource.CapturedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &resource, nil
}

// PatchPaymentResource patches the capture outcome of a payment resource
func (p *Postgres) PatchPaymentResource(ctx context.Context, paypalOrderID string, paymentUpdate *models.PaymentResourceDB) error {
	tag, err := p.pool.Exec(ctx,
		`UPDATE payment
		 SET status = COALESCE(NULLIF($2, ''), status),
		     captured_at = COALESCE($3, captured_at)
		 WHERE paypal_order_id = $1`,
		paypalOrderID,
		paymentUpdate.Status,
		paymentUpdate.CapturedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPaymentNotFound
	}

	return nil
}

// Close releases the pool
func (p *Postgres) Close(_ context.Context) error {
	p.pool.Close()
	return nil
}
