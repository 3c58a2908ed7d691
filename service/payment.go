package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/kodlan/sait-paypal/config"
	"github.com/kodlan/sait-paypal/dao"
	"github.com/kodlan/sait-paypal/models"
	"github.com/shopspring/decimal"
)

// PaymentService contains the DAO for db access
type PaymentService struct {
	DAO    dao.DAO
	Config config.Config
}

// PaymentStatus Enum Type
type PaymentStatus int

// Enumeration containing the statuses a local payment record moves through.
// Capture outcomes other than these are stored as PayPal reports them.
const (
	Created PaymentStatus = 1 + iota
	Completed
	Cancelled
)

// String representation of payment statuses
var paymentStatuses = [...]string{
	"CREATED",
	"COMPLETED",
	"CANCELLED",
}

func (paymentStatus PaymentStatus) String() string {
	return paymentStatuses[paymentStatus-1]
}

var validate = validator.New()

// ValidatePaymentRequest checks the create-payment form and returns the amount
// rounded to two places and the percentage
func ValidatePaymentRequest(request models.IncomingPaymentRequest) (decimal.Decimal, int, error) {
	if err := validate.Struct(request); err != nil {
		return decimal.Zero, 0, fmt.Errorf("invalid payment request: [%v]", err)
	}

	amount, err := decimal.NewFromString(request.Amount)
	if err != nil {
		return decimal.Zero, 0, fmt.Errorf("amount [%s] format incorrect", request.Amount)
	}
	amount = amount.Round(2)
	if !amount.IsPositive() {
		return decimal.Zero, 0, fmt.Errorf("amount [%s] must be greater than zero", request.Amount)
	}

	percentage, err := strconv.Atoi(request.Percentage)
	if err != nil {
		return decimal.Zero, 0, fmt.Errorf("percentage [%s] format incorrect", request.Percentage)
	}
	if percentage < 0 || percentage > 100 {
		return decimal.Zero, 0, fmt.Errorf("percentage [%d] must be between 0 and 100", percentage)
	}

	return amount, percentage, nil
}

// CreatePaymentResource stores a payment record for a newly created PayPal order
func (service *PaymentService) CreatePaymentResource(ctx context.Context, paymentResource *models.PaymentResourceDB) (ResponseType, error) {
	err := service.DAO.CreatePaymentResource(ctx, paymentResource)
	if errors.Is(err, dao.ErrDuplicatePayment) {
		return Conflict, fmt.Errorf("payment for paypal order [%s] already exists", paymentResource.PayPalOrderID)
	}
	if err != nil {
		return Error, fmt.Errorf("error writing payment to database: [%v]", err)
	}

	return Success, nil
}

// GetPaymentResource retrieves the payment record of a PayPal order
func (service *PaymentService) GetPaymentResource(ctx context.Context, paypalOrderID string) (*models.PaymentResourceDB, ResponseType, error) {
	paymentResource, err := service.DAO.GetPaymentResource(ctx, paypalOrderID)
	if err != nil {
		return nil, Error, fmt.Errorf("error getting payment resource from db: [%v]", err)
	}
	if paymentResource == nil {
		return nil, NotFound, fmt.Errorf("payment not found. paypal order id: %s", paypalOrderID)
	}

	return paymentResource, Success, nil
}

// PatchPaymentResource records a new status, and the capture time when given
func (service *PaymentService) PatchPaymentResource(ctx context.Context, paypalOrderID string, update models.PaymentResourceDB) (ResponseType, error) {
	if update.Status == "" && update.CapturedAt == nil {
		return InvalidData, fmt.Errorf("no valid fields for the patch request has been supplied for paypal order [%s]", paypalOrderID)
	}

	err := service.DAO.PatchPaymentResource(ctx, paypalOrderID, &update)
	if errors.Is(err, dao.ErrPaymentNotFound) {
		return NotFound, fmt.Errorf("could not find payment resource to patch")
	}
	if err != nil {
		return Error, fmt.Errorf("error patching payment on database: [%v]", err)
	}

	return Success, nil
}
