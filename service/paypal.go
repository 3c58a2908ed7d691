package service

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/companieshouse/chs.go/log"
	"github.com/kodlan/sait-paypal/config"
	"github.com/kodlan/sait-paypal/events"
	"github.com/kodlan/sait-paypal/models"
	"github.com/plutov/paypal/v4"
)

var client *paypal.Client

// GetPayPalClient returns the SDK client for the configured environment with a
// fresh access token
func GetPayPalClient(cfg config.Config) (*paypal.Client, error) {
	if client != nil {
		return client, nil
	}

	paypalAPIBase := cfg.PaypalAPIBase
	if paypalAPIBase == "" {
		paypalAPIBase = getPayPalAPIBase(cfg.PaypalEnv)
	}
	if paypalAPIBase == "" {
		return nil, fmt.Errorf("invalid paypal env in config: %s", cfg.PaypalEnv)
	}

	c, err := paypal.NewClient(cfg.PaypalClientID, cfg.PaypalSecret, paypalAPIBase)
	if err != nil {
		return nil, fmt.Errorf("error creating paypal client: [%v]", err)
	}
	c.SetHTTPClient(&http.Client{Timeout: time.Duration(cfg.PaypalTimeoutSeconds) * time.Second})

	_, err = c.GetAccessToken(context.Background())
	if err != nil {
		return nil, fmt.Errorf("error getting access token: [%v]", err)
	}

	client = c
	return client, nil
}

// PayPalSDK is an interface for all the PayPal client methods that will be used
// in this service
type PayPalSDK interface {
	GetAccessToken(ctx context.Context) (*paypal.TokenResponse, error)
	CreateOrder(ctx context.Context, intent string, purchaseUnits []paypal.PurchaseUnitRequest, payer *paypal.CreateOrderPayer, appContext *paypal.ApplicationContext) (*paypal.Order, error)
	GetOrder(ctx context.Context, orderID string) (*paypal.Order, error)
	CaptureOrder(ctx context.Context, orderID string, captureOrderRequest paypal.CaptureOrderRequest) (*paypal.CaptureOrderResponse, error)
}

// PayPalService handles creating and capturing PayPal orders and keeps the
// local payment records in step
type PayPalService struct {
	Client         PayPalSDK
	PaymentService PaymentService
	Producer       events.Producer
}

// CreatePayPalOrder creates a PayPal order for the requested amount, stores the
// pre-capture payment record and returns the URL the buyer approves it at
func (pp *PayPalService) CreatePayPalOrder(ctx context.Context, request models.IncomingPaymentRequest, returnURL, cancelURL string) (string, ResponseType, error) {
	amount, percentage, err := ValidatePaymentRequest(request)
	if err != nil {
		return "", InvalidData, err
	}

	order, err := pp.Client.CreateOrder(
		ctx,
		paypal.OrderIntentCapture,
		[]paypal.PurchaseUnitRequest{
			{
				Amount: &paypal.PurchaseUnitAmount{
					Value:    amount.StringFixed(2),
					Currency: pp.PaymentService.Config.PaypalCurrency,
				},
			},
		},
		nil,
		&paypal.ApplicationContext{
			ReturnURL: returnURL,
			CancelURL: cancelURL,
		},
	)
	if err != nil {
		return "", ProviderError, fmt.Errorf("error creating order: [%v]", err)
	}

	if order.Status != paypal.OrderStatusCreated {
		log.Debug(fmt.Sprintf("paypal order response status: %s", order.Status))
		return "", ProviderError, fmt.Errorf("failed to correctly create paypal order - status is not CREATED")
	}

	var approvalURL string
	for _, link := range order.Links {
		if link.Rel == "approve" {
			approvalURL = link.Href
		}
	}
	if approvalURL == "" {
		return "", ProviderError, fmt.Errorf("paypal order [%s] has no approve link", order.ID)
	}

	paymentResource := models.PaymentResourceDB{
		Amount:        amount.StringFixed(2),
		Percentage:    percentage,
		PayPalOrderID: order.ID,
		Status:        Created.String(),
		CreatedAt:     time.Now().UTC(),
	}
	responseType, err := pp.PaymentService.CreatePaymentResource(ctx, &paymentResource)
	if err != nil {
		return "", responseType, err
	}

	log.Info("paypal order created", log.Data{"paypal_order_id": order.ID, "amount": paymentResource.Amount})

	return approvalURL, Success, nil
}

// CapturePayment captures an approved order and records the outcome. A
// missing local record does not fail the capture.
func (pp *PayPalService) CapturePayment(ctx context.Context, orderID string) (*paypal.CaptureOrderResponse, *models.PaymentResourceDB, ResponseType, error) {
	if orderID == "" {
		return nil, nil, InvalidData, fmt.Errorf("paypal order id not supplied")
	}

	res, err := pp.captureOrder(ctx, orderID)
	if err != nil {
		return nil, nil, ProviderError, err
	}

	paymentResource, responseType, err := pp.PaymentService.GetPaymentResource(ctx, orderID)
	if responseType == NotFound {
		log.Info("captured paypal order has no payment record", log.Data{"paypal_order_id": orderID, "status": res.Status})
		return res, nil, Success, nil
	}
	if err != nil {
		return res, nil, responseType, err
	}
	if paymentResource.Status == res.Status {
		return res, paymentResource, Success, nil
	}

	update := models.PaymentResourceDB{Status: res.Status}
	if res.Status == paypal.OrderStatusCompleted {
		capturedAt := time.Now().UTC()
		update.CapturedAt = &capturedAt
	}

	responseType, err = pp.PaymentService.PatchPaymentResource(ctx, orderID, update)
	if err != nil {
		return res, paymentResource, responseType, err
	}
	paymentResource.Status = update.Status

	if update.CapturedAt != nil {
		paymentResource.CapturedAt = update.CapturedAt
		err = pp.Producer.PaymentProcessed(ctx, models.PaymentProcessed{
			PayPalOrderID: orderID,
			Status:        res.Status,
			Amount:        paymentResource.Amount,
			Percentage:    paymentResource.Percentage,
			CapturedAt:    *update.CapturedAt,
		})
		if err != nil {
			log.Error(fmt.Errorf("error producing payment processed message: [%v]", err), log.Data{"paypal_order_id": orderID})
		}
	}

	return res, paymentResource, Success, nil
}

// captureOrder captures the order unless PayPal already reports it completed,
// so reloading the success page does not capture twice
func (pp *PayPalService) captureOrder(ctx context.Context, orderID string) (*paypal.CaptureOrderResponse, error) {
	order, err := pp.Client.GetOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("error checking payment status with PayPal: [%v]", err)
	}

	if order.Status == paypal.OrderStatusCompleted {
		log.Debug("paypal order already captured", log.Data{"paypal_order_id": orderID})
		return &paypal.CaptureOrderResponse{ID: order.ID, Status: order.Status}, nil
	}

	res, err := pp.Client.CaptureOrder(ctx, orderID, paypal.CaptureOrderRequest{})
	if err != nil {
		return nil, fmt.Errorf("error capturing paypal order: [%v]", err)
	}
	return res, nil
}

// CancelPayment marks a still-created payment as cancelled when the buyer
// leaves the PayPal approval page
func (pp *PayPalService) CancelPayment(ctx context.Context, orderID string) (ResponseType, error) {
	if orderID == "" {
		return Success, nil
	}

	paymentResource, responseType, err := pp.PaymentService.GetPaymentResource(ctx, orderID)
	if responseType == NotFound {
		return Success, nil
	}
	if err != nil {
		return responseType, err
	}

	if paymentResource.Status != Created.String() {
		return Success, nil
	}

	return pp.PaymentService.PatchPaymentResource(ctx, orderID, models.PaymentResourceDB{Status: Cancelled.String()})
}

func getPayPalAPIBase(env string) string {
	switch env {
	case "live":
		return paypal.APIBaseLive
	case "test":
		return paypal.APIBaseSandBox
	default:
		return ""
	}
}
