package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/kodlan/sait-paypal/config"
	"github.com/kodlan/sait-paypal/dao"
	"github.com/kodlan/sait-paypal/events"
	"github.com/kodlan/sait-paypal/fixtures"
	"github.com/kodlan/sait-paypal/models"
	"github.com/plutov/paypal/v4"
	. "github.com/smartystreets/goconvey/convey"
)

func createMockPayPalService(sdk PayPalSDK, service *PaymentService, producer events.Producer) PayPalService {
	return PayPalService{
		Client:         sdk,
		PaymentService: *service,
		Producer:       producer,
	}
}

var validPaymentRequest = models.IncomingPaymentRequest{
	Amount:     "10",
	Percentage: "25",
}

func TestUnitCreatePayPalOrder(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()
	cfg, _ := config.Get()
	ctx := context.Background()

	Convey("Invalid payment request", t, func() {
		mockPayPalSDK := NewMockPayPalSDK(mockCtrl)
		mockPaymentService := createMockPaymentService(dao.NewMockDAO(mockCtrl), cfg)
		mockPayPalService := createMockPayPalService(mockPayPalSDK, &mockPaymentService, events.NewMockProducer(mockCtrl))

		url, resType, err := mockPayPalService.CreatePayPalOrder(ctx, models.IncomingPaymentRequest{Amount: "-5", Percentage: "10"}, "return", "cancel")

		So(url, ShouldBeEmpty)
		So(resType, ShouldEqual, InvalidData)
		So(err.Error(), ShouldEqual, "amount [-5] must be greater than zero")
	})

	Convey("Error when creating an order resource in PayPal", t, func() {
		mockPayPalSDK := NewMockPayPalSDK(mockCtrl)
		mockPaymentService := createMockPaymentService(dao.NewMockDAO(mockCtrl), cfg)
		mockPayPalService := createMockPayPalService(mockPayPalSDK, &mockPaymentService, events.NewMockProducer(mockCtrl))

		mockPayPalSDK.EXPECT().CreateOrder(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("error"))

		url, resType, err := mockPayPalService.CreatePayPalOrder(ctx, validPaymentRequest, "return", "cancel")

		So(url, ShouldBeEmpty)
		So(resType, ShouldEqual, ProviderError)
		So(err.Error(), ShouldEqual, "error creating order: [error]")
	})

	Convey("Order status is not created - unsuccessful", t, func() {
		mockPayPalSDK := NewMockPayPalSDK(mockCtrl)
		mockPaymentService := createMockPaymentService(dao.NewMockDAO(mockCtrl), cfg)
		mockPayPalService := createMockPayPalService(mockPayPalSDK, &mockPaymentService, events.NewMockProducer(mockCtrl))

		order := paypal.Order{
			ID:     "123",
			Status: paypal.OrderStatusVoided,
		}
		mockPayPalSDK.EXPECT().CreateOrder(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(&order, nil)

		url, resType, err := mockPayPalService.CreatePayPalOrder(ctx, validPaymentRequest, "return", "cancel")

		So(url, ShouldBeEmpty)
		So(resType, ShouldEqual, ProviderError)
		So(err.Error(), ShouldContainSubstring, "failed to correctly create paypal order")
	})

	Convey("Order has no approve link", t, func() {
		mockPayPalSDK := NewMockPayPalSDK(mockCtrl)
		mockPaymentService := createMockPaymentService(dao.NewMockDAO(mockCtrl), cfg)
		mockPayPalService := createMockPayPalService(mockPayPalSDK, &mockPaymentService, events.NewMockProducer(mockCtrl))

		order := paypal.Order{
			ID:     "123",
			Status: paypal.OrderStatusCreated,
			Links:  []paypal.Link{{Href: "self_url", Rel: "self"}},
		}
		mockPayPalSDK.EXPECT().CreateOrder(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(&order, nil)

		url, resType, err := mockPayPalService.CreatePayPalOrder(ctx, validPaymentRequest, "return", "cancel")

		So(url, ShouldBeEmpty)
		So(resType, ShouldEqual, ProviderError)
		So(err.Error(), ShouldEqual, "paypal order [123] has no approve link")
	})

	Convey("Payment already recorded for the order", t, func() {
		mockPayPalSDK := NewMockPayPalSDK(mockCtrl)
		mockDao := dao.NewMockDAO(mockCtrl)
		mockPaymentService := createMockPaymentService(mockDao, cfg)
		mockPayPalService := createMockPayPalService(mockPayPalSDK, &mockPaymentService, events.NewMockProducer(mockCtrl))

		mockPayPalSDK.EXPECT().CreateOrder(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(fixtures.GetCreatedPayPalOrder(), nil)
		mockDao.EXPECT().CreatePaymentResource(gomock.Any(), gomock.Any()).Return(dao.ErrDuplicatePayment)

		url, resType, err := mockPayPalService.CreatePayPalOrder(ctx, validPaymentRequest, "return", "cancel")

		So(url, ShouldBeEmpty)
		So(resType, ShouldEqual, Conflict)
		So(err.Error(), ShouldEqual, "payment for paypal order [5O190127TN364715T] already exists")
	})

	Convey("Successfully create paypal order", t, func() {
		mockPayPalSDK := NewMockPayPalSDK(mockCtrl)
		mockDao := dao.NewMockDAO(mockCtrl)
		mockPaymentService := createMockPaymentService(mockDao, cfg)
		mockPayPalService := createMockPayPalService(mockPayPalSDK, &mockPaymentService, events.NewMockProducer(mockCtrl))

		var units []paypal.PurchaseUnitRequest
		var appContext *paypal.ApplicationContext
		mockPayPalSDK.EXPECT().CreateOrder(gomock.Any(), paypal.OrderIntentCapture, gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, purchaseUnits []paypal.PurchaseUnitRequest, _ *paypal.CreateOrderPayer, ac *paypal.ApplicationContext) (*paypal.Order, error) {
				units = purchaseUnits
				appContext = ac
				return fixtures.GetCreatedPayPalOrder(), nil
			})

		var stored *models.PaymentResourceDB
		mockDao.EXPECT().CreatePaymentResource(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, paymentResource *models.PaymentResourceDB) error {
				stored = paymentResource
				return nil
			})

		url, resType, err := mockPayPalService.CreatePayPalOrder(ctx, models.IncomingPaymentRequest{Amount: "10.005", Percentage: "25"}, "http://localhost/success", "http://localhost/cancel")

		So(err, ShouldBeNil)
		So(resType, ShouldEqual, Success)
		So(url, ShouldEqual, fixtures.ApproveURL)

		So(units, ShouldHaveLength, 1)
		So(units[0].Amount.Value, ShouldEqual, "10.01")
		So(units[0].Amount.Currency, ShouldEqual, cfg.PaypalCurrency)
		So(appContext.ReturnURL, ShouldEqual, "http://localhost/success")
		So(appContext.CancelURL, ShouldEqual, "http://localhost/cancel")

		So(stored.PayPalOrderID, ShouldEqual, "5O190127TN364715T")
		So(stored.Amount, ShouldEqual, "10.01")
		So(stored.Percentage, ShouldEqual, 25)
		So(stored.Status, ShouldEqual, "CREATED")
		So(stored.CreatedAt.IsZero(), ShouldBeFalse)
	})
}

func TestUnitCapturePayment(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()
	cfg, _ := config.Get()
	ctx := context.Background()

	approvedOrder := fixtures.GetPayPalOrder(paypal.OrderStatusApproved)
	completedCapture := fixtures.GetCaptureOrderResponse(paypal.OrderStatusCompleted)

	Convey("No order id supplied", t, func() {
		mockPaymentService := createMockPaymentService(dao.NewMockDAO(mockCtrl), cfg)
		mockPayPalService := createMockPayPalService(NewMockPayPalSDK(mockCtrl), &mockPaymentService, events.NewMockProducer(mockCtrl))

		res, payment, resType, err := mockPayPalService.CapturePayment(ctx, "")

		So(res, ShouldBeNil)
		So(payment, ShouldBeNil)
		So(resType, ShouldEqual, InvalidData)
		So(err.Error(), ShouldEqual, "paypal order id not supplied")
	})

	Convey("Error checking order status", t, func() {
		mockPayPalSDK := NewMockPayPalSDK(mockCtrl)
		mockPaymentService := createMockPaymentService(dao.NewMockDAO(mockCtrl), cfg)
		mockPayPalService := createMockPayPalService(mockPayPalSDK, &mockPaymentService, events.NewMockProducer(mockCtrl))

		mockPayPalSDK.EXPECT().GetOrder(gomock.Any(), "5O190127TN364715T").Return(nil, errors.New("error"))

		res, _, resType, err := mockPayPalService.CapturePayment(ctx, "5O190127TN364715T")

		So(res, ShouldBeNil)
		So(resType, ShouldEqual, ProviderError)
		So(err.Error(), ShouldEqual, "error checking payment status with PayPal: [error]")
	})

	Convey("Error capturing order", t, func() {
		mockPayPalSDK := NewMockPayPalSDK(mockCtrl)
		mockPaymentService := createMockPaymentService(dao.NewMockDAO(mockCtrl), cfg)
		mockPayPalService := createMockPayPalService(mockPayPalSDK, &mockPaymentService, events.NewMockProducer(mockCtrl))

		mockPayPalSDK.EXPECT().GetOrder(gomock.Any(), "5O190127TN364715T").Return(approvedOrder, nil)
		mockPayPalSDK.EXPECT().CaptureOrder(gomock.Any(), "5O190127TN364715T", gomock.Any()).Return(nil, errors.New("error"))

		res, _, resType, err := mockPayPalService.CapturePayment(ctx, "5O190127TN364715T")

		So(res, ShouldBeNil)
		So(resType, ShouldEqual, ProviderError)
		So(err.Error(), ShouldEqual, "error capturing paypal order: [error]")
	})

	Convey("Captured order has no payment record", t, func() {
		mockPayPalSDK := NewMockPayPalSDK(mockCtrl)
		mockDao := dao.NewMockDAO(mockCtrl)
		mockPaymentService := createMockPaymentService(mockDao, cfg)
		mockPayPalService := createMockPayPalService(mockPayPalSDK, &mockPaymentService, events.NewMockProducer(mockCtrl))

		mockPayPalSDK.EXPECT().GetOrder(gomock.Any(), "5O190127TN364715T").Return(approvedOrder, nil)
		mockPayPalSDK.EXPECT().CaptureOrder(gomock.Any(), "5O190127TN364715T", gomock.Any()).Return(completedCapture, nil)
		mockDao.EXPECT().GetPaymentResource(gomock.Any(), "5O190127TN364715T").Return(nil, nil)

		res, payment, resType, err := mockPayPalService.CapturePayment(ctx, "5O190127TN364715T")

		So(err, ShouldBeNil)
		So(resType, ShouldEqual, Success)
		So(res.Status, ShouldEqual, "COMPLETED")
		So(payment, ShouldBeNil)
	})

	Convey("Error reading payment record", t, func() {
		mockPayPalSDK := NewMockPayPalSDK(mockCtrl)
		mockDao := dao.NewMockDAO(mockCtrl)
		mockPaymentService := createMockPaymentService(mockDao, cfg)
		mockPayPalService := createMockPayPalService(mockPayPalSDK, &mockPaymentService, events.NewMockProducer(mockCtrl))

		mockPayPalSDK.EXPECT().GetOrder(gomock.Any(), "5O190127TN364715T").Return(approvedOrder, nil)
		mockPayPalSDK.EXPECT().CaptureOrder(gomock.Any(), "5O190127TN364715T", gomock.Any()).Return(completedCapture, nil)
		mockDao.EXPECT().GetPaymentResource(gomock.Any(), "5O190127TN364715T").Return(nil, errors.New("error"))

		res, payment, resType, err := mockPayPalService.CapturePayment(ctx, "5O190127TN364715T")

		So(res, ShouldNotBeNil)
		So(payment, ShouldBeNil)
		So(resType, ShouldEqual, Error)
		So(err.Error(), ShouldEqual, "error getting payment resource from db: [error]")
	})

	Convey("Error patching payment record", t, func() {
		mockPayPalSDK := NewMockPayPalSDK(mockCtrl)
		mockDao := dao.NewMockDAO(mockCtrl)
		mockPaymentService := createMockPaymentService(mockDao, cfg)
		mockPayPalService := createMockPayPalService(mockPayPalSDK, &mockPaymentService, events.NewMockProducer(mockCtrl))

		mockPayPalSDK.EXPECT().GetOrder(gomock.Any(), "5O190127TN364715T").Return(approvedOrder, nil)
		mockPayPalSDK.EXPECT().CaptureOrder(gomock.Any(), "5O190127TN364715T", gomock.Any()).Return(completedCapture, nil)
		mockDao.EXPECT().GetPaymentResource(gomock.Any(), "5O190127TN364715T").Return(fixtures.GetPaymentResourceDB(Created.String()), nil)
		mockDao.EXPECT().PatchPaymentResource(gomock.Any(), "5O190127TN364715T", gomock.Any()).Return(errors.New("error"))

		_, _, resType, err := mockPayPalService.CapturePayment(ctx, "5O190127TN364715T")

		So(resType, ShouldEqual, Error)
		So(err.Error(), ShouldEqual, "error patching payment on database: [error]")
	})

	Convey("Successfully capture payment", t, func() {
		mockPayPalSDK := NewMockPayPalSDK(mockCtrl)
		mockDao := dao.NewMockDAO(mockCtrl)
		mockProducer := events.NewMockProducer(mockCtrl)
		mockPaymentService := createMockPaymentService(mockDao, cfg)
		mockPayPalService := createMockPayPalService(mockPayPalSDK, &mockPaymentService, mockProducer)

		mockPayPalSDK.EXPECT().GetOrder(gomock.Any(), "5O190127TN364715T").Return(approvedOrder, nil)
		mockPayPalSDK.EXPECT().CaptureOrder(gomock.Any(), "5O190127TN364715T", gomock.Any()).Return(completedCapture, nil)
		mockDao.EXPECT().GetPaymentResource(gomock.Any(), "5O190127TN364715T").Return(fixtures.GetPaymentResourceDB(Created.String()), nil)

		var patch *models.PaymentResourceDB
		mockDao.EXPECT().PatchPaymentResource(gomock.Any(), "5O190127TN364715T", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, update *models.PaymentResourceDB) error {
				patch = update
				return nil
			})

		var message models.PaymentProcessed
		mockProducer.EXPECT().PaymentProcessed(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, m models.PaymentProcessed) error {
				message = m
				return nil
			})

		res, payment, resType, err := mockPayPalService.CapturePayment(ctx, "5O190127TN364715T")

		So(err, ShouldBeNil)
		So(resType, ShouldEqual, Success)
		So(res.Status, ShouldEqual, "COMPLETED")
		So(payment.Status, ShouldEqual, "COMPLETED")
		So(payment.CapturedAt, ShouldNotBeNil)

		So(patch.Status, ShouldEqual, "COMPLETED")
		So(patch.CapturedAt, ShouldNotBeNil)

		So(message.PayPalOrderID, ShouldEqual, "5O190127TN364715T")
		So(message.Amount, ShouldEqual, "10.00")
		So(message.Percentage, ShouldEqual, 25)
	})

	Convey("Event failure does not fail the capture", t, func() {
		mockPayPalSDK := NewMockPayPalSDK(mockCtrl)
		mockDao := dao.NewMockDAO(mockCtrl)
		mockProducer := events.NewMockProducer(mockCtrl)
		mockPaymentService := createMockPaymentService(mockDao, cfg)
		mockPayPalService := createMockPayPalService(mockPayPalSDK, &mockPaymentService, mockProducer)

		mockPayPalSDK.EXPECT().GetOrder(gomock.Any(), "5O190127TN364715T").Return(approvedOrder, nil)
		mockPayPalSDK.EXPECT().CaptureOrder(gomock.Any(), "5O190127TN364715T", gomock.Any()).Return(completedCapture, nil)
		mockDao.EXPECT().GetPaymentResource(gomock.Any(), "5O190127TN364715T").Return(fixtures.GetPaymentResourceDB(Created.String()), nil)
		mockDao.EXPECT().PatchPaymentResource(gomock.Any(), "5O190127TN364715T", gomock.Any()).Return(nil)
		mockProducer.EXPECT().PaymentProcessed(gomock.Any(), gomock.Any()).Return(errors.New("broker down"))

		_, payment, resType, err := mockPayPalService.CapturePayment(ctx, "5O190127TN364715T")

		So(err, ShouldBeNil)
		So(resType, ShouldEqual, Success)
		So(payment.Status, ShouldEqual, "COMPLETED")
	})

	Convey("Order captured earlier is not captured again", t, func() {
		mockPayPalSDK := NewMockPayPalSDK(mockCtrl)
		mockDao := dao.NewMockDAO(mockCtrl)
		mockPaymentService := createMockPaymentService(mockDao, cfg)
		mockPayPalService := createMockPayPalService(mockPayPalSDK, &mockPaymentService, events.NewMockProducer(mockCtrl))

		capturedAt := time.Date(2024, 3, 1, 12, 5, 0, 0, time.UTC)
		record := fixtures.GetPaymentResourceDB(Created.String())
		record.Status = Completed.String()
		record.CapturedAt = &capturedAt

		mockPayPalSDK.EXPECT().GetOrder(gomock.Any(), "5O190127TN364715T").Return(&paypal.Order{ID: "5O190127TN364715T", Status: paypal.OrderStatusCompleted}, nil)
		mockDao.EXPECT().GetPaymentResource(gomock.Any(), "5O190127TN364715T").Return(record, nil)

		res, payment, resType, err := mockPayPalService.CapturePayment(ctx, "5O190127TN364715T")

		So(err, ShouldBeNil)
		So(resType, ShouldEqual, Success)
		So(res.Status, ShouldEqual, "COMPLETED")
		So(*payment.CapturedAt, ShouldResemble, capturedAt)
	})

	Convey("Capture that did not complete records the PayPal status", t, func() {
		mockPayPalSDK := NewMockPayPalSDK(mockCtrl)
		mockDao := dao.NewMockDAO(mockCtrl)
		mockPaymentService := createMockPaymentService(mockDao, cfg)
		mockPayPalService := createMockPayPalService(mockPayPalSDK, &mockPaymentService, events.NewMockProducer(mockCtrl))

		mockPayPalSDK.EXPECT().GetOrder(gomock.Any(), "5O190127TN364715T").Return(approvedOrder, nil)
		mockPayPalSDK.EXPECT().CaptureOrder(gomock.Any(), "5O190127TN364715T", gomock.Any()).Return(&paypal.CaptureOrderResponse{ID: "5O190127TN364715T", Status: "PAYER_ACTION_REQUIRED"}, nil)
		mockDao.EXPECT().GetPaymentResource(gomock.Any(), "5O190127TN364715T").Return(fixtures.GetPaymentResourceDB(Created.String()), nil)
		mockDao.EXPECT().PatchPaymentResource(gomock.Any(), "5O190127TN364715T", &models.PaymentResourceDB{Status: "PAYER_ACTION_REQUIRED"}).Return(nil)

		_, payment, resType, err := mockPayPalService.CapturePayment(ctx, "5O190127TN364715T")

		So(err, ShouldBeNil)
		So(resType, ShouldEqual, Success)
		So(payment.Status, ShouldEqual, "PAYER_ACTION_REQUIRED")
		So(payment.CapturedAt, ShouldBeNil)
	})
}

func TestUnitCancelPayment(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()
	cfg, _ := config.Get()
	ctx := context.Background()

	Convey("No order id supplied", t, func() {
		mockPaymentService := createMockPaymentService(dao.NewMockDAO(mockCtrl), cfg)
		mockPayPalService := createMockPayPalService(NewMockPayPalSDK(mockCtrl), &mockPaymentService, events.NewMockProducer(mockCtrl))

		resType, err := mockPayPalService.CancelPayment(ctx, "")
		So(err, ShouldBeNil)
		So(resType, ShouldEqual, Success)
	})

	Convey("Unknown order", t, func() {
		mockDao := dao.NewMockDAO(mockCtrl)
		mockPaymentService := createMockPaymentService(mockDao, cfg)
		mockPayPalService := createMockPayPalService(NewMockPayPalSDK(mockCtrl), &mockPaymentService, events.NewMockProducer(mockCtrl))

		mockDao.EXPECT().GetPaymentResource(gomock.Any(), "unknown").Return(nil, nil)

		resType, err := mockPayPalService.CancelPayment(ctx, "unknown")
		So(err, ShouldBeNil)
		So(resType, ShouldEqual, Success)
	})

	Convey("Completed payment is left alone", t, func() {
		mockDao := dao.NewMockDAO(mockCtrl)
		mockPaymentService := createMockPaymentService(mockDao, cfg)
		mockPayPalService := createMockPayPalService(NewMockPayPalSDK(mockCtrl), &mockPaymentService, events.NewMockProducer(mockCtrl))

		record := fixtures.GetPaymentResourceDB(Created.String())
		record.Status = Completed.String()
		mockDao.EXPECT().GetPaymentResource(gomock.Any(), "5O190127TN364715T").Return(record, nil)

		resType, err := mockPayPalService.CancelPayment(ctx, "5O190127TN364715T")
		So(err, ShouldBeNil)
		So(resType, ShouldEqual, Success)
	})

	Convey("Created payment is cancelled", t, func() {
		mockDao := dao.NewMockDAO(mockCtrl)
		mockPaymentService := createMockPaymentService(mockDao, cfg)
		mockPayPalService := createMockPayPalService(NewMockPayPalSDK(mockCtrl), &mockPaymentService, events.NewMockProducer(mockCtrl))

		mockDao.EXPECT().GetPaymentResource(gomock.Any(), "5O190127TN364715T").Return(fixtures.GetPaymentResourceDB(Created.String()), nil)
		mockDao.EXPECT().PatchPaymentResource(gomock.Any(), "5O190127TN364715T", &models.PaymentResourceDB{Status: "CANCELLED"}).Return(nil)

		resType, err := mockPayPalService.CancelPayment(ctx, "5O190127TN364715T")
		So(err, ShouldBeNil)
		So(resType, ShouldEqual, Success)
	})

	Convey("Error reading payment record", t, func() {
		mockDao := dao.NewMockDAO(mockCtrl)
		mockPaymentService := createMockPaymentService(mockDao, cfg)
		mockPayPalService := createMockPayPalService(NewMockPayPalSDK(mockCtrl), &mockPaymentService, events.NewMockProducer(mockCtrl))

		mockDao.EXPECT().GetPaymentResource(gomock.Any(), "5O190127TN364715T").Return(nil, errors.New("error"))

		resType, err := mockPayPalService.CancelPayment(ctx, "5O190127TN364715T")
		So(resType, ShouldEqual, Error)
		So(err.Error(), ShouldEqual, "error getting payment resource from db: [error]")
	})
}

func TestUnitGetPayPalAPIBase(t *testing.T) {
	Convey("API base follows the environment", t, func() {
		So(getPayPalAPIBase("live"), ShouldEqual, paypal.APIBaseLive)
		So(getPayPalAPIBase("test"), ShouldEqual, paypal.APIBaseSandBox)
		So(getPayPalAPIBase("staging"), ShouldBeEmpty)
	})
}
