package handlers

import (
	"fmt"
	"net/http"

	"github.com/companieshouse/chs.go/log"
	"github.com/gorilla/mux"
	"github.com/kodlan/sait-paypal/models"
	"github.com/kodlan/sait-paypal/service"
	"github.com/kodlan/sait-paypal/transformers"
	"github.com/kodlan/sait-paypal/utils"
)

// HandleIndex renders the payment form
func HandleIndex(w http.ResponseWriter, req *http.Request) {
	render(w, req, "index.html", http.StatusOK, nil)
}

// HandleCreatePayment creates a PayPal order for the posted amount and
// redirects the buyer to PayPal to approve it
func HandleCreatePayment(w http.ResponseWriter, req *http.Request) {
	if err := req.ParseForm(); err != nil {
		log.ErrorR(req, fmt.Errorf("request body invalid: [%v]", err))
		writeError(w, req, http.StatusBadRequest, "invalid payment form")
		return
	}

	request := models.IncomingPaymentRequest{
		Amount:     req.PostFormValue("amount"),
		Percentage: req.PostFormValue("percentage"),
	}

	approvalURL, responseType, err := payPalService.CreatePayPalOrder(
		req.Context(),
		request,
		utils.ExternalURL(req, externalURL, "/success"),
		utils.ExternalURL(req, externalURL, "/cancel"),
	)
	if err != nil {
		log.ErrorR(req, fmt.Errorf("error creating paypal order: [%v]", err), log.Data{"response_type": responseType.String()})
		writeError(w, req, responseType.HTTPStatus(), err.Error())
		return
	}

	log.InfoR(req, "redirecting to paypal for approval", log.Data{"status": http.StatusFound})
	http.Redirect(w, req, approvalURL, http.StatusFound)
}

// HandleCapturePayment captures the order PayPal returned the buyer with
func HandleCapturePayment(w http.ResponseWriter, req *http.Request) {
	orderID := req.URL.Query().Get("token")
	if orderID == "" {
		log.ErrorR(req, fmt.Errorf("paypal order token missing from success redirect"))
		writeError(w, req, http.StatusBadRequest, "paypal order token missing")
		return
	}

	res, paymentResource, responseType, err := payPalService.CapturePayment(req.Context(), orderID)
	if err != nil {
		log.ErrorR(req, fmt.Errorf("error capturing payment: [%v]", err), log.Data{"paypal_order_id": orderID})
		writeError(w, req, responseType.HTTPStatus(), err.Error())
		return
	}

	result := models.CaptureResultRest{
		OrderID: res.ID,
		Status:  res.Status,
	}
	if paymentResource != nil {
		rest := transformers.PaymentTransformer{}.TransformToRest(*paymentResource)
		result.Payment = &rest
	}

	log.InfoR(req, "paypal order captured", log.Data{"paypal_order_id": orderID, "status": res.Status})

	if utils.WantsJSON(req) {
		utils.WriteJSONWithStatus(w, req, result, http.StatusOK)
		return
	}
	render(w, req, "success.html", http.StatusOK, result)
}

// HandleCancelPayment is where PayPal sends a buyer who abandoned approval
func HandleCancelPayment(w http.ResponseWriter, req *http.Request) {
	orderID := req.URL.Query().Get("token")

	responseType, err := payPalService.CancelPayment(req.Context(), orderID)
	if err != nil {
		log.ErrorR(req, fmt.Errorf("error cancelling payment: [%v]", err), log.Data{"paypal_order_id": orderID})
		writeError(w, req, responseType.HTTPStatus(), err.Error())
		return
	}

	result := models.CaptureResultRest{OrderID: orderID, Status: service.Cancelled.String()}
	if utils.WantsJSON(req) {
		utils.WriteJSONWithStatus(w, req, result, http.StatusOK)
		return
	}
	render(w, req, "cancel.html", http.StatusOK, result)
}

// HandleGetPayment returns the stored payment of a PayPal order
func HandleGetPayment(w http.ResponseWriter, req *http.Request) {
	orderID := mux.Vars(req)["paypal_order_id"]

	paymentResource, responseType, err := payPalService.PaymentService.GetPaymentResource(req.Context(), orderID)
	if err != nil {
		log.ErrorR(req, fmt.Errorf("error getting payment: [%v]", err), log.Data{"paypal_order_id": orderID})
		utils.WriteJSONWithStatus(w, req, utils.NewMessageResponse(err.Error()), responseType.HTTPStatus())
		return
	}

	utils.WriteJSONWithStatus(w, req, transformers.PaymentTransformer{}.TransformToRest(*paymentResource), http.StatusOK)
}
