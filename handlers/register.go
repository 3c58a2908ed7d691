package handlers

import (
	"net/http"

	"github.com/companieshouse/chs.go/log"
	"github.com/go-chi/cors"
	"github.com/gorilla/mux"
	"github.com/kodlan/sait-paypal/config"
	"github.com/kodlan/sait-paypal/service"
)

var payPalService *service.PayPalService
var detectionService *service.DetectionService
var externalURL string
var maxUploadBytes int64

// Register defines the route mappings for the main router
func Register(mainRouter *mux.Router, cfg config.Config, pp *service.PayPalService, ds *service.DetectionService) {
	payPalService = pp
	detectionService = ds
	externalURL = cfg.ExternalURL
	maxUploadBytes = int64(cfg.MaxUploadSizeMB) << 20

	mainRouter.HandleFunc("/healthcheck", healthCheck).Methods("GET").Name("get-healthcheck")

	mainRouter.HandleFunc("/", HandleIndex).Methods("GET").Name("index")
	mainRouter.HandleFunc("/create-payment", HandleCreatePayment).Methods("POST").Name("create-payment")
	mainRouter.HandleFunc("/success", HandleCapturePayment).Methods("GET").Name("capture-payment")
	mainRouter.HandleFunc("/cancel", HandleCancelPayment).Methods("GET").Name("cancel-payment")
	mainRouter.HandleFunc("/payments/{paypal_order_id}", HandleGetPayment).Methods("GET").Name("get-payment")

	mainRouter.HandleFunc("/upload", HandleUploadForm).Methods("GET").Name("upload-form")
	mainRouter.HandleFunc("/upload", HandleUploadImage).Methods("POST").Name("upload-image")

	uploads := http.StripPrefix("/static/uploads/", noDirectoryListing(http.FileServer(http.Dir(cfg.UploadFolder))))
	mainRouter.PathPrefix("/static/uploads/").Handler(uploads).Methods("GET").Name("static-uploads")

	mainRouter.Use(log.Handler, cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}
