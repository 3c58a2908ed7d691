// Package config defines the environment variable and command-line flags
// supported by this service and includes default values for particular
// fields.
package config

import (
	"sync"

	"github.com/companieshouse/gofigure"
)

var cfg *Config
var mtx sync.Mutex

// Config defines the configuration options for this service.
type Config struct {
	BindAddr    string `env:"BIND_ADDR"            flag:"bind-addr"              flagDesc:"Bind address"`
	ExternalURL string `env:"EXTERNAL_URL"         flag:"external-url"           flagDesc:"Public base URL used to build PayPal return and cancel URLs"`

	PaymentsStore       string `env:"PAYMENTS_STORE"         flag:"payments-store"         flagDesc:"Payment record store: postgres or mongo"`
	PostgresURL         string `env:"POSTGRES_URL"           flag:"postgres-url"           flagDesc:"PostgreSQL connection string"`
	PostgresMaxConns    int    `env:"POSTGRES_MAX_CONNS"     flag:"postgres-max-conns"     flagDesc:"Maximum PostgreSQL pool connections"`
	PostgresMaxIdleTime string `env:"POSTGRES_MAX_IDLE_TIME" flag:"postgres-max-idle-time" flagDesc:"Maximum idle time of a pooled connection"`
	MongoDBURL          string `env:"MONGODB_URL"            flag:"mongodb-url"            flagDesc:"MongoDB server URL"`
	Database            string `env:"MONGODB_DATABASE"       flag:"mongodb-database"       flagDesc:"MongoDB database for data"`
	Collection          string `env:"MONGODB_COLLECTION"     flag:"mongodb-collection"     flagDesc:"MongoDB collection for data"`

	PaypalEnv            string `env:"PAYPAL_ENV"             flag:"paypal-env"             flagDesc:"PayPal environment: test or live"`
	PaypalClientID       string `env:"PAYPAL_CLIENT_ID"       flag:"paypal-client-id"       flagDesc:"PayPal REST client ID"`
	PaypalSecret         string `env:"PAYPAL_SECRET"          flag:"paypal-secret"          flagDesc:"PayPal REST secret"`
	PaypalAPIBase        string `env:"PAYPAL_API_BASE"        flag:"paypal-api-base"        flagDesc:"Overrides the PayPal API base derived from PAYPAL_ENV"`
	PaypalCurrency       string `env:"PAYPAL_CURRENCY"        flag:"paypal-currency"        flagDesc:"Currency code of created orders"`
	PaypalTimeoutSeconds int    `env:"PAYPAL_TIMEOUT_SECONDS" flag:"paypal-timeout-seconds" flagDesc:"Timeout of calls to PayPal"`

	UploadFolder            string `env:"UPLOAD_FOLDER"             flag:"upload-folder"             flagDesc:"Folder uploaded and annotated images are written to"`
	MaxUploadSizeMB         int    `env:"MAX_UPLOAD_SIZE_MB"        flag:"max-upload-size-mb"        flagDesc:"Maximum accepted upload size in megabytes"`
	InferenceURL            string `env:"INFERENCE_URL"             flag:"inference-url"             flagDesc:"Prediction endpoint of the object detection model server"`
	InferenceHealthURL      string `env:"INFERENCE_HEALTH_URL"      flag:"inference-health-url"      flagDesc:"Health endpoint of the model server"`
	InferenceTimeoutSeconds int    `env:"INFERENCE_TIMEOUT_SECONDS" flag:"inference-timeout-seconds" flagDesc:"Timeout of a single prediction"`
	CloudinaryURL           string `env:"CLOUDINARY_URL"            flag:"cloudinary-url"            flagDesc:"Cloudinary URL; annotated images are uploaded there when set"`
	CloudinaryFolder        string `env:"CLOUDINARY_FOLDER"         flag:"cloudinary-folder"         flagDesc:"Cloudinary folder for annotated images"`

	BrokerAddr            []string `env:"KAFKA_BROKER_ADDR"       flag:"broker-addr"             flagDesc:"Kafka broker address list; events are disabled when empty"`
	PaymentProcessedTopic string   `env:"PAYMENT_PROCESSED_TOPIC" flag:"payment-processed-topic" flagDesc:"Topic payment-processed events are sent to"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" flag:"cors-allowed-origins" flagDesc:"Origins allowed to call the JSON endpoints"`
}

// DefaultConfig returns a pointer to a Config instance that has been populated
// with default values.
func DefaultConfig() *Config {
	return &Config{
		BindAddr:                ":5000",
		PaymentsStore:           "postgres",
		PostgresMaxConns:        10,
		PostgresMaxIdleTime:     "15m",
		Database:                "payments",
		Collection:              "payments",
		PaypalEnv:               "test",
		PaypalCurrency:          "USD",
		PaypalTimeoutSeconds:    30,
		UploadFolder:            "static/uploads",
		MaxUploadSizeMB:         16,
		InferenceURL:            "http://localhost:8080/predictions/fasterrcnn_resnet50_fpn",
		InferenceTimeoutSeconds: 60,
		CloudinaryFolder:        "detections",
		PaymentProcessedTopic:   "payment-processed",
		CORSAllowedOrigins:      []string{"*"},
	}
}

// Get returns a pointer to a Config instance that has been populated with
// values provided by the environment or command-line flags, or with default
// values if none are provided.
func Get() (*Config, error) {
	mtx.Lock()
	defer mtx.Unlock()

	if cfg != nil {
		return cfg, nil
	}

	cfg = DefaultConfig()

	err := gofigure.Gofigure(cfg)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}
