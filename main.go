package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/companieshouse/chs.go/log"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/kodlan/sait-paypal/config"
	"github.com/kodlan/sait-paypal/dao"
	"github.com/kodlan/sait-paypal/events"
	"github.com/kodlan/sait-paypal/handlers"
	"github.com/kodlan/sait-paypal/service"
	"github.com/kodlan/sait-paypal/storage"
	"golang.org/x/sync/errgroup"
)

func main() {
	log.Namespace = "sait-paypal"

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Error(fmt.Errorf("error loading .env file: [%v]", err))
	}

	cfg, err := config.Get()
	if err != nil {
		log.Error(fmt.Errorf("error configuring service: [%v]", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err = run(ctx, cfg); err != nil {
		log.Error(err)
		os.Exit(1)
	}
	log.Trace("Exiting sait-paypal service")
}

func run(ctx context.Context, cfg *config.Config) error {
	paymentsDAO, err := dao.NewDAO(ctx, cfg)
	if err != nil {
		return fmt.Errorf("error connecting to payments store: [%v]", err)
	}
	defer paymentsDAO.Close(context.Background())

	paypalClient, err := service.GetPayPalClient(*cfg)
	if err != nil {
		return err
	}

	producer := events.NewKafkaProducer(cfg.BrokerAddr, cfg.PaymentProcessedTopic)
	defer producer.Close()

	payPalService := &service.PayPalService{
		Client:         paypalClient,
		PaymentService: service.PaymentService{DAO: paymentsDAO, Config: *cfg},
		Producer:       producer,
	}

	detectionService, err := newDetectionService(ctx, cfg)
	if err != nil {
		return err
	}

	router := mux.NewRouter()
	handlers.Register(router, *cfg, payPalService, detectionService)

	srv := &http.Server{
		Addr:         cfg.BindAddr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: time.Duration(cfg.InferenceTimeoutSeconds+30) * time.Second,
		IdleTimeout:  time.Minute,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Starting sait-paypal service", log.Data{"bind_addr": cfg.BindAddr, "payments_store": cfg.PaymentsStore})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("error serving http: [%v]", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info("Shutting down sait-paypal service")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func newDetectionService(ctx context.Context, cfg *config.Config) (*service.DetectionService, error) {
	originals, err := storage.NewDisk(cfg.UploadFolder, "/static/uploads")
	if err != nil {
		return nil, err
	}

	var results storage.ImageStore = originals
	if cfg.CloudinaryURL != "" {
		results, err = storage.NewCloudinary(cfg.CloudinaryURL, cfg.CloudinaryFolder)
		if err != nil {
			return nil, err
		}
	}

	adapter := service.NewModelAdapter(cfg.InferenceURL, cfg.InferenceHealthURL, time.Duration(cfg.InferenceTimeoutSeconds)*time.Second)
	if err = adapter.CheckHealth(ctx); err != nil {
		log.Info("model server not ready, uploads will fail until it is", log.Data{"error": err.Error(), "inference_url": cfg.InferenceURL})
	}

	return &service.DetectionService{
		Inference: adapter,
		Originals: originals,
		Results:   results,
	}, nil
}
