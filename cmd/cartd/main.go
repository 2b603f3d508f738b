package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fjod/rocketshoes-cart/internal/catalog"
	h "github.com/fjod/rocketshoes-cart/internal/http"
	"github.com/fjod/rocketshoes-cart/internal/notify"
	"github.com/fjod/rocketshoes-cart/internal/poller"
	"github.com/fjod/rocketshoes-cart/internal/store"
	"github.com/sirupsen/logrus"
)

func newLogger(level string) *logrus.Logger {
	log := logrus.New()
	log.Formatter = &logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "severity",
			logrus.FieldKeyMsg:   "message",
		},
		TimestampFormat: time.RFC3339Nano,
	}
	log.Out = os.Stdout
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.Level = lvl
	return log
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		logrus.Fatalf("invalid configuration: %v", err)
	}

	logger := newLogger(cfg.LogLevel)
	log := logger.WithField("service", "cartd")

	ctx := context.Background()
	storage, err := openStorage(ctx, cfg, log.WithField("component", "storage"))
	if err != nil {
		log.Fatalf("failed to open cart storage: %v", err)
	}
	defer storage.Close()

	catalogClient := catalog.NewClient(cfg.CatalogURL, cfg.CatalogTimeout, log.WithField("component", "catalog"))
	log.Infof("using catalog at %s", cfg.CatalogURL)

	opts := []store.Option{
		store.WithStorageKey(cfg.StorageKey),
		store.WithMessages(store.MessagesFor(cfg.Locale)),
		store.WithLogger(log.WithField("component", "cart-store")),
	}
	if cfg.SerializeMutations {
		opts = append(opts, store.WithSerializedMutations())
	}
	cartStore := store.NewCartStore(ctx, storage, catalogClient, catalogClient,
		notify.NewLogNotifier(log.WithField("component", "notifier")), opts...)

	pollCtx, stopPolling := context.WithCancel(ctx)
	defer stopPolling()
	if len(cfg.KafkaBrokers) > 0 {
		p := poller.NewPoller(cartStore, cfg.OwnerID, cfg.CheckoutTopic, log.WithField("component", "poller"), cfg.KafkaBrokers...)
		defer p.Close()
		go p.Run(pollCtx)
		log.Infof("consuming checkout events from %s", cfg.CheckoutTopic)
	}

	cartHandler := h.NewCartHandler(cartStore, cfg.RequestTimeout, log.WithField("component", "http"))
	router := h.NewRouter(cartHandler, h.RouterConfig{
		RequestTimeout:     cfg.RequestTimeout,
		MaxRequestBodySize: cfg.MaxRequestBodySize,
	}, log.WithField("component", "http"))

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infof("cart service listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down cart service...")
	stopPolling()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("server forced to shutdown: %v", err)
	}

	log.Info("cart service stopped")
}
