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

	"go.uber.org/zap"

	"github.com/iliyamo/summer-camp/internal/config"
	"github.com/iliyamo/summer-camp/internal/database"
	"github.com/iliyamo/summer-camp/internal/handler"
	"github.com/iliyamo/summer-camp/internal/logger"
	"github.com/iliyamo/summer-camp/internal/payment"
	"github.com/iliyamo/summer-camp/internal/queue"
	"github.com/iliyamo/summer-camp/internal/repository"
	"github.com/iliyamo/summer-camp/internal/router"
	"github.com/iliyamo/summer-camp/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "summer-camp:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		cols  *repository.Collections
		store handler.Pinger
	)
	switch cfg.StoreDriver {
	case config.DriverMemory:
		log.Warn("using in-memory store; data is lost on exit")
		cols = repository.NewMemoryCollections()
	default:
		db, err := database.Connect(ctx, database.Options{
			URI:      cfg.MongoURI,
			Name:     cfg.DBName,
			Timeout:  cfg.DBTimeout,
			Attempts: cfg.DBConnectRetry,
		}, log)
		if err != nil {
			return err
		}
		defer func() {
			dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := db.Disconnect(dctx); err != nil {
				log.Warn("mongo disconnect", zap.Error(err))
			}
		}()
		cols = repository.NewMongoCollections(db.Database())
		store = db
	}

	gw, err := payment.New(payment.Options{
		Provider:   cfg.PaymentProvider,
		SecretKey:  cfg.PaymentSecretKey,
		Production: cfg.MidtransProduction,
	})
	if err != nil {
		// the rest of the API stays usable; intents answer 502
		log.Warn("payment gateway disabled", zap.Error(err))
		gw = nil
	}

	var pub queue.Publisher = queue.NopPublisher{}
	if cfg.RabbitURL != "" {
		amqpPub := queue.NewAMQPPublisher(cfg.RabbitURL, log)
		defer amqpPub.Close()
		pub = amqpPub
	}

	rdb := config.NewRedisClient()
	if rdb != nil {
		defer rdb.Close()
	}

	e := router.New(router.Deps{
		Services:  service.New(cols, gw, pub, log),
		Config:    cfg,
		RateLimit: config.LoadRateLimitConfig(),
		Redis:     rdb,
		Store:     store,
		Log:       log,
	})

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env), zap.String("store", cfg.StoreDriver))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(sctx)
}
