package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"arayesh-shop/internal/config"
	"arayesh-shop/internal/db"
	"arayesh-shop/internal/events"
	"arayesh-shop/internal/httpserver"
	"arayesh-shop/internal/mail"
	brandrepo "arayesh-shop/internal/repository/brand"
	categoryrepo "arayesh-shop/internal/repository/category"
	customerrepo "arayesh-shop/internal/repository/customer"
	orderrepo "arayesh-shop/internal/repository/order"
	productrepo "arayesh-shop/internal/repository/product"
	reviewrepo "arayesh-shop/internal/repository/review"
	sliderepo "arayesh-shop/internal/repository/slide"
	tokenrepo "arayesh-shop/internal/repository/token"
	"arayesh-shop/internal/service/account"
	cartsvc "arayesh-shop/internal/service/cart"
	"arayesh-shop/internal/service/catalog"
	ordersvc "arayesh-shop/internal/service/order"
	reviewsvc "arayesh-shop/internal/service/review"
)

func main() {
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("invalid config: %v", err)
	}

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	productRepo := productrepo.NewPostgres(dbpool, logger)
	catalogService := catalog.New(
		productRepo,
		categoryrepo.NewPostgres(dbpool, logger),
		brandrepo.NewPostgres(dbpool, logger),
		sliderepo.NewPostgres(dbpool, logger),
		logger,
	)
	accountService := account.New(customerrepo.NewPostgres(dbpool, logger), tokenrepo.NewPostgres(dbpool), account.Options{
		Secret:     cfg.JWTSecret,
		AccessTTL:  cfg.AccessTokenTTL,
		RefreshTTL: cfg.RefreshTokenTTL,
		Logger:     logger,
	})

	var notifiers []ordersvc.Notifier
	if len(cfg.KafkaBrokers) > 0 {
		cl, err := events.NewClient(ctx, cfg.KafkaBrokers, cfg.KafkaOrdersTopic)
		if err != nil {
			logger.Fatalf("connect to kafka: %v", err)
		}
		producer := events.NewProducer(cl, logger)
		defer producer.Close()
		notifiers = append(notifiers, producer)
		logger.Printf("publishing order events to %s", cfg.KafkaOrdersTopic)
	}
	if cfg.PostmarkServerToken != "" {
		notifiers = append(notifiers, mail.NewPostmark(cfg.PostmarkServerToken, cfg.MailFrom, logger))
		logger.Printf("sending order confirmations from %s", cfg.MailFrom)
	}

	orderService := ordersvc.New(orderrepo.NewPostgres(dbpool, logger), accountService, productRepo, ordersvc.Options{
		Reprice:         cfg.OrderReprice,
		TrackingEnabled: cfg.TrackingEnabled,
		Notifiers:       notifiers,
		Logger:          logger,
	})
	sessions := cartsvc.NewSessions(cfg.CartSessionTTL)
	cartService := cartsvc.New(sessions, catalogService, orderService, logger)
	reviewService := reviewsvc.New(reviewrepo.NewPostgres(dbpool, logger), accountService, catalogService, logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		Catalog:     catalogService,
		Cart:        cartService,
		Orders:      orderService,
		Accounts:    accountService,
		Reviews:     reviewService,
		CORSOrigins: cfg.CORSAllowedOrigins,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	stopSweeper := startTokenSweeper(tokenrepo.NewPostgres(dbpool), logger)
	defer stopSweeper()

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
	orderService.Wait()
}

// startTokenSweeper removes expired refresh tokens every hour until the
// returned stop func is called.
func startTokenSweeper(tokens tokenrepo.Repository, logger *log.Logger) func() {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := tokens.DeleteExpired(ctx, time.Now())
				if err != nil {
					logger.Printf("token sweep failed: %v", err)
					continue
				}
				if n > 0 {
					logger.Printf("token sweep removed %d expired tokens", n)
				}
			}
		}
	}()
	return func() {
		cancel()
		<-done
	}
}
