package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/aura-fashion/shop-backend/internal/config"
	"github.com/aura-fashion/shop-backend/internal/gateway"
	"github.com/aura-fashion/shop-backend/internal/httpserver"
	"github.com/aura-fashion/shop-backend/internal/logging"
	"github.com/aura-fashion/shop-backend/internal/middleware/loggingmw"
	"github.com/aura-fashion/shop-backend/internal/models"
	"github.com/aura-fashion/shop-backend/internal/mykafka"
	"github.com/aura-fashion/shop-backend/internal/otp"
	"github.com/aura-fashion/shop-backend/internal/repo"
	"github.com/aura-fashion/shop-backend/internal/search"
	"github.com/aura-fashion/shop-backend/internal/service"
	"github.com/aura-fashion/shop-backend/pkg/db"
)

func main() {
	cfg := config.Load()
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	database, err := db.Open(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	if err := database.AutoMigrate(models.All()...); err != nil {
		log.Fatalf("db migrate error: %v", err)
	}

	repository := repo.New(database)

	var producer *mykafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = mykafka.NewProducer(cfg.KafkaBrokers)
		defer producer.Close()
	} else {
		logger.Warn("KAFKA_BROKERS unset, events disabled")
	}

	var otpStore *otp.Store
	if cfg.RedisURL != "" {
		otpStore, err = otp.New(cfg.RedisURL, cfg.OTPTTL)
		if err != nil {
			logger.Warn("redis unavailable, password reset disabled", "error", err)
		} else {
			defer otpStore.Close()
		}
	}

	var searchClient *search.Client
	if cfg.ESURL != "" {
		searchClient, err = search.NewClient(search.Config{
			URL:      cfg.ESURL,
			User:     cfg.ESUser,
			Password: cfg.ESPassword,
			Index:    cfg.ESIndex,
		})
		if err != nil {
			logger.Warn("elasticsearch unavailable, search falls back to listing", "error", err)
			searchClient = nil
		}
	}

	var paymentGateway gateway.PaymentGateway
	if cfg.RazorpayKeyID != "" && cfg.RazorpayKeySecret != "" {
		paymentGateway = gateway.NewRazorpayClient(cfg.RazorpayBaseURL, cfg.RazorpayKeyID, cfg.RazorpayKeySecret)
	} else {
		logger.Warn("razorpay keys unset, online payments disabled")
	}

	checkoutSvc := &service.CheckoutService{
		Repo:     repository,
		Gateway:  paymentGateway,
		Producer: producer,
		Cfg: service.CheckoutConfig{
			ShippingFee:           cfg.ShippingFee,
			FreeShippingThreshold: cfg.FreeShippingThreshold,
			TaxPercent:            cfg.TaxPercent,
		},
	}
	orderSvc := &service.OrderService{Repo: repository, ReturnWindow: cfg.ReturnWindow}
	paymentSvc := &service.PaymentService{Repo: repository, Gateway: paymentGateway, Producer: producer}
	authSvc := &service.Auth{
		Repo:           repository,
		OTP:            otpStore,
		Producer:       producer,
		JWTSecret:      cfg.JWTSecret,
		AccessTokenTTL: cfg.AccessTokenTTL,
	}
	cartSvc := &service.CartService{Repo: repository}
	catalogSvc := &service.CatalogService{Repo: repository, Search: searchClient, Producer: producer}
	reviewSvc := &service.ReviewService{Repo: repository}
	addressSvc := &service.AddressService{Repo: repository}

	e := echo.New()
	e.HideBanner = true

	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))

	httpserver.Register(e, &httpserver.Deps{
		Auth:      &httpserver.AuthHTTP{Svc: authSvc, AccessTokenTTL: cfg.AccessTokenTTL},
		Addresses: &httpserver.AddressHTTP{Svc: addressSvc},
		Catalog:   &httpserver.CatalogHTTP{Svc: catalogSvc},
		Cart:      &httpserver.CartHTTP{Svc: cartSvc},
		Orders: &httpserver.OrderHTTP{
			Checkout: checkoutSvc,
			Orders:   orderSvc,
			Payments: paymentSvc,
		},
		Reviews:   &httpserver.ReviewHTTP{Svc: reviewSvc},
		JWTSecret: cfg.JWTSecret,
	})

	go func() {
		addr := fmt.Sprintf(":%d", cfg.ServerPort)
		logger.Info("starting server", "addr", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("echo start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("echo shutdown", "error", err)
	}

	if sqlDB, err := database.DB(); err == nil {
		sqlDB.Close()
	}

	logger.Info("server stopped")
}
