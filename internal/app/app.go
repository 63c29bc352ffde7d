package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"mess-portal/internal/apiclient"
	"mess-portal/internal/config"
	"mess-portal/internal/handler"
	"mess-portal/internal/metrics"
	"mess-portal/internal/notify"
	"mess-portal/internal/router"
	"mess-portal/internal/service"
	"mess-portal/internal/session"
	"mess-portal/internal/websocket"
)

type App struct {
	server       *http.Server
	handler      http.Handler
	store        *session.Store
	cleanupFuncs []func(ctx context.Context)
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return NewWithConfig(cfg)
}

// NewWithConfig wires the portal around cfg without reading the environment.
func NewWithConfig(cfg *config.Config) (*App, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.New(registry)

	api, err := apiclient.New(apiclient.Options{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.APITimeout,
		Metrics: collector,
		Logger:  slog.Default().With("component", "apiclient"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize API client: %w", err)
	}
	slog.Info("mess API configured", "base_url", api.BaseURL())

	if !cfg.PaymentsConfigured() {
		slog.Warn("payment provider not configured; purchase flows are disabled")
	}
	payments := service.PaymentConfig{
		PublishableKey: cfg.StripePublishableKey,
		PriceID:        cfg.StripePriceID,
	}

	queue := notify.NewQueue(cfg.NotifyBuffer, collector)

	hubCtx, stopHub := context.WithCancel(context.Background())
	hub := websocket.NewHub(queue, cfg.CORSOrigins, slog.Default().With("component", "notifications"))
	go hub.Run(hubCtx)

	authService := service.NewAuthService(api)
	store := session.New(authService, slog.Default().With("component", "session"))

	userService := service.NewUserService(api, store)
	menuService := service.NewMenuService(api, store)
	mealEntryService := service.NewMealEntryService(api, store)
	purchaseService := service.NewPurchaseService(api, store, payments)
	subscriptionService := service.NewSubscriptionService(api, store, payments)
	reportService := service.NewReportService(api, store)

	studentHandler := handler.NewStudentHandler(menuService, mealEntryService, purchaseService, subscriptionService, queue, cfg.DefaultPageSize)
	adminHandler := handler.NewAdminHandler(userService, menuService, reportService, queue, cfg.DefaultPageSize)
	store.OnReset(studentHandler.Reset)
	store.OnReset(adminHandler.Reset)

	appRouter := router.New(cfg, store, queue, registry, router.Handlers{
		Auth:          handler.NewAuthHandler(authService, userService, queue),
		Profile:       handler.NewProfileHandler(userService, queue),
		Student:       studentHandler,
		Admin:         adminHandler,
		Notifications: handler.NewNotificationHandler(queue),
		Stream:        hub,
	})

	store.Restore(context.Background())

	server := &http.Server{
		Addr:              ":" + cfg.PortalPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{
		server:  server,
		handler: appRouter,
		store:   store,
		cleanupFuncs: []func(ctx context.Context){
			func(context.Context) { stopHub() },
			func(ctx context.Context) {
				// Revoke the refresh credential of a session left open at exit.
				if store.Snapshot().IsAuthenticated {
					_ = store.Logout(ctx)
				}
			},
		},
	}, nil
}

func (a *App) Handler() http.Handler {
	return a.handler
}

func (a *App) Run() error {
	go func() {
		slog.Info("portal starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	for _, cleanup := range a.cleanupFuncs {
		cleanup(ctx)
	}

	slog.Info("portal stopped")
	return nil
}
