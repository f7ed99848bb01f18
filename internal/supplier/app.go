// Package supplier wires application dependencies.
package supplier

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// Application holds core components for the gateway.
type Application struct {
	Config    *Config
	Inventory *Integration
	FX        *Integration
	Email     *Integration
	Booking   *Booking
	Metrics   *InMemoryMetrics
	Logger    Logger

	transport *HTTPTransport
	ready     atomic.Bool
	wg        sync.WaitGroup
	errOnce   sync.Once
	serveErr  error
}

// NewApplication validates configuration and prepares the application.
func NewApplication(cfg *Config) (*Application, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if cfg.HTTPListenAddr == "" {
		cfg.HTTPListenAddr = ":8080"
	}
	if cfg.DrainTimeout <= 0 {
		cfg.DrainTimeout = 5 * time.Second
	}
	if cfg.EnableAuth && cfg.AdminToken == "" {
		return nil, errors.New("admin token is required when auth is enabled")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = NopLogger{}
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = NewInMemoryMetrics()
	}

	inventoryClient := cfg.InventoryClient
	if inventoryClient == nil {
		inventoryClient = NewFixtureClient("inventory")
	}
	fxClient := cfg.FXClient
	if fxClient == nil {
		fxClient = NewFixtureClient("fx")
	}
	emailClient := cfg.EmailClient
	if emailClient == nil {
		emailClient = NewFixtureClient("email")
	}

	inventory := NewIntegration("inventory", inventoryClient, cfg.Inventory.integrationOptions(), logger, metrics)
	fx := NewIntegration("fx", fxClient, cfg.FX.integrationOptions(), logger, metrics)
	email := NewIntegration("email", emailClient, cfg.Email.integrationOptions(), logger, metrics)
	booking := NewBooking(inventory, fx, email, cfg.TTLs)

	app := &Application{
		Config:    cfg,
		Inventory: inventory,
		FX:        fx,
		Email:     email,
		Booking:   booking,
		Metrics:   metrics,
		Logger:    logger,
	}

	transport := NewHTTPTransport(cfg.HTTPListenAddr, app.ready.Load, HTTPTransportConfig{
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
		MaxBodyBytes: cfg.MaxBodyBytes,
		EnableAuth:   cfg.EnableAuth,
		AdminToken:   cfg.AdminToken,
		Logger:       logger,
		Metrics:      metrics,
	})
	if err := transport.ServeBooking(booking); err != nil {
		return nil, err
	}
	app.transport = transport
	return app, nil
}

// Handler exposes the HTTP handler for tests.
func (app *Application) Handler() (http.Handler, error) {
	if app == nil || app.transport == nil {
		return nil, errors.New("application is not initialized")
	}
	return app.transport.Handler()
}

// Ready marks the application ready without starting the listener.
// Tests drive the handler directly.
func (app *Application) Ready() {
	if app == nil {
		return
	}
	app.ready.Store(true)
}

// Start begins serving and marks the application ready. The transport
// runs until Shutdown stops it.
func (app *Application) Start(ctx context.Context) error {
	if app == nil || app.transport == nil {
		return errors.New("application is not initialized")
	}
	app.wg.Add(1)
	go func() {
		defer app.wg.Done()
		if err := app.transport.Start(); err != nil {
			app.errOnce.Do(func() { app.serveErr = err })
			app.Logger.Error("http transport stopped", map[string]any{"error": err.Error()})
		}
	}()
	app.ready.Store(true)
	app.Logger.Info("application started", map[string]any{
		"addr":    app.Config.HTTPListenAddr,
		"offline": app.Inventory.Offline(),
	})
	return nil
}

// Shutdown drains in-flight work and stops the transport.
func (app *Application) Shutdown(ctx context.Context) error {
	if app == nil {
		return nil
	}
	app.ready.Store(false)
	if ctx == nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), app.Config.DrainTimeout)
		defer cancel()
	}
	err := app.transport.Shutdown(ctx)
	app.wg.Wait()
	if err != nil {
		return err
	}
	return app.serveErr
}
