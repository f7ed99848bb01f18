// Package supplier provides an HTTP transport.
package supplier

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"
)

// HTTPTransportConfig carries transport tuning and auth settings.
type HTTPTransportConfig struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	MaxBodyBytes int64
	EnableAuth   bool
	AdminToken   string
	Logger       Logger
	Metrics      *InMemoryMetrics
}

// HTTPTransport serves the booking API over HTTP.
type HTTPTransport struct {
	addr     string
	srv      *http.Server
	booking  BookingService
	ready    func() bool
	inflight *InFlight
	cfg      HTTPTransportConfig
	mux      http.Handler
	mu       sync.Mutex
}

// NewHTTPTransport constructs a transport bound to an address.
func NewHTTPTransport(addr string, ready func() bool, cfg HTTPTransportConfig) *HTTPTransport {
	if addr == "" {
		addr = ":8080"
	}
	if ready == nil {
		ready = func() bool { return false }
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 1 << 20
	}
	if cfg.Logger == nil {
		cfg.Logger = NopLogger{}
	}
	return &HTTPTransport{
		addr:     addr,
		ready:    ready,
		inflight: NewInFlight(),
		cfg:      cfg,
	}
}

// ServeBooking registers the booking service.
func (t *HTTPTransport) ServeBooking(service BookingService) error {
	if service == nil {
		return errors.New("booking service is required")
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.booking = service
	return nil
}

// Start begins serving HTTP requests.
func (t *HTTPTransport) Start() error {
	if t == nil {
		return errors.New("http transport is nil")
	}
	handler, err := t.handler()
	if err != nil {
		return err
	}
	t.mu.Lock()
	if t.srv == nil {
		t.srv = &http.Server{
			Addr:         t.addr,
			Handler:      handler,
			ReadTimeout:  t.cfg.ReadTimeout,
			WriteTimeout: t.cfg.WriteTimeout,
			IdleTimeout:  t.cfg.IdleTimeout,
		}
	}
	srv := t.srv
	t.mu.Unlock()

	listener, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return err
	}
	if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (t *HTTPTransport) Shutdown(ctx context.Context) error {
	if t == nil {
		return errors.New("http transport is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	t.inflight.Close()
	if err := t.inflight.Wait(ctx); err != nil {
		return err
	}
	t.mu.Lock()
	srv := t.srv
	t.mu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// Handler returns the HTTP handler for testing.
func (t *HTTPTransport) Handler() (http.Handler, error) {
	return t.handler()
}

func (t *HTTPTransport) handler() (http.Handler, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.mux != nil {
		return t.mux, nil
	}
	if t.booking == nil {
		return nil, errors.New("booking service must be registered before starting")
	}
	mux := http.NewServeMux()
	t.registerRoutes(mux)
	t.mux = mux
	return mux, nil
}
