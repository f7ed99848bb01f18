// Package supplier provides configuration for the application wiring.
package supplier

import (
	"time"

	"suppliergw/internal/resilience"
)

// SupplierConfig tunes the resilience primitives for one supplier surface.
type SupplierConfig struct {
	BucketCapacity          int64
	BucketRefillInterval    time.Duration
	BreakerFailureThreshold int64
	BreakerCoolDown         time.Duration
	RetryAttempts           int
	RetryBaseDelay          time.Duration
	CacheMaxEntries         int
	Offline                 bool
}

func (c SupplierConfig) integrationOptions() IntegrationOptions {
	return IntegrationOptions{
		BucketCapacity:       c.BucketCapacity,
		BucketRefillInterval: c.BucketRefillInterval,
		Breaker: resilience.CircuitOptions{
			FailureThreshold: c.BreakerFailureThreshold,
			CoolDown:         c.BreakerCoolDown,
		},
		Retry: resilience.RetryPolicy{
			Attempts:  c.RetryAttempts,
			BaseDelay: c.RetryBaseDelay,
		},
		CacheMaxEntries: c.CacheMaxEntries,
		Offline:         c.Offline,
	}
}

// Config captures dependency and runtime settings.
type Config struct {
	HTTPListenAddr   string
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	MaxBodyBytes     int64
	DrainTimeout     time.Duration
	EnableAuth       bool
	AdminToken       string

	TTLs BookingTTLs

	Inventory SupplierConfig
	FX        SupplierConfig
	Email     SupplierConfig

	// InventoryClient and friends default to fixture clients when nil.
	InventoryClient Client
	FXClient        Client
	EmailClient     Client

	Logger  Logger
	Metrics *InMemoryMetrics
}

func defaultSupplierConfig() SupplierConfig {
	return SupplierConfig{
		BucketCapacity:          10,
		BucketRefillInterval:    time.Second,
		BreakerFailureThreshold: 5,
		BreakerCoolDown:         30 * time.Second,
		RetryAttempts:           3,
		RetryBaseDelay:          100 * time.Millisecond,
		CacheMaxEntries:         1024,
	}
}

// DefaultConfig returns the standalone default configuration, with all
// suppliers served from fixtures.
func DefaultConfig() *Config {
	inventory := defaultSupplierConfig()
	inventory.Offline = true
	fx := defaultSupplierConfig()
	fx.Offline = true
	email := defaultSupplierConfig()
	email.Offline = true
	email.BucketCapacity = 5

	return &Config{
		HTTPListenAddr: ":8080",
		MaxBodyBytes:   1 << 20,
		DrainTimeout:   5 * time.Second,
		Inventory:      inventory,
		FX:             fx,
		Email:          email,
	}
}
