// Package supplier provides config file loading.
package supplier

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"suppliergw/internal/resilience"
)

type yamlSupplier struct {
	BucketCapacity          *int64 `yaml:"bucketCapacity"`
	BucketRefillMs          *int64 `yaml:"bucketRefillMs"`
	BreakerFailureThreshold *int64 `yaml:"breakerFailureThreshold"`
	BreakerCoolDownMs       *int64 `yaml:"breakerCoolDownMs"`
	RetryAttempts           *int   `yaml:"retryAttempts"`
	RetryBaseDelayMs        *int64 `yaml:"retryBaseDelayMs"`
	CacheMaxEntries         *int   `yaml:"cacheMaxEntries"`
	Offline                 *bool  `yaml:"offline"`
}

type yamlConfig struct {
	HTTPListenAddr     string `yaml:"httpListenAddr"`
	HTTPReadTimeoutMs  int64  `yaml:"httpReadTimeoutMs"`
	HTTPWriteTimeoutMs int64  `yaml:"httpWriteTimeoutMs"`
	HTTPIdleTimeoutMs  int64  `yaml:"httpIdleTimeoutMs"`
	MaxBodyBytes       int64  `yaml:"maxBodyBytes"`
	DrainTimeoutMs     int64  `yaml:"drainTimeoutMs"`
	EnableAuth         *bool  `yaml:"enableAuth"`
	AdminToken         string `yaml:"adminToken"`

	TTLs struct {
		SearchCacheMs int64 `yaml:"searchCacheMs"`
		QuoteCacheMs  int64 `yaml:"quoteCacheMs"`
		RateCacheMs   int64 `yaml:"rateCacheMs"`
		HoldDedupMs   int64 `yaml:"holdDedupMs"`
		EmailDedupMs  int64 `yaml:"emailDedupMs"`
	} `yaml:"ttls"`

	Suppliers struct {
		Inventory yamlSupplier `yaml:"inventory"`
		FX        yamlSupplier `yaml:"fx"`
		Email     yamlSupplier `yaml:"email"`
	} `yaml:"suppliers"`
}

// LoadFile applies settings from a YAML file on top of cfg.
func LoadFile(cfg *Config, path string) error {
	if cfg == nil {
		return resilience.Wrap(resilience.CodeConfiguration, "config is required", nil)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return resilience.Wrap(resilience.CodeConfiguration, "cannot read config file "+path, err)
	}
	var file yamlConfig
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return resilience.Wrap(resilience.CodeConfiguration, "cannot parse config file "+path, err)
	}

	if file.HTTPListenAddr != "" {
		cfg.HTTPListenAddr = file.HTTPListenAddr
	}
	if file.HTTPReadTimeoutMs > 0 {
		cfg.HTTPReadTimeout = time.Duration(file.HTTPReadTimeoutMs) * time.Millisecond
	}
	if file.HTTPWriteTimeoutMs > 0 {
		cfg.HTTPWriteTimeout = time.Duration(file.HTTPWriteTimeoutMs) * time.Millisecond
	}
	if file.HTTPIdleTimeoutMs > 0 {
		cfg.HTTPIdleTimeout = time.Duration(file.HTTPIdleTimeoutMs) * time.Millisecond
	}
	if file.MaxBodyBytes > 0 {
		cfg.MaxBodyBytes = file.MaxBodyBytes
	}
	if file.DrainTimeoutMs > 0 {
		cfg.DrainTimeout = time.Duration(file.DrainTimeoutMs) * time.Millisecond
	}
	if file.EnableAuth != nil {
		cfg.EnableAuth = *file.EnableAuth
	}
	if file.AdminToken != "" {
		cfg.AdminToken = file.AdminToken
	}

	if file.TTLs.SearchCacheMs > 0 {
		cfg.TTLs.SearchCache = time.Duration(file.TTLs.SearchCacheMs) * time.Millisecond
	}
	if file.TTLs.QuoteCacheMs > 0 {
		cfg.TTLs.QuoteCache = time.Duration(file.TTLs.QuoteCacheMs) * time.Millisecond
	}
	if file.TTLs.RateCacheMs > 0 {
		cfg.TTLs.RateCache = time.Duration(file.TTLs.RateCacheMs) * time.Millisecond
	}
	if file.TTLs.HoldDedupMs > 0 {
		cfg.TTLs.HoldDedup = time.Duration(file.TTLs.HoldDedupMs) * time.Millisecond
	}
	if file.TTLs.EmailDedupMs > 0 {
		cfg.TTLs.EmailDedup = time.Duration(file.TTLs.EmailDedupMs) * time.Millisecond
	}

	applySupplierFile(&cfg.Inventory, file.Suppliers.Inventory)
	applySupplierFile(&cfg.FX, file.Suppliers.FX)
	applySupplierFile(&cfg.Email, file.Suppliers.Email)
	return nil
}

func applySupplierFile(target *SupplierConfig, file yamlSupplier) {
	if file.BucketCapacity != nil {
		target.BucketCapacity = *file.BucketCapacity
	}
	if file.BucketRefillMs != nil {
		target.BucketRefillInterval = time.Duration(*file.BucketRefillMs) * time.Millisecond
	}
	if file.BreakerFailureThreshold != nil {
		target.BreakerFailureThreshold = *file.BreakerFailureThreshold
	}
	if file.BreakerCoolDownMs != nil {
		target.BreakerCoolDown = time.Duration(*file.BreakerCoolDownMs) * time.Millisecond
	}
	if file.RetryAttempts != nil {
		target.RetryAttempts = *file.RetryAttempts
	}
	if file.RetryBaseDelayMs != nil {
		target.RetryBaseDelay = time.Duration(*file.RetryBaseDelayMs) * time.Millisecond
	}
	if file.CacheMaxEntries != nil {
		target.CacheMaxEntries = *file.CacheMaxEntries
	}
	if file.Offline != nil {
		target.Offline = *file.Offline
	}
}
