// Package supplier provides environment config overrides.
package supplier

import (
	"strconv"
	"strings"
	"time"

	"suppliergw/internal/resilience"
)

// ApplyEnvOverrides applies SUPPLIERGW_* variables on top of cfg.
func ApplyEnvOverrides(cfg *Config, environ []string) error {
	if cfg == nil {
		return resilience.Wrap(resilience.CodeConfiguration, "config is required", nil)
	}
	values := envMap(environ)
	if value, ok := values["SUPPLIERGW_HTTP_ADDR"]; ok {
		cfg.HTTPListenAddr = value
	}
	if value, ok := values["SUPPLIERGW_ENABLE_AUTH"]; ok {
		parsed, err := parseBoolEnv("SUPPLIERGW_ENABLE_AUTH", value)
		if err != nil {
			return err
		}
		cfg.EnableAuth = parsed
	}
	if value, ok := values["SUPPLIERGW_ADMIN_TOKEN"]; ok {
		cfg.AdminToken = value
	}
	if value, ok := values["SUPPLIERGW_MAX_BODY_BYTES"]; ok {
		parsed, err := parseIntEnv("SUPPLIERGW_MAX_BODY_BYTES", value)
		if err != nil {
			return err
		}
		cfg.MaxBodyBytes = parsed
	}
	if value, ok := values["SUPPLIERGW_DRAIN_TIMEOUT_MS"]; ok {
		parsed, err := parseIntEnv("SUPPLIERGW_DRAIN_TIMEOUT_MS", value)
		if err != nil {
			return err
		}
		cfg.DrainTimeout = time.Duration(parsed) * time.Millisecond
	}
	if value, ok := values["SUPPLIERGW_HOLD_DEDUP_MS"]; ok {
		parsed, err := parseIntEnv("SUPPLIERGW_HOLD_DEDUP_MS", value)
		if err != nil {
			return err
		}
		cfg.TTLs.HoldDedup = time.Duration(parsed) * time.Millisecond
	}
	if value, ok := values["SUPPLIERGW_OFFLINE"]; ok {
		parsed, err := parseBoolEnv("SUPPLIERGW_OFFLINE", value)
		if err != nil {
			return err
		}
		cfg.Inventory.Offline = parsed
		cfg.FX.Offline = parsed
		cfg.Email.Offline = parsed
	}
	if err := applySupplierEnv(&cfg.Inventory, values, "SUPPLIERGW_INVENTORY"); err != nil {
		return err
	}
	if err := applySupplierEnv(&cfg.FX, values, "SUPPLIERGW_FX"); err != nil {
		return err
	}
	if err := applySupplierEnv(&cfg.Email, values, "SUPPLIERGW_EMAIL"); err != nil {
		return err
	}
	return nil
}

func applySupplierEnv(target *SupplierConfig, values map[string]string, prefix string) error {
	if value, ok := values[prefix+"_BUCKET_CAPACITY"]; ok {
		parsed, err := parseIntEnv(prefix+"_BUCKET_CAPACITY", value)
		if err != nil {
			return err
		}
		target.BucketCapacity = parsed
	}
	if value, ok := values[prefix+"_BUCKET_REFILL_MS"]; ok {
		parsed, err := parseIntEnv(prefix+"_BUCKET_REFILL_MS", value)
		if err != nil {
			return err
		}
		target.BucketRefillInterval = time.Duration(parsed) * time.Millisecond
	}
	if value, ok := values[prefix+"_BREAKER_FAILURE_THRESHOLD"]; ok {
		parsed, err := parseIntEnv(prefix+"_BREAKER_FAILURE_THRESHOLD", value)
		if err != nil {
			return err
		}
		target.BreakerFailureThreshold = parsed
	}
	if value, ok := values[prefix+"_BREAKER_COOLDOWN_MS"]; ok {
		parsed, err := parseIntEnv(prefix+"_BREAKER_COOLDOWN_MS", value)
		if err != nil {
			return err
		}
		target.BreakerCoolDown = time.Duration(parsed) * time.Millisecond
	}
	if value, ok := values[prefix+"_RETRY_ATTEMPTS"]; ok {
		parsed, err := parseIntEnv(prefix+"_RETRY_ATTEMPTS", value)
		if err != nil {
			return err
		}
		target.RetryAttempts = int(parsed)
	}
	if value, ok := values[prefix+"_RETRY_BASE_DELAY_MS"]; ok {
		parsed, err := parseIntEnv(prefix+"_RETRY_BASE_DELAY_MS", value)
		if err != nil {
			return err
		}
		target.RetryBaseDelay = time.Duration(parsed) * time.Millisecond
	}
	if value, ok := values[prefix+"_OFFLINE"]; ok {
		parsed, err := parseBoolEnv(prefix+"_OFFLINE", value)
		if err != nil {
			return err
		}
		target.Offline = parsed
	}
	return nil
}

func envMap(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, pair := range environ {
		name, value, found := strings.Cut(pair, "=")
		if !found || name == "" {
			continue
		}
		values[name] = value
	}
	return values
}

func parseBoolEnv(name, value string) (bool, error) {
	parsed, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return false, resilience.Wrap(resilience.CodeConfiguration, "invalid boolean for "+name, err)
	}
	return parsed, nil
}

func parseIntEnv(name, value string) (int64, error) {
	parsed, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, resilience.Wrap(resilience.CodeConfiguration, "invalid integer for "+name, err)
	}
	return parsed, nil
}
