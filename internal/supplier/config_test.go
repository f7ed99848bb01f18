package supplier

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"suppliergw/internal/resilience"
)

func TestLoadFile_AppliesSettings(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
httpListenAddr: ":9000"
enableAuth: true
adminToken: "tok"
ttls:
  holdDedupMs: 86400000
suppliers:
  inventory:
    bucketCapacity: 42
    breakerFailureThreshold: 7
    offline: false
  fx:
    retryAttempts: 5
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg := DefaultConfig()
	if err := LoadFile(cfg, path); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.HTTPListenAddr != ":9000" {
		t.Fatalf("unexpected addr %q", cfg.HTTPListenAddr)
	}
	if !cfg.EnableAuth || cfg.AdminToken != "tok" {
		t.Fatalf("auth settings not applied")
	}
	if cfg.TTLs.HoldDedup != 24*time.Hour {
		t.Fatalf("unexpected hold dedup ttl %v", cfg.TTLs.HoldDedup)
	}
	if cfg.Inventory.BucketCapacity != 42 || cfg.Inventory.BreakerFailureThreshold != 7 {
		t.Fatalf("inventory settings not applied: %+v", cfg.Inventory)
	}
	if cfg.Inventory.Offline {
		t.Fatalf("inventory offline flag not overridden")
	}
	if cfg.FX.RetryAttempts != 5 {
		t.Fatalf("fx retry attempts not applied")
	}
	// Untouched fields keep their defaults.
	if cfg.Email.BucketCapacity != 5 {
		t.Fatalf("email defaults clobbered: %+v", cfg.Email)
	}
}

func TestLoadFile_MissingFileIsConfigurationError(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	err := LoadFile(cfg, filepath.Join(t.TempDir(), "absent.yaml"))
	if resilience.CodeOf(err) != resilience.CodeConfiguration {
		t.Fatalf("expected CONFIGURATION error, got %v", err)
	}
}

func TestApplyEnvOverrides_AppliesValues(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	environ := []string{
		"SUPPLIERGW_HTTP_ADDR=:7070",
		"SUPPLIERGW_ENABLE_AUTH=true",
		"SUPPLIERGW_ADMIN_TOKEN=tok",
		"SUPPLIERGW_OFFLINE=false",
		"SUPPLIERGW_INVENTORY_BUCKET_CAPACITY=99",
		"SUPPLIERGW_FX_BREAKER_COOLDOWN_MS=10000",
	}
	if err := ApplyEnvOverrides(cfg, environ); err != nil {
		t.Fatalf("env overrides failed: %v", err)
	}
	if cfg.HTTPListenAddr != ":7070" {
		t.Fatalf("unexpected addr %q", cfg.HTTPListenAddr)
	}
	if !cfg.EnableAuth || cfg.AdminToken != "tok" {
		t.Fatalf("auth overrides not applied")
	}
	if cfg.Inventory.Offline || cfg.FX.Offline || cfg.Email.Offline {
		t.Fatalf("offline override not applied")
	}
	if cfg.Inventory.BucketCapacity != 99 {
		t.Fatalf("inventory bucket capacity not applied")
	}
	if cfg.FX.BreakerCoolDown != 10*time.Second {
		t.Fatalf("fx breaker cooldown not applied: %v", cfg.FX.BreakerCoolDown)
	}
}

func TestApplyEnvOverrides_RejectsMalformedValues(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	err := ApplyEnvOverrides(cfg, []string{"SUPPLIERGW_ENABLE_AUTH=notabool"})
	if resilience.CodeOf(err) != resilience.CodeConfiguration {
		t.Fatalf("expected CONFIGURATION error, got %v", err)
	}

	err = ApplyEnvOverrides(cfg, []string{"SUPPLIERGW_INVENTORY_BUCKET_CAPACITY=many"})
	if resilience.CodeOf(err) != resilience.CodeConfiguration {
		t.Fatalf("expected CONFIGURATION error, got %v", err)
	}
}

func TestNewApplication_RequiresTokenWithAuth(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.EnableAuth = true
	if _, err := NewApplication(cfg); err == nil {
		t.Fatalf("expected error when auth is enabled without a token")
	}
}
