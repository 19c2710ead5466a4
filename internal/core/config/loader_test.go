package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vietddude/mergewatch/internal/core/domain"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
github:
  token: secret
  request_timeout: 5s
targets:
  - owner: octo
    repo: repo
    number: 42
policies:
  default:
    max_retries: 3
    base_delay: 1s
    max_delay: 10s
    backoff_factor: 2.0
    strategy: exponential
    timeout: 5m
  per_state:
    unstable:
      max_retries: 8
      base_delay: 2s
      max_delay: 30s
      backoff_factor: 1.5
      strategy: linear
      jitter: true
      timeout: 10m
history:
  retention: 24h
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.GitHub.Token != "secret" {
		t.Errorf("Token = %q", cfg.GitHub.Token)
	}
	if cfg.GitHub.RequestTimeout != 5*time.Second {
		t.Errorf("RequestTimeout = %v", cfg.GitHub.RequestTimeout)
	}
	if len(cfg.Targets) != 1 || cfg.Targets[0].ID() != "octo/repo#42" {
		t.Errorf("unexpected targets: %+v", cfg.Targets)
	}
	if cfg.History.Retention != 24*time.Hour {
		t.Errorf("Retention = %v", cfg.History.Retention)
	}

	reg, err := cfg.Policies.Registry()
	if err != nil {
		t.Fatalf("Registry failed: %v", err)
	}
	if got := reg.Lookup(domain.StateUnstable); got.MaxRetries != 8 {
		t.Errorf("unstable MaxRetries = %d, want 8", got.MaxRetries)
	}
	if got := reg.Lookup(domain.StateDraft); got.MaxRetries != 3 {
		t.Errorf("fallback MaxRetries = %d, want 3", got.MaxRetries)
	}
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
github:
  token: secret
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("default port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.GitHub.RequestTimeout != 30*time.Second {
		t.Errorf("default request timeout = %v", cfg.GitHub.RequestTimeout)
	}

	// No policies configured: the built-in registry applies.
	reg, err := cfg.Policies.Registry()
	if err != nil {
		t.Fatalf("Registry failed: %v", err)
	}
	if got := reg.Lookup(domain.StateClean); got.MaxRetries == 0 && got.BaseDelay == 0 {
		t.Error("expected built-in defaults")
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("MW_TEST_TOKEN", "expanded-token")

	path := writeConfig(t, `
github:
  token: ${MW_TEST_TOKEN}
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.GitHub.Token != "expanded-token" {
		t.Errorf("Token = %q, want expanded-token", cfg.GitHub.Token)
	}
}

func TestLoad_InvalidTarget(t *testing.T) {
	path := writeConfig(t, `
targets:
  - owner: octo
    repo: ""
    number: 42
`)

	if _, err := Load(path); err == nil {
		t.Error("expected error for invalid target")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
