package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"TodoTally/internal/todo"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "todotally.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "server:\n  address: \"\"\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Server.Address != ":8080" {
		t.Fatalf("unexpected address: %s", cfg.Server.Address)
	}
	if cfg.Source.URL != todo.DefaultSourceURL {
		t.Fatalf("unexpected source url: %s", cfg.Source.URL)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "json" {
		t.Fatalf("unexpected log defaults: %+v", cfg.Log)
	}
}

func TestLoadParsesFields(t *testing.T) {
	path := writeConfig(t, `
server:
  address: ":9090"
source:
  url: "https://example.com/todos"
  timeout_seconds: 3
log:
  level: debug
  format: text
  invocation:
    enabled: true
    path: logs/invocations.log
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Server.Address != ":9090" {
		t.Fatalf("unexpected address: %s", cfg.Server.Address)
	}
	if cfg.Source.URL != "https://example.com/todos" {
		t.Fatalf("unexpected source url: %s", cfg.Source.URL)
	}
	if cfg.Source.Timeout() != 3*time.Second {
		t.Fatalf("unexpected timeout: %s", cfg.Source.Timeout())
	}
	if !cfg.Log.Invocation.Enabled || cfg.Log.Invocation.Path != "logs/invocations.log" {
		t.Fatalf("unexpected invocation log config: %+v", cfg.Log.Invocation)
	}
}

func TestEnvOverridesSourceURL(t *testing.T) {
	path := writeConfig(t, "source:\n  url: \"https://example.com/todos\"\n")
	t.Setenv(EnvSourceURL, "https://override.example.com/todos")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Source.URL != "https://override.example.com/todos" {
		t.Fatalf("URI must win over the config file, got %s", cfg.Source.URL)
	}
}

func TestFromEnv(t *testing.T) {
	t.Run("default endpoint when unset", func(t *testing.T) {
		t.Setenv(EnvSourceURL, "")
		cfg := FromEnv()
		if cfg.Source.URL != todo.DefaultSourceURL {
			t.Fatalf("unexpected source url: %s", cfg.Source.URL)
		}
	})

	t.Run("URI override", func(t *testing.T) {
		t.Setenv(EnvSourceURL, "https://override.example.com/todos")
		cfg := FromEnv()
		if cfg.Source.URL != "https://override.example.com/todos" {
			t.Fatalf("unexpected source url: %s", cfg.Source.URL)
		}
	})
}

func TestLoadRejectsMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
	if _, err := Load(""); err == nil {
		t.Fatal("expected an error for an empty path")
	}
}
