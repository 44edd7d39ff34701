package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
server:
  port: "9090"
redis:
  addr: localhost:6379
  ttl: 5m
quiz:
  reveal_pause: 1s
  topics:
    go: go_basics
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "9090" || cfg.Redis.Addr != "localhost:6379" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Quiz.Catalog != "data/questions.json" {
		t.Fatalf("expected default catalog path, got %q", cfg.Quiz.Catalog)
	}
	if cfg.Quiz.Topics["go"] != "go_basics" {
		t.Fatalf("expected topic override, got %v", cfg.Quiz.Topics)
	}
	if got := Duration(cfg.Quiz.RevealPause, time.Second); got != time.Second {
		t.Fatalf("expected 1s reveal pause, got %v", got)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "8080" || cfg.Quiz.DefaultTopic != "js_basics" {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadRejectsInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server: ["), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestDuration(t *testing.T) {
	if got := Duration("", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback, got %v", got)
	}
	if got := Duration("nope", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback for invalid, got %v", got)
	}
	if got := Duration("-1s", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback for negative, got %v", got)
	}
	if got := Duration("250ms", time.Minute); got != 250*time.Millisecond {
		t.Fatalf("expected 250ms, got %v", got)
	}
}
