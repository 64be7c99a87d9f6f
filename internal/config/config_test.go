package config

import (
	"testing"
	"time"
)

func TestLoadClientDefaults(t *testing.T) {
	cfg, err := LoadClient()
	if err != nil {
		t.Fatalf("LoadClient() error = %v", err)
	}
	if cfg.Environment != "development" || cfg.BaseURL != "http://localhost:8000" {
		t.Fatalf("unexpected client config: %+v", cfg)
	}
	if cfg.Mode != "" || cfg.Timeout != 0 || !cfg.SimDelays {
		t.Fatalf("unexpected client config: %+v", cfg)
	}
}

func TestLoadClientParse(t *testing.T) {
	t.Setenv("HM_ENV", "production")
	t.Setenv("API_BASE_URL", "https://agents.example.com")
	t.Setenv("API_MODE", "real")
	t.Setenv("API_TIMEOUT", "30s")
	t.Setenv("SIM_DELAYS", "false")

	cfg, err := LoadClient()
	if err != nil {
		t.Fatalf("LoadClient() error = %v", err)
	}
	if cfg.Environment != "production" || cfg.BaseURL != "https://agents.example.com" || cfg.Mode != "real" {
		t.Fatalf("unexpected client config: %+v", cfg)
	}
	if cfg.Timeout != 30*time.Second || cfg.SimDelays {
		t.Fatalf("unexpected client config: %+v", cfg)
	}
}

func TestLoadClientBadTimeout(t *testing.T) {
	t.Setenv("API_TIMEOUT", "soon")
	if _, err := LoadClient(); err == nil {
		t.Fatal("expected error for bad timeout")
	}
}

func TestLoadLogDefaults(t *testing.T) {
	cfg, err := LoadLog()
	if err != nil {
		t.Fatalf("LoadLog() error = %v", err)
	}
	if cfg.Level != "info" || cfg.MaxMB != 10 {
		t.Fatalf("unexpected log config: %+v", cfg)
	}
}

func TestLoadLogParse(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_PRETTY", "true")
	t.Setenv("LOG_FILE", "client.log")

	cfg, err := LoadLog()
	if err != nil {
		t.Fatalf("LoadLog() error = %v", err)
	}
	if cfg.Level != "debug" || !cfg.Pretty || cfg.File != "client.log" {
		t.Fatalf("unexpected log config: %+v", cfg)
	}
}

func TestLoadServer(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")

	cfg, err := LoadServer()
	if err != nil {
		t.Fatalf("LoadServer() error = %v", err)
	}
	if cfg.HTTPAddr != ":9090" {
		t.Fatalf("HTTPAddr = %q, want :9090", cfg.HTTPAddr)
	}
}

func TestLoadPlayer(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	cfg, err := LoadPlayer()
	if err != nil {
		t.Fatalf("LoadPlayer() error = %v", err)
	}
	if cfg.GeminiAPIKey != "" || cfg.GeminiModel != "gemini-2.5-flash" {
		t.Fatalf("unexpected player config: %+v", cfg)
	}

	t.Setenv("GEMINI_API_KEY", "key")
	t.Setenv("GEMINI_MODEL", "gemini-2.5-pro")
	cfg, err = LoadPlayer()
	if err != nil {
		t.Fatalf("LoadPlayer() error = %v", err)
	}
	if cfg.GeminiAPIKey != "key" || cfg.GeminiModel != "gemini-2.5-pro" {
		t.Fatalf("unexpected player config: %+v", cfg)
	}
}
