package config_test

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/arsrivastawa/campus-talk-bcknd/pkg/config"
)

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError + 1})
	return slog.New(handler)
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load(newTestLogger(), "nonexistent-config")
	if err != nil {
		t.Fatalf("Load with missing file should fall back to defaults: %v", err)
	}

	if cfg.Server.Address != ":3001" {
		t.Errorf("unexpected default address %q", cfg.Server.Address)
	}
	if cfg.Server.AllowedOrigin != "*" {
		t.Errorf("unexpected default origin %q", cfg.Server.AllowedOrigin)
	}
	if cfg.Transport.ReadTimeout != 60*time.Second {
		t.Errorf("unexpected default read timeout %v", cfg.Transport.ReadTimeout)
	}
	if cfg.Engine.StatsInterval != 0 {
		t.Errorf("stats reporting should default to disabled, got %v", cfg.Engine.StatsInterval)
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("CAMPUSTALK_SERVER_ADDRESS", ":9090")

	cfg, err := config.Load(newTestLogger(), "nonexistent-config")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Address != ":9090" {
		t.Errorf("env override not applied, got %q", cfg.Server.Address)
	}
}
