package config

import (
	"log/slog"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.DBPath != "data/ims.db" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "data/ims.db")
	}
	if cfg.UploadDir != "data/uploads" {
		t.Errorf("UploadDir = %q, want %q", cfg.UploadDir, "data/uploads")
	}
	if cfg.MaxUploadBytes != 8388608 {
		t.Errorf("MaxUploadBytes = %d, want 8388608", cfg.MaxUploadBytes)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
}

func TestLoad_Overrides(t *testing.T) {
	// t.Setenv restores the previous value when the test ends.
	t.Setenv("PORT", "9999")
	t.Setenv("DB_PATH", "/tmp/test.db")
	t.Setenv("UPLOAD_DIR", "/tmp/blobs")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != 9999 {
		t.Errorf("Port = %d, want 9999", cfg.Port)
	}
	if cfg.DBPath != "/tmp/test.db" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "/tmp/test.db")
	}
	if cfg.UploadDir != "/tmp/blobs" {
		t.Errorf("UploadDir = %q, want %q", cfg.UploadDir, "/tmp/blobs")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("PORT", "not-a-number")

	if _, err := Load(); err == nil {
		t.Error("Load() succeeded with a non-numeric PORT, want error")
	}
}

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo}, // unknown values fall back to info
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		cfg := Config{LogLevel: tt.in}
		if got := cfg.SlogLevel(); got != tt.want {
			t.Errorf("SlogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
