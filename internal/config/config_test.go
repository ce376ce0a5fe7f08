package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Data.File != "supermarkt_sales.xlsx" {
		t.Errorf("data file = %q, want supermarkt_sales.xlsx", cfg.Data.File)
	}
	if cfg.Data.Sheet != "Sales" || cfg.Data.SkipRows != 3 || cfg.Data.Columns != "B:R" || cfg.Data.MaxRows != 1000 {
		t.Errorf("unexpected data defaults: %+v", cfg.Data)
	}
	if cfg.Server.ReadTimeout != 10*time.Second {
		t.Errorf("read timeout = %v, want 10s", cfg.Server.ReadTimeout)
	}
	if got := cfg.Address(); got != "localhost:8080" {
		t.Errorf("Address() = %q", got)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DATA_FILE", "sales.csv")
	t.Setenv("DATA_SHEET", "")
	t.Setenv("DATA_MAX_ROWS", "25")
	t.Setenv("LOG_FORMAT", "text")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.Server.Port)
	}
	if !cfg.Data.IsCSV() {
		t.Error("expected csv source")
	}
	if cfg.Data.MaxRows != 25 {
		t.Errorf("max rows = %d, want 25", cfg.Data.MaxRows)
	}
	if cfg.Logger.Format != "text" {
		t.Errorf("log format = %q, want text", cfg.Logger.Format)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"port out of range", "SERVER_PORT", "70000"},
		{"bad log level", "LOG_LEVEL", "verbose"},
		{"bad log format", "LOG_FORMAT", "xml"},
		{"negative skip rows", "DATA_SKIP_ROWS", "-1"},
		{"zero max rows", "DATA_MAX_ROWS", "0"},
		{"bad column range", "DATA_COLUMNS", "B-R"},
		{"zero rate limit", "SECURITY_RATE_LIMIT_RPS", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv(tt.key, tt.value)

			if _, err := Load(); err == nil {
				t.Errorf("Load() with %s=%q should fail", tt.key, tt.value)
			}
		})
	}
}

func TestDataConfig_IsCSV(t *testing.T) {
	tests := []struct {
		file string
		want bool
	}{
		{"supermarkt_sales.xlsx", false},
		{"export.CSV", true},
		{"data/sales.csv", true},
		{"sales", false},
	}

	for _, tt := range tests {
		if got := (DataConfig{File: tt.file}).IsCSV(); got != tt.want {
			t.Errorf("IsCSV(%q) = %v, want %v", tt.file, got, tt.want)
		}
	}
}
