package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"matchdeck/internal/config"
)

func TestDefaultValidates(t *testing.T) {
	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.Review.PageSize != 20 {
		t.Fatalf("expected default page size 20, got %d", cfg.Review.PageSize)
	}
	if cfg.Review.StalenessSeconds != 30 {
		t.Fatalf("expected default staleness 30s, got %d", cfg.Review.StalenessSeconds)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.toml")
	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for missing file")
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if cfg.Paths.APIBind != "127.0.0.1:8001" {
		t.Fatalf("unexpected api bind: %q", cfg.Paths.APIBind)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := strings.Join([]string{
		"[paths]",
		`data_dir = "` + filepath.Join(dir, "data") + `"`,
		"[review]",
		"page_size = 50",
		"staleness_seconds = 5",
		"[logging]",
		`level = "debug"`,
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists {
		t.Fatal("expected exists=true")
	}
	if cfg.Review.PageSize != 50 {
		t.Fatalf("expected page size 50, got %d", cfg.Review.PageSize)
	}
	if cfg.Review.StalenessSeconds != 5 {
		t.Fatalf("expected staleness 5, got %d", cfg.Review.StalenessSeconds)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected debug level, got %q", cfg.Logging.Level)
	}
	if cfg.Paths.DataDir != filepath.Join(dir, "data") {
		t.Fatalf("unexpected data dir: %q", cfg.Paths.DataDir)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"zero page size", func(c *config.Config) { c.Review.PageSize = 0 }},
		{"negative staleness", func(c *config.Config) { c.Review.StalenessSeconds = -1 }},
		{"bad log format", func(c *config.Config) { c.Logging.Format = "xml" }},
		{"bad log level", func(c *config.Config) { c.Logging.Level = "verbose" }},
		{"empty data dir", func(c *config.Config) { c.Paths.DataDir = "" }},
		{"zero api timeout", func(c *config.Config) { c.API.TimeoutSeconds = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestEnvTokenOverride(t *testing.T) {
	t.Setenv("MATCHDECK_API_TOKEN", "secret-token")
	path := filepath.Join(t.TempDir(), "absent.toml")
	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Paths.APIToken != "secret-token" {
		t.Fatalf("expected env token override, got %q", cfg.Paths.APIToken)
	}
}

func TestSampleConfigIsEmbedded(t *testing.T) {
	if !strings.Contains(config.SampleConfig(), "[review]") {
		t.Fatal("sample config should describe the review section")
	}
}
