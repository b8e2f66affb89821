package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Timeout != 240*time.Second {
		t.Errorf("unexpected default timeout: %s", cfg.Timeout)
	}
	if cfg.Headless {
		t.Error("headless should default to false so captchas can be solved by hand")
	}
	if cfg.ArchiveURL != "https://archive.ph/" {
		t.Errorf("unexpected default archive URL: %s", cfg.ArchiveURL)
	}
	if cfg.PrimarySelector == "" || cfg.FallbackSelector == "" {
		t.Error("default selectors must not be empty")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("STASH_PROXY", "http://localhost:8080")
	t.Setenv("STASH_ARCHIVE_URL", "https://archive.today/")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Proxy != "http://localhost:8080" {
		t.Errorf("proxy env override ignored: %s", cfg.Proxy)
	}
	if cfg.ArchiveURL != "https://archive.today/" {
		t.Errorf("archive URL env override ignored: %s", cfg.ArchiveURL)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, _ := Load(nil)
		return cfg
	}

	cases := []struct {
		name  string
		mut   func(*Config)
		valid bool
	}{
		{"defaults", func(c *Config) {}, true},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, false},
		{"poll >= timeout", func(c *Config) { c.PollInterval = c.Timeout }, false},
		{"zero captcha grace", func(c *Config) { c.CaptchaGrace = 0 }, false},
		{"empty primary selector", func(c *Config) { c.PrimarySelector = "" }, false},
		{"bad archive URL", func(c *Config) { c.ArchiveURL = "not-a-url" }, false},
		{"bad result pattern", func(c *Config) { c.ResultPattern = "([" }, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.mut(cfg)
			err := validate(cfg)
			if tc.valid && err != nil {
				t.Errorf("expected valid, got %v", err)
			}
			if !tc.valid && err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}
