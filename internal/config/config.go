package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// Config holds application configuration values
type Config struct {
	// Logging
	LogLevel string
	JSONLog  bool

	// Submission
	ArchiveURL       string
	Timeout          time.Duration
	Headless         bool
	PrimarySelector  string
	FallbackSelector string
	ResultPattern    string
	CaptchaSelector  string
	CaptchaGrace     time.Duration
	LookupTimeout    time.Duration
	PollInterval     time.Duration

	// Browser
	UserAgent  string
	Proxy      string
	ChromePath string

	// Artifacts
	ReceiptPath  string
	SavePagePath string
}

// Load builds a Config by combining defaults, environment variables, and CLI
// flags. Caller should pass the root *cobra.Command so flags can be read.
func Load(cmd *cobra.Command) (*Config, error) {
	cfg := &Config{
		LogLevel:         DefaultLogLevel,
		JSONLog:          DefaultJSONLog,
		ArchiveURL:       DefaultArchiveURL,
		Timeout:          DefaultTimeout,
		Headless:         DefaultHeadless,
		PrimarySelector:  DefaultPrimarySelector,
		FallbackSelector: DefaultFallbackSelector,
		ResultPattern:    DefaultResultPattern,
		CaptchaSelector:  DefaultCaptchaSelector,
		CaptchaGrace:     DefaultCaptchaGrace,
		LookupTimeout:    DefaultLookupTimeout,
		PollInterval:     DefaultPollInterval,
		UserAgent:        DefaultUserAgent,
	}

	// Environment overrides
	if v := os.Getenv("STASH_USER_AGENT"); v != "" {
		cfg.UserAgent = v
	}
	if v := os.Getenv("STASH_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("STASH_CHROME_PATH"); v != "" {
		cfg.ChromePath = v
	}
	if v := os.Getenv("STASH_ARCHIVE_URL"); v != "" {
		cfg.ArchiveURL = v
	}

	// CLI flag overrides
	if cmd != nil {
		readString(cmd, "archive-url", &cfg.ArchiveURL)
		readString(cmd, "primary-selector", &cfg.PrimarySelector)
		readString(cmd, "fallback-selector", &cfg.FallbackSelector)
		readString(cmd, "result-pattern", &cfg.ResultPattern)
		readString(cmd, "user-agent", &cfg.UserAgent)
		readString(cmd, "proxy", &cfg.Proxy)
		readString(cmd, "chrome-path", &cfg.ChromePath)
		readString(cmd, "receipt", &cfg.ReceiptPath)
		readString(cmd, "save-page", &cfg.SavePagePath)
		readDuration(cmd, "timeout", &cfg.Timeout)
		readDuration(cmd, "captcha-grace", &cfg.CaptchaGrace)
		readDuration(cmd, "poll-interval", &cfg.PollInterval)
		readBool(cmd, "headless", &cfg.Headless)
		readBool(cmd, "json", &cfg.JSONLog)

		if f := cmd.Flags().Lookup("verbose"); f != nil && f.Value.String() == "true" {
			cfg.LogLevel = "debug"
		}
		if f := cmd.Flags().Lookup("quiet"); f != nil && f.Value.String() == "true" {
			cfg.LogLevel = "error"
		}
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func readString(cmd *cobra.Command, name string, dst *string) {
	if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
		*dst = f.Value.String()
	}
}

func readBool(cmd *cobra.Command, name string, dst *bool) {
	if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
		*dst = f.Value.String() == "true"
	}
}

func readDuration(cmd *cobra.Command, name string, dst *time.Duration) {
	f := cmd.Flags().Lookup(name)
	if f == nil || !f.Changed {
		return
	}
	if d, err := time.ParseDuration(f.Value.String()); err == nil {
		*dst = d
	}
}
