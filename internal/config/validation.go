package config

import (
	"fmt"
	"regexp"

	"github.com/page-vault/stash/internal/urlutil"
)

func validate(c *Config) error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0")
	}
	if c.LookupTimeout <= 0 {
		return fmt.Errorf("lookup timeout must be > 0")
	}
	if c.PollInterval <= 0 || c.PollInterval >= c.Timeout {
		return fmt.Errorf("poll interval must be > 0 and shorter than the timeout")
	}
	if c.CaptchaGrace <= 0 {
		return fmt.Errorf("captcha grace must be > 0")
	}
	if c.PrimarySelector == "" {
		return fmt.Errorf("primary selector must not be empty")
	}
	if err := urlutil.ValidateURL(c.ArchiveURL); err != nil {
		return fmt.Errorf("archive URL: %w", err)
	}
	if _, err := regexp.Compile(c.ResultPattern); err != nil {
		return fmt.Errorf("result pattern: %w", err)
	}
	return nil
}
