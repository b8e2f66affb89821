package controller

import (
	"fmt"
	"time"

	"github.com/page-vault/stash/internal/urlutil"
)

// Request describes one submission to the archive service.
// It is constructed once by the CLI layer and never mutated afterwards.
type Request struct {
	// TargetURL is the page to archive. Must be a syntactically valid
	// http or https URL.
	TargetURL string

	// Timeout bounds each submission attempt. The fallback attempt, if
	// taken, gets its own full budget of the same size.
	Timeout time.Duration

	// PrimarySelector locates the main submission input. A CSS selector
	// group (comma-separated) is allowed; the first visible match wins.
	PrimarySelector string

	// FallbackSelector locates the secondary input tried after a primary
	// timeout. Empty or equal to PrimarySelector disables the fallback.
	FallbackSelector string

	// Headless controls whether the browser window is shown. Keeping the
	// window visible lets a human solve captcha challenges.
	Headless bool
}

// Validate checks the request invariants before any browser work starts.
func (r Request) Validate() error {
	if r.TargetURL == "" {
		return fmt.Errorf("target URL is required")
	}
	if err := urlutil.ValidateURL(r.TargetURL); err != nil {
		return err
	}
	if r.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", r.Timeout)
	}
	if r.PrimarySelector == "" {
		return fmt.Errorf("primary selector is required")
	}
	return nil
}

// hasFallback reports whether a distinct, untried fallback input exists.
func (r Request) hasFallback() bool {
	return r.FallbackSelector != "" && r.FallbackSelector != r.PrimarySelector
}
