package config

import (
	"time"

	"github.com/page-vault/stash/internal/controller"
)

// Default constants for application configuration
const (
	DefaultLogLevel = "info"
	DefaultJSONLog  = false

	DefaultTimeout   = 240 * time.Second
	DefaultHeadless  = false
	DefaultUserAgent = "Stash/1.0 (https://github.com/page-vault/stash)"

	// The selector groups mirror the input mechanisms archive.ph is known
	// to expose: the main submit form and the search form that doubles as
	// a submission path.
	DefaultPrimarySelector  = "form#submiturl input[name='url'], input#submiturl, input[name='url']"
	DefaultFallbackSelector = "form#searchurl input[name='url'], input#searchurl, input[name='q']"

	// Wait-loop defaults are owned by the controller package; re-exported
	// here so flag help and validation share one source of truth.
	DefaultArchiveURL      = controller.DefaultArchiveURL
	DefaultLookupTimeout   = controller.DefaultLookupTimeout
	DefaultPollInterval    = controller.DefaultPollInterval
	DefaultCaptchaGrace    = controller.DefaultCaptchaGrace
	DefaultCaptchaSelector = controller.DefaultCaptchaSelector
	DefaultResultPattern   = controller.DefaultResultPattern
)
