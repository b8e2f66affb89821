package controller

import "errors"

// Error taxonomy for submission runs. Browser-layer faults are wrapped and
// mapped into a Failure outcome at the controller boundary; none of these
// escape Submit as raw errors.
var (
	// ErrElementNotFound is returned by a Session when a selector matches
	// nothing within the element lookup timeout.
	ErrElementNotFound = errors.New("element not found")

	// ErrNavigationTimeout marks a wait loop that exhausted its budget
	// without observing a result navigation. Its message becomes the
	// reason of the resulting timed-out outcome.
	ErrNavigationTimeout = errors.New("timeout")

	// ErrCaptchaUnresolved marks a captcha frame that stayed visible
	// beyond its wait allowance.
	ErrCaptchaUnresolved = errors.New("captcha unresolved")

	// ErrBrowserError marks an underlying session failure: crash, closed
	// connection, network fault. Sessions wrap their faults with this so
	// the controller can treat them uniformly.
	ErrBrowserError = errors.New("browser error")
)
