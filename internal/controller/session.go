package controller

import (
	"context"
	"time"
)

// Element is a handle to a located page element. chromedp drives elements
// by selector, so the handle carries the resolved selector rather than an
// opaque node reference.
type Element struct {
	Selector string
}

// Session is the browser capability surface the controller depends on.
// The real implementation lives in internal/browser; tests use a fake.
//
// Opening and closing the session are owned by the caller of Submit, which
// guarantees release on every exit path. All blocking calls take a context
// and honor its deadline.
type Session interface {
	// Navigate loads the given URL in the session's tab.
	Navigate(ctx context.Context, url string) error

	// Find waits up to timeout for an element matching the selector to be
	// visible. Returns ErrElementNotFound when nothing matches in time.
	Find(ctx context.Context, selector string, timeout time.Duration) (Element, error)

	// Type clears the element and types the given text into it.
	Type(ctx context.Context, el Element, text string) error

	// Submit triggers the site's submit action on the element
	// (press Enter).
	Submit(ctx context.Context, el Element) error

	// CurrentURL returns the URL of the session's active tab.
	CurrentURL(ctx context.Context) (string, error)

	// ResultURL reports whether the tab navigated away from the since URL
	// or a new page opened, and if so which URL it landed on. It must not
	// block; the controller polls it.
	ResultURL(ctx context.Context, since string) (string, bool, error)

	// FramePresent reports whether an embedded frame (or challenge node)
	// matching the selector group is currently visible.
	FramePresent(ctx context.Context, selector string) (bool, error)
}
