// Package browser provides the chromedp-backed implementation of the
// controller's Session interface: one exclusively-owned browser tab per
// submission run.
package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
	"github.com/rs/zerolog/log"

	"github.com/page-vault/stash/internal/controller"
)

// callTimeout bounds individual CDP round-trips that are not already
// covered by a caller deadline.
const callTimeout = 30 * time.Second

// Options configure the launched browser.
type Options struct {
	Headless   bool
	UserAgent  string
	Proxy      string
	ChromePath string
}

// ChromeSession drives a single Chrome tab through chromedp. It implements
// controller.Session and is not safe for concurrent use; the controller is
// single-threaded by design.
type ChromeSession struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
}

// NewSession launches a browser and opens one tab. The caller must Close
// the session on every exit path.
func NewSession(ctx context.Context, opts Options) (*ChromeSession, error) {
	chromePath := opts.ChromePath
	if chromePath == "" {
		chromePath = FindChrome()
	}

	allocOpts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-breakpad", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-hang-monitor", true),
		chromedp.Flag("disable-prompt-on-repost", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("mute-audio", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-infobars", true),
		chromedp.Flag("window-size", "1280,900"),
	}
	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}
	if opts.Headless {
		allocOpts = append(allocOpts, chromedp.Flag("headless", "new"))
	}
	if chromePath != "" {
		allocOpts = append([]chromedp.ExecAllocatorOption{chromedp.ExecPath(chromePath)}, allocOpts...)
	}
	if opts.Proxy != "" {
		allocOpts = append(allocOpts, chromedp.ProxyServer(opts.Proxy))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	browserCtx, cancel := chromedp.NewContext(allocCtx)

	// Start the browser process now so launch failures surface here
	// instead of on the first navigation.
	if err := chromedp.Run(browserCtx); err != nil {
		cancel()
		allocCancel()
		return nil, fmt.Errorf("%w: launching browser: %v", controller.ErrBrowserError, err)
	}

	log.Debug().
		Str("chrome", chromePath).
		Bool("headless", opts.Headless).
		Msg("Browser session started")

	return &ChromeSession{ctx: browserCtx, cancel: cancel, allocCancel: allocCancel}, nil
}

// Navigate loads the given URL and waits for the document body.
func (s *ChromeSession) Navigate(ctx context.Context, url string) error {
	tctx, cancel := s.deadline(ctx, callTimeout)
	defer cancel()

	err := chromedp.Run(tctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("%w: navigate %s: %v", controller.ErrBrowserError, url, err)
	}
	return nil
}

// Find waits up to timeout for a visible element matching the selector.
func (s *ChromeSession) Find(ctx context.Context, selector string, timeout time.Duration) (controller.Element, error) {
	tctx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()

	err := chromedp.Run(tctx, chromedp.WaitVisible(selector, chromedp.ByQuery))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return controller.Element{}, controller.ErrElementNotFound
		}
		return controller.Element{}, fmt.Errorf("%w: find %q: %v", controller.ErrBrowserError, selector, err)
	}
	return controller.Element{Selector: selector}, nil
}

// Type focuses the element, clears it and types the text.
func (s *ChromeSession) Type(ctx context.Context, el controller.Element, text string) error {
	tctx, cancel := s.deadline(ctx, callTimeout)
	defer cancel()

	err := chromedp.Run(tctx,
		chromedp.Click(el.Selector, chromedp.ByQuery),
		chromedp.Clear(el.Selector, chromedp.ByQuery),
		chromedp.SendKeys(el.Selector, text, chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("%w: type into %q: %v", controller.ErrBrowserError, el.Selector, err)
	}
	return nil
}

// Submit presses Enter in the element, triggering the site's submit action.
func (s *ChromeSession) Submit(ctx context.Context, el controller.Element) error {
	tctx, cancel := s.deadline(ctx, callTimeout)
	defer cancel()

	err := chromedp.Run(tctx, chromedp.SendKeys(el.Selector, kb.Enter, chromedp.ByQuery))
	if err != nil {
		return fmt.Errorf("%w: submit %q: %v", controller.ErrBrowserError, el.Selector, err)
	}
	return nil
}

// CurrentURL returns the active tab's location.
func (s *ChromeSession) CurrentURL(ctx context.Context) (string, error) {
	tctx, cancel := s.deadline(ctx, callTimeout)
	defer cancel()

	var loc string
	if err := chromedp.Run(tctx, chromedp.Location(&loc)); err != nil {
		return "", fmt.Errorf("%w: read location: %v", controller.ErrBrowserError, err)
	}
	return loc, nil
}

// ResultURL reports a navigation away from since in the active tab, or a
// new page target opened by the site. It does not block beyond one CDP
// round-trip; the controller polls it.
func (s *ChromeSession) ResultURL(ctx context.Context, since string) (string, bool, error) {
	tctx, cancel := s.deadline(ctx, 5*time.Second)
	defer cancel()

	var loc string
	if err := chromedp.Run(tctx, chromedp.Location(&loc)); err != nil {
		return "", false, fmt.Errorf("%w: read location: %v", controller.ErrBrowserError, err)
	}
	if isCandidate(loc, since) {
		return loc, true, nil
	}

	infos, err := chromedp.Targets(s.ctx)
	if err != nil {
		return "", false, fmt.Errorf("%w: list targets: %v", controller.ErrBrowserError, err)
	}
	for _, info := range infos {
		if isPage(info) && isCandidate(info.URL, since) {
			return info.URL, true, nil
		}
	}
	return "", false, nil
}

func isPage(info *target.Info) bool {
	return info != nil && info.Type == "page"
}

// FramePresent evaluates whether any element matching the selector group is
// visible. Evaluation races with in-flight navigations are common, so
// errors here degrade to "not present" instead of failing the run; real
// browser faults surface through the location poll.
func (s *ChromeSession) FramePresent(ctx context.Context, selector string) (bool, error) {
	tctx, cancel := s.deadline(ctx, 5*time.Second)
	defer cancel()

	expr := fmt.Sprintf(
		`(function(){var el = document.querySelector(%q); return !!el && (el.offsetWidth > 0 || el.offsetHeight > 0 || el.getClientRects().length > 0);})()`,
		selector,
	)
	var present bool
	if err := chromedp.Run(tctx, chromedp.Evaluate(expr, &present)); err != nil {
		log.Debug().Err(err).Msg("Frame visibility check failed, treating as absent")
		return false, nil
	}
	return present, nil
}

// PageHTML returns the serialized document of the active tab.
func (s *ChromeSession) PageHTML(ctx context.Context) (string, error) {
	tctx, cancel := s.deadline(ctx, callTimeout)
	defer cancel()

	var html string
	if err := chromedp.Run(tctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("%w: read page HTML: %v", controller.ErrBrowserError, err)
	}
	return html, nil
}

// Close shuts the browser down. Safe to call once on every exit path.
func (s *ChromeSession) Close() error {
	// Graceful browser shutdown first, then tear down the contexts.
	err := chromedp.Cancel(s.ctx)
	s.cancel()
	s.allocCancel()
	if err != nil {
		return fmt.Errorf("closing browser: %w", err)
	}
	return nil
}

// deadline derives a run context from the session's browser context,
// honoring the caller's deadline when one is set.
func (s *ChromeSession) deadline(ctx context.Context, fallback time.Duration) (context.Context, context.CancelFunc) {
	if d, ok := ctx.Deadline(); ok {
		return context.WithDeadline(s.ctx, d)
	}
	return context.WithTimeout(s.ctx, fallback)
}

func isCandidate(url, since string) bool {
	return url != "" && url != "about:blank" && url != since
}

// Ensure the chromedp session satisfies the controller contract.
var _ controller.Session = (*ChromeSession)(nil)
