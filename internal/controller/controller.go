// Package controller implements the submission state machine: one browser
// tab is driven through a primary submission attempt, a bounded wait for a
// result navigation or a captcha challenge, and a single fallback attempt
// when the primary input produces nothing in time.
package controller

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// Domain defaults. The config layer re-exports these so CLI flags and env
// overrides share a single source of truth.
const (
	DefaultArchiveURL    = "https://archive.ph/"
	DefaultLookupTimeout = 5 * time.Second
	DefaultPollInterval  = 500 * time.Millisecond
	DefaultCaptchaGrace  = 2 * time.Minute

	// DefaultCaptchaSelector covers the challenge frames archive.ph is
	// known to show, plus the Cloudflare interstitial marker.
	DefaultCaptchaSelector = "iframe[src*='captcha'], iframe[src*='hcaptcha'], iframe[src*='recaptcha'], div#cf-challenge-running"

	// DefaultResultPattern recognizes snapshot URLs across the archive.today
	// mirror domains, including in-progress /wip/ captures. End-anchored so
	// the intermediate /submit/ navigation is not mistaken for a result.
	DefaultResultPattern = `^https?://archive\.(ph|today|is|li|md|vn)/(wip/)?[0-9a-zA-Z]{2,}$`
)

// State identifies where the submission procedure currently is. It is
// exposed through the OnPoll hook so the CLI can report progress.
type State int

const (
	StateInit State = iota
	StatePrimaryAttempt
	StateAwaitingResult
	StateCaptchaWait
	StateFallbackAttempt
	StateAwaitingFallbackResult
)

// String returns a short name for the state.
func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StatePrimaryAttempt:
		return "primary-attempt"
	case StateAwaitingResult:
		return "awaiting-result"
	case StateCaptchaWait:
		return "captcha-wait"
	case StateFallbackAttempt:
		return "fallback-attempt"
	case StateAwaitingFallbackResult:
		return "awaiting-fallback-result"
	}
	return "unknown"
}

// Options tune the controller's waits and detection patterns. Zero values
// are replaced with the package defaults.
type Options struct {
	// ArchiveURL is the submission page to open.
	ArchiveURL string

	// LookupTimeout bounds element location. It is deliberately short and
	// distinct from the per-attempt result timeout: a missing input is
	// reported, not waited out.
	LookupTimeout time.Duration

	// PollInterval paces the wait loop.
	PollInterval time.Duration

	// CaptchaGrace is the generous secondary allowance granted once a
	// captcha frame is detected.
	CaptchaGrace time.Duration

	// ResultPattern recognizes archive snapshot URLs. Navigations to URLs
	// that do not match are ignored and polling continues.
	ResultPattern *regexp.Regexp

	// CaptchaSelector is the selector group identifying challenge frames.
	CaptchaSelector string

	// OnPoll, if set, is invoked once per poll tick with the current wait
	// state and the elapsed time of the attempt.
	OnPoll func(state State, elapsed time.Duration)
}

func (o Options) withDefaults() Options {
	if o.ArchiveURL == "" {
		o.ArchiveURL = DefaultArchiveURL
	}
	if o.LookupTimeout <= 0 {
		o.LookupTimeout = DefaultLookupTimeout
	}
	if o.PollInterval <= 0 {
		o.PollInterval = DefaultPollInterval
	}
	if o.CaptchaGrace <= 0 {
		o.CaptchaGrace = DefaultCaptchaGrace
	}
	if o.ResultPattern == nil {
		o.ResultPattern = regexp.MustCompile(DefaultResultPattern)
	}
	if o.CaptchaSelector == "" {
		o.CaptchaSelector = DefaultCaptchaSelector
	}
	return o
}

// Controller coordinates one browser session through a single submission.
// It is single-threaded: suspension happens only at the poll pacer, and no
// work continues after a terminal outcome is produced.
type Controller struct {
	session Session
	opts    Options
}

// New creates a Controller driving the given session.
func New(session Session, opts Options) *Controller {
	return &Controller{session: session, opts: opts.withDefaults()}
}

// Submit runs the full submission procedure and always returns exactly one
// Outcome. Browser-layer faults never escape as raw errors; they are mapped
// into a Failure outcome. Closing the session is the caller's job.
func (c *Controller) Submit(ctx context.Context, req Request) Outcome {
	if err := req.Validate(); err != nil {
		return Failure(fmt.Sprintf("invalid request: %v", err))
	}

	log.Info().
		Str("url", req.TargetURL).
		Dur("timeout", req.Timeout).
		Bool("headless", req.Headless).
		Msg("Starting submission")

	if err := c.session.Navigate(ctx, c.opts.ArchiveURL); err != nil {
		return failureFromErr("opening submission page", err)
	}

	out, escalate := c.attempt(ctx, req, req.PrimarySelector, false)
	if !escalate {
		return out
	}

	// The fallback gets a fresh submission page and its own full budget.
	log.Warn().Str("selector", req.FallbackSelector).Msg("Primary attempt produced no result, trying fallback")
	if err := c.session.Navigate(ctx, c.opts.ArchiveURL); err != nil {
		return failureFromErr("reopening submission page", err)
	}
	out, _ = c.attempt(ctx, req, req.FallbackSelector, true)
	return out
}

// attempt locates the input, submits the target URL and waits for a result.
// The second return value is true when the controller should escalate to
// the fallback selector instead of returning the outcome.
func (c *Controller) attempt(ctx context.Context, req Request, selector string, fallback bool) (Outcome, bool) {
	label := "primary"
	awaiting := StateAwaitingResult
	if fallback {
		label = "fallback"
		awaiting = StateAwaitingFallbackResult
	}

	el, err := c.session.Find(ctx, selector, c.opts.LookupTimeout)
	if err != nil {
		if !errors.Is(err, ErrElementNotFound) {
			return failureFromErr("locating input", err), false
		}
		// A missing element is reported, not retried. Only the primary
		// attempt may escalate, and only to a distinct selector.
		if !fallback && req.hasFallback() {
			log.Warn().Str("selector", selector).Msg("Primary selector matched nothing, escalating to fallback")
			return Outcome{}, true
		}
		return Failure(fmt.Sprintf("%s selector %q matched nothing on the page", label, selector)), false
	}

	startURL, err := c.session.CurrentURL(ctx)
	if err != nil {
		return failureFromErr("reading page URL", err), false
	}

	log.Debug().Str("selector", el.Selector).Str("label", label).Msg("Typing target URL into input")
	if err := c.session.Type(ctx, el, req.TargetURL); err != nil {
		return failureFromErr("typing URL", err), false
	}
	if err := c.session.Submit(ctx, el); err != nil {
		return failureFromErr("submitting form", err), false
	}

	out, resolved, err := c.await(ctx, startURL, req.Timeout, awaiting)
	if err != nil {
		return failureFromErr("waiting for result", err), false
	}
	if resolved {
		return out, false
	}

	if !fallback && req.hasFallback() {
		return Outcome{}, true
	}
	if fallback {
		return TimedOut(fmt.Sprintf("fallback %s", ErrNavigationTimeout)), false
	}
	return TimedOut(ErrNavigationTimeout.Error()), false
}

// await polls for the first of three conditions: a navigation to a
// recognizable result URL, a visible captcha frame, or budget exhaustion.
// Result detection deliberately wins ties with captcha detection. It
// returns resolved=false on a plain timeout so the caller decides whether
// to escalate.
func (c *Controller) await(ctx context.Context, since string, budget time.Duration, base State) (Outcome, bool, error) {
	pacer := rate.NewLimiter(rate.Every(c.opts.PollInterval), 1)
	started := time.Now()
	deadline := started.Add(budget)

	state := base
	var captchaDeadline time.Time

	for {
		limit := deadline
		if state == StateCaptchaWait && captchaDeadline.After(limit) {
			limit = captchaDeadline
		}
		if !time.Now().Before(limit) {
			if state == StateCaptchaWait {
				log.Warn().Dur("grace", c.opts.CaptchaGrace).Msg("Captcha still present after wait allowance")
				return CaptchaPending(ErrCaptchaUnresolved.Error()), true, nil
			}
			return Outcome{}, false, nil
		}

		waitCtx, cancel := context.WithDeadline(ctx, limit)
		err := pacer.Wait(waitCtx)
		cancel()
		if err != nil {
			if ctx.Err() != nil {
				return Outcome{}, false, fmt.Errorf("%w: %v", ErrBrowserError, ctx.Err())
			}
			// Pacing would overshoot the limit; sleep the remainder out
			// and let the next iteration resolve the timeout.
			select {
			case <-time.After(time.Until(limit)):
			case <-ctx.Done():
			}
			continue
		}

		if c.opts.OnPoll != nil {
			c.opts.OnPoll(state, time.Since(started))
		}

		url, moved, err := c.session.ResultURL(ctx, since)
		if err != nil {
			return Outcome{}, false, err
		}
		if moved && c.opts.ResultPattern.MatchString(url) {
			log.Info().Str("archived_url", url).Msg("Result navigation detected")
			return Success(url), true, nil
		}

		present, err := c.session.FramePresent(ctx, c.opts.CaptchaSelector)
		if err != nil {
			return Outcome{}, false, err
		}
		switch {
		case present && state != StateCaptchaWait:
			state = StateCaptchaWait
			captchaDeadline = time.Now().Add(c.opts.CaptchaGrace)
			log.Warn().Msg("Captcha challenge detected, waiting for it to clear (solve it in the browser window)")
		case !present && state == StateCaptchaWait:
			state = base
			// Give the post-captcha redirect a short settle window even
			// when the original budget lapsed during the challenge.
			if settle := time.Now().Add(2 * c.opts.PollInterval); settle.After(deadline) {
				deadline = settle
			}
			log.Info().Msg("Captcha frame gone, resuming result wait")
		}
	}
}

func failureFromErr(op string, err error) Outcome {
	log.Error().Err(err).Str("op", op).Msg("Submission failed")
	return Failure(fmt.Sprintf("%s: %v", op, err))
}
