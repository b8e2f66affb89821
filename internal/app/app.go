// Package app provides the core application initialization and lifecycle management.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"regexp"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/page-vault/stash/internal/browser"
	"github.com/page-vault/stash/internal/config"
	"github.com/page-vault/stash/internal/controller"
)

// Session is the browser surface a submission run needs. The chromedp
// implementation in internal/browser satisfies it; lifecycle tests use a
// fake.
type Session interface {
	controller.Session
	PageHTML(ctx context.Context) (string, error)
	Close() error
}

// Indirected for tests.
var newSession = func(ctx context.Context, opts browser.Options) (Session, error) {
	return browser.NewSession(ctx, opts)
}

// Application holds the configured dependencies for one submission run.
//
// It owns the browser session for the lifetime of the run: the session is
// opened lazily before the submission and Close releases it on every exit
// path, including errors.
type Application struct {
	Config        *config.Config
	Logger        *zerolog.Logger
	ResultPattern *regexp.Regexp

	session   Session
	startTime time.Time
}

// New creates an Application from the given config: it configures logging
// and pre-compiles the result pattern. No browser is started yet.
func New(ctx context.Context, cfg *config.Config) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	logLevel := zerolog.ErrorLevel
	switch cfg.LogLevel {
	case "debug":
		logLevel = zerolog.DebugLevel
	case "warn":
		logLevel = zerolog.WarnLevel
	// Treat "info" as non-verbose so the outcome line stays the primary output
	default:
		logLevel = zerolog.ErrorLevel
	}
	zerolog.SetGlobalLevel(logLevel)

	var logWriter io.Writer
	if cfg.JSONLog {
		logWriter = os.Stderr
	} else {
		logWriter = zerolog.NewConsoleWriter()
	}
	logger := log.Output(logWriter).With().Timestamp().Logger()
	log.Logger = logger

	pattern, err := regexp.Compile(cfg.ResultPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid result pattern: %w", err)
	}

	logger.Debug().
		Str("level", cfg.LogLevel).
		Bool("json", cfg.JSONLog).
		Str("archive_url", cfg.ArchiveURL).
		Msg("Application initialized")

	return &Application{
		Config:        cfg,
		Logger:        &logger,
		ResultPattern: pattern,
		startTime:     time.Now(),
	}, nil
}

// OpenSession launches the browser if it is not already running and
// returns the exclusively-owned session for this run.
func (a *Application) OpenSession(ctx context.Context) (Session, error) {
	if a.session != nil {
		return a.session, nil
	}

	a.Logger.Debug().Bool("headless", a.Config.Headless).Msg("Launching browser")
	sess, err := newSession(ctx, browser.Options{
		Headless:   a.Config.Headless,
		UserAgent:  a.Config.UserAgent,
		Proxy:      a.Config.Proxy,
		ChromePath: a.Config.ChromePath,
	})
	if err != nil {
		return nil, err
	}
	a.session = sess
	return sess, nil
}

// ControllerOptions maps the config onto the controller's wait tuning.
func (a *Application) ControllerOptions() controller.Options {
	return controller.Options{
		ArchiveURL:      a.Config.ArchiveURL,
		LookupTimeout:   a.Config.LookupTimeout,
		PollInterval:    a.Config.PollInterval,
		CaptchaGrace:    a.Config.CaptchaGrace,
		ResultPattern:   a.ResultPattern,
		CaptchaSelector: a.Config.CaptchaSelector,
	}
}

// Close shuts down the application, releasing the browser session if one
// was opened. Shutdown errors are logged, not propagated, so cleanup never
// masks the run's outcome.
func (a *Application) Close(ctx context.Context) error {
	if a.session != nil {
		if err := a.session.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Error closing browser session")
		}
		a.session = nil
	}

	a.Logger.Debug().Dur("uptime", time.Since(a.startTime)).Msg("Application shutdown complete")
	return nil
}

// Uptime returns how long the application has been running.
func (a *Application) Uptime() time.Duration {
	return time.Since(a.startTime)
}
