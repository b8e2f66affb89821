package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/page-vault/stash/internal/app"
	"github.com/page-vault/stash/internal/clipboard"
	"github.com/page-vault/stash/internal/controller"
	"github.com/page-vault/stash/internal/output"
	"github.com/page-vault/stash/internal/ui"
	"github.com/page-vault/stash/internal/urlutil"
)

func runSubmit(cmd *cobra.Command, args []string) error {
	a := GetApp()
	cfg := a.Config
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	targetURL, err := resolveTargetURL(args)
	if err != nil {
		return err
	}

	sess, err := a.OpenSession(ctx)
	if err != nil {
		return fmt.Errorf("could not start browser: %w", err)
	}

	opts := a.ControllerOptions()
	bar := newSpinner(cfg.LogLevel)
	if bar != nil {
		opts.OnPoll = func(state controller.State, elapsed time.Duration) {
			bar.Describe(fmt.Sprintf("%s (%s)", state, elapsed.Truncate(time.Second)))
			_ = bar.Add(1)
		}
	}

	req := controller.Request{
		TargetURL:        targetURL,
		Timeout:          cfg.Timeout,
		PrimarySelector:  cfg.PrimarySelector,
		FallbackSelector: cfg.FallbackSelector,
		Headless:         cfg.Headless,
	}

	started := time.Now()
	outcome := controller.New(sess, opts).Submit(ctx, req)
	if bar != nil {
		_ = bar.Clear()
	}

	printOutcome(outcome)
	writeArtifacts(ctx, sess, req, outcome, started)

	if !outcome.OK() {
		return errOutcome
	}
	return nil
}

// resolveTargetURL takes the positional argument or falls back to the
// clipboard when none was given.
func resolveTargetURL(args []string) (string, error) {
	if len(args) == 1 && strings.TrimSpace(args[0]) != "" {
		url := strings.TrimSpace(args[0])
		if err := urlutil.ValidateURL(url); err != nil {
			return "", err
		}
		return url, nil
	}

	text, err := clipboard.Read()
	if err != nil {
		return "", fmt.Errorf("no URL provided and clipboard fallback failed: %w", err)
	}
	if !urlutil.IsURLLike(text) {
		return "", fmt.Errorf("no URL provided and clipboard content is not a URL")
	}
	log.Info().Str("url", text).Msg("Using URL from clipboard")
	return strings.TrimSpace(text), nil
}

// newSpinner returns a wait spinner, or nil when output is piped or quiet.
func newSpinner(logLevel string) *progressbar.ProgressBar {
	if logLevel == "error" || !isatty.IsTerminal(os.Stderr.Fd()) {
		return nil
	}
	return progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetDescription("submitting"),
		progressbar.OptionClearOnFinish(),
	)
}

func printOutcome(o controller.Outcome) {
	switch o.Kind {
	case controller.KindSuccess:
		fmt.Printf("%s %s\n", ui.Success("✓ Archived:"), o.ArchivedURL)
	case controller.KindCaptchaPending:
		fmt.Fprintf(os.Stderr, "%s the captcha challenge was not solved in time\n", ui.Warn("✗ Captcha pending:"))
	case controller.KindTimedOut:
		fmt.Fprintf(os.Stderr, "%s %s\n", ui.Warn("✗ Timed out:"), o.Reason)
	default:
		fmt.Fprintf(os.Stderr, "%s %s\n", ui.Error("✗ Failed:"), o.Reason)
	}
}

// writeArtifacts saves the optional receipt and snapshot copy. Artifact
// errors are reported but never change the run's outcome.
func writeArtifacts(ctx context.Context, sess app.Session, req controller.Request, o controller.Outcome, started time.Time) {
	cfg := GetApp().Config

	if cfg.ReceiptPath != "" {
		r := output.Receipt{
			TargetURL:   req.TargetURL,
			ArchivedURL: o.ArchivedURL,
			Outcome:     o.Kind.String(),
			Reason:      o.Reason,
			SubmittedAt: started.UTC(),
			DurationMS:  time.Since(started).Milliseconds(),
		}
		if err := output.SaveReceipt(cfg.ReceiptPath, r); err != nil {
			log.Warn().Err(err).Str("file", cfg.ReceiptPath).Msg("Could not write receipt")
		}
	}

	if cfg.SavePagePath == "" || !o.OK() {
		return
	}

	// The result may have opened in a new page; make sure the active tab
	// shows the snapshot before capturing it.
	if cur, err := sess.CurrentURL(ctx); err == nil && cur != o.ArchivedURL {
		if err := sess.Navigate(ctx, o.ArchivedURL); err != nil {
			log.Warn().Err(err).Msg("Could not open snapshot for saving")
			return
		}
	}
	html, err := sess.PageHTML(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Could not capture snapshot HTML")
		return
	}
	snap := output.Snapshot{URL: o.ArchivedURL, HTML: html}
	if err := output.SaveMarkdown(snap, cfg.SavePagePath); err != nil {
		log.Warn().Err(err).Str("file", cfg.SavePagePath).Msg("Could not save snapshot markdown")
		return
	}
	fmt.Printf("%s %s\n", ui.Dim("Saved snapshot to"), cfg.SavePagePath)
}
