package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/page-vault/stash/internal/app"
	"github.com/page-vault/stash/internal/config"
	"github.com/page-vault/stash/internal/ui"
)

// errOutcome marks a run whose non-success outcome was already printed;
// Execute only maps it onto the exit status.
var errOutcome = errors.New("submission did not succeed")

// rootCmd is the whole CLI: stash does one thing, so the submission runs
// directly on the root command.
var rootCmd = &cobra.Command{
	Use:   "stash [url]",
	Short: "Submit a URL to archive.ph and wait for the snapshot",
	Long: `Stash drives a browser tab through the archive.ph submission flow: it types
the URL into the submission box, waits for the snapshot page or a captcha
challenge, and falls back to the search box when the first attempt stalls.

If no URL argument is given, the clipboard content is used instead.`,
	Example: `  # Archive a page
  stash https://example.com/article

  # Archive whatever URL is on the clipboard
  stash

  # Headless run with a tighter budget and a JSON receipt
  stash https://example.com --headless --timeout 90s --receipt run.json

  # Keep a local Markdown copy of the snapshot
  stash https://example.com --save-page article.md`,
	Version:       "0.1.0",
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runSubmit,
}

// Execute runs the CLI, releases the browser session on every exit path
// and maps the outcome onto the exit status. Cobra skips post-run hooks
// when RunE fails, so the release must not depend on them.
func Execute() {
	err := rootCmd.Execute()
	Shutdown()
	if err != nil {
		if !errors.Is(err, errOutcome) {
			fmt.Fprintf(os.Stderr, "%s %v\n", ui.Error("✗ Error:"), err)
		}
		os.Exit(1)
	}
}

func init() {
	config.RegisterFlags(rootCmd)

	rootCmd.Flags().Duration("timeout", config.DefaultTimeout, "How long to wait for a result before falling back")
	rootCmd.Flags().Bool("headless", config.DefaultHeadless, "Run the browser without a window (captchas cannot be solved by hand)")
	rootCmd.Flags().String("primary-selector", config.DefaultPrimarySelector, "CSS selector group for the main submission input")
	rootCmd.Flags().String("fallback-selector", config.DefaultFallbackSelector, "CSS selector group for the secondary input tried after a timeout")
	rootCmd.Flags().String("result-pattern", config.DefaultResultPattern, "Regexp recognizing snapshot URLs")
	rootCmd.Flags().Duration("captcha-grace", config.DefaultCaptchaGrace, "Extra wait allowance once a captcha challenge is detected")
	rootCmd.Flags().Duration("poll-interval", config.DefaultPollInterval, "Pacing of the wait loop")
	rootCmd.Flags().String("archive-url", config.DefaultArchiveURL, "Submission page of the archive service")
	rootCmd.Flags().String("receipt", "", "Write a JSON receipt of the outcome to this file")
	rootCmd.Flags().String("save-page", "", "Save the archived snapshot as Markdown to this file")

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	// Initialize the application before the run; logging is configured
	// once, inside app.New.
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if GetApp() != nil {
			return nil
		}
		cfg, err := config.Load(rootCmd)
		if err != nil {
			return err
		}
		a, err := app.New(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		SetApp(a)
		return nil
	}
}
