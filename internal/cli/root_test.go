package cli

import "testing"

// Cobra skips PersistentPostRun when RunE returns an error, so the browser
// release must not hang off post-run hooks. Execute funnels every exit
// through Shutdown instead; this exercises that path with a failing run.
func TestFailedRun_StillReleasesApplication(t *testing.T) {
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		SetApp(nil)
	})

	rootCmd.SetArgs([]string{"not-a-url"})
	if err := rootCmd.Execute(); err == nil {
		t.Fatal("expected the run to fail")
	}
	if GetApp() == nil {
		t.Fatal("application should have been initialized by the run")
	}

	Shutdown()
	if GetApp() != nil {
		t.Error("application not released after a failed run")
	}

	// Interrupt handling shuts down too; a second call must be a no-op.
	Shutdown()
}
