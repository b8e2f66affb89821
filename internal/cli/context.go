// Package cli provides the command-line interface for the stash application.
package cli

import (
	"context"
	"time"

	"github.com/page-vault/stash/internal/app"
)

// Global reference to the running application, set once in the root
// command's pre-run and released by Shutdown.
var globalApp *app.Application

// SetApp stores the Application for command handlers.
func SetApp(a *app.Application) {
	globalApp = a
}

// GetApp retrieves the Application, or nil before initialization.
func GetApp() *app.Application {
	return globalApp
}

// Shutdown releases the application and its browser session. Every exit
// path funnels through it, including failed runs and interrupts; calling
// it again is a no-op.
func Shutdown() {
	a := GetApp()
	if a == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	_ = a.Close(ctx)
	SetApp(nil)
}
