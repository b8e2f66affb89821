// Package clipboard reads text from the system clipboard through the
// platform's paste tool. Only reading is supported; the CLI falls back to
// the clipboard when no URL argument is given.
package clipboard

import (
	"errors"
	"os/exec"
	"strings"
)

var (
	// ErrUnavailable means no known clipboard tool exists on this system.
	ErrUnavailable = errors.New("no clipboard tool available")
	// ErrEmpty means the clipboard was read but held no text.
	ErrEmpty = errors.New("clipboard is empty")
)

// readers are tried in order; the first whose binary resolves wins.
var readers = [][]string{
	{"pbpaste"},
	{"wl-paste", "--no-newline"},
	{"xclip", "-selection", "clipboard", "-o"},
	{"xsel", "--clipboard", "--output"},
	{"powershell.exe", "-NoProfile", "-Command", "Get-Clipboard"},
}

// Indirected for tests.
var (
	lookPath = exec.LookPath
	runner   = func(name string, args ...string) ([]byte, error) {
		return exec.Command(name, args...).Output()
	}
)

// Read returns the trimmed text content of the system clipboard.
func Read() (string, error) {
	found := false
	for _, r := range readers {
		if _, err := lookPath(r[0]); err != nil {
			continue
		}
		found = true
		out, err := runner(r[0], r[1:]...)
		if err != nil {
			continue
		}
		text := strings.TrimSpace(string(out))
		if text == "" {
			return "", ErrEmpty
		}
		return text, nil
	}
	if !found {
		return "", ErrUnavailable
	}
	return "", ErrEmpty
}
