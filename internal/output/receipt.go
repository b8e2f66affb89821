// Package output writes local artifacts of a submission run: a JSON
// receipt of the outcome and an optional Markdown copy of the archived
// snapshot.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
)

// Receipt records what happened to one submission.
type Receipt struct {
	TargetURL   string    `json:"target_url"`
	ArchivedURL string    `json:"archived_url,omitempty"`
	Outcome     string    `json:"outcome"`
	Reason      string    `json:"reason,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`
	DurationMS  int64     `json:"duration_ms"`
}

// SaveReceipt writes the receipt as indented JSON.
func SaveReceipt(path string, r Receipt) error {
	content, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal receipt: %w", err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("failed to write receipt: %w", err)
	}
	log.Info().Str("file", path).Msg("Receipt saved")
	return nil
}
