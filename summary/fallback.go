package summary

import (
	"context"
	"fmt"

	"github.com/rollctx/rollctx/transcript"
)

// FallbackProvider renders a deterministic offline summary from record
// counts and the archived date range. It never fails and makes no
// external calls, so the engine can always substitute it when the remote
// provider is unavailable or disabled.
type FallbackProvider struct{}

// NewFallbackProvider creates a FallbackProvider.
func NewFallbackProvider() *FallbackProvider {
	return &FallbackProvider{}
}

// Summarize renders the fixed fallback template.
func (p *FallbackProvider) Summarize(_ context.Context, records []*transcript.Record, sctx Context) (string, error) {
	firstDate := "unknown"
	lastDate := "unknown"
	if len(records) > 0 {
		firstDate = records[0].Date()
		lastDate = records[len(records)-1].Date()
	}

	userCount := 0
	assistantCount := 0
	for _, rec := range records {
		switch rec.Role {
		case transcript.RoleUser:
			userCount++
		case transcript.RoleAssistant:
			assistantCount++
		}
	}

	return fmt.Sprintf(`[Archived context: %d messages from %s to %s]

- User messages: %d
- Assistant messages: %d

Earlier conversation content was archived to keep the rolling window bounded.
The full pre-trim transcript is available in the backup directory.`,
		len(records), firstDate, lastDate, userCount, assistantCount), nil
}
