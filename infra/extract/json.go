// Package extract provides the concrete preference extractors: a structured
// JSON reader and a chat-completion client.
package extract

import (
	"context"
	"encoding/json"
	"fmt"

	core "github.com/kilianp07/courseadvisor/core/extract"
)

// JSONExtractor reads input that already is a JSON field record.
type JSONExtractor struct{}

// Extract decodes raw as a JSON object and converts it.
func (JSONExtractor) Extract(_ context.Context, raw string) (core.Outcome, error) {
	var rec map[string]any
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return core.Outcome{}, fmt.Errorf("%w: %v", core.ErrNotUnderstood, err)
	}
	return core.FromFields(rec)
}
