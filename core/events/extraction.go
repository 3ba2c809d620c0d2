package events

import "time"

// ExtractionEvent is published after free text was turned into preferences.
// Result is "preferences", "questions" or "failed".
type ExtractionEvent struct {
	Extractor string
	Result    string
	Questions int
	Duration  time.Duration
}
