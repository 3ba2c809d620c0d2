// Package extract turns free-form student input into preferences, or into
// the clarifying questions needed to complete them.
package extract

import (
	"context"
	"errors"
)

// ErrNotUnderstood is returned when input yields neither preferences nor
// questions.
var ErrNotUnderstood = errors.New("could not understand preferences")

// Extractor is the boundary to whatever interprets the raw input.
type Extractor interface {
	Extract(ctx context.Context, raw string) (Outcome, error)
}

// Result labels an outcome for metrics and events.
func Result(o Outcome, err error) string {
	switch {
	case err != nil:
		return "failed"
	case o.NeedsClarification():
		return "questions"
	default:
		return "preferences"
	}
}
