package logging

import (
	"context"
	"time"

	"github.com/kilianp07/courseadvisor/core/model"
)

// LogRecord captures one recommendation run. It is keyed by request id and
// carries no student identity.
type LogRecord struct {
	ID              string                   `json:"id"`
	Timestamp       time.Time                `json:"timestamp"`
	RequiredCredits int                      `json:"required_credits"`
	Preferences     model.StudentPreferences `json:"preferences"`
	Selected        []string                 `json:"selected"`
	TotalCredits    int                      `json:"total_credits"`
	Shortfall       int                      `json:"shortfall"`
	Scores          map[string]float64       `json:"scores"`
	Skipped         map[string]string        `json:"skipped,omitempty"`
}

// LogQuery defines filters for retrieving records. Zero values match all.
type LogQuery struct {
	Start    time.Time
	End      time.Time
	CourseID string
	Limit    int
}

// LogStore persists LogRecords and supports querying.
type LogStore interface {
	Append(ctx context.Context, rec LogRecord) error
	Query(ctx context.Context, q LogQuery) ([]LogRecord, error)
	Close() error
}

// matches applies the time window and course filter of q to r. A course
// matches when it was selected or at least scored in the run.
func (q LogQuery) matches(r LogRecord) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	if q.CourseID == "" {
		return true
	}
	for _, id := range r.Selected {
		if id == q.CourseID {
			return true
		}
	}
	_, ok := r.Scores[q.CourseID]
	return ok
}

// limit keeps the most recent q.Limit records of an oldest-first slice.
func (q LogQuery) limit(recs []LogRecord) []LogRecord {
	if q.Limit > 0 && len(recs) > q.Limit {
		return recs[len(recs)-q.Limit:]
	}
	return recs
}
