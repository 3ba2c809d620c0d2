package events

import "time"

// RecommendationEvent is published once a recommendation is complete.
type RecommendationEvent struct {
	RequestID       string
	StudentID       string
	Selected        []string
	TotalCredits    int
	RequiredCredits int
	Shortfall       int
	Duration        time.Duration
}
