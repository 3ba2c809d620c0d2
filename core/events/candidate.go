package events

// CandidateEvent is published for each course rejected by the daily cap or
// the conflict detector. Reason is the saturated day or the clashing course.
type CandidateEvent struct {
	RequestID string
	CourseID  string
	Score     float64
	Outcome   string
	Reason    string
}
