package recommend

import "github.com/kilianp07/courseadvisor/core/model"

// Weights holds the additive weights of the preference heuristic.
type Weights struct {
	TimeSlot     float64 `json:"time_slot"`
	DayMatch     float64 `json:"day_match"`
	Subject      float64 `json:"subject"`
	Campus       float64 `json:"campus"`
	Availability float64 `json:"availability"`
}

// DefaultWeights returns the reference weights: exact time slot 2, each
// matching day 1, subject 3, campus 2 and open-seat ratio scaled by 2.
func DefaultWeights() Weights {
	return Weights{
		TimeSlot:     2.0,
		DayMatch:     1.0,
		Subject:      3.0,
		Campus:       2.0,
		Availability: 2.0,
	}
}

// IsZero reports whether no weight has been set.
func (w Weights) IsZero() bool { return w == Weights{} }

// Scorer rates how desirable a course is for a set of preferences.
// Implementations must be pure.
type Scorer interface {
	Score(c model.Course, p model.StudentPreferences) float64
}

// WeightedScorer implements Scorer with an unnormalized weighted sum.
type WeightedScorer struct {
	Weights Weights
}

// NewWeightedScorer returns a scorer using w, or DefaultWeights when w is zero.
func NewWeightedScorer(w Weights) WeightedScorer {
	if w.IsZero() {
		w = DefaultWeights()
	}
	return WeightedScorer{Weights: w}
}

// Score computes the weighted score. Unset preferences contribute nothing and
// the result is unbounded above.
func (s WeightedScorer) Score(c model.Course, p model.StudentPreferences) float64 {
	score := 0.0
	if p.PrefersTime(c.TimeSlot) {
		score += s.Weights.TimeSlot
	}
	for _, d := range c.Days {
		if p.PrefersDay(d) {
			score += s.Weights.DayMatch
		}
	}
	if p.PrefersSubject(c.Subject) {
		score += s.Weights.Subject
	}
	if p.PreferredCampus != "" && c.Campus == p.PreferredCampus {
		score += s.Weights.Campus
	}
	score += c.AvailabilityRatio() * s.Weights.Availability
	return score
}

// Score rates c against p with the default weights.
func Score(c model.Course, p model.StudentPreferences) float64 {
	return NewWeightedScorer(DefaultWeights()).Score(c, p)
}
