package recommend

import (
	"sort"
	"time"

	"github.com/kilianp07/courseadvisor/core/model"
)

// Outcome describes what happened to a candidate during selection.
type Outcome string

const (
	OutcomeSelected      Outcome = "selected"
	OutcomeDailyCap      Outcome = "skipped_daily_cap"
	OutcomeConflict      Outcome = "skipped_conflict"
	OutcomeNotConsidered Outcome = "not_considered"
)

// Candidate is a scored course and its selection outcome. Reason names the
// saturated day or the clashing course when the candidate was skipped.
type Candidate struct {
	Course  model.Course `json:"course"`
	Score   float64      `json:"score"`
	Outcome Outcome      `json:"outcome"`
	Reason  string       `json:"reason,omitempty"`
}

// Selection is the output of a single greedy pass.
type Selection struct {
	Schedule        *model.Schedule
	Candidates      []Candidate // score descending, catalog order on ties
	RequiredCredits int
}

// Courses returns the selected courses in selection order.
func (s Selection) Courses() []model.Course {
	if s.Schedule == nil {
		return nil
	}
	return s.Schedule.Courses
}

// Shortfall returns how many credits are missing to reach the target.
func (s Selection) Shortfall() int {
	got := 0
	if s.Schedule != nil {
		got = s.Schedule.TotalCredits
	}
	if got >= s.RequiredCredits {
		return 0
	}
	return s.RequiredCredits - got
}

// Selector performs the greedy score-and-filter pass.
//
// It is not complete: skipped candidates are never reconsidered, so a feasible
// packing reaching the credit target may be missed.
type Selector struct {
	Scorer   Scorer
	Detector ConflictDetector
}

// Select scores every course, sorts them by score (stable), then adds them in
// order while the credit target is not met, rejecting any course that would
// push a weekday above prefs.MaxClassesPerDay or that conflicts with the
// courses already chosen.
func (sel Selector) Select(studentID string, courses []model.Course, prefs model.StudentPreferences, requiredCredits int) Selection {
	scorer := sel.Scorer
	if scorer == nil {
		scorer = NewWeightedScorer(DefaultWeights())
	}
	list := make([]Candidate, len(courses))
	for i, c := range courses {
		list[i] = Candidate{Course: c, Score: scorer.Score(c, prefs), Outcome: OutcomeNotConsidered}
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].Score > list[j].Score })

	schedule := model.NewSchedule(studentID)
	for i := range list {
		if schedule.TotalCredits >= requiredCredits {
			break
		}
		c := &list[i]
		if day, over := exceedsDailyCap(schedule, c.Course, prefs.MaxClassesPerDay); over {
			c.Outcome = OutcomeDailyCap
			c.Reason = day
			continue
		}
		if clash, found := sel.Detector.FirstConflict(schedule, c.Course); found {
			c.Outcome = OutcomeConflict
			c.Reason = clash.ID
			continue
		}
		schedule.Add(c.Course)
		c.Outcome = OutcomeSelected
	}
	return Selection{Schedule: schedule, Candidates: list, RequiredCredits: requiredCredits}
}

// exceedsDailyCap computes the per-day counts of the schedule plus candidate
// and returns the first day, in weekday order, above the cap. A cap of zero
// or less disables the check.
func exceedsDailyCap(s *model.Schedule, candidate model.Course, limit int) (string, bool) {
	if limit <= 0 {
		return "", false
	}
	counts := s.DailyCounts()
	for _, d := range candidate.Days {
		counts[d]++
	}
	for _, d := range model.Weekdays {
		if counts[d] > limit {
			return d, true
		}
	}
	return "", false
}

// Recommend runs the greedy selection with default weights and the minimum
// gap requested in prefs, returning the chosen courses in selection order.
// The credit target is not guaranteed to be reached.
func Recommend(courses []model.Course, prefs model.StudentPreferences, requiredCredits int) []model.Course {
	sel := Selector{
		Scorer:   NewWeightedScorer(DefaultWeights()),
		Detector: ConflictDetector{MinGap: time.Duration(prefs.MinGapMinutes) * time.Minute},
	}
	return sel.Select("", courses, prefs, requiredCredits).Courses()
}
