package recommend

import (
	"time"

	"github.com/kilianp07/courseadvisor/core/model"
)

// MeetingDuration is the fixed length of every course meeting.
const MeetingDuration = time.Hour

// referenceDay anchors meeting times so they can be compared as intervals.
var referenceDay = time.Date(2000, time.January, 3, 0, 0, 0, 0, time.UTC)

// ConflictDetector decides whether a candidate course clashes with a schedule.
// Meetings are half-open intervals [start, start+1h), so back-to-back courses
// do not conflict. A positive MinGap additionally requires that much free time
// between two courses meeting on the same day.
type ConflictDetector struct {
	MinGap time.Duration
}

// Conflicts returns true on the first scheduled course that overlaps candidate
// on a shared weekday.
func (d ConflictDetector) Conflicts(s *model.Schedule, candidate model.Course) bool {
	_, found := d.FirstConflict(s, candidate)
	return found
}

// FirstConflict returns the first scheduled course clashing with candidate.
func (d ConflictDetector) FirstConflict(s *model.Schedule, candidate model.Course) (model.Course, bool) {
	if s == nil {
		return model.Course{}, false
	}
	for _, existing := range s.Courses {
		if d.Overlaps(existing, candidate) {
			return existing, true
		}
	}
	return model.Course{}, false
}

// Overlaps reports whether a and b share a weekday and their meetings, padded
// by MinGap, intersect.
func (d ConflictDetector) Overlaps(a, b model.Course) bool {
	if !a.SharesDay(b) {
		return false
	}
	aStart, aEnd := meetingInterval(a)
	bStart, bEnd := meetingInterval(b)
	gap := d.MinGap
	if gap < 0 {
		gap = 0
	}
	return bStart.Before(aEnd.Add(gap)) && bEnd.Add(gap).After(aStart)
}

func meetingInterval(c model.Course) (time.Time, time.Time) {
	start := referenceDay.Add(time.Duration(c.TimeSlot.Minutes()) * time.Minute)
	return start, start.Add(MeetingDuration)
}

// Conflicts applies the plain half-open overlap rule without any gap.
func Conflicts(s *model.Schedule, candidate model.Course) bool {
	return ConflictDetector{}.Conflicts(s, candidate)
}
