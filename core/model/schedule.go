package model

// Schedule accumulates the courses selected for a student. It is built by a
// single recommendation call and treated as read-only once returned.
type Schedule struct {
	StudentID    string   `json:"student_id"`
	Courses      []Course `json:"courses"`
	TotalCredits int      `json:"total_credits"`
	// CommuteMinutes is always zero until campus distances are modelled.
	CommuteMinutes int `json:"commute_time"`
}

// NewSchedule returns an empty schedule for the given student.
func NewSchedule(studentID string) *Schedule {
	return &Schedule{StudentID: studentID}
}

// ScheduleOf builds a schedule from an already selected list of courses.
func ScheduleOf(studentID string, courses []Course) *Schedule {
	s := NewSchedule(studentID)
	for _, c := range courses {
		s.Add(c)
	}
	return s
}

// Add appends c and accumulates its credits.
func (s *Schedule) Add(c Course) {
	s.Courses = append(s.Courses, c)
	s.TotalCredits += c.Credits
}

// DailyCounts returns the number of classes meeting on each weekday.
func (s *Schedule) DailyCounts() map[string]int {
	counts := make(map[string]int)
	for _, c := range s.Courses {
		for _, d := range c.Days {
			counts[d]++
		}
	}
	return counts
}

// CourseIDs returns the ids of the scheduled courses in selection order.
func (s *Schedule) CourseIDs() []string {
	ids := make([]string, len(s.Courses))
	for i, c := range s.Courses {
		ids[i] = c.ID
	}
	return ids
}
