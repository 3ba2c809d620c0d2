package recommend

import "github.com/kilianp07/courseadvisor/core/model"

// CourseView is the presentation projection of a scheduled course.
type CourseView struct {
	ID       string   `json:"course_id"`
	Name     string   `json:"course_name"`
	Time     string   `json:"time"`
	Days     []string `json:"days"`
	Location string   `json:"location"`
}

// ClassEntry is one class meeting on a given day.
type ClassEntry struct {
	Course   string `json:"course"`
	Time     string `json:"time"`
	Location string `json:"location"`
}

// Summary is a day-keyed view of a finished schedule.
type Summary struct {
	TotalCredits int                     `json:"total_credits"`
	Courses      []CourseView            `json:"courses"`
	Daily        map[string][]ClassEntry `json:"daily_schedule"`
}

// Summarize projects s without modifying it. Only days with at least one
// class appear in Daily; entries keep the schedule's selection order.
func Summarize(s *model.Schedule) Summary {
	sum := Summary{
		Courses: []CourseView{},
		Daily:   map[string][]ClassEntry{},
	}
	if s == nil {
		return sum
	}
	sum.TotalCredits = s.TotalCredits
	for _, c := range s.Courses {
		t := c.TimeSlot.Format12h()
		loc := c.Location()
		sum.Courses = append(sum.Courses, CourseView{
			ID:       c.ID,
			Name:     c.Name,
			Time:     t,
			Days:     append([]string(nil), c.Days...),
			Location: loc,
		})
		for _, d := range c.Days {
			sum.Daily[d] = append(sum.Daily[d], ClassEntry{Course: c.Name, Time: t, Location: loc})
		}
	}
	return sum
}

// OrderedDays returns the keys of Daily from Monday to Sunday.
func (s Summary) OrderedDays() []string {
	var days []string
	for _, d := range model.Weekdays {
		if _, ok := s.Daily[d]; ok {
			days = append(days, d)
		}
	}
	return days
}
