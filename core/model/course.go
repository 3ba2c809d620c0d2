package model

import (
	"errors"
	"fmt"
)

// ErrInvalidCourse is returned when a course record violates its invariants.
var ErrInvalidCourse = errors.New("invalid course")

// Course represents a single course offering with one weekly meeting time.
// Each meeting is assumed to last one hour. Courses are read-only once built.
type Course struct {
	ID        string    `json:"course_id" yaml:"course_id"`
	Name      string    `json:"course_name" yaml:"course_name"`
	Subject   string    `json:"subject" yaml:"subject"`
	Credits   int       `json:"credits" yaml:"credits"`
	Professor string    `json:"professor" yaml:"professor"`
	TimeSlot  TimeOfDay `json:"time_slot" yaml:"time_slot"`
	Days      []string  `json:"days" yaml:"days"`
	Campus    string    `json:"campus" yaml:"campus"`
	Building  string    `json:"building" yaml:"building"`
	Room      string    `json:"room" yaml:"room"`
	Capacity  int       `json:"capacity" yaml:"capacity"`
	Enrolled  int       `json:"enrolled" yaml:"enrolled"`
}

// NewCourse normalizes the weekday names of c and validates it. The returned
// course owns a private copy of the days slice.
func NewCourse(c Course) (Course, error) {
	days := make([]string, 0, len(c.Days))
	for _, d := range c.Days {
		name, err := ParseWeekday(d)
		if err != nil {
			return Course{}, fmt.Errorf("%w %s: %v", ErrInvalidCourse, c.ID, err)
		}
		days = append(days, name)
	}
	c.Days = days
	if err := c.Validate(); err != nil {
		return Course{}, err
	}
	return c, nil
}

// Validate checks that the course is well formed. A zero capacity would make
// the availability ratio undefined, so it is rejected here rather than during
// scoring.
func (c Course) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidCourse)
	}
	if c.Credits <= 0 {
		return fmt.Errorf("%w %s: credits must be positive", ErrInvalidCourse, c.ID)
	}
	if c.Capacity <= 0 {
		return fmt.Errorf("%w %s: capacity must be positive", ErrInvalidCourse, c.ID)
	}
	if c.Enrolled < 0 || c.Enrolled > c.Capacity {
		return fmt.Errorf("%w %s: enrolled %d outside [0,%d]", ErrInvalidCourse, c.ID, c.Enrolled, c.Capacity)
	}
	if err := c.TimeSlot.Validate(); err != nil {
		return fmt.Errorf("%w %s: %v", ErrInvalidCourse, c.ID, err)
	}
	if len(c.Days) == 0 {
		return fmt.Errorf("%w %s: no meeting days", ErrInvalidCourse, c.ID)
	}
	seen := make(map[string]bool, len(c.Days))
	for _, d := range c.Days {
		if WeekdayIndex(d) < 0 {
			return fmt.Errorf("%w %s: unknown weekday %q", ErrInvalidCourse, c.ID, d)
		}
		if seen[d] {
			return fmt.Errorf("%w %s: duplicate weekday %s", ErrInvalidCourse, c.ID, d)
		}
		seen[d] = true
	}
	return nil
}

// Location returns the "building room" string used for display.
func (c Course) Location() string {
	return c.Building + " " + c.Room
}

// OpenSeats returns the number of seats not yet taken.
func (c Course) OpenSeats() int { return c.Capacity - c.Enrolled }

// AvailabilityRatio returns the fraction of open seats in [0,1].
func (c Course) AvailabilityRatio() float64 {
	if c.Capacity <= 0 {
		return 0
	}
	return float64(c.Capacity-c.Enrolled) / float64(c.Capacity)
}

// MeetsOn reports whether the course meets on the given day.
func (c Course) MeetsOn(day string) bool {
	for _, d := range c.Days {
		if d == day {
			return true
		}
	}
	return false
}

// SharesDay reports whether c and other meet on at least one common day.
func (c Course) SharesDay(other Course) bool {
	for _, d := range other.Days {
		if c.MeetsOn(d) {
			return true
		}
	}
	return false
}
