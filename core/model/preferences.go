package model

import (
	"errors"
	"fmt"
)

// ErrInvalidPreferences is returned when a preference record is unusable.
var ErrInvalidPreferences = errors.New("invalid preferences")

// StudentPreferences captures what a student asked for in a single
// recommendation request.
type StudentPreferences struct {
	// MaxCommuteMinutes is informational only; commute is not computed yet.
	MaxCommuteMinutes  int         `json:"max_commute_time" yaml:"max_commute_time"`
	PreferredTimeSlots []TimeOfDay `json:"preferred_time_slots" yaml:"preferred_time_slots"`
	PreferredDays      []string    `json:"preferred_days" yaml:"preferred_days"`
	// MaxClassesPerDay caps the number of classes on any weekday. Zero
	// disables the cap.
	MaxClassesPerDay  int      `json:"max_classes_per_day" yaml:"max_classes_per_day"`
	PreferredSubjects []string `json:"preferred_subjects" yaml:"preferred_subjects"`
	MinGapMinutes     int      `json:"min_gap_between_classes" yaml:"min_gap_between_classes"`
	PreferredCampus   string   `json:"preferred_campus,omitempty" yaml:"preferred_campus,omitempty"`
}

// Validate checks numeric fields, time slots and day names. It normalizes
// nothing; see Normalize.
func (p StudentPreferences) Validate() error {
	if p.MaxCommuteMinutes < 0 {
		return fmt.Errorf("%w: negative commute time", ErrInvalidPreferences)
	}
	if p.MaxClassesPerDay < 0 {
		return fmt.Errorf("%w: negative max classes per day", ErrInvalidPreferences)
	}
	if p.MinGapMinutes < 0 {
		return fmt.Errorf("%w: negative minimum gap", ErrInvalidPreferences)
	}
	for _, t := range p.PreferredTimeSlots {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidPreferences, err)
		}
	}
	for _, d := range p.PreferredDays {
		if _, err := ParseWeekday(d); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidPreferences, err)
		}
	}
	return nil
}

// Normalize validates p and returns a copy whose preferred days use the
// canonical weekday names matched by PrefersDay.
func (p StudentPreferences) Normalize() (StudentPreferences, error) {
	if err := p.Validate(); err != nil {
		return p, err
	}
	if p.PreferredDays != nil {
		days := make([]string, len(p.PreferredDays))
		for i, d := range p.PreferredDays {
			days[i], _ = ParseWeekday(d)
		}
		p.PreferredDays = days
	}
	return p, nil
}

// PrefersTime reports whether t is exactly one of the preferred time slots.
func (p StudentPreferences) PrefersTime(t TimeOfDay) bool {
	for _, s := range p.PreferredTimeSlots {
		if s == t {
			return true
		}
	}
	return false
}

// PrefersDay reports whether day is one of the preferred days.
func (p StudentPreferences) PrefersDay(day string) bool {
	for _, d := range p.PreferredDays {
		if d == day {
			return true
		}
	}
	return false
}

// PrefersSubject reports whether subject is one of the preferred subjects.
func (p StudentPreferences) PrefersSubject(subject string) bool {
	for _, s := range p.PreferredSubjects {
		if s == subject {
			return true
		}
	}
	return false
}
