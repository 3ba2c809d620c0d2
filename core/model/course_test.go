package model

import (
	"errors"
	"testing"
)

func validCourse() Course {
	return Course{
		ID: "CS101", Name: "Intro", Subject: "Computer Science", Credits: 3,
		TimeSlot: At(9, 0), Days: []string{"Monday", "Wednesday"},
		Building: "Science Hall", Room: "101", Capacity: 30, Enrolled: 15,
	}
}

func TestNewCourseNormalizesDays(t *testing.T) {
	c := validCourse()
	c.Days = []string{"mon", "WEDNESDAY"}
	got, err := NewCourse(c)
	if err != nil {
		t.Fatalf("new course: %v", err)
	}
	if got.Days[0] != "Monday" || got.Days[1] != "Wednesday" {
		t.Fatalf("days not normalized: %v", got.Days)
	}
}

func TestCourseValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Course)
	}{
		{"zero capacity", func(c *Course) { c.Capacity = 0; c.Enrolled = 0 }},
		{"over enrolled", func(c *Course) { c.Enrolled = 31 }},
		{"negative enrolled", func(c *Course) { c.Enrolled = -1 }},
		{"no credits", func(c *Course) { c.Credits = 0 }},
		{"empty id", func(c *Course) { c.ID = "" }},
		{"no days", func(c *Course) { c.Days = nil }},
		{"duplicate day", func(c *Course) { c.Days = []string{"Monday", "Monday"} }},
		{"bad day", func(c *Course) { c.Days = []string{"Funday"} }},
		{"bad time", func(c *Course) { c.TimeSlot = At(25, 0) }},
	}
	for _, tc := range cases {
		c := validCourse()
		tc.mutate(&c)
		err := c.Validate()
		if !errors.Is(err, ErrInvalidCourse) {
			t.Errorf("%s: expected ErrInvalidCourse got %v", tc.name, err)
		}
	}
	if err := validCourse().Validate(); err != nil {
		t.Fatalf("valid course rejected: %v", err)
	}
}

func TestCourseHelpers(t *testing.T) {
	c := validCourse()
	if c.Location() != "Science Hall 101" {
		t.Errorf("location %q", c.Location())
	}
	if c.OpenSeats() != 15 {
		t.Errorf("open seats %d", c.OpenSeats())
	}
	if c.AvailabilityRatio() != 0.5 {
		t.Errorf("ratio %v", c.AvailabilityRatio())
	}
	other := validCourse()
	other.Days = []string{"Friday"}
	if c.SharesDay(other) {
		t.Errorf("unexpected shared day")
	}
	other.Days = []string{"Friday", "Wednesday"}
	if !c.SharesDay(other) {
		t.Errorf("expected shared day")
	}
}

func TestTimeOfDay(t *testing.T) {
	tm, err := ParseTimeOfDay("14:30")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if tm.Minutes() != 870 {
		t.Errorf("minutes %d", tm.Minutes())
	}
	checks := map[TimeOfDay]string{
		At(9, 0):   "09:00 AM",
		At(0, 15):  "12:15 AM",
		At(12, 0):  "12:00 PM",
		At(14, 30): "02:30 PM",
	}
	for in, want := range checks {
		if got := in.Format12h(); got != want {
			t.Errorf("%s: got %s want %s", in, got, want)
		}
	}
	for _, bad := range []string{"9", "ab:00", "10:75", "24:00"} {
		if _, err := ParseTimeOfDay(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestScheduleDailyCounts(t *testing.T) {
	a := validCourse()
	b := validCourse()
	b.ID = "X"
	b.Days = []string{"Monday", "Friday"}
	s := ScheduleOf("s1", []Course{a, b})
	counts := s.DailyCounts()
	if counts["Monday"] != 2 || counts["Wednesday"] != 1 || counts["Friday"] != 1 {
		t.Fatalf("counts %v", counts)
	}
	if s.TotalCredits != 6 {
		t.Fatalf("credits %d", s.TotalCredits)
	}
}

func TestPreferencesNormalize(t *testing.T) {
	p := StudentPreferences{PreferredDays: []string{"mon", " WEDNESDAY", "Fri"}}
	got, err := p.Normalize()
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	want := []string{"Monday", "Wednesday", "Friday"}
	for i, d := range want {
		if got.PreferredDays[i] != d {
			t.Fatalf("days %v want %v", got.PreferredDays, want)
		}
	}
	if !got.PrefersDay("Wednesday") {
		t.Errorf("normalized preferences should match Wednesday")
	}
	if p.PreferredDays[0] != "mon" {
		t.Errorf("normalize mutated the receiver: %v", p.PreferredDays)
	}

	p.PreferredDays = []string{"Funday"}
	if _, err := p.Normalize(); !errors.Is(err, ErrInvalidPreferences) {
		t.Fatalf("expected ErrInvalidPreferences got %v", err)
	}
	if err := p.Validate(); !errors.Is(err, ErrInvalidPreferences) {
		t.Fatalf("validate should reject unknown day, got %v", err)
	}
}
