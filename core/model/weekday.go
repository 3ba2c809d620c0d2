package model

import (
	"fmt"
	"strings"
	"time"
)

// Weekdays lists the canonical day names in calendar order, Monday first.
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// ParseWeekday normalizes a day name. It is case-insensitive and accepts
// three-letter abbreviations ("mon", "Tue").
func ParseWeekday(s string) (string, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	for _, d := range Weekdays {
		l := strings.ToLower(d)
		if v == l || (len(v) == 3 && strings.HasPrefix(l, v)) {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown weekday %q", s)
}

// WeekdayIndex returns the position of day in Weekdays (Monday=0, Sunday=6)
// or -1 if day is not a canonical name.
func WeekdayIndex(day string) int {
	for i, d := range Weekdays {
		if d == day {
			return i
		}
	}
	return -1
}

// TimeWeekday converts a canonical day name to a time.Weekday.
func TimeWeekday(day string) (time.Weekday, bool) {
	idx := WeekdayIndex(day)
	if idx < 0 {
		return 0, false
	}
	return time.Weekday((idx + 1) % 7), true
}
