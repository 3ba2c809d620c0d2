// Package calendar expands a schedule into dated class meetings for a term.
package calendar

import (
	"errors"
	"fmt"
	"time"

	"github.com/kilianp07/courseadvisor/core/model"
	"github.com/kilianp07/courseadvisor/core/recommend"
)

// ErrInvalidStartDate is returned when the term start is not YYYY-MM-DD.
var ErrInvalidStartDate = errors.New("invalid semester start date")

// DateLayout is the accepted term start format.
const DateLayout = "2006-01-02"

// Options controls the expansion.
type Options struct {
	Weeks    int            `json:"weeks"`
	Location *time.Location `json:"-"`
	Timezone string         `json:"timezone"`
	Reminder time.Duration  `json:"reminder"`
}

// DefaultOptions returns a 16 week term in America/New_York with a 30 minute
// reminder.
func DefaultOptions() Options {
	return Options{Weeks: 16, Timezone: "America/New_York", Reminder: 30 * time.Minute}
}

// resolve fills zero fields and loads the time zone.
func (o Options) resolve() (Options, error) {
	def := DefaultOptions()
	if o.Weeks <= 0 {
		o.Weeks = def.Weeks
	}
	if o.Reminder <= 0 {
		o.Reminder = def.Reminder
	}
	if o.Location == nil {
		if o.Timezone == "" {
			o.Timezone = def.Timezone
		}
		loc, err := time.LoadLocation(o.Timezone)
		if err != nil {
			return o, fmt.Errorf("load timezone %s: %w", o.Timezone, err)
		}
		o.Location = loc
	}
	return o, nil
}

// Event is one class meeting.
type Event struct {
	UID         string
	CourseID    string
	Summary     string
	Location    string
	Description string
	Start       time.Time
	End         time.Time
	Reminder    time.Duration
}

// Build returns one event per course, per meeting day, per week of the term.
// The first meeting on each day is the first such weekday on or after start.
// Events are ordered by course, then day, then week.
func Build(courses []model.Course, start string, opts Options) ([]Event, error) {
	opts, err := opts.resolve()
	if err != nil {
		return nil, err
	}
	first, err := time.ParseInLocation(DateLayout, start, opts.Location)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidStartDate, start, err)
	}

	var events []Event
	for _, c := range courses {
		for _, day := range c.Days {
			wd, ok := model.TimeWeekday(day)
			if !ok {
				return nil, fmt.Errorf("%w: course %s has unknown day %q", model.ErrInvalidCourse, c.ID, day)
			}
			offset := (int(wd) - int(first.Weekday()) + 7) % 7
			date := first.AddDate(0, 0, offset)
			for week := 0; week < opts.Weeks; week++ {
				d := date.AddDate(0, 0, 7*week)
				begin := time.Date(d.Year(), d.Month(), d.Day(), c.TimeSlot.Hour, c.TimeSlot.Minute, 0, 0, opts.Location)
				events = append(events, Event{
					UID:         fmt.Sprintf("%s-%s@courseadvisor", c.ID, begin.Format("20060102T1504")),
					CourseID:    c.ID,
					Summary:     fmt.Sprintf("%s (%s)", c.Name, c.ID),
					Location:    c.Location(),
					Description: fmt.Sprintf("Professor: %s\nSubject: %s\nCredits: %d", c.Professor, c.Subject, c.Credits),
					Start:       begin,
					End:         begin.Add(recommend.MeetingDuration),
					Reminder:    opts.Reminder,
				})
			}
		}
	}
	return events, nil
}
