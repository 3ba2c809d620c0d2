package config

import (
	"fmt"
	"time"

	"github.com/kilianp07/courseadvisor/core/calendar"
)

// CalendarConfig defines the term used for calendar exports.
type CalendarConfig struct {
	Weeks    int           `json:"weeks"`
	Timezone string        `json:"timezone"`
	Reminder time.Duration `json:"reminder"`
}

// SetDefaults applies the calendar package defaults.
func (c *CalendarConfig) SetDefaults() {
	def := calendar.DefaultOptions()
	if c.Weeks == 0 {
		c.Weeks = def.Weeks
	}
	if c.Timezone == "" {
		c.Timezone = def.Timezone
	}
	if c.Reminder == 0 {
		c.Reminder = def.Reminder
	}
}

// Validate checks the week count and time zone.
func (c CalendarConfig) Validate() error {
	if c.Weeks < 0 {
		return fmt.Errorf("calendar: weeks cannot be negative")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("calendar: %w", err)
	}
	return nil
}

// Options converts the section for calendar.Build.
func (c CalendarConfig) Options() calendar.Options {
	return calendar.Options{Weeks: c.Weeks, Timezone: c.Timezone, Reminder: c.Reminder}
}
