package calendar

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/courseadvisor/core/catalog"
	"github.com/kilianp07/courseadvisor/core/model"
)

func TestBuild_SampleCourse(t *testing.T) {
	cs, ok := catalog.Sample().Get("CS101")
	require.True(t, ok)

	events, err := Build([]model.Course{cs}, "2025-01-06", Options{})
	require.NoError(t, err)
	require.Len(t, events, 32)

	ny, _ := time.LoadLocation("America/New_York")
	first := events[0]
	assertInstant(t, time.Date(2025, 1, 6, 9, 0, 0, 0, ny), first.Start)
	assert.Equal(t, time.Hour, first.End.Sub(first.Start))
	assert.Equal(t, "Introduction to Computer Science (CS101)", first.Summary)
	assert.Equal(t, cs.Location(), first.Location)
	assert.Contains(t, first.Description, "Credits: 3")
	assert.Equal(t, 30*time.Minute, first.Reminder)

	// Wednesday series follows the sixteen Monday meetings.
	assertInstant(t, time.Date(2025, 1, 8, 9, 0, 0, 0, ny), events[16].Start)
	// Local wall time is kept across the DST change.
	last := events[15]
	assert.Equal(t, 9, last.Start.Hour())
	assertInstant(t, time.Date(2025, 4, 21, 9, 0, 0, 0, ny), last.Start)
}

func TestBuild_StartMidWeek(t *testing.T) {
	cs, _ := catalog.Sample().Get("CS101")
	events, err := Build([]model.Course{cs}, "2025-01-08", Options{Weeks: 2, Timezone: "UTC"})
	require.NoError(t, err)
	require.Len(t, events, 4)
	assertInstant(t, time.Date(2025, 1, 13, 9, 0, 0, 0, time.UTC), events[0].Start)
	assertInstant(t, time.Date(2025, 1, 8, 9, 0, 0, 0, time.UTC), events[2].Start)
	assert.NotEqual(t, events[0].UID, events[1].UID)
}

func TestBuild_Errors(t *testing.T) {
	_, err := Build(catalog.SampleCourses(), "01/06/2025", Options{})
	assert.True(t, errors.Is(err, ErrInvalidStartDate))

	_, err = Build(catalog.SampleCourses(), "2025-01-06", Options{Timezone: "Mars/Olympus"})
	assert.Error(t, err)

	events, err := Build(nil, "2025-01-06", Options{})
	require.NoError(t, err)
	assert.Empty(t, events)
}

func assertInstant(t *testing.T, want, got time.Time) {
	t.Helper()
	assert.True(t, want.Equal(got), "want %s got %s", want, got)
}
