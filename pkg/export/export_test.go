package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/kilianp07/courseadvisor/core/calendar"
	"github.com/kilianp07/courseadvisor/core/catalog"
	"github.com/kilianp07/courseadvisor/core/model"
	"github.com/kilianp07/courseadvisor/core/recommend"
)

func sampleSchedule(t *testing.T) *model.Schedule {
	t.Helper()
	courses, err := catalog.Sample().Lookup([]string{"CS101", "MATH201"})
	require.NoError(t, err)
	return model.ScheduleOf("s1", courses)
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, recommend.Summarize(sampleSchedule(t))))
	var got recommend.Summary
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, 7, got.TotalCredits)
	assert.Len(t, got.Courses, 2)
	assert.Len(t, got.Daily["Monday"], 1)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, recommend.Summarize(sampleSchedule(t))))
	r := csv.NewReader(&buf)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"course_id", "course_name", "time", "days", "location"}, rows[0])
	assert.Equal(t, "CS101", rows[1][0])
	assert.Equal(t, "09:00 AM", rows[1][2])
	assert.Equal(t, "Monday, Wednesday", rows[1][3])
	assert.Equal(t, []string{"total_credits", "7"}, rows[3])
}

func TestWriteICS(t *testing.T) {
	events, err := calendar.Build(sampleSchedule(t).Courses, "2025-01-06", calendar.Options{Weeks: 2, Timezone: "UTC"})
	require.NoError(t, err)
	require.Len(t, events, 8)

	var buf bytes.Buffer
	require.NoError(t, WriteICS(&buf, events))
	out := buf.String()
	assert.Contains(t, out, "BEGIN:VALARM")
	assert.Contains(t, out, "TRIGGER:-PT30M")
	assert.Contains(t, out, "SUMMARY:Introduction to Computer Science (CS101)")

	cal, err := ics.ParseCalendar(strings.NewReader(out))
	require.NoError(t, err)
	parsed := cal.Events()
	require.Len(t, parsed, 8)
	start, err := parsed[0].GetStartAt()
	require.NoError(t, err)
	assert.True(t, start.Equal(time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)))
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleSchedule(t)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{sheetName}, f.GetSheetList())

	get := func(ref string) string {
		v, err := f.GetCellValue(sheetName, ref)
		require.NoError(t, err)
		return v
	}
	assert.Equal(t, "Monday", get("B1"))
	assert.Equal(t, "09:00 AM", get("A2"))
	assert.Equal(t, "11:00 AM", get("A3"))
	assert.Contains(t, get("B2"), "CS101")
	assert.Contains(t, get("C3"), "MATH201")
	assert.Empty(t, get("C2"))
}

func TestWriteXLSX_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, nil))
	assert.NotZero(t, buf.Len())
}

func TestWriteLoadChart(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteLoadChart(&buf, recommend.Summarize(sampleSchedule(t))))
	out := buf.String()
	assert.Contains(t, out, "<html")
	assert.Contains(t, out, "Weekly Load")
	assert.Contains(t, out, "Friday")
	assert.NotContains(t, out, "Saturday")
}

func TestWriteXLSX_CellError(t *testing.T) {
	courses := catalog.SampleCourses()[:1]
	courses[0].Name = strings.Repeat("x", excelize.TotalCellChars+1)
	var buf bytes.Buffer
	err := WriteXLSX(&buf, model.ScheduleOf("s1", courses))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CS101")
	assert.Zero(t, buf.Len())
}
