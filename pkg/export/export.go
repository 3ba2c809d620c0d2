// Package export renders finished schedules and term calendars to files.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/kilianp07/courseadvisor/core/recommend"
)

// WriteJSON writes the schedule summary to w in JSON format.
func WriteJSON(w io.Writer, s recommend.Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// WriteCSV writes one row per selected course.
func WriteCSV(w io.Writer, s recommend.Summary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"course_id", "course_name", "time", "days", "location"}); err != nil {
		return err
	}
	for _, c := range s.Courses {
		rec := []string{c.ID, c.Name, c.Time, strings.Join(c.Days, ", "), c.Location}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	if err := cw.Write([]string{"total_credits", strconv.Itoa(s.TotalCredits)}); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}
