package recommend

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kilianp07/courseadvisor/core/calendar"
	"github.com/kilianp07/courseadvisor/core/catalog"
	"github.com/kilianp07/courseadvisor/pkg/export"
)

type calendarRequest struct {
	CourseIDs []string `json:"course_ids"`
}

// NewCalendarHandler serves POST /api/calendar?start=YYYY-MM-DD and returns
// the term's meetings for the listed courses as text/calendar.
func NewCalendarHandler(cat *catalog.Catalog, opts calendar.Options) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var body calendarRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "malformed request", http.StatusBadRequest)
			return
		}
		courses, err := cat.Lookup(body.CourseIDs)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		events, err := calendar.Build(courses, r.URL.Query().Get("start"), opts)
		if errors.Is(err, calendar.ErrInvalidStartDate) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		var buf bytes.Buffer
		if err := export.WriteICS(&buf, events); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="schedule.ics"`)
		_, _ = w.Write(buf.Bytes())
	})
}
