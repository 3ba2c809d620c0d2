// Package recommend exposes the recommendation engine over HTTP.
package recommend

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/kilianp07/courseadvisor/core/catalog"
	"github.com/kilianp07/courseadvisor/core/events"
	"github.com/kilianp07/courseadvisor/core/extract"
	"github.com/kilianp07/courseadvisor/core/model"
	"github.com/kilianp07/courseadvisor/core/monitoring"
	engine "github.com/kilianp07/courseadvisor/core/recommend"
	"github.com/kilianp07/courseadvisor/internal/eventbus"
)

// Request is the body of POST /api/recommendations. Exactly one of
// Preferences and Text is expected.
type Request struct {
	StudentID       string                    `json:"student_id"`
	RequiredCredits int                       `json:"required_credits"`
	Preferences     *model.StudentPreferences `json:"preferences,omitempty"`
	Text            string                    `json:"text,omitempty"`
}

// Response is the body of a successful recommendation.
type Response struct {
	RequestID    string          `json:"request_id"`
	Courses      []model.Course  `json:"courses"`
	Summary      engine.Summary  `json:"summary"`
	TotalCredits int             `json:"total_credits"`
	Shortfall    int             `json:"shortfall"`
	Note         string          `json:"note,omitempty"`
	Skipped      []skippedCourse `json:"skipped,omitempty"`
}

type skippedCourse struct {
	CourseID string `json:"course_id"`
	Outcome  string `json:"outcome"`
	Reason   string `json:"reason"`
}

type questionsResponse struct {
	Questions []string `json:"questions"`
}

type errorResponse struct {
	Error     string   `json:"error"`
	Questions []string `json:"questions,omitempty"`
}

// NewCatalogHandler serves the catalog via GET /api/catalog.
func NewCatalogHandler(cat *catalog.Catalog) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, cat.Courses())
	})
}

// NewRecommendHandler serves POST /api/recommendations. ex may be nil, in
// which case free-text requests are rejected.
func NewRecommendHandler(eng *engine.Engine, ex extract.Extractor, extractorName string, bus eventbus.EventBus) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var body Request
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request: " + err.Error()})
			return
		}

		var prefs model.StudentPreferences
		credits := body.RequiredCredits
		switch {
		case body.Preferences != nil:
			prefs = *body.Preferences
		case strings.TrimSpace(body.Text) != "":
			if ex == nil {
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: "free-text preferences are not enabled"})
				return
			}
			start := time.Now()
			out, err := ex.Extract(r.Context(), body.Text)
			if bus != nil {
				bus.Publish(events.ExtractionEvent{
					Extractor: extractorName,
					Result:    extract.Result(out, err),
					Questions: len(out.Questions),
					Duration:  time.Since(start),
				})
			}
			switch {
			case errors.Is(err, extract.ErrNotUnderstood):
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Questions: []string{extract.QuestionUnderstood}})
				return
			case err != nil:
				monitoring.CaptureException(err, map[string]string{"module": "extract", "extractor": extractorName})
				writeJSON(w, http.StatusBadGateway, errorResponse{Error: "preference extraction failed"})
				return
			case out.NeedsClarification():
				writeJSON(w, http.StatusUnprocessableEntity, questionsResponse{Questions: out.Questions})
				return
			}
			prefs = *out.Preferences
			if credits == 0 {
				credits = out.RequiredCredits
			}
		default:
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "preferences or text is required"})
			return
		}

		res, err := eng.Run(r.Context(), engine.Request{
			StudentID:       body.StudentID,
			Preferences:     prefs,
			RequiredCredits: credits,
		})
		switch {
		case errors.Is(err, engine.ErrInvalidCredits), errors.Is(err, model.ErrInvalidPreferences):
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		case err != nil:
			monitoring.CaptureException(err, map[string]string{"module": "api", "student_id": body.StudentID})
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
			return
		}
		writeJSON(w, http.StatusOK, newResponse(res))
	})
}

func newResponse(res engine.Result) Response {
	out := Response{
		RequestID:    res.RequestID,
		Courses:      res.Courses(),
		Summary:      res.Summary(),
		TotalCredits: res.TotalCredits(),
		Shortfall:    res.Shortfall,
	}
	if out.Courses == nil {
		out.Courses = []model.Course{}
	}
	switch {
	case res.Empty():
		out.Note = "empty"
	case res.Partial():
		out.Note = "partial"
	}
	for _, c := range res.Candidates {
		if c.Outcome == engine.OutcomeDailyCap || c.Outcome == engine.OutcomeConflict {
			out.Skipped = append(out.Skipped, skippedCourse{CourseID: c.Course.ID, Outcome: string(c.Outcome), Reason: c.Reason})
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
