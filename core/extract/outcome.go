package extract

import (
	"fmt"
	"strings"
	"time"

	"github.com/kilianp07/courseadvisor/core/factory"
	"github.com/kilianp07/courseadvisor/core/model"
)

// Questions for missing fields in asking order, then the fallback prompts.
const (
	QuestionCommute    = "What is your maximum acceptable commute time in minutes?"
	QuestionTimes      = "What are your preferred class times? (e.g., 9:00 AM, 2:00 PM)"
	QuestionDays       = "Which days of the week do you prefer for classes?"
	QuestionMaxPerDay  = "What is the maximum number of classes you want to take per day?"
	QuestionMinGap     = "What is the minimum gap you want between classes in minutes?"
	QuestionSubjects   = "What subjects are you interested in?"
	QuestionUnderstood = "I'm sorry, I couldn't understand your preferences. Could you please try again?"
	questionProcessing = "I encountered an error processing your preferences: %v. Could you please clarify?"
	questionBadTime    = "I couldn't read the class time %q. Please use HH:MM, for example 09:00 or 14:30."
	questionBadWeekday = "I couldn't recognise the day %q. Please name weekdays like Monday or Tue."
)

// Outcome is one of: Preferences set (proceed), Questions set (re-prompt
// without recommending). RequiredCredits is zero when not stated.
type Outcome struct {
	Preferences     *model.StudentPreferences `json:"preferences,omitempty"`
	Questions       []string                  `json:"questions,omitempty"`
	RequiredCredits int                       `json:"required_credits,omitempty"`
}

// NeedsClarification reports whether the caller must re-prompt.
func (o Outcome) NeedsClarification() bool { return o.Preferences == nil && len(o.Questions) > 0 }

// required lists the mandatory fields with their question, in asking order.
var required = []struct {
	key      string
	question string
}{
	{"max_commute_time", QuestionCommute},
	{"preferred_time_slots", QuestionTimes},
	{"preferred_days", QuestionDays},
	{"max_classes_per_day", QuestionMaxPerDay},
	{"min_gap_between_classes", QuestionMinGap},
	{"preferred_subjects", QuestionSubjects},
}

// fields mirrors the structured record produced by extractors.
type fields struct {
	MaxCommute      int      `json:"max_commute_time"`
	TimeSlots       []string `json:"preferred_time_slots"`
	Days            []string `json:"preferred_days"`
	MaxClassesDay   int      `json:"max_classes_per_day"`
	MinGap          int      `json:"min_gap_between_classes"`
	Subjects        []string `json:"preferred_subjects"`
	Campus          string   `json:"preferred_campus"`
	RequiredCredits int      `json:"required_credits"`
}

// FromFields converts an extracted field record into an Outcome. Missing or
// empty mandatory fields produce clarifying questions; a numeric zero is an
// answer. Unreadable values produce a single question rather than an error.
// An empty record is ErrNotUnderstood.
func FromFields(rec map[string]any) (Outcome, error) {
	if len(rec) == 0 {
		return Outcome{}, ErrNotUnderstood
	}
	var questions []string
	for _, f := range required {
		if missing(rec[f.key]) {
			questions = append(questions, f.question)
		}
	}
	if len(questions) > 0 {
		return Outcome{Questions: questions}, nil
	}

	var f fields
	if err := factory.Decode(rec, &f); err != nil {
		return clarify(fmt.Sprintf(questionProcessing, err)), nil
	}
	prefs := model.StudentPreferences{
		MaxCommuteMinutes: f.MaxCommute,
		MaxClassesPerDay:  f.MaxClassesDay,
		MinGapMinutes:     f.MinGap,
		PreferredSubjects: f.Subjects,
		PreferredCampus:   strings.TrimSpace(f.Campus),
	}
	for _, s := range f.TimeSlots {
		t, err := parseClock(s)
		if err != nil {
			return clarify(fmt.Sprintf(questionBadTime, s)), nil
		}
		prefs.PreferredTimeSlots = append(prefs.PreferredTimeSlots, t)
	}
	for _, d := range f.Days {
		day, err := model.ParseWeekday(d)
		if err != nil {
			return clarify(fmt.Sprintf(questionBadWeekday, d)), nil
		}
		prefs.PreferredDays = append(prefs.PreferredDays, day)
	}
	if err := prefs.Validate(); err != nil {
		return clarify(fmt.Sprintf(questionProcessing, err)), nil
	}
	if f.RequiredCredits < 0 {
		return clarify(fmt.Sprintf(questionProcessing, "required credits cannot be negative")), nil
	}
	return Outcome{Preferences: &prefs, RequiredCredits: f.RequiredCredits}, nil
}

func clarify(q string) Outcome { return Outcome{Questions: []string{q}} }

func missing(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	case []any:
		return len(x) == 0
	case []string:
		return len(x) == 0
	}
	return false
}

// clockLayouts are the accepted spellings of a meeting time.
var clockLayouts = []string{"15:04", "3:04 PM", "3:04PM", "3:04 pm", "3:04pm", "3PM", "3 PM", "3pm", "3 pm"}

// parseClock reads 24-hour "HH:MM" as well as 12-hour spellings.
func parseClock(s string) (model.TimeOfDay, error) {
	s = strings.TrimSpace(s)
	if t, err := model.ParseTimeOfDay(s); err == nil {
		return t, nil
	}
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return model.At(t.Hour(), t.Minute()), nil
		}
	}
	return model.TimeOfDay{}, fmt.Errorf("unreadable time %q", s)
}
