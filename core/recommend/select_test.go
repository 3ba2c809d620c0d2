package recommend

import (
	"math/rand"
	"reflect"
	"testing"
	"time"

	"github.com/kilianp07/courseadvisor/core/catalog"
	"github.com/kilianp07/courseadvisor/core/model"
)

func ids(courses []model.Course) []string {
	out := make([]string, len(courses))
	for i, c := range courses {
		out[i] = c.ID
	}
	return out
}

func course(id string, credits, hour, minute int, days ...string) model.Course {
	return model.Course{
		ID: id, Name: id, Subject: "General", Credits: credits,
		TimeSlot: model.At(hour, minute), Days: days,
		Campus: "Main Campus", Building: "Hall", Room: "1",
		Capacity: 10, Enrolled: 5,
	}
}

func sampleScenarioPrefs() model.StudentPreferences {
	return model.StudentPreferences{
		PreferredSubjects:  []string{"Computer Science", "Mathematics"},
		PreferredDays:      []string{"Monday", "Wednesday"},
		PreferredTimeSlots: []model.TimeOfDay{model.At(9, 0)},
		MaxClassesPerDay:   2,
		PreferredCampus:    "Main Campus",
	}
}

func TestSampleScenario(t *testing.T) {
	sel := Selector{}.Select("s1", catalog.SampleCourses(), sampleScenarioPrefs(), 7)
	if got := ids(sel.Courses()); !reflect.DeepEqual(got, []string{"CS101", "MATH201"}) {
		t.Fatalf("unexpected selection %v", got)
	}
	if sel.Schedule.TotalCredits != 7 || sel.Shortfall() != 0 {
		t.Fatalf("credits %d shortfall %d", sel.Schedule.TotalCredits, sel.Shortfall())
	}
	if sel.Candidates[0].Course.ID != "CS101" || sel.Candidates[0].Score != 10 {
		t.Fatalf("CS101 should rank first with 10, got %+v", sel.Candidates[0])
	}
	for _, c := range sel.Candidates {
		if c.Course.ID == "HIST101" && c.Outcome != OutcomeNotConsidered {
			t.Fatalf("HIST101 should not be considered, got %s", c.Outcome)
		}
	}
}

func TestUnreachableTargetIsPartial(t *testing.T) {
	sel := Selector{}.Select("s1", catalog.SampleCourses(), model.StudentPreferences{}, 100)
	if len(sel.Courses()) != 5 {
		t.Fatalf("expected every course packed, got %v", ids(sel.Courses()))
	}
	if sel.Schedule.TotalCredits != 17 || sel.Shortfall() != 83 {
		t.Fatalf("credits %d shortfall %d", sel.Schedule.TotalCredits, sel.Shortfall())
	}
}

func TestEmptyPreferencesRankByAvailability(t *testing.T) {
	sel := Selector{}.Select("", catalog.SampleCourses(), model.StudentPreferences{}, 0)
	var got []string
	for _, c := range sel.Candidates {
		got = append(got, c.Course.ID)
		if c.Score != c.Course.AvailabilityRatio()*2 {
			t.Errorf("%s scored %v", c.Course.ID, c.Score)
		}
	}
	want := []string{"CS101", "PHYS101", "ENG101", "HIST101", "MATH201"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ranking %v want %v", got, want)
	}
	if len(sel.Courses()) != 0 {
		t.Fatalf("zero target must select nothing")
	}
}

func TestDailyCapRejectsBeforeCommit(t *testing.T) {
	prefs := model.StudentPreferences{MaxClassesPerDay: 2}
	sel := Selector{}.Select("", catalog.SampleCourses(), prefs, 100)
	if got := ids(sel.Courses()); !reflect.DeepEqual(got, []string{"CS101", "PHYS101", "ENG101", "MATH201"}) {
		t.Fatalf("unexpected selection %v", got)
	}
	for _, c := range sel.Candidates {
		if c.Course.ID == "HIST101" {
			if c.Outcome != OutcomeDailyCap || c.Reason != "Monday" {
				t.Fatalf("HIST101 should hit the Monday cap, got %s %s", c.Outcome, c.Reason)
			}
		}
	}
	for day, n := range sel.Schedule.DailyCounts() {
		if n > 2 {
			t.Fatalf("%s has %d classes", day, n)
		}
	}
}

func TestBackToBackDoesNotConflict(t *testing.T) {
	a := course("A", 3, 9, 0, "Monday")
	b := course("B", 3, 10, 0, "Monday")
	c := course("C", 3, 9, 30, "Monday")
	s := model.ScheduleOf("", []model.Course{a})
	if Conflicts(s, b) {
		t.Fatal("09:00 and 10:00 must not conflict")
	}
	if !Conflicts(s, c) {
		t.Fatal("09:00 and 09:30 must conflict")
	}
	other := course("D", 3, 9, 0, "Tuesday")
	if Conflicts(s, other) {
		t.Fatal("different days never conflict")
	}
}

func TestMinGap(t *testing.T) {
	a := course("A", 3, 9, 0, "Monday")
	b := course("B", 3, 10, 0, "Monday")
	c := course("C", 3, 10, 30, "Monday")
	s := model.ScheduleOf("", []model.Course{a})
	d := ConflictDetector{MinGap: 30 * time.Minute}
	if !d.Conflicts(s, b) {
		t.Fatal("back-to-back must conflict with a 30 minute gap")
	}
	if d.Conflicts(s, c) {
		t.Fatal("exact 30 minute gap must be accepted")
	}
	if clash, ok := d.FirstConflict(s, b); !ok || clash.ID != "A" {
		t.Fatalf("unexpected clash %v %v", clash.ID, ok)
	}
	// the gap applies on both sides
	s = model.ScheduleOf("", []model.Course{c})
	if !d.Conflicts(s, course("E", 3, 9, 15, "Monday")) {
		t.Fatal("course ending 15 minutes before must conflict")
	}
}

func TestRecommendHonoursMinGap(t *testing.T) {
	prefs := model.StudentPreferences{MinGapMinutes: 30}
	got := ids(Recommend(catalog.SampleCourses(), prefs, 100))
	if !reflect.DeepEqual(got, []string{"CS101", "PHYS101", "ENG101"}) {
		t.Fatalf("unexpected selection %v", got)
	}
}

func TestStableTies(t *testing.T) {
	courses := []model.Course{
		course("X", 1, 8, 0, "Monday"),
		course("Y", 1, 12, 0, "Tuesday"),
		course("Z", 1, 16, 0, "Friday"),
	}
	for i := 0; i < 5; i++ {
		sel := Selector{}.Select("", courses, model.StudentPreferences{}, 3)
		if got := ids(sel.Courses()); !reflect.DeepEqual(got, []string{"X", "Y", "Z"}) {
			t.Fatalf("ties must keep catalog order, got %v", got)
		}
	}
}

func TestScoreIdempotent(t *testing.T) {
	prefs := sampleScenarioPrefs()
	for _, c := range catalog.SampleCourses() {
		if Score(c, prefs) != Score(c, prefs) {
			t.Fatalf("score of %s not stable", c.ID)
		}
	}
}

func TestWeightedScorerCustomWeights(t *testing.T) {
	c := catalog.SampleCourses()[0]
	prefs := sampleScenarioPrefs()
	s := NewWeightedScorer(Weights{Subject: 10})
	if got := s.Score(c, prefs); got != 10 {
		t.Fatalf("only subject weight should count, got %v", got)
	}
	if NewWeightedScorer(Weights{}).Weights != DefaultWeights() {
		t.Fatal("zero weights fall back to defaults")
	}
}

// randomCatalog builds n valid courses on hour or half-hour slots.
func randomCatalog(r *rand.Rand, n int) []model.Course {
	out := make([]model.Course, n)
	for i := range out {
		var days []string
		for _, d := range model.Weekdays[:5] {
			if r.Intn(2) == 0 {
				days = append(days, d)
			}
		}
		if len(days) == 0 {
			days = []string{model.Weekdays[r.Intn(5)]}
		}
		c := course(string(rune('A'+i%26))+string(rune('0'+i/26)), 1+r.Intn(4), 8+r.Intn(10), 30*r.Intn(2), days...)
		c.Capacity = 10 + r.Intn(30)
		c.Enrolled = r.Intn(c.Capacity + 1)
		out[i] = c
	}
	return out
}

func TestSelectionInvariants(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for round := 0; round < 200; round++ {
		courses := randomCatalog(r, 5+r.Intn(20))
		prefs := model.StudentPreferences{
			MaxClassesPerDay: r.Intn(4),
			MinGapMinutes:    15 * r.Intn(3),
			PreferredDays:    []string{model.Weekdays[r.Intn(5)]},
		}
		required := r.Intn(30)
		sel := Selector{Detector: ConflictDetector{MinGap: time.Duration(prefs.MinGapMinutes) * time.Minute}}.
			Select("", courses, prefs, required)
		chosen := sel.Courses()
		for i := range chosen {
			for j := i + 1; j < len(chosen); j++ {
				if (ConflictDetector{}).Overlaps(chosen[i], chosen[j]) {
					t.Fatalf("round %d: %s and %s overlap", round, chosen[i].ID, chosen[j].ID)
				}
			}
		}
		if prefs.MaxClassesPerDay > 0 {
			for day, n := range sel.Schedule.DailyCounts() {
				if n > prefs.MaxClassesPerDay {
					t.Fatalf("round %d: %s has %d classes, cap %d", round, day, n, prefs.MaxClassesPerDay)
				}
			}
		}
		total := 0
		for _, c := range chosen {
			total += c.Credits
		}
		if total != sel.Schedule.TotalCredits {
			t.Fatalf("round %d: credits mismatch", round)
		}
		if len(chosen) > 0 && total-chosen[len(chosen)-1].Credits >= required {
			t.Fatalf("round %d: selection continued after reaching target", round)
		}
	}
}
