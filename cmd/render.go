package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/kilianp07/courseadvisor/core/model"
	"github.com/kilianp07/courseadvisor/core/recommend"
)

const rule = "--------------------------------------------------------------------------------"

func printCourse(w io.Writer, c model.Course) {
	fmt.Fprintf(w, "\n%s (%s)\n", c.Name, c.ID)
	fmt.Fprintf(w, "Subject: %s\n", c.Subject)
	fmt.Fprintf(w, "Professor: %s\n", c.Professor)
	fmt.Fprintf(w, "Time: %s\n", c.TimeSlot.Format12h())
	fmt.Fprintf(w, "Days: %s\n", strings.Join(c.Days, ", "))
	fmt.Fprintf(w, "Location: %s\n", c.Location())
	fmt.Fprintf(w, "Credits: %d\n", c.Credits)
	fmt.Fprintf(w, "Availability: %d/%d\n", c.OpenSeats(), c.Capacity)
}

// printResult renders a recommendation for a terminal.
func printResult(w io.Writer, res recommend.Result) {
	if res.Empty() || len(res.Courses()) == 0 {
		fmt.Fprintln(w, "\nI couldn't find any courses that match your preferences. Would you like to try different preferences?")
		return
	}
	fmt.Fprintln(w, "\nBased on your preferences, here are the recommended courses:")
	fmt.Fprintln(w, rule)
	for _, c := range res.Courses() {
		printCourse(w, c)
		fmt.Fprintln(w, rule)
	}
	if res.Partial() {
		fmt.Fprintf(w, "\nThese courses total %d credits, %d short of the %d you need.\n",
			res.TotalCredits(), res.Shortfall, res.RequiredCredits)
	}
	printSummary(w, res.Summary())
}

func printSummary(w io.Writer, s recommend.Summary) {
	fmt.Fprintln(w, "\nSchedule Summary:")
	fmt.Fprintf(w, "Total Credits: %d\n", s.TotalCredits)
	fmt.Fprintln(w, "\nDaily Schedule:")
	for _, day := range s.OrderedDays() {
		fmt.Fprintf(w, "\n%s:\n", day)
		for _, e := range s.Daily[day] {
			fmt.Fprintf(w, "  %s - %s\n", e.Time, e.Course)
			fmt.Fprintf(w, "    Location: %s\n", e.Location)
		}
	}
}

func printQuestions(w io.Writer, questions []string) {
	fmt.Fprintln(w, "\nI need some more information:")
	for _, q := range questions {
		fmt.Fprintf(w, "- %s\n", q)
	}
}
