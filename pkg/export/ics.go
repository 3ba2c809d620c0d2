package export

import (
	"fmt"
	"io"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/kilianp07/courseadvisor/core/calendar"
)

const productID = "-//courseadvisor//schedule//EN"

// WriteICS writes events as an iCalendar document with a display alarm per
// event.
func WriteICS(w io.Writer, events []calendar.Event) error {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)
	stamp := time.Now().UTC()
	for _, e := range events {
		ev := cal.AddEvent(e.UID)
		ev.SetDtStampTime(stamp)
		ev.SetStartAt(e.Start)
		ev.SetEndAt(e.End)
		ev.SetSummary(e.Summary)
		ev.SetLocation(e.Location)
		ev.SetDescription(e.Description)
		if e.Reminder > 0 {
			alarm := ev.AddAlarm()
			alarm.SetAction(ics.ActionDisplay)
			alarm.SetTrigger(fmt.Sprintf("-PT%dM", int(e.Reminder.Minutes())))
		}
	}
	if _, err := io.WriteString(w, cal.Serialize()); err != nil {
		return fmt.Errorf("write calendar: %w", err)
	}
	return nil
}
