package scheduler

import (
	"time"

	"remindbot/internal/plan"
)

// Render builds the outgoing text for e, stamped with the observed local time.
func Render(e plan.Entry, now time.Time) string {
	return "Reminder (" + now.Format("03:04 PM") + "): " + e.Title + "\n" +
		e.Body + "\n" +
		"Please take care."
}
