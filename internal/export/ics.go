// Package export renders logged events as an iCalendar document: one all-day
// VEVENT per event, summarized by its category name.
package export

import (
	"time"

	ical "github.com/arran4/golang-ical"

	"sidequest/internal/model"
)

const unknownSummary = "Unknown quest"

// Calendar serializes the events as an iCalendar document. Events with a
// dangling category reference are kept and summarized with a fallback label.
func Calendar(events []model.TrackerEvent, byID func(id string) (model.Category, bool)) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//SideQuest//Tracker//EN")

	for _, ev := range events {
		summary := unknownSummary
		if cat, ok := byID(ev.CategoryID); ok {
			summary = cat.Name
		}

		day := ev.Day()
		ve := cal.AddEvent(ev.ID)
		ve.SetDtStampTime(time.Now())
		ve.SetAllDayStartAt(day)
		ve.SetAllDayEndAt(day.AddDate(0, 0, 1))
		ve.SetSummary(summary)
		if ev.Note != "" {
			ve.SetDescription(ev.Note)
		}
	}

	return cal.Serialize()
}
