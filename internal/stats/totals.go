package stats

import (
	"time"

	"sidequest/internal/model"
)

// Totals backs the stats-tab header cards.
type Totals struct {
	MonthCount  int
	YearCount   int
	TopCategory *model.Category // nil when nothing is logged
}

// ComputeTotals counts events in now's month and year and finds the
// most-logged category across the whole history.
func ComputeTotals(events []model.TrackerEvent, byID func(id string) (model.Category, bool), now time.Time) Totals {
	var t Totals
	for _, ev := range events {
		et := ev.Time()
		if et.Year() == now.Year() {
			t.YearCount++
			if et.Month() == now.Month() {
				t.MonthCount++
			}
		}
	}

	if len(events) > 0 {
		topID, _ := dominant(events, func(ev model.TrackerEvent) string { return ev.CategoryID })
		cat, ok := byID(topID)
		if !ok {
			cat = UnknownCategory
		}
		t.TopCategory = &cat
	}
	return t
}
