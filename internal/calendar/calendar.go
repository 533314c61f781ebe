// Package calendar generates day sequences for the month view and the
// full-year heatmap. Weeks start on Monday. All functions are pure: they
// depend only on their inputs and never consult the event store.
package calendar

import (
	"time"

	"sidequest/internal/model"
)

// Day is one cell of a month grid.
type Day struct {
	Date    time.Time
	InMonth bool // belongs to the displayed month
	IsToday bool
}

// MonthGrid returns the days displayed for ref's month: the Monday on or
// before the 1st through the Sunday on or after the last day. The result
// length is always a multiple of 7.
func MonthGrid(ref, today time.Time) []Day {
	monthStart := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	monthEnd := monthStart.AddDate(0, 1, -1)

	start := monthStart.AddDate(0, 0, -mondayIndex(monthStart))
	end := monthEnd.AddDate(0, 0, 6-mondayIndex(monthEnd))

	var days []Day
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, Day{
			Date:    d,
			InMonth: d.Month() == ref.Month() && d.Year() == ref.Year(),
			IsToday: model.SameDay(d, today),
		})
	}
	return days
}

// YearDay places one day of a year heatmap: column-per-week, 7 rows.
type YearDay struct {
	Date    time.Time
	Row     int // Monday=0 .. Sunday=6
	Column  int // week index, growing left to right
	IsToday bool
}

// YearGrid is the full-year heatmap layout.
type YearGrid struct {
	Year   int
	Offset int // weekday of Jan 1, Monday=0 .. Sunday=6
	Days   []YearDay
	// MonthColumns anchors each month's label to the column holding its 1st.
	MonthColumns [12]int
}

// Year lays out every day from Jan 1 through Dec 31 of the given year.
func Year(year int, today time.Time) YearGrid {
	jan1 := time.Date(year, time.January, 1, 0, 0, 0, 0, today.Location())
	grid := YearGrid{Year: year, Offset: mondayIndex(jan1)}

	index := 0
	for d := jan1; d.Year() == year; d = d.AddDate(0, 0, 1) {
		column := (index + grid.Offset) / 7
		if d.Day() == 1 {
			grid.MonthColumns[int(d.Month())-1] = column
		}
		grid.Days = append(grid.Days, YearDay{
			Date:    d,
			Row:     mondayIndex(d),
			Column:  column,
			IsToday: model.SameDay(d, today),
		})
		index++
	}
	return grid
}

// mondayIndex maps a date's weekday to the Monday-first index (Sunday is 6).
func mondayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}
