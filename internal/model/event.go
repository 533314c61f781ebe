package model

import "time"

// TrackerEvent is a single logged occurrence of a category on a specific day.
// Timestamp has day granularity; the time of day only feeds the peak-hour stat.
type TrackerEvent struct {
	ID         string `json:"id"`
	CategoryID string `json:"categoryId"`
	Timestamp  int64  `json:"timestamp"` // epoch milliseconds
	Note       string `json:"note,omitempty"`
}

// Time returns the event timestamp in local time.
func (e TrackerEvent) Time() time.Time {
	return time.UnixMilli(e.Timestamp)
}

// Day returns the event's calendar day (local midnight). It determines which
// grid cell the event contributes to.
func (e TrackerEvent) Day() time.Time {
	return Midnight(e.Time())
}

// Midnight truncates t to its calendar day.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
