// Package stats is the aggregation engine behind the Wrapped slideshow and
// the stats tab. Every computation is reproducible: histograms break ties by
// the first-seen key, and note sampling goes through an injectable random
// source.
package stats

import (
	"math"
	"sort"
	"time"

	"sidequest/internal/model"
	"sidequest/internal/paint"
)

// Scope selects which statistics apply to the filtered window. Peak hour and
// peak month only make sense over a year (or full history).
type Scope int

const (
	ScopeYear Scope = iota
	ScopeMonth
)

// Rand supplies the note sampler. *rand.Rand satisfies it; deterministic
// tests inject a fixed sequence.
type Rand interface {
	Intn(n int) int
}

// FallbackNote is reported when no event in the window carries a note.
const FallbackNote = "No field notes this time."

// UnknownCategory stands in for a dangling dominant-category reference.
var UnknownCategory = model.Category{Name: "Unknown quest", Color: paint.Fallback, Icon: model.IconFallback}

// Summary is the statistics bundle consumed by the Wrapped slides.
type Summary struct {
	Total int

	PeakHour    int          // 0-23; -1 for month scope
	PeakWeekday time.Weekday // canonical numbering, Sunday=0
	PeakMonth   time.Month   // 0 for month scope

	TopCategory model.Category // fallback values when the reference dangles
	TopCount    int

	LongestGap   int    // whole days between consecutive logged dates
	BestDay      string // YYYY-MM-DD
	BestDayCount int

	Note  string
	Title string
}

// Compute aggregates the (already filtered) event window. It returns nil for
// an empty window; callers render a "not enough data" state instead.
func Compute(events []model.TrackerEvent, byID func(id string) (model.Category, bool), scope Scope, rng Rand) *Summary {
	if len(events) == 0 {
		return nil
	}

	s := &Summary{Total: len(events), PeakHour: -1}

	if scope == ScopeYear {
		var hours [24]int
		for _, ev := range events {
			hours[ev.Time().Hour()]++
		}
		s.PeakHour = maxIndex(hours[:])

		var months [12]int
		for _, ev := range events {
			months[int(ev.Time().Month())-1]++
		}
		s.PeakMonth = time.Month(maxIndex(months[:]) + 1)
	}

	var weekdays [7]int
	for _, ev := range events {
		weekdays[int(ev.Time().Weekday())]++
	}
	s.PeakWeekday = time.Weekday(maxIndex(weekdays[:]))

	topID, topCount := dominant(events, func(ev model.TrackerEvent) string { return ev.CategoryID })
	s.TopCount = topCount
	s.Title = titleFor(topID)
	if cat, ok := byID(topID); ok {
		s.TopCategory = cat
	} else {
		s.TopCategory = UnknownCategory
	}

	s.BestDay, s.BestDayCount = dominant(events, func(ev model.TrackerEvent) string {
		return ev.Day().Format("2006-01-02")
	})

	s.LongestGap = longestGap(events)
	s.Note = sampleNote(events, rng)

	return s
}

// dominant counts events by key and returns the key with the highest count.
// Ties go to the key first encountered in the scan.
func dominant(events []model.TrackerEvent, key func(model.TrackerEvent) string) (string, int) {
	counts := make(map[string]int, len(events))
	var order []string
	for _, ev := range events {
		k := key(ev)
		if _, ok := counts[k]; !ok {
			order = append(order, k)
		}
		counts[k]++
	}

	best, bestCount := "", 0
	for _, k := range order {
		if counts[k] > bestCount {
			best, bestCount = k, counts[k]
		}
	}
	return best, bestCount
}

// maxIndex returns the index of the maximum in an ascending scan, so ties
// resolve to the lowest index.
func maxIndex(counts []int) int {
	best := 0
	for i, c := range counts {
		if c > counts[best] {
			best = i
		}
	}
	return best
}

// longestGap is the maximum whole-day difference between consecutive events'
// calendar dates. A single event has no comparable pair and gaps at 0.
func longestGap(events []model.TrackerEvent) int {
	days := make([]time.Time, len(events))
	for i, ev := range events {
		days[i] = ev.Day()
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	gap := 0
	for i := 1; i < len(days); i++ {
		// Round absorbs DST-shortened or -lengthened days.
		d := int(math.Round(days[i].Sub(days[i-1]).Hours() / 24))
		if d > gap {
			gap = d
		}
	}
	return gap
}

func sampleNote(events []model.TrackerEvent, rng Rand) string {
	var notes []string
	for _, ev := range events {
		if ev.Note != "" {
			notes = append(notes, ev.Note)
		}
	}
	if len(notes) == 0 {
		return FallbackNote
	}
	return notes[rng.Intn(len(notes))]
}
