package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sidequest/internal/model"
	"sidequest/internal/paint"
)

// fixedRand always picks the same index, modulo the slice length.
type fixedRand struct{ n int }

func (f fixedRand) Intn(n int) int { return f.n % n }

func at(y int, m time.Month, d, hour int) int64 {
	return time.Date(y, m, d, hour, 0, 0, 0, time.Local).UnixMilli()
}

func ev(id, categoryID string, ts int64, note string) model.TrackerEvent {
	return model.TrackerEvent{ID: id, CategoryID: categoryID, Timestamp: ts, Note: note}
}

func lookup(categories ...model.Category) func(string) (model.Category, bool) {
	return func(id string) (model.Category, bool) {
		for _, cat := range categories {
			if cat.ID == id {
				return cat, true
			}
		}
		return model.Category{}, false
	}
}

func TestCompute(t *testing.T) {
	catA := model.Category{ID: "a", Name: "Alpha", Color: "#ffafcc", Icon: "Star"}
	catB := model.Category{ID: "b", Name: "Beta", Color: "#a2d2ff", Icon: "Moon"}

	t.Run("empty window yields no summary", func(t *testing.T) {
		assert.Nil(t, Compute(nil, lookup(catA), ScopeYear, fixedRand{}))
		assert.Nil(t, Compute([]model.TrackerEvent{}, lookup(catA), ScopeMonth, fixedRand{}))
	})

	t.Run("gap and dominant category", func(t *testing.T) {
		events := []model.TrackerEvent{
			ev("1", "a", at(2025, time.March, 1, 0), ""),
			ev("2", "a", at(2025, time.March, 3, 0), ""),
			ev("3", "b", at(2025, time.March, 10, 0), ""),
		}

		s := Compute(events, lookup(catA, catB), ScopeMonth, fixedRand{})
		require.NotNil(t, s)
		assert.Equal(t, 3, s.Total)
		assert.Equal(t, 7, s.LongestGap, "Mar 3 to Mar 10")
		assert.Equal(t, "Alpha", s.TopCategory.Name)
		assert.Equal(t, 2, s.TopCount)
	})

	t.Run("single event has zero gap", func(t *testing.T) {
		s := Compute([]model.TrackerEvent{ev("1", "a", at(2025, time.May, 5, 0), "")}, lookup(catA), ScopeMonth, fixedRand{})
		require.NotNil(t, s)
		assert.Zero(t, s.LongestGap)
	})

	t.Run("peak hour breaks ties toward the lower hour", func(t *testing.T) {
		events := []model.TrackerEvent{
			ev("1", "a", at(2025, time.June, 1, 9), ""),
			ev("2", "a", at(2025, time.June, 2, 5), ""),
			ev("3", "a", at(2025, time.June, 3, 9), ""),
			ev("4", "a", at(2025, time.June, 4, 5), ""),
		}
		s := Compute(events, lookup(catA), ScopeYear, fixedRand{})
		require.NotNil(t, s)
		assert.Equal(t, 5, s.PeakHour)
	})

	t.Run("peak hour and month are year-scope only", func(t *testing.T) {
		events := []model.TrackerEvent{ev("1", "a", at(2025, time.June, 1, 9), "")}
		s := Compute(events, lookup(catA), ScopeMonth, fixedRand{})
		require.NotNil(t, s)
		assert.Equal(t, -1, s.PeakHour)
		assert.Equal(t, time.Month(0), s.PeakMonth)

		s = Compute(events, lookup(catA), ScopeYear, fixedRand{})
		require.NotNil(t, s)
		assert.Equal(t, 9, s.PeakHour)
		assert.Equal(t, time.June, s.PeakMonth)
	})

	t.Run("peak weekday uses canonical Sunday-first numbering", func(t *testing.T) {
		// 2025-03-02 is a Sunday, 2025-03-03 a Monday.
		events := []model.TrackerEvent{
			ev("1", "a", at(2025, time.March, 2, 0), ""),
			ev("2", "a", at(2025, time.March, 9, 0), ""),
			ev("3", "a", at(2025, time.March, 3, 0), ""),
		}
		s := Compute(events, lookup(catA), ScopeMonth, fixedRand{})
		require.NotNil(t, s)
		assert.Equal(t, time.Sunday, s.PeakWeekday)
		assert.Equal(t, 0, int(s.PeakWeekday))
	})

	t.Run("dominant tie goes to the first-seen category", func(t *testing.T) {
		events := []model.TrackerEvent{
			ev("1", "b", at(2025, time.March, 1, 0), ""),
			ev("2", "a", at(2025, time.March, 2, 0), ""),
			ev("3", "b", at(2025, time.March, 3, 0), ""),
			ev("4", "a", at(2025, time.March, 4, 0), ""),
		}
		s := Compute(events, lookup(catA, catB), ScopeMonth, fixedRand{})
		require.NotNil(t, s)
		assert.Equal(t, "Beta", s.TopCategory.Name)
	})

	t.Run("best single day", func(t *testing.T) {
		events := []model.TrackerEvent{
			ev("1", "a", at(2025, time.March, 4, 8), ""),
			ev("2", "a", at(2025, time.March, 4, 21), ""),
			ev("3", "b", at(2025, time.March, 5, 0), ""),
		}
		s := Compute(events, lookup(catA, catB), ScopeMonth, fixedRand{})
		require.NotNil(t, s)
		assert.Equal(t, "2025-03-04", s.BestDay)
		assert.Equal(t, 2, s.BestDayCount)
	})

	t.Run("dangling dominant category falls back", func(t *testing.T) {
		events := []model.TrackerEvent{ev("1", "ghost", at(2025, time.March, 1, 0), "")}
		s := Compute(events, lookup(catA), ScopeMonth, fixedRand{})
		require.NotNil(t, s)
		assert.Equal(t, "Unknown quest", s.TopCategory.Name)
		assert.Equal(t, paint.Fallback, s.TopCategory.Color)
	})

	t.Run("note sampling is driven by the injected source", func(t *testing.T) {
		events := []model.TrackerEvent{
			ev("1", "a", at(2025, time.March, 1, 0), "first"),
			ev("2", "a", at(2025, time.March, 2, 0), ""),
			ev("3", "a", at(2025, time.March, 3, 0), "third"),
		}
		s := Compute(events, lookup(catA), ScopeMonth, fixedRand{n: 1})
		require.NotNil(t, s)
		assert.Equal(t, "third", s.Note)

		s = Compute(events, lookup(catA), ScopeMonth, fixedRand{n: 0})
		require.NotNil(t, s)
		assert.Equal(t, "first", s.Note)
	})

	t.Run("missing notes use the fixed fallback", func(t *testing.T) {
		events := []model.TrackerEvent{ev("1", "a", at(2025, time.March, 1, 0), "")}
		s := Compute(events, lookup(catA), ScopeMonth, fixedRand{})
		require.NotNil(t, s)
		assert.Equal(t, FallbackNote, s.Note)
	})
}

func TestTitleFor(t *testing.T) {
	assert.Equal(t, "The Sniffle Survivor", titleFor("cold"))
	assert.Equal(t, fallbackTitle, titleFor("something-custom"))
}

func TestSlides(t *testing.T) {
	catA := model.Category{ID: "a", Name: "Alpha", Color: "#ffafcc", Icon: "Star"}

	t.Run("nil summary renders the empty slide", func(t *testing.T) {
		slides := Slides(nil)
		require.Len(t, slides, 1)
		assert.Equal(t, EmptySlide, slides[0])
	})

	t.Run("month scope omits the peak hour slide", func(t *testing.T) {
		events := []model.TrackerEvent{ev("1", "a", at(2025, time.March, 1, 0), "")}

		yearSlides := Slides(Compute(events, lookup(catA), ScopeYear, fixedRand{}))
		monthSlides := Slides(Compute(events, lookup(catA), ScopeMonth, fixedRand{}))
		assert.Len(t, yearSlides, 6)
		assert.Len(t, monthSlides, 5)
	})

	t.Run("champion slide carries the category look", func(t *testing.T) {
		events := []model.TrackerEvent{ev("1", "a", at(2025, time.March, 1, 0), "")}
		slides := Slides(Compute(events, lookup(catA), ScopeMonth, fixedRand{}))

		var champion *Slide
		for i := range slides {
			if slides[i].Background == catA.Color {
				champion = &slides[i]
			}
		}
		require.NotNil(t, champion)
		assert.Equal(t, "Star", champion.Icon)
		assert.Contains(t, champion.Text, "Alpha")
	})
}

func TestComputeTotals(t *testing.T) {
	catA := model.Category{ID: "a", Name: "Alpha"}
	now := time.Date(2025, time.March, 15, 12, 0, 0, 0, time.Local)

	t.Run("empty history", func(t *testing.T) {
		totals := ComputeTotals(nil, lookup(catA), now)
		assert.Zero(t, totals.MonthCount)
		assert.Zero(t, totals.YearCount)
		assert.Nil(t, totals.TopCategory)
	})

	t.Run("counts month and year windows", func(t *testing.T) {
		events := []model.TrackerEvent{
			ev("1", "a", at(2025, time.March, 1, 0), ""),
			ev("2", "a", at(2025, time.January, 1, 0), ""),
			ev("3", "a", at(2024, time.March, 1, 0), ""),
		}
		totals := ComputeTotals(events, lookup(catA), now)
		assert.Equal(t, 1, totals.MonthCount)
		assert.Equal(t, 2, totals.YearCount)
		require.NotNil(t, totals.TopCategory)
		assert.Equal(t, "Alpha", totals.TopCategory.Name)
	})
}
