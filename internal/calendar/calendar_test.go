package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestMonthGrid(t *testing.T) {
	t.Run("expands to full weeks around March 2025", func(t *testing.T) {
		ref := date(2025, time.March, 15)
		days := MonthGrid(ref, date(2025, time.March, 15))

		require.NotEmpty(t, days)
		assert.Zero(t, len(days)%7, "day count must be a multiple of 7")
		assert.Len(t, days, 42)

		// March 1st 2025 is a Saturday, so the grid starts the Monday before.
		assert.Equal(t, date(2025, time.February, 24), days[0].Date)
		assert.Equal(t, time.Monday, days[0].Date.Weekday())
		assert.Equal(t, date(2025, time.April, 6), days[len(days)-1].Date)
		assert.Equal(t, time.Sunday, days[len(days)-1].Date.Weekday())
	})

	t.Run("flags in-month and today", func(t *testing.T) {
		today := date(2025, time.March, 15)
		days := MonthGrid(today, today)

		var first, last, todayCount int
		for _, d := range days {
			if d.InMonth {
				assert.Equal(t, time.March, d.Date.Month())
				if d.Date.Day() == 1 {
					first++
				}
				if d.Date.Day() == 31 {
					last++
				}
			} else {
				assert.NotEqual(t, time.March, d.Date.Month())
			}
			if d.IsToday {
				todayCount++
				assert.Equal(t, today, d.Date)
			}
		}
		assert.Equal(t, 1, first, "1st of the month present exactly once")
		assert.Equal(t, 1, last, "last of the month present exactly once")
		assert.Equal(t, 1, todayCount)
	})

	t.Run("month aligned to full weeks stays 28 days", func(t *testing.T) {
		// February 2021: starts Monday, ends Sunday.
		days := MonthGrid(date(2021, time.February, 10), date(2020, time.January, 1))
		assert.Len(t, days, 28)
		for _, d := range days {
			assert.True(t, d.InMonth)
		}
	})
}

func TestYear(t *testing.T) {
	t.Run("counts leap and common years", func(t *testing.T) {
		assert.Len(t, Year(2024, date(2023, time.June, 1)).Days, 366)
		assert.Len(t, Year(2025, date(2023, time.June, 1)).Days, 365)
	})

	t.Run("offset and rows for 2025", func(t *testing.T) {
		grid := Year(2025, date(2023, time.June, 1))

		// January 1st 2025 is a Wednesday.
		assert.Equal(t, 2, grid.Offset)
		assert.Equal(t, 2, grid.Days[0].Row)
		assert.Equal(t, 0, grid.Days[0].Column)

		last := grid.Days[len(grid.Days)-1]
		assert.Equal(t, date(2025, time.December, 31), last.Date)
		assert.Equal(t, 2, last.Row) // also a Wednesday
		assert.Equal(t, 52, last.Column)
	})

	t.Run("rows map Monday to 0 and Sunday to 6", func(t *testing.T) {
		grid := Year(2024, date(2023, time.June, 1))
		// 2024 opens on a Monday.
		assert.Equal(t, 0, grid.Offset)
		for _, d := range grid.Days {
			assert.Equal(t, (int(d.Date.Weekday())+6)%7, d.Row)
			assert.GreaterOrEqual(t, d.Row, 0)
			assert.Less(t, d.Row, 7)
		}
	})

	t.Run("month labels anchor to the column of the 1st", func(t *testing.T) {
		grid := Year(2025, date(2023, time.June, 1))
		// March 1st 2025 is day index 59; (59+2)/7 = 8.
		assert.Equal(t, 8, grid.MonthColumns[2])
		assert.Equal(t, 0, grid.MonthColumns[0])

		for _, d := range grid.Days {
			if d.Date.Day() == 1 {
				assert.Equal(t, grid.MonthColumns[int(d.Date.Month())-1], d.Column)
			}
		}
	})
}
