package bot

import (
	"fmt"
	"html"
	"math/rand"
	"strings"
	"time"

	"sidequest/internal/calendar"
	"sidequest/internal/export"
	"sidequest/internal/paint"
	"sidequest/internal/stats"
	"sidequest/internal/store"
)

// Renderer turns the core's outputs into Telegram-friendly text. It is the
// one consumer of the rendering boundary inside this binary.
type Renderer struct {
	store *store.Store
	rng   stats.Rand
}

func NewRenderer(st *store.Store) *Renderer {
	return &Renderer{
		store: st,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Month renders the month grid as a monospace block. Each in-month day shows
// a marker for how many distinct categories were logged:
// '.' none, '*' one, '/' two, '@' three or more.
func (r *Renderer) Month(now time.Time) string {
	days := calendar.MonthGrid(now, now)

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("🗓 <b>%s</b>\n<pre>", now.Format("January 2006")))
	builder.WriteString("Mo  Tu  We  Th  Fr  Sa  Su\n")

	for i, day := range days {
		if !day.InMonth {
			builder.WriteString("  .")
		} else {
			p := paint.Compose(r.store.EventsOn(day.Date), r.store.CategoryByID)
			builder.WriteString(fmt.Sprintf("%2d%c", day.Date.Day(), marker(p)))
		}
		if (i+1)%7 == 0 {
			builder.WriteByte('\n')
		} else {
			builder.WriteByte(' ')
		}
	}

	builder.WriteString("</pre>\n* one category  / two  @ three+")
	return builder.String()
}

func marker(p paint.Paint) byte {
	switch p.Kind {
	case paint.Solid:
		return '*'
	case paint.Split:
		return '/'
	case paint.Wheel:
		return '@'
	default:
		return ' '
	}
}

// Stats renders the totals cards.
func (r *Renderer) Stats(now time.Time) string {
	totals := stats.ComputeTotals(r.store.Events(), r.store.CategoryByID, now)

	var builder strings.Builder
	builder.WriteString("✨ <b>Your Stats</b>\n")
	builder.WriteString(fmt.Sprintf("• This month: <b>%d</b> quests\n", totals.MonthCount))
	builder.WriteString(fmt.Sprintf("• This year: <b>%d</b> total\n", totals.YearCount))
	if totals.TopCategory != nil {
		builder.WriteString(fmt.Sprintf("• ⭐ Most logged: <b>%s</b>", html.EscapeString(totals.TopCategory.Name)))
	} else {
		builder.WriteString("Nothing logged yet — /log your first quest!")
	}
	return builder.String()
}

// Wrapped renders the slide sequence for the current year, or for now's month
// when monthly is set. One string per slide.
func (r *Renderer) Wrapped(now time.Time, monthly bool) []string {
	scope := stats.ScopeYear
	window := r.store.EventsInYear(now.Year(), now.Location())
	title := fmt.Sprintf("Wrapped %d", now.Year())
	if monthly {
		scope = stats.ScopeMonth
		window = r.store.EventsInMonth(now)
		title = "Wrapped " + now.Format("January 2006")
	}

	summary := stats.Compute(window, r.store.CategoryByID, scope, r.rng)
	slides := stats.Slides(summary)

	out := make([]string, 0, len(slides)+1)
	out = append(out, fmt.Sprintf("🎁 <b>%s</b>", title))
	for i, slide := range slides {
		out = append(out, fmt.Sprintf("<b>%s</b>\n%s\n\n<i>%d/%d</i>",
			html.EscapeString(slide.Text), html.EscapeString(slide.Sub), i+1, len(slides)))
	}
	return out
}

// ICS renders the full event history as an iCalendar document.
func (r *Renderer) ICS() string {
	return export.Calendar(r.store.Events(), r.store.CategoryByID)
}
