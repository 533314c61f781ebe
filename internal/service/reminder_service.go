package service

import (
	"fmt"
	"html"
	"strings"
	"time"

	"sidequest/internal/model"
	"sidequest/internal/store"
)

// ReminderService builds the daily nudge message from today's logged events.
type ReminderService struct {
	store *store.Store
}

func NewReminderService(st *store.Store) *ReminderService {
	return &ReminderService{store: st}
}

// DailyReminder summarizes what was logged on now's calendar day, or nudges
// the user to log something when the day is still empty.
func (s *ReminderService) DailyReminder(now time.Time) string {
	events := s.store.EventsOn(now)
	if len(events) == 0 {
		return "🗺 <b>Quiet day so far.</b>\nNothing logged yet — any side quests worth remembering? /log"
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("✨ <b>Today's side quests</b> (%d)\n", len(events)))
	for _, ev := range events {
		builder.WriteString(fmt.Sprintf("• %s", html.EscapeString(s.categoryName(ev))))
		if ev.Note != "" {
			builder.WriteString(fmt.Sprintf(" — “%s”", html.EscapeString(ev.Note)))
		}
		builder.WriteByte('\n')
	}
	builder.WriteString("\nAnything else to add? /log")
	return strings.TrimSpace(builder.String())
}

func (s *ReminderService) categoryName(ev model.TrackerEvent) string {
	if cat, ok := s.store.CategoryByID(ev.CategoryID); ok {
		return cat.Name
	}
	return "Unknown quest"
}
