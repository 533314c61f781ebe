package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sidequest/internal/store"
)

func openStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(context.Background(), store.NewMemoryAdapter())
	require.NoError(t, err)
	return st
}

func TestDailyReminder(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, time.March, 3, 20, 0, 0, 0, time.Local)

	t.Run("nudges on an empty day", func(t *testing.T) {
		svc := NewReminderService(openStore(t))
		text := svc.DailyReminder(now)
		assert.Contains(t, text, "Nothing logged yet")
	})

	t.Run("lists the day's quests with notes", func(t *testing.T) {
		st := openStore(t)
		_, err := st.AddEvents(ctx, now, []string{"cold"}, "sneezed through standup")
		require.NoError(t, err)

		text := NewReminderService(st).DailyReminder(now)
		assert.Contains(t, text, "Common Cold")
		assert.Contains(t, text, "sneezed through standup")
	})

	t.Run("falls back for deleted categories", func(t *testing.T) {
		st := openStore(t)
		_, err := st.AddEvents(ctx, now, []string{"cold"}, "")
		require.NoError(t, err)
		require.NoError(t, st.DeleteCategory(ctx, "cold"))

		text := NewReminderService(st).DailyReminder(now)
		assert.Contains(t, text, "Unknown quest")
	})
}

func TestBackupService(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)
	_, err := st.AddEvents(ctx, time.Date(2025, time.March, 3, 0, 0, 0, 0, time.Local), []string{"cold"}, "")
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "nested")
	svc := NewBackupService(st, dir)

	now := time.Date(2025, time.March, 3, 4, 0, 0, 0, time.Local)
	require.NoError(t, svc.Run(now))

	jsonData, err := os.ReadFile(filepath.Join(dir, "sidequest-backup-2025-03-03.json"))
	require.NoError(t, err)
	assert.Contains(t, string(jsonData), `"categories"`)

	icsData, err := os.ReadFile(filepath.Join(dir, "sidequest-2025-03-03.ics"))
	require.NoError(t, err)
	assert.Contains(t, string(icsData), "BEGIN:VCALENDAR")
	assert.Contains(t, string(icsData), "SUMMARY:Common Cold")
}

func TestSchedulerService(t *testing.T) {
	t.Run("rejects bad daily specs", func(t *testing.T) {
		s := NewSchedulerService(time.Local)
		_, err := s.ScheduleDaily("not-a-time", func() {})
		assert.Error(t, err)
	})

	t.Run("rejects non-positive intervals", func(t *testing.T) {
		s := NewSchedulerService(time.Local)
		_, err := s.ScheduleInterval(0, func() {})
		assert.Error(t, err)
	})

	t.Run("runs interval jobs", func(t *testing.T) {
		s := NewSchedulerService(time.Local)
		fired := make(chan struct{}, 1)
		_, err := s.ScheduleInterval(time.Second, func() {
			select {
			case fired <- struct{}{}:
			default:
			}
		})
		require.NoError(t, err)

		s.Start()
		defer s.Stop()

		select {
		case <-fired:
		case <-time.After(3 * time.Second):
			t.Fatal("interval job did not fire")
		}
	})
}
