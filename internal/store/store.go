package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"sidequest/internal/model"
)

// Persisted document keys. Each holds one JSON array.
const (
	keyCategories = "categories"
	keyEvents     = "events"
)

var (
	// ErrEmptySelection is returned when logging with no categories selected.
	ErrEmptySelection = errors.New("no categories selected")
	// ErrEmptyName is returned when a category name is blank after trimming.
	ErrEmptyName = errors.New("category name is empty")
	// ErrNotFound is returned when a category or event id does not exist.
	ErrNotFound = errors.New("not found")
	// ErrBadBackup is returned when an imported document is not a valid backup.
	ErrBadBackup = errors.New("malformed backup document")
)

// Adapter persists the category and event collections as JSON documents.
// A missing document loads as nil; malformed content is the caller's problem.
type Adapter interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
}

// Store owns the authoritative category and event collections. Every mutation
// persists through the adapter before it is applied in memory, so callers
// never observe a state that was not durably written. Safe for concurrent use;
// the bot handlers and the scheduled jobs share one instance.
type Store struct {
	adapter Adapter

	mu         sync.RWMutex
	categories []model.Category
	events     []model.TrackerEvent
}

// Open hydrates a store from the adapter. A missing category document seeds
// the default categories; malformed documents start their collection empty.
func Open(ctx context.Context, adapter Adapter) (*Store, error) {
	s := &Store{adapter: adapter}

	raw, err := adapter.Load(ctx, keyCategories)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	switch {
	case raw == nil:
		s.categories = model.DefaultCategories()
	default:
		if err := json.Unmarshal(raw, &s.categories); err != nil {
			s.categories = nil
		}
	}

	raw, err = adapter.Load(ctx, keyEvents)
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}
	if raw != nil {
		if err := json.Unmarshal(raw, &s.events); err != nil {
			s.events = nil
		}
	}

	return s, nil
}

// Categories returns a copy of the category list in creation order.
func (s *Store) Categories() []model.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyCategories(s.categories)
}

// Events returns a copy of the event list in insertion order.
func (s *Store) Events() []model.TrackerEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyEvents(s.events)
}

// CategoryByID looks up a category. The second result is false for dangling
// references; callers substitute fallback rendering in that case.
func (s *Store) CategoryByID(id string) (model.Category, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, cat := range s.categories {
		if cat.ID == id {
			return cat, true
		}
	}
	return model.Category{}, false
}

// AddCategory creates a category with a fresh id. The icon key is normalized
// onto the closed icon set.
func (s *Store) AddCategory(ctx context.Context, name, color, icon string) (model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Category{}, ErrEmptyName
	}

	cat := model.Category{
		ID:    newID(),
		Name:  name,
		Color: color,
		Icon:  model.NormalizeIcon(icon),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := append(copyCategories(s.categories), cat)
	if err := s.persist(ctx, keyCategories, next); err != nil {
		return model.Category{}, err
	}
	s.categories = next
	return cat, nil
}

// DeleteCategory removes a category by id. Events referencing it are left in
// place; their lookups degrade to fallback rendering from then on.
func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]model.Category, 0, len(s.categories))
	found := false
	for _, cat := range s.categories {
		if cat.ID == id {
			found = true
			continue
		}
		next = append(next, cat)
	}
	if !found {
		return ErrNotFound
	}
	if err := s.persist(ctx, keyCategories, next); err != nil {
		return err
	}
	s.categories = next
	return nil
}

// AddEvents logs one event per category id, all on the given day with the
// same optional note. The whole batch is created atomically.
func (s *Store) AddEvents(ctx context.Context, day time.Time, categoryIDs []string, note string) ([]model.TrackerEvent, error) {
	if len(categoryIDs) == 0 {
		return nil, ErrEmptySelection
	}

	timestamp := model.Midnight(day).UnixMilli()
	note = strings.TrimSpace(note)

	created := make([]model.TrackerEvent, 0, len(categoryIDs))
	for _, catID := range categoryIDs {
		created = append(created, model.TrackerEvent{
			ID:         newID(),
			CategoryID: catID,
			Timestamp:  timestamp,
			Note:       note,
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := append(copyEvents(s.events), created...)
	if err := s.persist(ctx, keyEvents, next); err != nil {
		return nil, err
	}
	s.events = next
	return created, nil
}

// DeleteEvent removes a single event by id.
func (s *Store) DeleteEvent(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]model.TrackerEvent, 0, len(s.events))
	found := false
	for _, ev := range s.events {
		if ev.ID == id {
			found = true
			continue
		}
		next = append(next, ev)
	}
	if !found {
		return ErrNotFound
	}
	if err := s.persist(ctx, keyEvents, next); err != nil {
		return err
	}
	s.events = next
	return nil
}

// EventsOn returns the events logged on the given calendar day, in insertion order.
func (s *Store) EventsOn(day time.Time) []model.TrackerEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.TrackerEvent
	for _, ev := range s.events {
		if model.SameDay(ev.Time(), day) {
			out = append(out, ev)
		}
	}
	return out
}

// EventsInRange returns the events whose calendar day falls within [start, end],
// inclusive on both sides, in insertion order.
func (s *Store) EventsInRange(start, end time.Time) []model.TrackerEvent {
	lo := model.Midnight(start)
	hi := model.Midnight(end).AddDate(0, 0, 1)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.TrackerEvent
	for _, ev := range s.events {
		t := ev.Time()
		if !t.Before(lo) && t.Before(hi) {
			out = append(out, ev)
		}
	}
	return out
}

// EventsInYear returns the events logged during the given calendar year.
func (s *Store) EventsInYear(year int, loc *time.Location) []model.TrackerEvent {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	end := time.Date(year, time.December, 31, 0, 0, 0, 0, loc)
	return s.EventsInRange(start, end)
}

// EventsInMonth returns the events logged during ref's calendar month.
func (s *Store) EventsInMonth(ref time.Time) []model.TrackerEvent {
	start := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	end := start.AddDate(0, 1, -1)
	return s.EventsInRange(start, end)
}

func (s *Store) persist(ctx context.Context, key string, collection any) error {
	data, err := json.Marshal(collection)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.adapter.Save(ctx, key, data)
}

func newID() string {
	return uuid.NewString()
}

func copyCategories(src []model.Category) []model.Category {
	out := make([]model.Category, len(src))
	copy(out, src)
	return out
}

func copyEvents(src []model.TrackerEvent) []model.TrackerEvent {
	out := make([]model.TrackerEvent, len(src))
	copy(out, src)
	return out
}
