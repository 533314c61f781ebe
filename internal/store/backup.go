package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"sidequest/internal/model"
)

// Export returns a snapshot of the current state as a backup document.
func (s *Store) Export() model.Backup {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.Backup{
		Categories: copyCategories(s.categories),
		Events:     copyEvents(s.events),
	}
}

// ExportJSON serializes the backup document for download.
func (s *Store) ExportJSON() ([]byte, error) {
	data, err := json.MarshalIndent(s.Export(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode backup: %w", err)
	}
	return data, nil
}

// Import replaces the current state with the given backup document. Both
// fields must be present as arrays; anything else is rejected without
// touching the existing state. Dangling category references in the imported
// events are tolerated. Both documents are written before either collection
// is swapped in memory; a failed event write rolls the category document back.
func (s *Store) Import(ctx context.Context, data []byte) error {
	var doc struct {
		Categories *[]model.Category     `json:"categories"`
		Events     *[]model.TrackerEvent `json:"events"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrBadBackup, err)
	}
	if doc.Categories == nil || doc.Events == nil {
		return fmt.Errorf("%w: categories and events must both be arrays", ErrBadBackup)
	}

	categories := *doc.Categories
	events := *doc.Events
	if categories == nil {
		categories = []model.Category{}
	}
	if events == nil {
		events = []model.TrackerEvent{}
	}

	catData, err := json.Marshal(categories)
	if err != nil {
		return fmt.Errorf("encode %s: %w", keyCategories, err)
	}
	evData, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("encode %s: %w", keyEvents, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prevCats, err := json.Marshal(s.categories)
	if err != nil {
		return fmt.Errorf("encode %s: %w", keyCategories, err)
	}

	if err := s.adapter.Save(ctx, keyCategories, catData); err != nil {
		return err
	}
	if err := s.adapter.Save(ctx, keyEvents, evData); err != nil {
		// Put the old category document back so a later Open does not
		// hydrate imported categories next to the old events.
		if rerr := s.adapter.Save(ctx, keyCategories, prevCats); rerr != nil {
			return errors.Join(err, rerr)
		}
		return err
	}

	s.categories = categories
	s.events = events
	return nil
}
