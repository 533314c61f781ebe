package service

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"sidequest/internal/export"
	"sidequest/internal/store"
)

// BackupService writes periodic on-disk snapshots: the JSON backup document
// plus an iCalendar rendering of all logged events.
type BackupService struct {
	store *store.Store
	dir   string
}

func NewBackupService(st *store.Store, dir string) *BackupService {
	return &BackupService{store: st, dir: dir}
}

// Run writes both snapshot files, stamped with now's date. Files for the same
// day are overwritten.
func (s *BackupService) Run(now time.Time) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create backup dir %q: %w", s.dir, err)
	}

	stamp := now.Format("2006-01-02")

	data, err := s.store.ExportJSON()
	if err != nil {
		return err
	}
	jsonPath := filepath.Join(s.dir, fmt.Sprintf("sidequest-backup-%s.json", stamp))
	if err := os.WriteFile(jsonPath, data, 0o644); err != nil {
		return fmt.Errorf("write backup %q: %w", jsonPath, err)
	}

	ics := export.Calendar(s.store.Events(), s.store.CategoryByID)
	icsPath := filepath.Join(s.dir, fmt.Sprintf("sidequest-%s.ics", stamp))
	if err := os.WriteFile(icsPath, []byte(ics), 0o644); err != nil {
		return fmt.Errorf("write calendar %q: %w", icsPath, err)
	}

	return nil
}
