package model

// Backup is the export/import document: the complete persisted state.
type Backup struct {
	Categories []Category     `json:"categories"`
	Events     []TrackerEvent `json:"events"`
}
