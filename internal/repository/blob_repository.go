package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Blob is one persisted JSON document, keyed by collection name.
type Blob struct {
	Key   string `gorm:"primaryKey"`
	Value []byte
}

// BlobRepository stores the category and event collections as JSON documents.
type BlobRepository struct {
	db *gorm.DB
}

func NewBlobRepository(db *gorm.DB) *BlobRepository {
	return &BlobRepository{db: db}
}

// Load returns the document stored under key, or nil when absent.
func (r *BlobRepository) Load(ctx context.Context, key string) ([]byte, error) {
	var blob Blob
	err := r.db.WithContext(ctx).First(&blob, "key = ?", key).Error
	switch {
	case err == nil:
		return blob.Value, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil
	default:
		return nil, fmt.Errorf("load blob %q: %w", key, err)
	}
}

// Save upserts the document stored under key.
func (r *BlobRepository) Save(ctx context.Context, key string, value []byte) error {
	if err := r.db.WithContext(ctx).Save(&Blob{Key: key, Value: value}).Error; err != nil {
		return fmt.Errorf("save blob %q: %w", key, err)
	}
	return nil
}
