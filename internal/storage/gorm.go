package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"equipment-dashboard/internal/model"
)

// gormStorage implements Storage on the storage_entries table.
type gormStorage struct {
	db *gorm.DB
}

// NewGormStorage creates a GORM-backed storage. The caller migrates
// model.StorageEntry (see db.Init).
func NewGormStorage(db *gorm.DB) Storage {
	return &gormStorage{db: db}
}

func (s *gormStorage) Get(ctx context.Context, key string) ([]byte, error) {
	var entry model.StorageEntry
	err := s.db.WithContext(ctx).Where("storage_key = ?", key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read storage key %q: %w", key, err)
	}
	return entry.Value, nil
}

func (s *gormStorage) Set(ctx context.Context, key string, value []byte) error {
	entry := model.StorageEntry{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "storage_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to write storage key %q: %w", key, err)
	}
	return nil
}

func (s *gormStorage) Delete(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Where("storage_key = ?", key).Delete(&model.StorageEntry{}).Error; err != nil {
		return fmt.Errorf("failed to delete storage key %q: %w", key, err)
	}
	return nil
}
