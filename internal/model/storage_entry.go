package model

import "time"

// StorageEntry is one durable key/value pair, used to persist browser sessions.
type StorageEntry struct {
	Key       string    `gorm:"column:storage_key;primaryKey;size:191"`
	Value     []byte    `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}
