package domain

import (
	"time"

	"gorm.io/datatypes"
)

// CacheEntry is a cached JSON value kept in the database when no Redis is available.
type CacheEntry struct {
	Key       string         `gorm:"column:cache_key;primaryKey;size:256" json:"key"`
	Value     datatypes.JSON `gorm:"column:value" json:"value"`
	Timestamp int64          `gorm:"column:written_at;index;not null" json:"timestamp"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

func (CacheEntry) TableName() string {
	return "cache_entries"
}
