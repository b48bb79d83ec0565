package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"aquafund-backend/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Gorm keeps entries in the cache_entries table (domain.CacheEntry).
type Gorm[T any] struct {
	DB     *gorm.DB
	Prefix string
}

func (g *Gorm[T]) Get(ctx context.Context, key string) (Entry[T], bool, error) {
	var e Entry[T]
	var row domain.CacheEntry
	err := g.DB.WithContext(ctx).Where("cache_key = ?", g.Prefix+key).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return e, false, nil
	}
	if err != nil {
		return e, false, err
	}
	if err := json.Unmarshal(row.Value, &e.Data); err != nil {
		return e, false, nil
	}
	e.Timestamp = row.Timestamp
	return e, true, nil
}

func (g *Gorm[T]) Set(ctx context.Context, key string, entry Entry[T]) error {
	b, err := json.Marshal(entry.Data)
	if err != nil {
		return err
	}
	row := domain.CacheEntry{Key: g.Prefix + key, Value: b, Timestamp: entry.Timestamp}
	return g.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "cache_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "written_at", "updated_at"}),
	}).Create(&row).Error
}

func (g *Gorm[T]) Delete(ctx context.Context, key string) error {
	return g.DB.WithContext(ctx).Where("cache_key = ?", g.Prefix+key).Delete(&domain.CacheEntry{}).Error
}

func (g *Gorm[T]) Sweep(ctx context.Context, cutoff time.Time) error {
	return g.DB.WithContext(ctx).
		Where("cache_key LIKE ? AND written_at < ?", g.Prefix+"%", cutoff.UnixMilli()).
		Delete(&domain.CacheEntry{}).Error
}
