package repository

import (
	"context"
	"fmt"

	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/models"

	"gorm.io/gorm"
)

type ModerationLogRepository struct {
	db *gorm.DB
}

func NewModerationLogRepository(db *gorm.DB) *ModerationLogRepository {
	return &ModerationLogRepository{db: db}
}

// Append stores an entry outside a moderation transaction. Transitions go
// through ContentRepository.ApplyDecision instead.
func (r *ModerationLogRepository) Append(ctx context.Context, entry models.ModerationLog) (models.ModerationLog, error) {
	if err := r.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return models.ModerationLog{}, fmt.Errorf("append moderation log: %w", err)
	}
	return entry, nil
}

// List returns entries newest-first.
func (r *ModerationLogRepository) List(ctx context.Context, page Page) ([]models.ModerationLog, error) {
	page = page.Normalize()
	var entries []models.ModerationLog
	if err := r.db.WithContext(ctx).
		Order("timestamp DESC").
		Order("seq DESC").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list moderation logs: %w", err)
	}
	return entries, nil
}

// ListAfter returns up to limit entries with seq > afterSeq, oldest first.
// Rows inserted while a caller walks the log only ever land after its cursor.
func (r *ModerationLogRepository) ListAfter(ctx context.Context, afterSeq int64, limit int) ([]models.ModerationLog, error) {
	var entries []models.ModerationLog
	if err := r.db.WithContext(ctx).
		Where("seq > ?", afterSeq).
		Order("seq ASC").
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list moderation logs after %d: %w", afterSeq, err)
	}
	return entries, nil
}

func (r *ModerationLogRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.ModerationLog{}).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("count moderation logs: %w", err)
	}
	return total, nil
}
