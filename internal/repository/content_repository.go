package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ContentRepository struct {
	db *gorm.DB
}

func NewContentRepository(db *gorm.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

func (r *ContentRepository) Create(ctx context.Context, item models.ContentItem) (models.ContentItem, error) {
	if err := r.db.WithContext(ctx).Create(&item).Error; err != nil {
		return models.ContentItem{}, fmt.Errorf("create content: %w", err)
	}
	return item, nil
}

func (r *ContentRepository) Get(ctx context.Context, id string) (models.ContentItem, error) {
	var item models.ContentItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ContentItem{}, ErrNotFound
		}
		return models.ContentItem{}, fmt.Errorf("get content %s: %w", id, err)
	}
	return item, nil
}

func (r *ContentRepository) List(ctx context.Context, filter ContentFilter) ([]models.ContentItem, error) {
	query := r.db.WithContext(ctx).Model(&models.ContentItem{})
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.CreatorID != "" {
		query = query.Where("creator_id = ?", filter.CreatorID)
	}

	var items []models.ContentItem
	if err := query.Order("submitted_at DESC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list content: %w", err)
	}
	return items, nil
}

// ApplyDecision locks the row, writes the new moderation state and appends
// the audit entry in one transaction. Either both are visible or neither.
func (r *ContentRepository) ApplyDecision(ctx context.Context, d models.ModerationDecision) (models.ContentItem, models.ModerationLog, error) {
	var item models.ContentItem
	var entry models.ModerationLog

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&item, "id = ?", d.ContentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("lock content %s: %w", d.ContentID, err)
		}

		entry = d.Apply(&item)

		// A map so cleared notes and warnings are written too.
		if err := tx.Model(&models.ContentItem{}).Where("id = ?", item.ID).Updates(map[string]interface{}{
			"status":           item.Status,
			"moderation_notes": item.ModerationNotes,
			"warning":          item.Warning,
			"reviewed_at":      item.ReviewedAt,
			"updated_at":       item.UpdatedAt,
			"version":          item.Version,
		}).Error; err != nil {
			return fmt.Errorf("update content %s: %w", item.ID, err)
		}

		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("append moderation log: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.ContentItem{}, models.ModerationLog{}, err
	}
	return item, entry, nil
}
