package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/models"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user models.User) (models.User, error) {
	user.Email = normalizeEmail(user.Email)
	if err := r.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (r *UserRepository) Get(ctx context.Context, id string) (models.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	return r.first(ctx, "email = ?", normalizeEmail(email))
}

func (r *UserRepository) List(ctx context.Context, page Page) ([]models.User, error) {
	page = page.Normalize()
	var users []models.User
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (r *UserRepository) SetSuspended(ctx context.Context, id string, suspended bool) (models.User, error) {
	return r.updateColumn(ctx, id, "is_suspended", suspended)
}

func (r *UserRepository) UpdateLanguage(ctx context.Context, id string, lang models.LanguageCode) (models.User, error) {
	return r.updateColumn(ctx, id, "language", lang)
}

// DeductCredits subtracts amount only if the balance covers it.
func (r *UserRepository) DeductCredits(ctx context.Context, id string, amount int64) (models.User, error) {
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND credits >= ?", id, amount).
		UpdateColumn("credits", gorm.Expr("credits - ?", amount))
	if result.Error != nil {
		return models.User{}, fmt.Errorf("deduct credits for %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		if _, err := r.Get(ctx, id); err != nil {
			return models.User{}, err
		}
		return models.User{}, ErrInsufficientCredits
	}
	return r.Get(ctx, id)
}

func (r *UserRepository) updateColumn(ctx context.Context, id, column string, value interface{}) (models.User, error) {
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update(column, value)
	if result.Error != nil {
		return models.User{}, fmt.Errorf("update user %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return models.User{}, ErrNotFound
	}
	return r.Get(ctx, id)
}

func (r *UserRepository) first(ctx context.Context, query string, arg interface{}) (models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where(query, arg).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
