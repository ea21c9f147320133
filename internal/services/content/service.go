// Package content is the catalogue: creator uploads, role-aware listings,
// localized views and credit purchases.
package content

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/models"
	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/policy"
	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/repository"
	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/services"
)

var (
	ErrTitleRequired       = fmt.Errorf("%w: title is required", services.ErrInvalidInput)
	ErrInvalidType         = fmt.Errorf("%w: unknown content type", services.ErrInvalidInput)
	ErrInvalidMonetization = fmt.Errorf("%w: unknown monetization type", services.ErrInvalidInput)
	ErrInvalidPrice        = fmt.Errorf("%w: price cannot be negative", services.ErrInvalidInput)
	ErrInvalidUploadKind   = fmt.Errorf("%w: upload kind must be thumbnail or media", services.ErrInvalidInput)
	ErrNotPurchasable      = errors.New("content is not for sale")
	ErrInsufficientCredits = repository.ErrInsufficientCredits
	ErrUploadUnavailable   = errors.New("upload storage is not configured")
)

const uploadURLExpiry = 15 * time.Minute

type Store interface {
	Create(ctx context.Context, item models.ContentItem) (models.ContentItem, error)
	Get(ctx context.Context, id string) (models.ContentItem, error)
	List(ctx context.Context, filter repository.ContentFilter) ([]models.ContentItem, error)
}

type Localizer interface {
	Localize(ctx context.Context, item models.ContentItem, target models.LanguageCode) models.ContentTranslation
}

// Wallet debits credits without ever going below zero.
type Wallet interface {
	DeductCredits(ctx context.Context, userID string, amount int64) (models.User, error)
}

type Presigner interface {
	PresignUpload(ctx context.Context, bucket, key string, expiresIn time.Duration) (string, error)
}

type Service struct {
	store     Store
	localizer Localizer
	wallet    Wallet
	presigner Presigner
	bucket    string
	log       *zap.Logger
	now       func() time.Time
}

type Options struct {
	Store       Store
	Localizer   Localizer
	Wallet      Wallet
	Presigner   Presigner // optional
	MediaBucket string
	Logger      *zap.Logger
}

func NewService(opts Options) *Service {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		store:     opts.Store,
		localizer: opts.Localizer,
		wallet:    opts.Wallet,
		presigner: opts.Presigner,
		bucket:    opts.MediaBucket,
		log:       log,
		now:       time.Now,
	}
}

// UploadRequest is what a creator submits. Zero values take defaults.
type UploadRequest struct {
	Type         models.ContentType      `json:"type"`
	Title        string                  `json:"title"`
	Description  string                  `json:"description"`
	Category     string                  `json:"category"`
	Language     string                  `json:"language"`
	Thumbnail    string                  `json:"thumbnail"`
	URL          string                  `json:"url"`
	Duration     string                  `json:"duration"`
	Monetization models.MonetizationType `json:"monetization"`
	Price        int64                   `json:"price"`
}

// Upload stores a new item awaiting review.
func (s *Service) Upload(ctx context.Context, creator *models.User, req UploadRequest) (models.ContentItem, error) {
	if creator == nil {
		return models.ContentItem{}, services.ErrUnauthorized
	}
	if !policy.CanUpload(creator) {
		return models.ContentItem{}, services.ErrForbidden
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return models.ContentItem{}, ErrTitleRequired
	}
	if !req.Type.Valid() {
		return models.ContentItem{}, ErrInvalidType
	}
	monetization := req.Monetization
	if monetization == "" {
		monetization = models.MonetizationFree
	}
	if !monetization.Valid() {
		return models.ContentItem{}, ErrInvalidMonetization
	}
	if req.Price < 0 {
		return models.ContentItem{}, ErrInvalidPrice
	}

	lang := creator.Language
	if req.Language != "" {
		parsed, err := models.ParseLanguage(req.Language)
		if err != nil {
			return models.ContentItem{}, fmt.Errorf("%w: %v", services.ErrInvalidInput, err)
		}
		lang = parsed
	}
	if lang == "" {
		lang = models.LanguageEnglish
	}

	now := s.now().UTC()
	item, err := s.store.Create(ctx, models.ContentItem{
		ID:               uuid.NewString(),
		Type:             req.Type,
		Title:            title,
		Description:      strings.TrimSpace(req.Description),
		Category:         strings.TrimSpace(req.Category),
		OriginalLanguage: lang,
		Thumbnail:        req.Thumbnail,
		URL:              req.URL,
		Duration:         req.Duration,
		CreatorID:        creator.ID,
		CreatorName:      creator.Name,
		Status:           models.StatusPending,
		Monetization:     monetization,
		Price:            req.Price,
		SubmittedAt:      now,
		UpdatedAt:        now,
	})
	if err != nil {
		return models.ContentItem{}, err
	}
	s.log.Info("content uploaded",
		zap.String("content_id", item.ID), zap.String("creator_id", creator.ID), zap.String("type", string(item.Type)))
	return item, nil
}

// ListVisible returns the items viewer may see, newest submission first.
// A nil viewer sees what a regular user sees.
func (s *Service) ListVisible(ctx context.Context, viewer *models.User, filter repository.ContentFilter) ([]models.ContentItem, error) {
	if !policy.CanViewAll(viewer) && filter.Status == "" {
		filter.Status = models.StatusApproved
	}
	items, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return policy.VisibleItems(items, viewer), nil
}

// Get hides items the viewer may not see behind ErrNotFound.
func (s *Service) Get(ctx context.Context, viewer *models.User, id string) (models.ContentItem, error) {
	item, err := s.store.Get(ctx, id)
	if err != nil {
		return models.ContentItem{}, err
	}
	if !policy.CanView(viewer, item) {
		return models.ContentItem{}, services.ErrNotFound
	}
	return item, nil
}

type LocalizedItem struct {
	Content     models.ContentItem        `json:"content"`
	Translation models.ContentTranslation `json:"translation"`
}

// Localized returns the item with its text in lang. Translation trouble
// shows up in the translation flags, never as an error.
func (s *Service) Localized(ctx context.Context, viewer *models.User, id string, lang models.LanguageCode) (LocalizedItem, error) {
	item, err := s.Get(ctx, viewer, id)
	if err != nil {
		return LocalizedItem{}, err
	}
	return LocalizedItem{Content: item, Translation: s.localizer.Localize(ctx, item, lang)}, nil
}

// Purchase debits the item's price from the buyer's credits.
func (s *Service) Purchase(ctx context.Context, buyer *models.User, id string) (models.User, error) {
	if buyer == nil {
		return models.User{}, services.ErrUnauthorized
	}
	item, err := s.Get(ctx, buyer, id)
	if err != nil {
		return models.User{}, err
	}
	if item.Price <= 0 || item.Monetization == models.MonetizationFree {
		return models.User{}, ErrNotPurchasable
	}
	updated, err := s.wallet.DeductCredits(ctx, buyer.ID, item.Price)
	if err != nil {
		return models.User{}, err
	}
	s.log.Info("content purchased",
		zap.String("content_id", item.ID), zap.String("user_id", buyer.ID), zap.Int64("price", item.Price))
	return updated, nil
}

type UploadTicket struct {
	URL       string `json:"upload_url"`
	Key       string `json:"key"`
	ExpiresIn int    `json:"expires_in"`
}

// UploadURL presigns a PUT for a creator's thumbnail or media file.
func (s *Service) UploadURL(ctx context.Context, creator *models.User, kind string) (UploadTicket, error) {
	if creator == nil {
		return UploadTicket{}, services.ErrUnauthorized
	}
	if !policy.CanUpload(creator) {
		return UploadTicket{}, services.ErrForbidden
	}
	if kind != "thumbnail" && kind != "media" {
		return UploadTicket{}, ErrInvalidUploadKind
	}
	if s.presigner == nil || s.bucket == "" {
		return UploadTicket{}, ErrUploadUnavailable
	}

	key := fmt.Sprintf("uploads/%s/%s/%s", creator.ID, kind, uuid.NewString())
	url, err := s.presigner.PresignUpload(ctx, s.bucket, key, uploadURLExpiry)
	if err != nil {
		return UploadTicket{}, fmt.Errorf("presign upload: %w", err)
	}
	return UploadTicket{URL: url, Key: key, ExpiresIn: int(uploadURLExpiry.Seconds())}, nil
}
