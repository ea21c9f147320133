// Package audit serves the moderation log to admins and exports it to
// object storage.
package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/models"
	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/policy"
	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/repository"
	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/services"
)

var ErrExportUnavailable = errors.New("audit export storage is not configured")

type LogStore interface {
	List(ctx context.Context, page repository.Page) ([]models.ModerationLog, error)
	Count(ctx context.Context) (int64, error)
	ListAfter(ctx context.Context, afterSeq int64, limit int) ([]models.ModerationLog, error)
}

// ObjectPutter is the part of the S3 store the exporter needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, bucket, key, contentType string, body []byte) error
}

// Listing is one page of the log, newest first.
type Listing struct {
	Logs   []models.ModerationLog `json:"logs"`
	Total  int64                  `json:"total"`
	Limit  int                    `json:"limit"`
	Offset int                    `json:"offset"`
}

type Service struct {
	logs    LogStore
	objects ObjectPutter
	bucket  string
	log     *zap.Logger
	now     func() time.Time
}

// NewService builds the audit service. objects may be nil, which disables Export.
func NewService(logs LogStore, objects ObjectPutter, bucket string, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{logs: logs, objects: objects, bucket: bucket, log: log, now: time.Now}
}

func authorize(actor *models.User) error {
	if actor == nil {
		return services.ErrUnauthorized
	}
	if !policy.CanModerate(actor) {
		return services.ErrForbidden
	}
	return nil
}

func (s *Service) List(ctx context.Context, actor *models.User, page repository.Page) (Listing, error) {
	if err := authorize(actor); err != nil {
		return Listing{}, err
	}
	page = page.Normalize()
	logs, err := s.logs.List(ctx, page)
	if err != nil {
		return Listing{}, err
	}
	total, err := s.logs.Count(ctx)
	if err != nil {
		return Listing{}, err
	}
	return Listing{Logs: logs, Total: total, Limit: page.Limit, Offset: page.Offset}, nil
}

type exportDocument struct {
	ExportedAt time.Time              `json:"exported_at"`
	ExportedBy string                 `json:"exported_by"`
	Total      int                    `json:"total"`
	Logs       []models.ModerationLog `json:"logs"`
}

// Export writes the whole log, oldest first, as one JSON document and returns
// its key. It walks the log by sequence number so decisions committed during
// the export never shift a page.
func (s *Service) Export(ctx context.Context, actor *models.User) (string, error) {
	if err := authorize(actor); err != nil {
		return "", err
	}
	if s.objects == nil || s.bucket == "" {
		return "", ErrExportUnavailable
	}

	var (
		all   []models.ModerationLog
		after int64
	)
	for {
		batch, err := s.logs.ListAfter(ctx, after, repository.MaxPageLimit)
		if err != nil {
			return "", err
		}
		all = append(all, batch...)
		if len(batch) < repository.MaxPageLimit {
			break
		}
		after = batch[len(batch)-1].Seq
	}

	now := s.now().UTC()
	body, err := json.MarshalIndent(exportDocument{
		ExportedAt: now,
		ExportedBy: actor.ID,
		Total:      len(all),
		Logs:       all,
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode audit export: %w", err)
	}

	key := fmt.Sprintf("audit/moderation-log-%s.json", now.Format("20060102T150405Z"))
	if err := s.objects.PutObject(ctx, s.bucket, key, "application/json", body); err != nil {
		return "", fmt.Errorf("upload audit export: %w", err)
	}
	s.log.Info("moderation log exported",
		zap.String("bucket", s.bucket), zap.String("key", key), zap.Int("entries", len(all)))
	return key, nil
}
