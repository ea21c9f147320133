// Package moderation implements the admin review workflow. Every transition
// writes the new status and its audit entry together, then announces it.
package moderation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/models"
	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/policy"
	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/queue"
	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/repository"
	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/services"
)

var (
	ErrNotesRequired   = fmt.Errorf("%w: notes are required", services.ErrInvalidInput)
	ErrWarningRequired = fmt.Errorf("%w: warning text is required", services.ErrInvalidInput)
)

// WarningNotes is recorded as moderation notes on approve-with-warning.
const WarningNotes = "Warning added"

type Store interface {
	Get(ctx context.Context, id string) (models.ContentItem, error)
	List(ctx context.Context, filter repository.ContentFilter) ([]models.ContentItem, error)
	ApplyDecision(ctx context.Context, d models.ModerationDecision) (models.ContentItem, models.ModerationLog, error)
}

type Publisher interface {
	Publish(ctx context.Context, ev queue.ModerationEvent) error
}

// Result is the committed state of one transition.
type Result struct {
	Content models.ContentItem   `json:"content"`
	Log     models.ModerationLog `json:"log"`
}

type Service struct {
	store  Store
	events Publisher
	log    *zap.Logger
	now    func() time.Time
}

// NewService wires the workflow. events may be nil.
func NewService(store Store, events Publisher, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, events: events, log: log, now: time.Now}
}

// Approve publishes the item. Notes are optional; any warning is cleared.
func (s *Service) Approve(ctx context.Context, actor *models.User, contentID, notes string) (Result, error) {
	notes = strings.TrimSpace(notes)
	return s.decide(ctx, actor, models.ModerationDecision{
		ContentID: contentID,
		Status:    models.StatusApproved,
		Notes:     notes,
		Action:    models.ActionApproved,
		Reason:    notes,
	})
}

func (s *Service) Reject(ctx context.Context, actor *models.User, contentID, notes string) (Result, error) {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return s.fail(actor, ErrNotesRequired)
	}
	return s.decide(ctx, actor, models.ModerationDecision{
		ContentID: contentID,
		Status:    models.StatusRejected,
		Notes:     notes,
		Action:    models.ActionRejected,
		Reason:    notes,
	})
}

func (s *Service) Flag(ctx context.Context, actor *models.User, contentID, notes string) (Result, error) {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return s.fail(actor, ErrNotesRequired)
	}
	return s.decide(ctx, actor, models.ModerationDecision{
		ContentID: contentID,
		Status:    models.StatusFlagged,
		Notes:     notes,
		Action:    models.ActionFlagged,
		Reason:    notes,
	})
}

// ApproveWithWarning publishes the item with a caveat shown to viewers.
func (s *Service) ApproveWithWarning(ctx context.Context, actor *models.User, contentID, warning string) (Result, error) {
	warning = strings.TrimSpace(warning)
	if warning == "" {
		return s.fail(actor, ErrWarningRequired)
	}
	return s.decide(ctx, actor, models.ModerationDecision{
		ContentID: contentID,
		Status:    models.StatusApproved,
		Notes:     WarningNotes,
		Warning:   warning,
		Action:    models.ActionWarningAdded,
		Reason:    warning,
	})
}

// Queue lists pending items, newest submission first.
func (s *Service) Queue(ctx context.Context, actor *models.User, page repository.Page) ([]models.ContentItem, error) {
	if err := authorize(actor); err != nil {
		return nil, err
	}
	items, err := s.store.List(ctx, repository.ContentFilter{Status: models.StatusPending})
	if err != nil {
		return nil, fmt.Errorf("load moderation queue: %w", err)
	}
	page = page.Normalize()
	if page.Offset >= len(items) {
		return []models.ContentItem{}, nil
	}
	items = items[page.Offset:]
	if len(items) > page.Limit {
		items = items[:page.Limit]
	}
	return items, nil
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

// fail reports auth problems ahead of input problems so callers without
// the role learn nothing about the request.
func (s *Service) fail(actor *models.User, err error) (Result, error) {
	if authErr := authorize(actor); authErr != nil {
		return Result{}, authErr
	}
	return Result{}, err
}

func (s *Service) decide(ctx context.Context, actor *models.User, d models.ModerationDecision) (Result, error) {
	if err := authorize(actor); err != nil {
		return Result{}, err
	}
	d.AdminID = actor.ID
	d.AdminName = actor.Name
	d.DecidedAt = s.now().UTC()

	item, entry, err := s.store.ApplyDecision(ctx, d)
	if err != nil {
		return Result{}, fmt.Errorf("%s %s: %w", d.Action, d.ContentID, err)
	}

	s.log.Info("moderation decision applied",
		zap.String("content_id", item.ID),
		zap.String("action", string(entry.Action)),
		zap.String("status", string(item.Status)),
		zap.String("admin_id", actor.ID))

	s.publish(ctx, item, entry)
	return Result{Content: item, Log: entry}, nil
}

func (s *Service) publish(ctx context.Context, item models.ContentItem, entry models.ModerationLog) {
	if s.events == nil {
		return
	}
	ev := queue.ModerationEvent{
		ContentID:    item.ID,
		ContentTitle: item.Title,
		CreatorID:    item.CreatorID,
		Language:     string(item.OriginalLanguage),
		Status:       string(item.Status),
		Action:       string(entry.Action),
		Reason:       entry.Reason,
		Warning:      item.Warning,
		AdminID:      entry.AdminID,
		AdminName:    entry.AdminName,
		Timestamp:    entry.Timestamp,
	}
	// Best effort: the transition has already committed.
	if err := s.events.Publish(context.WithoutCancel(ctx), ev); err != nil {
		s.log.Warn("failed to publish moderation event",
			zap.String("content_id", item.ID), zap.Error(err))
	}
}
