package notifications

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/models"
	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/queue"
)

// DefaultDedupeTTL allows at most one push per creator in the window.
const DefaultDedupeTTL = 10 * time.Second

type Notifier interface {
	Send(ctx context.Context, n Notification) error
}

type SubscriberOptions struct {
	Bus       queue.Bus
	Notifier  Notifier          // optional
	Warmup    queue.WarmupQueue // optional
	Languages []models.LanguageCode
	DedupeTTL time.Duration
	Logger    *zap.Logger
}

// Subscriber reacts to committed moderation decisions.
type Subscriber struct {
	bus       queue.Bus
	notifier  Notifier
	warmup    queue.WarmupQueue
	languages []models.LanguageCode
	dedupeTTL time.Duration
	log       *zap.Logger
	now       func() time.Time

	mu       sync.Mutex
	lastPush map[string]time.Time // pushKey -> last push time
}

func NewSubscriber(opts SubscriberOptions) *Subscriber {
	if opts.DedupeTTL <= 0 {
		opts.DedupeTTL = DefaultDedupeTTL
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Subscriber{
		bus:       opts.Bus,
		notifier:  opts.Notifier,
		warmup:    opts.Warmup,
		languages: opts.Languages,
		dedupeTTL: opts.DedupeTTL,
		log:       opts.Logger,
		now:       time.Now,
		lastPush:  make(map[string]time.Time),
	}
}

// Run consumes events until ctx is done or the bus closes the subscription.
func (s *Subscriber) Run(ctx context.Context) error {
	events, cancel, err := s.bus.Subscribe(ctx)
	if err != nil {
		return err
	}
	defer cancel()
	s.log.Info("moderation subscriber started", zap.String("channel", queue.ModerationEventsChannel))

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.pruneDedupe()
		case ev, ok := <-events:
			if !ok {
				return errors.New("moderation event subscription closed")
			}
			s.handle(ctx, ev)
		}
	}
}

func (s *Subscriber) handle(ctx context.Context, ev queue.ModerationEvent) {
	s.log.Info("moderation event received",
		zap.String("content_id", ev.ContentID), zap.String("action", ev.Action))

	if ev.Status == string(models.StatusApproved) {
		s.enqueueWarmup(ctx, ev)
	}
	s.notifyCreator(ctx, ev)
}

func (s *Subscriber) enqueueWarmup(ctx context.Context, ev queue.ModerationEvent) {
	if s.warmup == nil {
		return
	}
	for _, lang := range s.languages {
		if string(lang) == ev.Language {
			continue
		}
		job := queue.WarmupJob{ContentID: ev.ContentID, Language: string(lang), CreatedAt: s.now()}
		if err := s.warmup.Enqueue(ctx, job); err != nil {
			s.log.Warn("failed to enqueue translation warm-up",
				zap.String("content_id", ev.ContentID), zap.String("lang", string(lang)), zap.Error(err))
		}
	}
}

// pushKey identifies one decision. Redelivering the same decision inside the
// dedupe window is suppressed; a different item or outcome always goes out.
func pushKey(ev queue.ModerationEvent) string {
	return ev.CreatorID + "|" + ev.ContentID + "|" + ev.Action
}

// allowPush records a push for key unless one went out within the dedupe
// window.
func (s *Subscriber) allowPush(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if last, ok := s.lastPush[key]; ok && now.Sub(last) < s.dedupeTTL {
		return false
	}
	s.lastPush[key] = now
	return true
}

func (s *Subscriber) pruneDedupe() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for key, last := range s.lastPush {
		if now.Sub(last) > s.dedupeTTL {
			delete(s.lastPush, key)
		}
	}
}

func (s *Subscriber) notifyCreator(ctx context.Context, ev queue.ModerationEvent) {
	if s.notifier == nil || ev.CreatorID == "" {
		return
	}
	if !s.allowPush(pushKey(ev)) {
		s.log.Debug("skipping duplicate push",
			zap.String("creator_id", ev.CreatorID), zap.String("content_id", ev.ContentID), zap.String("action", ev.Action))
		return
	}

	n := buildNotification(ev)
	if err := s.notifier.Send(ctx, n); err != nil {
		if errors.Is(err, ErrNotConfigured) {
			return
		}
		s.log.Warn("failed to notify creator", zap.String("creator_id", ev.CreatorID), zap.Error(err))
		return
	}
	s.log.Info("creator notified", zap.String("creator_id", ev.CreatorID), zap.String("type", string(n.Type)))
}

// buildNotification writes the message in Kinyarwanda and English.
func buildNotification(ev queue.ModerationEvent) Notification {
	n := Notification{
		UserID: ev.CreatorID,
		Data: map[string]interface{}{
			"content_id": ev.ContentID,
			"status":     ev.Status,
			"action":     ev.Action,
		},
	}
	switch models.ModerationAction(ev.Action) {
	case models.ActionApproved:
		n.Type = NotificationTypeContentApproved
		n.Title = "Byemejwe! / Approved"
		n.Body = fmt.Sprintf("✅ \"%s\" ubu iri ku rubuga!\n\n\"%s\" is now live!", ev.ContentTitle, ev.ContentTitle)
	case models.ActionWarningAdded:
		n.Type = NotificationTypeContentWarning
		n.Title = "Byemejwe n'umuburo / Approved with a warning"
		n.Body = fmt.Sprintf("⚠️ \"%s\" iri ku rubuga n'umuburo: %s\n\n\"%s\" is live with a viewer warning: %s",
			ev.ContentTitle, ev.Warning, ev.ContentTitle, ev.Warning)
		n.Data["warning"] = ev.Warning
	case models.ActionRejected:
		n.Type = NotificationTypeContentRejected
		n.Title = "Ntibyemejwe / Not approved"
		n.Body = fmt.Sprintf("❌ \"%s\" ntiyemejwe: %s\n\n\"%s\" was not approved: %s",
			ev.ContentTitle, ev.Reason, ev.ContentTitle, ev.Reason)
		n.Data["reason"] = ev.Reason
	default:
		n.Type = NotificationTypeContentFlagged
		n.Title = "Irasubirwamo / Under review"
		n.Body = fmt.Sprintf("🚩 \"%s\" irongera gusuzumwa: %s\n\n\"%s\" was flagged for review: %s",
			ev.ContentTitle, ev.Reason, ev.ContentTitle, ev.Reason)
		n.Data["reason"] = ev.Reason
	}
	return n
}
