// Package warmup pre-translates newly approved items so the first viewer in
// each language is served from cache.
package warmup

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/models"
	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/queue"
	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/repository"
)

const (
	DefaultPollInterval = 5 * time.Second
	DefaultMaxRetries   = 2
)

type ContentStore interface {
	Get(ctx context.Context, id string) (models.ContentItem, error)
}

type Localizer interface {
	Localize(ctx context.Context, item models.ContentItem, target models.LanguageCode) models.ContentTranslation
}

type Worker struct {
	queue      queue.WarmupQueue
	store      ContentStore
	localizer  Localizer
	log        *zap.Logger
	poll       time.Duration
	maxRetries int
}

func NewWorker(q queue.WarmupQueue, store ContentStore, localizer Localizer, log *zap.Logger) *Worker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Worker{
		queue:      q,
		store:      store,
		localizer:  localizer,
		log:        log,
		poll:       DefaultPollInterval,
		maxRetries: DefaultMaxRetries,
	}
}

// Run processes jobs until ctx is done.
func (w *Worker) Run(ctx context.Context) error {
	w.log.Info("translation warm-up worker started", zap.String("queue", queue.TranslationWarmupQueue))
	for {
		if ctx.Err() != nil {
			return nil
		}
		job, ok, err := w.queue.Dequeue(ctx, w.poll)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			w.log.Warn("failed to dequeue warm-up job", zap.Error(err))
			select {
			case <-time.After(time.Second):
			case <-ctx.Done():
				return nil
			}
			continue
		}
		if ok {
			w.Process(ctx, job)
		}
	}
}

// Process handles one job. Failed translations are re-queued until the
// retry budget is spent.
func (w *Worker) Process(ctx context.Context, job queue.WarmupJob) {
	lang, err := models.ParseLanguage(job.Language)
	if err != nil {
		w.log.Warn("dropping warm-up job with bad language", zap.String("lang", job.Language), zap.Error(err))
		return
	}
	item, err := w.store.Get(ctx, job.ContentID)
	if errors.Is(err, repository.ErrNotFound) {
		return
	}
	if err != nil {
		w.log.Warn("failed to load content for warm-up", zap.String("content_id", job.ContentID), zap.Error(err))
		return
	}
	// Decisions can be reversed while the job waits.
	if item.Status != models.StatusApproved {
		return
	}

	t := w.localizer.Localize(ctx, item, lang)
	if !t.TranslationError {
		w.log.Debug("translation warmed", zap.String("content_id", item.ID), zap.String("lang", string(lang)))
		return
	}
	if job.RetryCount >= w.maxRetries {
		w.log.Warn("giving up on translation warm-up",
			zap.String("content_id", item.ID), zap.String("lang", string(lang)), zap.Int("retries", job.RetryCount))
		return
	}
	job.RetryCount++
	if err := w.queue.Enqueue(ctx, job); err != nil {
		w.log.Warn("failed to re-queue warm-up job", zap.String("content_id", item.ID), zap.Error(err))
	}
}
