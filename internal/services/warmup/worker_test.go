package warmup

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/models"
	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/queue"
	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/repository"
)

type stubLocalizer struct {
	mu    sync.Mutex
	fail  bool
	calls []models.LanguageCode
}

func (s *stubLocalizer) Localize(_ context.Context, item models.ContentItem, lang models.LanguageCode) models.ContentTranslation {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, lang)
	return models.ContentTranslation{Title: item.Title, TranslationError: s.fail, Language: lang}
}

func (s *stubLocalizer) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func seed(t *testing.T, store *repository.MemoryStore, id string, status models.ModerationStatus) {
	t.Helper()
	_, err := store.Contents().Create(context.Background(), models.ContentItem{
		ID: id, Title: "Song", Status: status, OriginalLanguage: models.LanguageKinyarwanda, SubmittedAt: time.Now(),
	})
	require.NoError(t, err)
}

func TestProcessLocalizesApprovedItems(t *testing.T) {
	store := repository.NewMemoryStore()
	seed(t, store, "ok", models.StatusApproved)
	seed(t, store, "pending", models.StatusPending)
	loc := &stubLocalizer{}
	w := NewWorker(queue.NewMemoryWarmupQueue(10), store.Contents(), loc, nil)
	ctx := context.Background()

	w.Process(ctx, queue.WarmupJob{ContentID: "ok", Language: "fr"})
	w.Process(ctx, queue.WarmupJob{ContentID: "pending", Language: "fr"})
	w.Process(ctx, queue.WarmupJob{ContentID: "missing", Language: "fr"})
	w.Process(ctx, queue.WarmupJob{ContentID: "ok", Language: "tlh"})

	assert.Equal(t, []models.LanguageCode{models.LanguageFrench}, loc.calls)
}

func TestProcessRetriesFailuresWithinBudget(t *testing.T) {
	store := repository.NewMemoryStore()
	seed(t, store, "ok", models.StatusApproved)
	q := queue.NewMemoryWarmupQueue(10)
	w := NewWorker(q, store.Contents(), &stubLocalizer{fail: true}, nil)
	ctx := context.Background()

	w.Process(ctx, queue.WarmupJob{ContentID: "ok", Language: "en"})
	job, ok, err := q.Dequeue(ctx, time.Second)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, job.RetryCount)

	w.Process(ctx, queue.WarmupJob{ContentID: "ok", Language: "en", RetryCount: DefaultMaxRetries})
	n, _ := q.Len(ctx)
	assert.Zero(t, n)
}

func TestRunDrainsQueue(t *testing.T) {
	store := repository.NewMemoryStore()
	seed(t, store, "ok", models.StatusApproved)
	q := queue.NewMemoryWarmupQueue(10)
	loc := &stubLocalizer{}
	w := NewWorker(q, store.Contents(), loc, nil)
	w.poll = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.NoError(t, q.Enqueue(ctx, queue.WarmupJob{ContentID: "ok", Language: "en"}))
	require.NoError(t, q.Enqueue(ctx, queue.WarmupJob{ContentID: "ok", Language: "sw"}))
	assert.Eventually(t, func() bool { return loc.count() == 2 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
}
