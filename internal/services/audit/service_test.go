package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/models"
	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/repository"
	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/services"
)

type memoryObjects struct {
	puts map[string][]byte
	err  error
}

func (m *memoryObjects) PutObject(_ context.Context, bucket, key, contentType string, body []byte) error {
	if m.err != nil {
		return m.err
	}
	if m.puts == nil {
		m.puts = make(map[string][]byte)
	}
	m.puts[bucket+"/"+key] = body
	return nil
}

var admin = &models.User{ID: "admin-1", Role: models.RoleAdmin}

func seedLogs(t *testing.T, n int) *repository.MemoryStore {
	t.Helper()
	store := repository.NewMemoryStore()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		_, err := store.Logs().Append(context.Background(), models.ModerationLog{
			ContentID: fmt.Sprintf("c%d", i),
			Action:    models.ActionApproved,
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}
	return store
}

func TestListNewestFirstWithTotal(t *testing.T) {
	store := seedLogs(t, 5)
	svc := NewService(store.Logs(), nil, "", nil)

	listing, err := svc.List(context.Background(), admin, repository.Page{Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 5, listing.Total)
	require.Len(t, listing.Logs, 2)
	assert.Equal(t, "c4", listing.Logs[0].ContentID)
	assert.Equal(t, "c3", listing.Logs[1].ContentID)
}

func TestListRequiresAdmin(t *testing.T) {
	svc := NewService(seedLogs(t, 1).Logs(), nil, "", nil)
	_, err := svc.List(context.Background(), nil, repository.Page{})
	assert.ErrorIs(t, err, services.ErrUnauthorized)
	_, err = svc.List(context.Background(), &models.User{Role: models.RoleCreator}, repository.Page{})
	assert.ErrorIs(t, err, services.ErrForbidden)
}

func TestExportWritesEveryEntry(t *testing.T) {
	store := seedLogs(t, repository.MaxPageLimit+3)
	objects := &memoryObjects{}
	svc := NewService(store.Logs(), objects, "rebalive-audit", nil)
	svc.now = func() time.Time { return time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC) }

	key, err := svc.Export(context.Background(), admin)
	require.NoError(t, err)
	assert.Equal(t, "audit/moderation-log-20260203T040506Z.json", key)

	body, ok := objects.puts["rebalive-audit/"+key]
	require.True(t, ok)
	var doc exportDocument
	require.NoError(t, json.Unmarshal(body, &doc))
	assert.Equal(t, repository.MaxPageLimit+3, doc.Total)
	assert.Len(t, doc.Logs, repository.MaxPageLimit+3)
	assert.Equal(t, admin.ID, doc.ExportedBy)
}

// concurrentLogs commits a new decision while the first export page is read.
type concurrentLogs struct {
	*repository.MemoryLogStore
	once sync.Once
}

func (c *concurrentLogs) ListAfter(ctx context.Context, afterSeq int64, limit int) ([]models.ModerationLog, error) {
	batch, err := c.MemoryLogStore.ListAfter(ctx, afterSeq, limit)
	c.once.Do(func() {
		_, _ = c.MemoryLogStore.Append(ctx, models.ModerationLog{ContentID: "late", Action: models.ActionRejected, Timestamp: time.Now()})
	})
	return batch, err
}

func TestExportDuringDecisionsHasNoDuplicates(t *testing.T) {
	n := repository.MaxPageLimit + 3
	store := seedLogs(t, n)
	objects := &memoryObjects{}
	svc := NewService(&concurrentLogs{MemoryLogStore: store.Logs()}, objects, "rebalive-audit", nil)

	key, err := svc.Export(context.Background(), admin)
	require.NoError(t, err)

	var doc exportDocument
	require.NoError(t, json.Unmarshal(objects.puts["rebalive-audit/"+key], &doc))

	seen := make(map[string]bool, len(doc.Logs))
	for _, entry := range doc.Logs {
		assert.False(t, seen[entry.ID], "entry %s exported twice", entry.ID)
		seen[entry.ID] = true
	}
	require.Len(t, doc.Logs, n+1)
	assert.Equal(t, "c0", doc.Logs[0].ContentID)
	assert.Equal(t, fmt.Sprintf("c%d", n-1), doc.Logs[n-1].ContentID)
	assert.Equal(t, "late", doc.Logs[n].ContentID)
}

func TestExportFailures(t *testing.T) {
	store := seedLogs(t, 1)

	_, err := NewService(store.Logs(), nil, "", nil).Export(context.Background(), admin)
	assert.ErrorIs(t, err, ErrExportUnavailable)

	objects := &memoryObjects{err: errors.New("access denied")}
	_, err = NewService(store.Logs(), objects, "b", nil).Export(context.Background(), admin)
	assert.ErrorContains(t, err, "access denied")

	_, err = NewService(store.Logs(), &memoryObjects{}, "b", nil).Export(context.Background(), &models.User{Role: models.RoleUser})
	assert.ErrorIs(t, err, services.ErrForbidden)
}
