package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/models"
)

// MemoryStore keeps content, moderation logs and users in process. One lock
// guards all three so a decision and its log entry land together.
type MemoryStore struct {
	mu      sync.RWMutex
	content map[string]models.ContentItem
	logs    []models.ModerationLog // append order, oldest first
	users   map[string]models.User
	emails  map[string]string // normalized email -> user id
	seq     int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		content: make(map[string]models.ContentItem),
		users:   make(map[string]models.User),
		emails:  make(map[string]string),
	}
}

// Contents exposes the store through the content repository method set.
func (m *MemoryStore) Contents() *MemoryContentStore { return &MemoryContentStore{m} }

// Logs exposes the store through the moderation log method set.
func (m *MemoryStore) Logs() *MemoryLogStore { return &MemoryLogStore{m} }

// Users exposes the store through the user repository method set.
func (m *MemoryStore) Users() *MemoryUserStore { return &MemoryUserStore{m} }

type MemoryContentStore struct{ m *MemoryStore }

func (s *MemoryContentStore) Create(_ context.Context, item models.ContentItem) (models.ContentItem, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.UpdatedAt.IsZero() {
		item.UpdatedAt = item.SubmittedAt
	}
	s.m.content[item.ID] = item
	return item, nil
}

func (s *MemoryContentStore) Get(_ context.Context, id string) (models.ContentItem, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	item, ok := s.m.content[id]
	if !ok {
		return models.ContentItem{}, ErrNotFound
	}
	return item, nil
}

func (s *MemoryContentStore) List(_ context.Context, filter ContentFilter) ([]models.ContentItem, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	items := make([]models.ContentItem, 0, len(s.m.content))
	for _, item := range s.m.content {
		if filter.matches(item) {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].SubmittedAt.Equal(items[j].SubmittedAt) {
			return items[i].ID < items[j].ID
		}
		return items[i].SubmittedAt.After(items[j].SubmittedAt)
	})
	return items, nil
}

func (s *MemoryContentStore) ApplyDecision(_ context.Context, d models.ModerationDecision) (models.ContentItem, models.ModerationLog, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	item, ok := s.m.content[d.ContentID]
	if !ok {
		return models.ContentItem{}, models.ModerationLog{}, ErrNotFound
	}
	entry := d.Apply(&item)
	s.m.content[item.ID] = item
	entry = s.m.appendLocked(entry)
	return item, entry, nil
}

type MemoryLogStore struct{ m *MemoryStore }

func (s *MemoryLogStore) Append(_ context.Context, entry models.ModerationLog) (models.ModerationLog, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	return s.m.appendLocked(entry), nil
}

// List returns entries newest-first.
func (s *MemoryLogStore) List(_ context.Context, page Page) ([]models.ModerationLog, error) {
	page = page.Normalize()
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	out := make([]models.ModerationLog, 0, page.Limit)
	for i := len(s.m.logs) - 1 - page.Offset; i >= 0 && len(out) < page.Limit; i-- {
		out = append(out, s.m.logs[i])
	}
	return out, nil
}

// ListAfter returns up to limit entries with Seq > afterSeq, oldest first.
func (s *MemoryLogStore) ListAfter(_ context.Context, afterSeq int64, limit int) ([]models.ModerationLog, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	start := sort.Search(len(s.m.logs), func(i int) bool { return s.m.logs[i].Seq > afterSeq })
	end := len(s.m.logs)
	if limit > 0 && start+limit < end {
		end = start + limit
	}
	out := make([]models.ModerationLog, end-start)
	copy(out, s.m.logs[start:end])
	return out, nil
}

func (s *MemoryLogStore) Count(_ context.Context) (int64, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	return int64(len(s.m.logs)), nil
}

func (m *MemoryStore) appendLocked(entry models.ModerationLog) models.ModerationLog {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	m.seq++
	entry.Seq = m.seq
	m.logs = append(m.logs, entry)
	return entry
}

type MemoryUserStore struct{ m *MemoryStore }

func (s *MemoryUserStore) Create(_ context.Context, user models.User) (models.User, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	user.Email = normalizeEmail(user.Email)
	if _, taken := s.m.emails[user.Email]; taken {
		return models.User{}, ErrDuplicateEmail
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	s.m.users[user.ID] = user
	s.m.emails[user.Email] = user.ID
	return user, nil
}

func (s *MemoryUserStore) Get(_ context.Context, id string) (models.User, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	user, ok := s.m.users[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return user, nil
}

func (s *MemoryUserStore) GetByEmail(ctx context.Context, email string) (models.User, error) {
	s.m.mu.RLock()
	id, ok := s.m.emails[normalizeEmail(email)]
	s.m.mu.RUnlock()
	if !ok {
		return models.User{}, ErrNotFound
	}
	return s.Get(ctx, id)
}

func (s *MemoryUserStore) List(_ context.Context, page Page) ([]models.User, error) {
	page = page.Normalize()
	s.m.mu.RLock()
	users := make([]models.User, 0, len(s.m.users))
	for _, u := range s.m.users {
		users = append(users, u)
	}
	s.m.mu.RUnlock()

	sort.Slice(users, func(i, j int) bool {
		if users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].Email < users[j].Email
		}
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
	if page.Offset >= len(users) {
		return []models.User{}, nil
	}
	users = users[page.Offset:]
	if len(users) > page.Limit {
		users = users[:page.Limit]
	}
	return users, nil
}

func (s *MemoryUserStore) SetSuspended(_ context.Context, id string, suspended bool) (models.User, error) {
	return s.update(id, func(u *models.User) error {
		u.IsSuspended = suspended
		return nil
	})
}

func (s *MemoryUserStore) UpdateLanguage(_ context.Context, id string, lang models.LanguageCode) (models.User, error) {
	return s.update(id, func(u *models.User) error {
		u.Language = lang
		return nil
	})
}

func (s *MemoryUserStore) DeductCredits(_ context.Context, id string, amount int64) (models.User, error) {
	return s.update(id, func(u *models.User) error {
		if u.Credits < amount {
			return ErrInsufficientCredits
		}
		u.Credits -= amount
		return nil
	})
}

func (s *MemoryUserStore) update(id string, fn func(*models.User) error) (models.User, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	user, ok := s.m.users[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	if err := fn(&user); err != nil {
		return models.User{}, err
	}
	s.m.users[id] = user
	return user, nil
}
