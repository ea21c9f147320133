// Package repository is the storage boundary: gorm/Postgres implementations
// for production and a MemoryStore for single-process runs and tests.
package repository

import (
	"errors"

	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/models"
)

var (
	ErrNotFound            = errors.New("repository: record not found")
	ErrDuplicateEmail      = errors.New("repository: email already registered")
	ErrInsufficientCredits = errors.New("repository: insufficient credits")
)

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 200
)

// Page selects a window of an ordered listing.
type Page struct {
	Limit  int
	Offset int
}

// Normalize clamps the page to sane bounds.
func (p Page) Normalize() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// ContentFilter narrows content listings. Zero values match everything.
type ContentFilter struct {
	Type      models.ContentType
	Status    models.ModerationStatus
	CreatorID string
}

func (f ContentFilter) matches(item models.ContentItem) bool {
	if f.Type != "" && item.Type != f.Type {
		return false
	}
	if f.Status != "" && item.Status != f.Status {
		return false
	}
	if f.CreatorID != "" && item.CreatorID != f.CreatorID {
		return false
	}
	return true
}
