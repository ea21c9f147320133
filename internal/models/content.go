package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ContentType string
type MonetizationType string
type ModerationStatus string

const (
	ContentTypeMovie     ContentType = "movie"
	ContentTypeSeries    ContentType = "series"
	ContentTypeMusic     ContentType = "music"
	ContentTypeBook      ContentType = "book"
	ContentTypeAudiobook ContentType = "audiobook"
	ContentTypeTVChannel ContentType = "tv_channel"
	ContentTypeShort     ContentType = "short"
	ContentTypePodcast   ContentType = "podcast"
	ContentTypeArticle   ContentType = "article"

	MonetizationFree    MonetizationType = "free"
	MonetizationPremium MonetizationType = "premium"
	MonetizationPPV     MonetizationType = "ppv"
	MonetizationAds     MonetizationType = "ads"
	MonetizationCredits MonetizationType = "credits"
	MonetizationHybrid  MonetizationType = "hybrid"

	StatusPending  ModerationStatus = "pending"
	StatusApproved ModerationStatus = "approved"
	StatusRejected ModerationStatus = "rejected"
	StatusFlagged  ModerationStatus = "flagged"
)

func (t ContentType) Valid() bool {
	switch t {
	case ContentTypeMovie, ContentTypeSeries, ContentTypeMusic, ContentTypeBook, ContentTypeAudiobook,
		ContentTypeTVChannel, ContentTypeShort, ContentTypePodcast, ContentTypeArticle:
		return true
	}
	return false
}

func (m MonetizationType) Valid() bool {
	switch m {
	case MonetizationFree, MonetizationPremium, MonetizationPPV, MonetizationAds, MonetizationCredits, MonetizationHybrid:
		return true
	}
	return false
}

func (s ModerationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusFlagged:
		return true
	}
	return false
}

// ContentItem is the metadata of one piece of media. Status only changes
// through a ModerationDecision; Warning is an independent caveat.
type ContentItem struct {
	ID               string       `gorm:"type:uuid;primaryKey" json:"id"`
	Type             ContentType  `gorm:"size:16;not null;index" json:"type"`
	Title            string       `gorm:"size:255;not null" json:"title"`
	Description      string       `gorm:"type:text" json:"description"`
	Category         string       `gorm:"size:128" json:"category"`
	OriginalLanguage LanguageCode `gorm:"size:8;not null" json:"original_language"`
	Thumbnail        string       `gorm:"type:text" json:"thumbnail,omitempty"`
	URL              string       `gorm:"type:text" json:"url,omitempty"`
	Duration         string       `gorm:"size:32" json:"duration,omitempty"`

	CreatorID   string `gorm:"type:uuid;not null;index" json:"creator_id"`
	CreatorName string `gorm:"size:255" json:"creator"`

	// Moderation Fields
	Status          ModerationStatus `gorm:"size:16;not null;default:'pending';index:idx_content_status" json:"status"`
	Warning         string           `gorm:"type:text" json:"warning,omitempty"`
	ModerationNotes string           `gorm:"type:text" json:"moderation_notes,omitempty"`
	ReviewedAt      *time.Time       `gorm:"type:timestamptz" json:"reviewed_at,omitempty"`
	Version         int              `gorm:"not null;default:0" json:"version"`

	// Economy
	Monetization MonetizationType `gorm:"size:16;not null;default:'free'" json:"monetization"`
	Price        int64            `gorm:"default:0;check:price >= 0" json:"price,omitempty"`

	Views  int64   `gorm:"default:0" json:"views"`
	Rating float64 `gorm:"type:decimal(3,2);default:0" json:"rating"`

	SubmittedAt time.Time `gorm:"type:timestamptz;not null;index" json:"submitted_at"`
	UpdatedAt   time.Time `gorm:"type:timestamptz;default:now()" json:"updated_at"`
}

func (c *ContentItem) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return
}
