package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ModerationAction string

const (
	ActionApproved     ModerationAction = "approved"
	ActionRejected     ModerationAction = "rejected"
	ActionFlagged      ModerationAction = "flagged"
	ActionWarningAdded ModerationAction = "warning_added"
)

// ModerationLog is one immutable audit entry. Seq breaks timestamp ties so
// newest-first order is stable.
type ModerationLog struct {
	ID           string           `gorm:"type:uuid;primaryKey" json:"id"`
	Seq          int64            `gorm:"autoIncrement;uniqueIndex" json:"-"`
	ContentID    string           `gorm:"type:uuid;not null;index" json:"content_id"`
	ContentTitle string           `gorm:"size:255" json:"content_title"`
	AdminID      string           `gorm:"type:uuid;not null;index" json:"admin_id"`
	AdminName    string           `gorm:"size:255" json:"admin_name"`
	Action       ModerationAction `gorm:"size:16;not null" json:"action"`
	Reason       string           `gorm:"type:text" json:"reason,omitempty"`
	Timestamp    time.Time        `gorm:"type:timestamptz;not null;index" json:"timestamp"`
}

func (l *ModerationLog) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return
}

// ModerationDecision is what storage applies in one transaction: the status
// write on the item and the log entry describing it.
type ModerationDecision struct {
	ContentID string
	Status    ModerationStatus
	Notes     string
	Warning   string
	Action    ModerationAction
	Reason    string
	AdminID   string
	AdminName string
	DecidedAt time.Time
}

// Apply mutates item as the decision describes and returns the matching
// log entry. Callers persist both together.
func (d ModerationDecision) Apply(item *ContentItem) ModerationLog {
	decidedAt := d.DecidedAt
	item.Status = d.Status
	item.ModerationNotes = d.Notes
	item.Warning = d.Warning
	item.ReviewedAt = &decidedAt
	item.UpdatedAt = decidedAt
	item.Version++

	return ModerationLog{
		ContentID:    item.ID,
		ContentTitle: item.Title,
		AdminID:      d.AdminID,
		AdminName:    d.AdminName,
		Action:       d.Action,
		Reason:       d.Reason,
		Timestamp:    decidedAt,
	}
}
