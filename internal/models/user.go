package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Enums
type Role string
type SubscriptionTier string

const (
	RoleUser    Role = "user"
	RoleCreator Role = "creator"
	RoleAdmin   Role = "admin"
	// Placeholders carried by older clients, treated like RoleUser.
	RoleGuest  Role = "guest"
	RoleViewer Role = "viewer"

	SubscriptionNone    SubscriptionTier = "none"
	SubscriptionBasic   SubscriptionTier = "basic"
	SubscriptionPremium SubscriptionTier = "premium"
	SubscriptionVIP     SubscriptionTier = "vip"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleCreator, RoleAdmin, RoleGuest, RoleViewer:
		return true
	}
	return false
}

// User Model
type User struct {
	ID           string           `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string           `gorm:"size:255;not null" json:"name"`
	Email        string           `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string           `gorm:"size:255" json:"-"`
	Role         Role             `gorm:"size:16;not null;default:'user';index" json:"role"`
	Credits      int64            `gorm:"default:0;check:credits >= 0" json:"credits"`
	Subscription SubscriptionTier `gorm:"size:16;default:'none'" json:"subscription"`
	Language     LanguageCode     `gorm:"size:8;default:'en'" json:"language"`
	IsSuspended  bool             `gorm:"default:false;index" json:"is_suspended"`

	// Timestamps
	CreatedAt time.Time `gorm:"type:timestamptz;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamptz;default:now()" json:"updated_at"`
}

// BeforeCreate hook to generate UUID if not present
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
