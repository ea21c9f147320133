package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLanguage(t *testing.T) {
	tests := []struct {
		in      string
		want    LanguageCode
		wantErr bool
	}{
		{in: "rw", want: LanguageKinyarwanda},
		{in: "rw-RW", want: LanguageKinyarwanda},
		{in: "FR", want: LanguageFrench},
		{in: " sw ", want: LanguageSwahili},
		{in: "zh-Hans", want: LanguageChinese},
		{in: "de", wantErr: true},
		{in: "", wantErr: true},
		{in: "not a tag!", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLanguage(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecisionApplyWritesItemAndLog(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	item := ContentItem{ID: "c1", Title: "Inanga", Status: StatusApproved, Warning: "old", Version: 3}

	entry := ModerationDecision{
		ContentID: "c1",
		Status:    StatusRejected,
		Notes:     "copyright",
		Action:    ActionRejected,
		Reason:    "copyright",
		AdminID:   "a1",
		AdminName: "System Admin",
		DecidedAt: at,
	}.Apply(&item)

	assert.Equal(t, StatusRejected, item.Status)
	assert.Empty(t, item.Warning)
	assert.Equal(t, "copyright", item.ModerationNotes)
	assert.Equal(t, 4, item.Version)
	require.NotNil(t, item.ReviewedAt)
	assert.Equal(t, at, *item.ReviewedAt)

	assert.Equal(t, "c1", entry.ContentID)
	assert.Equal(t, "Inanga", entry.ContentTitle)
	assert.Equal(t, ActionRejected, entry.Action)
	assert.Equal(t, at, entry.Timestamp)
}

func TestEnumValidity(t *testing.T) {
	assert.True(t, StatusFlagged.Valid())
	assert.False(t, ModerationStatus("archived").Valid())
	assert.True(t, ContentTypeTVChannel.Valid())
	assert.False(t, ContentType("game").Valid())
	assert.True(t, MonetizationHybrid.Valid())
	assert.True(t, RoleViewer.Valid())
	assert.False(t, Role("root").Valid())
}
