package content

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/models"
	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/repository"
	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/services"
	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/services/moderation"
	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/translation"
)

type stubLocalizer struct{ calls int }

func (s *stubLocalizer) Localize(_ context.Context, item models.ContentItem, lang models.LanguageCode) models.ContentTranslation {
	s.calls++
	return models.ContentTranslation{Title: string(lang) + ":" + item.Title, IsAiGenerated: true, Language: lang}
}

type stubPresigner struct {
	bucket, key string
	err         error
}

func (s *stubPresigner) PresignUpload(_ context.Context, bucket, key string, _ time.Duration) (string, error) {
	s.bucket, s.key = bucket, key
	return "https://storage.example/" + key, s.err
}

type fixture struct {
	store     *repository.MemoryStore
	localizer *stubLocalizer
	svc       *Service
	admin     *models.User
	creator   *models.User
	viewer    *models.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := repository.NewMemoryStore()
	ctx := context.Background()
	mk := func(name, email string, role models.Role, credits int64) *models.User {
		u, err := store.Users().Create(ctx, models.User{Name: name, Email: email, Role: role, Credits: credits, Language: models.LanguageKinyarwanda})
		require.NoError(t, err)
		return &u
	}
	f := &fixture{
		store:     store,
		localizer: &stubLocalizer{},
		admin:     mk("Admin", "admin@rebalive.rw", models.RoleAdmin, 0),
		creator:   mk("Bruce Melodie", "bruce@music.rw", models.RoleCreator, 0),
		viewer:    mk("Aline", "aline@example.rw", models.RoleUser, 1000),
	}
	f.svc = NewService(Options{
		Store:       store.Contents(),
		Localizer:   f.localizer,
		Wallet:      store.Users(),
		Presigner:   &stubPresigner{},
		MediaBucket: "rebalive-media",
	})
	return f
}

func (f *fixture) upload(t *testing.T, title string) models.ContentItem {
	t.Helper()
	item, err := f.svc.Upload(context.Background(), f.creator, UploadRequest{Type: models.ContentTypeMusic, Title: title})
	require.NoError(t, err)
	return item
}

func TestUploadCreatesPendingItem(t *testing.T) {
	f := newFixture(t)
	item := f.upload(t, "  Katerina  ")

	assert.NotEmpty(t, item.ID)
	assert.Equal(t, "Katerina", item.Title)
	assert.Equal(t, models.StatusPending, item.Status)
	assert.Equal(t, models.LanguageKinyarwanda, item.OriginalLanguage)
	assert.Equal(t, models.MonetizationFree, item.Monetization)
	assert.Equal(t, f.creator.ID, item.CreatorID)
	assert.Equal(t, "Bruce Melodie", item.CreatorName)
	assert.Zero(t, item.Views)
	assert.Zero(t, item.Rating)
	assert.False(t, item.SubmittedAt.IsZero())
}

func TestUploadValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Upload(ctx, nil, UploadRequest{Type: models.ContentTypeMovie, Title: "x"})
	assert.ErrorIs(t, err, services.ErrUnauthorized)
	_, err = f.svc.Upload(ctx, f.viewer, UploadRequest{Type: models.ContentTypeMovie, Title: "x"})
	assert.ErrorIs(t, err, services.ErrForbidden)

	tests := []struct {
		name string
		req  UploadRequest
		want error
	}{
		{"no title", UploadRequest{Type: models.ContentTypeMovie}, ErrTitleRequired},
		{"bad type", UploadRequest{Type: "hologram", Title: "x"}, ErrInvalidType},
		{"bad monetization", UploadRequest{Type: models.ContentTypeMovie, Title: "x", Monetization: "barter"}, ErrInvalidMonetization},
		{"negative price", UploadRequest{Type: models.ContentTypeMovie, Title: "x", Price: -1}, ErrInvalidPrice},
		{"bad language", UploadRequest{Type: models.ContentTypeMovie, Title: "x", Language: "xx-invalid-tag-zz"}, services.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Upload(ctx, f.creator, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	item, err := f.svc.Upload(ctx, f.admin, UploadRequest{Type: models.ContentTypeMovie, Title: "Admin upload", Language: "fr-FR"})
	require.NoError(t, err)
	assert.Equal(t, models.LanguageFrench, item.OriginalLanguage)
}

func TestVisibilityFollowsModeration(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.upload(t, "Pending song")

	visible, err := f.svc.ListVisible(ctx, f.viewer, repository.ContentFilter{})
	require.NoError(t, err)
	assert.Empty(t, visible)

	adminView, err := f.svc.ListVisible(ctx, f.admin, repository.ContentFilter{})
	require.NoError(t, err)
	assert.Len(t, adminView, 1)

	_, err = f.svc.Get(ctx, f.viewer, item.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)

	mod := moderation.NewService(f.store.Contents(), nil, nil)
	_, err = mod.ApproveWithWarning(ctx, f.admin, item.ID, "Strong language")
	require.NoError(t, err)

	visible, err = f.svc.ListVisible(ctx, f.viewer, repository.ContentFilter{})
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, "Strong language", visible[0].Warning)

	anon, err := f.svc.ListVisible(ctx, nil, repository.ContentFilter{Status: models.StatusPending})
	require.NoError(t, err)
	assert.Empty(t, anon)
}

func TestLocalizedGoesThroughVisibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.upload(t, "Indirimbo")

	_, err := f.svc.Localized(ctx, f.viewer, item.ID, models.LanguageEnglish)
	assert.ErrorIs(t, err, services.ErrNotFound)
	assert.Zero(t, f.localizer.calls)

	got, err := f.svc.Localized(ctx, f.admin, item.ID, models.LanguageEnglish)
	require.NoError(t, err)
	assert.Equal(t, "en:Indirimbo", got.Translation.Title)
	assert.Equal(t, item.ID, got.Content.ID)
}

func TestPurchase(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mod := moderation.NewService(f.store.Contents(), nil, nil)

	paid, err := f.svc.Upload(ctx, f.creator, UploadRequest{Type: models.ContentTypeMovie, Title: "Premiere", Monetization: models.MonetizationPPV, Price: 300})
	require.NoError(t, err)
	free := f.upload(t, "Free song")
	for _, id := range []string{paid.ID, free.ID} {
		_, err := mod.Approve(ctx, f.admin, id, "")
		require.NoError(t, err)
	}

	updated, err := f.svc.Purchase(ctx, f.viewer, paid.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 700, updated.Credits)

	_, err = f.svc.Purchase(ctx, f.viewer, free.ID)
	assert.ErrorIs(t, err, ErrNotPurchasable)

	_, err = f.svc.Purchase(ctx, f.creator, paid.ID)
	assert.ErrorIs(t, err, ErrInsufficientCredits)

	_, err = f.svc.Purchase(ctx, nil, paid.ID)
	assert.ErrorIs(t, err, services.ErrUnauthorized)
}

func TestUploadURL(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ticket, err := f.svc.UploadURL(ctx, f.creator, "thumbnail")
	require.NoError(t, err)
	assert.Contains(t, ticket.Key, "uploads/"+f.creator.ID+"/thumbnail/")
	assert.Equal(t, "https://storage.example/"+ticket.Key, ticket.URL)
	assert.Equal(t, 900, ticket.ExpiresIn)

	_, err = f.svc.UploadURL(ctx, f.creator, "script")
	assert.ErrorIs(t, err, ErrInvalidUploadKind)
	_, err = f.svc.UploadURL(ctx, f.viewer, "media")
	assert.ErrorIs(t, err, services.ErrForbidden)

	f.svc.presigner = &stubPresigner{err: errors.New("no credentials")}
	_, err = f.svc.UploadURL(ctx, f.creator, "media")
	assert.ErrorContains(t, err, "no credentials")

	f.svc.presigner = nil
	_, err = f.svc.UploadURL(ctx, f.creator, "media")
	assert.ErrorIs(t, err, ErrUploadUnavailable)
}

var _ Localizer = (*translation.Engine)(nil)
