package translation

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/models"
)

type fakeTranslator struct {
	calls atomic.Int32
	fn    func(ctx context.Context, text Text, target models.LanguageCode) (Text, error)
}

func (f *fakeTranslator) Translate(ctx context.Context, text Text, target, _ models.LanguageCode) (Text, error) {
	f.calls.Add(1)
	return f.fn(ctx, text, target)
}

func prefixTranslator(prefix string) *fakeTranslator {
	return &fakeTranslator{fn: func(_ context.Context, text Text, _ models.LanguageCode) (Text, error) {
		return Text{
			Title:       prefix + text.Title,
			Description: prefix + text.Description,
			Category:    prefix + text.Category,
		}, nil
	}}
}

func sampleItem() models.ContentItem {
	return models.ContentItem{
		ID:               "song-1",
		Title:            "Indirimbo",
		Description:      "Indirimbo nshya",
		Category:         "Umuziki",
		OriginalLanguage: models.LanguageKinyarwanda,
	}
}

func TestLocalizeSameLanguageSkipsCacheAndTranslator(t *testing.T) {
	cache := NewMemoryCache(0)
	tr := prefixTranslator("x:")
	engine := NewEngine(cache, tr, time.Second, nil)
	item := sampleItem()

	// even a poisoned cache entry is ignored for the original language
	require.NoError(t, cache.Put(context.Background(), item.ID, models.LanguageKinyarwanda, models.ContentTranslation{Title: "stale"}))

	got := engine.Localize(context.Background(), item, models.LanguageKinyarwanda)
	assert.Equal(t, item.Title, got.Title)
	assert.True(t, got.VerifiedByAdmin)
	assert.False(t, got.IsAiGenerated)
	assert.False(t, got.TranslationError)
	assert.Zero(t, tr.calls.Load())
}

func TestLocalizeTranslatesOnceThenServesFromCache(t *testing.T) {
	tr := prefixTranslator("en:")
	engine := NewEngine(NewMemoryCache(0), tr, time.Second, nil)
	item := sampleItem()

	first := engine.Localize(context.Background(), item, models.LanguageEnglish)
	assert.Equal(t, "en:Indirimbo", first.Title)
	assert.True(t, first.IsAiGenerated)
	assert.False(t, first.VerifiedByAdmin)
	assert.Equal(t, models.LanguageEnglish, first.Language)

	second := engine.Localize(context.Background(), item, models.LanguageEnglish)
	assert.Equal(t, first, second)
	assert.EqualValues(t, 1, tr.calls.Load())
}

func TestLocalizeFailureFallsBackAndIsNotCached(t *testing.T) {
	var fail atomic.Bool
	fail.Store(true)
	tr := &fakeTranslator{fn: func(_ context.Context, text Text, _ models.LanguageCode) (Text, error) {
		if fail.Load() {
			return Text{}, errors.New("quota exceeded")
		}
		return Text{Title: "Song", Description: "New song", Category: "Music"}, nil
	}}
	cache := NewMemoryCache(0)
	engine := NewEngine(cache, tr, time.Second, nil)
	item := sampleItem()

	got := engine.Localize(context.Background(), item, models.LanguageEnglish)
	assert.True(t, got.TranslationError)
	assert.False(t, got.IsAiGenerated)
	assert.Equal(t, item.Title, got.Title)
	assert.Zero(t, cache.Len())

	fail.Store(false)
	got = engine.Localize(context.Background(), item, models.LanguageEnglish)
	assert.False(t, got.TranslationError)
	assert.Equal(t, "Song", got.Title)
	assert.EqualValues(t, 2, tr.calls.Load())
}

func TestLocalizeMalformedOutputFallsBack(t *testing.T) {
	tr := &fakeTranslator{fn: func(context.Context, Text, models.LanguageCode) (Text, error) {
		return Text{Title: "only a title"}, nil
	}}
	cache := NewMemoryCache(0)
	engine := NewEngine(cache, tr, time.Second, nil)

	got := engine.Localize(context.Background(), sampleItem(), models.LanguageFrench)
	assert.True(t, got.TranslationError)
	assert.Zero(t, cache.Len())
}

func TestLocalizeInvalidEncodingFallsBack(t *testing.T) {
	gen := &fakeGenerator{out: "{\"title\":\"a\xff\",\"description\":\"d\",\"category\":\"c\"}"}
	cache := NewMemoryCache(0)
	engine := NewEngine(cache, NewGeminiTranslator(gen), time.Second, nil)

	item := sampleItem()
	got := engine.Localize(context.Background(), item, models.LanguageFrench)
	assert.True(t, got.TranslationError)
	assert.False(t, got.IsAiGenerated)
	assert.Equal(t, item.Title, got.Title)
	assert.Zero(t, cache.Len())
}

func TestLocalizeTimesOutEvenIfTranslatorIgnoresContext(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	tr := &fakeTranslator{fn: func(context.Context, Text, models.LanguageCode) (Text, error) {
		<-release
		return Text{Title: "late", Description: "late", Category: "late"}, nil
	}}
	engine := NewEngine(NewMemoryCache(0), tr, 50*time.Millisecond, nil)

	start := time.Now()
	got := engine.Localize(context.Background(), sampleItem(), models.LanguageFrench)
	assert.True(t, got.TranslationError)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestLocalizeCollapsesConcurrentRequests(t *testing.T) {
	gate := make(chan struct{})
	tr := &fakeTranslator{fn: func(_ context.Context, text Text, _ models.LanguageCode) (Text, error) {
		<-gate
		return Text{Title: "T", Description: "D", Category: "C"}, nil
	}}
	engine := NewEngine(NewMemoryCache(0), tr, 5*time.Second, nil)
	item := sampleItem()

	const callers = 10
	var wg sync.WaitGroup
	results := make([]models.ContentTranslation, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = engine.Localize(context.Background(), item, models.LanguageFrench)
		}(i)
	}

	// let the callers pile up on the in-flight translation
	assert.Eventually(t, func() bool { return tr.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(gate)
	wg.Wait()

	assert.EqualValues(t, 1, tr.calls.Load())
	for _, r := range results {
		assert.Equal(t, "T", r.Title)
		assert.True(t, r.IsAiGenerated)
	}
}

type brokenCache struct{ puts atomic.Int32 }

func (b *brokenCache) Get(context.Context, string, models.LanguageCode) (models.ContentTranslation, bool, error) {
	return models.ContentTranslation{}, false, errors.New("redis down")
}

func (b *brokenCache) Put(context.Context, string, models.LanguageCode, models.ContentTranslation) error {
	b.puts.Add(1)
	return errors.New("redis down")
}

func TestLocalizeSurvivesCacheOutage(t *testing.T) {
	cache := &brokenCache{}
	engine := NewEngine(cache, prefixTranslator("fr:"), time.Second, nil)

	got := engine.Localize(context.Background(), sampleItem(), models.LanguageFrench)
	assert.Equal(t, "fr:Indirimbo", got.Title)
	assert.False(t, got.TranslationError)
	assert.EqualValues(t, 1, cache.puts.Load())
}
