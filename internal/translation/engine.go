package translation

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/models"
)

const DefaultTimeout = 15 * time.Second

// Engine resolves display text for an item in a target language. It never
// fails: translator trouble degrades to the source text with
// TranslationError set, and such results are never cached.
type Engine struct {
	cache      Cache
	translator Translator
	timeout    time.Duration
	log        *zap.Logger
	group      singleflight.Group
}

func NewEngine(cache Cache, translator Translator, timeout time.Duration, log *zap.Logger) *Engine {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{cache: cache, translator: translator, timeout: timeout, log: log}
}

func sourceText(item models.ContentItem) Text {
	return Text{Title: item.Title, Description: item.Description, Category: item.Category}
}

func original(item models.ContentItem, target models.LanguageCode) models.ContentTranslation {
	return models.ContentTranslation{
		Title:       item.Title,
		Description: item.Description,
		Category:    item.Category,
		Language:    target,
	}
}

// Localize resolves in order: same-language passthrough, cache hit, fresh
// AI translation, source-text fallback.
func (e *Engine) Localize(ctx context.Context, item models.ContentItem, target models.LanguageCode) models.ContentTranslation {
	if target == item.OriginalLanguage {
		t := original(item, target)
		t.VerifiedByAdmin = true
		return t
	}

	cached, ok, err := e.cache.Get(ctx, item.ID, target)
	if err != nil {
		e.log.Warn("translation cache read failed, treating as miss",
			zap.String("content_id", item.ID), zap.String("lang", string(target)), zap.Error(err))
	} else if ok {
		return cached
	}

	key := item.ID + "|" + string(target)
	v, err, shared := e.group.Do(key, func() (interface{}, error) {
		return e.translate(ctx, item, target)
	})
	if err != nil {
		e.log.Warn("translation failed, serving original text",
			zap.String("content_id", item.ID), zap.String("lang", string(target)),
			zap.Bool("shared", shared), zap.Error(err))
		t := original(item, target)
		t.TranslationError = true
		return t
	}
	return v.(models.ContentTranslation)
}

type translateResult struct {
	text Text
	err  error
}

func (e *Engine) translate(ctx context.Context, item models.ContentItem, target models.LanguageCode) (models.ContentTranslation, error) {
	// The call runs to completion for every waiter on this key, so it is
	// detached from the first caller's cancellation and bounded by the timeout.
	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.timeout)
	defer cancel()

	source := sourceText(item)
	done := make(chan translateResult, 1)
	go func() {
		out, err := e.translator.Translate(callCtx, source, target, item.OriginalLanguage)
		done <- translateResult{text: out, err: err}
	}()

	var res translateResult
	select {
	case res = <-done:
	case <-callCtx.Done():
		return models.ContentTranslation{}, fmt.Errorf("%w: %v", ErrTranslationFailed, callCtx.Err())
	}
	if res.err != nil {
		return models.ContentTranslation{}, res.err
	}
	if err := res.text.Validate(source); err != nil {
		return models.ContentTranslation{}, err
	}

	t := models.ContentTranslation{
		Title:         res.text.Title,
		Description:   res.text.Description,
		Category:      res.text.Category,
		IsAiGenerated: true,
		Language:      target,
	}
	if err := e.cache.Put(callCtx, item.ID, target, t); err != nil {
		e.log.Warn("translation cache write failed",
			zap.String("content_id", item.ID), zap.String("lang", string(target)), zap.Error(err))
	}
	return t, nil
}
