package translation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/gemini"
	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/models"
)

type fakeGenerator struct {
	out  string
	err  error
	last gemini.Request
}

func (f *fakeGenerator) Generate(_ context.Context, req gemini.Request) (string, error) {
	f.last = req
	return f.out, f.err
}

func TestGeminiTranslatorParsesStructuredOutput(t *testing.T) {
	gen := &fakeGenerator{out: `{"title":"Urukundo","description":"Indirimbo nshya","category":"Umuziki"}`}
	tr := NewGeminiTranslator(gen)

	out, err := tr.Translate(context.Background(),
		Text{Title: "Love", Description: "A new song", Category: "Music"},
		models.LanguageKinyarwanda, models.LanguageEnglish)
	require.NoError(t, err)
	assert.Equal(t, Text{Title: "Urukundo", Description: "Indirimbo nshya", Category: "Umuziki"}, out)
	assert.Contains(t, gen.last.Prompt, "from English to Kinyarwanda")
	assert.NotNil(t, gen.last.ResponseSchema)
}

func TestGeminiTranslatorFailures(t *testing.T) {
	source := Text{Title: "Love", Description: "A new song", Category: "Music"}
	tests := []struct {
		name string
		gen  *fakeGenerator
	}{
		{"upstream error", &fakeGenerator{err: errors.New("boom")}},
		{"not json", &fakeGenerator{out: "Sorry, I cannot help"}},
		{"wrong type", &fakeGenerator{out: `{"title":5,"description":"d","category":"c"}`}},
		{"missing field", &fakeGenerator{out: `{"title":"t","category":"c"}`}},
		{"invalid utf-8", &fakeGenerator{out: "{\"title\":\"a\xff\",\"description\":\"d\",\"category\":\"c\"}"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGeminiTranslator(tt.gen).Translate(context.Background(), source, models.LanguageFrench, models.LanguageEnglish)
			assert.ErrorIs(t, err, ErrTranslationFailed)
		})
	}
}

func TestTextValidateAllowsEmptySourceFields(t *testing.T) {
	assert.NoError(t, Text{Title: "T"}.Validate(Text{Title: "Title"}))
	assert.Error(t, Text{}.Validate(Text{Title: "Title"}))
	assert.ErrorIs(t, Text{Title: "T", Category: "\xc3"}.Validate(Text{Title: "Title"}), ErrTranslationFailed)
}
