package translation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/tidwall/gjson"

	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/gemini"
	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/models"
)

// ErrTranslationFailed wraps every translator failure, including malformed output.
var ErrTranslationFailed = errors.New("translation failed")

// Text is the translatable part of a content item.
type Text struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// Translator is the external AI capability.
type Translator interface {
	Translate(ctx context.Context, text Text, target, source models.LanguageCode) (Text, error)
}

// Validate rejects output that dropped a field the source had or carries
// invalid UTF-8.
func (t Text) Validate(source Text) error {
	switch {
	case !utf8.ValidString(t.Title), !utf8.ValidString(t.Description), !utf8.ValidString(t.Category):
		return fmt.Errorf("%w: malformed encoding", ErrTranslationFailed)
	case source.Title != "" && strings.TrimSpace(t.Title) == "":
		return fmt.Errorf("%w: missing title", ErrTranslationFailed)
	case source.Description != "" && strings.TrimSpace(t.Description) == "":
		return fmt.Errorf("%w: missing description", ErrTranslationFailed)
	case source.Category != "" && strings.TrimSpace(t.Category) == "":
		return fmt.Errorf("%w: missing category", ErrTranslationFailed)
	}
	return nil
}

// Generator is the slice of the Gemini client the translator uses.
type Generator interface {
	Generate(ctx context.Context, req gemini.Request) (string, error)
}

type GeminiTranslator struct {
	gen Generator
}

func NewGeminiTranslator(gen Generator) *GeminiTranslator {
	return &GeminiTranslator{gen: gen}
}

var textSchema = map[string]any{
	"type": "OBJECT",
	"properties": map[string]any{
		"title":       map[string]any{"type": "STRING"},
		"description": map[string]any{"type": "STRING"},
		"category":    map[string]any{"type": "STRING"},
	},
	"required": []string{"title", "description", "category"},
}

var languageNames = map[models.LanguageCode]string{
	models.LanguageEnglish:     "English",
	models.LanguageKinyarwanda: "Kinyarwanda",
	models.LanguageFrench:      "French",
	models.LanguageSwahili:     "Swahili",
	models.LanguageChinese:     "Chinese (Simplified)",
	models.LanguageHindi:       "Hindi",
	models.LanguageAmharic:     "Amharic",
	models.LanguageArabic:      "Arabic",
}

func languageName(code models.LanguageCode) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	return string(code)
}

func (g *GeminiTranslator) Translate(ctx context.Context, text Text, target, source models.LanguageCode) (Text, error) {
	input, err := json.Marshal(text)
	if err != nil {
		return Text{}, fmt.Errorf("%w: %v", ErrTranslationFailed, err)
	}

	out, err := g.gen.Generate(ctx, gemini.Request{
		SystemInstruction: "You translate media catalogue metadata for a Rwandan streaming platform. " +
			"Keep proper nouns, artist names and titles of works recognisable. Reply with JSON only.",
		Prompt: fmt.Sprintf("Translate the following JSON fields from %s to %s:\n%s",
			languageName(source), languageName(target), input),
		ResponseSchema: textSchema,
	})
	if err != nil {
		return Text{}, fmt.Errorf("%w: %v", ErrTranslationFailed, err)
	}

	if !gjson.Valid(out) {
		return Text{}, fmt.Errorf("%w: response is not valid JSON", ErrTranslationFailed)
	}
	fields := gjson.GetMany(out, "title", "description", "category")
	for i, name := range []string{"title", "description", "category"} {
		if fields[i].Exists() && fields[i].Type != gjson.String {
			return Text{}, fmt.Errorf("%w: %s is not a string", ErrTranslationFailed, name)
		}
	}
	translated := Text{
		Title:       fields[0].String(),
		Description: fields[1].String(),
		Category:    fields[2].String(),
	}
	if err := translated.Validate(text); err != nil {
		return Text{}, err
	}
	return translated, nil
}
