package models

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

type LanguageCode string

const (
	LanguageEnglish     LanguageCode = "en"
	LanguageKinyarwanda LanguageCode = "rw"
	LanguageFrench      LanguageCode = "fr"
	LanguageSwahili     LanguageCode = "sw"
	LanguageChinese     LanguageCode = "zh"
	LanguageHindi       LanguageCode = "hi"
	LanguageAmharic     LanguageCode = "am"
	LanguageArabic      LanguageCode = "ar"
)

// SupportedLanguages lists the platform languages, English first so it wins
// as the matcher fallback.
var SupportedLanguages = []LanguageCode{
	LanguageEnglish,
	LanguageKinyarwanda,
	LanguageFrench,
	LanguageSwahili,
	LanguageChinese,
	LanguageHindi,
	LanguageAmharic,
	LanguageArabic,
}

func (l LanguageCode) Supported() bool {
	for _, s := range SupportedLanguages {
		if s == l {
			return true
		}
	}
	return false
}

// ParseLanguage normalizes a BCP 47 tag ("rw-RW", "FR") to a supported code.
func ParseLanguage(raw string) (LanguageCode, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("language is required")
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid language %q: %w", raw, err)
	}
	base, _ := tag.Base()
	code := LanguageCode(base.String())
	if !code.Supported() {
		return "", fmt.Errorf("unsupported language %q", raw)
	}
	return code, nil
}
