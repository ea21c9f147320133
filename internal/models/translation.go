package models

// ContentTranslation is a display-ready view of an item's text in one
// language. The three flags record how the text was obtained.
type ContentTranslation struct {
	Title            string       `json:"title"`
	Description      string       `json:"description"`
	Category         string       `json:"category"`
	IsAiGenerated    bool         `json:"is_ai_generated"`
	VerifiedByAdmin  bool         `json:"verified_by_admin"`
	TranslationError bool         `json:"translation_error,omitempty"`
	Language         LanguageCode `json:"language"`
}
