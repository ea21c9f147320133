package translation

import (
	"golang.org/x/text/language"

	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/models"
)

var labels = map[string]map[models.LanguageCode]string{
	"watch_now": {
		models.LanguageKinyarwanda: "Kureba ubu",
		models.LanguageEnglish:     "Watch Now",
		models.LanguageFrench:      "Regarder maintenant",
		models.LanguageSwahili:     "Tazama sasa",
		models.LanguageChinese:     "立即观看",
		models.LanguageHindi:       "अभी देखें",
		models.LanguageAmharic:     "አሁን ይመልከቱ",
		models.LanguageArabic:      "شاهد الآن",
	},
	"trending": {
		models.LanguageKinyarwanda: "Ibikunzwe ubu",
		models.LanguageEnglish:     "Trending Now",
		models.LanguageFrench:      "Tendances",
		models.LanguageSwahili:     "Inayovuma",
		models.LanguageChinese:     "热门",
		models.LanguageHindi:       "प्रचलित",
		models.LanguageAmharic:     "በመታየት ላይ ያለ",
		models.LanguageArabic:      "رائج",
	},
	"translation_unavailable": {
		models.LanguageKinyarwanda: "Ubusemuzi ntibubonetse",
		models.LanguageEnglish:     "Translation unavailable",
		models.LanguageFrench:      "Traduction indisponible",
		models.LanguageSwahili:     "Tafsiri haipatikani",
	},
}

// Label returns a UI label in lang, falling back to English, then the key.
func Label(key string, lang models.LanguageCode) string {
	byLang, ok := labels[key]
	if !ok {
		return key
	}
	if v, ok := byLang[lang]; ok {
		return v
	}
	if v, ok := byLang[models.LanguageEnglish]; ok {
		return v
	}
	return key
}

var matcher = func() language.Matcher {
	tags := make([]language.Tag, 0, len(models.SupportedLanguages))
	for _, code := range models.SupportedLanguages {
		tags = append(tags, language.Make(string(code)))
	}
	return language.NewMatcher(tags)
}()

// MatchLanguage picks the best supported language for an Accept-Language
// header. English wins when nothing matches.
func MatchLanguage(acceptLanguage string) models.LanguageCode {
	prefs, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(prefs) == 0 {
		return models.LanguageEnglish
	}
	_, idx, conf := matcher.Match(prefs...)
	if conf == language.No {
		return models.LanguageEnglish
	}
	return models.SupportedLanguages[idx]
}
