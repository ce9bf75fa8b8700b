package opensubtitles

import "strings"

// localeTable converts the 3-letter and locale variants callers supply into
// the lower-case 2-letter codes the API requires. Codes not in the table
// and not already 2-letter are dropped.
var localeTable = map[string]string{
	"srp": "sr",
	"scc": "sr",
	"hrv": "hr",
	"bos": "bs",
	"eng": "en",
	"slv": "sl",
	"mkd": "mk",
	"hun": "hu",
	"bul": "bg",
	"rus": "ru",
	"fre": "fr",
	"fra": "fr",
	"ger": "de",
	"deu": "de",
	"spa": "es",
	"por": "pt",
	"ita": "it",
}

// supportedLanguages is the expansion of the "all" pseudo-code.
var supportedLanguages = []string{
	"en", "fr", "de", "es", "it", "pt", "ru", "sr", "hr", "bs",
	"sl", "mk", "hu", "ro", "bg", "tr", "el", "ar", "zh", "ja", "ko",
}

func mapLanguage(lang string) (string, bool) {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if len(lang) == 2 {
		return lang, true
	}
	if code, ok := localeTable[lang]; ok {
		return code, true
	}
	return "", false
}
