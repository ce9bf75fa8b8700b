package subdl

import "strings"

// threeLetterCodes maps the locale spellings callers tend to supply onto the
// upper-cased 2-letter codes the API requires.
var threeLetterCodes = map[string]string{
	"eng": "EN",
	"fre": "FR",
	"fra": "FR",
	"ger": "DE",
	"deu": "DE",
	"spa": "ES",
	"ita": "IT",
	"por": "PT",
	"rus": "RU",
	"srp": "SR",
	"scc": "SR",
	"hrv": "HR",
	"bos": "BS",
	"slv": "SL",
	"hun": "HU",
	"tur": "TR",
	"ara": "AR",
	"chi": "ZH",
	"zho": "ZH",
	"jpn": "JA",
	"kor": "KO",
}

// supportedLanguages is the expansion of the "all" pseudo-code.
var supportedLanguages = []string{
	"EN", "FR", "DE", "ES", "IT", "PT", "RU", "SR", "HR", "BS",
	"SL", "MK", "HU", "RO", "BG", "TR", "EL", "AR", "ZH", "JA", "KO",
}

// mapLanguage normalizes one caller-supplied language to the API's
// upper-cased 2-letter form. Unknown codes are rejected.
func mapLanguage(lang string) (string, bool) {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if len(lang) == 2 {
		return strings.ToUpper(lang), true
	}
	if code, ok := threeLetterCodes[lang]; ok {
		return code, true
	}
	return "", false
}
