package titlovi

import "strings"

// nativeNames maps the language labels the site prints onto normalized
// codes. The catalog is Balkan-centric; a couple of spellings per language
// show up depending on the page template.
var nativeNames = map[string]string{
	"srpski":     "sr",
	"cirilica":   "sr",
	"ćirilica":   "sr",
	"hrvatski":   "hr",
	"bosanski":   "bs",
	"makedonski": "mk",
	"slovenski":  "sl",
	"engleski":   "en",
	"english":    "en",
}

// supportedLanguages is the expansion of the "all" pseudo-code.
var supportedLanguages = []string{"sr", "hr", "bs", "mk", "sl", "en"}

// mapLanguage normalizes one caller-supplied language to a code the catalog
// carries. Anything the catalog does not host is dropped.
func mapLanguage(lang string) (string, bool) {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if code, ok := nativeNames[lang]; ok {
		return code, true
	}
	for _, code := range supportedLanguages {
		if lang == code {
			return code, true
		}
	}
	return "", false
}

// codeForLabel resolves a scraped language label to a normalized code,
// empty when the label is unknown.
func codeForLabel(label string) string {
	code, _ := nativeNames[strings.ToLower(strings.TrimSpace(label))]
	return code
}
