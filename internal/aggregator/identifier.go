package aggregator

import (
	"regexp"
	"strings"
)

// identifierPattern recognizes an IMDB identifier inside a free-text query,
// bare or with an "imdb:" style prefix.
var identifierPattern = regexp.MustCompile(`(?i)(?:imdb[:=]?\s*)?\b(tt\d{7,8})\b`)

// ExtractIdentifier pulls an IMDB identifier out of a query string.
// Returns the lowercased identifier, or "" when the query holds none.
func ExtractIdentifier(query string) string {
	match := identifierPattern.FindStringSubmatch(query)
	if match == nil {
		return ""
	}
	return strings.ToLower(match[1])
}
