package provider

import (
	"context"

	"github.com/ciefp/subgrab/internal/models"
)

// Provider is one catalog adapter. Implementations fail closed: a missing
// API key, a language set that maps to nothing, or an upstream failure after
// the retry budget all surface as a typed error that the aggregator turns
// into an empty contribution, never as a panic.
type Provider interface {
	// Service identifies the catalog this adapter talks to.
	Service() models.Service

	// Enabled reports whether the adapter is currently configured to run.
	// Read fresh from configuration on every call.
	Enabled() bool

	// Supports reports whether the adapter can issue the given lookup method.
	Supports(method models.SearchMethod) bool

	// Search queries the catalog using the given lookup method and returns
	// normalized records tagged with that method.
	Search(ctx context.Context, query models.SearchQuery, method models.SearchMethod) ([]models.SubtitleResult, error)

	// Download retrieves the raw payload for a result this adapter produced.
	// The payload still needs format sniffing; it may be an archive or an
	// HTML error page.
	Download(ctx context.Context, result models.SubtitleResult) ([]byte, error)
}

// MapLanguages pushes the caller-supplied language set through an adapter's
// locale table. The value "all" expands to the adapter's full supported
// list. Codes the table rejects are dropped; order is first-seen, without
// duplicates. An empty return means the adapter must fail closed.
func MapLanguages(requested []string, mapOne func(string) (string, bool), all []string) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(code string) {
		if code != "" && !seen[code] {
			seen[code] = true
			out = append(out, code)
		}
	}

	for _, lang := range requested {
		if lang == "all" {
			for _, code := range all {
				add(code)
			}
			continue
		}
		if code, ok := mapOne(lang); ok {
			add(code)
		}
	}
	return out
}
