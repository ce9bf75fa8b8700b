package models

// SearchQuery is the input to one search operation. It is passed by value
// into the aggregator and adapters; no component retains it between calls.
type SearchQuery struct {
	// Title is the free-text title to look up. May be empty when Identifier
	// or Filename carries the subject.
	Title string `json:"title,omitempty"`

	// Identifier is an IMDB identifier ("tt" followed by 7-8 digits).
	Identifier string `json:"identifier,omitempty"`

	// Filename is an exact release filename hint.
	Filename string `json:"filename,omitempty"`

	// Languages is the caller-supplied language set. Each adapter maps it
	// through its own locale table before querying; "all" expands to the
	// adapter's full supported list.
	Languages []string `json:"languages"`

	Season  int `json:"season,omitempty"`
	Episode int `json:"episode,omitempty"`
	Year    int `json:"year,omitempty"`
}

// HasSubject reports whether the query carries at least one usable lookup
// subject. Queries without one are never dispatched to an adapter.
func (q SearchQuery) HasSubject() bool {
	return q.Title != "" || q.Identifier != "" || q.Filename != ""
}

// IsSeries reports whether the query targets a specific season.
func (q SearchQuery) IsSeries() bool {
	return q.Season > 0
}

// Subject returns the primary free-text subject of the query, preferring
// the title and falling back to the filename hint.
func (q SearchQuery) Subject() string {
	if q.Title != "" {
		return q.Title
	}
	return q.Filename
}
