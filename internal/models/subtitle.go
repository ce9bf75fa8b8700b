package models

import "fmt"

// SubtitleResult is the normalized record every catalog adapter produces.
// Handle together with Service must be sufficient for the downloader to
// retrieve the content without re-searching.
type SubtitleResult struct {
	Title        string `json:"title"`
	Language     string `json:"language"`     // service-native spelling, e.g. "Srpski"
	LanguageCode string `json:"languageCode"` // normalized 2-or-3-letter code
	Handle       string `json:"handle"`

	Downloads int     `json:"downloads"` // 0 when the catalog does not publish counts
	Rating    float64 `json:"rating"`    // 0.0 when unknown
	Release   string  `json:"release,omitempty"`
	Quality   Quality `json:"quality,omitempty"`
	Year      string  `json:"year,omitempty"`

	HD              bool `json:"hd"`
	HearingImpaired bool `json:"hearingImpaired"`
	IsSeries        bool `json:"isSeries"`
	Season          int  `json:"season,omitempty"`
	Episode         int  `json:"episode,omitempty"`

	Uploader string  `json:"uploader,omitempty"`
	FPS      float64 `json:"fps,omitempty"`
	Comment  string  `json:"comment,omitempty"`

	Service Service      `json:"service"`
	Method  SearchMethod `json:"method"`
}

// Ref renders a short service/handle reference for logs and error messages.
func (r SubtitleResult) Ref() string {
	return fmt.Sprintf("%s/%s", r.Service, r.Handle)
}

// ResolvedSubtitle is the output of a completed download: the extracted
// subtitle bytes, the extension inferred by content sniffing, and the
// originating result for filename construction.
type ResolvedSubtitle struct {
	Content   []byte         `json:"-"`
	Extension string         `json:"extension"`
	Result    SubtitleResult `json:"result"`
}
