package subdl

// searchResponse is the wire shape of a SubDL search: a status flag plus two
// parallel lists, catalog metadata and subtitle entries, that get
// cross-referenced into normalized records.
type searchResponse struct {
	Status    bool            `json:"status"`
	Results   []mediaResult   `json:"results"`
	Subtitles []subtitleEntry `json:"subtitles"`
	Error     string          `json:"error"`
}

// mediaResult is one catalog match (movie or show).
type mediaResult struct {
	SDID   int    `json:"sd_id"`
	Type   string `json:"type"`
	Name   string `json:"name"`
	IMDBID string `json:"imdb_id"`
	TMDBID int    `json:"tmdb_id"`
	Year   int    `json:"year"`
}

// subtitleEntry is one subtitle belonging to a catalog match.
type subtitleEntry struct {
	ReleaseName     string `json:"release_name"`
	Name            string `json:"name"`
	Lang            string `json:"lang"`
	Language        string `json:"language"`
	Author          string `json:"author"`
	URL             string `json:"url"`
	SubtitlePage    string `json:"subtitlePage"`
	Season          int    `json:"season"`
	Episode         int    `json:"episode"`
	HearingImpaired bool   `json:"hi"`
	FullSeason      bool   `json:"full_season"`
	Comment         string `json:"comment"`
	Releases        string `json:"releases"`
}
