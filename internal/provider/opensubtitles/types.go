package opensubtitles

// searchResponse is the wire shape of a subtitle search: a flat list of
// entries under data[].attributes.
type searchResponse struct {
	TotalCount int           `json:"total_count"`
	Data       []searchEntry `json:"data"`
}

type searchEntry struct {
	ID         string     `json:"id"`
	Type       string     `json:"type"`
	Attributes attributes `json:"attributes"`
}

type attributes struct {
	Language        string         `json:"language"`
	DownloadCount   int            `json:"download_count"`
	HearingImpaired bool           `json:"hearing_impaired"`
	HD              bool           `json:"hd"`
	FPS             float64        `json:"fps"`
	Ratings         float64        `json:"ratings"`
	Release         string         `json:"release"`
	Uploader        uploader       `json:"uploader"`
	FeatureDetails  featureDetails `json:"feature_details"`
	Files           []file         `json:"files"`
}

type uploader struct {
	Name string `json:"name"`
}

type featureDetails struct {
	Title         string `json:"title"`
	MovieName     string `json:"movie_name"`
	Year          int    `json:"year"`
	SeasonNumber  int    `json:"season_number"`
	EpisodeNumber int    `json:"episode_number"`
	FeatureType   string `json:"feature_type"`
}

type file struct {
	FileID   int    `json:"file_id"`
	FileName string `json:"file_name"`
}

// downloadRequest is the POST body for the download endpoint.
type downloadRequest struct {
	FileID    int    `json:"file_id"`
	SubFormat string `json:"sub_format"`
}

// downloadResponse carries the signed, time-limited download link.
type downloadResponse struct {
	Link      string `json:"link"`
	FileName  string `json:"file_name"`
	Remaining int    `json:"remaining"`
}
