package subdl

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/ciefp/subgrab/internal/apperrors"
	"github.com/ciefp/subgrab/internal/client"
	"github.com/ciefp/subgrab/internal/config"
	"github.com/ciefp/subgrab/internal/models"
)

const searchFixture = `{
	"status": true,
	"results": [
		{"sd_id": 3197641, "type": "movie", "name": "The Matrix", "imdb_id": "tt0133093", "year": 1999}
	],
	"subtitles": [
		{
			"release_name": "The.Matrix.1999.1080p.BluRay.x264",
			"lang": "EN",
			"language": "English",
			"author": "neo",
			"url": "/subtitle/3197641-3213231.zip",
			"season": 0,
			"episode": 0,
			"hi": false
		},
		{
			"release_name": "The.Matrix.1999.DVDRip",
			"lang": "FR",
			"language": "French",
			"url": "https://dl.example.com/subtitle/3197641-9999/download",
			"hi": true
		}
	]
}`

func testConfig(apiHost, downloadHost string) func() *config.Config {
	cfg := &config.Config{}
	cfg.Services.SubDL.Enabled = true
	cfg.Services.SubDL.APIKey = "test-key"
	cfg.Services.SubDL.APIHost = apiHost
	cfg.Services.SubDL.DownloadHost = downloadHost
	return func() *config.Config { return cfg }
}

func newTestAdapter(apiHost, downloadHost string) *Adapter {
	cfg := testConfig(apiHost, downloadHost)
	return New(client.New(cfg()), cfg)
}

func TestSearchByIdentifier(t *testing.T) {
	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{}
		for key := range r.URL.Query() {
			gotQuery[key] = r.URL.Query().Get(key)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(searchFixture))
	}))
	defer server.Close()

	adapter := newTestAdapter(server.URL, "")
	results, err := adapter.Search(context.Background(), models.SearchQuery{
		Identifier: "tt0133093",
		Languages:  []string{"en", "fr"},
	}, models.MethodIdentifier)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	if gotQuery["imdb_id"] != "tt0133093" {
		t.Errorf("imdb_id = %q, want tt0133093", gotQuery["imdb_id"])
	}
	if gotQuery["film_name"] != "" {
		t.Error("film_name should not be set for identifier lookup")
	}
	if gotQuery["languages"] != "EN,FR" {
		t.Errorf("languages = %q, want EN,FR", gotQuery["languages"])
	}
	if gotQuery["api_key"] != "test-key" {
		t.Errorf("api_key = %q", gotQuery["api_key"])
	}
	if gotQuery["type"] != "movie" {
		t.Errorf("type = %q, want movie", gotQuery["type"])
	}

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}

	first := results[0]
	if first.Handle != "3197641-3213231" {
		t.Errorf("handle = %q, want 3197641-3213231", first.Handle)
	}
	if first.Service != models.ServiceSubDL {
		t.Errorf("service = %v", first.Service)
	}
	if first.Method != models.MethodIdentifier {
		t.Errorf("method = %v, want identifier", first.Method)
	}
	if !first.HD {
		t.Error("1080p BluRay release should be flagged HD")
	}
	if first.Quality != models.Quality1080p {
		t.Errorf("quality = %v, want 1080p", first.Quality)
	}
	if first.Year != "1999" {
		t.Errorf("year = %q, want 1999", first.Year)
	}
	if first.LanguageCode != "en" {
		t.Errorf("languageCode = %q, want en", first.LanguageCode)
	}

	second := results[1]
	if second.Handle != "3197641-9999" {
		t.Errorf("handle = %q, want 3197641-9999", second.Handle)
	}
	if !second.HearingImpaired {
		t.Error("second result should be hearing impaired")
	}
	if second.HD {
		t.Error("DVDRip release should not be flagged HD")
	}
}

func TestSearchSeriesQuery(t *testing.T) {
	var gotQuery url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`{"status": true, "results": [], "subtitles": []}`))
	}))
	defer server.Close()

	adapter := newTestAdapter(server.URL, "")
	_, err := adapter.Search(context.Background(), models.SearchQuery{
		Title:     "Breaking Bad",
		Languages: []string{"en"},
		Season:    3,
		Episode:   7,
	}, models.MethodStandard)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	if got := gotQuery.Get("type"); got != "tv" {
		t.Errorf("type = %q, want tv", got)
	}
	if got := gotQuery.Get("season_number"); got != "3" {
		t.Errorf("season_number = %q, want 3", got)
	}
	if got := gotQuery.Get("episode_number"); got != "7" {
		t.Errorf("episode_number = %q, want 7", got)
	}
	if got := gotQuery.Get("film_name"); got != "Breaking Bad" {
		t.Errorf("film_name = %q", got)
	}
}

func TestSearchFailsClosedWithoutKey(t *testing.T) {
	cfg := &config.Config{}
	cfg.Services.SubDL.Enabled = true
	getter := func() *config.Config { return cfg }
	adapter := New(client.New(cfg), getter)

	_, err := adapter.Search(context.Background(), models.SearchQuery{
		Title:     "anything",
		Languages: []string{"en"},
	}, models.MethodStandard)
	if !errors.Is(err, &apperrors.ConfigurationError{}) {
		t.Errorf("want ConfigurationError, got %v", err)
	}
}

func TestSearchFailsClosedOnEmptyLanguages(t *testing.T) {
	adapter := newTestAdapter("http://unused.invalid", "")

	_, err := adapter.Search(context.Background(), models.SearchQuery{
		Title:     "anything",
		Languages: []string{"klingon"},
	}, models.MethodStandard)
	if !errors.Is(err, &apperrors.ConfigurationError{}) {
		t.Errorf("want ConfigurationError, got %v", err)
	}
}

func TestSearchPermanentErrorOn401(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	adapter := newTestAdapter(server.URL, "")
	_, err := adapter.Search(context.Background(), models.SearchQuery{
		Title:     "anything",
		Languages: []string{"en"},
	}, models.MethodStandard)
	if !errors.Is(err, &apperrors.PermanentServiceError{}) {
		t.Errorf("want PermanentServiceError, got %v", err)
	}
}

func TestDownloadFallsBackToAlternatePath(t *testing.T) {
	payload := []byte("PK\x03\x04fake-zip-bytes")
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		if r.URL.Path == "/subtitle/123-456.zip" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write(payload)
	}))
	defer server.Close()

	adapter := newTestAdapter("", server.URL)
	content, err := adapter.Download(context.Background(), models.SubtitleResult{
		Handle:  "123-456",
		Service: models.ServiceSubDL,
	})
	if err != nil {
		t.Fatalf("download failed: %v", err)
	}
	if string(content) != string(payload) {
		t.Errorf("content mismatch")
	}

	want := []string{"/subtitle/123-456.zip", "/123-456/download"}
	if len(paths) != 2 || paths[0] != want[0] || paths[1] != want[1] {
		t.Errorf("paths = %v, want %v", paths, want)
	}
}

func TestExtractHandle(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"/subtitle/3197641-3213231.zip", "3197641-3213231"},
		{"https://dl.example.com/subtitle/11-22/download", "11-22"},
		{"https://dl.example.com/some/other/path.zip", "path"},
		{"https://dl.example.com/plain-segment/", "plain-segment"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := extractHandle(tt.url); got != tt.want {
			t.Errorf("extractHandle(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}
