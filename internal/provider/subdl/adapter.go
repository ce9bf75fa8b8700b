package subdl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/ciefp/subgrab/internal/apperrors"
	"github.com/ciefp/subgrab/internal/client"
	"github.com/ciefp/subgrab/internal/config"
	"github.com/ciefp/subgrab/internal/models"
	"github.com/ciefp/subgrab/internal/provider"
)

// handlePattern captures the "<id>-<id>" pair SubDL embeds in its subtitle
// URLs, in either of the two forms the API emits.
var handlePattern = regexp.MustCompile(`/subtitle/(\d+-\d+)(?:\.zip|/download)`)

// Adapter queries the SubDL JSON API. Lookup can go by IMDB identifier,
// exact filename, or free-text title; the caller picks exactly one per call.
type Adapter struct {
	clients *client.Clients
	cfg     func() *config.Config
}

// New creates a SubDL adapter reading configuration fresh on each call.
func New(clients *client.Clients, cfg func() *config.Config) *Adapter {
	return &Adapter{clients: clients, cfg: cfg}
}

// Service implements provider.Provider.
func (a *Adapter) Service() models.Service {
	return models.ServiceSubDL
}

// Enabled implements provider.Provider.
func (a *Adapter) Enabled() bool {
	cfg := a.cfg()
	return cfg.Services.SubDL.Enabled && cfg.APIKeyFor("subdl") != ""
}

// Supports implements provider.Provider. SubDL is the only catalog with
// identifier and filename lookup.
func (a *Adapter) Supports(method models.SearchMethod) bool {
	switch method {
	case models.MethodIdentifier, models.MethodFilename, models.MethodFreeText, models.MethodStandard:
		return true
	}
	return false
}

// Search implements provider.Provider.
func (a *Adapter) Search(ctx context.Context, query models.SearchQuery, method models.SearchMethod) ([]models.SubtitleResult, error) {
	logger := config.GetLogger()
	cfg := a.cfg()
	svc := cfg.Services.SubDL

	apiKey := cfg.APIKeyFor("subdl")
	if !svc.Enabled || apiKey == "" {
		return nil, apperrors.NewConfigurationError("subdl", "no API key configured")
	}

	languages := provider.MapLanguages(query.Languages, mapLanguage, supportedLanguages)
	if len(languages) == 0 {
		return nil, apperrors.NewConfigurationError("subdl", "no usable language after normalization")
	}

	params := url.Values{}
	params.Set("api_key", apiKey)
	params.Set("subs_per_page", strconv.Itoa(perPage(svc.SubsPerPage)))
	params.Set("languages", strings.Join(languages, ","))

	switch method {
	case models.MethodIdentifier:
		if query.Identifier == "" {
			return nil, nil
		}
		params.Set("imdb_id", query.Identifier)
	case models.MethodFilename:
		if query.Filename == "" {
			return nil, nil
		}
		params.Set("file_name", query.Filename)
	default:
		if query.Subject() == "" {
			return nil, nil
		}
		params.Set("film_name", query.Subject())
	}

	if query.IsSeries() {
		params.Set("type", "tv")
		params.Set("season_number", strconv.Itoa(query.Season))
		if query.Episode > 0 {
			params.Set("episode_number", strconv.Itoa(query.Episode))
		}
	} else {
		params.Set("type", "movie")
	}
	if query.Year > 0 {
		params.Set("year", strconv.Itoa(query.Year))
	}
	if svc.IncludeComments {
		params.Set("comment", "1")
	}
	if svc.IncludeReleases {
		params.Set("releases", "1")
	}
	if svc.FullSeason {
		params.Set("full_season", "1")
	}
	if svc.HearingImpaired {
		params.Set("hi", "1")
	}

	endpoint := svc.APIHost + "?" + params.Encode()
	req, err := client.NewAPIRequest(ctx, http.MethodGet, endpoint)
	if err != nil {
		return nil, err
	}

	resp, err := a.clients.Search.Do(req)
	if err != nil {
		return nil, apperrors.NewTransientServiceError("subdl", 0, err)
	}
	defer resp.Body.Close()

	if err := statusError(resp.StatusCode); err != nil {
		return nil, err
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, apperrors.NewPermanentServiceError("subdl", 0, fmt.Sprintf("malformed response: %v", err))
	}
	if !parsed.Status {
		logger.Debug().Str("error", parsed.Error).Str("method", method.String()).Msg("SubDL returned no results")
		return nil, nil
	}

	results := a.normalize(parsed, method)
	logger.Info().
		Int("results", len(results)).
		Str("method", method.String()).
		Strs("languages", languages).
		Msg("SubDL search completed")
	return results, nil
}

// normalize cross-references the two parallel response lists into the
// common record shape.
func (a *Adapter) normalize(parsed searchResponse, method models.SearchMethod) []models.SubtitleResult {
	// The media list rarely has more than one entry for a precise query;
	// index by sd_id prefix of the subtitle URL is not available, so take
	// the first match as the catalog context for every entry.
	var media mediaResult
	if len(parsed.Results) > 0 {
		media = parsed.Results[0]
	}

	results := make([]models.SubtitleResult, 0, len(parsed.Subtitles))
	for _, entry := range parsed.Subtitles {
		handle := extractHandle(entry.URL)
		if handle == "" {
			continue
		}

		title := entry.ReleaseName
		if title == "" {
			title = entry.Name
		}
		if title == "" {
			title = media.Name
		}

		release := entry.Releases
		if release == "" {
			release = entry.ReleaseName
		}

		year := ""
		if media.Year > 0 {
			year = strconv.Itoa(media.Year)
		}

		results = append(results, models.SubtitleResult{
			Title:           title,
			Language:        entry.Language,
			LanguageCode:    strings.ToLower(entry.Lang),
			Handle:          handle,
			Release:         release,
			Quality:         models.QualityFromRelease(release),
			Year:            year,
			HD:              models.IsHDRelease(release),
			HearingImpaired: entry.HearingImpaired,
			IsSeries:        entry.Season > 0 || media.Type == "tv",
			Season:          entry.Season,
			Episode:         entry.Episode,
			Uploader:        entry.Author,
			Comment:         entry.Comment,
			Service:         models.ServiceSubDL,
			Method:          method,
		})
	}
	return results
}

// Download implements provider.Provider: fetch the subtitle archive by
// handle, trying the direct .zip form first and the /download form when the
// first returns a non-200.
func (a *Adapter) Download(ctx context.Context, result models.SubtitleResult) ([]byte, error) {
	svc := a.cfg().Services.SubDL
	host := strings.TrimRight(svc.DownloadHost, "/")

	content, err := a.fetch(ctx, fmt.Sprintf("%s/subtitle/%s.zip", host, result.Handle))
	if err == nil {
		return content, nil
	}

	logger := config.GetLogger()
	logger.Debug().Err(err).Str("handle", result.Handle).Msg("Primary SubDL download URL failed, trying alternate form")
	return a.fetch(ctx, fmt.Sprintf("%s/%s/download", host, result.Handle))
}

func (a *Adapter) fetch(ctx context.Context, downloadURL string) ([]byte, error) {
	req, err := client.NewAPIRequest(ctx, http.MethodGet, downloadURL)
	if err != nil {
		return nil, err
	}

	resp, err := a.clients.Download.Do(req)
	if err != nil {
		return nil, apperrors.NewTransientServiceError("subdl", 0, err)
	}
	defer resp.Body.Close()

	if err := statusError(resp.StatusCode); err != nil {
		return nil, err
	}
	return io.ReadAll(resp.Body)
}

// extractHandle pulls the download handle out of a subtitle URL, falling
// back to the last path segment with any .zip suffix stripped.
func extractHandle(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	if match := handlePattern.FindStringSubmatch(rawURL); match != nil {
		return match[1]
	}

	trimmed := strings.TrimRight(rawURL, "/")
	segment := trimmed
	if idx := strings.LastIndex(trimmed, "/"); idx >= 0 {
		segment = trimmed[idx+1:]
	}
	return strings.TrimSuffix(segment, ".zip")
}

// statusError maps a non-success HTTP status onto the error taxonomy. The
// transport has already spent the retry budget by the time this sees a 5xx.
func statusError(status int) error {
	switch {
	case status == http.StatusOK:
		return nil
	case status == http.StatusTooManyRequests || status >= 500:
		return apperrors.NewTransientServiceError("subdl", status, nil)
	default:
		return apperrors.NewPermanentServiceError("subdl", status, "unexpected status")
	}
}

func perPage(configured int) int {
	if configured <= 0 {
		return 30
	}
	return configured
}
