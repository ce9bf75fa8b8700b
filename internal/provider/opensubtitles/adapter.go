package opensubtitles

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/ciefp/subgrab/internal/apperrors"
	"github.com/ciefp/subgrab/internal/client"
	"github.com/ciefp/subgrab/internal/config"
	"github.com/ciefp/subgrab/internal/models"
	"github.com/ciefp/subgrab/internal/provider"
)

// Adapter queries the OpenSubtitles REST API. The catalog only supports
// free-text lookup, with season/episode folded into the query string.
type Adapter struct {
	clients *client.Clients
	cfg     func() *config.Config
}

// New creates an OpenSubtitles adapter reading configuration fresh on each call.
func New(clients *client.Clients, cfg func() *config.Config) *Adapter {
	return &Adapter{clients: clients, cfg: cfg}
}

// Service implements provider.Provider.
func (a *Adapter) Service() models.Service {
	return models.ServiceOpenSubtitles
}

// Enabled implements provider.Provider.
func (a *Adapter) Enabled() bool {
	cfg := a.cfg()
	return cfg.Services.OpenSubtitles.Enabled && cfg.APIKeyFor("opensubtitles") != ""
}

// Supports implements provider.Provider. No identifier or filename lookup.
func (a *Adapter) Supports(method models.SearchMethod) bool {
	return method == models.MethodStandard || method == models.MethodFreeText
}

// Search implements provider.Provider.
func (a *Adapter) Search(ctx context.Context, query models.SearchQuery, method models.SearchMethod) ([]models.SubtitleResult, error) {
	logger := config.GetLogger()
	cfg := a.cfg()
	svc := cfg.Services.OpenSubtitles

	apiKey := cfg.APIKeyFor("opensubtitles")
	if !svc.Enabled || apiKey == "" {
		return nil, apperrors.NewConfigurationError("opensubtitles", "no API key configured")
	}

	languages := provider.MapLanguages(query.Languages, mapLanguage, supportedLanguages)
	if len(languages) == 0 {
		return nil, apperrors.NewConfigurationError("opensubtitles", "no usable language after normalization")
	}

	subject := query.Subject()
	if subject == "" {
		return nil, nil
	}

	params := url.Values{}
	params.Set("query", queryString(subject, query))
	params.Set("languages", strings.Join(languages, ","))
	if query.IsSeries() {
		params.Set("type", "episode")
	}

	endpoint := strings.TrimRight(svc.APIHost, "/") + "/subtitles?" + params.Encode()
	req, err := client.NewAPIRequest(ctx, http.MethodGet, endpoint)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Api-Key", apiKey)

	resp, err := a.clients.Search.Do(req)
	if err != nil {
		return nil, apperrors.NewTransientServiceError("opensubtitles", 0, err)
	}
	defer resp.Body.Close()

	if err := statusError(resp.StatusCode); err != nil {
		return nil, err
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, apperrors.NewPermanentServiceError("opensubtitles", 0, fmt.Sprintf("malformed response: %v", err))
	}

	results := normalize(parsed, method)
	logger.Info().
		Int("results", len(results)).
		Str("query", params.Get("query")).
		Strs("languages", languages).
		Msg("OpenSubtitles search completed")
	return results, nil
}

// queryString appends the SxxEyy suffix the catalog expects for episode
// lookups instead of structured season/episode parameters.
func queryString(subject string, query models.SearchQuery) string {
	if query.IsSeries() && query.Episode > 0 {
		return fmt.Sprintf("%s S%02dE%02d", subject, query.Season, query.Episode)
	}
	if query.IsSeries() {
		return fmt.Sprintf("%s S%02d", subject, query.Season)
	}
	return subject
}

// normalize maps data[].attributes onto the common record shape. The first
// listed file is the download handle; entries without files are unusable
// and dropped.
func normalize(parsed searchResponse, method models.SearchMethod) []models.SubtitleResult {
	results := make([]models.SubtitleResult, 0, len(parsed.Data))
	for _, entry := range parsed.Data {
		attr := entry.Attributes
		if len(attr.Files) == 0 {
			continue
		}

		title := attr.FeatureDetails.Title
		if title == "" {
			title = attr.FeatureDetails.MovieName
		}
		if title == "" {
			title = attr.Files[0].FileName
		}

		year := ""
		if attr.FeatureDetails.Year > 0 {
			year = strconv.Itoa(attr.FeatureDetails.Year)
		}

		results = append(results, models.SubtitleResult{
			Title:           title,
			Language:        attr.Language,
			LanguageCode:    strings.ToLower(attr.Language),
			Handle:          strconv.Itoa(attr.Files[0].FileID),
			Downloads:       attr.DownloadCount,
			Rating:          attr.Ratings,
			Release:         attr.Release,
			Quality:         models.QualityFromRelease(attr.Release),
			Year:            year,
			HD:              attr.HD || models.IsHDRelease(attr.Release),
			HearingImpaired: attr.HearingImpaired,
			IsSeries:        attr.FeatureDetails.FeatureType == "Episode" || attr.FeatureDetails.SeasonNumber > 0,
			Season:          attr.FeatureDetails.SeasonNumber,
			Episode:         attr.FeatureDetails.EpisodeNumber,
			Uploader:        attr.Uploader.Name,
			FPS:             attr.FPS,
			Service:         models.ServiceOpenSubtitles,
			Method:          method,
		})
	}
	return results
}

// Download implements provider.Provider: POST the file id to the download
// endpoint, receive a signed time-limited link, then fetch that link.
func (a *Adapter) Download(ctx context.Context, result models.SubtitleResult) ([]byte, error) {
	cfg := a.cfg()
	svc := cfg.Services.OpenSubtitles
	apiKey := cfg.APIKeyFor("opensubtitles")
	if apiKey == "" {
		return nil, apperrors.NewConfigurationError("opensubtitles", "no API key configured")
	}

	fileID, err := strconv.Atoi(result.Handle)
	if err != nil {
		return nil, apperrors.NewContentError("opensubtitles", result.Handle, "handle is not a numeric file id")
	}

	body, err := json.Marshal(downloadRequest{FileID: fileID, SubFormat: "srt"})
	if err != nil {
		return nil, err
	}

	endpoint := strings.TrimRight(svc.APIHost, "/") + "/download"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", config.GetUserAgent())
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Api-Key", apiKey)

	resp, err := a.clients.Download.Do(req)
	if err != nil {
		return nil, apperrors.NewTransientServiceError("opensubtitles", 0, err)
	}
	defer resp.Body.Close()

	if err := statusError(resp.StatusCode); err != nil {
		return nil, err
	}

	var parsed downloadResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, apperrors.NewPermanentServiceError("opensubtitles", 0, fmt.Sprintf("malformed download response: %v", err))
	}
	if parsed.Link == "" {
		return nil, apperrors.NewPermanentServiceError("opensubtitles", 0, "download response carries no link")
	}

	linkReq, err := client.NewAPIRequest(ctx, http.MethodGet, parsed.Link)
	if err != nil {
		return nil, err
	}
	linkResp, err := a.clients.Download.Do(linkReq)
	if err != nil {
		return nil, apperrors.NewTransientServiceError("opensubtitles", 0, err)
	}
	defer linkResp.Body.Close()

	if err := statusError(linkResp.StatusCode); err != nil {
		return nil, err
	}
	return io.ReadAll(linkResp.Body)
}

func statusError(status int) error {
	switch {
	case status == http.StatusOK:
		return nil
	case status == http.StatusTooManyRequests || status >= 500:
		return apperrors.NewTransientServiceError("opensubtitles", status, nil)
	default:
		return apperrors.NewPermanentServiceError("opensubtitles", status, "unexpected status")
	}
}
