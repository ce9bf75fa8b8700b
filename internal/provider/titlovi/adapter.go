package titlovi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"

	"github.com/ciefp/subgrab/internal/apperrors"
	"github.com/ciefp/subgrab/internal/cache"
	"github.com/ciefp/subgrab/internal/client"
	"github.com/ciefp/subgrab/internal/config"
	"github.com/ciefp/subgrab/internal/models"
	"github.com/ciefp/subgrab/internal/provider"
)

const (
	// candidateCap bounds how many search hits become records at all.
	candidateCap = 10
	// detailCap bounds how many of those get the expensive secondary fetch.
	// The rest become placeholder records with title and handle only.
	detailCap = 5

	catalogPath = "/titlovi/"
)

// candidateHrefPattern matches catalog entry links: /titlovi/<slug>-<id>/
var candidateHrefPattern = regexp.MustCompile(`/titlovi/([a-z0-9][a-z0-9.\-]*)-(\d+)/?$`)

// Adapter scrapes the public Titlovi catalog. There is no structured API:
// search results come from anchor hrefs on the search page, metadata from a
// per-candidate detail-page fetch. No API key needed, only free-text lookup.
type Adapter struct {
	clients *client.Clients
	cfg     func() *config.Config
	// pages caches detail-page HTML between search and download so a
	// download does not hit the site twice. May be nil.
	pages cache.Cache
}

// New creates a Titlovi adapter. The pages cache is optional.
func New(clients *client.Clients, cfg func() *config.Config, pages cache.Cache) *Adapter {
	return &Adapter{clients: clients, cfg: cfg, pages: pages}
}

// Service implements provider.Provider.
func (a *Adapter) Service() models.Service {
	return models.ServiceTitlovi
}

// Enabled implements provider.Provider. No key needed, just the flag.
func (a *Adapter) Enabled() bool {
	return a.cfg().Services.Titlovi.Enabled
}

// Supports implements provider.Provider. Scraping only answers free text.
func (a *Adapter) Supports(method models.SearchMethod) bool {
	return method == models.MethodStandard || method == models.MethodFreeText
}

type candidate struct {
	slug string
	id   string
}

// handle renders the opaque download handle: the "<slug>-<id>" path segment
// of the candidate's detail page.
func (c candidate) handle() string {
	return c.slug + "-" + c.id
}

// Search implements provider.Provider.
func (a *Adapter) Search(ctx context.Context, query models.SearchQuery, method models.SearchMethod) ([]models.SubtitleResult, error) {
	logger := config.GetLogger()
	svc := a.cfg().Services.Titlovi

	if !svc.Enabled {
		return nil, apperrors.NewConfigurationError("titlovi", "service disabled")
	}

	languages := provider.MapLanguages(query.Languages, mapLanguage, supportedLanguages)
	if len(languages) == 0 {
		return nil, apperrors.NewConfigurationError("titlovi", "no usable language after normalization")
	}

	subject := query.Subject()
	if subject == "" {
		return nil, nil
	}

	searchURL := fmt.Sprintf("%s%s?prijevod=%s",
		strings.TrimRight(svc.BaseURL, "/"), catalogPath, url.QueryEscape(subject))
	body, err := a.fetchPage(ctx, searchURL)
	if err != nil {
		return nil, err
	}

	candidates, err := parseCandidates(body)
	if err != nil {
		return nil, apperrors.NewPermanentServiceError("titlovi", 0, fmt.Sprintf("unparseable search page: %v", err))
	}
	if len(candidates) > candidateCap {
		candidates = candidates[:candidateCap]
	}

	logger.Debug().Int("candidates", len(candidates)).Str("query", subject).Msg("Parsed Titlovi search page")

	wanted := make(map[string]bool, len(languages))
	for _, code := range languages {
		wanted[code] = true
	}

	results := make([]models.SubtitleResult, 0, len(candidates))
	for i, cand := range candidates {
		if i >= detailCap {
			// Past the detail cutoff: placeholder record instead of dropping.
			results = append(results, placeholderResult(cand, method))
			continue
		}

		detailHTML, err := a.detailPage(ctx, cand)
		if err != nil {
			logger.Warn().Err(err).Str("handle", cand.handle()).Msg("Detail fetch failed, keeping placeholder")
			results = append(results, placeholderResult(cand, method))
			continue
		}

		info := parseDetail(detailHTML)
		if info.Code != "" && !wanted[info.Code] {
			continue
		}
		results = append(results, detailedResult(cand, info, method))
	}

	logger.Info().
		Int("results", len(results)).
		Str("query", subject).
		Strs("languages", languages).
		Msg("Titlovi search completed")
	return results, nil
}

func placeholderResult(cand candidate, method models.SearchMethod) models.SubtitleResult {
	return models.SubtitleResult{
		Title:   titleFromSlug(cand.slug),
		Handle:  cand.handle(),
		Service: models.ServiceTitlovi,
		Method:  method,
	}
}

func detailedResult(cand candidate, info detailInfo, method models.SearchMethod) models.SubtitleResult {
	title := info.Title
	if title == "" {
		title = titleFromSlug(cand.slug)
	}
	return models.SubtitleResult{
		Title:        title,
		Language:     info.Language,
		LanguageCode: info.Code,
		Handle:       cand.handle(),
		Downloads:    info.Downloads,
		Release:      info.Release,
		Quality:      models.QualityFromRelease(info.Release),
		Year:         info.Year,
		HD:           models.IsHDRelease(info.Release),
		IsSeries:     info.Season > 0,
		Season:       info.Season,
		Episode:      info.Episode,
		FPS:          info.FPS,
		Service:      models.ServiceTitlovi,
		Method:       method,
	}
}

// parseCandidates pulls catalog entry links from a search page, first seen
// wins, deduplicated by id.
func parseCandidates(html string) ([]candidate, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	var candidates []candidate
	seen := make(map[string]bool)
	doc.Find("a[href]").Each(func(_ int, anchor *goquery.Selection) {
		href, _ := anchor.Attr("href")
		match := candidateHrefPattern.FindStringSubmatch(strings.ToLower(href))
		if match == nil || seen[match[2]] {
			return
		}
		seen[match[2]] = true
		candidates = append(candidates, candidate{slug: match[1], id: match[2]})
	})
	return candidates, nil
}

func titleFromSlug(slug string) string {
	words := strings.Fields(strings.ReplaceAll(slug, "-", " "))
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

// detailURL builds the candidate page URL from a handle.
func (a *Adapter) detailURL(handle string) string {
	return strings.TrimRight(a.cfg().Services.Titlovi.BaseURL, "/") + catalogPath + handle + "/"
}

// detailPage fetches a candidate's detail page through the page cache.
func (a *Adapter) detailPage(ctx context.Context, cand candidate) (string, error) {
	return a.cachedPage(ctx, cand.handle())
}

func (a *Adapter) cachedPage(ctx context.Context, handle string) (string, error) {
	cacheKey := "titlovi:page:" + handle
	if a.pages != nil {
		if cached, ok := a.pages.Get(cacheKey); ok {
			return string(cached), nil
		}
	}

	html, err := a.fetchPage(ctx, a.detailURL(handle))
	if err != nil {
		return "", err
	}
	if a.pages != nil {
		a.pages.Set(cacheKey, []byte(html))
	}
	return html, nil
}

// fetchPage GETs a page with browser headers and returns UTF-8 HTML.
func (a *Adapter) fetchPage(ctx context.Context, pageURL string) (string, error) {
	req, err := client.NewBrowserRequest(ctx, http.MethodGet, pageURL)
	if err != nil {
		return "", err
	}

	resp, err := a.clients.Search.Do(req)
	if err != nil {
		return "", apperrors.NewTransientServiceError("titlovi", 0, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return "", apperrors.NewTransientServiceError("titlovi", resp.StatusCode, nil)
	default:
		return "", apperrors.NewPermanentServiceError("titlovi", resp.StatusCode, "unexpected status")
	}

	// The site serves legacy code pages depending on template age; normalize
	// to UTF-8 before any parsing.
	reader, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return "", apperrors.NewPermanentServiceError("titlovi", 0, fmt.Sprintf("charset detection failed: %v", err))
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return "", apperrors.NewTransientServiceError("titlovi", 0, err)
	}
	return string(body), nil
}
