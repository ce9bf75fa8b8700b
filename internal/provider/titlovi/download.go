package titlovi

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ciefp/subgrab/internal/apperrors"
	"github.com/ciefp/subgrab/internal/client"
	"github.com/ciefp/subgrab/internal/config"
	"github.com/ciefp/subgrab/internal/models"
	"github.com/ciefp/subgrab/internal/subtitle"
)

var metaRefreshPattern = regexp.MustCompile(`(?is)<meta[^>]+http-equiv=["']refresh["'][^>]+content=["'][^"']*url=([^"'>\s]+)`)

// Download implements provider.Provider. The site exposes no download API,
// so the detail page is searched for a way in, strategies tried in order:
// a download form, a direct link, a meta-refresh redirect, the detail URL
// with ?download=1, and finally a POST against the known download endpoint.
// Every payload is sniffed before being accepted; an HTML error page served
// with status 200 is rejected, not returned as subtitle content.
func (a *Adapter) Download(ctx context.Context, result models.SubtitleResult) ([]byte, error) {
	logger := config.GetLogger()
	svc := a.cfg().Services.Titlovi

	if !svc.Enabled {
		return nil, apperrors.NewConfigurationError("titlovi", "service disabled")
	}

	detailURL := a.detailURL(result.Handle)
	html, err := a.cachedPage(ctx, result.Handle)
	if err != nil {
		return nil, err
	}

	for _, strategy := range []struct {
		name string
		run  func() ([]byte, error)
	}{
		{"form", func() ([]byte, error) { return a.submitDownloadForm(ctx, html, detailURL) }},
		{"direct-link", func() ([]byte, error) { return a.followDirectLink(ctx, html, detailURL) }},
		{"meta-refresh", func() ([]byte, error) { return a.followMetaRefresh(ctx, html, detailURL) }},
		{"query-param", func() ([]byte, error) { return a.fetchPayload(ctx, detailURL+"?download=1") }},
		{"post-endpoint", func() ([]byte, error) { return a.postDownloadEndpoint(ctx, result.Handle) }},
	} {
		payload, err := strategy.run()
		if err != nil {
			logger.Debug().Err(err).Str("strategy", strategy.name).Str("handle", result.Handle).Msg("Download strategy failed")
			continue
		}
		if !acceptable(payload) {
			logger.Debug().Str("strategy", strategy.name).Str("handle", result.Handle).Msg("Download strategy yielded non-subtitle payload")
			continue
		}
		logger.Info().Str("strategy", strategy.name).Str("handle", result.Handle).Int("size", len(payload)).Msg("Titlovi download succeeded")
		return payload, nil
	}

	return nil, apperrors.NewContentError("titlovi", result.Handle, "no download strategy yielded a subtitle payload")
}

// acceptable reports whether a payload sniffs as subtitle content or a
// subtitle archive rather than an HTML page or unrecognized bytes.
func acceptable(payload []byte) bool {
	switch subtitle.Classify(payload) {
	case subtitle.KindHTMLPage, subtitle.KindUnknown:
		return false
	}
	return true
}

// submitDownloadForm finds a form whose action mentions downloading and
// submits it with its hidden fields.
func (a *Adapter) submitDownloadForm(ctx context.Context, html, base string) ([]byte, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	var action string
	fields := url.Values{}
	doc.Find("form").EachWithBreak(func(_ int, form *goquery.Selection) bool {
		act, _ := form.Attr("action")
		if !strings.Contains(strings.ToLower(act), "download") && !strings.Contains(strings.ToLower(act), "preuzmi") {
			return true
		}
		action = act
		form.Find("input").Each(func(_ int, input *goquery.Selection) {
			name, _ := input.Attr("name")
			value, _ := input.Attr("value")
			if name != "" {
				fields.Set(name, value)
			}
		})
		return false
	})
	if action == "" {
		return nil, apperrors.NewNotFoundError("download form", nil)
	}

	target, err := resolveURL(base, action)
	if err != nil {
		return nil, err
	}
	return a.postForm(ctx, target, fields)
}

// followDirectLink looks for an anchor that points straight at an archive
// or a download path.
func (a *Adapter) followDirectLink(ctx context.Context, html, base string) ([]byte, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	var link string
	doc.Find("a[href]").EachWithBreak(func(_ int, anchor *goquery.Selection) bool {
		href, _ := anchor.Attr("href")
		lower := strings.ToLower(href)
		if strings.HasSuffix(lower, ".zip") || strings.HasSuffix(lower, ".rar") || strings.Contains(lower, "/download/") {
			link = href
			return false
		}
		return true
	})
	if link == "" {
		return nil, apperrors.NewNotFoundError("direct download link", nil)
	}

	target, err := resolveURL(base, link)
	if err != nil {
		return nil, err
	}
	return a.fetchPayload(ctx, target)
}

// followMetaRefresh chases a meta-refresh redirect on the detail page.
func (a *Adapter) followMetaRefresh(ctx context.Context, html, base string) ([]byte, error) {
	match := metaRefreshPattern.FindStringSubmatch(html)
	if match == nil {
		return nil, apperrors.NewNotFoundError("meta refresh", nil)
	}
	target, err := resolveURL(base, match[1])
	if err != nil {
		return nil, err
	}
	return a.fetchPayload(ctx, target)
}

// postDownloadEndpoint is the last resort: POST the candidate id against
// the site's known download endpoint.
func (a *Adapter) postDownloadEndpoint(ctx context.Context, handle string) ([]byte, error) {
	id := handle
	if idx := strings.LastIndex(handle, "-"); idx >= 0 {
		id = handle[idx+1:]
	}

	endpoint := strings.TrimRight(a.cfg().Services.Titlovi.BaseURL, "/") + "/download/"
	fields := url.Values{}
	fields.Set("type", "1")
	fields.Set("mediaid", id)
	return a.postForm(ctx, endpoint, fields)
}

func (a *Adapter) fetchPayload(ctx context.Context, payloadURL string) ([]byte, error) {
	req, err := client.NewBrowserRequest(ctx, http.MethodGet, payloadURL)
	if err != nil {
		return nil, err
	}
	return a.doPayload(req)
}

func (a *Adapter) postForm(ctx context.Context, target string, fields url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, strings.NewReader(fields.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", config.GetBrowserUserAgent())
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return a.doPayload(req)
}

func (a *Adapter) doPayload(req *http.Request) ([]byte, error) {
	resp, err := a.clients.Download.Do(req)
	if err != nil {
		return nil, apperrors.NewTransientServiceError("titlovi", 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewPermanentServiceError("titlovi", resp.StatusCode, "unexpected status")
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NewTransientServiceError("titlovi", 0, err)
	}
	if len(payload) == 0 {
		return nil, apperrors.NewContentError("titlovi", req.URL.String(), "empty payload")
	}
	return payload, nil
}

func resolveURL(base, ref string) (string, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	refURL, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return "", err
	}
	return baseURL.ResolveReference(refURL).String(), nil
}
