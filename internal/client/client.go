package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/ciefp/subgrab/internal/config"
)

// Clients bundles the two HTTP clients the catalog adapters share: one with
// the search timeout and one with the longer download timeout. Both sit on
// the same transport chain (proxy, transparent decompression, bounded retry).
type Clients struct {
	Search   *http.Client
	Download *http.Client
}

// New builds the shared HTTP clients from configuration.
func New(cfg *config.Config) *Clients {
	// Clone DefaultTransport to preserve its connection pooling and HTTP/2 settings.
	baseTransport := http.DefaultTransport.(*http.Transport).Clone()

	if cfg.ProxyConnectionString != "" {
		proxyURL, err := url.Parse(cfg.ProxyConnectionString)
		if err != nil {
			logger := config.GetLogger()
			logger.Warn().Err(err).Str("proxy", cfg.ProxyConnectionString).Msg("Invalid proxy URL, continuing without proxy")
		} else {
			baseTransport.Proxy = http.ProxyURL(proxyURL)
		}
	}

	// Decompression sits inside the retry layer so a retried attempt
	// negotiates its own encoding.
	transport := newRetryTransport(newCompressionTransport(baseTransport))

	return &Clients{
		Search: &http.Client{
			Timeout:   cfg.SearchTimeoutDuration(),
			Transport: transport,
		},
		Download: &http.Client{
			Timeout:   cfg.DownloadTimeoutDuration(),
			Transport: transport,
		},
	}
}

// NewAPIRequest creates a request identifying this application, for the JSON
// catalog APIs.
func NewAPIRequest(ctx context.Context, method, url string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", config.GetUserAgent())
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// NewBrowserRequest creates a request that looks like a regular browser, for
// the scraped catalog which blocks obvious automation.
func NewBrowserRequest(ctx context.Context, method, url string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", config.GetBrowserUserAgent())
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	return req, nil
}
