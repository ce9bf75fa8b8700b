package downloader

import (
	"context"
	"fmt"

	"github.com/ciefp/subgrab/internal/apperrors"
	"github.com/ciefp/subgrab/internal/cache"
	"github.com/ciefp/subgrab/internal/config"
	"github.com/ciefp/subgrab/internal/metrics"
	"github.com/ciefp/subgrab/internal/models"
	"github.com/ciefp/subgrab/internal/provider"
	"github.com/ciefp/subgrab/internal/subtitle"
)

// providerSource resolves the adapter owning a service tag. The aggregator
// satisfies it.
type providerSource interface {
	Provider(service models.Service) provider.Provider
}

// Downloader turns a search result into subtitle content: it dispatches the
// download to the owning adapter, caches the raw payload, unpacks archives,
// and repairs legacy encodings. It never substitutes a different result for
// the one it was handed.
type Downloader struct {
	source   providerSource
	payloads cache.Cache
	cfg      func() *config.Config
}

// New creates a downloader over the given adapter source. The payload cache
// may be nil, in which case every fetch goes to the catalog.
func New(source providerSource, payloads cache.Cache, cfg func() *config.Config) *Downloader {
	return &Downloader{source: source, payloads: payloads, cfg: cfg}
}

// Fetch downloads and resolves the subtitle behind one search result.
// Archive payloads are unpacked, the extension is fixed by content
// sniffing, and text that is not valid UTF-8 is transcoded. A payload the
// sniffer rejects (an error page, garbage) is a content failure carrying
// the service tag and handle.
func (d *Downloader) Fetch(ctx context.Context, result models.SubtitleResult) (*models.ResolvedSubtitle, error) {
	if result.Handle == "" {
		return nil, apperrors.NewContentError(result.Service.String(), "", "result carries no download handle")
	}

	raw, err := d.payload(ctx, result)
	if err != nil {
		return nil, err
	}

	content, ext, ok := subtitle.ClassifyAndExtract(raw)
	if !ok {
		return nil, apperrors.NewContentError(result.Service.String(), result.Handle, "payload is not recognizable subtitle content")
	}
	content = subtitle.EnsureUTF8(content, result.LanguageCode)

	logger := config.GetLogger()
	logger.Debug().
		Str("ref", result.Ref()).
		Str("extension", ext).
		Int("bytes", len(content)).
		Msg("Resolved subtitle payload")

	return &models.ResolvedSubtitle{
		Content:   content,
		Extension: ext,
		Result:    result,
	}, nil
}

// payload returns the raw catalog bytes for a result, consulting the cache
// first. Only successful downloads are cached.
func (d *Downloader) payload(ctx context.Context, result models.SubtitleResult) ([]byte, error) {
	key := payloadKey(result)
	if d.payloads != nil {
		if raw, found := d.payloads.Get(key); found {
			return raw, nil
		}
	}

	p := d.source.Provider(result.Service)
	if p == nil {
		return nil, apperrors.NewConfigurationError(result.Service.String(), "no adapter registered for service")
	}
	raw, err := p.Download(ctx, result)
	metrics.RecordDownload(result.Service.String(), err)
	if err != nil {
		return nil, err
	}

	if d.payloads != nil {
		d.payloads.Set(key, raw)
	}
	return raw, nil
}

func payloadKey(result models.SubtitleResult) string {
	return fmt.Sprintf("payload:%s:%s", result.Service, result.Handle)
}
