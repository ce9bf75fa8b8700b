package aggregator

import (
	"context"
	"sync"

	"github.com/ciefp/subgrab/internal/config"
	"github.com/ciefp/subgrab/internal/metrics"
	"github.com/ciefp/subgrab/internal/models"
	"github.com/ciefp/subgrab/internal/provider"
)

// defaultMaxResults caps how many records a search hands back when the
// configuration does not say otherwise.
const defaultMaxResults = 50

// Aggregator orchestrates the catalog adapters: it fans a query out, merges
// and deduplicates the contributions, ranks them, and truncates to the
// result cap. It keeps no state between calls; configuration is read fresh
// at the start of each operation so keys and enable flags can change
// between searches without rebuilding anything.
type Aggregator struct {
	providers []provider.Provider
	cfg       func() *config.Config
}

// New creates an aggregator over the given adapters.
func New(cfg func() *config.Config, providers ...provider.Provider) *Aggregator {
	return &Aggregator{providers: providers, cfg: cfg}
}

// searchJob is one unit of the fan-out: a closed-over adapter call.
type searchJob func(ctx context.Context) ([]models.SubtitleResult, error)

// searchProvider issues one adapter search and counts its outcome.
func searchProvider(ctx context.Context, p provider.Provider, query models.SearchQuery, method models.SearchMethod) ([]models.SubtitleResult, error) {
	results, err := p.Search(ctx, query, method)
	metrics.RecordSearch(p.Service().String(), err)
	return results, err
}

// Stream fans the given jobs out in parallel and emits every record and
// error as it arrives. The channel closes when all jobs have finished.
func stream(ctx context.Context, jobs []searchJob) <-chan models.StreamResult[models.SubtitleResult] {
	out := make(chan models.StreamResult[models.SubtitleResult])
	var wg sync.WaitGroup
	wg.Add(len(jobs))

	for _, job := range jobs {
		job := job
		go func() {
			defer wg.Done()
			results, err := job(ctx)
			if err != nil {
				select {
				case out <- models.StreamResult[models.SubtitleResult]{Err: err}:
				case <-ctx.Done():
				}
				return
			}
			for _, result := range results {
				select {
				case out <- models.StreamResult[models.SubtitleResult]{Value: result}:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// collect drains a stream, logging errors and keeping values. An adapter
// failure never fails the search; it just contributes nothing.
func collect(results <-chan models.StreamResult[models.SubtitleResult]) []models.SubtitleResult {
	logger := config.GetLogger()
	var merged []models.SubtitleResult
	for item := range results {
		if item.Err != nil {
			logger.Warn().Err(item.Err).Msg("Adapter contributed nothing to the search")
			continue
		}
		merged = append(merged, item.Value)
	}
	return merged
}

// StreamSearch runs the combined search as a stream: every enabled adapter
// is queried with the same free-text query in parallel, and records are
// emitted as adapters complete. Callers that want the ranked set should use
// SearchAll, which collects from this stream.
func (a *Aggregator) StreamSearch(ctx context.Context, query models.SearchQuery) <-chan models.StreamResult[models.SubtitleResult] {
	if !query.HasSubject() {
		empty := make(chan models.StreamResult[models.SubtitleResult])
		close(empty)
		return empty
	}

	var jobs []searchJob
	for _, p := range a.providers {
		if !p.Enabled() {
			continue
		}
		p := p
		jobs = append(jobs, func(ctx context.Context) ([]models.SubtitleResult, error) {
			return searchProvider(ctx, p, query, models.MethodStandard)
		})
	}
	return stream(ctx, jobs)
}

// SearchAll queries every enabled adapter with the same query, then merges,
// deduplicates, ranks and truncates. One failing adapter degrades to a
// smaller result set; all of them failing degrades to an empty one.
func (a *Aggregator) SearchAll(ctx context.Context, query models.SearchQuery) []models.SubtitleResult {
	merged := collect(a.StreamSearch(ctx, query))
	merged = dedup(merged)
	rankCombined(merged)
	return truncate(merged, a.maxResults())
}

// SearchAllSmart runs the escalating search. Adapters with identifier and
// filename lookup try identifier first, then filename, then free text,
// stopping at the first tier that yields anything; every other enabled
// adapter is queried by free text in parallel. Results carry their tier tag
// and rank by tier quality.
func (a *Aggregator) SearchAllSmart(ctx context.Context, query models.SearchQuery) []models.SubtitleResult {
	if !query.HasSubject() {
		return nil
	}

	var jobs []searchJob
	for _, p := range a.providers {
		if !p.Enabled() {
			continue
		}
		p := p
		if p.Supports(models.MethodIdentifier) {
			jobs = append(jobs, a.escalate(p, query))
			continue
		}
		jobs = append(jobs, func(ctx context.Context) ([]models.SubtitleResult, error) {
			return searchProvider(ctx, p, query, models.MethodStandard)
		})
	}

	merged := collect(stream(ctx, jobs))
	merged = dedup(merged)
	rankSmart(merged)
	return truncate(merged, a.maxResults())
}

// escalate builds the tiered job for one identifier-capable adapter. A tier
// that errors or returns nothing hands over to the next; only the last
// tier's error surfaces.
func (a *Aggregator) escalate(p provider.Provider, query models.SearchQuery) searchJob {
	return func(ctx context.Context) ([]models.SubtitleResult, error) {
		logger := config.GetLogger()
		service := p.Service().String()

		identifier := query.Identifier
		if identifier == "" {
			identifier = ExtractIdentifier(query.Subject())
		}
		if identifier != "" {
			tierQuery := query
			tierQuery.Identifier = identifier
			results, err := searchProvider(ctx, p, tierQuery, models.MethodIdentifier)
			if err != nil {
				logger.Warn().Err(err).Str("service", service).Msg("Identifier tier failed, escalating")
			} else if len(results) > 0 {
				return results, nil
			} else {
				logger.Debug().Str("service", service).Str("identifier", identifier).Msg("Identifier tier empty, escalating")
			}
		}

		filename := query.Filename
		if filename == "" {
			filename = query.Title
		}
		if filename != "" {
			tierQuery := query
			tierQuery.Filename = filename
			results, err := searchProvider(ctx, p, tierQuery, models.MethodFilename)
			if err != nil {
				logger.Warn().Err(err).Str("service", service).Msg("Filename tier failed, escalating")
			} else if len(results) > 0 {
				return results, nil
			} else {
				logger.Debug().Str("service", service).Msg("Filename tier empty, escalating")
			}
		}

		if query.Subject() == "" {
			return nil, nil
		}
		return searchProvider(ctx, p, query, models.MethodFreeText)
	}
}

// SearchDirect runs one caller-chosen lookup method against a caller-chosen
// set of services, with no escalation: an empty tier is returned as-is.
// Adapters that cannot issue the method are skipped.
func (a *Aggregator) SearchDirect(ctx context.Context, query models.SearchQuery, method models.SearchMethod, services ...models.Service) []models.SubtitleResult {
	if !query.HasSubject() {
		return nil
	}

	chosen := make(map[models.Service]bool, len(services))
	for _, svc := range services {
		chosen[svc] = true
	}

	var jobs []searchJob
	for _, p := range a.providers {
		if !p.Enabled() || !p.Supports(method) {
			continue
		}
		if len(services) > 0 && !chosen[p.Service()] {
			continue
		}
		p := p
		jobs = append(jobs, func(ctx context.Context) ([]models.SubtitleResult, error) {
			return searchProvider(ctx, p, query, method)
		})
	}

	merged := collect(stream(ctx, jobs))
	merged = dedup(merged)
	rankCombined(merged)
	return truncate(merged, a.maxResults())
}

// Provider returns the adapter owning the given service tag, for download
// dispatch. Nil when no adapter claims the tag.
func (a *Aggregator) Provider(service models.Service) provider.Provider {
	for _, p := range a.providers {
		if p.Service() == service {
			return p
		}
	}
	return nil
}

func (a *Aggregator) maxResults() int {
	if cfg := a.cfg(); cfg.MaxResults > 0 {
		return cfg.MaxResults
	}
	return defaultMaxResults
}
