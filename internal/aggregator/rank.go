package aggregator

import (
	"sort"
	"strings"

	"github.com/ciefp/subgrab/internal/models"
)

// dedupTitleLen bounds the title part of the weak dedup key.
const dedupTitleLen = 50

// dedupKey collapses duplicates: the (service, handle) pair when a handle
// exists, else service plus truncated lowercased title plus language.
func dedupKey(r models.SubtitleResult) string {
	if r.Handle != "" {
		return r.Service.String() + "\x00" + r.Handle
	}
	title := strings.ToLower(r.Title)
	if len(title) > dedupTitleLen {
		title = title[:dedupTitleLen]
	}
	return r.Service.String() + "\x00" + title + "\x00" + r.Language
}

// dedup keeps the first-seen record for each key. Tags on a surviving
// record are not merged from its dropped duplicates.
func dedup(results []models.SubtitleResult) []models.SubtitleResult {
	seen := make(map[string]bool, len(results))
	out := results[:0]
	for _, r := range results {
		key := dedupKey(r)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}
	return out
}

// rankCombined orders a merged set for combined searches: public catalogs
// first, then most downloaded, then best rated. The trailing field
// comparisons make the order a pure function of record fields so a permuted
// input always ranks the same.
func rankCombined(results []models.SubtitleResult) {
	sort.Slice(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Service.Priority() != b.Service.Priority() {
			return a.Service.Priority() < b.Service.Priority()
		}
		if a.Downloads != b.Downloads {
			return a.Downloads > b.Downloads
		}
		if a.Rating != b.Rating {
			return a.Rating > b.Rating
		}
		return tieBreak(a, b)
	})
}

// rankSmart orders an escalated set: stronger lookup tiers first, then most
// downloaded.
func rankSmart(results []models.SubtitleResult) {
	sort.Slice(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Method.TierRank() != b.Method.TierRank() {
			return a.Method.TierRank() < b.Method.TierRank()
		}
		if a.Downloads != b.Downloads {
			return a.Downloads > b.Downloads
		}
		return tieBreak(a, b)
	})
}

func tieBreak(a, b models.SubtitleResult) bool {
	if a.Service != b.Service {
		return a.Service < b.Service
	}
	if a.Handle != b.Handle {
		return a.Handle < b.Handle
	}
	return a.Title < b.Title
}

func truncate(results []models.SubtitleResult, limit int) []models.SubtitleResult {
	if limit > 0 && len(results) > limit {
		return results[:limit]
	}
	return results
}
