package testutil

import (
	"context"

	"github.com/ciefp/subgrab/internal/models"
)

// CollectResults consumes a streaming search until the channel closes and
// returns everything it emitted, values and errors separately.
func CollectResults(ctx context.Context, stream <-chan models.StreamResult[models.SubtitleResult]) ([]models.SubtitleResult, []error) {
	var results []models.SubtitleResult
	var errs []error
	for {
		select {
		case item, ok := <-stream:
			if !ok {
				return results, errs
			}
			if item.Err != nil {
				errs = append(errs, item.Err)
				continue
			}
			results = append(results, item.Value)
		case <-ctx.Done():
			errs = append(errs, ctx.Err())
			return results, errs
		}
	}
}
