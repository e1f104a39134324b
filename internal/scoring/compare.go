package scoring

import (
	"context"
	"sort"

	"github.com/rotisserie/eris"
	"golang.org/x/sync/errgroup"
)

// CompareLocations scores each candidate independently and returns the
// results sorted descending by score. The sort is stable, so equal scores
// keep their input order. Scoring runs on a bounded errgroup with results
// written by index, which keeps the output deterministic.
func (e *Engine) CompareLocations(ctx context.Context, locations []Location) ([]Result, error) {
	if len(locations) == 0 {
		return nil, nil
	}

	results := make([]Result, len(locations))

	g, gctx := errgroup.WithContext(ctx)
	limit := e.CompareConcurrency
	if limit <= 0 {
		limit = 1
	}
	g.SetLimit(limit)

	for i, loc := range locations {
		g.Go(func() error {
			r, err := e.ScoreLocation(gctx, loc)
			if err != nil {
				return eris.Wrapf(err, "scoring: compare location %d", i)
			}
			results[i] = *r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results, nil
}
