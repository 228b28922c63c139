package scorer

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
)

// RankOptions controls Rank.
type RankOptions struct {
	// Limit caps the number of results; 0 keeps all.
	Limit int
	// KeepNonPositive keeps articles scoring 0 or less.
	KeepNonPositive bool
	// Workers bounds concurrent scoring; 0 uses GOMAXPROCS.
	Workers int
}

// Ranked is an article with its score.
type Ranked struct {
	Article Article `json:"article"`
	Result
}

// Rank scores a batch of candidates for one reader and returns them best
// first. Article IDs must be present and unique within the batch. liked holds the IDs
// of articles the reader already liked.
func (e *Engine) Rank(ctx context.Context, articles []Article, p *Preferences, liked map[string]bool, opts RankOptions) ([]Ranked, error) {
	if err := ValidatePreferences(p); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(articles))
	for i := range articles {
		if err := ValidateArticle(&articles[i]); err != nil {
			return nil, err
		}
		if articles[i].ID == "" {
			return nil, fmt.Errorf("%w: article %d has no id", ErrInvalidInput, i)
		}
		if seen[articles[i].ID] {
			return nil, fmt.Errorf("%w: duplicate article id %q", ErrInvalidInput, articles[i].ID)
		}
		seen[articles[i].ID] = true
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]Ranked, len(articles))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range articles {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			a := &articles[i]
			result, err := e.score(a, p, liked[a.ID])
			if err != nil {
				return fmt.Errorf("article %s: %w", a.ID, err)
			}
			results[i] = Ranked{Article: *a, Result: result}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ranked := results[:0]
	for _, r := range results {
		if r.Score > 0 || opts.KeepNonPositive {
			ranked = append(ranked, r)
		}
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Article.ID < ranked[j].Article.ID
	})

	if opts.Limit > 0 && len(ranked) > opts.Limit {
		ranked = ranked[:opts.Limit]
	}
	return ranked, nil
}
