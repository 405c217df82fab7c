package visibility

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Source is one origin to sweep from, such as a light or a token
type Source struct {
	ID     string
	Origin Point
	Config Config
	Shapes []Shape // extra boundaries; when set the sweep goes through Compose
}

// Run computes the polygon for a single source
func (s Source) Run(walls CandidateSource) (*Result, error) {
	if len(s.Shapes) > 0 {
		return Compose(s.Origin, walls, s.Config, s.Shapes...)
	}
	return Compute(s.Origin, walls, s.Config)
}

// ComputeAll sweeps every source in parallel over the same walls. The walls
// must not change until it returns. Results are in source order. The first
// failure, or the context ending, cancels the sweeps not yet started.
func ComputeAll(ctx context.Context, walls CandidateSource, sources []Source, limit int) ([]*Result, error) {
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	results := make([]*Result, len(sources))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := src.Run(walls)
			if err != nil {
				return fmt.Errorf("source %q: %w", src.ID, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
