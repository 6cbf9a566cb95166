package concurrent

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/zeusync/evade/pkg/sequence"
)

// Concurrent runs action for each element of the iterator in its own
// goroutine, at most limit at a time (no limit when limit <= 0). The first
// error cancels the context passed to the remaining actions, stops pulling
// new elements and is returned.
func Concurrent[T any](ctx context.Context, i *sequence.Iterator[T], limit int, action func(context.Context, T) error) error {
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for value := range i.Seq() {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			return action(gctx, value)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// ParallelMap applies fn to each element with at most workers goroutines
// and returns the results in input order. On error the partial results are
// discarded.
func ParallelMap[T any, R any](ctx context.Context, i *sequence.Iterator[T], workers int, fn func(context.Context, T) (R, error)) ([]R, error) {
	in := i.Collect()
	out := make([]R, len(in))

	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for idx, val := range in {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			r, err := fn(gctx, val)
			if err != nil {
				return err
			}
			out[idx] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
