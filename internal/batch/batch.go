// Package batch runs a per-item function over many inputs with a bounded
// number of goroutines and returns the results in input order.
package batch

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Map calls fn for every item using at most workers goroutines. Results are
// returned in the order of items. The first error cancels the context passed
// to the remaining calls and is returned.
//
// workers <= 0 means one goroutine per item.
func Map[In, Out any](ctx context.Context, items []In, workers int, fn func(context.Context, In) (Out, error)) ([]Out, error) {
	out := make([]Out, len(items))

	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}

	for i, item := range items {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := fn(gctx, item)
			if err != nil {
				return err
			}
			out[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	// Cancellation of the parent context before any work started.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return out, nil
}
