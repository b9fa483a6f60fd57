package dynrec

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// BatchOpt configures BindAll.
type BatchOpt struct {
	// Workers bounds the number of goroutines. Zero means GOMAXPROCS.
	Workers int
}

// BatchError wraps the first failure of a batch with the index of the source
// that caused it.
type BatchError struct {
	Index int
	Err   error
}

func (e *BatchError) Error() string { return fmt.Sprintf("dynrec: source %d: %v", e.Index, e.Err) }
func (e *BatchError) Unwrap() error { return e.Err }

// BindAll creates one instance of s per source map and populates it, fanning
// the work out over a bounded errgroup. Each instance is built by a single
// goroutine. The result is in input order; nil maps yield default instances.
// The first failure cancels the remaining work and is returned as a
// *BatchError.
func BindAll(ctx context.Context, s *Schema, sources []map[string]any, opt BatchOpt) ([]*Instance, error) {
	out := make([]*Instance, len(sources))
	if len(sources) == 0 {
		return out, nil
	}
	workers := opt.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, m := range sources {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			inst, err := CreateAndAssignMap(s, m)
			if err != nil {
				return &BatchError{Index: i, Err: err}
			}
			out[i] = inst
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
