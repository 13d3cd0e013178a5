package seq

import (
	"context"
	"iter"

	"golang.org/x/sync/errgroup"
)

// ForEach calls fn for each element in order. A nil fn is a no-op.
func ForEach[T any](s iter.Seq[T], fn func(T)) {
	if s == nil || fn == nil {
		return
	}
	for v := range s {
		fn(v)
	}
}

// ForEachAwait calls fn for each element in order, waiting for each call to
// return before starting the next. It stops at the first error, or when ctx
// is done before an element is started. A nil fn is a no-op.
func ForEachAwait[T any](ctx context.Context, s iter.Seq[T], fn func(context.Context, T) error) error {
	if s == nil || fn == nil {
		return nil
	}
	for v := range s {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(ctx, v); err != nil {
			return err
		}
	}
	return nil
}

// ForEachAsync runs ForEachAwait on a single background goroutine. The
// returned channel receives its result exactly once and is then closed.
//
//	done := seq.ForEachAsync(ctx, slices.Values(jobs), run)
//	// ... other work ...
//	if err := <-done; err != nil { ... }
func ForEachAsync[T any](ctx context.Context, s iter.Seq[T], fn func(context.Context, T) error) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer close(done)
		done <- ForEachAwait(ctx, s, fn)
	}()
	return done
}

// ForEachLimit calls fn for each element with at most limit calls in flight.
// Unlike the other helpers, calls may complete in any order. The first error
// cancels the context passed to the remaining calls and is returned.
// A limit below 1 means no limit.
func ForEachLimit[T any](ctx context.Context, s iter.Seq[T], limit int, fn func(context.Context, T) error) error {
	if s == nil || fn == nil {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for v := range s {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			return fn(gctx, v)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// Collect gathers a sequence into a slice.
func Collect[T any](s iter.Seq[T]) []T {
	if s == nil {
		return nil
	}
	var out []T
	for v := range s {
		out = append(out, v)
	}
	return out
}
