// Package parallel provides a bounded, context-aware parallel mapper over
// error-carrying iterators. The batch resolver uses it to turn discovered
// documents into fully resolved tasks.
package parallel

import (
	"context"
	"iter"

	"golang.org/x/sync/errgroup"
)

type pair[D any] struct {
	d D
	e error
}

// Map fans entries from an input iterator onto at most limit concurrent
// calls of mapFunc and yields the results as they complete. Input order is
// not preserved. A cancelled context ends the iteration early.
type Map[E, D any] struct {
	ctx     context.Context
	cancel  context.CancelFunc
	g       *errgroup.Group
	gctx    context.Context
	results chan pair[D]
	mapFunc func(context.Context, E) (D, error)
}

func NewMap[E, D any](parent context.Context, limit int, mapFunc func(context.Context, E) (D, error)) *Map[E, D] {
	ctx, cancel := context.WithCancel(parent)
	g, gctx := errgroup.WithContext(ctx)
	// one extra slot for the feeding goroutine
	g.SetLimit(limit + 1)

	return &Map[E, D]{
		ctx:     ctx,
		cancel:  cancel,
		g:       g,
		gctx:    gctx,
		results: make(chan pair[D], limit),
		mapFunc: mapFunc,
	}
}

// Iter consumes seq and returns the iterator of mapped results. Entries that
// arrive with an error are skipped, mapFunc errors are yielded alongside
// their zero result.
func (m *Map[E, D]) Iter(seq iter.Seq2[E, error]) iter.Seq2[D, error] {
	return func(yield func(D, error) bool) {
		defer m.cancel()
		m.feed(seq)

		go func() {
			_ = m.g.Wait()
			close(m.results)
		}()

		for r := range m.results {
			if m.ctx.Err() != nil {
				return
			}
			if !yield(r.d, r.e) {
				return
			}
		}
	}
}

func (m *Map[E, D]) feed(seq iter.Seq2[E, error]) {
	m.g.Go(func() error {
		for entry, err := range seq {
			if err != nil {
				continue
			}
			m.g.Go(func() error {
				d, mapErr := m.mapFunc(m.gctx, entry)
				select {
				case <-m.gctx.Done():
					return m.gctx.Err()
				case m.results <- pair[D]{d: d, e: mapErr}:
				}
				return nil
			})
		}
		return nil
	})
}
