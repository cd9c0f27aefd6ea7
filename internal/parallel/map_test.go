package parallel_test

import (
	"context"
	"errors"
	"iter"
	"testing"
	"testing/synctest"
	"time"

	"github.com/RadteamBaoDA/xlsx2pdf/internal/parallel"
	"github.com/stretchr/testify/require"
)

func TestMap(t *testing.T) {
	t.Parallel()

	f := func(_ context.Context, d time.Duration) (int, error) {
		time.Sleep(d)
		return int(d), nil
	}

	input := []time.Duration{1 * time.Second, 2 * time.Second, 5 * time.Second}
	expected := []int{
		int(1 * time.Second),
		int(2 * time.Second),
		int(5 * time.Second),
	}

	var testCases = []struct {
		scenario string
		limit    int
		elapsed  time.Duration
	}{
		{"limit 1", 1, 8 * time.Second},
		{"limit 10", 10, 5 * time.Second},
	}

	for _, tt := range testCases {
		t.Run(tt.scenario, func(t *testing.T) {
			t.Parallel()
			synctest.Test(t, func(t *testing.T) {
				start := time.Now()
				got := values(parallel.NewMap(t.Context(), tt.limit, f).Iter(all(input)))
				require.ElementsMatch(t, expected, got)
				require.Equal(t, tt.elapsed, time.Since(start))
			})
		})
	}
}

func TestMapCancel(t *testing.T) {
	t.Parallel()
	synctest.Test(t, func(t *testing.T) {
		ctx, cancel := context.WithTimeout(t.Context(), 1*time.Second)
		defer cancel()

		f := func(ctx context.Context, d time.Duration) (int, error) {
			select {
			case <-time.After(d):
				return int(d), nil
			case <-ctx.Done():
				return 0, ctx.Err()
			}
		}
		input := []time.Duration{10 * time.Second, 20 * time.Second}

		start := time.Now()
		_ = values(parallel.NewMap(ctx, 2, f).Iter(all(input)))
		require.LessOrEqual(t, time.Since(start), 2*time.Second)
	})
}

func TestMapErrors(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")
	f := func(_ context.Context, n int) (int, error) {
		if n%2 == 0 {
			return 0, boom
		}
		return n, nil
	}

	var oks, errs int
	for v, err := range parallel.NewMap(t.Context(), 4, f).Iter(all([]int{1, 2, 3, 4})) {
		if err != nil {
			require.ErrorIs(t, err, boom)
			errs++
			continue
		}
		require.NotZero(t, v)
		oks++
	}
	require.Equal(t, 2, oks)
	require.Equal(t, 2, errs)
}

func all[T any](s []T) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for _, x := range s {
			if !yield(x, nil) {
				return
			}
		}
	}
}

func values[T any](i iter.Seq2[T, error]) []T {
	var ret []T
	for k, err := range i {
		if err != nil {
			continue
		}
		ret = append(ret, k)
	}
	return ret
}
