package emissions

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/ja7ad/emission/pkg/units"
)

// Total integrates readings across workers goroutines. Each worker folds a
// contiguous chunk; the partial sums are then folded in chunk order, so the
// result matches the sequential fold up to float rounding.
func Total(ctx context.Context, readings []Reading, workers int) (units.Energy, error) {
	if len(readings) == 0 {
		return units.Energy{}, ErrNoReadings
	}
	if workers <= 0 {
		return units.Energy{}, ErrBadWorkers
	}
	workers = min(workers, len(readings))

	chunk := (len(readings) + workers - 1) / workers
	partial := make([]units.Energy, workers)

	g, ctx := errgroup.WithContext(ctx)
	for w := range workers {
		lo := w * chunk
		hi := min(lo+chunk, len(readings))
		if lo >= hi {
			continue
		}
		g.Go(func() error {
			var sum units.Energy
			for _, r := range readings[lo:hi] {
				if err := ctx.Err(); err != nil {
					return err
				}
				sum = sum.Plus(r.Energy())
			}
			partial[w] = sum
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return units.Energy{}, err
	}
	return units.SumEnergy(partial...), nil
}
