package batch

import (
	"context"

	"github.com/alitto/pond/v2"

	"github.com/reef-chain/explorer-backtracker/internal/types"
)

// TaskFunc resolves a single item. A returned error aborts the whole run.
type TaskFunc[T, R any] func(ctx context.Context, item T) (R, error)

// InWaves runs fn over items in fixed-size waves. At most size calls are in flight,
// and a wave is fully awaited before the next one starts.
// Results keep the input order. The first error cancels the current wave and is returned.
func InWaves[T, R any](ctx context.Context, items []T, size int, fn TaskFunc[T, R]) ([]R, error) {
	if len(items) == 0 {
		return nil, nil
	}

	waves := types.Chunk(items, size)
	pool := pond.NewResultPool[R](len(waves[0]), pond.WithContext(ctx))
	defer pool.StopAndWait()

	results := make([]R, 0, len(items))
	for _, wave := range waves {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		waveCtx, cancel := context.WithCancel(ctx)
		group := pool.NewGroupContext(waveCtx)
		for _, item := range wave {
			group.SubmitErr(func() (R, error) {
				return fn(waveCtx, item)
			})
		}

		waveResults, err := group.Wait()
		cancel()
		if err != nil {
			return nil, err
		}
		results = append(results, waveResults...)
	}

	return results, nil
}
