package pipeline

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"
)

// WorkResult is the outcome of one batched work item. Exactly one
// WorkResult is produced per input item; a worker failure carries the
// caller-supplied fallback value alongside its error.
type WorkResult[R any] struct {
	Index int
	Value R
	Err   error
}

// Failed reports whether the item's worker returned an error.
func (r WorkResult[R]) Failed() bool {
	return r.Err != nil
}

// Percentage converts a completed count into a rounded progress
// percentage. Keyed to count completed, not item index, so the reported
// sequence is monotonically non-decreasing regardless of finishing order
// within a batch.
func Percentage(completed, total int) int {
	if total <= 0 {
		return 100
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// RunBatched partitions items into consecutive groups of batchSize and
// invokes worker concurrently within a group, waiting for the whole group
// before starting the next. A fixed pause separates groups (not after the
// last). Worker errors and panics never escape: they are converted into a
// failure WorkResult carrying fallback(item, err).
//
// onResult, when non-nil, is called once per item as it finishes, with the
// running completed count; calls are serialized so emission order matches
// completion order.
func RunBatched[I, R any](
	ctx context.Context,
	items []I,
	batchSize int,
	pause time.Duration,
	worker func(ctx context.Context, item I) (R, error),
	fallback func(item I, err error) R,
	onResult func(completed, total int, result WorkResult[R]),
) []WorkResult[R] {
	if batchSize < 1 {
		batchSize = 1
	}

	total := len(items)
	results := make([]WorkResult[R], total)

	var mu sync.Mutex
	completed := 0

	finish := func(res WorkResult[R]) {
		mu.Lock()
		defer mu.Unlock()
		results[res.Index] = res
		completed++
		if onResult != nil {
			onResult(completed, total, res)
		}
	}

	for start := 0; start < total; start += batchSize {
		end := start + batchSize
		if end > total {
			end = total
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(idx int) {
				defer wg.Done()
				res := runOne(ctx, idx, items[idx], worker, fallback)
				finish(res)
			}(i)
		}
		wg.Wait()

		if end < total && pause > 0 {
			select {
			case <-time.After(pause):
			case <-ctx.Done():
				// Remaining items fail fast with the context error.
				for i := end; i < total; i++ {
					finish(WorkResult[R]{
						Index: i,
						Value: fallback(items[i], ctx.Err()),
						Err:   ctx.Err(),
					})
				}
				return results
			}
		}
	}
	return results
}

// runOne executes worker for a single item, converting errors and panics
// into a failure WorkResult.
func runOne[I, R any](
	ctx context.Context,
	idx int,
	item I,
	worker func(ctx context.Context, item I) (R, error),
	fallback func(item I, err error) R,
) (res WorkResult[R]) {
	defer func() {
		if p := recover(); p != nil {
			err := fmt.Errorf("worker panicked: %v", p)
			res = WorkResult[R]{Index: idx, Value: fallback(item, err), Err: err}
		}
	}()

	value, err := worker(ctx, item)
	if err != nil {
		return WorkResult[R]{Index: idx, Value: fallback(item, err), Err: err}
	}
	return WorkResult[R]{Index: idx, Value: value}
}
