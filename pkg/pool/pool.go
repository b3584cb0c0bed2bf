package pool

import (
	"context"
	"sync"
)

// WorkerFunc processes one item and returns its result.
type WorkerFunc[T, R any] func(ctx context.Context, item T) (R, error)

// Map runs workerFunc over items with numWorkers goroutines. The returned
// slices line up with items: results[i] and errs[i] belong to items[i].
// Items that were never started because ctx ended get ctx.Err().
func Map[T, R any](ctx context.Context, items []T, numWorkers int, workerFunc WorkerFunc[T, R]) ([]R, []error) {
	if numWorkers < 1 {
		numWorkers = 1
	}
	results := make([]R, len(items))
	errs := make([]error, len(items))
	started := make([]bool, len(items))

	var wg sync.WaitGroup
	taskChan := make(chan int, numWorkers)

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range taskChan {
				results[idx], errs[idx] = workerFunc(ctx, items[idx])
			}
		}()
	}

OUT:
	for idx := range items {
		select {
		case taskChan <- idx:
			started[idx] = true
		case <-ctx.Done():
			// Stop feeding tasks if the context is cancelled
			break OUT
		}
	}
	close(taskChan)
	wg.Wait()

	for idx, ok := range started {
		if !ok {
			errs[idx] = ctx.Err()
		}
	}
	return results, errs
}

// FirstError returns the first non-nil error of errs.
func FirstError(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
