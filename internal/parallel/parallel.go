// Package parallel partitions a large slice of independent pixel
// indices into fixed-size chunks and processes them across a worker
// pool, checking for cancellation at chunk boundaries rather than
// mid-pixel.
package parallel

import (
	"context"
	"sync"
)

// Executor runs Work over a range of indices using Workers goroutines,
// each claiming chunks of ChunkSize indices at a time.
type Executor struct {
	// Workers is the number of concurrent goroutines. Values <= 0 are
	// treated as 1.
	Workers int
	// ChunkSize is the number of indices handed to a worker per claim.
	// Values <= 0 are treated as 1.
	ChunkSize int
}

// DefaultExecutor returns an Executor sized for the host machine: one
// worker per CPU (set by the caller, since internal/parallel avoids
// importing runtime to keep worker counts explicit and testable) and a
// chunk size of 2000.
func DefaultExecutor(workers int) Executor {
	if workers <= 0 {
		workers = 1
	}

	return Executor{Workers: workers, ChunkSize: 2000}
}

// Work processes a single index i and reports any error. Work must not
// mutate state shared with other indices' calls.
type Work func(i int) error

// Run dispatches indices [0, n) to e.Workers goroutines in chunks of
// e.ChunkSize, invoking work for every index. Cancellation of ctx is
// observed at chunk boundaries: a worker finishes its current chunk
// before checking ctx.Err(), so no partial chunk is left half-done.
// The first error encountered (from work or from ctx) is returned;
// work already dispatched to other workers still runs to completion
// of its in-flight chunk.
func Run(ctx context.Context, n int, e Executor, work Work) error {
	workers := e.Workers
	if workers <= 0 {
		workers = 1
	}
	chunkSize := e.ChunkSize
	if chunkSize <= 0 {
		chunkSize = 1
	}

	var next int
	var mu sync.Mutex
	claim := func() (start, end int, ok bool) {
		mu.Lock()
		defer mu.Unlock()
		if next >= n {
			return 0, 0, false
		}
		start = next
		end = start + chunkSize
		if end > n {
			end = n
		}
		next = end

		return start, end, true
	}

	var wg sync.WaitGroup
	errCh := make(chan error, workers)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for {
				select {
				case <-ctx.Done():
					errCh <- ctx.Err()

					return
				default:
				}

				start, end, ok := claim()
				if !ok {
					return
				}

				for i := start; i < end; i++ {
					if err := work(i); err != nil {
						errCh <- err

						return
					}
				}
			}
		}()
	}

	wg.Wait()
	close(errCh)

	for err := range errCh {
		if err != nil {
			return err
		}
	}

	return nil
}
