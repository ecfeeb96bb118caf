// Package parallel provides chunked parallel execution helpers for
// row-independent batch work such as fingerprinting and neighbor scans.
package parallel

import (
	"runtime"
	"sync"
)

// Parallelize splits items across up to runtime.NumCPU() workers and runs
// fn on each contiguous [start, end) range concurrently. Ranges never
// overlap, so fn may write to disjoint output rows without locking.
func Parallelize(items int, fn func(start, end int)) {
	ParallelizeWorkers(items, runtime.NumCPU(), fn)
}

// ParallelizeWorkers is Parallelize with an explicit worker cap.
func ParallelizeWorkers(items, workers int, fn func(start, end int)) {
	if items <= 0 {
		return
	}
	if workers <= 0 || workers > items {
		workers = items
	}
	if workers > runtime.NumCPU() {
		workers = runtime.NumCPU()
	}
	if workers <= 1 {
		fn(0, items)
		return
	}

	// Ceiling division so the last chunk absorbs the remainder.
	chunk := (items + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < items; start += chunk {
		end := start + chunk
		if end > items {
			end = items
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}

// ParallelizeWithThreshold runs sequentially below the threshold, where
// goroutine overhead outweighs the gain, and in parallel above it.
func ParallelizeWithThreshold(items, threshold int, fn func(start, end int)) {
	if items <= threshold {
		fn(0, items)
		return
	}
	Parallelize(items, fn)
}
