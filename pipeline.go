package lumen

import "sync"

// task calls fn for every index in [0, n), split in contiguous chunks over
// workersCount goroutines. fn must only touch data owned by its index.
func task(workersCount, n int, fn func(i int)) {
	if workersCount <= 1 || n < 2 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}

	var wg sync.WaitGroup
	chunkSize := (n + workersCount - 1) / workersCount

	for start := 0; start < n; start += chunkSize {
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				fn(i)
			}
		}(start, min(start+chunkSize, n))
	}
	wg.Wait()
}
