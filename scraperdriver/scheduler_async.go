// Adapted from original_source/driver/async_driver.py's AsyncDriver: N
// cooperatively-scheduled workers sharing one priority queue guarded by a
// mutex (pqueue.go), with shutdown polled on a timeout loop so the overall
// join is cancellable (SPEC_FULL.md §4.4/§5).
package scraperdriver

import (
	"sync"
	"time"
)

const asyncPollInterval = 50 * time.Millisecond

// runAsync starts numWorkers goroutines draining eng's queue concurrently.
// It returns the first error raised by any worker (if several fail
// concurrently, one is chosen arbitrarily — callers needing all failures
// should use OnTransientException/OnStructuralError instead of relying on
// Run's return value).
func runAsync(eng *engine, numWorkers int, stop <-chan struct{}) error {
	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := asyncWorkerLoop(eng, stop); err != nil {
				errOnce.Do(func() { firstErr = err })
			}
		}()
	}

	wg.Wait()
	return firstErr
}

func asyncWorkerLoop(eng *engine, stop <-chan struct{}) error {
	for {
		if shuttingDown(stop) {
			return nil
		}

		req := eng.queue.pop()
		if req == nil {
			if eng.queue.idle() {
				return nil
			}
			// Another worker still has a request in flight that may
			// enqueue more work; wait for either a wake signal or the
			// poll interval to elapse, then re-check — this is the
			// "shutdown polled on a timeout loop" behavior from §5.
			select {
			case <-eng.queue.notify:
			case <-time.After(asyncPollInterval):
			case <-stopOrNever(stop):
				return nil
			}
			continue
		}

		eng.queue.markInFlight(1)
		keepGoing, err := eng.processRequest(req)
		if err != nil {
			return err
		}
		if !keepGoing {
			return nil
		}
	}
}

// stopOrNever returns stop if non-nil, or a channel that never fires —
// letting the select above omit a nil-channel branch cleanly.
func stopOrNever(stop <-chan struct{}) <-chan struct{} {
	if stop != nil {
		return stop
	}
	return make(chan struct{})
}
