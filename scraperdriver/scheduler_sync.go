// Adapted from original_source/driver/sync_driver.py's documented
// evolution ("Step 15: Replaces list queue with heapq priority queue"):
// a single worker draining a heap directly, shutdown checked as a
// polled boolean-like signal before each pop (SPEC_FULL.md §4.4/§5).
package scraperdriver

// runSync drives eng's queue with exactly one worker until it drains or
// stop is closed. Shutdown is completion-safe: the in-flight request
// finishes (both fetch and full continuation iteration) before the loop
// exits.
func runSync(eng *engine, stop <-chan struct{}) error {
	for {
		if shuttingDown(stop) {
			return nil
		}

		req := eng.queue.pop()
		if req == nil {
			return nil // empty queue, single worker so nothing else can be in-flight
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

func shuttingDown(stop <-chan struct{}) bool {
	if stop == nil {
		return false
	}
	select {
	case <-stop:
		return true
	default:
		return false
	}
}
