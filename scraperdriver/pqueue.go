// Adapted from original_source/driver/async_driver.py's
// asyncio.PriorityQueue[tuple[priority, counter, request]] and the matching
// heapq variant documented in sync_driver.py's docstring ("Step 15:
// Replaces list queue with heapq priority queue"). Go's container/heap
// plays the role of heapq; the monotonic counter is incremented under the
// same lock that pushes, per SPEC_FULL.md §9.
package scraperdriver

import (
	"container/heap"
	"net/url"
	"sync"
)

// FairnessStrategy selects how the async scheduler picks the next request
// among those tied for the front of the queue (SPEC_FULL.md §4.4's
// supplemented per-domain fairness).
type FairnessStrategy int

const (
	// StrictPriority is the default: always pop the lowest (priority,
	// counter) entry, exactly as invariant #5 in §8 requires.
	StrictPriority FairnessStrategy = iota
	// HostRoundRobin avoids popping the same host twice in a row when an
	// entry for a different host is available within the same priority
	// tier, so one host's backlog cannot starve others. It never reorders
	// across priority tiers.
	HostRoundRobin
)

type pqueueEntry struct {
	priority int
	counter  uint64
	req      *Request
}

// entryHeap implements container/heap.Interface; lower priority value is
// popped first, ties broken by lower (earlier) counter.
type entryHeap []*pqueueEntry

func (h entryHeap) Len() int { return len(h) }
func (h entryHeap) Less(i, j int) bool {
	if h[i].priority != h[j].priority {
		return h[i].priority < h[j].priority
	}
	return h[i].counter < h[j].counter
}
func (h entryHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *entryHeap) Push(x any)   { *h = append(*h, x.(*pqueueEntry)) }
func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// priorityQueue is a mutex-guarded min-heap of requests keyed by
// (priority, insertion counter), matching SPEC_FULL.md §4.4's scheduler
// state. It is safe for concurrent use by the async scheduler's workers;
// the sync scheduler uses it single-threaded and never contends the lock.
type priorityQueue struct {
	mu      sync.Mutex
	heap    entryHeap
	counter uint64

	// inFlight tracks requests currently being processed by a worker, so
	// the "empty queue AND no worker in-flight" termination condition in
	// §4.4 step 2 can be evaluated without a separate WaitGroup leaking
	// into scheduler control flow.
	inFlight int

	// notify is signaled (best-effort, non-blocking) on every push and
	// every inFlight decrement, so the async scheduler's workers can wake
	// promptly instead of waiting out their full poll timeout — see
	// scheduler_async.go.
	notify chan struct{}

	// fairness and lastHost implement the optional HostRoundRobin
	// strategy; lastHost is shared across workers since they all pop from
	// the same queue.
	fairness FairnessStrategy
	lastHost string
}

func newPriorityQueue() *priorityQueue {
	return &priorityQueue{heap: entryHeap{}, notify: make(chan struct{}, 1)}
}

func (q *priorityQueue) wake() {
	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// push enqueues req at the given priority, incrementing the shared counter
// under the same critical section (SPEC_FULL.md §9, invariant #5 in §8).
func (q *priorityQueue) push(priority int, req *Request) {
	q.mu.Lock()
	q.counter++
	heap.Push(&q.heap, &pqueueEntry{priority: priority, counter: q.counter, req: req})
	q.mu.Unlock()
	q.wake()
}

// pop removes and returns the lowest (priority, counter) entry, or nil if
// the queue is empty. When fairness is HostRoundRobin, ties within the
// lowest priority tier prefer a host other than the last one popped.
func (q *priorityQueue) pop() *Request {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.heap) == 0 {
		return nil
	}
	if q.fairness != HostRoundRobin {
		entry := heap.Pop(&q.heap).(*pqueueEntry)
		return entry.req
	}
	return q.popFairLocked()
}

// popFairLocked pops every entry tied at the lowest priority, picks the
// first whose host differs from lastHost (falling back to the first
// entry, preserving FIFO, if all share it), and pushes the rest back.
// Callers must hold q.mu.
func (q *priorityQueue) popFairLocked() *Request {
	tierPriority := q.heap[0].priority
	var tier []*pqueueEntry
	for len(q.heap) > 0 && q.heap[0].priority == tierPriority {
		tier = append(tier, heap.Pop(&q.heap).(*pqueueEntry))
	}

	chosenIdx := 0
	for i, e := range tier {
		if hostOf(e.req) != q.lastHost {
			chosenIdx = i
			break
		}
	}

	chosen := tier[chosenIdx]
	for i, e := range tier {
		if i != chosenIdx {
			heap.Push(&q.heap, e)
		}
	}

	q.lastHost = hostOf(chosen.req)
	return chosen.req
}

func hostOf(req *Request) string {
	u, err := url.Parse(req.HTTPParams.URL)
	if err != nil {
		return ""
	}
	return u.Host
}

func (q *priorityQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.heap)
}

// markInFlight increments/decrements the in-flight counter; call with
// delta=+1 when a worker pops a request and -1 when it finishes handling
// it (the "finally: task_done()" step in §4.4's worker loop).
func (q *priorityQueue) markInFlight(delta int) {
	q.mu.Lock()
	q.inFlight += delta
	q.mu.Unlock()
	if delta < 0 {
		q.wake()
	}
}

// idle reports whether the queue is empty and no worker is in-flight —
// the scheduler's overall termination condition.
func (q *priorityQueue) idle() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.heap) == 0 && q.inFlight == 0
}
