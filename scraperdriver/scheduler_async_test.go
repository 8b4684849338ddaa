package scraperdriver

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// fanOutScraper seeds one request that fans out into several independent
// leaf requests, exercising the async scheduler's shared-queue concurrency
// (scheduler_async.go) rather than the single-worker path.
type fanOutScraper struct {
	*Registry
	entryURL string
	fanOut   int
}

func newFanOutScraper(entryURL string, fanOut int) *fanOutScraper {
	s := &fanOutScraper{Registry: NewRegistry(), entryURL: entryURL, fanOut: fanOut}
	s.Register("index", s.index)
	s.Register("leaf", s.leaf)
	return s
}

func (s *fanOutScraper) Entry() (*Request, error) {
	return NewRequest(Navigating, HTTPParams{Method: MethodGet, URL: s.entryURL}, "index"), nil
}

func (s *fanOutScraper) index(step *Step, emit func(Yield) error) error {
	for i := 0; i < s.fanOut; i++ {
		leaf := NewRequest(NonNavigating, HTTPParams{Method: MethodGet, URL: fmt.Sprintf("/leaf/%d", i)}, "leaf")
		if err := emit(NonNavigatingYield(leaf)); err != nil {
			return err
		}
	}
	return nil
}

func (s *fanOutScraper) leaf(step *Step, emit func(Yield) error) error {
	return emit(Data(step.Text()))
}

func TestRunAsyncSchedulerDrainsAllFanOutRequests(t *testing.T) {
	const fanOut = 20

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("leaf:" + r.URL.Path))
	}))
	defer srv.Close()

	scraper := newFanOutScraper(srv.URL+"/", fanOut)

	var mu sync.Mutex
	seen := map[string]bool{}

	err := Run(scraper,
		WithNumWorkers(8),
		WithOnData(func(v any) {
			mu.Lock()
			defer mu.Unlock()
			seen[v.(string)] = true
		}),
	)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(seen) != fanOut {
		t.Fatalf("processed %d distinct leaves, want %d", len(seen), fanOut)
	}
}

func TestRunAsyncSchedulerHonorsStopSignal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	scraper := newFanOutScraper(srv.URL+"/", 50)
	stop := make(chan struct{})
	close(stop)

	// Closing the stop signal before Run starts means the async workers
	// should exit immediately without necessarily draining the queue, and
	// Run must still return without hanging or erroring.
	err := Run(scraper, WithNumWorkers(4), WithStopSignal(stop))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
}
