// Run's option surface mirrors original_source/driver/async_driver.py's
// AsyncDriver.__init__ parameter list and sync_driver.py's analogous
// SyncDriver, collapsed into functional options per SPEC_FULL.md §6.
package scraperdriver

import (
	"os"

	"github.com/freelawproject/scraperdriver/scraperdriver/urlresolve"
)

type runOptions struct {
	interceptors         []Interceptor
	numWorkers           int
	transport            Transport
	parser               urlresolve.Parser
	storageDir           string
	onArchive            ArchiveCallback
	onData               func(any)
	onInvalidData        func(any)
	onTransientException func(TransientException) bool
	onStructuralError    func(ScraperAssumption) bool
	onRunStart           func(name string)
	onRunComplete        func(name, status string, err error)
	duplicateCheck       func(key string) bool
	stopSignal           <-chan struct{}
	scraperName          string
	fairness             FairnessStrategy
}

// Option configures a Run call.
type Option func(*runOptions)

// WithInterceptors sets the interceptor chain, in request-side (forward)
// order.
func WithInterceptors(interceptors ...Interceptor) Option {
	return func(o *runOptions) { o.interceptors = interceptors }
}

// WithNumWorkers selects the scheduler variant: 1 (the default) runs the
// synchronous single-worker scheduler; >1 runs the asynchronous
// goroutine-pool scheduler.
func WithNumWorkers(n int) Option {
	return func(o *runOptions) { o.numWorkers = n }
}

// WithTransport overrides the HTTP transport (default: DefaultTransport).
func WithTransport(t Transport) Option {
	return func(o *runOptions) { o.transport = t }
}

// WithURLParser overrides the URL resolver (default: urlresolve.NewParser()).
func WithURLParser(p urlresolve.Parser) Option {
	return func(o *runOptions) { o.parser = p }
}

// WithStorageDir sets the directory Archive requests are written under.
func WithStorageDir(dir string) Option {
	return func(o *runOptions) { o.storageDir = dir }
}

// WithOnArchive overrides the archive callback (default: DefaultArchiveCallback).
func WithOnArchive(cb ArchiveCallback) Option {
	return func(o *runOptions) { o.onArchive = cb }
}

// WithOnData registers the data callback.
func WithOnData(cb func(any)) Option {
	return func(o *runOptions) { o.onData = cb }
}

// WithOnInvalidData registers the invalid-data callback.
func WithOnInvalidData(cb func(any)) Option {
	return func(o *runOptions) { o.onInvalidData = cb }
}

// WithOnTransientException registers the transient-exception callback.
func WithOnTransientException(cb func(TransientException) bool) Option {
	return func(o *runOptions) { o.onTransientException = cb }
}

// WithOnStructuralError registers the structural-error callback.
func WithOnStructuralError(cb func(ScraperAssumption) bool) Option {
	return func(o *runOptions) { o.onStructuralError = cb }
}

// WithOnRunStart registers the run-start lifecycle callback.
func WithOnRunStart(cb func(name string)) Option {
	return func(o *runOptions) { o.onRunStart = cb }
}

// WithOnRunComplete registers the run-complete lifecycle callback, fired
// exactly once whether or not the run errored (SPEC_FULL.md §4.9).
func WithOnRunComplete(cb func(name, status string, err error)) Option {
	return func(o *runOptions) { o.onRunComplete = cb }
}

// WithDuplicateCheck registers the dedup-key membership callback; true
// means "not seen before, enqueue it".
func WithDuplicateCheck(cb func(key string) bool) Option {
	return func(o *runOptions) { o.duplicateCheck = cb }
}

// WithStopSignal supplies an external shutdown channel; closing it
// requests completion-safe cancellation (SPEC_FULL.md §5).
func WithStopSignal(stop <-chan struct{}) Option {
	return func(o *runOptions) { o.stopSignal = stop }
}

// WithScraperName overrides the name reported to OnRunStart/OnRunComplete
// (default: the scraper's Name() result if it has such a method, else
// "scraper").
func WithScraperName(name string) Option {
	return func(o *runOptions) { o.scraperName = name }
}

// WithFairnessStrategy selects how the async scheduler breaks ties within
// a priority tier (default: StrictPriority). Only meaningful when
// WithNumWorkers(n) with n > 1 is also used.
func WithFairnessStrategy(f FairnessStrategy) Option {
	return func(o *runOptions) { o.fairness = f }
}

func defaultOptions() *runOptions {
	return &runOptions{
		numWorkers: 1,
		transport:  NewDefaultTransport(),
		parser:     urlresolve.NewParser(),
		storageDir: os.TempDir(),
		onArchive:  DefaultArchiveCallback,
	}
}

// Run drives scraper to completion per SPEC_FULL.md §4.4/§4.9: fires
// OnRunStart, seeds the queue from scraper.Entry(), runs the sync or async
// scheduler depending on WithNumWorkers, and always fires OnRunComplete
// exactly once, even on error.
func Run(scraper Scraper, opts ...Option) (err error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	name := options.scraperName
	if name == "" {
		name = scraperTypeName(scraper)
	}

	if options.onRunStart != nil {
		options.onRunStart(name)
	}

	defer func() {
		if options.onRunComplete != nil {
			status := "completed"
			if err != nil {
				status = "error"
			}
			options.onRunComplete(name, status, err)
		}
	}()

	var registry *Registry
	if r, ok := scraper.(*Registry); ok {
		registry = r
	} else if withReg, ok := scraper.(interface{ ContinuationRegistry() *Registry }); ok {
		registry = withReg.ContinuationRegistry()
	}

	eng := &engine{
		scraper:      scraper,
		registry:     registry,
		interceptors: options.interceptors,
		transport:    options.transport,
		parser:       options.parser,
		queue:        newPriorityQueue(),
		opts:         options,
	}
	if options.numWorkers > 1 {
		eng.queue.fairness = options.fairness
	}

	seed, seedErr := scraper.Entry()
	if seedErr != nil {
		err = seedErr
		return err
	}
	if enqErr := eng.enqueue(seed, FromSeedLocation(seed.HTTPParams.URL)); enqErr != nil {
		err = enqErr
		return err
	}

	if options.numWorkers <= 1 {
		err = runSync(eng, options.stopSignal)
	} else {
		err = runAsync(eng, options.numWorkers, options.stopSignal)
	}
	return err
}

func scraperTypeName(v any) string {
	type named interface{ Name() string }
	if n, ok := v.(named); ok {
		return n.Name()
	}
	return "scraper"
}
