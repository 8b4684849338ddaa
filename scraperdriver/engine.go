// The worker loop and enqueue flow below are a direct translation of
// original_source/driver/async_driver.py's _worker/enqueue_request/
// resolve_request/handle_data, generalized to run under either the sync
// or async scheduler (scheduler_sync.go / scheduler_async.go share this).
package scraperdriver

import (
	"errors"

	"github.com/freelawproject/scraperdriver/scraperdriver/urlresolve"
)

// engine holds everything the worker loop needs regardless of variant.
type engine struct {
	scraper      Scraper
	registry     *Registry
	interceptors []Interceptor
	transport    Transport
	parser       urlresolve.Parser
	queue        *priorityQueue
	opts         *runOptions
}

// enqueue implements SPEC_FULL.md §4.4's enqueue flow: resolve, dedup
// check, heap-push.
func (e *engine) enqueue(req *Request, ctx ResolveContext) error {
	resolved, err := ResolveFrom(e.parser, req, ctx)
	if err != nil {
		return err
	}
	if e.registry != nil {
		ResolveContinuationTarget(e.registry, resolved)
	}

	key, skip := DeduplicationKey(resolved)
	if !skip && e.opts.duplicateCheck != nil {
		if !e.opts.duplicateCheck(key) {
			return nil // dropped, per §4.4 step 2
		}
	}

	e.queue.push(resolved.Priority, resolved)
	return nil
}

// processRequest implements the worker-loop body (§4.4 steps 3-8) for one
// popped request. It returns whether the worker should keep looping.
func (e *engine) processRequest(req *Request) (continueWorker bool, err error) {
	defer e.queue.markInFlight(-1)

	var (
		resp    *Response
		archive *ArchiveResponse
		fetchErr error
	)
	if req.Kind == Archive {
		storageDir := e.opts.storageDir
		archive, fetchErr = ResolveArchiveRequest(e.transport, e.interceptors, req, e.opts.onArchive, storageDir)
		if fetchErr == nil {
			r := archive.Response
			resp = &r
		}
	} else {
		resp, fetchErr = ResolveRequest(e.transport, e.interceptors, req)
	}

	if fetchErr != nil {
		var transient TransientException
		if errors.As(fetchErr, &transient) {
			if e.opts.onTransientException == nil {
				return false, fetchErr
			}
			return e.opts.onTransientException(transient), nil
		}
		return false, fetchErr
	}

	fn, ok := e.scraper.Continuation(req.Continuation)
	if !ok {
		return false, errors.New("scraperdriver: no continuation registered for " + req.Continuation)
	}

	step := &Step{Response: resp, archive: archive}

	var enqueueErr, dataErr error
	iterErr := fn(step, func(y Yield) error {
		switch y.kind {
		case yieldData:
			if err := e.handleData(y.data); err != nil {
				dataErr = err
				return err
			}
		case yieldNavigating:
			if err := e.enqueue(y.req, FromResponse(resp)); err != nil {
				enqueueErr = err
				return err
			}
		case yieldNonNavigating, yieldArchive:
			if err := e.enqueue(y.req, FromRequest(req)); err != nil {
				enqueueErr = err
				return err
			}
		case yieldNone:
		}
		return nil
	})
	if enqueueErr != nil {
		return false, enqueueErr
	}

	if iterErr != nil {
		// An error from data routing (handleData with no OnInvalidData
		// callback) must not be re-routed through OnStructuralError, which
		// governs continuation-raised assumptions — including a
		// DataFormatAssumption returned by Step.JSONContent — not
		// data-routing failures (§7's two propagation policies are distinct).
		if dataErr != nil {
			return false, dataErr
		}

		var assumption ScraperAssumption
		if errors.As(iterErr, &assumption) {
			if e.opts.onStructuralError == nil {
				return false, iterErr
			}
			return e.opts.onStructuralError(assumption), nil
		}
		return false, iterErr
	}

	return true, nil
}

// handleData implements §4.7: deferred-validation values are validated
// exactly once before OnData/OnInvalidData fires; anything else goes
// straight to OnData.
func (e *engine) handleData(v any) error {
	if dv, ok := v.(deferredValidation); ok {
		validated, err := dv.validateAny()
		if err != nil {
			var dfa *DataFormatAssumption
			if errors.As(err, &dfa) {
				if e.opts.onInvalidData != nil {
					e.opts.onInvalidData(dv.rawPayload())
					return nil
				}
				return err
			}
			return err
		}
		if e.opts.onData != nil {
			e.opts.onData(validated)
		}
		return nil
	}
	if e.opts.onData != nil {
		e.opts.onData(v)
	}
	return nil
}
