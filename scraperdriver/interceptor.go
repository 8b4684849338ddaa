// Adapted from original_source/common/interceptors.py's SyncInterceptor /
// AsyncInterceptor protocols (see DESIGN.md). The Python Protocol's
// `Request | Response` return is expressed in Go as two return values,
// exactly one of which is non-nil on success.
package scraperdriver

import "fmt"

// Interceptor is scraper-engine middleware. ModifyRequest runs forward
// through the configured chain before a fetch; ModifyResponse always runs,
// in reverse chain order, even when a preceding interceptor short-circuited
// with a synthesized response (SPEC_FULL.md §4.3).
type Interceptor interface {
	// ModifyRequest may pass the request through unchanged, return a
	// modified request, or short-circuit by returning a response instead.
	// Exactly one of (req, resp) must be non-nil on a nil error.
	ModifyRequest(req *Request) (*Request, *Response, error)

	// ModifyResponse may pass resp through unchanged or replace it.
	// originalReq is the request that produced resp (before any
	// interceptor rewrote it), for provenance.
	ModifyResponse(resp *Response, originalReq *Request) (*Response, error)
}

// runRequestChain walks interceptors forward. It returns either a resolved
// request ready to send, or a short-circuit response; interceptors after
// the one that short-circuited are skipped. The caller still runs the
// whole response chain (§4.3), so which interceptor short-circuited is not
// reported.
func runRequestChain(interceptors []Interceptor, req *Request) (*Request, *Response, error) {
	current := req
	for _, ic := range interceptors {
		nextReq, resp, err := ic.ModifyRequest(current)
		if err != nil {
			return nil, nil, err
		}
		if (nextReq == nil) == (resp == nil) {
			return nil, nil, fmt.Errorf("interceptor %T: ModifyRequest must return exactly one of (request, response)", ic)
		}
		if resp != nil {
			return nil, resp, nil
		}
		current = nextReq
	}
	return current, nil, nil
}

// runResponseChain walks interceptors in reverse, unconditionally — this
// is what "always invoked... even for short-circuited responses" means.
func runResponseChain(interceptors []Interceptor, resp *Response, originalReq *Request) (*Response, error) {
	current := resp
	for i := len(interceptors) - 1; i >= 0; i-- {
		next, err := interceptors[i].ModifyResponse(current, originalReq)
		if err != nil {
			return nil, err
		}
		current = next
	}
	return current, nil
}
