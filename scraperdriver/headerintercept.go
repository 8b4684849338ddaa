// Adapted from original_source/common/example_interceptors.py's
// HeaderInterceptor — demonstrates the immutable-update pattern (clone,
// merge, return) required by the Request invariants in SPEC_FULL.md §3
// rather than mutating req in place.
package scraperdriver

// HeaderInterceptor merges a fixed set of headers into every request.
type HeaderInterceptor struct {
	Headers map[string]string
}

// NewHeaderInterceptor builds a HeaderInterceptor adding headers to every request.
func NewHeaderInterceptor(headers map[string]string) *HeaderInterceptor {
	return &HeaderInterceptor{Headers: headers}
}

func (h *HeaderInterceptor) ModifyRequest(req *Request) (*Request, *Response, error) {
	updated := req.clone()
	if updated.HTTPParams.Headers == nil {
		updated.HTTPParams.Headers = map[string][]string{}
	}
	for k, v := range h.Headers {
		updated.HTTPParams.Headers.Set(k, v)
	}
	return updated, nil, nil
}

func (h *HeaderInterceptor) ModifyResponse(resp *Response, originalReq *Request) (*Response, error) {
	return resp, nil
}
