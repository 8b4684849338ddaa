// Adapted from original_source/common/example_interceptors.py's
// MockInterceptor.
package scraperdriver

import "sync"

// MockInterceptor returns a canned Response for requests whose URL matches
// an entry in Responses, short-circuiting the fetch. Hits/Misses count
// matches for test assertions (SPEC_FULL.md §8 scenario 4).
type MockInterceptor struct {
	Responses map[string]Response

	mu     sync.Mutex
	Hits   int
	Misses int
}

// NewMockInterceptor builds a MockInterceptor from a URL-to-response map.
func NewMockInterceptor(responses map[string]Response) *MockInterceptor {
	return &MockInterceptor{Responses: responses}
}

func (m *MockInterceptor) ModifyRequest(req *Request) (*Request, *Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if resp, ok := m.Responses[req.HTTPParams.URL]; ok {
		m.Hits++
		out := resp
		out.Request = req
		return nil, &out, nil
	}
	m.Misses++
	return req, nil, nil
}

func (m *MockInterceptor) ModifyResponse(resp *Response, originalReq *Request) (*Response, error) {
	return resp, nil
}
