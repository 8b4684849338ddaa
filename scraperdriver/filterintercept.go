// Adapted from the teacher's filter.go/filter/glob.go: colly's
// collector-wide domain/URL glob allow-deny list, repurposed here as a
// per-request interceptor.
package scraperdriver

import (
	"net/url"

	"github.com/gobwas/glob"
)

// FilterMode selects whether Patterns is an allow-list or a deny-list.
type FilterMode uint8

const (
	// AllowOnlyMatching permits only URLs whose host matches one of Patterns.
	AllowOnlyMatching FilterMode = iota
	// DenyMatching permits everything except URLs whose host matches one of Patterns.
	DenyMatching
)

// FilterInterceptor short-circuits requests to hosts outside the
// configured glob allow/deny list with a synthetic 403 response.
type FilterInterceptor struct {
	Mode     FilterMode
	patterns []glob.Glob
}

// NewFilterInterceptor compiles patterns (domain globs, e.g. "*.example.com")
// into a FilterInterceptor operating in mode.
func NewFilterInterceptor(mode FilterMode, patterns ...string) (*FilterInterceptor, error) {
	compiled := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, g)
	}
	return &FilterInterceptor{Mode: mode, patterns: compiled}, nil
}

func (f *FilterInterceptor) matches(host string) bool {
	for _, g := range f.patterns {
		if g.Match(host) {
			return true
		}
	}
	return false
}

func (f *FilterInterceptor) ModifyRequest(req *Request) (*Request, *Response, error) {
	u, err := url.Parse(req.HTTPParams.URL)
	if err != nil {
		return req, nil, nil
	}

	matched := f.matches(u.Hostname())
	allowed := matched
	if f.Mode == DenyMatching {
		allowed = !matched
	}

	if allowed {
		return req, nil, nil
	}

	return nil, &Response{
		StatusCode: 403,
		URL:        req.HTTPParams.URL,
		Request:    req,
	}, nil
}

func (f *FilterInterceptor) ModifyResponse(resp *Response, originalReq *Request) (*Response, error) {
	return resp, nil
}
