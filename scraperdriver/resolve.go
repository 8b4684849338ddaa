package scraperdriver

import (
	"github.com/freelawproject/scraperdriver/scraperdriver/urlresolve"
)

// ResolveContext is either a *Response (a continuation triggered by a
// fetched page) or a *Request (the originating request of a non-navigating
// continuation), matching SPEC_FULL.md §4.1's "context" parameter.
type ResolveContext interface {
	location() string
	asParentRequest() *Request
}

type responseContext struct{ resp *Response }

func (c responseContext) location() string         { return c.resp.URL }
func (c responseContext) asParentRequest() *Request { return c.resp.Request }

type requestContext struct{ req *Request }

func (c requestContext) location() string         { return c.req.CurrentLocation }
func (c requestContext) asParentRequest() *Request { return c.req }

// FromResponse wraps a Response as a ResolveContext, used when a
// continuation yields a Navigating request.
func FromResponse(resp *Response) ResolveContext { return responseContext{resp} }

// FromRequest wraps a Request as a ResolveContext, used when a
// continuation yields a NonNavigating or Archive request.
func FromRequest(req *Request) ResolveContext { return requestContext{req} }

type seedContext struct{ loc string }

func (c seedContext) location() string          { return c.loc }
func (c seedContext) asParentRequest() *Request { return nil }

// FromSeedLocation wraps a bare URL as a ResolveContext with no parent
// request, used only for the scraper's entry request.
func FromSeedLocation(loc string) ResolveContext { return seedContext{loc} }

// ResolveFrom implements SPEC_FULL.md §4.1: resolves new's URL against
// context's location, threads previous-requests/permanent data forward,
// and decides CurrentLocation per Kind.
func ResolveFrom(parser urlresolve.Parser, newReq *Request, ctx ResolveContext) (*Request, error) {
	location := ctx.location()

	absoluteURL, err := urlresolve.Resolve(parser, location, newReq.HTTPParams.URL)
	if err != nil {
		return nil, err
	}

	resolved := newReq.clone()
	resolved.HTTPParams.URL = absoluteURL

	switch resolved.Kind {
	case Navigating:
		resolved.CurrentLocation = absoluteURL
	case NonNavigating, Archive:
		resolved.CurrentLocation = location
	}

	parent := ctx.asParentRequest()
	if parent != nil {
		resolved.PreviousRequests = append(append([]*Request(nil), parent.PreviousRequests...), parent)
		resolved.Permanent = mergePermanent(parent.Permanent, newReq.Permanent)
		applyPermanent(resolved)
	}

	return resolved, nil
}

// applyPermanent merges r.Permanent's headers/cookies into r.HTTPParams,
// per SPEC_FULL.md §3: "values are merged into http_params.headers /
// http_params.cookies on construction".
func applyPermanent(r *Request) {
	for k, v := range r.Permanent.Headers {
		if r.HTTPParams.Headers == nil {
			r.HTTPParams.Headers = map[string][]string{}
		}
		r.HTTPParams.Headers.Set(k, v)
	}
	if len(r.Permanent.Cookies) > 0 {
		if r.HTTPParams.Cookies == nil {
			r.HTTPParams.Cookies = map[string]string{}
		}
		for k, v := range r.Permanent.Cookies {
			r.HTTPParams.Cookies[k] = v
		}
	}
}
