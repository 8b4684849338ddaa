// Package urlresolve resolves relative request URLs against a base URL
// (SPEC_FULL.md §4.1 step 2). Propagation of request-chain state
// (previous requests, permanent headers/cookies) is done by
// scraperdriver.ResolveFrom, not here.
//
// Adapted from the teacher's parser.go/parser/whatwg.go: a whatwgParser
// wrapping github.com/nlnwa/whatwg-url for RFC-3986-compliant join and
// normalization (percent-decode/re-encode).
package urlresolve

import (
	"net/url"

	whatwg "github.com/nlnwa/whatwg-url/url"
)

// Parser resolves a possibly-relative URL against a base URL.
type Parser interface {
	Parse(rawURL string) (*url.URL, error)
	ParseRef(rawURL string, ref string) (*url.URL, error)
}

type whatwgParser struct {
	parser whatwg.Parser
}

// NewParser returns the engine's default WHATWG-URL-backed parser.
func NewParser() Parser {
	return &whatwgParser{
		parser: whatwg.NewParser(whatwg.WithPercentEncodeSinglePercentSign()),
	}
}

func (p *whatwgParser) Parse(rawURL string) (*url.URL, error) {
	wurl, err := p.parser.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	return url.Parse(wurl.Href(false))
}

func (p *whatwgParser) ParseRef(rawURL string, ref string) (*url.URL, error) {
	wurl, err := p.parser.ParseRef(rawURL, ref)
	if err != nil {
		return nil, err
	}
	return url.Parse(wurl.Href(false))
}

// Resolve joins ref against base using RFC-3986 rules (normalizing via
// percent-decode then re-encode, per SPEC_FULL.md §4.1 step 2) and returns
// the resulting absolute URL string.
func Resolve(p Parser, base, ref string) (string, error) {
	u, err := p.ParseRef(base, ref)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}
