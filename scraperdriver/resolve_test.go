package scraperdriver

import (
	"testing"

	"github.com/freelawproject/scraperdriver/scraperdriver/urlresolve"
)

func TestResolveFromNavigatingUsesAbsoluteURLAsLocation(t *testing.T) {
	parser := urlresolve.NewParser()

	seed := NewRequest(Navigating, HTTPParams{Method: MethodGet, URL: "https://example.com/dockets"}, "parseListing")
	resolved, err := ResolveFrom(parser, seed, FromSeedLocation("https://example.com/dockets"))
	if err != nil {
		t.Fatalf("ResolveFrom: %v", err)
	}
	if resolved.CurrentLocation != "https://example.com/dockets" {
		t.Fatalf("CurrentLocation = %q, want seed URL", resolved.CurrentLocation)
	}
	if len(resolved.PreviousRequests) != 0 {
		t.Fatalf("seed request should have no previous requests, got %d", len(resolved.PreviousRequests))
	}
}

func TestResolveFromRelativeURLJoinsAgainstParentLocation(t *testing.T) {
	parser := urlresolve.NewParser()

	parentResp := &Response{URL: "https://example.com/dockets/", Request: NewRequest(Navigating, HTTPParams{URL: "https://example.com/dockets/"}, "parseListing")}
	child := NewRequest(Navigating, HTTPParams{Method: MethodGet, URL: "case/123"}, "parseCase")

	resolved, err := ResolveFrom(parser, child, FromResponse(parentResp))
	if err != nil {
		t.Fatalf("ResolveFrom: %v", err)
	}
	if resolved.HTTPParams.URL != "https://example.com/dockets/case/123" {
		t.Fatalf("resolved URL = %q, want joined absolute URL", resolved.HTTPParams.URL)
	}
	if len(resolved.PreviousRequests) != 1 || resolved.PreviousRequests[0] != parentResp.Request {
		t.Fatalf("expected the parent request to be appended to PreviousRequests")
	}
}

func TestResolveFromNonNavigatingKeepsParentLocation(t *testing.T) {
	parser := urlresolve.NewParser()

	parentReq := NewRequest(Navigating, HTTPParams{URL: "https://example.com/dockets/"}, "parseListing")
	parentReq.CurrentLocation = "https://example.com/dockets/"
	child := NewRequest(NonNavigating, HTTPParams{Method: MethodGet, URL: "https://api.example.com/lookup"}, "lookupDocket")

	resolved, err := ResolveFrom(parser, child, FromRequest(parentReq))
	if err != nil {
		t.Fatalf("ResolveFrom: %v", err)
	}
	if resolved.CurrentLocation != parentReq.CurrentLocation {
		t.Fatalf("NonNavigating request should inherit its parent's CurrentLocation, got %q, want %q", resolved.CurrentLocation, parentReq.CurrentLocation)
	}
}

func TestResolveFromMergesPermanentIntoHeaders(t *testing.T) {
	parser := urlresolve.NewParser()

	parentReq := NewRequest(Navigating, HTTPParams{URL: "https://example.com/"}, "entry").
		WithPermanent(Permanent{Headers: map[string]string{"X-Session": "abc"}})
	parentReq.CurrentLocation = "https://example.com/"

	child := NewRequest(Navigating, HTTPParams{Method: MethodGet, URL: "page2"}, "next")

	resolved, err := ResolveFrom(parser, child, FromRequest(parentReq))
	if err != nil {
		t.Fatalf("ResolveFrom: %v", err)
	}
	if got := resolved.HTTPParams.Headers.Get("X-Session"); got != "abc" {
		t.Fatalf("expected inherited Permanent header X-Session=abc, got %q", got)
	}
}
