package scraperdriver

import "testing"

func TestDeduplicationKeyExplicitString(t *testing.T) {
	r := &Request{HTTPParams: HTTPParams{Method: MethodGet, URL: "https://example.com"}, DeduplicationKey: "custom-key"}
	key, skip := DeduplicationKey(r)
	if skip {
		t.Fatalf("expected skip=false for explicit string key")
	}
	if key != "custom-key" {
		t.Fatalf("got key %q, want %q", key, "custom-key")
	}
}

func TestDeduplicationKeySkip(t *testing.T) {
	r := &Request{HTTPParams: HTTPParams{Method: MethodGet, URL: "https://example.com"}, DeduplicationKey: Skip}
	_, skip := DeduplicationKey(r)
	if !skip {
		t.Fatalf("expected skip=true for Skip sentinel")
	}
}

func TestDeduplicationKeyStableAcrossQueryOrder(t *testing.T) {
	r1 := &Request{HTTPParams: HTTPParams{
		Method: MethodGet,
		URL:    "https://example.com/search",
		Query:  [][2]string{{"a", "1"}, {"b", "2"}},
	}}
	r2 := &Request{HTTPParams: HTTPParams{
		Method: MethodGet,
		URL:    "https://example.com/search",
		Query:  [][2]string{{"b", "2"}, {"a", "1"}},
	}}

	k1, _ := DeduplicationKey(r1)
	k2, _ := DeduplicationKey(r2)
	if k1 != k2 {
		t.Fatalf("keys should match regardless of query order: %q != %q", k1, k2)
	}
}

func TestDeduplicationKeyDiffersOnBody(t *testing.T) {
	base := HTTPParams{Method: MethodPost, URL: "https://example.com/submit"}
	a := base
	a.Body = "payload-a"
	b := base
	b.Body = "payload-b"

	k1, _ := DeduplicationKey(&Request{HTTPParams: a})
	k2, _ := DeduplicationKey(&Request{HTTPParams: b})
	if k1 == k2 {
		t.Fatalf("keys should differ when body differs")
	}
}

func TestDeduplicationKeyFormSortedByKey(t *testing.T) {
	r1 := &Request{HTTPParams: HTTPParams{
		Method: MethodPost,
		URL:    "https://example.com/submit",
		Form:   map[string]string{"x": "1", "y": "2"},
	}}
	r2 := &Request{HTTPParams: HTTPParams{
		Method: MethodPost,
		URL:    "https://example.com/submit",
		Form:   map[string]string{"y": "2", "x": "1"},
	}}

	k1, _ := DeduplicationKey(r1)
	k2, _ := DeduplicationKey(r2)
	if k1 != k2 {
		t.Fatalf("form-keyed bodies should hash identically regardless of map iteration order")
	}
}

func TestDeduplicationKeyDistinguishesMethod(t *testing.T) {
	get := &Request{HTTPParams: HTTPParams{Method: MethodGet, URL: "https://example.com/x"}}
	post := &Request{HTTPParams: HTTPParams{Method: MethodPost, URL: "https://example.com/x"}}

	k1, _ := DeduplicationKey(get)
	k2, _ := DeduplicationKey(post)
	if k1 == k2 {
		t.Fatalf("GET and POST to the same URL should not collide")
	}
}
