package urlresolve

import "testing"

func TestResolveJoinsRelativePath(t *testing.T) {
	p := NewParser()
	got, err := Resolve(p, "https://example.com/dockets/", "case/123")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "https://example.com/dockets/case/123" {
		t.Fatalf("got %q", got)
	}
}

func TestResolvePassesThroughAbsoluteURL(t *testing.T) {
	p := NewParser()
	got, err := Resolve(p, "https://example.com/a/", "https://other.example.com/b")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "https://other.example.com/b" {
		t.Fatalf("got %q", got)
	}
}

func TestResolveNormalizesPercentEncoding(t *testing.T) {
	p := NewParser()
	got, err := Resolve(p, "https://example.com/", "search?q=hello%20world")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "https://example.com/search?q=hello%20world" {
		t.Fatalf("got %q", got)
	}
}
