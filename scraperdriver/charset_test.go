package scraperdriver

import "testing"

func TestDecodeTextHonorsDeclaredCharset(t *testing.T) {
	// UTF-8 content with an explicit charset in the Content-Type header
	// should decode unchanged.
	got := decodeText([]byte("héllo"), "text/html; charset=utf-8")
	if got != "héllo" {
		t.Fatalf("decodeText = %q, want héllo", got)
	}
}

func TestDecodeTextFallsBackWithoutContentType(t *testing.T) {
	// Plain ASCII content with no Content-Type at all should decode
	// as-is regardless of which detector path is taken.
	got := decodeText([]byte("plain ascii body"), "")
	if got != "plain ascii body" {
		t.Fatalf("decodeText = %q, want plain ascii body", got)
	}
}
