// Response bodies arrive as raw bytes with no guarantee of being UTF-8;
// Step.Text (and the raw Response.Text field it wraps) need a best-effort
// decode the way a browser or scraping library would perform it, rather
// than assuming UTF-8 and silently mangling non-UTF-8 pages.
package scraperdriver

import (
	"bytes"
	"io"

	"github.com/saintfish/chardet"
	"golang.org/x/net/html/charset"
)

var detector = chardet.NewTextDetector()

// decodeText converts content to a UTF-8 string, using the HTTP
// Content-Type header's charset parameter when present (golang.org/x/net's
// charset.DetermineEncoding, which also sniffs BOMs and <meta> tags for
// HTML), and falling back to chardet's statistical detector when the
// header is absent or unhelpful.
func decodeText(content []byte, contentType string) string {
	enc, _, certain := charset.DetermineEncoding(content, contentType)
	if !certain {
		if result, err := detector.DetectBest(content); err == nil && result.Charset != "" {
			if guessed, _, ok := charset.DetermineEncoding(content, "text/plain; charset="+result.Charset); ok || guessed != nil {
				enc = guessed
			}
		}
	}

	reader := enc.NewDecoder().Reader(bytes.NewReader(content))
	decoded, err := io.ReadAll(reader)
	if err != nil {
		return string(content)
	}
	return string(decoded)
}
