// Package warccache implements the WARC replay-cache interceptor from
// original_source/common/warc_interceptors.py's WARCReplayInterceptor:
// short-circuit a request with a previously captured response instead of
// hitting the network again, for deterministic re-runs over an existing
// WARC corpus.
//
// Per SPEC_FULL.md §9 (Open Question: replay-cache key vs. dedup key),
// the replay key is the same scraperdriver.DeduplicationKey used for
// live in-run dedup (method, URL with sorted query, and body all
// included) so a single key space covers both concerns. Older WARC sets
// captured before the key included the body are still usable: a miss on
// the body-aware key falls back to a legacy key computed without body
// bytes.
package warccache

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/CorentinB/warc"
	"github.com/freelawproject/scraperdriver/scraperdriver"
)

type entry struct {
	statusCode int
	content    []byte
}

// Interceptor serves cached WARC responses keyed by dedup key, falling
// back to a legacy no-body key on miss.
type Interceptor struct {
	mu       sync.RWMutex
	byKey    map[string]entry
	byLegacy map[string]entry

	Hits   int
	Misses int
}

// Load reads every response record out of the WARC files at paths and
// indexes them by the X-Dedup-Key header warccapture.Interceptor writes,
// plus a legacy body-less key derived from WARC-Target-URI alone. A path
// that does not exist is skipped with a logged warning.
func Load(paths ...string) (*Interceptor, error) {
	i := &Interceptor{
		byKey:    map[string]entry{},
		byLegacy: map[string]entry{},
	}

	for _, p := range paths {
		if err := i.loadFile(p); err != nil {
			return nil, fmt.Errorf("warccache: loading %s: %w", p, err)
		}
	}
	return i, nil
}

func (i *Interceptor) loadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("warccache: %s does not exist; continuing without its records", path)
			return nil
		}
		return err
	}
	defer f.Close()

	reader, err := warc.NewReader(bufio.NewReader(f))
	if err != nil {
		return err
	}

	for {
		record, _, err := reader.ReadRecord()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if record.Type() != warc.ResponseRecord {
			continue
		}

		content, err := io.ReadAll(record.Content)
		if err != nil {
			return err
		}

		key := record.Header.Get("X-Dedup-Key")
		target := record.Header.Get("WARC-Target-URI")

		e := entry{statusCode: statusFromContent(content), content: content}
		if key != "" {
			i.byKey[key] = e
		}
		if target != "" {
			i.byLegacy[target] = e
		}
	}
	return nil
}

func statusFromContent(content []byte) int {
	// WARC response records store the full HTTP status line as the first
	// line of content; default to 200 if it cannot be parsed.
	line := string(content)
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		line = line[:idx]
	}
	var code int
	if _, err := fmt.Sscanf(line, "HTTP/1.1 %d", &code); err == nil && code != 0 {
		return code
	}
	return 200
}

// ModifyRequest short-circuits with a cached Response when the request's
// dedup key (or, failing that, its legacy body-less key) has a WARC
// record on file.
func (i *Interceptor) ModifyRequest(req *scraperdriver.Request) (*scraperdriver.Request, *scraperdriver.Response, error) {
	key, _ := scraperdriver.DeduplicationKey(req)

	i.mu.Lock()
	defer i.mu.Unlock()

	if e, ok := i.byKey[key]; ok {
		i.Hits++
		return nil, &scraperdriver.Response{
			StatusCode: e.statusCode,
			URL:        req.HTTPParams.URL,
			Request:    req,
			Content:    e.content,
		}, nil
	}

	if e, ok := i.byLegacy[req.HTTPParams.URL]; ok {
		i.Hits++
		return nil, &scraperdriver.Response{
			StatusCode: e.statusCode,
			URL:        req.HTTPParams.URL,
			Request:    req,
			Content:    e.content,
		}, nil
	}

	i.Misses++
	return req, nil, nil
}

func (i *Interceptor) ModifyResponse(resp *scraperdriver.Response, originalReq *scraperdriver.Request) (*scraperdriver.Response, error) {
	return resp, nil
}
