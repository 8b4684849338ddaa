// Package warccapture records every request/response pair that passes
// through the engine as WARC records, using github.com/CorentinB/warc
// (the record/rotator machinery Zeno builds its archiver on) rather than
// hand-rolling WARC framing. Grounded on
// original_source/common/warc_interceptors.py's WARCCaptureInterceptor and
// Zeno's internal/pkg/archiver package.
package warccapture

import (
	"bytes"
	"fmt"
	"net/http"
	"net/textproto"
	"sync"

	"github.com/CorentinB/warc"
	"github.com/freelawproject/scraperdriver/scraperdriver"
)

// Interceptor writes a request/response record pair to a rotating WARC
// file set for every request that reaches the network (it must sit after
// any cache/replay interceptor so replayed requests are not re-captured).
type Interceptor struct {
	rotator *warc.WARCRotator

	mu sync.Mutex
}

// Settings configures where and how WARC files are written.
type Settings struct {
	// Prefix is the filename prefix for rotated WARC files, e.g. "run".
	Prefix string
	// WarcinfoContent is embedded in the warcinfo record at the start of
	// each file (operator, software, description, ...).
	WarcinfoContent textproto.MIMEHeader
	// OutputDir is the directory rotated WARC files are written into.
	OutputDir string
	// Compression enables gzip-per-record compression (.warc.gz).
	Compression bool
}

// New opens (creating if necessary) a rotating WARC writer per settings.
func New(settings Settings) (*Interceptor, error) {
	rotatorSettings := warc.NewRotatorSettings()
	rotatorSettings.Prefix = settings.Prefix
	rotatorSettings.OutputDirectory = settings.OutputDir
	rotatorSettings.Compression = settings.Compression
	rotatorSettings.WarcinfoContent = settings.WarcinfoContent

	rotator, err := rotatorSettings.NewWARCRotator()
	if err != nil {
		return nil, fmt.Errorf("warccapture: opening rotator: %w", err)
	}
	return &Interceptor{rotator: rotator}, nil
}

// ModifyRequest never short-circuits; capture happens once the response
// is known, in ModifyResponse.
func (i *Interceptor) ModifyRequest(req *scraperdriver.Request) (*scraperdriver.Request, *scraperdriver.Response, error) {
	return req, nil, nil
}

// ModifyResponse writes the request/response pair as a WARC
// request/response record pair, keyed the same way as the live
// deduplication key (see scraperdriver.DeduplicationKey) so a later
// warccache.Interceptor can look records back up by that key.
func (i *Interceptor) ModifyResponse(resp *scraperdriver.Response, originalReq *scraperdriver.Request) (*scraperdriver.Response, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	key, _ := scraperdriver.DeduplicationKey(originalReq)

	reqHeader := textproto.MIMEHeader{}
	reqHeader.Set("WARC-Target-URI", originalReq.HTTPParams.URL)
	reqHeader.Set("X-Dedup-Key", key)
	reqRecord := &warc.Record{
		Header:  reqHeader,
		Type:    warc.RequestRecord,
		Content: bytes.NewBufferString(requestHead(originalReq)),
	}

	respHeader := textproto.MIMEHeader{}
	respHeader.Set("WARC-Target-URI", originalReq.HTTPParams.URL)
	respHeader.Set("X-Dedup-Key", key)
	respHeader.Set("X-HTTP-Method", string(originalReq.HTTPParams.Method))
	respRecord := &warc.Record{
		Header:  respHeader,
		Type:    warc.ResponseRecord,
		Content: bytes.NewReader(resp.Content),
	}

	batch := warc.NewRecordBatch()
	batch.Records = append(batch.Records, reqRecord, respRecord)

	if err := i.rotator.WriteRecord(batch); err != nil {
		return nil, fmt.Errorf("warccapture: writing record: %w", err)
	}

	return resp, nil
}

// Close flushes and closes the underlying WARC file rotator.
func (i *Interceptor) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.rotator.Close()
}

func requestHead(req *scraperdriver.Request) string {
	headers := make(http.Header)
	if req.HTTPParams.Headers != nil {
		headers = req.HTTPParams.Headers.Clone()
	}
	var b bytes.Buffer
	fmt.Fprintf(&b, "%s %s HTTP/1.1\r\n", req.HTTPParams.Method, req.HTTPParams.URL)
	headers.Write(&b)
	b.WriteString("\r\n")
	return b.String()
}
