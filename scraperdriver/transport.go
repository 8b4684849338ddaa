// Adapted from the teacher's client.go (net/http.Client wrapper) and
// original_source/driver/async_driver.py's resolve_request/
// resolve_archive_request (status-code-to-error mapping, interceptor
// chain placement).
package scraperdriver

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
)

// Transport sends one HTTPParams and returns the raw response pieces, or
// a transport-level error. SPEC_FULL.md §6 treats this as a black box;
// DefaultTransport implements it with net/http.Client.
type Transport interface {
	Send(p HTTPParams) (statusCode int, headers http.Header, body []byte, finalURL string, err error)
}

// DefaultTransport is the engine's net/http-based Transport.
type DefaultTransport struct {
	Client *http.Client
}

// NewDefaultTransport returns a DefaultTransport with a sane default
// client (no default timeout — Send applies HTTPParams.Timeout on a copy of
// the client for that request) and a jar that persists cookies across requests to
// the same host for the lifetime of the transport, the way the teacher's
// cookiejar.go kept colly's collector-wide cookie state. A Request's own
// HTTPParams.Cookies still take precedence for that single request;
// the jar only carries Set-Cookie responses forward onto later requests
// to the same host that do not explicitly override them.
func NewDefaultTransport() *DefaultTransport {
	jar, _ := cookiejar.New(nil)
	return &DefaultTransport{Client: &http.Client{Jar: jar}}
}

func (t *DefaultTransport) Send(p HTTPParams) (int, http.Header, []byte, string, error) {
	var bodyReader io.Reader
	switch {
	case len(p.Form) > 0:
		form := url.Values{}
		for k, v := range p.Form {
			form.Set(k, v)
		}
		bodyReader = strings.NewReader(form.Encode())
	case p.Body != nil:
		switch b := p.Body.(type) {
		case []byte:
			bodyReader = bytes.NewReader(b)
		case string:
			bodyReader = strings.NewReader(b)
		default:
			encoded, err := json.Marshal(b)
			if err != nil {
				return 0, nil, nil, "", err
			}
			bodyReader = bytes.NewReader(encoded)
		}
	}

	req, err := http.NewRequest(string(p.Method), requestURL(p), bodyReader)
	if err != nil {
		return 0, nil, nil, "", err
	}
	for k, vs := range p.Headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	for k, v := range p.Cookies {
		req.AddCookie(&http.Cookie{Name: k, Value: v})
	}
	if p.Auth != nil {
		req.SetBasicAuth(p.Auth.Username, p.Auth.Password)
	}
	if len(p.Form) > 0 {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	client := t.Client
	if p.Timeout > 0 {
		c := *t.Client
		c.Timeout = p.Timeout
		client = &c
	}
	if !p.FollowRedirects {
		c := *client
		c.CheckRedirect = func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }
		client = &c
	}

	resp, err := client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return 0, nil, nil, "", NewRequestTimeout(requestURL(p))
		}
		return 0, nil, nil, "", NewNetworkReset(requestURL(p), err)
	}
	defer resp.Body.Close()

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, nil, "", err
	}

	finalURL := requestURL(p)
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	return resp.StatusCode, resp.Header, content, finalURL, nil
}

func requestURL(p HTTPParams) string {
	if len(p.Query) == 0 {
		return p.URL
	}
	q := url.Values{}
	for _, kv := range p.Query {
		q.Add(kv[0], kv[1])
	}
	sep := "?"
	if strings.Contains(p.URL, "?") {
		sep = "&"
	}
	return p.URL + sep + q.Encode()
}

func isTimeout(err error) bool {
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}

// ResolveRequest implements SPEC_FULL.md §4.5: runs the request-side
// interceptor chain, sends the HTTP request unless short-circuited, maps
// transport failures to the error taxonomy, and runs the response-side
// chain in reverse.
func ResolveRequest(transport Transport, interceptors []Interceptor, req *Request) (*Response, error) {
	resolvedReq, shortCircuit, err := runRequestChain(interceptors, req)
	if err != nil {
		return nil, err
	}

	var resp *Response
	if shortCircuit != nil {
		resp = shortCircuit
	} else {
		status, headers, content, finalURL, err := transport.Send(resolvedReq.HTTPParams)
		if err != nil {
			// Client failures are already typed as TransientException
			// (RequestTimeout / NetworkReset) by DefaultTransport.Send;
			// propagate every error as-is so the worker loop can route the
			// transient ones to OnTransientException. Other Send errors
			// (building the request, encoding or reading a body) stay untyped.
			return nil, err
		}
		if status >= 500 {
			return nil, NewHTMLResponseAssumption(finalURL, status, []int{200})
		}
		resp = &Response{
			StatusCode: status,
			Headers:    headers,
			Content:    content,
			Text:       decodeText(content, headers.Get("Content-Type")),
			URL:        finalURL,
			Request:    resolvedReq,
			Created:    time.Now(),
		}
	}

	return runResponseChain(interceptors, resp, resolvedReq)
}

// ResolveArchiveRequest implements §4.5: fetches req via ResolveRequest,
// then invokes archive to persist the body locally, returning an
// ArchiveResponse carrying the local path.
func ResolveArchiveRequest(transport Transport, interceptors []Interceptor, req *Request, archive ArchiveCallback, storageDir string) (*ArchiveResponse, error) {
	resp, err := ResolveRequest(transport, interceptors, req)
	if err != nil {
		return nil, err
	}
	path, err := archive(resp.Content, resp.URL, req.ExpectedType, storageDir)
	if err != nil {
		return nil, err
	}
	return &ArchiveResponse{Response: *resp, FileURL: path}, nil
}
