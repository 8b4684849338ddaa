// Adapted from original_source/common/decorators.py's @step decorator.
// Python injects named parameters into a continuation by inspecting
// inspect.signature(fn); Go has no equivalent runtime introspection over a
// func value's parameter names, so the engine instead passes a single
// explicit *Step context exposing every recognized injectable from the
// decorator's table (SPEC_FULL.md §4.6) as a method. This is the one
// point where the translation generalizes the mechanism rather than just
// retyping it — the recognized-injectables contract itself is unchanged.
package scraperdriver

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xmlquery"
	"golang.org/x/net/html"
)

// Yield is the sum type a continuation emits, per SPEC_FULL.md §3.
type Yield struct {
	kind yieldKind
	data any
	req  *Request
}

type yieldKind uint8

const (
	yieldNone yieldKind = iota
	yieldData
	yieldNavigating
	yieldNonNavigating
	yieldArchive
)

// Data wraps a data-plane value (possibly a DeferredValidation[T]) as a yield.
func Data(v any) Yield { return Yield{kind: yieldData, data: v} }

// NavigatingYield wraps a Navigating request as a yield.
func NavigatingYield(r *Request) Yield { return Yield{kind: yieldNavigating, req: r} }

// NonNavigatingYield wraps a NonNavigating request as a yield.
func NonNavigatingYield(r *Request) Yield { return Yield{kind: yieldNonNavigating, req: r} }

// ArchiveYield wraps an Archive request as a yield.
func ArchiveYield(r *Request) Yield { return Yield{kind: yieldArchive, req: r} }

// None is the empty yield, emitted by a continuation step that produces
// nothing (SPEC_FULL.md §3's Yield.None).
var None = Yield{kind: yieldNone}

// Step is the context object passed to every continuation, replacing
// parameter-name argument injection (see package doc above).
type Step struct {
	Response *Response
	archive  *ArchiveResponse // non-nil only when Response came from an archive fetch
}

// Request returns the request that produced Step.Response.
func (s *Step) Request() *Request { return s.Response.Request }

// PreviousRequest returns the last ancestor of Request(), or nil for a
// root (seed) request.
func (s *Step) PreviousRequest() *Request { return s.Request().LastPreviousRequest() }

// AccumulatedData returns the current request's accumulated data map.
func (s *Step) AccumulatedData() map[string]any { return s.Request().AccumulatedData }

// AuxData returns the current request's auxiliary data map.
func (s *Step) AuxData() map[string]any { return s.Request().AuxData }

// Text returns the response body decoded as text.
func (s *Step) Text() string { return s.Response.Text }

// LocalFilepath returns the archived file's local path, or nil if this
// response did not come from an Archive request.
func (s *Step) LocalFilepath() *string {
	if s.archive == nil {
		return nil
	}
	return &s.archive.FileURL
}

// JSONContent decodes the response body as JSON into v. A decode failure
// is reported as a ScraperAssumption (DataFormatAssumption), matching the
// source decorator's _parse_json behavior of raising ScraperAssumptionException.
func (s *Step) JSONContent(v any) error {
	if err := json.Unmarshal(s.Response.Content, v); err != nil {
		return NewDataFormatAssumption(s.Response.URL, fmt.Sprintf("%T", v), []FieldError{{Location: "$", Message: err.Error()}}, string(s.Response.Content))
	}
	return nil
}

// HTMLTree parses the response body as HTML via goquery. A parse failure
// is reported as an HTMLStructuralAssumption, matching the source
// decorator's _parse_html fallback-to-raw-bytes-then-raise behavior.
func (s *Step) HTMLTree() (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(s.Response.Content))
	if err != nil {
		return nil, NewHTMLStructuralAssumption(s.Response.URL, "failed to parse response as HTML: "+err.Error())
	}
	return doc, nil
}

// HTMLNode parses the response body into an htmlquery/XPath-queryable
// tree, for continuations that prefer XPath selectors over goquery's
// CSS-selector API.
func (s *Step) HTMLNode() (*html.Node, error) {
	node, err := htmlquery.Parse(bytes.NewReader(s.Response.Content))
	if err != nil {
		return nil, NewHTMLStructuralAssumption(s.Response.URL, "failed to parse response as HTML (xpath): "+err.Error())
	}
	return node, nil
}

// XMLTree parses the response body as XML into an xmlquery/XPath-queryable
// tree, for continuations scraping XML or RSS/Atom feeds rather than HTML.
func (s *Step) XMLTree() (*xmlquery.Node, error) {
	node, err := xmlquery.Parse(bytes.NewReader(s.Response.Content))
	if err != nil {
		return nil, NewHTMLStructuralAssumption(s.Response.URL, "failed to parse response as XML: "+err.Error())
	}
	return node, nil
}

// ContinuationFunc is a registered scraper step. It receives the Step
// context and an emit callback it must call once per yield, in source
// order (SPEC_FULL.md §5: "yields are processed in source order"). emit
// returning a non-nil error means the engine wants the continuation to
// stop iterating (e.g. shutdown); the continuation should return promptly.
type ContinuationFunc func(step *Step, emit func(Yield) error) error

// ContinuationMetadata mirrors the source decorator's StepMetadata:
// default priority inherited by requests that target this continuation,
// and an encoding name. The encoding is only recorded: Step.Text returns
// Response.Text, which the transport decodes from the Content-Type header
// and content sniffing without consulting it.
type ContinuationMetadata struct {
	Priority int
	Encoding string
}

// ContinuationOption configures ContinuationMetadata at registration time.
type ContinuationOption func(*ContinuationMetadata)

// WithPriority overrides the default inherited priority (9) for requests
// naming this continuation, mirroring the source decorator's priority kwarg.
func WithPriority(p int) ContinuationOption {
	return func(m *ContinuationMetadata) { m.Priority = p }
}

// WithEncoding overrides the default "utf-8" encoding recorded in the
// continuation's metadata. Step.Text does not use it.
func WithEncoding(enc string) ContinuationOption {
	return func(m *ContinuationMetadata) { m.Encoding = enc }
}

// Registry maps continuation names to their ContinuationFunc and metadata.
// A Scraper typically embeds a Registry and registers its methods in its
// constructor, implementing the Continuation lookup method for free.
type Registry struct {
	funcs map[string]ContinuationFunc
	meta  map[string]ContinuationMetadata
}

// NewRegistry returns an empty continuation registry.
func NewRegistry() *Registry {
	return &Registry{funcs: map[string]ContinuationFunc{}, meta: map[string]ContinuationMetadata{}}
}

// Register adds a continuation under name, with default priority 9 and
// encoding "utf-8" unless overridden by opts.
func (r *Registry) Register(name string, fn ContinuationFunc, opts ...ContinuationOption) {
	meta := ContinuationMetadata{Priority: DefaultPriority, Encoding: "utf-8"}
	for _, opt := range opts {
		opt(&meta)
	}
	r.funcs[name] = fn
	r.meta[name] = meta
}

// Continuation implements the Scraper interface's lookup.
func (r *Registry) Continuation(name string) (ContinuationFunc, bool) {
	fn, ok := r.funcs[name]
	return fn, ok
}

// Metadata returns the registered metadata for name, if any.
func (r *Registry) Metadata(name string) (ContinuationMetadata, bool) {
	m, ok := r.meta[name]
	return m, ok
}

// ResolveContinuationTarget mirrors the priority part of the source's
// _process_yielded_request: when req.Continuation names a registered
// continuation and a non-Archive req still holds DefaultPriority, req
// inherits that continuation's registered priority. An unregistered or
// empty name leaves req unchanged. This is sugar layered over the
// string-named contract (SPEC_FULL.md §9) and never replaces it.
func ResolveContinuationTarget(r *Registry, req *Request) {
	meta, ok := r.Metadata(req.Continuation)
	if !ok {
		return
	}
	if req.Priority == DefaultPriority && req.Kind != Archive {
		req.Priority = meta.Priority
	}
}

// Scraper is the inbound contract user code implements, per SPEC_FULL.md §6.
type Scraper interface {
	Entry() (*Request, error)
	Continuation(name string) (ContinuationFunc, bool)
}
