package scraperdriver

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

// TestRunRoutesDataFormatAssumptionToOnInvalidData verifies §4.7's
// propagation policy: a deferred-validation failure goes to
// OnInvalidData, never to OnStructuralError, and does not abort the run.
func TestRunRoutesDataFormatAssumptionToOnInvalidData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	s := &invalidDataScraper{Registry: NewRegistry(), entryURL: srv.URL + "/"}
	s.Register("entry", s.entry)

	var invalidCalled, structuralCalled bool
	err := Run(s,
		WithOnInvalidData(func(raw any) { invalidCalled = true }),
		WithOnStructuralError(func(ScraperAssumption) bool { structuralCalled = true; return true }),
	)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !invalidCalled {
		t.Fatalf("OnInvalidData never fired")
	}
	if structuralCalled {
		t.Fatalf("OnStructuralError should not fire for a DataFormatAssumption")
	}
}

type invalidDataScraper struct {
	*Registry
	entryURL string
}

func (s *invalidDataScraper) Entry() (*Request, error) {
	return NewRequest(Navigating, HTTPParams{Method: MethodGet, URL: s.entryURL}, "entry"), nil
}

func (s *invalidDataScraper) entry(step *Step, emit func(Yield) error) error {
	deferred := Raw[string](step.Request().HTTPParams.URL, "widget", func(raw map[string]any) (string, []FieldError) {
		return "", []FieldError{{Location: "name", Message: "required"}}
	}, map[string]any{})
	return emit(Data(deferred))
}

// TestRunRoutesStructuralErrorToCallback verifies that a ScraperAssumption
// raised directly by a continuation (not via emit) is routed to
// OnStructuralError with its concrete type intact, and that the run still
// completes without error when the callback returns true.
func TestRunRoutesStructuralErrorToCallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	s := &structuralErrorScraper{Registry: NewRegistry(), entryURL: srv.URL + "/"}
	s.Register("entry", s.entry)

	var gotAssumption ScraperAssumption
	err := Run(s, WithOnStructuralError(func(a ScraperAssumption) bool {
		gotAssumption = a
		return true
	}))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if gotAssumption == nil {
		t.Fatalf("OnStructuralError never fired")
	}
	if _, ok := gotAssumption.(*HTMLStructuralAssumption); !ok {
		t.Fatalf("assumption = %T, want *HTMLStructuralAssumption", gotAssumption)
	}
}

type structuralErrorScraper struct {
	*Registry
	entryURL string
}

func (s *structuralErrorScraper) Entry() (*Request, error) {
	return NewRequest(Navigating, HTTPParams{Method: MethodGet, URL: s.entryURL}, "entry"), nil
}

func (s *structuralErrorScraper) entry(step *Step, emit func(Yield) error) error {
	return NewHTMLStructuralAssumption(step.Request().HTTPParams.URL, "expected table.dockets")
}

// fakeTransport always fails with a supplied error, to exercise
// OnTransientException routing without a real network round trip.
type fakeTransport struct {
	err error
}

func (f *fakeTransport) Send(p HTTPParams) (int, http.Header, []byte, string, error) {
	return 0, nil, nil, "", f.err
}

// TestRunRoutesTransientExceptionAndHonorsContinueDecision verifies that a
// transport-level TransientException is routed to OnTransientException,
// and that the worker stops when the callback returns false.
func TestRunRoutesTransientExceptionAndHonorsContinueDecision(t *testing.T) {
	s := &structuralErrorScraper{Registry: NewRegistry(), entryURL: "http://example.invalid/"}
	s.Register("entry", s.entry)

	var gotTransient TransientException
	err := Run(s,
		WithTransport(&fakeTransport{err: NewNetworkReset("http://example.invalid/", errDial)}),
		WithOnTransientException(func(te TransientException) bool {
			gotTransient = te
			return false
		}),
	)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if gotTransient == nil {
		t.Fatalf("OnTransientException never fired")
	}
	if _, ok := gotTransient.(*NetworkReset); !ok {
		t.Fatalf("transient = %T, want *NetworkReset", gotTransient)
	}
}

var errDial = &netDialError{}

type netDialError struct{}

func (*netDialError) Error() string { return "dial tcp: connection refused" }
