package scraperdriver

import (
	"errors"
	"testing"
)

func TestScraperAssumptionSubkindsImplementTheInterface(t *testing.T) {
	var assumptions = []ScraperAssumption{
		NewHTMLStructuralAssumption("https://example.com", "missing table"),
		NewHTMLResponseAssumption("https://example.com", 503, []int{200}),
		NewDataFormatAssumption("https://example.com", "OpinionRecord", []FieldError{{Location: "docket", Message: "required"}}, nil),
	}
	for _, a := range assumptions {
		if a.Error() == "" {
			t.Fatalf("%T.Error() returned empty string", a)
		}
	}
}

func TestTransientExceptionSubkindsImplementTheInterface(t *testing.T) {
	var exceptions = []TransientException{
		NewRequestTimeout("https://example.com"),
		NewNetworkReset("https://example.com", errors.New("connection reset")),
	}
	for _, e := range exceptions {
		if e.Error() == "" {
			t.Fatalf("%T.Error() returned empty string", e)
		}
	}
}

func TestNetworkResetUnwrapsCause(t *testing.T) {
	cause := errors.New("econnreset")
	nr := NewNetworkReset("https://example.com", cause)
	if !errors.Is(nr, cause) {
		t.Fatalf("expected errors.Is to find the wrapped cause")
	}
}

func TestErrorsAsDistinguishesAssumptionSubkinds(t *testing.T) {
	var err error = NewDataFormatAssumption("https://example.com", "X", nil, nil)

	var dfa *DataFormatAssumption
	if !errors.As(err, &dfa) {
		t.Fatalf("expected errors.As to match *DataFormatAssumption")
	}

	var structural *HTMLStructuralAssumption
	if errors.As(err, &structural) {
		t.Fatalf("a DataFormatAssumption must not match *HTMLStructuralAssumption")
	}
}
