package scraperdriver

import "testing"

type widget struct {
	Name  string
	Price int
}

func validateWidget(raw map[string]any) (widget, []FieldError) {
	name, _ := raw["name"].(string)
	price, _ := raw["price"].(int)

	var errs []FieldError
	if name == "" {
		errs = append(errs, FieldError{Location: "name", Message: "required"})
	}
	if price <= 0 {
		errs = append(errs, FieldError{Location: "price", Message: "must be positive"})
	}
	return widget{Name: name, Price: price}, errs
}

func TestDeferredValidationSucceeds(t *testing.T) {
	d := Raw("https://example.com", "widget", validateWidget, map[string]any{"name": "gadget", "price": 10})
	v, err := d.Validate()
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if v.Name != "gadget" || v.Price != 10 {
		t.Fatalf("got %+v", v)
	}
}

func TestDeferredValidationFailureReportsDataFormatAssumption(t *testing.T) {
	d := Raw("https://example.com", "widget", validateWidget, map[string]any{"price": -1})
	_, err := d.Validate()
	if err == nil {
		t.Fatalf("expected a validation error")
	}
	dfa, ok := err.(*DataFormatAssumption)
	if !ok {
		t.Fatalf("err = %T, want *DataFormatAssumption", err)
	}
	if len(dfa.Errors) != 2 {
		t.Fatalf("Errors = %v, want 2 field errors", dfa.Errors)
	}
}

func TestDeferredValidationSatisfiesEngineRecognitionInterface(t *testing.T) {
	d := Raw("https://example.com", "widget", validateWidget, map[string]any{"name": "gadget", "price": 10})
	var asAny any = d
	dv, ok := asAny.(deferredValidation)
	if !ok {
		t.Fatalf("DeferredValidation[T] must satisfy the engine's deferredValidation interface")
	}
	v, err := dv.validateAny()
	if err != nil {
		t.Fatalf("validateAny: %v", err)
	}
	if v.(widget).Name != "gadget" {
		t.Fatalf("validateAny returned %+v", v)
	}
}
