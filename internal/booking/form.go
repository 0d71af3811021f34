package booking

import (
	"fmt"
	"sync"
)

// Form is the state container of one booking form.
type Form struct {
	rules *RuleSet

	mu      sync.Mutex
	values  Values
	touched map[Field]bool
	// locked is set when the service was preselected from one of the offered
	// services; the service chooser is then disabled.
	locked bool
}

// NewForm returns an empty form validated by rules.
func NewForm(rules *RuleSet) *Form {
	return &Form{
		rules:   rules,
		touched: make(map[Field]bool),
	}
}

// Preset preselects the service. Presetting one of the offered services
// locks the chooser; any other value is ignored.
func (f *Form) Preset(service string) {
	if service == "" || !f.rules.offers(service) || len(f.rules.services) == 0 {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values.Service = service
	f.locked = true
}

// Locked reports whether the service chooser is disabled.
func (f *Form) Locked() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.locked
}

// Set writes one field and marks it touched. Any value is accepted.
// Writes to a locked service field are ignored.
func (f *Form) Set(field Field, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	p := f.values.ref(field)
	if p == nil {
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	if field == FieldService && f.locked {
		return nil
	}
	*p = value
	f.touched[field] = true
	return nil
}

// Get returns the current value of field.
func (f *Form) Get(field Field) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values.Get(field)
}

// Values returns a copy of every field.
func (f *Form) Values() Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values
}

// Touched reports whether field has been changed or the form validated.
func (f *Form) Touched(field Field) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.touched[field]
}

// Check returns the flag on field regardless of whether it was touched.
func (f *Form) Check(field Field) *FieldError {
	return f.rules.Field(field, f.Get(field))
}

// Errors returns the flags of touched fields only, as shown to the visitor.
func (f *Form) Errors() ValidationErrors {
	f.mu.Lock()
	values := f.values
	touched := make(map[Field]bool, len(f.touched))
	for k, v := range f.touched {
		touched[k] = v
	}
	f.mu.Unlock()

	var out ValidationErrors
	for _, e := range f.rules.Struct(values) {
		if touched[e.Field] {
			out = append(out, e)
		}
	}
	return out
}

// Validate marks every field touched and returns all flags.
func (f *Form) Validate() ValidationErrors {
	_, errs := f.snapshot()
	return errs
}

// snapshot marks every field touched and returns the values together with
// their flags, both taken at the same instant.
func (f *Form) snapshot() (Values, ValidationErrors) {
	f.mu.Lock()
	for _, field := range Fields {
		f.touched[field] = true
	}
	values := f.values
	f.mu.Unlock()

	return values, f.rules.Struct(values)
}

// Reset empties every field, clears touched flags and unlocks the chooser.
func (f *Form) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values = Values{}
	f.touched = make(map[Field]bool)
	f.locked = false
}

// Fill writes every field of v, as a full form post does.
func (f *Form) Fill(v Values) {
	for _, field := range Fields {
		_ = f.Set(field, v.Get(field))
	}
}

// Bind returns the binding for field.
func (f *Form) Bind(field Field) (*Binding, error) {
	spec, ok := Spec(field)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return &Binding{form: f, spec: spec}, nil
}

// Bindings returns a binding for every field in display order.
func (f *Form) Bindings() []*Binding {
	out := make([]*Binding, 0, len(Fields))
	for _, field := range Fields {
		out = append(out, &Binding{form: f, spec: specs[field]})
	}
	return out
}
