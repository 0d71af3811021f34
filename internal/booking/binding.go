package booking

// Binding connects one labelled input or select to a Form. It exposes the
// current value, a change handler and a derived validity flag.
type Binding struct {
	form *Form
	spec FieldSpec
}

// Spec returns the presentation of the bound field.
func (b *Binding) Spec() FieldSpec { return b.spec }

// Field returns the bound field name.
func (b *Binding) Field() Field { return b.spec.Field }

// Value returns the current value.
func (b *Binding) Value() string { return b.form.Get(b.spec.Field) }

// Change is the change handler. The form is updated immediately and the
// value is never rejected.
func (b *Binding) Change(value string) {
	_ = b.form.Set(b.spec.Field, value)
}

// Valid reports whether the current value passes the field's rules.
func (b *Binding) Valid() bool {
	return b.form.Check(b.spec.Field) == nil
}

// Error returns the message shown beneath the field, or "" when the field is
// valid or has not been touched yet.
func (b *Binding) Error() string {
	if !b.form.Touched(b.spec.Field) {
		return ""
	}
	if fe := b.form.Check(b.spec.Field); fe != nil {
		return fe.Message
	}
	return ""
}

// Choices returns the selectable values of a select field.
func (b *Binding) Choices() []string {
	if !b.spec.Select {
		return nil
	}
	return b.form.rules.Services()
}

// Disabled reports whether the input is locked.
func (b *Binding) Disabled() bool {
	return b.spec.Field == FieldService && b.form.Locked()
}
