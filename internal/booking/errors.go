package booking

import (
	"errors"
	"fmt"
	"strings"
)

// Messages shown beneath a flagged field.
const (
	MsgRequired       = "Required"
	MsgInvalidEmail   = "Invalid email address"
	MsgInvalidMobile  = "Invailid mobile number"
	MsgInvalidService = "Select one of the services offered"
	MsgTooLong        = "Message is too long"
)

var (
	// ErrSessionNotFound is returned for unknown, closed or expired session ids.
	ErrSessionNotFound = errors.New("booking session not found")
	// ErrUnknownField is returned when a change names a field the form does not have.
	ErrUnknownField = errors.New("unknown form field")
)

// FieldError flags one field. It is for display only and never blocks input.
type FieldError struct {
	Field   Field  `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is every flagged field of a form, in display order.
type ValidationErrors []FieldError

func (ve ValidationErrors) Error() string {
	parts := make([]string, len(ve))
	for i, e := range ve {
		parts[i] = e.Error()
	}
	return "invalid booking form: " + strings.Join(parts, "; ")
}

// For returns the flag on f, if any.
func (ve ValidationErrors) For(f Field) (FieldError, bool) {
	for _, e := range ve {
		if e.Field == f {
			return e, true
		}
	}
	return FieldError{}, false
}

// Messages maps field names to their messages for template rendering.
func (ve ValidationErrors) Messages() map[string]string {
	m := make(map[string]string, len(ve))
	for _, e := range ve {
		m[string(e.Field)] = e.Message
	}
	return m
}
