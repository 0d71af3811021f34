// Package booking holds the booking inquiry form: its fields, validation
// rules, per-field bindings and the sessions that tie one form to one
// submission lifecycle.
//
// # Form state
//
// A Form is an explicit container scoped to one booking session. Every
// change through a Binding writes the value immediately. Validation never
// rejects input; it only flags a field for display, and a flag is shown
// only once the field has been touched.
//
// # Rules
//
// The RuleSet is a go-playground validator with two custom tags:
//
//	mobile   Australian mobile and landline shapes, e.g. "0412345678",
//	         "+61 412 345 678" or "(02) 9876 5432"
//	service  one of the services offered on the site
//
// The mobile pattern uses lookaheads, so it is compiled with regexp2 in
// ECMAScript mode rather than the standard library's RE2 engine.
//
// # Sessions
//
// A Session pairs a Form with a lifecycle.Controller. Submit validates every
// field, starts the lifecycle, hands a snapshot of the values to the
// configured Sink and resets the form to empty. The Registry owns all open
// sessions and sweeps the ones left idle past their TTL.
package booking
