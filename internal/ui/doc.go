// Package ui provides the terminal front end of coachsite.
//
// The booking form (FormModel) is a Bubble Tea program over the same
// booking session and submission lifecycle the web pages use. Each field is
// a booking.Binding: every keystroke is written to the form immediately and
// the field's flag is shown beneath it, but input is never rejected. Submit
// either focuses the first flagged field or empties the form and puts up the
// overlay: a spinner while Submitting, a checkmark while Succeeded. Keys are
// ignored until the lifecycle is back to Idle.
//
// Printer and Header render the one-shot output of the routes, scan and
// version commands with the same palette.
//
// # Logging Integration
//
// This package expects logging to be controlled via the COACHSITE_LOG_LEVEL
// environment variable. When unset or empty, zap logging is silent so the
// form renders cleanly.
package ui
