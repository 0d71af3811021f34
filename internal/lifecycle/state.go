package lifecycle

import (
	"fmt"
	"time"
)

// State is the submission state of one booking form.
type State int

const (
	Idle State = iota
	Submitting
	Succeeded
)

// Fixed dwell times of the two timed states.
const (
	DefaultSubmitDelay  = 3000 * time.Millisecond
	DefaultSuccessDelay = 3500 * time.Millisecond
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Overlay reports whether the blocking overlay is shown in this state.
// The overlay shows a spinner while Submitting and a checkmark once Succeeded.
func (s State) Overlay() bool {
	return s == Submitting || s == Succeeded
}

// MarshalText encodes the state by name so JSON payloads read {"state":"idle"}.
func (s State) MarshalText() ([]byte, error) {
	switch s {
	case Idle, Submitting, Succeeded:
		return []byte(s.String()), nil
	default:
		return nil, fmt.Errorf("invalid lifecycle state %d", int(s))
	}
}

// UnmarshalText parses a state name.
func (s *State) UnmarshalText(text []byte) error {
	switch string(text) {
	case "idle":
		*s = Idle
	case "submitting":
		*s = Submitting
	case "succeeded":
		*s = Succeeded
	default:
		return fmt.Errorf("unknown lifecycle state %q", string(text))
	}
	return nil
}

// next returns the state that follows s and how long s lasts before moving on.
// Idle has no timed successor.
func (s State) next(opts Options) (State, time.Duration, bool) {
	switch s {
	case Submitting:
		return Succeeded, opts.SubmitDelay, true
	case Succeeded:
		return Idle, opts.SuccessDelay, true
	default:
		return Idle, 0, false
	}
}

// Transition records one state change.
type Transition struct {
	From State     `json:"from"`
	To   State     `json:"to"`
	At   time.Time `json:"at"`
}
