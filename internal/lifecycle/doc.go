// Package lifecycle implements the submission lifecycle of the booking form.
//
// A Controller is always in exactly one of three states:
//
//	Idle ──Submit──▶ Submitting ──3000ms──▶ Succeeded ──3500ms──▶ Idle
//
// Transitions happen strictly in that order. Submit is accepted only while
// Idle; attempts in any other state return ErrBusy, so a double click on the
// submit button can never start a second cycle. There is no failure path:
// every accepted submit ends in Succeeded and then Idle.
//
// # Timers
//
// Each accepted Submit starts one goroutine that waits out both delays on the
// injected clockwork.Clock. Close stops that goroutine and cancels whichever
// timer is pending, so a torn-down form never transitions again. Tests drive
// the delays with clockwork.NewFakeClock:
//
//	clock := clockwork.NewFakeClock()
//	c := lifecycle.New(lifecycle.Options{Clock: clock})
//	_ = c.Submit()
//	_ = clock.BlockUntilContext(ctx, 1)
//	clock.Advance(lifecycle.DefaultSubmitDelay)
//
// # Observers
//
// Subscribe registers a Listener that receives every Transition in order.
// Listeners run on the goroutine that made the transition and must not call
// Submit or Close on the same controller.
package lifecycle
