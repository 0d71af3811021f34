package lifecycle

import (
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

var (
	// ErrBusy is returned by Submit when the controller is not Idle.
	ErrBusy = errors.New("submission already in progress")
	// ErrClosed is returned by Submit after Close.
	ErrClosed = errors.New("lifecycle controller closed")
)

// Listener observes transitions.
type Listener func(Transition)

// Options configures a Controller. Zero values select the real clock and the
// default delays.
type Options struct {
	Clock        clockwork.Clock
	SubmitDelay  time.Duration
	SuccessDelay time.Duration
}

func (o Options) withDefaults() Options {
	if o.Clock == nil {
		o.Clock = clockwork.NewRealClock()
	}
	if o.SubmitDelay <= 0 {
		o.SubmitDelay = DefaultSubmitDelay
	}
	if o.SuccessDelay <= 0 {
		o.SuccessDelay = DefaultSuccessDelay
	}
	return o
}

// Controller owns the submission state of one booking form.
type Controller struct {
	opts Options

	// emitMu serialises transitions so listeners see them in order.
	emitMu sync.Mutex

	mu        sync.Mutex
	state     State
	enteredAt time.Time
	closed    bool
	nextID    int
	listeners map[int]Listener

	stop chan struct{}
	wg   sync.WaitGroup
}

// New returns an Idle controller.
func New(opts Options) *Controller {
	opts = opts.withDefaults()
	return &Controller{
		opts:      opts,
		state:     Idle,
		enteredAt: opts.Clock.Now(),
		listeners: make(map[int]Listener),
		stop:      make(chan struct{}),
	}
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Since returns how long the controller has been in its current state.
func (c *Controller) Since() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opts.Clock.Since(c.enteredAt)
}

// Delays returns the configured dwell times of Submitting and Succeeded.
func (c *Controller) Delays() (submit, success time.Duration) {
	return c.opts.SubmitDelay, c.opts.SuccessDelay
}

// Submit moves the controller from Idle to Submitting and schedules the
// rest of the cycle.
func (c *Controller) Submit() error {
	c.emitMu.Lock()
	defer c.emitMu.Unlock()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.state != Idle {
		c.mu.Unlock()
		return ErrBusy
	}
	t, listeners := c.setLocked(Submitting)
	c.wg.Add(1)
	c.mu.Unlock()

	go c.run()
	notify(listeners, t)
	return nil
}

// run waits out Submitting and then Succeeded.
func (c *Controller) run() {
	defer c.wg.Done()

	state := Submitting
	for {
		next, delay, ok := state.next(c.opts)
		if !ok {
			return
		}

		timer := c.opts.Clock.NewTimer(delay)
		select {
		case <-timer.Chan():
		case <-c.stop:
			timer.Stop()
			return
		}

		if !c.advance(state, next) {
			return
		}
		state = next
	}
}

// advance performs the timed transition from -> to unless the controller
// was closed while the timer was firing.
func (c *Controller) advance(from, to State) bool {
	c.emitMu.Lock()
	defer c.emitMu.Unlock()

	c.mu.Lock()
	if c.closed || c.state != from {
		c.mu.Unlock()
		return false
	}
	t, listeners := c.setLocked(to)
	c.mu.Unlock()

	notify(listeners, t)
	return true
}

func (c *Controller) setLocked(to State) (Transition, []Listener) {
	now := c.opts.Clock.Now()
	t := Transition{From: c.state, To: to, At: now}
	c.state = to
	c.enteredAt = now

	listeners := make([]Listener, 0, len(c.listeners))
	for id := 0; id < c.nextID; id++ {
		if l, ok := c.listeners[id]; ok {
			listeners = append(listeners, l)
		}
	}
	return t, listeners
}

func notify(listeners []Listener, t Transition) {
	for _, l := range listeners {
		l(t)
	}
}

// Subscribe registers l for every future transition and returns a function
// that removes it.
func (c *Controller) Subscribe(l Listener) (cancel func()) {
	_, cancel = c.Watch(l)
	return cancel
}

// Watch is Subscribe that also returns the state at the moment l was
// registered. l receives exactly the transitions that happen after that state.
func (c *Controller) Watch(l Listener) (current State, cancel func()) {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = l
	current = c.state
	c.mu.Unlock()

	var once sync.Once
	return current, func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.listeners, id)
			c.mu.Unlock()
		})
	}
}

// Close tears the controller down: pending timers are cancelled and no
// further transitions happen. Close is idempotent.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.stop)
	c.mu.Unlock()

	c.wg.Wait()
}

// Done is closed when the controller is torn down.
func (c *Controller) Done() <-chan struct{} {
	return c.stop
}

// Closed reports whether Close has been called.
func (c *Controller) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
