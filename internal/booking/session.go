package booking

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/muurk/coachsite/internal/lifecycle"
	"github.com/muurk/coachsite/internal/logging"
)

// Session is one mounted booking form and its submission lifecycle.
type Session struct {
	ID        string
	Form      *Form
	Lifecycle *lifecycle.Controller

	sink  Sink
	clock clockwork.Clock

	// submitMu serialises submits so validation, the lifecycle guard and
	// the reset act on the same values.
	submitMu sync.Mutex

	mu       sync.Mutex
	lastSeen time.Time
	unsub    func()
}

func newSession(rules *RuleSet, sink Sink, clock clockwork.Clock, lc lifecycle.Options) *Session {
	s := &Session{
		ID:        uuid.NewString(),
		Form:      NewForm(rules),
		Lifecycle: lifecycle.New(lc),
		sink:      sink,
		clock:     clock,
		lastSeen:  clock.Now(),
	}
	s.unsub = s.Lifecycle.Subscribe(func(t lifecycle.Transition) {
		logging.LogTransition(s.ID, t.From.String(), t.To.String())
	})
	return s
}

// Submit validates the form and, when every field passes, starts the
// lifecycle, records the values and resets the form to empty.
//
// It returns ValidationErrors when a field is flagged, lifecycle.ErrBusy when
// a submission is already running and lifecycle.ErrClosed after Close.
func (s *Session) Submit(ctx context.Context) (Inquiry, error) {
	return s.submit(ctx, nil)
}

// SubmitValues fills every field from v and submits, as a full form post
// does. The form is left untouched when a submission is already running.
func (s *Session) SubmitValues(ctx context.Context, v Values) (Inquiry, error) {
	return s.submit(ctx, &v)
}

func (s *Session) submit(ctx context.Context, fill *Values) (Inquiry, error) {
	s.submitMu.Lock()
	defer s.submitMu.Unlock()
	s.touch()

	if s.Lifecycle.Closed() {
		return Inquiry{}, lifecycle.ErrClosed
	}
	if s.Lifecycle.State() != lifecycle.Idle {
		return Inquiry{}, lifecycle.ErrBusy
	}

	if fill != nil {
		s.Form.Fill(*fill)
	}
	values, errs := s.Form.snapshot()
	if len(errs) > 0 {
		return Inquiry{}, errs
	}

	if err := s.Lifecycle.Submit(); err != nil {
		return Inquiry{}, err
	}
	s.Form.Reset()

	inq := Inquiry{
		ID:         uuid.New(),
		Session:    s.ID,
		ReceivedAt: s.clock.Now(),
		Values:     values,
	}
	if err := s.sink.Record(ctx, inq); err != nil {
		logging.Warn("Failed to record inquiry",
			zap.String("session", s.ID),
			zap.String("inquiry", inq.ID.String()),
			zap.Error(err),
		)
	}
	return inq, nil
}

// Change writes one field through its binding, as the field's change
// handler does. Changes are refused with lifecycle.ErrBusy while the
// overlay is up.
func (s *Session) Change(field Field, value string) (*Binding, error) {
	s.submitMu.Lock()
	defer s.submitMu.Unlock()
	s.touch()

	b, err := s.Form.Bind(field)
	if err != nil {
		return nil, err
	}
	if s.Lifecycle.Closed() {
		return nil, lifecycle.ErrClosed
	}
	if s.Lifecycle.State() != lifecycle.Idle {
		return nil, lifecycle.ErrBusy
	}
	b.Change(value)
	return b, nil
}

// State returns the lifecycle state.
func (s *Session) State() lifecycle.State {
	return s.Lifecycle.State()
}

// Close tears the session down and cancels pending lifecycle timers.
func (s *Session) Close() {
	s.unsub()
	s.Lifecycle.Close()
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastSeen = s.clock.Now()
	s.mu.Unlock()
}

// IdleFor returns how long the session has gone without a request.
func (s *Session) IdleFor() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clock.Since(s.lastSeen)
}
