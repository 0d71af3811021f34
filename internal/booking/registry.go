package booking

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/muurk/coachsite/internal/lifecycle"
	"github.com/muurk/coachsite/internal/logging"
)

// DefaultSessionTTL is how long an untouched session survives.
const DefaultSessionTTL = 30 * time.Minute

// RegistryOptions configures a Registry.
type RegistryOptions struct {
	Rules        *RuleSet
	Sink         Sink
	Clock        clockwork.Clock
	SubmitDelay  time.Duration
	SuccessDelay time.Duration
	TTL          time.Duration
}

// Registry owns every open booking session.
type Registry struct {
	opts RegistryOptions

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewRegistry returns an empty registry.
func NewRegistry(opts RegistryOptions) *Registry {
	if opts.Sink == nil {
		opts.Sink = DiscardSink{}
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultSessionTTL
	}
	return &Registry{
		opts:     opts,
		sessions: make(map[string]*Session),
	}
}

// Rules returns the rule set shared by every session.
func (r *Registry) Rules() *RuleSet { return r.opts.Rules }

// Open mounts a new form, optionally preselecting a service.
func (r *Registry) Open(preset string) *Session {
	s := newSession(r.opts.Rules, r.opts.Sink, r.opts.Clock, lifecycle.Options{
		Clock:        r.opts.Clock,
		SubmitDelay:  r.opts.SubmitDelay,
		SuccessDelay: r.opts.SuccessDelay,
	})
	s.Form.Preset(preset)

	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()

	logging.LogSession(s.ID, "opened")
	return s
}

// Get returns the session with id and marks it as seen.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	r.mu.Unlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	s.touch()
	return s, nil
}

// Close tears down the session with id.
func (r *Registry) Close(id string) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}

	s.Close()
	logging.LogSession(id, "closed")
	return nil
}

// Len returns the number of open sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep closes sessions idle longer than the TTL. Sessions in the middle of
// a submission are left alone until they return to Idle.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	var expired []*Session
	for id, s := range r.sessions {
		if s.IdleFor() > r.opts.TTL && s.State() == lifecycle.Idle {
			expired = append(expired, s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, s := range expired {
		s.Close()
		logging.LogSession(s.ID, "expired")
	}
	return len(expired)
}

// Run sweeps every interval until ctx is cancelled.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := r.opts.Clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			if n := r.Sweep(); n > 0 {
				logging.Debug("Swept idle booking sessions", zap.Int("count", n))
			}
		}
	}
}

// CloseAll tears down every session.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	all := r.sessions
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	for id, s := range all {
		s.Close()
		logging.LogSession(id, "closed")
	}
}
