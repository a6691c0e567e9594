// Package session holds the Provider: the single owner of the
// in-memory session record, with the loading -> ready lifecycle the
// rest of the system reads through snapshots.
package session

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/you/clinicgate/domain"
)

// State is the provider lifecycle state.
type State int

const (
	// StateInitializing is the transient state before the one-shot
	// rehydration from the session store has completed.
	StateInitializing State = iota
	StateUnauthenticated
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticated:
		return "authenticated"
	}
	return "unknown"
}

// Snapshot is a point-in-time read of the provider, safe to hold across
// a render without observing later mutations.
type Snapshot struct {
	State   State
	Session *domain.Session
}

// Pending reports whether rehydration is still in flight.
func (s Snapshot) Pending() bool { return s.State == StateInitializing }

// IsAuthenticated reports whether a session is installed.
func (s Snapshot) IsAuthenticated() bool { return s.State == StateAuthenticated }

// Role returns the session's role, or "" when unauthenticated.
func (s Snapshot) Role() domain.Role {
	if s.Session == nil {
		return ""
	}
	return s.Session.Role
}

// Provider is the sole writer of the in-memory session. It is
// explicitly constructed and injected; there is no package-level
// instance, so tests can run isolated providers in parallel.
type Provider struct {
	store domain.SessionStore
	log   *zap.Logger

	mu      sync.RWMutex
	state   State
	session *domain.Session

	rehydrateOnce sync.Once
	ready         chan struct{}
}

// NewProvider creates a provider in the Initializing state. Call
// Rehydrate to complete startup.
func NewProvider(store domain.SessionStore, log *zap.Logger) *Provider {
	if log == nil {
		log = zap.NewNop()
	}
	return &Provider{
		store: store,
		log:   log,
		state: StateInitializing,
		ready: make(chan struct{}),
	}
}

// Rehydrate performs the one-shot load from the session store. It runs
// at most once per provider lifetime; later calls are no-ops. A load
// failure degrades to Unauthenticated, never to an error: the store has
// already purged anything it could not trust.
func (p *Provider) Rehydrate(ctx context.Context) {
	p.rehydrateOnce.Do(func() {
		defer close(p.ready)

		sess, err := p.store.Load(ctx)
		if err != nil {
			p.log.Warn("session rehydration failed, starting unauthenticated", zap.Error(err))
			sess = nil
		}

		p.mu.Lock()
		defer p.mu.Unlock()
		// A login may have raced the rehydration and already resolved
		// the lifecycle; the stored record must not clobber it.
		if p.state != StateInitializing {
			return
		}
		if sess == nil {
			p.state = StateUnauthenticated
			return
		}
		p.state = StateAuthenticated
		p.session = sess
		p.log.Info("session rehydrated",
			zap.String("user_id", sess.ID),
			zap.String("role", sess.Role.String()))
	})
}

// Ready is closed once rehydration has completed.
func (p *Provider) Ready() <-chan struct{} { return p.ready }

// Snapshot returns the current state and a copy of the session.
func (p *Provider) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return Snapshot{State: p.state, Session: p.session.Clone()}
}

// Login installs a well-formed session and persists it. The caller is
// responsible for having obtained the payload from the backend; this
// only validates and installs it. The store write happens before the
// in-memory commit so a reload immediately afterwards sees the new
// session.
func (p *Provider) Login(ctx context.Context, sess *domain.Session) error {
	if err := sess.Validate(); err != nil {
		return err
	}
	sess = sess.Clone()
	if err := p.store.Save(ctx, sess); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = StateAuthenticated
	p.session = sess
	p.log.Info("session installed",
		zap.String("user_id", sess.ID),
		zap.String("role", sess.Role.String()))
	return nil
}

// Logout clears the session and the durable record. Calling it while
// already unauthenticated is a no-op.
func (p *Provider) Logout(ctx context.Context) error {
	if err := p.store.Clear(ctx); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == StateAuthenticated {
		p.log.Info("session cleared", zap.String("user_id", p.session.ID))
	}
	p.state = StateUnauthenticated
	p.session = nil
	return nil
}

// UpdateUser merges the given fields shallowly into the active session
// and re-persists it. Calling it with no active session is a contract
// violation and fails with ErrNoActiveSession, leaving the store
// untouched.
func (p *Provider) UpdateUser(ctx context.Context, update domain.SessionUpdate) (*domain.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != StateAuthenticated {
		return nil, domain.ErrNoActiveSession
	}

	merged := p.session.Clone()
	if update.Name != nil {
		merged.Name = *update.Name
	}
	if update.Email != nil {
		merged.Email = *update.Email
	}
	if update.Phone != nil {
		merged.Phone = *update.Phone
	}
	if update.Token != nil {
		merged.Token = *update.Token
	}
	if len(update.Profile) > 0 {
		if merged.Profile == nil {
			merged.Profile = make(map[string]any, len(update.Profile))
		}
		for k, v := range update.Profile {
			merged.Profile[k] = v
		}
	}

	if err := p.store.Save(ctx, merged); err != nil {
		return nil, err
	}
	p.session = merged
	return merged.Clone(), nil
}
