package session

import (
	"context"
	"sync"
	"time"
)

// Identity is an authenticated principal, stable across sessions.
type Identity struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
}

// Session is a time-bounded authorization grant for one identity.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	IdentityID   string    `json:"identity_id"`
	IssuedAt     time.Time `json:"issued_at"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

type EventKind int

const (
	EventSignedIn EventKind = iota
	EventSignedOut
	EventTokenRefreshed
)

func (k EventKind) String() string {
	switch k {
	case EventSignedIn:
		return "signed_in"
	case EventSignedOut:
		return "signed_out"
	case EventTokenRefreshed:
		return "token_refreshed"
	}
	return "unknown"
}

// ChangeEvent describes an auth state change emitted by the provider.
// Session and User are nil for EventSignedOut.
type ChangeEvent struct {
	Kind    EventKind
	Session *Session
	User    *Identity
}

// Provider is the identity collaborator the store wraps. The initial
// session it reports may be stale relative to a concurrent sign-in
// elsewhere; cross-client immediacy is not guaranteed.
type Provider interface {
	CurrentSession(ctx context.Context) (*Session, *Identity, error)
	OnChange(fn func(ChangeEvent)) (cancel func())
}

// Store holds the current authentication session and fans change events
// out to subscribers. It performs no I/O beyond the initial provider
// read and never blocks on notification.
type Store struct {
	mu       sync.RWMutex
	provider Provider
	session  *Session
	user     *Identity

	subs    map[uint64]func(ChangeEvent)
	nextSub uint64

	cancelProvider func()
}

func NewStore(provider Provider) *Store {
	return &Store{
		provider: provider,
		subs:     make(map[uint64]func(ChangeEvent)),
	}
}

// Init reads whatever session the provider currently holds and starts
// relaying provider change events to subscribers.
func (s *Store) Init(ctx context.Context) error {
	sess, user, err := s.provider.CurrentSession(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.session = sess
	s.user = user
	s.mu.Unlock()

	s.cancelProvider = s.provider.OnChange(s.apply)
	return nil
}

// Dispose unregisters the provider listener. Subscribers receive no
// further events.
func (s *Store) Dispose() {
	if s.cancelProvider != nil {
		s.cancelProvider()
		s.cancelProvider = nil
	}

	s.mu.Lock()
	s.subs = make(map[uint64]func(ChangeEvent))
	s.mu.Unlock()
}

// Current returns the session and identity the store last observed.
// Both are nil when signed out.
func (s *Store) Current() (*Session, *Identity) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session, s.user
}

// Subscribe registers a listener for auth change events. The returned
// cancel func must be called on consumer teardown.
func (s *Store) Subscribe(fn func(ChangeEvent)) (cancel func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) apply(evt ChangeEvent) {
	s.mu.Lock()
	s.session = evt.Session
	s.user = evt.User
	listeners := make([]func(ChangeEvent), 0, len(s.subs))
	for _, fn := range s.subs {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(evt)
	}
}
