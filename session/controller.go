package session

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/M7HZ/bright-clinic/models"
)

const defaultResolveTimeout = 10 * time.Second

// State is the read model exposed to consumers. Loading=true means the
// session or its role is still unknown; consumers must treat it as
// "unknown", never as "anonymous".
type State struct {
	User    *Identity
	Session *Session
	Role    models.AppRole
	Loading bool
}

// Authenticated reports whether a resolved identity with a role is present.
func (s State) Authenticated() bool {
	return !s.Loading && s.User != nil && s.Role != ""
}

// Controller composes the session store and the role resolver into a
// single observable state. It is the only writer of that state; consumers
// subscribe read-only.
//
// Role fetches triggered by a sign-in are tagged with a generation token.
// If a sign-out or a different sign-in lands before the fetch resolves,
// the generation has moved on and the result is discarded; the underlying
// request is not assumed cancellable.
type Controller struct {
	store          *Store
	resolver       RoleResolver
	resolveTimeout time.Duration

	mu      sync.RWMutex
	gen     uint64
	user    *Identity
	session *Session
	role    models.AppRole
	loading bool

	subs    map[uint64]func(State)
	nextSub uint64

	cancelStore func()
}

func NewController(store *Store, resolver RoleResolver) *Controller {
	return &Controller{
		store:          store,
		resolver:       resolver,
		resolveTimeout: defaultResolveTimeout,
		loading:        true,
		subs:           make(map[uint64]func(State)),
	}
}

// Init reads the store's current session and starts reacting to auth
// change events. A present session enters the role-pending state and
// triggers a role fetch; an absent one resolves to anonymous.
func (c *Controller) Init(ctx context.Context) {
	c.cancelStore = c.store.Subscribe(c.onAuthChange)

	sess, user := c.store.Current()

	c.mu.Lock()
	if sess == nil || user == nil {
		c.user = nil
		c.session = nil
		c.role = ""
		c.loading = false
		c.mu.Unlock()
		c.notify()
		return
	}

	c.user = user
	c.session = sess
	c.role = ""
	c.loading = true
	c.gen++
	gen := c.gen
	id := user.ID
	c.mu.Unlock()
	c.notify()

	go c.resolveRole(gen, id)
}

// Dispose unregisters the store listener and drops all subscribers.
// In-flight role fetches resolve against a bumped generation and are
// discarded.
func (c *Controller) Dispose() {
	if c.cancelStore != nil {
		c.cancelStore()
		c.cancelStore = nil
	}

	c.mu.Lock()
	c.gen++
	c.subs = make(map[uint64]func(State))
	c.mu.Unlock()
}

// State returns a snapshot of the current session state.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return State{User: c.user, Session: c.session, Role: c.role, Loading: c.loading}
}

// Subscribe registers a state listener. The returned cancel func must be
// called on consumer teardown.
func (c *Controller) Subscribe(fn func(State)) (cancel func()) {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

func (c *Controller) onAuthChange(evt ChangeEvent) {
	switch evt.Kind {
	case EventSignedOut:
		c.mu.Lock()
		// Bump the generation so an in-flight role fetch from the
		// previous sign-in cannot land on the cleared state.
		c.gen++
		c.user = nil
		c.session = nil
		c.role = ""
		c.loading = false
		c.mu.Unlock()
		c.notify()

	case EventSignedIn:
		c.mu.Lock()
		c.gen++
		gen := c.gen
		c.user = evt.User
		c.session = evt.Session
		// The role is never carried over from a previous identity, even
		// when the ids happen to match (reconnect after refresh).
		c.role = ""
		c.loading = true
		var id string
		if evt.User != nil {
			id = evt.User.ID
		}
		c.mu.Unlock()
		c.notify()

		go c.resolveRole(gen, id)

	case EventTokenRefreshed:
		c.mu.Lock()
		c.session = evt.Session
		c.mu.Unlock()
		c.notify()
	}
}

func (c *Controller) resolveRole(gen uint64, identityID string) {
	ctx, cancel := context.WithTimeout(context.Background(), c.resolveTimeout)
	defer cancel()

	role, err := c.resolver.ResolveRole(ctx, identityID)

	c.mu.Lock()
	if c.gen != gen {
		// A sign-out or a newer sign-in superseded this fetch.
		c.mu.Unlock()
		return
	}
	if err != nil {
		if errors.Is(err, ErrRoleNotFound) {
			log.Printf("Integrity concern: identity %s has no role row", identityID)
		} else {
			log.Printf("Role resolution failed for %s: %v", identityID, err)
		}
		role = ""
	}
	c.role = role
	c.loading = false
	c.mu.Unlock()
	c.notify()
}

func (c *Controller) notify() {
	c.mu.RLock()
	st := State{User: c.user, Session: c.session, Role: c.role, Loading: c.loading}
	listeners := make([]func(State), 0, len(c.subs))
	for _, fn := range c.subs {
		listeners = append(listeners, fn)
	}
	c.mu.RUnlock()

	for _, fn := range listeners {
		fn(st)
	}
}
