package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider is a hand-rolled identity provider for tests. Events are
// emitted synchronously through Emit.
type fakeProvider struct {
	session  *Session
	user     *Identity
	err      error
	listener func(ChangeEvent)
}

func (p *fakeProvider) CurrentSession(ctx context.Context) (*Session, *Identity, error) {
	return p.session, p.user, p.err
}

func (p *fakeProvider) OnChange(fn func(ChangeEvent)) (cancel func()) {
	p.listener = fn
	return func() { p.listener = nil }
}

func (p *fakeProvider) Emit(evt ChangeEvent) {
	if p.listener != nil {
		p.listener(evt)
	}
}

func testSession(id string) (*Session, *Identity) {
	now := time.Now()
	return &Session{
		AccessToken: "token-" + id,
		IdentityID:  id,
		IssuedAt:    now,
		ExpiresAt:   now.Add(time.Hour),
	}, &Identity{ID: id, Email: id + "@clinic.test"}
}

func TestStoreInitReadsCurrentSession(t *testing.T) {
	t.Parallel()

	sess, user := testSession("u1")
	provider := &fakeProvider{session: sess, user: user}
	store := NewStore(provider)

	require.NoError(t, store.Init(context.Background()))

	gotSess, gotUser := store.Current()
	assert.Equal(t, sess, gotSess)
	assert.Equal(t, user, gotUser)
}

func TestStoreInitAnonymous(t *testing.T) {
	t.Parallel()

	store := NewStore(&fakeProvider{})
	require.NoError(t, store.Init(context.Background()))

	sess, user := store.Current()
	assert.Nil(t, sess)
	assert.Nil(t, user)
}

func TestStoreRelaysProviderEvents(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{}
	store := NewStore(provider)
	require.NoError(t, store.Init(context.Background()))

	var got []ChangeEvent
	cancel := store.Subscribe(func(evt ChangeEvent) {
		got = append(got, evt)
	})
	defer cancel()

	sess, user := testSession("u2")
	provider.Emit(ChangeEvent{Kind: EventSignedIn, Session: sess, User: user})

	require.Len(t, got, 1)
	assert.Equal(t, EventSignedIn, got[0].Kind)

	gotSess, gotUser := store.Current()
	assert.Equal(t, sess, gotSess)
	assert.Equal(t, user, gotUser)

	provider.Emit(ChangeEvent{Kind: EventSignedOut})
	require.Len(t, got, 2)

	gotSess, gotUser = store.Current()
	assert.Nil(t, gotSess)
	assert.Nil(t, gotUser)
}

func TestStoreSubscribeCancelStopsDelivery(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{}
	store := NewStore(provider)
	require.NoError(t, store.Init(context.Background()))

	calls := 0
	cancel := store.Subscribe(func(ChangeEvent) { calls++ })
	cancel()

	sess, user := testSession("u3")
	provider.Emit(ChangeEvent{Kind: EventSignedIn, Session: sess, User: user})

	assert.Zero(t, calls)
}
