package services

import (
	"context"
	"sync"
	"time"

	"github.com/M7HZ/bright-clinic/models"
	"github.com/M7HZ/bright-clinic/session"
)

const feedRefreshTimeout = 15 * time.Second

// AppointmentLister is what the feed needs from the aggregator.
type AppointmentLister interface {
	ListAppointments(ctx context.Context, viewerID string, role models.AppRole) ([]models.AppointmentView, error)
}

// AppointmentFeed holds the latest aggregated appointment list for one
// consumer and refreshes it as the viewer changes.
//
// Every viewer change and refresh bumps a generation counter captured by
// the fetch it starts; a fetch whose generation has been superseded is
// discarded on completion. A list assembled for viewer A can therefore
// never overwrite the list shown to viewer B, no matter how late it
// lands.
type AppointmentFeed struct {
	lister AppointmentLister

	mu       sync.Mutex
	gen      uint64
	viewerID string
	role     models.AppRole
	items    []models.AppointmentView
	err      error
	loading  bool

	subs    map[uint64]func()
	nextSub uint64
}

func NewAppointmentFeed(lister AppointmentLister) *AppointmentFeed {
	return &AppointmentFeed{
		lister: lister,
		subs:   make(map[uint64]func()),
	}
}

// Attach drives the feed from session state: a resolved authenticated
// state sets the viewer, anything else clears the feed. The returned
// cancel func must be called on consumer teardown.
func (f *AppointmentFeed) Attach(ctrl *session.Controller) (cancel func()) {
	apply := func(st session.State) {
		if st.Loading {
			return
		}
		if st.User == nil || st.Role == "" {
			f.Clear()
			return
		}
		f.SetViewer(st.User.ID, st.Role)
	}

	cancelSub := ctrl.Subscribe(apply)
	apply(ctrl.State())
	return cancelSub
}

// SetViewer switches the feed to a new viewer and starts a fetch. A
// repeated call for the current viewer is a no-op; use Refresh to force
// a refetch (e.g. after booking).
func (f *AppointmentFeed) SetViewer(viewerID string, role models.AppRole) {
	f.mu.Lock()
	if f.viewerID == viewerID && f.role == role {
		f.mu.Unlock()
		return
	}
	f.gen++
	gen := f.gen
	f.viewerID = viewerID
	f.role = role
	f.items = nil
	f.err = nil
	f.loading = true
	f.mu.Unlock()
	f.notify()

	go f.fetch(gen, viewerID, role)
}

// Refresh refetches the list for the current viewer.
func (f *AppointmentFeed) Refresh() {
	f.mu.Lock()
	if f.viewerID == "" {
		f.mu.Unlock()
		return
	}
	f.gen++
	gen := f.gen
	viewerID, role := f.viewerID, f.role
	f.loading = true
	f.mu.Unlock()
	f.notify()

	go f.fetch(gen, viewerID, role)
}

// Clear empties the feed and invalidates any in-flight fetch.
func (f *AppointmentFeed) Clear() {
	f.mu.Lock()
	f.gen++
	f.viewerID = ""
	f.role = ""
	f.items = nil
	f.err = nil
	f.loading = false
	f.mu.Unlock()
	f.notify()
}

// Snapshot returns the current list, whether a fetch is in flight, and
// the last list error.
func (f *AppointmentFeed) Snapshot() (items []models.AppointmentView, loading bool, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.items, f.loading, f.err
}

// Subscribe registers a change listener invoked after every publish.
func (f *AppointmentFeed) Subscribe(fn func()) (cancel func()) {
	f.mu.Lock()
	id := f.nextSub
	f.nextSub++
	f.subs[id] = fn
	f.mu.Unlock()

	return func() {
		f.mu.Lock()
		delete(f.subs, id)
		f.mu.Unlock()
	}
}

func (f *AppointmentFeed) fetch(gen uint64, viewerID string, role models.AppRole) {
	ctx, cancel := context.WithTimeout(context.Background(), feedRefreshTimeout)
	defer cancel()

	items, err := f.lister.ListAppointments(ctx, viewerID, role)

	f.mu.Lock()
	if f.gen != gen {
		// The viewer changed while this fetch was in flight.
		f.mu.Unlock()
		return
	}
	f.items = items
	f.err = err
	f.loading = false
	f.mu.Unlock()
	f.notify()
}

func (f *AppointmentFeed) notify() {
	f.mu.Lock()
	listeners := make([]func(), 0, len(f.subs))
	for _, fn := range f.subs {
		listeners = append(listeners, fn)
	}
	f.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}
