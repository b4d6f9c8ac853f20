package services

import (
	"context"
	"errors"
	"sync"

	"github.com/M7HZ/bright-clinic/messaging"
	"github.com/M7HZ/bright-clinic/models"
	"github.com/sony/gobreaker"
)

func testBreaker() *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{Name: "test"})
}

// mockAppointmentStore tracks calls and serves canned rows.
type mockAppointmentStore struct {
	mu      sync.Mutex
	rows    []models.Appointment
	byID    map[string]*models.Appointment
	listErr error

	created       []*models.Appointment
	createErr     error
	statusUpdates []statusUpdate
	statusErr     error
}

type statusUpdate struct {
	ID     string
	Status models.AppointmentStatus
	Notes  string
}

func (m *mockAppointmentStore) ListForViewer(ctx context.Context, viewerID string, role models.AppRole) ([]models.Appointment, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.rows, nil
}

func (m *mockAppointmentStore) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	return m.byID[id], nil
}

func (m *mockAppointmentStore) Create(ctx context.Context, appointment *models.Appointment) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	m.created = append(m.created, appointment)
	m.rows = append(m.rows, *appointment)
	m.mu.Unlock()
	return nil
}

func (m *mockAppointmentStore) UpdateStatus(ctx context.Context, id string, next models.AppointmentStatus, notes string) error {
	if m.statusErr != nil {
		return m.statusErr
	}
	m.mu.Lock()
	m.statusUpdates = append(m.statusUpdates, statusUpdate{ID: id, Status: next, Notes: notes})
	m.mu.Unlock()
	return nil
}

// mockDoctorDirectory serves doctors keyed by user id.
type mockDoctorDirectory struct {
	doctors  map[string]models.Doctor
	batchErr error
	listErr  error
}

func (m *mockDoctorDirectory) GetByUserID(ctx context.Context, userID string) (*models.Doctor, error) {
	d, ok := m.doctors[userID]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (m *mockDoctorDirectory) GetByUserIDs(ctx context.Context, userIDs []string) (map[string]models.Doctor, error) {
	if m.batchErr != nil {
		return nil, m.batchErr
	}
	out := make(map[string]models.Doctor)
	for _, id := range userIDs {
		if d, ok := m.doctors[id]; ok {
			out[id] = d
		}
	}
	return out, nil
}

func (m *mockDoctorDirectory) SetAvailability(ctx context.Context, userID string, available bool) error {
	d, ok := m.doctors[userID]
	if !ok {
		return errors.New("doctor not found")
	}
	d.Available = available
	m.doctors[userID] = d
	return nil
}

func (m *mockDoctorDirectory) ListAvailable(ctx context.Context) ([]models.Doctor, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []models.Doctor
	for _, d := range m.doctors {
		if d.Available {
			out = append(out, d)
		}
	}
	return out, nil
}

// mockProfileDirectory serves profiles keyed by user id.
type mockProfileDirectory struct {
	profiles map[string]models.Profile
	batchErr error
}

func (m *mockProfileDirectory) GetProfilesByUserIDs(ctx context.Context, userIDs []string) (map[string]models.Profile, error) {
	if m.batchErr != nil {
		return nil, m.batchErr
	}
	out := make(map[string]models.Profile)
	for _, id := range userIDs {
		if p, ok := m.profiles[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

// mockPublisher records published booking events.
type mockPublisher struct {
	mu     sync.Mutex
	events []messaging.AppointmentBookedEvent
	err    error
}

func (m *mockPublisher) PublishAppointmentBooked(ctx context.Context, evt messaging.AppointmentBookedEvent) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	m.events = append(m.events, evt)
	m.mu.Unlock()
	return nil
}
