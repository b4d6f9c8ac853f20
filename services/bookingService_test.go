package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/M7HZ/bright-clinic/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBookingFixture() (*BookingService, *mockAppointmentStore, *mockDoctorDirectory, *mockPublisher) {
	store := &mockAppointmentStore{}
	doctors := &mockDoctorDirectory{doctors: map[string]models.Doctor{
		"doc-1": {UserID: "doc-1", Specialization: "Orthodontics", Available: true},
		"doc-9": {UserID: "doc-9", Specialization: "Surgery", Available: false},
	}}
	publisher := &mockPublisher{}
	svc := NewBookingService(store, doctors, publisher)
	svc.now = func() time.Time {
		return time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	}
	return svc, store, doctors, publisher
}

func validBooking() BookingRequest {
	return BookingRequest{
		DoctorID: "doc-1",
		Date:     "2026-09-15",
		Time:     "09:30",
		Reason:   "Routine checkup",
	}
}

func TestSubmitCreatesPendingAppointment(t *testing.T) {
	t.Parallel()

	svc, store, _, publisher := newBookingFixture()

	apt, err := svc.Submit(context.Background(), "pat-1", validBooking())
	require.NoError(t, err)
	require.NotNil(t, apt)

	assert.NotEmpty(t, apt.ID)
	assert.Equal(t, "pat-1", apt.PatientID)
	require.NotNil(t, apt.DoctorID)
	assert.Equal(t, "doc-1", *apt.DoctorID)
	assert.Equal(t, models.StatusPending, apt.Status, "bookings always land as pending")

	require.Len(t, store.created, 1)
	require.Len(t, publisher.events, 1)
	assert.Equal(t, apt.ID, publisher.events[0].AppointmentID)
}

func TestSubmitRequiresAuthentication(t *testing.T) {
	t.Parallel()

	svc, store, _, _ := newBookingFixture()

	_, err := svc.Submit(context.Background(), "", validBooking())
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Empty(t, store.created)
}

func TestSubmitValidationRejections(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		mutate func(*BookingRequest)
	}{
		{"missing doctor", func(r *BookingRequest) { r.DoctorID = "" }},
		{"missing date", func(r *BookingRequest) { r.Date = "" }},
		{"malformed date", func(r *BookingRequest) { r.Date = "15-09-2026" }},
		{"past date", func(r *BookingRequest) { r.Date = "2026-08-31" }},
		{"missing time", func(r *BookingRequest) { r.Time = "" }},
		{"malformed time", func(r *BookingRequest) { r.Time = "9:3" }},
		{"out of range time", func(r *BookingRequest) { r.Time = "24:00" }},
		{"missing reason", func(r *BookingRequest) { r.Reason = "" }},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			svc, store, _, _ := newBookingFixture()
			req := validBooking()
			tc.mutate(&req)

			_, err := svc.Submit(context.Background(), "pat-1", req)
			require.Error(t, err)
			assert.True(t, IsValidation(err), "expected a validation error, got %v", err)
			assert.Empty(t, store.created)
		})
	}
}

func TestSubmitSameDayAllowed(t *testing.T) {
	t.Parallel()

	svc, _, _, _ := newBookingFixture()
	req := validBooking()
	req.Date = "2026-09-01"

	_, err := svc.Submit(context.Background(), "pat-1", req)
	assert.NoError(t, err)
}

func TestSubmitUnknownOrUnavailableDoctor(t *testing.T) {
	t.Parallel()

	svc, store, _, _ := newBookingFixture()

	req := validBooking()
	req.DoctorID = "nobody"
	_, err := svc.Submit(context.Background(), "pat-1", req)
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	req.DoctorID = "doc-9"
	_, err = svc.Submit(context.Background(), "pat-1", req)
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	assert.Empty(t, store.created)
}

func TestSubmitDoubleBookingAccepted(t *testing.T) {
	t.Parallel()

	// Two patients booking the same doctor, date and time both succeed;
	// reception resolves the collision at confirmation time.
	svc, store, _, _ := newBookingFixture()

	_, err := svc.Submit(context.Background(), "pat-1", validBooking())
	require.NoError(t, err)
	_, err = svc.Submit(context.Background(), "pat-2", validBooking())
	require.NoError(t, err)

	assert.Len(t, store.created, 2)
}

func TestSubmitPublishFailureDoesNotFailBooking(t *testing.T) {
	t.Parallel()

	svc, store, _, publisher := newBookingFixture()
	publisher.err = errors.New("broker gone")

	apt, err := svc.Submit(context.Background(), "pat-1", validBooking())
	require.NoError(t, err)
	require.NotNil(t, apt)
	assert.Len(t, store.created, 1)
}

func TestSubmitWithoutPublisher(t *testing.T) {
	t.Parallel()

	svc, store, _, _ := newBookingFixture()
	svc.publisher = nil

	_, err := svc.Submit(context.Background(), "pat-1", validBooking())
	require.NoError(t, err)
	assert.Len(t, store.created, 1)
}

func TestSubmitAppearsInPatientList(t *testing.T) {
	t.Parallel()

	// Booking and listing share one store: a submitted booking shows up
	// as exactly one pending row in the patient's next appointment list.
	booking, store, doctors, _ := newBookingFixture()
	profiles := &mockProfileDirectory{profiles: map[string]models.Profile{
		"doc-1": {UserID: "doc-1", FullName: "Dr. Amara Osei"},
	}}
	listing := NewAppointmentService(store, doctors, profiles, testBreaker())

	apt, err := booking.Submit(context.Background(), "pat-1", validBooking())
	require.NoError(t, err)

	views, err := listing.ListAppointments(context.Background(), "pat-1", models.RolePatient)
	require.NoError(t, err)
	require.Len(t, views, 1)

	assert.Equal(t, apt.ID, views[0].ID)
	assert.Equal(t, models.StatusPending, views[0].Status)
	require.NotNil(t, views[0].Doctor)
	assert.Equal(t, "Dr. Amara Osei", views[0].Doctor.Name)
}
