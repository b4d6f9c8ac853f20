package services

import (
	"context"
	"errors"
	"testing"

	"github.com/M7HZ/bright-clinic/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func seedAppointments() []models.Appointment {
	return []models.Appointment{
		{ID: "a1", PatientID: "pat-1", DoctorID: strPtr("doc-1"), AppointmentDate: "2026-09-10", AppointmentTime: "09:00", Status: models.StatusPending},
		{ID: "a2", PatientID: "pat-2", DoctorID: strPtr("doc-2"), AppointmentDate: "2026-09-10", AppointmentTime: "10:30", Status: models.StatusConfirmed},
		{ID: "a3", PatientID: "pat-1", DoctorID: nil, AppointmentDate: "2026-09-11", AppointmentTime: "14:00", Status: models.StatusPending},
		{ID: "a4", PatientID: "pat-3", DoctorID: strPtr("doc-1"), AppointmentDate: "2026-09-12", AppointmentTime: "11:00", Status: models.StatusCompleted},
	}
}

func seedDirectories() (*mockDoctorDirectory, *mockProfileDirectory) {
	doctors := &mockDoctorDirectory{doctors: map[string]models.Doctor{
		"doc-1": {UserID: "doc-1", Specialization: "Orthodontics", Available: true},
		"doc-2": {UserID: "doc-2", Specialization: "Pediatrics", Available: true},
	}}
	profiles := &mockProfileDirectory{profiles: map[string]models.Profile{
		"doc-1": {UserID: "doc-1", FullName: "Dr. Amara Osei"},
		"doc-2": {UserID: "doc-2", FullName: "Dr. Lena Vogel"},
		"pat-1": {UserID: "pat-1", FullName: "Jonas Krug"},
		"pat-2": {UserID: "pat-2", FullName: "Mia Chen"},
		"pat-3": {UserID: "pat-3", FullName: "Omar Haddad"},
	}}
	return doctors, profiles
}

func TestListAppointmentsDecoratesRows(t *testing.T) {
	t.Parallel()

	store := &mockAppointmentStore{rows: seedAppointments()}
	doctors, profiles := seedDirectories()
	svc := NewAppointmentService(store, doctors, profiles, testBreaker())

	views, err := svc.ListAppointments(context.Background(), "clerk-1", models.RoleClerkAdmin)
	require.NoError(t, err)
	require.Len(t, views, 4)

	// Order follows the store's ordering exactly.
	assert.Equal(t, "a1", views[0].ID)
	assert.Equal(t, "a2", views[1].ID)
	assert.Equal(t, "a3", views[2].ID)
	assert.Equal(t, "a4", views[3].ID)

	require.NotNil(t, views[0].Doctor)
	assert.Equal(t, "Dr. Amara Osei", views[0].Doctor.Name)
	assert.Equal(t, "Orthodontics", views[0].Doctor.Specialization)

	// Unassigned appointment keeps a nil doctor.
	assert.Nil(t, views[2].Doctor)

	// Staff viewers see patient names.
	require.NotNil(t, views[0].Patient)
	assert.Equal(t, "Jonas Krug", views[0].Patient.Name)
}

func TestListAppointmentsPatientViewOmitsPatientNames(t *testing.T) {
	t.Parallel()

	store := &mockAppointmentStore{rows: seedAppointments()}
	doctors, profiles := seedDirectories()
	svc := NewAppointmentService(store, doctors, profiles, testBreaker())

	views, err := svc.ListAppointments(context.Background(), "pat-1", models.RolePatient)
	require.NoError(t, err)

	for _, v := range views {
		assert.Nil(t, v.Patient)
	}
	require.NotNil(t, views[0].Doctor)
}

func TestListAppointmentsDegradesWhenDoctorLookupFails(t *testing.T) {
	t.Parallel()

	store := &mockAppointmentStore{rows: seedAppointments()}
	doctors, profiles := seedDirectories()
	doctors.batchErr = errors.New("doctors table down")
	svc := NewAppointmentService(store, doctors, profiles, testBreaker())

	views, err := svc.ListAppointments(context.Background(), "clerk-1", models.RoleClerkAdmin)
	require.NoError(t, err)
	require.Len(t, views, 4, "a failed lookup never shortens the list")

	for _, v := range views {
		assert.Nil(t, v.Doctor)
	}
	// Patient decoration is independent and survives.
	require.NotNil(t, views[0].Patient)
}

func TestListAppointmentsDegradesWhenProfileLookupFails(t *testing.T) {
	t.Parallel()

	store := &mockAppointmentStore{rows: seedAppointments()}
	doctors, profiles := seedDirectories()
	profiles.batchErr = errors.New("profiles table down")
	svc := NewAppointmentService(store, doctors, profiles, testBreaker())

	views, err := svc.ListAppointments(context.Background(), "clerk-1", models.RoleClerkAdmin)
	require.NoError(t, err)
	require.Len(t, views, 4)

	// Doctor display needs the profile for the name, so it degrades too.
	for _, v := range views {
		assert.Nil(t, v.Doctor)
		assert.Nil(t, v.Patient)
	}
}

func TestListAppointmentsMissingDoctorProfileDropsDecoration(t *testing.T) {
	t.Parallel()

	store := &mockAppointmentStore{rows: seedAppointments()}
	doctors, profiles := seedDirectories()
	// doc-1's profile row is gone; every appointment referencing doc-1
	// loses the decoration, the others keep theirs.
	delete(profiles.profiles, "doc-1")
	svc := NewAppointmentService(store, doctors, profiles, testBreaker())

	views, err := svc.ListAppointments(context.Background(), "clerk-1", models.RoleClerkAdmin)
	require.NoError(t, err)

	assert.Nil(t, views[0].Doctor)
	assert.Nil(t, views[3].Doctor)
	require.NotNil(t, views[1].Doctor)
	assert.Equal(t, "Dr. Lena Vogel", views[1].Doctor.Name)
}

func TestListAppointmentsBaseQueryFailure(t *testing.T) {
	t.Parallel()

	store := &mockAppointmentStore{listErr: errors.New("connection refused")}
	doctors, profiles := seedDirectories()
	svc := NewAppointmentService(store, doctors, profiles, testBreaker())

	_, err := svc.ListAppointments(context.Background(), "clerk-1", models.RoleClerkAdmin)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrListUnavailable)
}

func TestUpdateStatusRequiresStaff(t *testing.T) {
	t.Parallel()

	store := &mockAppointmentStore{byID: map[string]*models.Appointment{
		"a1": {ID: "a1", PatientID: "pat-1", DoctorID: strPtr("doc-1"), Status: models.StatusPending},
	}}
	doctors, profiles := seedDirectories()
	svc := NewAppointmentService(store, doctors, profiles, testBreaker())

	err := svc.UpdateStatus(context.Background(), "pat-1", models.RolePatient, "a1", models.StatusConfirmed, "")
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Empty(t, store.statusUpdates)
}

func TestUpdateStatusDoctorOwnAppointmentsOnly(t *testing.T) {
	t.Parallel()

	store := &mockAppointmentStore{byID: map[string]*models.Appointment{
		"a1": {ID: "a1", PatientID: "pat-1", DoctorID: strPtr("doc-1"), Status: models.StatusPending},
	}}
	doctors, profiles := seedDirectories()
	svc := NewAppointmentService(store, doctors, profiles, testBreaker())

	err := svc.UpdateStatus(context.Background(), "doc-2", models.RoleDoctor, "a1", models.StatusConfirmed, "")
	require.Error(t, err)
	assert.Empty(t, store.statusUpdates)

	err = svc.UpdateStatus(context.Background(), "doc-1", models.RoleDoctor, "a1", models.StatusConfirmed, "bring x-rays")
	require.NoError(t, err)
	require.Len(t, store.statusUpdates, 1)
	assert.Equal(t, models.StatusConfirmed, store.statusUpdates[0].Status)
	assert.Equal(t, "bring x-rays", store.statusUpdates[0].Notes)
}

func TestUpdateStatusClerkAdminAnyAppointment(t *testing.T) {
	t.Parallel()

	store := &mockAppointmentStore{byID: map[string]*models.Appointment{
		"a1": {ID: "a1", PatientID: "pat-1", DoctorID: strPtr("doc-1"), Status: models.StatusPending},
	}}
	doctors, profiles := seedDirectories()
	svc := NewAppointmentService(store, doctors, profiles, testBreaker())

	err := svc.UpdateStatus(context.Background(), "clerk-1", models.RoleClerkAdmin, "a1", models.StatusCancelled, "")
	require.NoError(t, err)
	require.Len(t, store.statusUpdates, 1)
}

func TestListAvailableDoctors(t *testing.T) {
	t.Parallel()

	store := &mockAppointmentStore{}
	doctors, profiles := seedDirectories()
	doctors.doctors["doc-3"] = models.Doctor{UserID: "doc-3", Specialization: "Surgery", Available: false}
	svc := NewAppointmentService(store, doctors, profiles, testBreaker())

	options, err := svc.ListAvailableDoctors(context.Background())
	require.NoError(t, err)
	require.Len(t, options, 2, "unavailable doctors are not offered")

	byID := make(map[string]DoctorOption)
	for _, o := range options {
		byID[o.UserID] = o
	}
	assert.Equal(t, "Dr. Amara Osei", byID["doc-1"].Name)
	assert.Equal(t, "Pediatrics", byID["doc-2"].Specialization)
}

func TestSetDoctorAvailability(t *testing.T) {
	t.Parallel()

	store := &mockAppointmentStore{}
	doctors, profiles := seedDirectories()
	svc := NewAppointmentService(store, doctors, profiles, testBreaker())

	// Doctors toggle only themselves.
	err := svc.SetDoctorAvailability(context.Background(), "doc-1", models.RoleDoctor, "doc-2", false)
	assert.Error(t, err)

	err = svc.SetDoctorAvailability(context.Background(), "doc-1", models.RoleDoctor, "doc-1", false)
	require.NoError(t, err)
	assert.False(t, doctors.doctors["doc-1"].Available)

	// Clerk admins toggle anyone; patients nobody.
	err = svc.SetDoctorAvailability(context.Background(), "clerk-1", models.RoleClerkAdmin, "doc-1", true)
	require.NoError(t, err)
	assert.True(t, doctors.doctors["doc-1"].Available)

	err = svc.SetDoctorAvailability(context.Background(), "pat-1", models.RolePatient, "doc-1", false)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestListAvailableDoctorsMissingProfileKeptUnnamed(t *testing.T) {
	t.Parallel()

	store := &mockAppointmentStore{}
	doctors, profiles := seedDirectories()
	delete(profiles.profiles, "doc-2")
	svc := NewAppointmentService(store, doctors, profiles, testBreaker())

	options, err := svc.ListAvailableDoctors(context.Background())
	require.NoError(t, err)
	require.Len(t, options, 2)

	byID := make(map[string]DoctorOption)
	for _, o := range options {
		byID[o.UserID] = o
	}
	assert.Empty(t, byID["doc-2"].Name)
	assert.Equal(t, "Pediatrics", byID["doc-2"].Specialization)
}
