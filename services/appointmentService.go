package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/M7HZ/bright-clinic/models"
	"github.com/sony/gobreaker"
)

const subResolveTimeout = 5 * time.Second

// AppointmentStore is the slice of the appointment repository the
// aggregator consumes.
type AppointmentStore interface {
	ListForViewer(ctx context.Context, viewerID string, role models.AppRole) ([]models.Appointment, error)
	GetByID(ctx context.Context, id string) (*models.Appointment, error)
	Create(ctx context.Context, appointment *models.Appointment) error
	UpdateStatus(ctx context.Context, id string, next models.AppointmentStatus, notes string) error
}

// DoctorDirectory resolves doctor records by identity.
type DoctorDirectory interface {
	GetByUserID(ctx context.Context, userID string) (*models.Doctor, error)
	GetByUserIDs(ctx context.Context, userIDs []string) (map[string]models.Doctor, error)
	ListAvailable(ctx context.Context) ([]models.Doctor, error)
	SetAvailability(ctx context.Context, userID string, available bool) error
}

// ProfileDirectory resolves display profiles by identity.
type ProfileDirectory interface {
	GetProfilesByUserIDs(ctx context.Context, userIDs []string) (map[string]models.Profile, error)
}

// DoctorOption is one selectable doctor in the booking dialog.
type DoctorOption struct {
	UserID         string `json:"user_id"`
	Name           string `json:"name"`
	Specialization string `json:"specialization"`
}

type AppointmentService struct {
	store    AppointmentStore
	doctors  DoctorDirectory
	profiles ProfileDirectory
	lookupCB *gobreaker.CircuitBreaker
}

func NewAppointmentService(store AppointmentStore, doctors DoctorDirectory, profiles ProfileDirectory, lookupCB *gobreaker.CircuitBreaker) *AppointmentService {
	return &AppointmentService{store: store, doctors: doctors, profiles: profiles, lookupCB: lookupCB}
}

// ListAppointments assembles the appointment view for one viewer.
//
// The base rows are fetched once, scoped and ordered by the store. The
// decoration pass then batch-resolves every distinct referenced doctor
// and profile id concurrently, waits for both batches, and merges in the
// base order. A failed batch degrades its fields to absent on every row
// that referenced it; it never shortens or reorders the list.
func (s *AppointmentService) ListAppointments(ctx context.Context, viewerID string, role models.AppRole) ([]models.AppointmentView, error) {
	base, err := s.store.ListForViewer(ctx, viewerID, role)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrListUnavailable, err)
	}

	includePatients := role != models.RolePatient

	// Collect distinct referenced ids. Doctor names always come from the
	// doctor's profile, so doctor ids feed both batches.
	doctorIDs := distinctDoctorIDs(base)
	profileIDs := make([]string, 0, len(base)+len(doctorIDs))
	profileIDs = append(profileIDs, doctorIDs...)
	if includePatients {
		profileIDs = appendDistinctPatientIDs(profileIDs, base)
	}

	var (
		wg       sync.WaitGroup
		doctors  map[string]models.Doctor
		profiles map[string]models.Profile
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		doctors = s.resolveDoctors(ctx, doctorIDs)
	}()
	go func() {
		defer wg.Done()
		profiles = s.resolveProfiles(ctx, profileIDs)
	}()
	wg.Wait()

	views := make([]models.AppointmentView, 0, len(base))
	for _, apt := range base {
		view := models.AppointmentView{Appointment: apt}

		if apt.DoctorID != nil {
			doctor, okDoctor := doctors[*apt.DoctorID]
			profile, okProfile := profiles[*apt.DoctorID]
			if okDoctor && okProfile {
				view.Doctor = &models.DoctorInfo{
					Name:           profile.FullName,
					Specialization: doctor.Specialization,
				}
			}
		}

		if includePatients {
			if profile, ok := profiles[apt.PatientID]; ok {
				view.Patient = &models.PatientInfo{Name: profile.FullName}
			}
		}

		views = append(views, view)
	}
	return views, nil
}

// UpdateStatus moves an appointment forward on behalf of a staff viewer.
// Doctors may only touch their own appointments; clerk admins any.
func (s *AppointmentService) UpdateStatus(ctx context.Context, viewerID string, role models.AppRole, appointmentID string, next models.AppointmentStatus, notes string) error {
	if !role.IsStaff() {
		return ErrNotAuthenticated
	}

	apt, err := s.store.GetByID(ctx, appointmentID)
	if err != nil {
		return err
	}
	if apt == nil {
		return fmt.Errorf("appointment %s not found", appointmentID)
	}
	if role == models.RoleDoctor && (apt.DoctorID == nil || *apt.DoctorID != viewerID) {
		return fmt.Errorf("appointment %s is not assigned to this doctor", appointmentID)
	}

	return s.store.UpdateStatus(ctx, appointmentID, next, notes)
}

// SetDoctorAvailability toggles whether a doctor appears in the booking
// dialog. Doctors toggle themselves; clerk admins any doctor.
func (s *AppointmentService) SetDoctorAvailability(ctx context.Context, viewerID string, role models.AppRole, doctorID string, available bool) error {
	switch role {
	case models.RoleDoctor:
		if doctorID != viewerID {
			return fmt.Errorf("doctor %s cannot change availability of %s", viewerID, doctorID)
		}
	case models.RoleClerkAdmin:
	default:
		return ErrNotAuthenticated
	}
	return s.doctors.SetAvailability(ctx, doctorID, available)
}

// ListAvailableDoctors returns the doctors offered in the booking
// dialog, with display names resolved from their profiles. A doctor
// whose profile is missing is listed without a name rather than hidden.
func (s *AppointmentService) ListAvailableDoctors(ctx context.Context) ([]DoctorOption, error) {
	doctors, err := s.doctors.ListAvailable(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrListUnavailable, err)
	}

	ids := make([]string, 0, len(doctors))
	for _, d := range doctors {
		ids = append(ids, d.UserID)
	}
	profiles := s.resolveProfiles(ctx, ids)

	options := make([]DoctorOption, 0, len(doctors))
	for _, d := range doctors {
		opt := DoctorOption{UserID: d.UserID, Specialization: d.Specialization}
		if p, ok := profiles[d.UserID]; ok {
			opt.Name = p.FullName
		}
		options = append(options, opt)
	}
	return options, nil
}

// resolveDoctors batch-loads doctor records; on failure it logs and
// returns an empty map so the list degrades instead of aborting.
func (s *AppointmentService) resolveDoctors(ctx context.Context, ids []string) map[string]models.Doctor {
	if len(ids) == 0 {
		return map[string]models.Doctor{}
	}

	ctx, cancel := context.WithTimeout(ctx, subResolveTimeout)
	defer cancel()

	result, err := s.lookupCB.Execute(func() (interface{}, error) {
		return s.doctors.GetByUserIDs(ctx, ids)
	})
	if err != nil {
		log.Printf("Doctor resolution failed for %d ids: %v", len(ids), err)
		return map[string]models.Doctor{}
	}
	return result.(map[string]models.Doctor)
}

func (s *AppointmentService) resolveProfiles(ctx context.Context, ids []string) map[string]models.Profile {
	if len(ids) == 0 {
		return map[string]models.Profile{}
	}

	ctx, cancel := context.WithTimeout(ctx, subResolveTimeout)
	defer cancel()

	result, err := s.lookupCB.Execute(func() (interface{}, error) {
		return s.profiles.GetProfilesByUserIDs(ctx, ids)
	})
	if err != nil {
		log.Printf("Profile resolution failed for %d ids: %v", len(ids), err)
		return map[string]models.Profile{}
	}
	return result.(map[string]models.Profile)
}

func distinctDoctorIDs(appointments []models.Appointment) []string {
	seen := make(map[string]struct{})
	ids := make([]string, 0)
	for _, apt := range appointments {
		if apt.DoctorID == nil {
			continue
		}
		if _, ok := seen[*apt.DoctorID]; ok {
			continue
		}
		seen[*apt.DoctorID] = struct{}{}
		ids = append(ids, *apt.DoctorID)
	}
	return ids
}

func appendDistinctPatientIDs(ids []string, appointments []models.Appointment) []string {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		seen[id] = struct{}{}
	}
	for _, apt := range appointments {
		if _, ok := seen[apt.PatientID]; ok {
			continue
		}
		seen[apt.PatientID] = struct{}{}
		ids = append(ids, apt.PatientID)
	}
	return ids
}
