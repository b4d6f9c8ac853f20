package services

import (
	"context"
	"errors"
	"log"
	"regexp"
	"time"

	"github.com/M7HZ/bright-clinic/messaging"
	"github.com/M7HZ/bright-clinic/models"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

const publishTimeout = 5 * time.Second

var timeOfDayRegex = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// BookingRequest is the booking dialog form.
type BookingRequest struct {
	DoctorID string `json:"doctor_id"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Reason   string `json:"reason"`
}

// BookedPublisher emits the appointment.booked event; nil disables
// publishing.
type BookedPublisher interface {
	PublishAppointmentBooked(ctx context.Context, evt messaging.AppointmentBookedEvent) error
}

type BookingService struct {
	store     AppointmentStore
	doctors   DoctorDirectory
	publisher BookedPublisher
	now       func() time.Time
}

func NewBookingService(store AppointmentStore, doctors DoctorDirectory, publisher BookedPublisher) *BookingService {
	return &BookingService{store: store, doctors: doctors, publisher: publisher, now: time.Now}
}

// Submit validates and creates a pending appointment for the patient.
//
// The doctor only has to be available as of the listing the patient
// booked from; staleness between listing and submission is accepted, and
// no (doctor, date, time) uniqueness is enforced, so two patients can
// book the same slot. Reception resolves collisions when confirming.
func (s *BookingService) Submit(ctx context.Context, patientID string, req BookingRequest) (*models.Appointment, error) {
	if patientID == "" {
		return nil, ErrNotAuthenticated
	}

	if err := s.validate(req); err != nil {
		return nil, &ValidationError{Err: err}
	}

	doctor, err := s.doctors.GetByUserID(ctx, req.DoctorID)
	if err != nil {
		return nil, err
	}
	if doctor == nil || !doctor.Available {
		return nil, &ValidationError{Err: validation.Errors{
			"doctor_id": errors.New("doctor is not available"),
		}}
	}

	doctorID := req.DoctorID
	appointment := &models.Appointment{
		ID:              uuid.New().String(),
		PatientID:       patientID,
		DoctorID:        &doctorID,
		AppointmentDate: req.Date,
		AppointmentTime: req.Time,
		Reason:          req.Reason,
		Status:          models.StatusPending,
	}

	if err := s.store.Create(ctx, appointment); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
		defer cancel()
		evt := messaging.AppointmentBookedEvent{
			AppointmentID:   appointment.ID,
			PatientID:       appointment.PatientID,
			DoctorID:        doctorID,
			AppointmentDate: appointment.AppointmentDate,
			AppointmentTime: appointment.AppointmentTime,
			BookedAt:        s.now(),
		}
		if err := s.publisher.PublishAppointmentBooked(pubCtx, evt); err != nil {
			// The booking row exists; the event is best-effort.
			log.Printf("Failed to publish appointment.booked for %s: %v", appointment.ID, err)
		}
	}

	return appointment, nil
}

func (s *BookingService) validate(req BookingRequest) error {
	return validation.Errors{
		"doctor_id": validation.Validate(req.DoctorID, validation.Required),
		"date":      validation.Validate(req.Date, validation.Required, validation.Date("2006-01-02"), validation.By(s.dateNotPast)),
		"time":      validation.Validate(req.Time, validation.Required, validation.Match(timeOfDayRegex)),
		"reason":    validation.Validate(req.Reason, validation.Required, validation.Length(1, 2000)),
	}.Filter()
}

// dateNotPast rejects dates before today, date-only granularity: booking
// later today is allowed.
func (s *BookingService) dateNotPast(value interface{}) error {
	str, _ := value.(string)
	if str == "" {
		return nil
	}
	date, err := time.Parse("2006-01-02", str)
	if err != nil {
		return nil // format already reported by the Date rule
	}
	today := s.now()
	todayDate := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	if date.Before(todayDate) {
		return errors.New("date cannot be in the past")
	}
	return nil
}
