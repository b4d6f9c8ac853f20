package repositories

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/M7HZ/bright-clinic/cache"
	"github.com/M7HZ/bright-clinic/database"
	"github.com/M7HZ/bright-clinic/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	AppointmentCacheExpiry = 7 * 24 * time.Hour
)

type AppointmentRepository interface {
	ListForViewer(ctx context.Context, viewerID string, role models.AppRole) ([]models.Appointment, error)
	GetByID(ctx context.Context, id string) (*models.Appointment, error)
	Create(ctx context.Context, appointment *models.Appointment) error
	UpdateStatus(ctx context.Context, id string, next models.AppointmentStatus, notes string) error
}

type appointmentRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewAppointmentRepository(db *gorm.DB, cache *cache.Cache) AppointmentRepository {
	return &appointmentRepository{db: db, cache: cache}
}

// ListForViewer returns the base appointment rows a viewer may see:
// patients see their own rows, doctors the rows assigned to them, and
// clerk admins everything. Ordering is by date, then time, then row
// insertion order, and the decoration pass downstream must preserve it.
func (r *appointmentRepository) ListForViewer(ctx context.Context, viewerID string, role models.AppRole) ([]models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	cacheKey := r.viewerCacheKey(viewerID, role)
	var cached []models.Appointment
	if err := r.cache.GetJSON(ctx, cacheKey, &cached); err == nil {
		return cached, nil
	} else if err != cache.ErrMiss {
		log.Printf("Failed to get appointments from cache: %v", err)
	}

	query := r.db.WithContext(ctx).Model(&models.Appointment{})
	switch role {
	case models.RolePatient:
		query = query.Where("patient_id = ?", viewerID)
	case models.RoleDoctor:
		query = query.Where("doctor_id = ?", viewerID)
	case models.RoleClerkAdmin:
		// unfiltered
	default:
		return nil, fmt.Errorf("unknown viewer role %q", role)
	}

	var appointments []models.Appointment
	err := query.Order("appointment_date ASC, appointment_time ASC, created_at ASC").Find(&appointments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}

	if err := r.cache.SetJSON(ctx, cacheKey, appointments, AppointmentCacheExpiry); err != nil {
		log.Printf("Failed to set appointments in cache: %v", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	var appointment models.Appointment
	err := r.db.WithContext(ctx).First(&appointment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appointment, nil
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *models.Appointment) error {
	if !appointment.Status.Valid() {
		return errors.New("invalid status value")
	}

	if err := r.db.WithContext(ctx).Create(appointment).Error; err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return r.invalidateViewerCaches(ctx)
}

// UpdateStatus moves an appointment to the next status under a redis
// lock, enforcing forward-only transitions.
func (r *appointmentRepository) UpdateStatus(ctx context.Context, id string, next models.AppointmentStatus, notes string) error {
	if !next.Valid() {
		return errors.New("invalid status value")
	}

	lockKey := fmt.Sprintf("appointment_lock:%s", id)
	lockValue := uuid.New().String()
	maxRetries := 3
	retryDelay := 2 * time.Second
	var locked bool
	var err error
	for i := 0; i < maxRetries; i++ {
		locked, err = database.NewLock(ctx, lockKey, lockValue, 10*time.Second)
		if err == nil && locked {
			break
		}
		if i < maxRetries-1 {
			time.Sleep(retryDelay)
		}
	}
	if !locked {
		return fmt.Errorf("failed to acquire lock after retries: %w", err)
	}
	defer func() {
		if err := database.ReleaseLock(ctx, lockKey, lockValue); err != nil {
			log.Printf("Failed to release lock: %v", err)
		}
	}()

	var current models.Appointment
	if err := r.db.WithContext(ctx).First(&current, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("appointment not found")
		}
		return fmt.Errorf("failed to load appointment: %w", err)
	}

	if !current.Status.CanTransition(next) {
		return fmt.Errorf("cannot move appointment from %s to %s", current.Status, next)
	}

	updates := map[string]interface{}{"status": next}
	if notes != "" {
		updates["notes"] = notes
	}
	if err := r.db.WithContext(ctx).Model(&models.Appointment{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to update appointment status: %w", err)
	}
	return r.invalidateViewerCaches(ctx)
}

// invalidateViewerCaches drops every per-viewer list cache. Viewer keys
// cannot be enumerated from the row alone (admin lists are unfiltered),
// so the whole prefix is cleared.
func (r *appointmentRepository) invalidateViewerCaches(ctx context.Context) error {
	return r.cache.DeleteAll(ctx, "appointments_cache:*")
}

func (r *appointmentRepository) viewerCacheKey(viewerID string, role models.AppRole) string {
	return fmt.Sprintf("appointments_cache:%s:%s", role, viewerID)
}
