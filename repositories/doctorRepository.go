package repositories

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/M7HZ/bright-clinic/cache"
	"github.com/M7HZ/bright-clinic/models"
	"gorm.io/gorm"
)

const (
	DoctorCacheExpiry        = 24 * time.Hour
	availableDoctorsCacheKey = "doctors_available_cache"
)

type DoctorRepository interface {
	GetByUserID(ctx context.Context, userID string) (*models.Doctor, error)
	GetByUserIDs(ctx context.Context, userIDs []string) (map[string]models.Doctor, error)
	ListAvailable(ctx context.Context) ([]models.Doctor, error)
	SetAvailability(ctx context.Context, userID string, available bool) error
}

type doctorRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewDoctorRepository(db *gorm.DB, cache *cache.Cache) DoctorRepository {
	return &doctorRepository{db: db, cache: cache}
}

func (r *doctorRepository) GetByUserID(ctx context.Context, userID string) (*models.Doctor, error) {
	var doctor models.Doctor
	err := r.db.WithContext(ctx).First(&doctor, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}
	return &doctor, nil
}

// GetByUserIDs fetches doctor records for a set of identities in one
// query, keyed by user id.
func (r *doctorRepository) GetByUserIDs(ctx context.Context, userIDs []string) (map[string]models.Doctor, error) {
	result := make(map[string]models.Doctor, len(userIDs))
	if len(userIDs) == 0 {
		return result, nil
	}

	ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	var doctors []models.Doctor
	err := r.db.WithContext(ctx).Where("user_id IN ?", userIDs).Find(&doctors).Error
	if err != nil {
		return nil, fmt.Errorf("failed to batch-load doctors: %w", err)
	}
	for _, d := range doctors {
		result[d.UserID] = d
	}
	return result, nil
}

func (r *doctorRepository) ListAvailable(ctx context.Context) ([]models.Doctor, error) {
	ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	var cached []models.Doctor
	if err := r.cache.GetJSON(ctx, availableDoctorsCacheKey, &cached); err == nil {
		return cached, nil
	} else if err != cache.ErrMiss {
		log.Printf("Failed to get available doctors from cache: %v", err)
	}

	var doctors []models.Doctor
	err := r.db.WithContext(ctx).Where("available = ?", true).Order("created_at ASC").Find(&doctors).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list available doctors: %w", err)
	}

	if err := r.cache.SetJSON(ctx, availableDoctorsCacheKey, doctors, DoctorCacheExpiry); err != nil {
		log.Printf("Failed to set available doctors in cache: %v", err)
	}
	return doctors, nil
}

func (r *doctorRepository) SetAvailability(ctx context.Context, userID string, available bool) error {
	res := r.db.WithContext(ctx).Model(&models.Doctor{}).Where("user_id = ?", userID).Update("available", available)
	if res.Error != nil {
		return fmt.Errorf("failed to update doctor availability: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.New("doctor not found")
	}
	return r.cache.Delete(ctx, availableDoctorsCacheKey)
}
