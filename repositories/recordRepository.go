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

const RecordCacheExpiry = 24 * time.Hour

type RecordRepository interface {
	GetByPatientID(ctx context.Context, patientID string) (*models.PatientRecord, error)
	Upsert(ctx context.Context, record *models.PatientRecord) error
}

type recordRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewRecordRepository(db *gorm.DB, cache *cache.Cache) RecordRepository {
	return &recordRepository{db: db, cache: cache}
}

func (r *recordRepository) GetByPatientID(ctx context.Context, patientID string) (*models.PatientRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	cacheKey := r.recordCacheKey(patientID)
	var cached models.PatientRecord
	if err := r.cache.GetJSON(ctx, cacheKey, &cached); err == nil && cached.ID != "" {
		return &cached, nil
	} else if err != nil && err != cache.ErrMiss {
		log.Printf("Failed to get patient record from cache: %v", err)
	}

	var record models.PatientRecord
	err := r.db.WithContext(ctx).First(&record, "patient_id = ?", patientID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get patient record: %w", err)
	}

	if err := r.cache.SetJSON(ctx, cacheKey, record, RecordCacheExpiry); err != nil {
		log.Printf("Failed to set patient record in cache: %v", err)
	}
	return &record, nil
}

// Upsert creates or replaces the single clinical record for a patient
// under a redis lock keyed by patient.
func (r *recordRepository) Upsert(ctx context.Context, record *models.PatientRecord) error {
	lockKey := fmt.Sprintf("patient_record_lock:%s", record.PatientID)
	lockValue := uuid.New().String()
	locked, err := database.NewLock(ctx, lockKey, lockValue, 10*time.Second)
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return errors.New("failed to acquire lock")
	}
	defer func() {
		if err := database.ReleaseLock(ctx, lockKey, lockValue); err != nil {
			log.Printf("Failed to release lock: %v", err)
		}
	}()

	var existing models.PatientRecord
	err = r.db.WithContext(ctx).First(&existing, "patient_id = ?", record.PatientID).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
			return fmt.Errorf("failed to create patient record: %w", err)
		}
	case err != nil:
		return fmt.Errorf("failed to load patient record: %w", err)
	default:
		record.ID = existing.ID
		record.CreatedBy = existing.CreatedBy
		if err := r.db.WithContext(ctx).Save(record).Error; err != nil {
			return fmt.Errorf("failed to update patient record: %w", err)
		}
	}

	return r.cache.Delete(ctx, r.recordCacheKey(record.PatientID))
}

func (r *recordRepository) recordCacheKey(patientID string) string {
	return fmt.Sprintf("patient_record_cache:%s", patientID)
}
