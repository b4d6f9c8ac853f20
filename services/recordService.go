package services

import (
	"context"
	"fmt"

	"github.com/M7HZ/bright-clinic/models"
	"github.com/M7HZ/bright-clinic/repositories"
	"github.com/google/uuid"
)

type RecordService struct {
	repo repositories.RecordRepository
}

func NewRecordService(repo repositories.RecordRepository) *RecordService {
	return &RecordService{repo: repo}
}

// GetRecord returns the clinical record a viewer may see: patients only
// their own, clinician roles any.
func (s *RecordService) GetRecord(ctx context.Context, viewerID string, role models.AppRole, patientID string) (*models.PatientRecord, error) {
	if role == models.RolePatient && viewerID != patientID {
		return nil, fmt.Errorf("patient %s cannot view records of %s", viewerID, patientID)
	}
	return s.repo.GetByPatientID(ctx, patientID)
}

// SaveRecord creates or updates a patient's clinical record. Only
// clinician roles mutate records; the acting clinician is stamped on
// the row.
func (s *RecordService) SaveRecord(ctx context.Context, clinicianID string, role models.AppRole, record *models.PatientRecord) error {
	if !role.IsStaff() {
		return ErrNotAuthenticated
	}
	if record.PatientID == "" {
		return &ValidationError{Err: fmt.Errorf("patient_id is required")}
	}

	if record.ID == "" {
		record.ID = uuid.New().String()
		record.CreatedBy = clinicianID
	}
	record.UpdatedBy = clinicianID

	if record.HeightCm > 0 && record.WeightKg > 0 {
		meters := record.HeightCm / 100
		record.BMI = record.WeightKg / (meters * meters)
	}

	return s.repo.Upsert(ctx, record)
}
