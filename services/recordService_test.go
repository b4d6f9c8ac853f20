package services

import (
	"context"
	"sync"
	"testing"

	"github.com/M7HZ/bright-clinic/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRecordRepo struct {
	mu      sync.Mutex
	records map[string]*models.PatientRecord
	saved   []*models.PatientRecord
}

func (m *mockRecordRepo) GetByPatientID(ctx context.Context, patientID string) (*models.PatientRecord, error) {
	return m.records[patientID], nil
}

func (m *mockRecordRepo) Upsert(ctx context.Context, record *models.PatientRecord) error {
	m.mu.Lock()
	m.saved = append(m.saved, record)
	m.mu.Unlock()
	return nil
}

func TestGetRecordPatientOwnOnly(t *testing.T) {
	t.Parallel()

	repo := &mockRecordRepo{records: map[string]*models.PatientRecord{
		"pat-1": {ID: "r1", PatientID: "pat-1"},
	}}
	svc := NewRecordService(repo)

	record, err := svc.GetRecord(context.Background(), "pat-1", models.RolePatient, "pat-1")
	require.NoError(t, err)
	assert.Equal(t, "r1", record.ID)

	_, err = svc.GetRecord(context.Background(), "pat-2", models.RolePatient, "pat-1")
	assert.Error(t, err)
}

func TestGetRecordStaffAnyPatient(t *testing.T) {
	t.Parallel()

	repo := &mockRecordRepo{records: map[string]*models.PatientRecord{
		"pat-1": {ID: "r1", PatientID: "pat-1"},
	}}
	svc := NewRecordService(repo)

	record, err := svc.GetRecord(context.Background(), "doc-1", models.RoleDoctor, "pat-1")
	require.NoError(t, err)
	assert.Equal(t, "r1", record.ID)
}

func TestSaveRecordStaffOnly(t *testing.T) {
	t.Parallel()

	repo := &mockRecordRepo{records: map[string]*models.PatientRecord{}}
	svc := NewRecordService(repo)

	err := svc.SaveRecord(context.Background(), "pat-1", models.RolePatient, &models.PatientRecord{PatientID: "pat-1"})
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Empty(t, repo.saved)
}

func TestSaveRecordStampsClinicianAndBMI(t *testing.T) {
	t.Parallel()

	repo := &mockRecordRepo{records: map[string]*models.PatientRecord{}}
	svc := NewRecordService(repo)

	record := &models.PatientRecord{
		PatientID: "pat-1",
		HeightCm:  180,
		WeightKg:  81,
	}
	err := svc.SaveRecord(context.Background(), "doc-1", models.RoleDoctor, record)
	require.NoError(t, err)
	require.Len(t, repo.saved, 1)

	assert.NotEmpty(t, record.ID)
	assert.Equal(t, "doc-1", record.CreatedBy)
	assert.Equal(t, "doc-1", record.UpdatedBy)
	assert.InDelta(t, 25.0, record.BMI, 0.01)
}

func TestSaveRecordRequiresPatientID(t *testing.T) {
	t.Parallel()

	repo := &mockRecordRepo{records: map[string]*models.PatientRecord{}}
	svc := NewRecordService(repo)

	err := svc.SaveRecord(context.Background(), "doc-1", models.RoleDoctor, &models.PatientRecord{})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestSaveRecordUpdateKeepsCreator(t *testing.T) {
	t.Parallel()

	repo := &mockRecordRepo{records: map[string]*models.PatientRecord{}}
	svc := NewRecordService(repo)

	record := &models.PatientRecord{
		ID:        "r1",
		PatientID: "pat-1",
		CreatedBy: "doc-1",
	}
	err := svc.SaveRecord(context.Background(), "clerk-1", models.RoleClerkAdmin, record)
	require.NoError(t, err)

	assert.Equal(t, "doc-1", record.CreatedBy)
	assert.Equal(t, "clerk-1", record.UpdatedBy)
}
