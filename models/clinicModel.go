package models

import (
	"time"
)

// Doctor exists only for identities whose role row is doctor. 1:1.
type Doctor struct {
	ID                string    `gorm:"primaryKey;column:id" json:"id"`
	UserID            string    `gorm:"column:user_id;not null;uniqueIndex" json:"user_id"`
	Specialization    string    `gorm:"column:specialization;not null" json:"specialization"`
	LicenseNumber     string    `gorm:"column:license_number;not null" json:"license_number"`
	YearsOfExperience int       `gorm:"column:years_of_experience" json:"years_of_experience"`
	Available         bool      `gorm:"column:available;not null;default:true" json:"available"`
	Bio               string    `gorm:"type:text;column:bio" json:"bio"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Doctor) TableName() string {
	return "doctors"
}

// Appointment is the base row joined into AppointmentView. DoctorID is
// nullable until a doctor is assigned.
type Appointment struct {
	ID              string            `gorm:"primaryKey;column:id" json:"id"`
	PatientID       string            `gorm:"column:patient_id;not null;index" json:"patient_id"`
	DoctorID        *string           `gorm:"column:doctor_id;index" json:"doctor_id"`
	AppointmentDate string            `gorm:"column:appointment_date;not null;index" json:"appointment_date"`
	AppointmentTime string            `gorm:"column:appointment_time;not null" json:"appointment_time"`
	Reason          string            `gorm:"type:text;column:reason;not null" json:"reason"`
	Status          AppointmentStatus `gorm:"column:status;not null;check:status IN ('pending', 'confirmed', 'completed', 'cancelled')" json:"status"`
	Notes           string            `gorm:"type:text;column:notes" json:"notes"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// DoctorInfo is the resolved doctor decoration on an AppointmentView.
type DoctorInfo struct {
	Name           string `json:"name"`
	Specialization string `json:"specialization"`
}

// PatientInfo is the resolved patient decoration on an AppointmentView.
type PatientInfo struct {
	Name string `json:"name"`
}

// AppointmentView is an Appointment decorated with display data resolved
// from the doctors and profiles tables. A nil Doctor or Patient means the
// referenced sub-record could not be resolved; the row is still returned.
type AppointmentView struct {
	Appointment
	Doctor  *DoctorInfo  `json:"doctor,omitempty"`
	Patient *PatientInfo `json:"patient,omitempty"`
}

// PatientRecord is the 1:1 clinical record per patient, mutated only by
// clinician roles.
type PatientRecord struct {
	ID                    string    `gorm:"primaryKey;column:id" json:"id"`
	PatientID             string    `gorm:"column:patient_id;not null;uniqueIndex" json:"patient_id"`
	BloodType             string    `gorm:"column:blood_type" json:"blood_type"`
	Allergies             string    `gorm:"type:text;column:allergies" json:"allergies"`
	CurrentMedications    string    `gorm:"type:text;column:current_medications" json:"current_medications"`
	DentalHistory         string    `gorm:"type:text;column:dental_history" json:"dental_history"`
	Treatments            string    `gorm:"type:text;column:treatments" json:"treatments"`
	HeightCm              float64   `gorm:"column:height_cm" json:"height_cm"`
	WeightKg              float64   `gorm:"column:weight_kg" json:"weight_kg"`
	BMI                   float64   `gorm:"column:bmi" json:"bmi"`
	EmergencyContactName  string    `gorm:"column:emergency_contact_name" json:"emergency_contact_name"`
	EmergencyContactPhone string    `gorm:"column:emergency_contact_phone" json:"emergency_contact_phone"`
	CreatedBy             string    `gorm:"column:created_by" json:"created_by"`
	UpdatedBy             string    `gorm:"column:updated_by" json:"updated_by"`
	CreatedAt             time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (PatientRecord) TableName() string {
	return "patient_records"
}
