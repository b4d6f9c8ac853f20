package models

import (
	"time"
)

// AppRole is the portal role assigned to an identity at signup.
// Roles are immutable after assignment; there is no self-service role change.
type AppRole string

const (
	RolePatient    AppRole = "patient"
	RoleDoctor     AppRole = "doctor"
	RoleClerkAdmin AppRole = "clerk_admin"
)

// Valid reports whether r is one of the known portal roles.
func (r AppRole) Valid() bool {
	switch r {
	case RolePatient, RoleDoctor, RoleClerkAdmin:
		return true
	}
	return false
}

// IsStaff reports whether r signs in through the staff surface.
func (r AppRole) IsStaff() bool {
	return r == RoleDoctor || r == RoleClerkAdmin
}

// LoginRoute returns the login surface a user with this role is sent to.
func (r AppRole) LoginRoute() string {
	if r.IsStaff() {
		return "/staff-login"
	}
	return "/patient-login"
}

// UserRole is the single role row attached to each identity.
// Every identity must have exactly one row here before it can reach a
// protected view; a missing row resolves to an unauthenticated state.
type UserRole struct {
	ID        string    `gorm:"primaryKey;column:id" json:"id"`
	UserID    string    `gorm:"column:user_id;not null;uniqueIndex" json:"user_id"`
	Role      AppRole   `gorm:"column:role;not null;check:role IN ('patient', 'doctor', 'clerk_admin')" json:"role"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (UserRole) TableName() string {
	return "user_roles"
}

// AppointmentStatus moves strictly forward: pending -> confirmed ->
// completed, with cancellation allowed from pending or confirmed.
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// CanTransition reports whether an appointment may move from s to next.
// Completed and cancelled are terminal.
func (s AppointmentStatus) CanTransition(next AppointmentStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusConfirmed || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusCompleted || next == StatusCancelled
	}
	return false
}
