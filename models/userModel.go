package models

import (
	"time"
)

// Credential backs the local identity provider. Created at signup and
// immutable afterwards except for the verification flag and password hash.
type Credential struct {
	ID            string    `gorm:"primaryKey;column:id" json:"id"`
	Email         string    `gorm:"size:255;not null;unique;index;column:email" json:"email"`
	Password      string    `gorm:"size:255;not null;column:password" json:"-"`
	EmailVerified bool      `gorm:"column:email_verified;not null;default:false" json:"email_verified"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Credential) TableName() string {
	return "credentials"
}

// Profile is the 1:1 display record for an identity.
type Profile struct {
	ID          string    `gorm:"primaryKey;column:id" json:"id"`
	UserID      string    `gorm:"column:user_id;not null;uniqueIndex" json:"user_id"`
	FullName    string    `gorm:"column:full_name;not null" json:"full_name"`
	Phone       string    `gorm:"column:phone" json:"phone"`
	Address     string    `gorm:"column:address" json:"address"`
	DateOfBirth string    `gorm:"column:date_of_birth" json:"date_of_birth"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}
