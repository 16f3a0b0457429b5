package models

import (
	"time"

	"github.com/google/uuid"
)

type Account struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email         string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Phone         *string   `gorm:"type:varchar(32);uniqueIndex"`
	PasswordHash  string    `gorm:"type:varchar(255);not null"`
	EmailVerified bool      `gorm:"default:false"`
	PhoneVerified bool      `gorm:"default:false"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeactivatedAt *time.Time `gorm:"index"`
	SuspendedAt   *time.Time
}

type Profile struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	AccountID     uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	Name          string    `gorm:"type:varchar(50);not null"`
	Location      string    `gorm:"type:varchar(100)"`
	Summary       string    `gorm:"type:varchar(300)"`
	ImageURL      string    `gorm:"type:text"`
	CoverURL      string    `gorm:"type:text"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeactivatedAt *time.Time `gorm:"index"`

	// Relations
	Account Account `gorm:"foreignKey:AccountID;references:ID"`
}
