package models

import (
	"time"

	"github.com/google/uuid"
)

type Device struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	AccountID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Platform   string    `gorm:"type:varchar(16);not null"`
	Model      string    `gorm:"type:varchar(100)"`
	Address    string    `gorm:"type:varchar(64)"`
	CreatedAt  time.Time
	LastSeenAt time.Time
}

// Session is the "logged in" edge between an account and a device.
type Session struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	AccountID     uuid.UUID `gorm:"type:uuid;not null;index"`
	DeviceID      uuid.UUID `gorm:"type:uuid;not null;index"`
	TokenHash     string    `gorm:"type:char(64);uniqueIndex;not null"`
	Issuer        string    `gorm:"type:varchar(64);not null"`
	ExpiresAt     time.Time `gorm:"not null;index"`
	CreatedAt     time.Time
	RevokedAt     *time.Time
	RevokedReason string     `gorm:"type:varchar(16)"`
	ReplacedBy    *uuid.UUID `gorm:"type:uuid"`
}

type VerificationCode struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	AccountID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Channel    string    `gorm:"type:varchar(8);not null"`
	Code       string    `gorm:"type:varchar(16);not null"`
	ExpiresAt  time.Time `gorm:"not null"`
	VerifiedAt *time.Time
	CreatedAt  time.Time
}
