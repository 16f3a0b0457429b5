package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// DevicePlatform represents the client platform
type DevicePlatform string

const (
	PlatformWeb     DevicePlatform = "WEB"
	PlatformIOS     DevicePlatform = "IOS"
	PlatformAndroid DevicePlatform = "ANDROID"
)

// Mobile reports whether refresh tokens are delivered in the response body
func (p DevicePlatform) Mobile() bool {
	return p == PlatformIOS || p == PlatformAndroid
}

// Device is a client an account logged in from
type Device struct {
	ID         uuid.UUID      `json:"id"`
	AccountID  uuid.UUID      `json:"accountId"`
	Platform   DevicePlatform `json:"platform"`
	Model      string         `json:"model"`
	Address    string         `json:"address"`
	CreatedAt  time.Time      `json:"createdAt"`
	LastSeenAt time.Time      `json:"lastSeenAt"`
}

// RevokeReason records why a session stopped being usable
type RevokeReason string

const (
	RevokeReplaced    RevokeReason = "replaced"
	RevokeLogout      RevokeReason = "logout"
	RevokeExpired     RevokeReason = "expired"
	RevokeDeactivated RevokeReason = "deactivated"
)

// Session is the persisted half of a refresh token. Only the token hash is stored.
type Session struct {
	ID            uuid.UUID    `json:"id"`
	AccountID     uuid.UUID    `json:"accountId"`
	DeviceID      uuid.UUID    `json:"deviceId"`
	TokenHash     string       `json:"-"`
	Issuer        string       `json:"issuer"`
	ExpiresAt     time.Time    `json:"expiresAt"`
	CreatedAt     time.Time    `json:"createdAt"`
	RevokedAt     null.Time    `json:"revokedAt"`
	RevokedReason RevokeReason `json:"revokedReason,omitempty"`
	ReplacedBy    null.String  `json:"-"`
}

// Active reports whether the session can still be rotated at the given time
func (s *Session) Active(now time.Time) bool {
	return !s.RevokedAt.Valid && now.Before(s.ExpiresAt)
}

// VerificationChannel identifies where a verification code was sent
type VerificationChannel string

const (
	ChannelEmail VerificationChannel = "email"
	ChannelPhone VerificationChannel = "phone"
)

// VerificationCode is a one-time code confirming a contact channel
type VerificationCode struct {
	ID         uuid.UUID           `json:"id"`
	AccountID  uuid.UUID           `json:"accountId"`
	Channel    VerificationChannel `json:"channel"`
	Code       string              `json:"-"`
	ExpiresAt  time.Time           `json:"expiresAt"`
	VerifiedAt null.Time           `json:"verifiedAt"`
	CreatedAt  time.Time           `json:"createdAt"`
}
