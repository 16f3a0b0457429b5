package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// Account represents login credentials and verification state
type Account struct {
	ID            uuid.UUID   `json:"id"`
	Email         string      `json:"email"`
	Phone         null.String `json:"phone"`
	PasswordHash  string      `json:"-"`
	EmailVerified bool        `json:"emailVerified"`
	PhoneVerified bool        `json:"phoneVerified"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
	DeactivatedAt null.Time   `json:"-"`
	SuspendedAt   null.Time   `json:"-"`
}

// Verified reports whether at least one contact channel was confirmed.
func (a *Account) Verified() bool {
	return a.EmailVerified || a.PhoneVerified
}

// Profile is the public identity that authors content and follows others
type Profile struct {
	ID            uuid.UUID `json:"id"`
	AccountID     uuid.UUID `json:"-"`
	Name          string    `json:"name"`
	Location      string    `json:"location"`
	Summary       string    `json:"summary"`
	ImageURL      string    `json:"imageUrl"`
	CoverURL      string    `json:"coverUrl"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
	DeactivatedAt null.Time `json:"-"`
}

// ProfileView is a profile enriched with viewer-dependent fields
type ProfileView struct {
	*Profile
	FollowerCount int     `json:"followerCount"`
	Following     *Follow `json:"viewerFollowing"`
}

// DeviceInput describes the client a session is bound to
type DeviceInput struct {
	Platform DevicePlatform `json:"platform" validate:"omitempty,oneof=WEB IOS ANDROID"`
	Model    string         `json:"model" validate:"max=100"`
	Address  string         `json:"-"`
}

// CreateUserInput represents input for creating an account and its profile
type CreateUserInput struct {
	Email    string      `json:"email" validate:"required,email,max=254"`
	Phone    string      `json:"phone" validate:"omitempty,e164"`
	Password string      `json:"password" validate:"min=8,max=72"`
	Name     string      `json:"name" validate:"min=2,max=50"`
	Device   DeviceInput `json:"device"`
}

// LoginInput represents input for user login
type LoginInput struct {
	Email    string      `json:"email" validate:"required,email"`
	Password string      `json:"password" validate:"required"`
	Device   DeviceInput `json:"device"`
}

// UpdateProfileInput represents editable profile fields
type UpdateProfileInput struct {
	Name     string `json:"name" validate:"min=2,max=50"`
	Location string `json:"location" validate:"max=100"`
	Summary  string `json:"summary" validate:"max=300"`
	ImageURL string `json:"imageUrl" validate:"omitempty,url"`
	CoverURL string `json:"coverUrl" validate:"omitempty,url"`
}

// VerifyInput confirms a contact channel with a one-time code
type VerifyInput struct {
	Code string `json:"code" validate:"required,numeric,len=6"`
}

// PasswordResetRequest starts a password reset
type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordInput completes a password reset
type ResetPasswordInput struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"min=8,max=72"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	AccessToken      string    `json:"accessToken"`
	AccessExpiresAt  time.Time `json:"accessExpiresAt"`
	RefreshToken     string    `json:"refreshToken,omitempty"`
	RefreshExpiresAt time.Time `json:"refreshExpiresAt"`
	Account          *Account  `json:"account,omitempty"`
	Profile          *Profile  `json:"profile,omitempty"`
	// Platform decides whether the refresh token travels in a cookie or the body.
	Platform DevicePlatform `json:"-"`
}
