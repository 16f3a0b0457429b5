package usecases

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"ideagraph.backend/internal/domain/entities"
	domainerrors "ideagraph.backend/internal/domain/errors"
	"ideagraph.backend/internal/domain/repositories"
	"ideagraph.backend/pkg/crypto"
	"ideagraph.backend/pkg/jwt"
	"ideagraph.backend/pkg/logger"
	"ideagraph.backend/pkg/metrics"
	"ideagraph.backend/pkg/utils"
)

// Refresh outcomes reported to metrics
const (
	refreshRotated  = "rotated"
	refreshExpired  = "expired"
	refreshReplayed = "replayed"
	refreshRejected = "rejected"
)

var generateRefreshToken = crypto.GenerateRefreshToken

// SessionUsecase issues access tokens and rotates device-bound refresh tokens
type SessionUsecase struct {
	uow           repositories.UnitOfWork
	accountRepo   repositories.AccountRepository
	profileRepo   repositories.ProfileRepository
	deviceRepo    repositories.DeviceRepository
	sessionRepo   repositories.SessionRepository
	jwtService    *jwt.JWTService
	issuer        string
	refreshExpiry time.Duration
	metrics       *metrics.Metrics
}

// NewSessionUsecase creates a new session usecase
func NewSessionUsecase(
	uow repositories.UnitOfWork,
	accountRepo repositories.AccountRepository,
	profileRepo repositories.ProfileRepository,
	deviceRepo repositories.DeviceRepository,
	sessionRepo repositories.SessionRepository,
	jwtService *jwt.JWTService,
	issuer string,
	refreshExpiry time.Duration,
	m *metrics.Metrics,
) *SessionUsecase {
	return &SessionUsecase{
		uow:           uow,
		accountRepo:   accountRepo,
		profileRepo:   profileRepo,
		deviceRepo:    deviceRepo,
		sessionRepo:   sessionRepo,
		jwtService:    jwtService,
		issuer:        issuer,
		refreshExpiry: refreshExpiry,
		metrics:       m,
	}
}

// Issue registers the device and starts a new session on it
func (u *SessionUsecase) Issue(ctx context.Context, account *entities.Account, profile *entities.Profile, input entities.DeviceInput) (*entities.AuthResponse, error) {
	if input.Platform == "" {
		input.Platform = entities.PlatformWeb
	}
	device := &entities.Device{
		ID:        utils.GenerateUUIDv7(),
		AccountID: account.ID,
		Platform:  input.Platform,
		Model:     input.Model,
		Address:   input.Address,
	}

	var resp *entities.AuthResponse
	err := u.uow.Do(ctx, func(ctx context.Context) error {
		if err := u.deviceRepo.Create(ctx, device); err != nil {
			return err
		}
		session, token, err := u.startSession(ctx, account.ID, device.ID)
		if err != nil {
			return err
		}
		resp, err = u.respond(account, profile, session, token, device.Platform)
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Refresh revokes the presented refresh token and issues its successor.
// Every failure collapses to ErrInvalidToken.
func (u *SessionUsecase) Refresh(ctx context.Context, refreshToken, address string) (*entities.AuthResponse, error) {
	if refreshToken == "" {
		return nil, domainerrors.ErrUnauthenticated
	}
	hash := crypto.HashToken(refreshToken)
	now := time.Now().UTC()

	var (
		resp      *entities.AuthResponse
		rotated   bool
		oldDevice uuid.UUID
	)
	err := u.uow.Do(ctx, func(ctx context.Context) error {
		old, err := u.sessionRepo.Revoke(ctx, hash, entities.RevokeReplaced, now)
		if err != nil {
			return err
		}
		rotated = true
		oldDevice = old.DeviceID

		account, err := u.accountRepo.GetByID(ctx, old.AccountID)
		if err != nil {
			return err
		}
		if account.DeactivatedAt.Valid || account.SuspendedAt.Valid {
			return domainerrors.ErrInvalidToken
		}
		profile, err := u.profileRepo.GetByAccountID(ctx, account.ID)
		if err != nil {
			return err
		}

		next, token, err := u.startSession(ctx, account.ID, old.DeviceID)
		if err != nil {
			return err
		}
		if err := u.sessionRepo.SetReplacedBy(ctx, old.ID, next.ID); err != nil {
			return err
		}
		if err := u.deviceRepo.Touch(ctx, old.DeviceID, address, now); err != nil && !errors.Is(err, domainerrors.ErrNotFound) {
			return err
		}

		platform, err := u.platformOf(ctx, old.DeviceID)
		if err != nil {
			return err
		}
		resp, err = u.respond(account, profile, next, token, platform)
		return err
	})

	switch {
	case err == nil:
		u.metrics.RefreshOutcome(refreshRotated)
		return resp, nil
	case !rotated && errors.Is(err, domainerrors.ErrNotFound):
		// Lost the race, replayed a rotated token, or presented an expired one.
		if markErr := u.sessionRepo.MarkExpired(ctx, hash, now); markErr == nil {
			u.metrics.RefreshOutcome(refreshExpired)
		} else {
			u.metrics.RefreshOutcome(refreshReplayed)
			logger.Warn(ctx, "Refresh token reuse rejected")
		}
		return nil, domainerrors.ErrInvalidToken
	case errors.Is(err, domainerrors.ErrInvalidToken), errors.Is(err, domainerrors.ErrNotFound):
		u.metrics.RefreshOutcome(refreshRejected)
		logger.Warn(ctx, "Refresh rejected", zap.String("device_id", oldDevice.String()))
		return nil, domainerrors.ErrInvalidToken
	default:
		u.metrics.RefreshOutcome(refreshRejected)
		return nil, err
	}
}

// Logout revokes the presented session. Unknown or already revoked tokens are ignored.
func (u *SessionUsecase) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	_, err := u.sessionRepo.Revoke(ctx, crypto.HashToken(refreshToken), entities.RevokeLogout, time.Now().UTC())
	if err != nil && !errors.Is(err, domainerrors.ErrNotFound) {
		return err
	}
	return nil
}

// RevokeAll ends every session of an account
func (u *SessionUsecase) RevokeAll(ctx context.Context, accountID uuid.UUID, reason entities.RevokeReason) error {
	n, err := u.sessionRepo.RevokeAllForAccount(ctx, accountID, reason, time.Now().UTC())
	if err != nil {
		return err
	}
	logger.Info(ctx, "Revoked account sessions", zap.String("account_id", accountID.String()), zap.Int64("count", n), zap.String("reason", string(reason)))
	return nil
}

// AccessToken signs a fresh access token without touching the session
func (u *SessionUsecase) AccessToken(account *entities.Account, profile *entities.Profile) (*jwt.AccessToken, error) {
	return u.jwtService.GenerateAccessToken(account.ID, profile.ID, account.Verified())
}

func (u *SessionUsecase) startSession(ctx context.Context, accountID, deviceID uuid.UUID) (*entities.Session, string, error) {
	token, err := generateRefreshToken()
	if err != nil {
		return nil, "", err
	}
	session := &entities.Session{
		ID:        utils.GenerateUUIDv7(),
		AccountID: accountID,
		DeviceID:  deviceID,
		TokenHash: crypto.HashToken(token),
		Issuer:    u.issuer,
		ExpiresAt: time.Now().UTC().Add(u.refreshExpiry),
	}
	if err := u.sessionRepo.Create(ctx, session); err != nil {
		return nil, "", err
	}
	return session, token, nil
}

func (u *SessionUsecase) platformOf(ctx context.Context, deviceID uuid.UUID) (entities.DevicePlatform, error) {
	device, err := u.deviceRepo.GetByID(ctx, deviceID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return entities.PlatformWeb, nil
		}
		return "", err
	}
	return device.Platform, nil
}

func (u *SessionUsecase) respond(account *entities.Account, profile *entities.Profile, session *entities.Session, refreshToken string, platform entities.DevicePlatform) (*entities.AuthResponse, error) {
	access, err := u.AccessToken(account, profile)
	if err != nil {
		return nil, err
	}
	return &entities.AuthResponse{
		AccessToken:      access.Token,
		AccessExpiresAt:  access.ExpiresAt,
		RefreshToken:     refreshToken,
		RefreshExpiresAt: session.ExpiresAt,
		Account:          account,
		Profile:          profile,
		Platform:         platform,
	}, nil
}
