package usecases

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
	"ideagraph.backend/internal/domain/entities"
	domainerrors "ideagraph.backend/internal/domain/errors"
	"ideagraph.backend/internal/domain/repositories"
	"ideagraph.backend/pkg/crypto"
	"ideagraph.backend/pkg/logger"
	"ideagraph.backend/pkg/redis"
)

const verificationCodeDigits = 6

// SecretStore keeps single-use secrets such as password reset grants
type SecretStore interface {
	Put(ctx context.Context, id string, data any, ttl time.Duration) error
	Take(ctx context.Context, id string, out any) error
}

type resetGrant struct {
	AccountID uuid.UUID `json:"accountId"`
}

var (
	hashPassword       = crypto.HashPassword
	generateResetToken = func() (string, error) { return crypto.GenerateRandomToken(32) }
	generateCode       = func() (string, error) { return crypto.GenerateNumericCode(verificationCodeDigits) }
)

// AuthUsecase handles account registration, login, verification and recovery
type AuthUsecase struct {
	uow                repositories.UnitOfWork
	accountRepo        repositories.AccountRepository
	profileRepo        repositories.ProfileRepository
	verificationRepo   repositories.VerificationRepository
	projection         repositories.ProfileProjection
	sessions           *SessionUsecase
	secrets            SecretStore
	resetExpiry        time.Duration
	verificationExpiry time.Duration
}

// NewAuthUsecase creates a new auth usecase. projection may be nil.
func NewAuthUsecase(
	uow repositories.UnitOfWork,
	accountRepo repositories.AccountRepository,
	profileRepo repositories.ProfileRepository,
	verificationRepo repositories.VerificationRepository,
	projection repositories.ProfileProjection,
	sessions *SessionUsecase,
	secrets SecretStore,
	resetExpiry, verificationExpiry time.Duration,
) *AuthUsecase {
	return &AuthUsecase{
		uow:                uow,
		accountRepo:        accountRepo,
		profileRepo:        profileRepo,
		verificationRepo:   verificationRepo,
		projection:         projection,
		sessions:           sessions,
		secrets:            secrets,
		resetExpiry:        resetExpiry,
		verificationExpiry: verificationExpiry,
	}
}

// CreateUser registers an account with its profile and logs the device in
func (u *AuthUsecase) CreateUser(ctx context.Context, input *entities.CreateUserInput) (*entities.AuthResponse, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Phone = strings.TrimSpace(input.Phone)
	input.Name = strings.TrimSpace(input.Name)
	input.Device.Model = strings.TrimSpace(input.Device.Model)
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	passwordHash, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	account := &entities.Account{
		Email:        input.Email,
		PasswordHash: passwordHash,
	}
	if input.Phone != "" {
		account.Phone = null.StringFrom(input.Phone)
	}
	profile := &entities.Profile{Name: input.Name}

	var code *entities.VerificationCode
	err = u.uow.Do(ctx, func(ctx context.Context) error {
		if err := u.accountRepo.Create(ctx, account, profile); err != nil {
			return err
		}
		code, err = u.newCode(ctx, account.ID, entities.ChannelEmail)
		return err
	})
	if err != nil {
		return nil, err
	}

	u.project(ctx, profile)
	u.deliver(ctx, account, code)
	return u.sessions.Issue(ctx, account, profile, input.Device)
}

// LoginUser checks credentials and starts a session. Logging in reactivates a deactivated account.
func (u *AuthUsecase) LoginUser(ctx context.Context, input *entities.LoginInput) (*entities.AuthResponse, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	account, err := u.accountRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.ErrInvalidCredentials
		}
		return nil, err
	}
	if !crypto.CheckPassword(input.Password, account.PasswordHash) {
		return nil, domainerrors.ErrInvalidCredentials
	}
	if account.SuspendedAt.Valid {
		return nil, domainerrors.ErrAccountSuspended
	}

	if account.DeactivatedAt.Valid {
		if err := u.accountRepo.Reactivate(ctx, account.ID); err != nil {
			return nil, err
		}
		account.DeactivatedAt = null.Time{}
		logger.Info(ctx, "Account reactivated on login", zap.String("account_id", account.ID.String()))
	}

	profile, err := u.profileRepo.GetByAccountID(ctx, account.ID)
	if err != nil {
		return nil, err
	}
	u.project(ctx, profile)
	return u.sessions.Issue(ctx, account, profile, input.Device)
}

// RequestVerification sends a fresh code to the chosen channel
func (u *AuthUsecase) RequestVerification(ctx context.Context, accountID uuid.UUID, channel entities.VerificationChannel) error {
	account, err := u.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return err
	}
	switch channel {
	case entities.ChannelEmail:
	case entities.ChannelPhone:
		if !account.Phone.Valid {
			return domainerrors.Validation("phone")
		}
	default:
		return domainerrors.Validation("channel")
	}

	code, err := u.newCode(ctx, account.ID, channel)
	if err != nil {
		return err
	}
	u.deliver(ctx, account, code)
	return nil
}

// Verify consumes a code and marks the channel verified. The returned access
// token carries the updated verified claim.
func (u *AuthUsecase) Verify(ctx context.Context, accountID uuid.UUID, channel entities.VerificationChannel, input *entities.VerifyInput) (*entities.AuthResponse, error) {
	input.Code = strings.TrimSpace(input.Code)
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	err := u.uow.Do(ctx, func(ctx context.Context) error {
		if err := u.verificationRepo.Consume(ctx, accountID, channel, input.Code, time.Now().UTC()); err != nil {
			if errors.Is(err, domainerrors.ErrNotFound) {
				return domainerrors.Validation("code")
			}
			return err
		}
		return u.accountRepo.MarkVerified(ctx, accountID, channel)
	})
	if err != nil {
		return nil, err
	}

	account, profile, err := u.Me(ctx, accountID)
	if err != nil {
		return nil, err
	}
	access, err := u.sessions.AccessToken(account, profile)
	if err != nil {
		return nil, err
	}
	return &entities.AuthResponse{
		AccessToken:     access.Token,
		AccessExpiresAt: access.ExpiresAt,
		Account:         account,
		Profile:         profile,
	}, nil
}

// RequestPasswordReset issues a single-use reset token. Unknown emails succeed silently.
func (u *AuthUsecase) RequestPasswordReset(ctx context.Context, input *entities.PasswordResetRequest) error {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if err := validateStruct(input); err != nil {
		return err
	}

	account, err := u.accountRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil
		}
		return err
	}

	token, err := generateResetToken()
	if err != nil {
		return err
	}
	if err := u.secrets.Put(ctx, token, resetGrant{AccountID: account.ID}, u.resetExpiry); err != nil {
		return err
	}
	logger.Info(ctx, "Password reset issued", zap.String("account_id", account.ID.String()))
	logger.Debug(ctx, "Password reset token", zap.String("token", token))
	return nil
}

// ResetPassword redeems a reset token, sets the new password and ends every session
func (u *AuthUsecase) ResetPassword(ctx context.Context, input *entities.ResetPasswordInput) error {
	input.Token = strings.TrimSpace(input.Token)
	if err := validateStruct(input); err != nil {
		return err
	}

	passwordHash, err := hashPassword(input.Password)
	if err != nil {
		return err
	}

	// The grant is taken inside the transaction and put back if the
	// transaction fails, so a failed update leaves the token redeemable.
	var grant resetGrant
	taken := false
	err = u.uow.Do(ctx, func(ctx context.Context) error {
		if err := u.secrets.Take(ctx, input.Token, &grant); err != nil {
			if errors.Is(err, redis.ErrSecretNotFound) {
				return domainerrors.ErrInvalidToken
			}
			return err
		}
		taken = true

		if err := u.accountRepo.UpdatePassword(ctx, grant.AccountID, passwordHash); err != nil {
			return err
		}
		return u.sessions.RevokeAll(ctx, grant.AccountID, entities.RevokeLogout)
	})
	if err != nil && taken {
		if putErr := u.secrets.Put(ctx, input.Token, grant, u.resetExpiry); putErr != nil {
			logger.Warn(ctx, "Failed to restore password reset grant", zap.Error(putErr))
		}
	}
	return err
}

// DeactivateAccount hides the account and its profile and ends every session
func (u *AuthUsecase) DeactivateAccount(ctx context.Context, accountID uuid.UUID) error {
	err := u.uow.Do(ctx, func(ctx context.Context) error {
		if err := u.accountRepo.Deactivate(ctx, accountID); err != nil {
			return err
		}
		return u.sessions.RevokeAll(ctx, accountID, entities.RevokeDeactivated)
	})
	if err != nil {
		return err
	}

	profile, err := u.profileRepo.GetByAccountID(ctx, accountID)
	if err != nil {
		return err
	}
	u.project(ctx, profile)
	return nil
}

// Me returns the account and profile behind an access token
func (u *AuthUsecase) Me(ctx context.Context, accountID uuid.UUID) (*entities.Account, *entities.Profile, error) {
	account, err := u.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, nil, err
	}
	profile, err := u.profileRepo.GetByAccountID(ctx, accountID)
	if err != nil {
		return nil, nil, err
	}
	return account, profile, nil
}

func (u *AuthUsecase) newCode(ctx context.Context, accountID uuid.UUID, channel entities.VerificationChannel) (*entities.VerificationCode, error) {
	value, err := generateCode()
	if err != nil {
		return nil, err
	}
	code := &entities.VerificationCode{
		AccountID: accountID,
		Channel:   channel,
		Code:      value,
		ExpiresAt: time.Now().UTC().Add(u.verificationExpiry),
	}
	if err := u.verificationRepo.Create(ctx, code); err != nil {
		return nil, err
	}
	return code, nil
}

// deliver hands a code to the outbound channel. Delivery itself happens outside this service.
func (u *AuthUsecase) deliver(ctx context.Context, account *entities.Account, code *entities.VerificationCode) {
	logger.Info(ctx, "Verification code issued",
		zap.String("account_id", account.ID.String()),
		zap.String("channel", string(code.Channel)),
		zap.Time("expires_at", code.ExpiresAt),
	)
	logger.Debug(ctx, "Verification code", zap.String("code", code.Code))
}

func (u *AuthUsecase) project(ctx context.Context, profile *entities.Profile) {
	projectProfile(ctx, u.projection, profile)
}

// projectProfile mirrors a profile into the secondary store. Failures are
// logged; the relational row stays authoritative.
func projectProfile(ctx context.Context, projection repositories.ProfileProjection, profile *entities.Profile) {
	if projection == nil || profile == nil {
		return
	}
	if err := projection.Upsert(ctx, profile); err != nil {
		logger.Error(ctx, "Failed to project profile", zap.String("profile_id", profile.ID.String()), zap.Error(err))
	}
}
