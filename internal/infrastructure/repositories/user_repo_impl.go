package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"ideagraph.backend/internal/domain/entities"
	domainerrors "ideagraph.backend/internal/domain/errors"
	"ideagraph.backend/internal/infrastructure/models"
)

// AccountRepository implements account data operations
type AccountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create inserts the account and its profile in one transaction
func (r *AccountRepository) Create(ctx context.Context, account *entities.Account, profile *entities.Profile) error {
	now := time.Now().UTC()
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	account.CreatedAt, account.UpdatedAt = now, now
	profile.AccountID = account.ID
	profile.CreatedAt, profile.UpdatedAt = now, now

	am := &models.Account{
		ID:            account.ID,
		Email:         account.Email,
		Phone:         account.Phone.Ptr(),
		PasswordHash:  account.PasswordHash,
		EmailVerified: account.EmailVerified,
		PhoneVerified: account.PhoneVerified,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	pm := &models.Profile{
		ID:        profile.ID,
		AccountID: account.ID,
		Name:      profile.Name,
		Location:  profile.Location,
		Summary:   profile.Summary,
		ImageURL:  profile.ImageURL,
		CoverURL:  profile.CoverURL,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := GetDB(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(am).Error; err != nil {
			return err
		}
		return tx.Omit("Account").Create(pm).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domainerrors.ErrAlreadyExists
	}
	return err
}

// GetByID gets an account by ID
func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Account, error) {
	var m models.Account
	if err := GetDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return toAccountEntity(&m), nil
}

// GetByEmail gets an account by email
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*entities.Account, error) {
	var m models.Account
	if err := GetDB(ctx, r.db).Where("email = ?", email).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return toAccountEntity(&m), nil
}

// UpdatePassword replaces the password hash
func (r *AccountRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return r.updateAccount(ctx, id, map[string]interface{}{
		"password_hash": passwordHash,
	})
}

// MarkVerified flags the given contact channel as confirmed
func (r *AccountRepository) MarkVerified(ctx context.Context, id uuid.UUID, channel entities.VerificationChannel) error {
	column := "email_verified"
	if channel == entities.ChannelPhone {
		column = "phone_verified"
	}
	return r.updateAccount(ctx, id, map[string]interface{}{column: true})
}

// Deactivate soft-deletes the account and hides its profile
func (r *AccountRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	now := time.Now().UTC()
	return GetDB(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Account{}).
			Where("id = ? AND deactivated_at IS NULL", id).
			Updates(map[string]interface{}{"deactivated_at": now, "updated_at": now})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrNotFound
		}
		return tx.Model(&models.Profile{}).
			Where("account_id = ?", id).
			Updates(map[string]interface{}{"deactivated_at": now, "updated_at": now}).Error
	})
}

// Reactivate clears a previous deactivation
func (r *AccountRepository) Reactivate(ctx context.Context, id uuid.UUID) error {
	now := time.Now().UTC()
	return GetDB(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Account{}).
			Where("id = ? AND deactivated_at IS NOT NULL", id).
			Updates(map[string]interface{}{"deactivated_at": nil, "updated_at": now})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrNotFound
		}
		return tx.Model(&models.Profile{}).
			Where("account_id = ?", id).
			Updates(map[string]interface{}{"deactivated_at": nil, "updated_at": now}).Error
	})
}

func (r *AccountRepository) updateAccount(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now().UTC()
	result := GetDB(ctx, r.db).Model(&models.Account{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func toAccountEntity(m *models.Account) *entities.Account {
	return &entities.Account{
		ID:            m.ID,
		Email:         m.Email,
		Phone:         null.StringFromPtr(m.Phone),
		PasswordHash:  m.PasswordHash,
		EmailVerified: m.EmailVerified,
		PhoneVerified: m.PhoneVerified,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
		DeactivatedAt: null.TimeFromPtr(m.DeactivatedAt),
		SuspendedAt:   null.TimeFromPtr(m.SuspendedAt),
	}
}

// ProfileRepository implements profile data operations
type ProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// GetByID gets an active profile by ID
func (r *ProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Profile, error) {
	var m models.Profile
	if err := GetDB(ctx, r.db).Where("id = ? AND deactivated_at IS NULL", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return toProfileEntity(&m), nil
}

// GetByAccountID gets the profile owned by an account, active or not
func (r *ProfileRepository) GetByAccountID(ctx context.Context, accountID uuid.UUID) (*entities.Profile, error) {
	var m models.Profile
	if err := GetDB(ctx, r.db).Where("account_id = ?", accountID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return toProfileEntity(&m), nil
}

// GetByIDs batch-loads active profiles
func (r *ProfileRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*entities.Profile, error) {
	out := make(map[uuid.UUID]*entities.Profile, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var rows []models.Profile
	if err := GetDB(ctx, r.db).Where("id IN ? AND deactivated_at IS NULL", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		out[rows[i].ID] = toProfileEntity(&rows[i])
	}
	return out, nil
}

// Update updates editable profile fields
func (r *ProfileRepository) Update(ctx context.Context, profile *entities.Profile) error {
	profile.UpdatedAt = time.Now().UTC()
	result := GetDB(ctx, r.db).Model(&models.Profile{}).
		Where("id = ? AND deactivated_at IS NULL", profile.ID).
		Updates(map[string]interface{}{
			"name":       profile.Name,
			"location":   profile.Location,
			"summary":    profile.Summary,
			"image_url":  profile.ImageURL,
			"cover_url":  profile.CoverURL,
			"updated_at": profile.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func toProfileEntity(m *models.Profile) *entities.Profile {
	return &entities.Profile{
		ID:            m.ID,
		AccountID:     m.AccountID,
		Name:          m.Name,
		Location:      m.Location,
		Summary:       m.Summary,
		ImageURL:      m.ImageURL,
		CoverURL:      m.CoverURL,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
		DeactivatedAt: null.TimeFromPtr(m.DeactivatedAt),
	}
}

// VerificationRepository implements verification code operations
type VerificationRepository struct {
	db *gorm.DB
}

// NewVerificationRepository creates a new verification repository
func NewVerificationRepository(db *gorm.DB) *VerificationRepository {
	return &VerificationRepository{db: db}
}

// Create stores a verification code
func (r *VerificationRepository) Create(ctx context.Context, code *entities.VerificationCode) error {
	if code.ID == uuid.Nil {
		code.ID = uuid.New()
	}
	code.CreatedAt = time.Now().UTC()
	m := &models.VerificationCode{
		ID:        code.ID,
		AccountID: code.AccountID,
		Channel:   string(code.Channel),
		Code:      code.Code,
		ExpiresAt: code.ExpiresAt,
		CreatedAt: code.CreatedAt,
	}
	return GetDB(ctx, r.db).Create(m).Error
}

// Consume marks a matching unexpired code as used
func (r *VerificationRepository) Consume(ctx context.Context, accountID uuid.UUID, channel entities.VerificationChannel, code string, now time.Time) error {
	result := GetDB(ctx, r.db).Model(&models.VerificationCode{}).
		Where("account_id = ? AND channel = ? AND code = ? AND verified_at IS NULL AND expires_at > ?", accountID, string(channel), code, now).
		Update("verified_at", now)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}
