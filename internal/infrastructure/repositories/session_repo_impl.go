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

// DeviceRepository implements device data operations
type DeviceRepository struct {
	db *gorm.DB
}

// NewDeviceRepository creates a new device repository
func NewDeviceRepository(db *gorm.DB) *DeviceRepository {
	return &DeviceRepository{db: db}
}

// Create registers a device for an account
func (r *DeviceRepository) Create(ctx context.Context, device *entities.Device) error {
	now := time.Now().UTC()
	if device.ID == uuid.Nil {
		device.ID = uuid.New()
	}
	device.CreatedAt, device.LastSeenAt = now, now
	return GetDB(ctx, r.db).Create(&models.Device{
		ID:         device.ID,
		AccountID:  device.AccountID,
		Platform:   string(device.Platform),
		Model:      device.Model,
		Address:    device.Address,
		CreatedAt:  now,
		LastSeenAt: now,
	}).Error
}

// GetByID finds a device
func (r *DeviceRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Device, error) {
	var m models.Device
	if err := GetDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return &entities.Device{
		ID:         m.ID,
		AccountID:  m.AccountID,
		Platform:   entities.DevicePlatform(m.Platform),
		Model:      m.Model,
		Address:    m.Address,
		CreatedAt:  m.CreatedAt,
		LastSeenAt: m.LastSeenAt,
	}, nil
}

// Touch records the latest activity time of a device, and its address when known
func (r *DeviceRepository) Touch(ctx context.Context, id uuid.UUID, address string, at time.Time) error {
	updates := map[string]interface{}{"last_seen_at": at}
	if address != "" {
		updates["address"] = address
	}
	result := GetDB(ctx, r.db).Model(&models.Device{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// SessionRepository implements refresh session operations
type SessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create stores a new session
func (r *SessionRepository) Create(ctx context.Context, session *entities.Session) error {
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}
	return GetDB(ctx, r.db).Create(&models.Session{
		ID:        session.ID,
		AccountID: session.AccountID,
		DeviceID:  session.DeviceID,
		TokenHash: session.TokenHash,
		Issuer:    session.Issuer,
		ExpiresAt: session.ExpiresAt,
		CreatedAt: session.CreatedAt,
	}).Error
}

// GetByTokenHash finds a session regardless of its state
func (r *SessionRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*entities.Session, error) {
	var m models.Session
	if err := GetDB(ctx, r.db).Where("token_hash = ?", tokenHash).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return toSessionEntity(&m), nil
}

// Revoke is a compare-and-set on an active session. The WHERE clause carries the
// whole precondition so concurrent callers cannot both succeed.
func (r *SessionRepository) Revoke(ctx context.Context, tokenHash string, reason entities.RevokeReason, now time.Time) (*entities.Session, error) {
	result := GetDB(ctx, r.db).Model(&models.Session{}).
		Where("token_hash = ? AND revoked_at IS NULL AND expires_at > ?", tokenHash, now).
		Updates(map[string]interface{}{"revoked_at": now, "revoked_reason": string(reason)})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, domainerrors.ErrNotFound
	}
	return r.GetByTokenHash(ctx, tokenHash)
}

// MarkExpired flags an unrevoked session whose expiry has passed
func (r *SessionRepository) MarkExpired(ctx context.Context, tokenHash string, now time.Time) error {
	result := GetDB(ctx, r.db).Model(&models.Session{}).
		Where("token_hash = ? AND revoked_at IS NULL AND expires_at <= ?", tokenHash, now).
		Updates(map[string]interface{}{"revoked_at": now, "revoked_reason": string(entities.RevokeExpired)})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// SetReplacedBy links a rotated session to its successor
func (r *SessionRepository) SetReplacedBy(ctx context.Context, id uuid.UUID, replacedBy uuid.UUID) error {
	result := GetDB(ctx, r.db).Model(&models.Session{}).Where("id = ?", id).Update("replaced_by", replacedBy)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// RevokeAllForAccount revokes every live session of an account
func (r *SessionRepository) RevokeAllForAccount(ctx context.Context, accountID uuid.UUID, reason entities.RevokeReason, now time.Time) (int64, error) {
	result := GetDB(ctx, r.db).Model(&models.Session{}).
		Where("account_id = ? AND revoked_at IS NULL", accountID).
		Updates(map[string]interface{}{"revoked_at": now, "revoked_reason": string(reason)})
	return result.RowsAffected, result.Error
}

// ExpireStale marks up to limit unrevoked sessions past expiry as expired
func (r *SessionRepository) ExpireStale(ctx context.Context, now time.Time, limit int) (int64, error) {
	db := GetDB(ctx, r.db)
	stale := db.Session(&gorm.Session{NewDB: true}).Model(&models.Session{}).
		Select("id").
		Where("revoked_at IS NULL AND expires_at <= ?", now).
		Limit(limit)
	result := db.Model(&models.Session{}).
		Where("id IN (?)", stale).
		Updates(map[string]interface{}{"revoked_at": now, "revoked_reason": string(entities.RevokeExpired)})
	return result.RowsAffected, result.Error
}

func toSessionEntity(m *models.Session) *entities.Session {
	s := &entities.Session{
		ID:            m.ID,
		AccountID:     m.AccountID,
		DeviceID:      m.DeviceID,
		TokenHash:     m.TokenHash,
		Issuer:        m.Issuer,
		ExpiresAt:     m.ExpiresAt,
		CreatedAt:     m.CreatedAt,
		RevokedAt:     null.TimeFromPtr(m.RevokedAt),
		RevokedReason: entities.RevokeReason(m.RevokedReason),
	}
	if m.ReplacedBy != nil {
		s.ReplacedBy = null.StringFrom(m.ReplacedBy.String())
	}
	return s
}
