package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"ideagraph.backend/internal/domain/entities"
)

// DeviceRepository defines device data operations
type DeviceRepository interface {
	Create(ctx context.Context, device *entities.Device) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Device, error)
	Touch(ctx context.Context, id uuid.UUID, address string, at time.Time) error
}

// SessionRepository defines refresh session operations
type SessionRepository interface {
	Create(ctx context.Context, session *entities.Session) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*entities.Session, error)
	// Revoke flips an active session to revoked. Exactly one concurrent caller
	// observes success for a given hash; the rest get ErrNotFound.
	Revoke(ctx context.Context, tokenHash string, reason entities.RevokeReason, now time.Time) (*entities.Session, error)
	// MarkExpired flags an unrevoked session past its expiry; ErrNotFound otherwise.
	MarkExpired(ctx context.Context, tokenHash string, now time.Time) error
	SetReplacedBy(ctx context.Context, id uuid.UUID, replacedBy uuid.UUID) error
	RevokeAllForAccount(ctx context.Context, accountID uuid.UUID, reason entities.RevokeReason, now time.Time) (int64, error)
	// ExpireStale marks unrevoked sessions past expiry as expired.
	ExpireStale(ctx context.Context, now time.Time, limit int) (int64, error)
}
