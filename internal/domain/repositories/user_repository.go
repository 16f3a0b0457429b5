package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"ideagraph.backend/internal/domain/entities"
)

// AccountRepository defines account data operations
type AccountRepository interface {
	// Create persists the account and its profile atomically.
	Create(ctx context.Context, account *entities.Account, profile *entities.Profile) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Account, error)
	GetByEmail(ctx context.Context, email string) (*entities.Account, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	MarkVerified(ctx context.Context, id uuid.UUID, channel entities.VerificationChannel) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	Reactivate(ctx context.Context, id uuid.UUID) error
}

// ProfileRepository defines profile data operations
type ProfileRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Profile, error)
	GetByAccountID(ctx context.Context, accountID uuid.UUID) (*entities.Profile, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*entities.Profile, error)
	Update(ctx context.Context, profile *entities.Profile) error
}

// VerificationRepository defines verification code operations
type VerificationRepository interface {
	Create(ctx context.Context, code *entities.VerificationCode) error
	// Consume marks the newest matching unexpired code verified; ErrNotFound otherwise.
	Consume(ctx context.Context, accountID uuid.UUID, channel entities.VerificationChannel, code string, now time.Time) error
}

// ProfileProjection mirrors profile identity into a secondary store that keeps
// its own profile vertices (the graph content store).
type ProfileProjection interface {
	Upsert(ctx context.Context, profile *entities.Profile) error
}
