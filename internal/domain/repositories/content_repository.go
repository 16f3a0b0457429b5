package repositories

import (
	"context"

	"github.com/google/uuid"
	"ideagraph.backend/internal/domain/entities"
)

// ContentRepository defines post and idea operations. Every mutation re-asserts
// authorship and liveness inside the statement; a mismatch yields ErrNotFound.
type ContentRepository interface {
	CreatePost(ctx context.Context, post *entities.Post) error
	CreateIdea(ctx context.Context, idea *entities.Idea) error
	UpdatePost(ctx context.Context, actor uuid.UUID, post *entities.Post) error
	UpdateIdea(ctx context.Context, actor uuid.UUID, idea *entities.Idea) error
	SoftDelete(ctx context.Context, actor uuid.UUID, kind entities.ContentKind, id string) error
	FindByID(ctx context.Context, id string) (entities.ActionableContent, error)
	FindByAuthor(ctx context.Context, author uuid.UUID, kind entities.ContentKind, limit, offset int) ([]entities.ActionableContent, error)
	FindReplies(ctx context.Context, parentID string, limit, offset int) ([]*entities.Idea, error)
	LoadReplyCounts(ctx context.Context, ids []string) (map[string]int, error)
}

// ReactionRepository defines reaction edge operations
type ReactionRepository interface {
	// Create replaces any prior reaction from the same profile on the same content.
	Create(ctx context.Context, reaction *entities.Reaction) error
	Delete(ctx context.Context, actor uuid.UUID, contentID string) error
	ListByContent(ctx context.Context, contentID string, limit, offset int) ([]*entities.Reaction, error)
	LoadCounts(ctx context.Context, ids []string) (map[string]int, error)
	LoadStatuses(ctx context.Context, actor uuid.UUID, ids []string) (map[string]*entities.Reaction, error)
}

// FollowRepository defines follow edge operations
type FollowRepository interface {
	Follow(ctx context.Context, follow *entities.Follow) error
	Unfollow(ctx context.Context, follower, followee uuid.UUID) error
	ListFollowers(ctx context.Context, profileID uuid.UUID, limit, offset int) ([]*entities.Follow, error)
	ListFollowing(ctx context.Context, profileID uuid.UUID, limit, offset int) ([]*entities.Follow, error)
	LoadFollowingStatuses(ctx context.Context, actor uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]*entities.Follow, error)
	LoadFollowerCounts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int, error)
}

// ReportRepository defines content report operations
type ReportRepository interface {
	Create(ctx context.Context, report *entities.Report) error
}

// WatchlistRepository defines watchlist document operations scoped to an owner
type WatchlistRepository interface {
	Create(ctx context.Context, watchlist *entities.Watchlist) error
	GetByID(ctx context.Context, owner uuid.UUID, id string) (*entities.Watchlist, error)
	ListByOwner(ctx context.Context, owner uuid.UUID) ([]*entities.Watchlist, error)
	Update(ctx context.Context, watchlist *entities.Watchlist) error
	Delete(ctx context.Context, owner uuid.UUID, id string) error
}
