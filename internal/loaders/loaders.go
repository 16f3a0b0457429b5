package loaders

import (
	"context"

	"github.com/google/uuid"
	"ideagraph.backend/internal/domain/entities"
	"ideagraph.backend/pkg/metrics"
)

type contextKey struct{}

// Sources are the repository calls the loaders batch into
type Sources struct {
	ReplyCounts       func(ctx context.Context, ids []string) (map[string]int, error)
	ReactionCounts    func(ctx context.Context, ids []string) (map[string]int, error)
	ReactionStatuses  func(ctx context.Context, actor uuid.UUID, ids []string) (map[string]*entities.Reaction, error)
	FollowerCounts    func(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int, error)
	FollowingStatuses func(ctx context.Context, actor uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]*entities.Follow, error)
	Profiles          func(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*entities.Profile, error)
}

// Loaders is the per-request bundle. Viewer loaders resolve to nil for
// anonymous requests.
type Loaders struct {
	Viewer          uuid.UUID
	ReplyCount      *Loader[string, int]
	ReactionCount   *Loader[string, int]
	ViewerReaction  *Loader[string, *entities.Reaction]
	FollowerCount   *Loader[uuid.UUID, int]
	ViewerFollowing *Loader[uuid.UUID, *entities.Follow]
	Profile         *Loader[uuid.UUID, *entities.Profile]
}

// Factory builds a fresh bundle for each request
type Factory struct {
	sources Sources
	cfg     Config
	metrics *metrics.Metrics
}

func NewFactory(sources Sources, cfg Config, m *metrics.Metrics) *Factory {
	return &Factory{sources: sources, cfg: cfg, metrics: m}
}

// New creates the loaders for one request made by viewer (uuid.Nil when anonymous)
func (f *Factory) New(ctx context.Context, viewer uuid.UUID) *Loaders {
	s := f.sources
	return &Loaders{
		Viewer:        viewer,
		ReplyCount:    New(ctx, "reply_count", f.cfg, f.metrics, s.ReplyCounts),
		ReactionCount: New(ctx, "reaction_count", f.cfg, f.metrics, s.ReactionCounts),
		ViewerReaction: New(ctx, "viewer_reaction", f.cfg, f.metrics, func(ctx context.Context, ids []string) (map[string]*entities.Reaction, error) {
			if viewer == uuid.Nil {
				return nil, nil
			}
			return s.ReactionStatuses(ctx, viewer, ids)
		}),
		FollowerCount: New(ctx, "follower_count", f.cfg, f.metrics, s.FollowerCounts),
		ViewerFollowing: New(ctx, "viewer_following", f.cfg, f.metrics, func(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*entities.Follow, error) {
			if viewer == uuid.Nil {
				return nil, nil
			}
			return s.FollowingStatuses(ctx, viewer, ids)
		}),
		Profile: New(ctx, "profile", f.cfg, f.metrics, s.Profiles),
	}
}

// WithLoaders attaches a bundle to ctx
func WithLoaders(ctx context.Context, l *Loaders) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// FromContext returns the bundle attached to ctx, if any
func FromContext(ctx context.Context) (*Loaders, bool) {
	l, ok := ctx.Value(contextKey{}).(*Loaders)
	return l, ok && l != nil
}

// For returns the request bundle or builds one for viewer when ctx has none
func (f *Factory) For(ctx context.Context, viewer uuid.UUID) *Loaders {
	if l, ok := FromContext(ctx); ok {
		return l
	}
	return f.New(ctx, viewer)
}
