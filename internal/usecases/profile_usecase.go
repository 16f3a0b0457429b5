package usecases

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"ideagraph.backend/internal/domain/entities"
	domainerrors "ideagraph.backend/internal/domain/errors"
	"ideagraph.backend/internal/domain/repositories"
	"ideagraph.backend/internal/loaders"
)

// ActivityPublisher announces social mutations. Implementations never fail the caller.
type ActivityPublisher interface {
	Publish(ctx context.Context, event entities.ActivityEvent)
}

// ProfileUsecase serves profiles and the follow graph
type ProfileUsecase struct {
	profileRepo repositories.ProfileRepository
	followRepo  repositories.FollowRepository
	projection  repositories.ProfileProjection
	publisher   ActivityPublisher
	loaders     *loaders.Factory
}

// NewProfileUsecase creates a new profile usecase. projection may be nil.
func NewProfileUsecase(
	profileRepo repositories.ProfileRepository,
	followRepo repositories.FollowRepository,
	projection repositories.ProfileProjection,
	publisher ActivityPublisher,
	loaderFactory *loaders.Factory,
) *ProfileUsecase {
	return &ProfileUsecase{
		profileRepo: profileRepo,
		followRepo:  followRepo,
		projection:  projection,
		publisher:   publisher,
		loaders:     loaderFactory,
	}
}

// GetProfile returns an active profile with follower count and the viewer's follow edge
func (u *ProfileUsecase) GetProfile(ctx context.Context, viewer, id uuid.UUID) (*entities.ProfileView, error) {
	profile, err := u.profileRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	l := u.loaders.For(ctx, viewer)
	l.Profile.Prime(profile.ID, profile)
	return profileView(ctx, l, profile)
}

// UpdateProfile replaces the editable fields of the caller's profile
func (u *ProfileUsecase) UpdateProfile(ctx context.Context, profileID uuid.UUID, input *entities.UpdateProfileInput) (*entities.Profile, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Location = strings.TrimSpace(input.Location)
	input.Summary = strings.TrimSpace(input.Summary)
	input.ImageURL = strings.TrimSpace(input.ImageURL)
	input.CoverURL = strings.TrimSpace(input.CoverURL)
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	profile := &entities.Profile{
		ID:       profileID,
		Name:     input.Name,
		Location: input.Location,
		Summary:  input.Summary,
		ImageURL: input.ImageURL,
		CoverURL: input.CoverURL,
	}
	if err := u.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}
	updated, err := u.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	projectProfile(ctx, u.projection, updated)
	return updated, nil
}

// Follow makes viewer follow target. Following twice is a no-op.
func (u *ProfileUsecase) Follow(ctx context.Context, viewer, target uuid.UUID) (*entities.Follow, error) {
	if viewer == target {
		return nil, domainerrors.ErrSelfFollow
	}
	follow := &entities.Follow{FollowerID: viewer, FolloweeID: target}
	if err := u.followRepo.Follow(ctx, follow); err != nil {
		return nil, err
	}
	u.publisher.Publish(ctx, entities.ActivityEvent{
		Type:       entities.ActivityFollow,
		ActorID:    viewer,
		TargetID:   target.String(),
		OccurredAt: time.Now().UTC(),
	})
	return follow, nil
}

// Unfollow removes the follow edge
func (u *ProfileUsecase) Unfollow(ctx context.Context, viewer, target uuid.UUID) error {
	if err := u.followRepo.Unfollow(ctx, viewer, target); err != nil {
		return err
	}
	u.publisher.Publish(ctx, entities.ActivityEvent{
		Type:       entities.ActivityUnfollow,
		ActorID:    viewer,
		TargetID:   target.String(),
		OccurredAt: time.Now().UTC(),
	})
	return nil
}

// Followers lists the profiles following id, newest edge first
func (u *ProfileUsecase) Followers(ctx context.Context, viewer, id uuid.UUID, limit, offset int) ([]*entities.ProfileView, error) {
	edges, err := u.followRepo.ListFollowers(ctx, id, limit, offset)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, len(edges))
	for i, e := range edges {
		ids[i] = e.FollowerID
	}
	return u.views(ctx, viewer, ids)
}

// Following lists the profiles id follows, newest edge first
func (u *ProfileUsecase) Following(ctx context.Context, viewer, id uuid.UUID, limit, offset int) ([]*entities.ProfileView, error) {
	edges, err := u.followRepo.ListFollowing(ctx, id, limit, offset)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, len(edges))
	for i, e := range edges {
		ids[i] = e.FolloweeID
	}
	return u.views(ctx, viewer, ids)
}

// views resolves profiles through the request loaders; deactivated profiles are skipped
func (u *ProfileUsecase) views(ctx context.Context, viewer uuid.UUID, ids []uuid.UUID) ([]*entities.ProfileView, error) {
	l := u.loaders.For(ctx, viewer)
	out := make([]*entities.ProfileView, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		g.Go(func() error {
			profile, err := l.Profile.Load(gctx, id)
			if err != nil || profile == nil {
				return err
			}
			out[i], err = profileView(gctx, l, profile)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return compact(out), nil
}

func profileView(ctx context.Context, l *loaders.Loaders, profile *entities.Profile) (*entities.ProfileView, error) {
	view := &entities.ProfileView{Profile: profile}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		view.FollowerCount, err = l.FollowerCount.Load(gctx, profile.ID)
		return err
	})
	g.Go(func() (err error) {
		view.Following, err = l.ViewerFollowing.Load(gctx, profile.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return view, nil
}

func compact[T any](in []*T) []*T {
	out := in[:0]
	for _, v := range in {
		if v != nil {
			out = append(out, v)
		}
	}
	return out
}
