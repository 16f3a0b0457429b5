package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"ideagraph.backend/internal/domain/entities"
	domainerrors "ideagraph.backend/internal/domain/errors"
)

type profileServiceStub struct {
	getProfileFn    func(context.Context, uuid.UUID, uuid.UUID) (*entities.ProfileView, error)
	updateProfileFn func(context.Context, uuid.UUID, *entities.UpdateProfileInput) (*entities.Profile, error)
	followFn        func(context.Context, uuid.UUID, uuid.UUID) (*entities.Follow, error)
	unfollowFn      func(context.Context, uuid.UUID, uuid.UUID) error
	followersFn     func(context.Context, uuid.UUID, uuid.UUID, int, int) ([]*entities.ProfileView, error)
	followingFn     func(context.Context, uuid.UUID, uuid.UUID, int, int) ([]*entities.ProfileView, error)
}

func (s profileServiceStub) GetProfile(ctx context.Context, viewer, id uuid.UUID) (*entities.ProfileView, error) {
	return s.getProfileFn(ctx, viewer, id)
}

func (s profileServiceStub) UpdateProfile(ctx context.Context, profileID uuid.UUID, input *entities.UpdateProfileInput) (*entities.Profile, error) {
	return s.updateProfileFn(ctx, profileID, input)
}

func (s profileServiceStub) Follow(ctx context.Context, viewer, target uuid.UUID) (*entities.Follow, error) {
	return s.followFn(ctx, viewer, target)
}

func (s profileServiceStub) Unfollow(ctx context.Context, viewer, target uuid.UUID) error {
	return s.unfollowFn(ctx, viewer, target)
}

func (s profileServiceStub) Followers(ctx context.Context, viewer, id uuid.UUID, limit, offset int) ([]*entities.ProfileView, error) {
	return s.followersFn(ctx, viewer, id, limit, offset)
}

func (s profileServiceStub) Following(ctx context.Context, viewer, id uuid.UUID, limit, offset int) ([]*entities.ProfileView, error) {
	return s.followingFn(ctx, viewer, id, limit, offset)
}

func TestUserHandler_UserProfile(t *testing.T) {
	target := uuid.New()
	viewer := uuid.New()
	var seenViewer []uuid.UUID
	svc := profileServiceStub{
		getProfileFn: func(_ context.Context, v, id uuid.UUID) (*entities.ProfileView, error) {
			seenViewer = append(seenViewer, v)
			if id != target {
				return nil, domainerrors.ErrNotFound
			}
			return &entities.ProfileView{Profile: &entities.Profile{ID: id, Name: "Bob"}, FollowerCount: 3}, nil
		},
	}
	h := NewUserHandler(svc)
	r := newTestRouter()
	r.GET("/anon/userProfile/:id", h.UserProfile)
	r.GET("/me/userProfile/:id", asCaller(uuid.New(), viewer), h.UserProfile)

	rec := doJSON(r, http.MethodGet, "/anon/userProfile/"+target.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"followerCount":3`)

	rec = doJSON(r, http.MethodGet, "/me/userProfile/"+target.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []uuid.UUID{uuid.Nil, viewer}, seenViewer)

	rec = doJSON(r, http.MethodGet, "/anon/userProfile/"+uuid.NewString(), nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, domainerrors.CodeOperationFailed, errorCode(t, rec))

	rec = doJSON(r, http.MethodGet, "/anon/userProfile/not-a-uuid", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []string{"id"}, decode(t, rec).Errors[0].Extensions.Fields)
}

func TestUserHandler_UpdateProfile(t *testing.T) {
	profileID := uuid.New()
	svc := profileServiceStub{
		updateProfileFn: func(_ context.Context, id uuid.UUID, input *entities.UpdateProfileInput) (*entities.Profile, error) {
			assert.Equal(t, profileID, id)
			return &entities.Profile{ID: id, Name: input.Name}, nil
		},
	}
	h := NewUserHandler(svc)
	r := newTestRouter()
	r.PUT("/updateProfile", asCaller(uuid.New(), profileID), h.UpdateProfile)
	r.PUT("/anon/updateProfile", h.UpdateProfile)

	rec := doJSON(r, http.MethodPut, "/updateProfile", map[string]string{"name": "Carol"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"Carol"`)

	rec = doJSON(r, http.MethodPut, "/anon/updateProfile", map[string]string{"name": "Carol"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUserHandler_FollowUnfollow(t *testing.T) {
	viewer := uuid.New()
	target := uuid.New()
	svc := profileServiceStub{
		followFn: func(_ context.Context, v, t2 uuid.UUID) (*entities.Follow, error) {
			if v == t2 {
				return nil, domainerrors.ErrSelfFollow
			}
			return &entities.Follow{FollowerID: v, FolloweeID: t2}, nil
		},
		unfollowFn: func(_ context.Context, _, _ uuid.UUID) error { return domainerrors.ErrNotFound },
	}
	h := NewUserHandler(svc)
	r := newTestRouter()
	g := r.Group("/", asCaller(uuid.New(), viewer))
	g.POST("/followProfile/:id", h.FollowProfile)
	g.DELETE("/unfollowProfile/:id", h.UnfollowProfile)

	rec := doJSON(r, http.MethodPost, "/followProfile/"+target.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(r, http.MethodPost, "/followProfile/"+viewer.String(), nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, domainerrors.CodeOperationFailed, errorCode(t, rec))

	rec = doJSON(r, http.MethodDelete, "/unfollowProfile/"+target.String(), nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUserHandler_FollowersPaging(t *testing.T) {
	target := uuid.New()
	svc := profileServiceStub{
		followersFn: func(_ context.Context, _, id uuid.UUID, limit, offset int) ([]*entities.ProfileView, error) {
			assert.Equal(t, target, id)
			assert.Equal(t, 2, limit)
			assert.Equal(t, 4, offset)
			return []*entities.ProfileView{
				{Profile: &entities.Profile{ID: uuid.New()}},
				{Profile: &entities.Profile{ID: uuid.New()}},
			}, nil
		},
		followingFn: func(_ context.Context, _, _ uuid.UUID, limit, offset int) ([]*entities.ProfileView, error) {
			assert.Equal(t, 20, limit)
			assert.Equal(t, 0, offset)
			return []*entities.ProfileView{}, nil
		},
	}
	h := NewUserHandler(svc)
	r := newTestRouter()
	r.GET("/followers/:id", h.Followers)
	r.GET("/following/:id", h.Following)

	rec := doJSON(r, http.MethodGet, "/followers/"+target.String()+"?limit=2&offset=4", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"hasMore":true`)

	rec = doJSON(r, http.MethodGet, "/following/"+target.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"items":[]`)
	assert.Contains(t, rec.Body.String(), `"hasMore":false`)

	rec = doJSON(r, http.MethodGet, "/following/"+target.String()+"?limit=abc", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
