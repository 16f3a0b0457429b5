package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"ideagraph.backend/internal/domain/entities"
	"ideagraph.backend/internal/interfaces/http/middleware"
	"ideagraph.backend/internal/interfaces/http/response"
)

type profileService interface {
	GetProfile(ctx context.Context, viewer, id uuid.UUID) (*entities.ProfileView, error)
	UpdateProfile(ctx context.Context, profileID uuid.UUID, input *entities.UpdateProfileInput) (*entities.Profile, error)
	Follow(ctx context.Context, viewer, target uuid.UUID) (*entities.Follow, error)
	Unfollow(ctx context.Context, viewer, target uuid.UUID) error
	Followers(ctx context.Context, viewer, id uuid.UUID, limit, offset int) ([]*entities.ProfileView, error)
	Following(ctx context.Context, viewer, id uuid.UUID, limit, offset int) ([]*entities.ProfileView, error)
}

// UserHandler serves profiles and follows
type UserHandler struct {
	profileUsecase profileService
}

// NewUserHandler creates a new user handler
func NewUserHandler(profileUsecase profileService) *UserHandler {
	return &UserHandler{profileUsecase: profileUsecase}
}

// UserProfile returns one profile
// GET /api/v1/users/userProfile/:id
func (h *UserHandler) UserProfile(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	view, err := h.profileUsecase.GetProfile(c.Request.Context(), middleware.Viewer(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

// UpdateProfile edits the caller's profile
// PUT /api/v1/users/updateProfile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	_, profileID, err := caller(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var input entities.UpdateProfileInput
	if err := bindJSON(c, &input); err != nil {
		response.Error(c, err)
		return
	}

	profile, err := h.profileUsecase.UpdateProfile(c.Request.Context(), profileID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, profile)
}

// FollowProfile follows the profile in the path
// POST /api/v1/users/followProfile/:id
func (h *UserHandler) FollowProfile(c *gin.Context) {
	target, err := pathUUID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	follow, err := h.profileUsecase.Follow(c.Request.Context(), middleware.Viewer(c), target)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, follow)
}

// UnfollowProfile removes the follow edge
// DELETE /api/v1/users/unfollowProfile/:id
func (h *UserHandler) UnfollowProfile(c *gin.Context) {
	target, err := pathUUID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.profileUsecase.Unfollow(c.Request.Context(), middleware.Viewer(c), target); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, true)
}

// Followers lists who follows the profile
// GET /api/v1/users/followers/:id
func (h *UserHandler) Followers(c *gin.Context) {
	h.list(c, h.profileUsecase.Followers)
}

// Following lists whom the profile follows
// GET /api/v1/users/following/:id
func (h *UserHandler) Following(c *gin.Context) {
	h.list(c, h.profileUsecase.Following)
}

func (h *UserHandler) list(c *gin.Context, fetch func(ctx context.Context, viewer, id uuid.UUID, limit, offset int) ([]*entities.ProfileView, error)) {
	id, err := pathUUID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	p, err := pageParams(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	views, err := fetch(c.Request.Context(), middleware.Viewer(c), id, p.Limit, p.Offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, page(views, p))
}
