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

type contentService interface {
	CreatePost(ctx context.Context, actor uuid.UUID, input *entities.PostInput) (*entities.ContentView, error)
	UpdatePost(ctx context.Context, actor uuid.UUID, id string, input *entities.PostInput) (*entities.ContentView, error)
	DeletePost(ctx context.Context, actor uuid.UUID, id string) error
	CreateIdea(ctx context.Context, actor uuid.UUID, input *entities.IdeaInput) (*entities.ContentView, error)
	UpdateIdea(ctx context.Context, actor uuid.UUID, id string, input *entities.IdeaInput) (*entities.ContentView, error)
	DeleteIdea(ctx context.Context, actor uuid.UUID, id string) error
	CreateReaction(ctx context.Context, actor uuid.UUID, contentID string, input *entities.ReactionInput) (*entities.Reaction, error)
	DeleteReaction(ctx context.Context, actor uuid.UUID, contentID string) error
	ReportContent(ctx context.Context, actor uuid.UUID, contentID string, input *entities.ReportInput) (*entities.Report, error)
	GetContent(ctx context.Context, viewer uuid.UUID, id string) (*entities.ContentView, error)
	ByAuthor(ctx context.Context, viewer, author uuid.UUID, kind entities.ContentKind, limit, offset int) ([]*entities.ContentView, error)
	Replies(ctx context.Context, viewer uuid.UUID, parentID string, limit, offset int) ([]*entities.ContentView, error)
	Reactions(ctx context.Context, contentID string, limit, offset int) ([]*entities.Reaction, error)
}

// ContentHandler serves posts, ideas and their social edges
type ContentHandler struct {
	contentUsecase contentService
}

// NewContentHandler creates a new content handler
func NewContentHandler(contentUsecase contentService) *ContentHandler {
	return &ContentHandler{contentUsecase: contentUsecase}
}

// CreatePost POST /api/v1/content/createPost
func (h *ContentHandler) CreatePost(c *gin.Context) {
	var input entities.PostInput
	if err := bindJSON(c, &input); err != nil {
		response.Error(c, err)
		return
	}
	view, err := h.contentUsecase.CreatePost(c.Request.Context(), middleware.Viewer(c), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, view)
}

// UpdatePost PUT /api/v1/content/updatePost/:id
func (h *ContentHandler) UpdatePost(c *gin.Context) {
	var input entities.PostInput
	if err := bindJSON(c, &input); err != nil {
		response.Error(c, err)
		return
	}
	view, err := h.contentUsecase.UpdatePost(c.Request.Context(), middleware.Viewer(c), c.Param("id"), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

// DeletePost DELETE /api/v1/content/deletePost/:id
func (h *ContentHandler) DeletePost(c *gin.Context) {
	if err := h.contentUsecase.DeletePost(c.Request.Context(), middleware.Viewer(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, true)
}

// CreateIdea POST /api/v1/content/createIdea
func (h *ContentHandler) CreateIdea(c *gin.Context) {
	var input entities.IdeaInput
	if err := bindJSON(c, &input); err != nil {
		response.Error(c, err)
		return
	}
	view, err := h.contentUsecase.CreateIdea(c.Request.Context(), middleware.Viewer(c), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, view)
}

// UpdateIdea PUT /api/v1/content/updateIdea/:id
func (h *ContentHandler) UpdateIdea(c *gin.Context) {
	var input entities.IdeaInput
	if err := bindJSON(c, &input); err != nil {
		response.Error(c, err)
		return
	}
	view, err := h.contentUsecase.UpdateIdea(c.Request.Context(), middleware.Viewer(c), c.Param("id"), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

// DeleteIdea DELETE /api/v1/content/deleteIdea/:id
func (h *ContentHandler) DeleteIdea(c *gin.Context) {
	if err := h.contentUsecase.DeleteIdea(c.Request.Context(), middleware.Viewer(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, true)
}

// CreateReaction POST /api/v1/content/createReaction/:id
func (h *ContentHandler) CreateReaction(c *gin.Context) {
	var input entities.ReactionInput
	if err := bindJSON(c, &input); err != nil {
		response.Error(c, err)
		return
	}
	reaction, err := h.contentUsecase.CreateReaction(c.Request.Context(), middleware.Viewer(c), c.Param("id"), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, reaction)
}

// DeleteReaction DELETE /api/v1/content/deleteReaction/:id
func (h *ContentHandler) DeleteReaction(c *gin.Context) {
	if err := h.contentUsecase.DeleteReaction(c.Request.Context(), middleware.Viewer(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, true)
}

// ReportContent POST /api/v1/content/reportContent/:id
func (h *ContentHandler) ReportContent(c *gin.Context) {
	var input entities.ReportInput
	if err := bindJSON(c, &input); err != nil {
		response.Error(c, err)
		return
	}
	report, err := h.contentUsecase.ReportContent(c.Request.Context(), middleware.Viewer(c), c.Param("id"), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, report)
}

// Content GET /api/v1/content/content/:id
func (h *ContentHandler) Content(c *gin.Context) {
	view, err := h.contentUsecase.GetContent(c.Request.Context(), middleware.Viewer(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

// ByAuthor GET /api/v1/content/byAuthor/:id?kind=POST|IDEA
func (h *ContentHandler) ByAuthor(c *gin.Context) {
	author, err := pathUUID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	p, err := pageParams(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	kind := entities.ContentKind(c.Query("kind"))

	views, err := h.contentUsecase.ByAuthor(c.Request.Context(), middleware.Viewer(c), author, kind, p.Limit, p.Offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, page(views, p))
}

// Replies GET /api/v1/content/replies/:id
func (h *ContentHandler) Replies(c *gin.Context) {
	p, err := pageParams(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	views, err := h.contentUsecase.Replies(c.Request.Context(), middleware.Viewer(c), c.Param("id"), p.Limit, p.Offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, page(views, p))
}

// Reactions GET /api/v1/content/reactions/:id
func (h *ContentHandler) Reactions(c *gin.Context) {
	p, err := pageParams(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	reactions, err := h.contentUsecase.Reactions(c.Request.Context(), c.Param("id"), p.Limit, p.Offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, page(reactions, p))
}
