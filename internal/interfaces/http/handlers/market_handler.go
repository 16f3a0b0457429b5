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

type marketService interface {
	Sectors(ctx context.Context, bearer string) ([]*entities.Sector, error)
	Industries(ctx context.Context, bearer, sectorID string) ([]*entities.Industry, error)
	Company(ctx context.Context, bearer, symbol string) (*entities.Company, error)
	Articles(ctx context.Context, bearer string, limit, offset int) ([]*entities.Article, error)
	Article(ctx context.Context, bearer, slug string) (*entities.Article, error)
	CreateWatchlist(ctx context.Context, owner uuid.UUID, input *entities.WatchlistInput) (*entities.Watchlist, error)
	Watchlists(ctx context.Context, owner uuid.UUID) ([]*entities.Watchlist, error)
	Watchlist(ctx context.Context, owner uuid.UUID, id string) (*entities.Watchlist, error)
	UpdateWatchlist(ctx context.Context, owner uuid.UUID, id string, input *entities.WatchlistInput) (*entities.Watchlist, error)
	DeleteWatchlist(ctx context.Context, owner uuid.UUID, id string) error
}

// MarketHandler proxies market and blog data and serves watchlists.
// Proxied calls forward the caller's bearer token unchanged.
type MarketHandler struct {
	marketUsecase marketService
}

// NewMarketHandler creates a new market handler
func NewMarketHandler(marketUsecase marketService) *MarketHandler {
	return &MarketHandler{marketUsecase: marketUsecase}
}

// Sectors GET /api/v1/market/sectors
func (h *MarketHandler) Sectors(c *gin.Context) {
	sectors, err := h.marketUsecase.Sectors(c.Request.Context(), middleware.GetBearer(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, sectors)
}

// Industries GET /api/v1/market/industries?sector=
func (h *MarketHandler) Industries(c *gin.Context) {
	industries, err := h.marketUsecase.Industries(c.Request.Context(), middleware.GetBearer(c), c.Query("sector"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, industries)
}

// Company GET /api/v1/market/companies/:symbol
func (h *MarketHandler) Company(c *gin.Context) {
	company, err := h.marketUsecase.Company(c.Request.Context(), middleware.GetBearer(c), c.Param("symbol"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, company)
}

// Articles GET /api/v1/market/articles
func (h *MarketHandler) Articles(c *gin.Context) {
	p, err := pageParams(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	articles, err := h.marketUsecase.Articles(c.Request.Context(), middleware.GetBearer(c), p.Limit, p.Offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, page(articles, p))
}

// Article GET /api/v1/market/articles/:slug
func (h *MarketHandler) Article(c *gin.Context) {
	article, err := h.marketUsecase.Article(c.Request.Context(), middleware.GetBearer(c), c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, article)
}

// CreateWatchlist POST /api/v1/market/watchlists
func (h *MarketHandler) CreateWatchlist(c *gin.Context) {
	var input entities.WatchlistInput
	if err := bindJSON(c, &input); err != nil {
		response.Error(c, err)
		return
	}
	watchlist, err := h.marketUsecase.CreateWatchlist(c.Request.Context(), middleware.Viewer(c), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, watchlist)
}

// ListWatchlists GET /api/v1/market/watchlists
func (h *MarketHandler) ListWatchlists(c *gin.Context) {
	watchlists, err := h.marketUsecase.Watchlists(c.Request.Context(), middleware.Viewer(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, watchlists)
}

// GetWatchlist GET /api/v1/market/watchlists/:id
func (h *MarketHandler) GetWatchlist(c *gin.Context) {
	watchlist, err := h.marketUsecase.Watchlist(c.Request.Context(), middleware.Viewer(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, watchlist)
}

// UpdateWatchlist PUT /api/v1/market/watchlists/:id
func (h *MarketHandler) UpdateWatchlist(c *gin.Context) {
	var input entities.WatchlistInput
	if err := bindJSON(c, &input); err != nil {
		response.Error(c, err)
		return
	}
	watchlist, err := h.marketUsecase.UpdateWatchlist(c.Request.Context(), middleware.Viewer(c), c.Param("id"), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, watchlist)
}

// DeleteWatchlist DELETE /api/v1/market/watchlists/:id
func (h *MarketHandler) DeleteWatchlist(c *gin.Context) {
	if err := h.marketUsecase.DeleteWatchlist(c.Request.Context(), middleware.Viewer(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, true)
}
