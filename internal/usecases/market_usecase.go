package usecases

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"ideagraph.backend/internal/domain/entities"
	domainerrors "ideagraph.backend/internal/domain/errors"
	"ideagraph.backend/internal/domain/repositories"
)

// MarketData is the market microservice
type MarketData interface {
	Sectors(ctx context.Context, bearer string) ([]*entities.Sector, error)
	Industries(ctx context.Context, bearer, sectorID string) ([]*entities.Industry, error)
	Company(ctx context.Context, bearer, symbol string) (*entities.Company, error)
}

// BlogData is the blog microservice
type BlogData interface {
	Articles(ctx context.Context, bearer string, limit, offset int) ([]*entities.Article, error)
	Article(ctx context.Context, bearer, slug string) (*entities.Article, error)
}

// MarketUsecase proxies reference data and manages watchlists
type MarketUsecase struct {
	market        MarketData
	blog          BlogData
	watchlistRepo repositories.WatchlistRepository
}

// NewMarketUsecase creates a new market usecase
func NewMarketUsecase(market MarketData, blog BlogData, watchlistRepo repositories.WatchlistRepository) *MarketUsecase {
	return &MarketUsecase{
		market:        market,
		blog:          blog,
		watchlistRepo: watchlistRepo,
	}
}

func (u *MarketUsecase) Sectors(ctx context.Context, bearer string) ([]*entities.Sector, error) {
	return u.market.Sectors(ctx, bearer)
}

func (u *MarketUsecase) Industries(ctx context.Context, bearer, sectorID string) ([]*entities.Industry, error) {
	return u.market.Industries(ctx, bearer, strings.TrimSpace(sectorID))
}

func (u *MarketUsecase) Company(ctx context.Context, bearer, symbol string) (*entities.Company, error) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" || len(symbol) > 12 {
		return nil, domainerrors.Validation("symbol")
	}
	return u.market.Company(ctx, bearer, symbol)
}

func (u *MarketUsecase) Articles(ctx context.Context, bearer string, limit, offset int) ([]*entities.Article, error) {
	return u.blog.Articles(ctx, bearer, limit, offset)
}

func (u *MarketUsecase) Article(ctx context.Context, bearer, slug string) (*entities.Article, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, domainerrors.Validation("slug")
	}
	return u.blog.Article(ctx, bearer, slug)
}

func normalizeWatchlistInput(input *entities.WatchlistInput) error {
	input.Name = strings.TrimSpace(input.Name)
	input.Symbols = normalizeSymbols(input.Symbols)
	return validateStruct(input)
}

// CreateWatchlist creates a watchlist owned by owner
func (u *MarketUsecase) CreateWatchlist(ctx context.Context, owner uuid.UUID, input *entities.WatchlistInput) (*entities.Watchlist, error) {
	if err := normalizeWatchlistInput(input); err != nil {
		return nil, err
	}
	w := &entities.Watchlist{OwnerID: owner, Name: input.Name, Symbols: input.Symbols}
	if err := u.watchlistRepo.Create(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (u *MarketUsecase) Watchlists(ctx context.Context, owner uuid.UUID) ([]*entities.Watchlist, error) {
	return u.watchlistRepo.ListByOwner(ctx, owner)
}

func (u *MarketUsecase) Watchlist(ctx context.Context, owner uuid.UUID, id string) (*entities.Watchlist, error) {
	return u.watchlistRepo.GetByID(ctx, owner, id)
}

// UpdateWatchlist replaces the name and symbols of a watchlist owned by owner
func (u *MarketUsecase) UpdateWatchlist(ctx context.Context, owner uuid.UUID, id string, input *entities.WatchlistInput) (*entities.Watchlist, error) {
	if err := normalizeWatchlistInput(input); err != nil {
		return nil, err
	}
	w := &entities.Watchlist{ID: id, OwnerID: owner, Name: input.Name, Symbols: input.Symbols}
	if err := u.watchlistRepo.Update(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (u *MarketUsecase) DeleteWatchlist(ctx context.Context, owner uuid.UUID, id string) error {
	return u.watchlistRepo.Delete(ctx, owner, id)
}
