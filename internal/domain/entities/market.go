package entities

import (
	"time"

	"github.com/google/uuid"
)

// Sector is a market sector served by the market service
type Sector struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Industry is a market industry served by the market service
type Industry struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	SectorID string `json:"sectorId"`
}

// Company is a listed company served by the market service
type Company struct {
	Symbol     string `json:"symbol"`
	Name       string `json:"name"`
	Exchange   string `json:"exchange"`
	SectorID   string `json:"sectorId"`
	IndustryID string `json:"industryId"`
}

// Watchlist is a named list of symbols owned by a profile
type Watchlist struct {
	ID        string    `json:"id"`
	OwnerID   uuid.UUID `json:"ownerId"`
	Name      string    `json:"name"`
	Symbols   []string  `json:"symbols"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// WatchlistInput holds editable watchlist fields
type WatchlistInput struct {
	Name    string   `json:"name" validate:"min=1,max=50"`
	Symbols []string `json:"symbols" validate:"max=50,dive,min=1,max=12"`
}

// Article is a blog entry served by the blog service
type Article struct {
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"publishedAt"`
}
