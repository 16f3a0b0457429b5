package upstream

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"ideagraph.backend/internal/domain/entities"
)

// MarketService reads reference data from the market microservice
type MarketService struct {
	client *Client
}

func NewMarketService(client *Client) *MarketService {
	return &MarketService{client: client}
}

func (s *MarketService) Sectors(ctx context.Context, bearer string) ([]*entities.Sector, error) {
	var out []*entities.Sector
	if err := s.client.Get(ctx, "/sectors", bearer, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Industries lists industries, optionally narrowed to one sector
func (s *MarketService) Industries(ctx context.Context, bearer, sectorID string) ([]*entities.Industry, error) {
	path := "/industries"
	if sectorID != "" {
		path += "?sector=" + url.QueryEscape(sectorID)
	}
	var out []*entities.Industry
	if err := s.client.Get(ctx, path, bearer, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MarketService) Company(ctx context.Context, bearer, symbol string) (*entities.Company, error) {
	var out entities.Company
	if err := s.client.Get(ctx, "/companies/"+url.PathEscape(strings.ToUpper(symbol)), bearer, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// BlogService reads articles from the blog microservice
type BlogService struct {
	client *Client
}

func NewBlogService(client *Client) *BlogService {
	return &BlogService{client: client}
}

func (s *BlogService) Articles(ctx context.Context, bearer string, limit, offset int) ([]*entities.Article, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	var out []*entities.Article
	if err := s.client.Get(ctx, "/articles?"+q.Encode(), bearer, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *BlogService) Article(ctx context.Context, bearer, slug string) (*entities.Article, error) {
	var out entities.Article
	if err := s.client.Get(ctx, "/articles/"+url.PathEscape(slug), bearer, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
