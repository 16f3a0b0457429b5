package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	domainerrors "ideagraph.backend/internal/domain/errors"
	"ideagraph.backend/pkg/logger"
	"ideagraph.backend/pkg/redis"
)

const maxResponseBytes = 4 << 20

// Cache holds successful GET bodies between requests
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}

// RedisCache stores GET bodies through the shared redis client
type RedisCache struct{}

func (RedisCache) Get(ctx context.Context, key string) (string, error) {
	return redis.Get(ctx, key)
}

func (RedisCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return redis.Set(ctx, key, value, ttl)
}

// Client is a JSON REST client for an internal microservice. The caller's
// bearer token is forwarded on every request.
type Client struct {
	name       string
	baseURL    string
	httpClient *http.Client
	cache      Cache
	cacheTTL   time.Duration
}

// NewClient creates a client. A nil cache or zero TTL disables GET caching.
func NewClient(name, baseURL string, timeout time.Duration, cache Cache, cacheTTL time.Duration) *Client {
	return &Client{
		name:       name,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		cache:      cache,
		cacheTTL:   cacheTTL,
	}
}

// Get fetches path into out, serving from cache when possible
func (c *Client) Get(ctx context.Context, path, bearer string, out any) error {
	key := c.name + ":" + path
	if c.cache != nil && c.cacheTTL > 0 {
		if cached, err := c.cache.Get(ctx, key); err == nil {
			return decode([]byte(cached), out)
		}
	}

	body, err := c.do(ctx, http.MethodGet, path, bearer, nil)
	if err != nil {
		return err
	}
	if c.cache != nil && c.cacheTTL > 0 {
		if err := c.cache.Set(ctx, key, string(body), c.cacheTTL); err != nil {
			logger.Warn(ctx, "Failed to cache upstream response", zap.String("service", c.name), zap.Error(err))
		}
	}
	return decode(body, out)
}

// Post sends in as JSON and decodes the response into out
func (c *Client) Post(ctx context.Context, path, bearer string, in, out any) error {
	return c.send(ctx, http.MethodPost, path, bearer, in, out)
}

// Put sends in as JSON and decodes the response into out
func (c *Client) Put(ctx context.Context, path, bearer string, in, out any) error {
	return c.send(ctx, http.MethodPut, path, bearer, in, out)
}

// Delete removes the resource at path
func (c *Client) Delete(ctx context.Context, path, bearer string) error {
	_, err := c.do(ctx, http.MethodDelete, path, bearer, nil)
	return err
}

func (c *Client) send(ctx context.Context, method, path, bearer string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return err
	}
	body, err := c.do(ctx, method, path, bearer, payload)
	if err != nil {
		return err
	}
	return decode(body, out)
}

func (c *Client) do(ctx context.Context, method, path, bearer string, payload []byte) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", c.name, path, errors.Join(domainerrors.ErrUpstream, err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", c.name, path, errors.Join(domainerrors.ErrUpstream, err))
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, domainerrors.ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("%s %s: HTTP %d: %w", c.name, path, resp.StatusCode, domainerrors.ErrUpstream)
	}
	return body, nil
}

func decode(body []byte, out any) error {
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode upstream response: %w", errors.Join(domainerrors.ErrUpstream, err))
	}
	return nil
}
