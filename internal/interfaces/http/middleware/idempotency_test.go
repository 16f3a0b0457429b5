package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"ideagraph.backend/pkg/redis"
)

func useMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	srv := miniredis.RunT(t)
	cli := goredis.NewClient(&goredis.Options{Addr: srv.Addr()})
	redis.SetClient(cli)
	t.Cleanup(func() { _ = cli.Close() })
	return srv
}

func newIdempotentRouter(calls *int, status int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/things", IdempotencyMiddleware(), func(c *gin.Context) {
		*calls++
		c.JSON(status, gin.H{"n": *calls})
	})
	return r
}

func post(r http.Handler, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/things", nil)
	if key != "" {
		req.Header.Set(IdempotencyHeader, key)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIdempotencyReplaysSuccess(t *testing.T) {
	useMiniredis(t)
	var calls int
	r := newIdempotentRouter(&calls, http.StatusCreated)

	first := post(r, "k1")
	second := post(r, "k1")
	assert.Equal(t, 1, calls)
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.Equal(t, "true", second.Header().Get("X-Idempotency-Hit"))

	post(r, "k2")
	post(r, "")
	assert.Equal(t, 3, calls)
}

func TestIdempotencyReleasesFailedRequests(t *testing.T) {
	srv := useMiniredis(t)
	var calls int
	r := newIdempotentRouter(&calls, http.StatusBadRequest)

	post(r, "k1")
	post(r, "k1")
	assert.Equal(t, 2, calls)
	assert.Empty(t, srv.Keys())
}

func TestIdempotencyConflictWhileProcessing(t *testing.T) {
	srv := useMiniredis(t)
	require.NoError(t, srv.Set("idempotency:00000000-0000-0000-0000-000000000000:/things:k1", idempotencyProcessing))

	var calls int
	w := post(newIdempotentRouter(&calls, http.StatusOK), "k1")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, codeIdempotencyConflict, errorCode(t, w))
	assert.Zero(t, calls)
}

func TestIdempotencyRedisDownPassesThrough(t *testing.T) {
	origGet := redisGet
	t.Cleanup(func() { redisGet = origGet })
	redisGet = func(context.Context, string) (string, error) { return "", errors.New("dial tcp: refused") }

	var calls int
	w := post(newIdempotentRouter(&calls, http.StatusOK), "k1")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, calls)
}

func TestIdempotencyLockLost(t *testing.T) {
	useMiniredis(t)
	origSetNX := redisSetNX
	t.Cleanup(func() { redisSetNX = origSetNX })
	redisSetNX = func(context.Context, string, interface{}, time.Duration) (bool, error) { return false, nil }

	var calls int
	w := post(newIdempotentRouter(&calls, http.StatusOK), "k1")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Zero(t, calls)
}

func TestIdempotencyLockErrorPassesThrough(t *testing.T) {
	srv := useMiniredis(t)
	origSetNX := redisSetNX
	t.Cleanup(func() { redisSetNX = origSetNX })
	redisSetNX = func(context.Context, string, interface{}, time.Duration) (bool, error) {
		return false, errors.New("READONLY You can't write against a read only replica")
	}

	var calls int
	w := post(newIdempotentRouter(&calls, http.StatusCreated), "k1")
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 1, calls)
	assert.Empty(t, srv.Keys())
}
