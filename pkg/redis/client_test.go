package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	srv := miniredis.RunT(t)
	cli := goredis.NewClient(&goredis.Options{Addr: srv.Addr()})
	SetClient(cli)
	t.Cleanup(func() { _ = cli.Close() })
	return srv
}

func TestInitInvalidURL(t *testing.T) {
	assert.Error(t, Init("://invalid-url", ""))
}

func TestInitPingsServer(t *testing.T) {
	srv := miniredis.RunT(t)
	require.NoError(t, Init("redis://"+srv.Addr(), ""))
	assert.NotNil(t, GetClient())
}

func TestBasicOps(t *testing.T) {
	srv := useMiniredis(t)
	ctx := context.Background()

	require.NoError(t, Set(ctx, "k", "v", time.Minute))
	v, err := Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)

	ok, err := SetNX(ctx, "k", "other", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	v, err = GetDel(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)
	assert.False(t, srv.Exists("k"))

	_, err = Get(ctx, "k")
	assert.ErrorIs(t, err, Nil)

	require.NoError(t, Set(ctx, "gone", "1", time.Minute))
	require.NoError(t, Del(ctx, "gone"))
}

func TestOpsWithUnreachableRedis(t *testing.T) {
	cli := goredis.NewClient(&goredis.Options{
		Addr:         "127.0.0.1:0",
		DialTimeout:  50 * time.Millisecond,
		ReadTimeout:  50 * time.Millisecond,
		WriteTimeout: 50 * time.Millisecond,
	})
	SetClient(cli)
	t.Cleanup(func() { _ = cli.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	assert.Error(t, Set(ctx, "k", "v", time.Second))
	_, err := Get(ctx, "k")
	assert.Error(t, err)
	assert.Error(t, Del(ctx, "k"))
	assert.Error(t, pingClient(ctx, cli))
}
