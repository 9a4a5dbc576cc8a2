package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRevocationList(t *testing.T) (*RevocationList, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRevocationList(client), mr
}

func TestRevocationList_RevokeAndCheck(t *testing.T) {
	list, mr := setupRevocationList(t)
	ctx := context.Background()

	revoked, err := list.IsRevoked(ctx, "tok-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, list.Revoke(ctx, "tok-1", time.Hour))

	revoked, err = list.IsRevoked(ctx, "tok-1")
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.True(t, mr.Exists("revoked:tok-1"))
	assert.Equal(t, time.Hour, mr.TTL("revoked:tok-1"))
}

func TestRevocationList_EntryExpires(t *testing.T) {
	list, mr := setupRevocationList(t)
	ctx := context.Background()

	require.NoError(t, list.Revoke(ctx, "tok-2", time.Minute))
	mr.FastForward(2 * time.Minute)

	revoked, err := list.IsRevoked(ctx, "tok-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRevocationList_ExpiredTokenIsNoop(t *testing.T) {
	list, mr := setupRevocationList(t)

	require.NoError(t, list.Revoke(context.Background(), "tok-3", -time.Second))
	assert.False(t, mr.Exists("revoked:tok-3"))
}

func TestRevocationList_ConnectionError(t *testing.T) {
	list, mr := setupRevocationList(t)
	mr.Close()

	_, err := list.IsRevoked(context.Background(), "tok-4")
	require.Error(t, err)
}

func TestConnect_PingsServer(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := Connect(context.Background(), Config{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	_, err = Connect(context.Background(), Config{Addr: "127.0.0.1:1", Timeout: 200 * time.Millisecond})
	require.Error(t, err)
}
