package redisclient

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitRedis_ConnectsToMiniredis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	InitRedis(mr.Addr())
	rdb := GetClient()
	require.NotNil(t, rdb)
	defer func() { _ = rdb.Close() }()

	assert.NoError(t, rdb.Ping(context.Background()).Err())
}

func TestInitRedis_URLForm(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	InitRedis("redis://" + mr.Addr() + "/0")
	require.NotNil(t, GetClient())
	_ = GetClient().Close()
}

func TestInitRedis_UnreachableLeavesNilClient(t *testing.T) {
	InitRedis("127.0.0.1:1")
	assert.Nil(t, GetClient())

	InitRedis("")
	assert.Nil(t, GetClient())
}

func TestRevokeToken(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	InitRedis(mr.Addr())
	rdb := GetClient()
	require.NotNil(t, rdb)
	defer func() { _ = rdb.Close() }()
	ctx := context.Background()

	assert.False(t, IsTokenRevoked(ctx, rdb, "abc"))
	require.NoError(t, RevokeToken(ctx, rdb, "abc", time.Hour))
	assert.True(t, IsTokenRevoked(ctx, rdb, "abc"))
	assert.True(t, mr.Exists("blacklist:abc"))

	mr.FastForward(2 * time.Hour)
	assert.False(t, IsTokenRevoked(ctx, rdb, "abc"))

	assert.NoError(t, RevokeToken(ctx, nil, "abc", time.Hour))
	assert.False(t, IsTokenRevoked(ctx, nil, "abc"))
}
