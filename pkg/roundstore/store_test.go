package roundstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/play/doudizhu/pkg/doudizhu"
)

func setupTestStore(t *testing.T, opts ...Option) (*Store, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return New(client, opts...), mr
}

func newRound(t *testing.T, id string) *doudizhu.Round {
	r, err := doudizhu.NewRound("seed-"+id, doudizhu.WithId(id))
	require.NoError(t, err)
	return r
}

func TestStore_SaveLoad(t *testing.T) {
	store, mr := setupTestStore(t, WithTtl(time.Hour))
	ctx := context.Background()

	r := newRound(t, "r1")
	require.True(t, r.Bid(0, 3).Ok)

	version, err := store.Save(ctx, r, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)
	assert.Equal(t, time.Hour, mr.TTL("doudizhu:round:r1"))

	snap, err := store.Load(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), snap.Version)
	assert.False(t, snap.SavedAt.IsZero())

	got := snap.Round
	assert.Equal(t, r.Id, got.Id)
	assert.Equal(t, r.Phase, got.Phase)
	assert.Equal(t, r.LandlordSeat, got.LandlordSeat)
	assert.Equal(t, r.CallScore, got.CallScore)
	assert.Equal(t, r.HandSizes(), got.HandSizes())
	assert.Equal(t, r.Hand(0).Ids(), got.Hand(0).Ids())
	assert.Equal(t, r.Doubling.Order, got.Doubling.Order)
	assert.Equal(t, r.Bidding.History, got.Bidding.History)

	// 读出来的局可以继续打
	assert.True(t, got.Double(got.CurrentSeat(), true).Ok)
}

func TestStore_VersionConflict(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()
	r := newRound(t, "r2")

	_, err := store.Save(ctx, r, 0)
	require.NoError(t, err)

	// 两个写者都基于版本 1
	v, err := store.Save(ctx, r, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), v)

	_, err = store.Save(ctx, r, 1)
	assert.ErrorIs(t, err, ErrVersionConflict)

	// 新局不能覆盖已有的局
	_, err = store.Save(ctx, r, 0)
	assert.ErrorIs(t, err, ErrVersionConflict)

	_, err = store.Save(ctx, &doudizhu.Round{}, 0)
	assert.Error(t, err)
}

func TestStore_Peek(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	r := newRound(t, "r3")
	require.True(t, r.Bid(0, 0).Ok)
	require.True(t, r.Bid(1, 0).Ok)
	require.True(t, r.Bid(2, 0).Ok)
	_, err := store.Save(ctx, r, 0)
	require.NoError(t, err)

	sum, err := store.Peek(ctx, "r3")
	require.NoError(t, err)
	assert.Equal(t, "r3", sum.Id)
	assert.Equal(t, doudizhu.PhaseComplete, sum.Phase)
	assert.True(t, sum.Complete)
	assert.True(t, sum.Redeal)
	assert.Equal(t, int64(1), sum.Version)

	_, err = store.Peek(ctx, "missing")
	assert.ErrorIs(t, err, ErrRoundNotFound)
}

func TestStore_CachedAndDelete(t *testing.T) {
	store, mr := setupTestStore(t, WithCache(16, time.Minute))
	ctx := context.Background()

	r := newRound(t, "r4")
	_, err := store.Save(ctx, r, 0)
	require.NoError(t, err)

	// Redis 中的数据没了，缓存还在
	mr.Del("doudizhu:round:r4")
	snap, err := store.Cached(ctx, "r4")
	require.NoError(t, err)
	assert.Equal(t, "r4", snap.Round.Id)

	_, err = store.Load(ctx, "r4")
	assert.ErrorIs(t, err, ErrRoundNotFound)

	require.NoError(t, store.Delete(ctx, "r4"))
	_, err = store.Cached(ctx, "r4")
	assert.ErrorIs(t, err, ErrRoundNotFound)
}
