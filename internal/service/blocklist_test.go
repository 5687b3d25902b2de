package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"ipguard/config"
	"ipguard/internal/cache"
	cErr "ipguard/internal/pkg/error"
	"ipguard/internal/telemetry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newBlocklistFixture(t *testing.T) (*BlocklistService, *fakeBlockedIPStore, *cache.MemoryCache, *fakeAuditSink) {
	t.Helper()
	trace, err := telemetry.NewTrace(nil)
	require.NoError(t, err)
	store := newFakeBlockedIPStore()
	cacheStore := cache.NewMemoryCache()
	audit := &fakeAuditSink{}
	svc := NewBlocklistService(trace, store, cacheStore, audit, zap.NewNop(), &config.Configuration{})
	return svc, store, cacheStore, audit
}

func TestBlocklist_IsBlockedColdCache(t *testing.T) {
	ctx := context.Background()
	svc, store, cacheStore, _ := newBlocklistFixture(t)

	_, _, err := store.GetOrCreate(ctx, "203.0.113.7", "abuse")
	require.NoError(t, err)

	blocked, err := svc.IsBlocked(ctx, "203.0.113.7")
	require.NoError(t, err)
	assert.True(t, blocked)

	// 查詢結果要回填快取
	cached, err := cacheStore.Get(ctx, svc.buildKey("203.0.113.7"))
	require.NoError(t, err)
	assert.Equal(t, blockedCacheHit, cached)
}

func TestBlocklist_IsBlockedCachesNegativeResult(t *testing.T) {
	ctx := context.Background()
	svc, store, cacheStore, _ := newBlocklistFixture(t)

	blocked, err := svc.IsBlocked(ctx, "203.0.113.8")
	require.NoError(t, err)
	assert.False(t, blocked)

	cached, err := cacheStore.Get(ctx, svc.buildKey("203.0.113.8"))
	require.NoError(t, err)
	assert.Equal(t, blockedCacheMiss, cached)

	// 快取存在期間不會再打資料庫：把資料庫弄壞也要能回答
	store.err = errors.New("mongo down")
	blocked, err = svc.IsBlocked(ctx, "203.0.113.8")
	require.NoError(t, err)
	assert.False(t, blocked)
}

func TestBlocklist_IsBlockedDatabaseError(t *testing.T) {
	ctx := context.Background()
	svc, store, _, _ := newBlocklistFixture(t)
	store.err = errors.New("mongo down")

	_, err := svc.IsBlocked(ctx, "203.0.113.9")
	require.Error(t, err)

	var appErr *cErr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusInternalServerError, appErr.HttpCode())
}

func TestBlocklist_BlockCreatesAndPrimesCache(t *testing.T) {
	ctx := context.Background()
	svc, _, cacheStore, audit := newBlocklistFixture(t)

	entry, created, err := svc.Block(ctx, "203.0.113.10", "scanner")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "203.0.113.10", entry.IPAddress)
	assert.Equal(t, "scanner", entry.Reason)

	cached, err := cacheStore.Get(ctx, svc.buildKey("203.0.113.10"))
	require.NoError(t, err)
	assert.Equal(t, blockedCacheHit, cached)

	require.Len(t, audit.events, 1)
	assert.Equal(t, "ip_blocked", audit.events[0].Event)
}

func TestBlocklist_BlockExistingUpdatesReason(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newBlocklistFixture(t)

	_, created, err := svc.Block(ctx, "203.0.113.11", "scanner")
	require.NoError(t, err)
	require.True(t, created)

	entry, created, err := svc.Block(ctx, "203.0.113.11", "credential stuffing")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "credential stuffing", entry.Reason)
}

func TestBlocklist_UnblockInvalidatesCache(t *testing.T) {
	ctx := context.Background()
	svc, store, cacheStore, audit := newBlocklistFixture(t)

	_, _, err := svc.Block(ctx, "203.0.113.12", "")
	require.NoError(t, err)

	require.NoError(t, svc.Unblock(ctx, "203.0.113.12"))

	_, err = cacheStore.Get(ctx, svc.buildKey("203.0.113.12"))
	assert.ErrorIs(t, err, cache.ErrCacheMiss)
	assert.Empty(t, store.entries)

	require.Len(t, audit.events, 2)
	assert.Equal(t, "ip_unblocked", audit.events[1].Event)
}

func TestBlocklist_UnblockUnknownIP(t *testing.T) {
	svc, _, _, _ := newBlocklistFixture(t)

	err := svc.Unblock(context.Background(), "203.0.113.13")
	require.Error(t, err)

	var appErr *cErr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusNotFound, appErr.HttpCode())
}
