package override_test

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/joyner-app/backend-pricing/internal/override"
)

type fakeStorage struct {
	table override.Table
	err   error
	calls int
}

func (f *fakeStorage) Load(ctx context.Context) (override.Table, error) {
	f.calls++
	return f.table, f.err
}

func newTestCache(t *testing.T) *override.Cache {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return override.NewCache(client, time.Minute)
}

func TestResolveCachesStoreResult(t *testing.T) {
	storage := &fakeStorage{table: override.Table{
		ListingProviderPercent: map[string]float64{"listing-a": 7},
	}}
	svc := &override.Service{
		Store:  storage,
		Cache:  newTestCache(t),
		Logger: zerolog.Nop(),
	}

	ctx := context.Background()
	first := svc.Resolve(ctx)
	require.Equal(t, 7.0, first.ProviderPercentage(15, "listing-a", ""))
	require.Equal(t, 1, storage.calls)

	second := svc.Resolve(ctx)
	require.Equal(t, 7.0, second.ProviderPercentage(15, "listing-a", ""))
	require.Equal(t, 1, storage.calls, "second resolve should hit the cache")
}

func TestResolveFallsBackWhenStoreFails(t *testing.T) {
	storage := &fakeStorage{err: errors.New("connection refused")}
	svc := &override.Service{
		Store: storage,
		Cache: newTestCache(t),
		Fallback: override.Table{
			VoucherZeroProvider: map[string]bool{"WELCOME": true},
		},
		Logger: zerolog.Nop(),
	}

	table := svc.Resolve(context.Background())
	require.Equal(t, 0.0, table.ProviderPercentage(15, "", "WELCOME"))
	require.Equal(t, 15.0, table.ProviderPercentage(15, "", "OTHER"))
}

func TestResolveDefaultsWithoutFallback(t *testing.T) {
	storage := &fakeStorage{err: errors.New("connection refused")}
	svc := &override.Service{
		Store:  storage,
		Cache:  newTestCache(t),
		Logger: zerolog.Nop(),
	}

	table := svc.Resolve(context.Background())
	require.Equal(t, 0.0, table.ProviderPercentage(15, "", "NEWJOYNER"))
}

func TestSyncRefreshesCache(t *testing.T) {
	storage := &fakeStorage{table: override.Table{
		ListingProviderPercent: map[string]float64{"listing-a": 5},
	}}
	svc := &override.Service{
		Store:  storage,
		Cache:  newTestCache(t),
		Logger: zerolog.Nop(),
	}

	ctx := context.Background()
	require.NoError(t, svc.Sync(ctx))

	table := svc.Resolve(ctx)
	require.Equal(t, 5.0, table.ProviderPercentage(15, "listing-a", ""))
	require.Equal(t, 1, storage.calls, "resolve should use the synced cache")
}

func TestSyncPropagatesStoreError(t *testing.T) {
	storage := &fakeStorage{err: errors.New("connection refused")}
	svc := &override.Service{
		Store:  storage,
		Cache:  newTestCache(t),
		Logger: zerolog.Nop(),
	}
	require.Error(t, svc.Sync(context.Background()))
}

func TestInvalidateDropsCache(t *testing.T) {
	storage := &fakeStorage{table: override.Table{
		ListingProviderPercent: map[string]float64{"listing-a": 5},
	}}
	svc := &override.Service{
		Store:  storage,
		Cache:  newTestCache(t),
		Logger: zerolog.Nop(),
	}

	ctx := context.Background()
	svc.Resolve(ctx)
	require.NoError(t, svc.Invalidate(ctx))
	svc.Resolve(ctx)
	require.Equal(t, 2, storage.calls)
}
