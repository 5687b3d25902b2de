package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ipguard/config"
	"ipguard/internal/cache"
	"ipguard/internal/telemetry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T, providers []Provider) (*Service, *cache.MemoryCache) {
	t.Helper()
	trace, err := telemetry.NewTrace(nil)
	require.NoError(t, err)
	store := cache.NewMemoryCache()
	svc := NewService(trace, telemetry.NewMetric(nil), zap.NewNop(), store, providers, &config.Configuration{})
	return svc, store
}

func newTestProviders(t *testing.T, ipAPIBody, ipAPICoBody, geoPluginBody string) []Provider {
	t.Helper()
	conf := &config.Configuration{}
	client := NewHTTPClient()

	serve := func(body string) *httptest.Server {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if body == "" {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(body))
		}))
		t.Cleanup(srv.Close)
		return srv
	}

	ipAPI := NewIPAPIProvider(client, conf)
	ipAPI.baseURL = serve(ipAPIBody).URL
	ipAPICo := NewIPAPICoProvider(client, conf)
	ipAPICo.baseURL = serve(ipAPICoBody).URL
	geoPlugin := NewGeoPluginProvider(client, conf)
	geoPlugin.baseURL = serve(geoPluginBody).URL

	return NewProviders(ipAPI, ipAPICo, geoPlugin)
}

func TestLocate_PrivateIPSkipsLookup(t *testing.T) {
	// Provider 清單為 nil：若走到輪詢就會 panic，證明私有位址完全不查
	svc, store := newTestService(t, nil)

	assert.True(t, svc.Locate(context.Background(), "192.168.1.10").Empty())
	assert.True(t, svc.Locate(context.Background(), "").Empty())

	_, err := store.Get(context.Background(), svc.buildKey("192.168.1.10"))
	assert.ErrorIs(t, err, cache.ErrCacheMiss)
}

func TestLocate_FirstProviderWins(t *testing.T) {
	providers := newTestProviders(t,
		`{"status":"success","country":"France","city":"Paris"}`,
		`{"country_name":"Germany","city":"Berlin"}`,
		`{"geoplugin_countryName":"Spain","geoplugin_city":"Madrid"}`,
	)
	svc, store := newTestService(t, providers)

	loc := svc.Locate(context.Background(), "203.0.113.7")
	require.NotNil(t, loc.Country)
	require.NotNil(t, loc.City)
	assert.Equal(t, "France", *loc.Country)
	assert.Equal(t, "Paris", *loc.City)

	cached, err := store.Get(context.Background(), svc.buildKey("203.0.113.7"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"country":"France","city":"Paris"}`, cached)
}

func TestLocate_FallsBackOnProviderFailure(t *testing.T) {
	providers := newTestProviders(t,
		`{"status":"fail","message":"private range"}`,
		`{"country_name":"Germany","city":""}`,
		`{"geoplugin_countryName":"Spain","geoplugin_city":"Madrid"}`,
	)
	svc, _ := newTestService(t, providers)

	loc := svc.Locate(context.Background(), "203.0.113.8")
	require.NotNil(t, loc.Country)
	assert.Equal(t, "Germany", *loc.Country)
	// 取得 country 即停止，不會用第三個來源的 city 補齊
	assert.Nil(t, loc.City)
}

func TestLocate_HTTPErrorFallsThrough(t *testing.T) {
	providers := newTestProviders(t,
		"",
		`{"error":true,"reason":"RateLimited"}`,
		`{"geoplugin_countryName":"Spain","geoplugin_city":"Madrid"}`,
	)
	svc, _ := newTestService(t, providers)

	loc := svc.Locate(context.Background(), "203.0.113.9")
	require.NotNil(t, loc.Country)
	require.NotNil(t, loc.City)
	assert.Equal(t, "Spain", *loc.Country)
	assert.Equal(t, "Madrid", *loc.City)
}

func TestLocate_AllFailCachesEmptyResult(t *testing.T) {
	providers := newTestProviders(t,
		`{"status":"fail","message":"reserved range"}`,
		`{"error":true,"reason":"RateLimited"}`,
		"",
	)
	svc, store := newTestService(t, providers)

	loc := svc.Locate(context.Background(), "203.0.113.10")
	assert.True(t, loc.Empty())

	// 空結果也要進快取，避免每個 request 都重打外部 API
	cached, err := store.Get(context.Background(), svc.buildKey("203.0.113.10"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"country":null,"city":null}`, cached)
}

func TestLocate_NoneLiteralTreatedAsMissing(t *testing.T) {
	providers := newTestProviders(t,
		`{"status":"success","country":"France","city":"None"}`,
		`{"country_name":"","city":""}`,
		"",
	)
	svc, _ := newTestService(t, providers)

	loc := svc.Locate(context.Background(), "203.0.113.11")
	require.NotNil(t, loc.Country)
	assert.Equal(t, "France", *loc.Country)
	assert.Nil(t, loc.City)
}

func TestLocate_CityOnlyResultDropsCity(t *testing.T) {
	providers := newTestProviders(t,
		`{"status":"success","country":"","city":"Paris"}`,
		`{"error":true,"reason":"RateLimited"}`,
		"",
	)
	svc, _ := newTestService(t, providers)

	// 沒有 country 就不回傳 city
	loc := svc.Locate(context.Background(), "203.0.113.12")
	assert.True(t, loc.Empty())
}

func TestLocate_CacheHitSkipsProviders(t *testing.T) {
	svc, store := newTestService(t, nil)

	require.NoError(t, store.Set(context.Background(), svc.buildKey("203.0.113.13"),
		`{"country":"Japan","city":"Tokyo"}`, time.Minute))

	loc := svc.Locate(context.Background(), "203.0.113.13")
	require.NotNil(t, loc.Country)
	require.NotNil(t, loc.City)
	assert.Equal(t, "Japan", *loc.Country)
	assert.Equal(t, "Tokyo", *loc.City)
}

func TestLocate_CorruptCacheEntryRefetched(t *testing.T) {
	providers := newTestProviders(t,
		`{"status":"success","country":"France","city":"Paris"}`,
		"", "",
	)
	svc, store := newTestService(t, providers)

	require.NoError(t, store.Set(context.Background(), svc.buildKey("203.0.113.14"),
		"not-json", time.Minute))

	loc := svc.Locate(context.Background(), "203.0.113.14")
	require.NotNil(t, loc.Country)
	assert.Equal(t, "France", *loc.Country)

	cached, err := store.Get(context.Background(), svc.buildKey("203.0.113.14"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"country":"France","city":"Paris"}`, cached)
}
