package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ipguard/config"
	"ipguard/internal/cache"
	"ipguard/internal/core"
	fluentdModel "ipguard/internal/database/fluentd/model"
	"ipguard/internal/database/mongodb/model"
	"ipguard/internal/database/mongodb/repository"
	"ipguard/internal/service"
	"ipguard/internal/service/geo"
	"ipguard/internal/telemetry"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type stubBlockedIPStore struct {
	blocked map[string]bool
}

func (s *stubBlockedIPStore) GetByIP(ctx context.Context, ip string) (*model.BlockedIP, error) {
	if !s.blocked[ip] {
		return nil, repository.ErrNotFound
	}
	return &model.BlockedIP{ID: primitive.NewObjectID(), IPAddress: ip}, nil
}

func (s *stubBlockedIPStore) GetOrCreate(ctx context.Context, ip, reason string) (*model.BlockedIP, bool, error) {
	created := !s.blocked[ip]
	s.blocked[ip] = true
	return &model.BlockedIP{ID: primitive.NewObjectID(), IPAddress: ip, Reason: reason}, created, nil
}

func (s *stubBlockedIPStore) UpdateReason(ctx context.Context, ip, reason string) (int64, error) {
	return 1, nil
}

func (s *stubBlockedIPStore) DeleteByIP(ctx context.Context, ip string) (int64, error) {
	if !s.blocked[ip] {
		return 0, nil
	}
	delete(s.blocked, ip)
	return 1, nil
}

func (s *stubBlockedIPStore) List(ctx context.Context, opts core.ListOptions) ([]*model.BlockedIP, error) {
	return nil, nil
}

type stubRequestLogStore struct {
	created []*model.RequestLog
}

func (s *stubRequestLogStore) Create(ctx context.Context, entry *model.RequestLog) (*model.RequestLog, error) {
	s.created = append(s.created, entry)
	return entry, nil
}

func (s *stubRequestLogStore) CountByIPSince(ctx context.Context, since time.Time) ([]model.IPRequestCount, error) {
	return nil, nil
}

func (s *stubRequestLogStore) FindByPathsSince(ctx context.Context, since time.Time, paths []string) ([]*model.RequestLog, error) {
	return nil, nil
}

func (s *stubRequestLogStore) List(ctx context.Context, opts core.ListOptions) ([]*model.RequestLog, error) {
	return s.created, nil
}

type stubAuditSink struct {
	events []fluentdModel.AuditLog
}

func (s *stubAuditSink) LogEvent(ctx context.Context, event fluentdModel.AuditLog) error {
	s.events = append(s.events, event)
	return nil
}

type trackingFixture struct {
	router     *gin.Engine
	blockStore *stubBlockedIPStore
	logStore   *stubRequestLogStore
	audit      *stubAuditSink
}

func newTrackingFixture(t *testing.T) *trackingFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	trace, err := telemetry.NewTrace(nil)
	require.NoError(t, err)
	metric := telemetry.NewMetric(nil)
	logger := zap.NewNop()
	conf := &config.Configuration{}

	blockStore := &stubBlockedIPStore{blocked: make(map[string]bool)}
	logStore := &stubRequestLogStore{}
	audit := &stubAuditSink{}

	blocklist := service.NewBlocklistService(trace, blockStore, cache.NewMemoryCache(), audit, logger, conf)
	geoService := geo.NewService(trace, metric, logger, cache.NewMemoryCache(), nil, conf)
	requestLog := service.NewRequestLogService(trace, metric, logStore, audit, logger)
	tracking := NewTracking(trace, metric, logger, conf, blocklist, geoService, requestLog, audit)

	r := gin.New()
	r.Use(tracking.Handler())
	r.GET("/products", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/metrics", func(c *gin.Context) { c.String(http.StatusOK, "metrics") })

	return &trackingFixture{router: r, blockStore: blockStore, logStore: logStore, audit: audit}
}

func (f *trackingFixture) get(path, forwardedFor string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = "192.0.2.1:54321"
	req.Header.Set("User-Agent", "curl/8.0")
	if forwardedFor != "" {
		req.Header.Set("X-Forwarded-For", forwardedFor)
	}
	f.router.ServeHTTP(w, req)
	return w
}

func TestTracking_AllowedRequestLogged(t *testing.T) {
	f := newTrackingFixture(t)

	w := f.get("/products", "203.0.113.7, 10.0.0.2")

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, f.logStore.created, 1)
	entry := f.logStore.created[0]
	assert.Equal(t, "203.0.113.7", entry.IPAddress)
	assert.Equal(t, "/products", entry.Path)
	assert.Equal(t, "curl/8.0", entry.UserAgent)
}

func TestTracking_BlockedRequestRejected(t *testing.T) {
	f := newTrackingFixture(t)
	f.blockStore.blocked["203.0.113.7"] = true

	w := f.get("/products", "203.0.113.7")

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "<h1>403 Forbidden</h1><p>Your IP address has been blocked.</p>", w.Body.String())

	// 被封鎖的請求不留請求紀錄
	assert.Empty(t, f.logStore.created)

	require.Len(t, f.audit.events, 1)
	assert.Equal(t, "request_blocked", f.audit.events[0].Event)
	assert.Equal(t, "203.0.113.7", f.audit.events[0].IPAddress)
}

func TestTracking_PeerAddressFallback(t *testing.T) {
	f := newTrackingFixture(t)

	w := f.get("/products", "")

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, f.logStore.created, 1)
	assert.Equal(t, "192.0.2.1", f.logStore.created[0].IPAddress)
}

func TestTracking_SkipPathNotLogged(t *testing.T) {
	f := newTrackingFixture(t)

	w := f.get("/metrics", "203.0.113.7")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, f.logStore.created)
}
