package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"ipguard/config"
	"ipguard/internal/database/mongodb/model"
	"ipguard/internal/telemetry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newDetectorFixture(t *testing.T, logStore *fakeRequestLogStore) (*DetectorService, *fakeSuspiciousIPStore, *fakeAuditSink) {
	t.Helper()
	trace, err := telemetry.NewTrace(nil)
	require.NoError(t, err)
	suspicious := newFakeSuspiciousIPStore()
	audit := &fakeAuditSink{}
	svc := NewDetectorService(trace, telemetry.NewMetric(nil), logStore, suspicious, audit, zap.NewNop(), &config.Configuration{})
	return svc, suspicious, audit
}

func TestDetector_VolumeRule(t *testing.T) {
	logStore := &fakeRequestLogStore{
		counts: []model.IPRequestCount{
			{IPAddress: "203.0.113.7", Count: 150},
			{IPAddress: "203.0.113.8", Count: 100}, // 恰好等於門檻，不標記
			{IPAddress: "203.0.113.9", Count: 3},
		},
	}
	svc, suspicious, audit := newDetectorFixture(t, logStore)

	summary, err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, summary.ScannedIPs)
	assert.Equal(t, 1, summary.VolumeFlags)
	assert.Equal(t, 0, summary.SensitiveFlags)
	assert.Equal(t, "150 requests in the last hour", suspicious.flagged["203.0.113.7"])
	assert.NotContains(t, suspicious.flagged, "203.0.113.8")

	require.Len(t, audit.events, 1)
	assert.Equal(t, "suspicious_flagged", audit.events[0].Event)
}

func TestDetector_SensitivePathRule(t *testing.T) {
	logStore := &fakeRequestLogStore{
		pathEntries: []*model.RequestLog{
			{IPAddress: "203.0.113.7", Path: "/admin", Timestamp: time.Now()},
			{IPAddress: "203.0.113.7", Path: "/login", Timestamp: time.Now()}, // 同 IP 不重複標記
			{IPAddress: "203.0.113.8", Path: "/login", Timestamp: time.Now()},
		},
	}
	svc, suspicious, _ := newDetectorFixture(t, logStore)

	summary, err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.SensitiveFlags)
	assert.Equal(t, "Accessed sensitive path: /admin", suspicious.flagged["203.0.113.7"])
	assert.Equal(t, "Accessed sensitive path: /login", suspicious.flagged["203.0.113.8"])
}

func TestDetector_FirstReasonWins(t *testing.T) {
	logStore := &fakeRequestLogStore{
		counts: []model.IPRequestCount{
			{IPAddress: "203.0.113.7", Count: 500},
		},
		pathEntries: []*model.RequestLog{
			{IPAddress: "203.0.113.7", Path: "/admin", Timestamp: time.Now()},
		},
	}
	svc, suspicious, _ := newDetectorFixture(t, logStore)

	summary, err := svc.Run(context.Background())
	require.NoError(t, err)

	// 流量規則先跑，reason 保留第一筆
	assert.Equal(t, 1, summary.VolumeFlags)
	assert.Equal(t, 0, summary.SensitiveFlags)
	assert.Equal(t, "500 requests in the last hour", suspicious.flagged["203.0.113.7"])
}

func TestDetector_RerunIsIdempotent(t *testing.T) {
	logStore := &fakeRequestLogStore{
		counts: []model.IPRequestCount{
			{IPAddress: "203.0.113.7", Count: 150},
		},
	}
	svc, suspicious, audit := newDetectorFixture(t, logStore)

	_, err := svc.Run(context.Background())
	require.NoError(t, err)

	summary, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, summary.VolumeFlags)
	assert.Len(t, suspicious.flagged, 1)
	assert.Len(t, audit.events, 1)
}

func TestDetector_OneRuleFailureDoesNotStopOther(t *testing.T) {
	logStore := &fakeRequestLogStore{
		countErr: errors.New("aggregation failed"),
		pathEntries: []*model.RequestLog{
			{IPAddress: "203.0.113.8", Path: "/login", Timestamp: time.Now()},
		},
	}
	svc, suspicious, _ := newDetectorFixture(t, logStore)

	summary, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.SensitiveFlags)
	assert.Contains(t, suspicious.flagged, "203.0.113.8")
}

func TestDetector_BothRulesFail(t *testing.T) {
	logStore := &fakeRequestLogStore{
		countErr:     errors.New("aggregation failed"),
		findPathsErr: errors.New("find failed"),
	}
	svc, _, _ := newDetectorFixture(t, logStore)

	_, err := svc.Run(context.Background())
	assert.Error(t, err)
}
