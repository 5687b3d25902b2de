package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"ipguard/internal/service/geo"
	"ipguard/internal/telemetry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRequestLogFixture(t *testing.T, logStore *fakeRequestLogStore) (*RequestLogService, *fakeAuditSink) {
	t.Helper()
	trace, err := telemetry.NewTrace(nil)
	require.NoError(t, err)
	audit := &fakeAuditSink{}
	svc := NewRequestLogService(trace, telemetry.NewMetric(nil), logStore, audit, zap.NewNop())
	return svc, audit
}

func strPtr(v string) *string { return &v }

func TestLogRequest_WritesEntry(t *testing.T) {
	logStore := &fakeRequestLogStore{}
	svc, _ := newRequestLogFixture(t, logStore)

	svc.LogRequest(context.Background(), "203.0.113.7", "/products", "curl/8.0",
		geo.Location{Country: strPtr("France"), City: strPtr("Paris")})

	require.Len(t, logStore.created, 1)
	entry := logStore.created[0]
	assert.Equal(t, "203.0.113.7", entry.IPAddress)
	assert.Equal(t, "/products", entry.Path)
	assert.Equal(t, "curl/8.0", entry.UserAgent)
	require.NotNil(t, entry.Country)
	require.NotNil(t, entry.City)
	assert.Equal(t, "France", *entry.Country)
	assert.Equal(t, "Paris", *entry.City)
	assert.False(t, entry.Timestamp.IsZero())
}

func TestLogRequest_TruncatesLongPath(t *testing.T) {
	logStore := &fakeRequestLogStore{}
	svc, _ := newRequestLogFixture(t, logStore)

	svc.LogRequest(context.Background(), "203.0.113.7", "/"+strings.Repeat("a", 600), "", geo.Location{})

	require.Len(t, logStore.created, 1)
	assert.Len(t, logStore.created[0].Path, maxLoggedPathLength)
}

func TestLogRequest_TruncationKeepsRuneBoundary(t *testing.T) {
	logStore := &fakeRequestLogStore{}
	svc, _ := newRequestLogFixture(t, logStore)

	// multi-byte 路徑不可切在 rune 中間
	svc.LogRequest(context.Background(), "203.0.113.7", "/"+strings.Repeat("路", 600), "", geo.Location{})

	require.Len(t, logStore.created, 1)
	got := logStore.created[0].Path
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, maxLoggedPathLength, utf8.RuneCountInString(got))
}

func TestLogRequest_CityWithoutCountryDropped(t *testing.T) {
	logStore := &fakeRequestLogStore{}
	svc, _ := newRequestLogFixture(t, logStore)

	svc.LogRequest(context.Background(), "203.0.113.7", "/", "",
		geo.Location{City: strPtr("Paris")})

	require.Len(t, logStore.created, 1)
	assert.Nil(t, logStore.created[0].Country)
	assert.Nil(t, logStore.created[0].City)
}

func TestLogRequest_WriteFailureDoesNotPanic(t *testing.T) {
	logStore := &fakeRequestLogStore{createErr: errors.New("mongo down")}
	svc, audit := newRequestLogFixture(t, logStore)

	svc.LogRequest(context.Background(), "203.0.113.7", "/", "", geo.Location{})

	assert.Empty(t, logStore.created)
	require.Len(t, audit.events, 1)
	assert.Equal(t, "request_log_failed", audit.events[0].Event)
}
