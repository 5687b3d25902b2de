package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGeoDefaults(t *testing.T) {
	var g Geo
	assert.Equal(t, 5, g.TimeoutOrDefault())
	assert.Equal(t, 86400, g.CacheTTLOrDefault())
	assert.Equal(t, "ipguard/1.0", g.UserAgentOrDefault())

	g = Geo{TimeoutSeconds: 2, CacheTTLSeconds: 600, UserAgent: "custom/2.0"}
	assert.Equal(t, 2, g.TimeoutOrDefault())
	assert.Equal(t, 600, g.CacheTTLOrDefault())
	assert.Equal(t, "custom/2.0", g.UserAgentOrDefault())
}

func TestBlocklistDefaults(t *testing.T) {
	var b Blocklist
	assert.Equal(t, 300, b.CacheTTLOrDefault())
	assert.Equal(t, 60, Blocklist{CacheTTLSeconds: 60}.CacheTTLOrDefault())
}

func TestRateLimitDefaults(t *testing.T) {
	var r RateLimit
	assert.Equal(t, 5, r.AnonymousOrDefault())
	assert.Equal(t, 10, r.UserOrDefault())
}

func TestDetectorDefaults(t *testing.T) {
	var d Detector
	assert.Equal(t, "0 0 * * * *", d.ScheduleOrDefault())
	assert.Equal(t, 60, d.WindowOrDefault())
	assert.Equal(t, 100, d.VolumeThresholdOrDefault())
}
