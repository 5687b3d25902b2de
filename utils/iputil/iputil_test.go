package iputil

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientIP_ForwardedForFirstSegment(t *testing.T) {
	header := http.Header{}
	header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.2, 10.0.0.3")
	header.Set("X-Real-IP", "198.51.100.9")

	assert.Equal(t, "203.0.113.7", ClientIP(header, "192.0.2.1:54321"))
}

func TestClientIP_ForwardedForSingleValue(t *testing.T) {
	header := http.Header{}
	header.Set("X-Forwarded-For", " 203.0.113.7 ")

	assert.Equal(t, "203.0.113.7", ClientIP(header, "192.0.2.1:54321"))
}

func TestClientIP_RealIPFallback(t *testing.T) {
	header := http.Header{}
	header.Set("X-Real-IP", "198.51.100.9")

	assert.Equal(t, "198.51.100.9", ClientIP(header, "192.0.2.1:54321"))
}

func TestClientIP_EmptyForwardedForFallsThrough(t *testing.T) {
	header := http.Header{}
	header.Set("X-Forwarded-For", "  ")
	header.Set("X-Real-IP", "198.51.100.9")

	assert.Equal(t, "198.51.100.9", ClientIP(header, "192.0.2.1:54321"))
}

func TestClientIP_PeerAddress(t *testing.T) {
	assert.Equal(t, "192.0.2.1", ClientIP(http.Header{}, "192.0.2.1:54321"))
	assert.Equal(t, "2001:db8::1", ClientIP(http.Header{}, "[2001:db8::1]:443"))
	assert.Equal(t, "192.0.2.1", ClientIP(http.Header{}, "192.0.2.1"))
}

func TestClientIP_NoSource(t *testing.T) {
	assert.Equal(t, "0.0.0.0", ClientIP(http.Header{}, ""))
}

func TestIsPrivate(t *testing.T) {
	cases := []struct {
		ip      string
		private bool
	}{
		{"127.0.0.1", true},
		{"::1", true},
		{"10.1.2.3", true},
		{"172.16.0.1", true},
		{"192.168.1.1", true},
		{"169.254.0.1", true},
		{"fe80::1", true},
		{"not-an-ip", true},
		{"", true},
		{"8.8.8.8", false},
		{"203.0.113.7", false},
		{"2001:4860:4860::8888", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.private, IsPrivate(tc.ip), "IsPrivate(%q)", tc.ip)
	}
}

func TestIsValid(t *testing.T) {
	assert.True(t, IsValid("203.0.113.7"))
	assert.True(t, IsValid(" 2001:db8::1 "))
	assert.False(t, IsValid("203.0.113.256"))
	assert.False(t, IsValid("example.com"))
	assert.False(t, IsValid(""))
}
