package analytics

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientIPPrefersForwardedFor(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/analytics/track", nil)
	req.RemoteAddr = "10.0.0.1:52000"
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")

	assert.Equal(t, "203.0.113.7", ClientIP(req))
}

func TestClientIPFallsBackToRemoteAddr(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/analytics/track", nil)
	req.RemoteAddr = "198.51.100.4:40000"

	assert.Equal(t, "198.51.100.4", ClientIP(req))
}

func TestParseUserAgentDeviceClasses(t *testing.T) {
	cases := []struct {
		ua     string
		device string
	}{
		{"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36", "desktop"},
		{"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1", "mobile"},
		{"Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)", "bot"},
	}
	for _, tc := range cases {
		_, _, device := ParseUserAgent(tc.ua)
		assert.Equal(t, tc.device, device, tc.ua)
	}
}

func TestParseUserAgentUnknownFallbacks(t *testing.T) {
	browser, os, _ := ParseUserAgent("")
	assert.Equal(t, "Unknown", browser)
	assert.Equal(t, "Unknown", os)
}

func TestDescribeWithoutGeoIP(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/analytics/track", nil)
	req.RemoteAddr = "198.51.100.4:40000"
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")

	meta := NewCollector(nil).Describe(req)
	assert.Equal(t, "198.51.100.4", meta.IP)
	assert.Equal(t, "Chrome", meta.Browser)
	assert.Equal(t, "desktop", meta.Device)
	assert.Empty(t, meta.Country)
}
