// Package analytics enriches tracked events with request metadata: client
// IP, user-agent classification, and optional GeoIP country.
package analytics

import (
	"net"
	"net/http"
	"strings"

	"github.com/mileusna/useragent"
)

// RequestMeta is the request-derived metadata attached to every event.
type RequestMeta struct {
	IP        string
	UserAgent string
	Browser   string
	OS        string
	Device    string
	Country   string
}

// Collector derives RequestMeta from incoming requests.
type Collector struct {
	geo *GeoIP
}

func NewCollector(geo *GeoIP) *Collector {
	return &Collector{geo: geo}
}

// Describe extracts metadata from a request.
func (c *Collector) Describe(r *http.Request) RequestMeta {
	ip := ClientIP(r)
	browser, os, device := ParseUserAgent(r.UserAgent())

	meta := RequestMeta{
		IP:        ip,
		UserAgent: r.UserAgent(),
		Browser:   browser,
		OS:        os,
		Device:    device,
	}
	if c != nil && c.geo != nil {
		meta.Country = c.geo.Country(ip)
	}
	return meta
}

// ClientIP returns the originating client address, preferring the
// forwarded-for chain set by the fronting proxy.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		// First hop is the client; the rest are proxies.
		parts := strings.Split(fwd, ",")
		return strings.TrimSpace(parts[0])
	}
	if real := r.Header.Get("X-Real-IP"); real != "" {
		return real
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// ParseUserAgent classifies a user agent into browser, OS and device type.
func ParseUserAgent(uaString string) (browser, os, device string) {
	ua := useragent.Parse(uaString)

	browser = ua.Name
	if browser == "" {
		browser = "Unknown"
	}
	os = ua.OS
	if os == "" {
		os = "Unknown"
	}

	switch {
	case ua.Mobile:
		device = "mobile"
	case ua.Tablet:
		device = "tablet"
	case ua.Bot:
		device = "bot"
	default:
		device = "desktop"
	}
	return browser, os, device
}
