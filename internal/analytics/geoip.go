package analytics

import (
	"fmt"
	"net"

	"github.com/oschwald/maxminddb-golang"
)

// GeoIP resolves an IP address to a country ISO code using a MaxMind
// GeoLite2-Country database. A nil *GeoIP is valid and always answers
// with an empty country, so lookups degrade gracefully when no database
// file is configured.
type GeoIP struct {
	reader *maxminddb.Reader
}

// geoRecord matches the GeoLite2-Country database structure.
type geoRecord struct {
	Country struct {
		ISOCode string `maxminddb:"iso_code"`
	} `maxminddb:"country"`
}

// OpenGeoIP opens the database at path. An empty path disables lookups.
func OpenGeoIP(path string) (*GeoIP, error) {
	if path == "" {
		return nil, nil
	}
	reader, err := maxminddb.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open GeoIP database: %w", err)
	}
	return &GeoIP{reader: reader}, nil
}

// Country returns the ISO country code for an IP, or "" when unknown,
// private, or lookups are disabled.
func (g *GeoIP) Country(ip string) string {
	if g == nil || g.reader == nil {
		return ""
	}
	parsed := net.ParseIP(ip)
	if parsed == nil || parsed.IsPrivate() || parsed.IsLoopback() {
		return ""
	}

	var record geoRecord
	if err := g.reader.Lookup(parsed, &record); err != nil {
		return ""
	}
	return record.Country.ISOCode
}

// Close releases the underlying database.
func (g *GeoIP) Close() {
	if g != nil && g.reader != nil {
		g.reader.Close()
	}
}
