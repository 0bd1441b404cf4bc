package util

import (
	"fmt"
	"net"
	"time"

	"github.com/oschwald/geoip2-golang"
	cache "github.com/patrickmn/go-cache"
)

var (
	geoipDB    *geoip2.Reader
	geoipCache *cache.Cache
)

// InitGeoIP opens a local GeoIP2/GeoLite2 .mmdb database and sets up an
// in-memory lookup cache. An empty path or unreadable file leaves lookups
// disabled; that is not an error for the caller.
func InitGeoIP(dbPath string) error {
	geoipCache = cache.New(6*time.Hour, 1*time.Hour)
	if dbPath == "" {
		return nil
	}
	reader, err := geoip2.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open geoip database: %w", err)
	}
	geoipDB = reader
	return nil
}

// CloseGeoIP releases the mmdb reader.
func CloseGeoIP() {
	if geoipDB != nil {
		_ = geoipDB.Close()
		geoipDB = nil
	}
}

// LookupLocation resolves an IP to "City/Country". Returns "" for private,
// malformed or unresolvable addresses, or when no database is loaded.
func LookupLocation(ipStr string) string {
	if geoipDB == nil || ipStr == "" {
		return ""
	}
	if geoipCache != nil {
		if loc, found := geoipCache.Get(ipStr); found {
			return loc.(string)
		}
	}

	ip := net.ParseIP(ipStr)
	if ip == nil || ip.IsPrivate() || ip.IsLoopback() {
		return ""
	}

	record, err := geoipDB.City(ip)
	if err != nil {
		return ""
	}

	city := record.City.Names["en"]
	country := record.Country.Names["en"]
	loc := ""
	switch {
	case city != "" && country != "":
		loc = city + "/" + country
	case country != "":
		loc = country
	}

	if geoipCache != nil && loc != "" {
		geoipCache.Set(ipStr, loc, cache.DefaultExpiration)
	}
	return loc
}
