// Package geoip resolves visitor IPs to coarse location data using a local
// GeoLite2-City database. The database is downloaded on first use when
// missing; without it every lookup degrades to nil.
package geoip

import (
	"compress/gzip"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"

	"github.com/oschwald/geoip2-golang"

	"github.com/bossbooker/portal/internal/logging"
	"github.com/bossbooker/portal/internal/store"
)

// downloadURL is the jsDelivr CDN mirror of the geolite2-city npm package.
const downloadURL = "https://cdn.jsdelivr.net/npm/geolite2-city/GeoLite2-City.mmdb.gz"

// Resolver looks up locations against a GeoLite2 database. The zero value is
// unusable; call Open.
type Resolver struct {
	reader *geoip2.Reader
	log    *slog.Logger
}

// Open loads the GeoLite2-City database at dbPath, or downloads it there when
// missing. A failed download or unreadable database is not fatal: the
// returned Resolver simply answers nil to every lookup.
func Open(dbPath string) *Resolver {
	r := &Resolver{log: logging.With("component", "geoip")}

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		r.log.Info("geoip database not found, attempting download", "path", dbPath)
		if err := downloadDatabase(dbPath); err != nil {
			r.log.Warn("geoip database download failed, lookups disabled", "error", err, "path", dbPath)
			return r
		}
		r.log.Info("geoip database downloaded")
	}

	reader, err := geoip2.Open(dbPath)
	if err != nil {
		r.log.Warn("could not load geoip database, lookups disabled", "error", err)
		return r
	}

	r.reader = reader
	r.log.Info("geoip database loaded", "path", dbPath)
	return r
}

// Lookup resolves an IP to country and city. Returns nil when the database is
// unavailable or the IP cannot be resolved.
func (r *Resolver) Lookup(ipStr string) *store.Geo {
	if r == nil || r.reader == nil {
		return nil
	}

	ip := net.ParseIP(ipStr)
	if ip == nil {
		return nil
	}

	record, err := r.reader.City(ip)
	if err != nil {
		r.log.Warn("geoip lookup failed", "ip", ipStr, "error", err)
		return nil
	}

	geo := &store.Geo{
		Country: record.Country.IsoCode,
		City:    record.City.Names["en"],
	}
	if len(record.Subdivisions) > 0 {
		geo.Region = record.Subdivisions[0].Names["en"]
	}
	if geo.Country == "" && geo.City == "" {
		return nil
	}
	return geo
}

// Close releases the underlying database.
func (r *Resolver) Close() error {
	if r != nil && r.reader != nil {
		return r.reader.Close()
	}
	return nil
}

func downloadDatabase(dbPath string) error {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return err
	}

	resp, err := http.Get(downloadURL)
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download failed with status %d", resp.StatusCode)
	}

	gzReader, err := gzip.NewReader(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gzReader.Close()

	out, err := os.Create(dbPath)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, gzReader); err != nil {
		return fmt.Errorf("failed to write database: %w", err)
	}
	return nil
}
