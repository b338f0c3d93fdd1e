package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	Port           string
	DataDir        string
	AdminPassword  string
	APIKeys        []string // ingest keys for site clients (bb_sk_ prefixed)
	TrustedOrigins []string
	MirrorURL      string // optional upstream to forward writes to
	MirrorAPIKey   string // ingest key presented to the mirror upstream
	GeoEnrichment  bool
	GeoIPPath      string
}

// Load loads configuration from multiple sources with priority:
// 1. Command flags (set via viper.Set)
// 2. Config file (~/.config/bossbooker/bossbooker.toml or ./bossbooker.toml)
// 3. Environment variables
func Load() (*Config, error) {
	v := newBaseViper()
	_ = v.ReadInConfig()
	return buildConfig(v, "", "", ""), nil
}

// LoadWithOverrides loads config and applies flag overrides
func LoadWithOverrides(port, dataDir, adminPassword string) (*Config, error) {
	v := newBaseViper()
	_ = v.ReadInConfig()
	return buildConfig(v, port, dataDir, adminPassword), nil
}

func newBaseViper() *viper.Viper {
	v := viper.New()
	v.SetConfigName("bossbooker")
	v.SetConfigType("toml")
	v.AddConfigPath(".")

	// Use XDG Base Directory specification
	// Manual implementation to support testing (xdg library caches at init)
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		if home, err := os.UserHomeDir(); err == nil {
			configHome = filepath.Join(home, ".config")
		}
	}
	if configHome != "" {
		v.AddConfigPath(filepath.Join(configHome, "bossbooker"))
	}

	return v
}

func buildConfig(v *viper.Viper, overridePort, overrideDataDir, overrideAdminPassword string) *Config {
	cfg := &Config{
		Port:           "8787",
		DataDir:        "./data",
		TrustedOrigins: []string{},
		GeoEnrichment:  false,
	}

	// Apply config file values
	if v.IsSet("port") {
		cfg.Port = v.GetString("port")
	}
	if v.IsSet("data_dir") {
		cfg.DataDir = v.GetString("data_dir")
	}
	if v.IsSet("admin_password") {
		cfg.AdminPassword = v.GetString("admin_password")
	}
	if v.IsSet("api_keys") {
		cfg.APIKeys = parseList(v.GetString("api_keys"))
	}
	if v.IsSet("trusted_origins") {
		cfg.TrustedOrigins = parseTrustedOrigins(v.GetString("trusted_origins"))
	}
	if v.IsSet("mirror_url") {
		cfg.MirrorURL = v.GetString("mirror_url")
	}
	if v.IsSet("mirror_api_key") {
		cfg.MirrorAPIKey = v.GetString("mirror_api_key")
	}
	if v.IsSet("geo.enrichment") {
		cfg.GeoEnrichment = v.GetBool("geo.enrichment")
	}
	if v.IsSet("geo.database_path") {
		cfg.GeoIPPath = v.GetString("geo.database_path")
	}

	// Environment fallback (only if not configured)
	if !v.IsSet("port") {
		if envPort := os.Getenv("PORT"); envPort != "" {
			cfg.Port = envPort
		}
	}
	if !v.IsSet("data_dir") {
		if envDataDir := os.Getenv("DATA_DIR"); envDataDir != "" {
			cfg.DataDir = envDataDir
		}
	}
	if cfg.AdminPassword == "" {
		cfg.AdminPassword = os.Getenv("ADMIN_PASSWORD")
	}
	if !v.IsSet("api_keys") {
		if envKeys := os.Getenv("API_KEYS"); envKeys != "" {
			cfg.APIKeys = parseList(envKeys)
		}
	}
	if !v.IsSet("trusted_origins") {
		if envOrigins := os.Getenv("TRUSTED_ORIGINS"); envOrigins != "" {
			cfg.TrustedOrigins = parseTrustedOrigins(envOrigins)
		}
	}
	if cfg.MirrorURL == "" {
		cfg.MirrorURL = os.Getenv("MIRROR_URL")
	}
	if cfg.MirrorAPIKey == "" {
		cfg.MirrorAPIKey = os.Getenv("MIRROR_API_KEY")
	}
	if !v.IsSet("geo.enrichment") {
		if envGeo := os.Getenv("ENABLE_GEO_ENRICHMENT"); envGeo != "" {
			cfg.GeoEnrichment = envGeo == "true"
		}
	}
	if cfg.GeoIPPath == "" {
		cfg.GeoIPPath = os.Getenv("GEOIP_DB_PATH")
	}

	// Apply overrides (flags) last
	if overridePort != "" {
		cfg.Port = overridePort
	}
	if overrideDataDir != "" {
		cfg.DataDir = overrideDataDir
	}
	if overrideAdminPassword != "" {
		cfg.AdminPassword = overrideAdminPassword
	}

	return cfg
}

// parseList splits a comma-separated string into trimmed, non-empty entries
func parseList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

// parseTrustedOrigins parses a comma-separated string into a slice of trimmed, lowercased origins
func parseTrustedOrigins(originsStr string) []string {
	if originsStr == "" {
		return []string{}
	}

	parts := strings.Split(originsStr, ",")
	origins := make([]string, 0, len(parts))

	for _, part := range parts {
		origin, err := SanitizeOrigin(part)
		if err != nil {
			continue
		}
		origins = append(origins, origin)
	}

	return origins
}
