package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unsetEnv(t *testing.T, key string) {
	t.Helper()
	original, existed := os.LookupEnv(key)
	if existed {
		t.Cleanup(func() {
			_ = os.Setenv(key, original)
		})
	} else {
		t.Cleanup(func() {
			_ = os.Unsetenv(key)
		})
	}
	_ = os.Unsetenv(key)
}

func writeTestConfig(t *testing.T, home string, contents string) {
	t.Helper()
	// Use XDG config path
	configDir := filepath.Join(home, ".config", "bossbooker")
	require.NoError(t, os.MkdirAll(configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "bossbooker.toml"), []byte(contents), 0o644))
}

func TestLoadDefaultsWhenNoConfigSources(t *testing.T) {
	tmpHome := t.TempDir()
	t.Setenv("HOME", tmpHome)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpHome, ".config"))
	unsetEnv(t, "PORT")
	unsetEnv(t, "DATA_DIR")
	unsetEnv(t, "ADMIN_PASSWORD")
	unsetEnv(t, "API_KEYS")
	unsetEnv(t, "MIRROR_URL")
	unsetEnv(t, "ENABLE_GEO_ENRICHMENT")
	unsetEnv(t, "GEOIP_DB_PATH")

	cfg, err := Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "8787", cfg.Port)
	assert.Equal(t, "./data", cfg.DataDir)
	assert.Equal(t, "", cfg.AdminPassword)
	assert.Empty(t, cfg.APIKeys)
	assert.Equal(t, "", cfg.MirrorURL)
	assert.False(t, cfg.GeoEnrichment)
}

func TestLoadUsesEnvironmentVariables(t *testing.T) {
	tmpHome := t.TempDir()
	t.Setenv("HOME", tmpHome)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpHome, ".config"))
	t.Setenv("PORT", "4321")
	t.Setenv("DATA_DIR", "/tmp/env-data")
	t.Setenv("ADMIN_PASSWORD", "env-secret")
	t.Setenv("API_KEYS", "bb_sk_one, bb_sk_two")
	t.Setenv("MIRROR_URL", "https://mirror.example.com")
	t.Setenv("ENABLE_GEO_ENRICHMENT", "true")

	cfg, err := Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "4321", cfg.Port)
	assert.Equal(t, "/tmp/env-data", cfg.DataDir)
	assert.Equal(t, "env-secret", cfg.AdminPassword)
	assert.Equal(t, []string{"bb_sk_one", "bb_sk_two"}, cfg.APIKeys)
	assert.Equal(t, "https://mirror.example.com", cfg.MirrorURL)
	assert.True(t, cfg.GeoEnrichment)
}

func TestLoadWithOverridesPriority(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	writeTestConfig(t, home, `
port = "4000"
data_dir = "./config-data"
admin_password = "config-secret"
`)

	t.Setenv("PORT", "5000")
	unsetEnv(t, "DATA_DIR")
	t.Setenv("ADMIN_PASSWORD", "env-secret")

	cfg, err := LoadWithOverrides("6000", "", "")
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, "6000", cfg.Port)
	assert.Equal(t, "./config-data", cfg.DataDir)
	assert.Equal(t, "config-secret", cfg.AdminPassword)

	cfg, err = LoadWithOverrides("", "/override-data", "flag-secret")
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, "4000", cfg.Port)
	assert.Equal(t, "/override-data", cfg.DataDir)
	assert.Equal(t, "flag-secret", cfg.AdminPassword)
}

func TestLoadFallsBackToEnvWhenConfigMissing(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	writeTestConfig(t, home, `
data_dir = "./config-data"
`)

	t.Setenv("PORT", "5000")
	t.Setenv("TRUSTED_ORIGINS", "example.com,foo.test")
	unsetEnv(t, "ADMIN_PASSWORD")
	unsetEnv(t, "API_KEYS")
	unsetEnv(t, "MIRROR_URL")

	cfg, err := Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, "./config-data", cfg.DataDir)
	assert.Equal(t, []string{"example.com", "foo.test"}, cfg.TrustedOrigins)
}

func TestSanitizeOrigin(t *testing.T) {
	tests := []struct {
		input       string
		expected    string
		shouldError bool
	}{
		{"example.com", "example.com", false},
		{"EXAMPLE.com", "example.com", false},
		{"http://example.com", "example.com", false},
		{"https://example.com:3000/", "example.com:3000", false},
		{"example.com/path", "", true},
		{"https://example.com/path", "", true},
		{"http://example.com?foo=1", "", true},
		{"http://example.com#frag", "", true},
		{"", "", true},
		{"https://*.example.com", "", true},
	}

	for _, tt := range tests {
		got, err := SanitizeOrigin(tt.input)
		if tt.shouldError {
			assert.Error(t, err, tt.input)
			continue
		}
		assert.NoError(t, err, tt.input)
		assert.Equal(t, tt.expected, got)
	}
}
