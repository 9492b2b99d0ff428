package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DATABASE_TYPE", "STORE_TIMEOUT", "SCAN_PAGE_SIZE", "RATE_LIMIT", "RATE_WINDOW", "TRUSTED_PROXIES"} {
		t.Setenv(key, "")
	}

	cfg, err := Load("does-not-exist.env")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "sqlite", cfg.DatabaseType)
	assert.Equal(t, 5*time.Second, cfg.StoreTimeout)
	assert.Equal(t, 1000, cfg.ScanPageSize)
	assert.Equal(t, 120, cfg.RateLimit)
	assert.Equal(t, time.Minute, cfg.RateWindow)
	assert.Empty(t, cfg.TrustedProxies)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_TYPE", " Postgres ")
	t.Setenv("DATABASE_URL", "postgres://localhost/activityhub")
	t.Setenv("STORE_TIMEOUT", "250ms")
	t.Setenv("SCAN_PAGE_SIZE", "50")
	t.Setenv("TRUSTED_PROXIES", " 10.0.0.0/8, ,192.0.2.10 ")

	cfg, err := Load("does-not-exist.env")
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, "postgres", cfg.DatabaseType)
	assert.Equal(t, "postgres://localhost/activityhub", cfg.DatabaseURL)
	assert.Equal(t, 250*time.Millisecond, cfg.StoreTimeout)
	assert.Equal(t, 50, cfg.ScanPageSize)
	assert.Equal(t, []string{"10.0.0.0/8", "192.0.2.10"}, cfg.TrustedProxies)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "unparseable timeout", key: "STORE_TIMEOUT", value: "soon"},
		{name: "negative timeout", key: "STORE_TIMEOUT", value: "-1s"},
		{name: "zero page size", key: "SCAN_PAGE_SIZE", value: "0"},
		{name: "negative rate limit", key: "RATE_LIMIT", value: "-3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load("does-not-exist.env")
			assert.Error(t, err)
		})
	}
}
