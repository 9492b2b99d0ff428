package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	ServerPort      string
	DatabaseType    string
	DatabasePath    string
	DatabaseURL     string
	StoreTimeout    time.Duration
	ScanPageSize    int
	LogDir          string
	LogLevel        string
	RateLimit       int
	RateWindow      time.Duration
	TrustedProxies  []string
	ShutdownTimeout time.Duration
}

// setDefaults registers the fallback value of every key
func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("DATABASE_TYPE", "sqlite")
	v.SetDefault("DB_PATH", "./activityhub.db")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("STORE_TIMEOUT", "5s")
	v.SetDefault("SCAN_PAGE_SIZE", 1000)
	v.SetDefault("LOG_DIR", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("RATE_LIMIT", 120)
	v.SetDefault("RATE_WINDOW", "1m")
	v.SetDefault("TRUSTED_PROXIES", "")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")
}

// Load reads configuration from an optional .env file and the environment.
// Values already present in the environment win over the .env file.
func Load(dotEnvFiles ...string) (*Config, error) {
	// Missing .env files are fine; defaults and real env vars still apply
	_ = godotenv.Load(dotEnvFiles...)

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		ServerPort:   v.GetString("PORT"),
		DatabaseType: strings.ToLower(strings.TrimSpace(v.GetString("DATABASE_TYPE"))),
		DatabasePath: v.GetString("DB_PATH"),
		DatabaseURL:  v.GetString("DATABASE_URL"),
		ScanPageSize: v.GetInt("SCAN_PAGE_SIZE"),
		LogDir:       v.GetString("LOG_DIR"),
		LogLevel:     v.GetString("LOG_LEVEL"),
		RateLimit:    v.GetInt("RATE_LIMIT"),

		TrustedProxies: splitList(v.GetString("TRUSTED_PROXIES")),
	}

	var err error
	if cfg.StoreTimeout, err = parseDuration(v, "STORE_TIMEOUT"); err != nil {
		return nil, err
	}
	if cfg.RateWindow, err = parseDuration(v, "RATE_WINDOW"); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = parseDuration(v, "SHUTDOWN_TIMEOUT"); err != nil {
		return nil, err
	}

	if cfg.ScanPageSize <= 0 {
		return nil, fmt.Errorf("config: SCAN_PAGE_SIZE must be positive, got %d", cfg.ScanPageSize)
	}
	if cfg.RateLimit <= 0 {
		return nil, fmt.Errorf("config: RATE_LIMIT must be positive, got %d", cfg.RateLimit)
	}

	return cfg, nil
}

// parseDuration reads a positive duration such as "5s" or "1m"
func parseDuration(v *viper.Viper, key string) (time.Duration, error) {
	raw := v.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q is not a valid duration: %w", key, raw, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("config: %s must be positive, got %s", key, raw)
	}
	return d, nil
}

// splitList splits a comma-separated value, dropping blank entries
func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
