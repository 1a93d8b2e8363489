// Package config provides application configuration loaded from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	// Run settings.
	Limit     int
	BatchSize int
	URLColumn string
	FileA     string
	FileB     string
	Output    string

	// Fetch settings. Zero disables the corresponding bound.
	FetchTimeout time.Duration
	HostRPS      float64
	HostBurst    int
	MaxBodyBytes int64

	// Observability.
	LogLevel       string
	OTelEnabled    bool
	MetricsEnabled bool

	// API server settings.
	APIPort      string
	CORSOrigins  []string
	OIDCIssuer   string
	OIDCAudience string

	// Temporal.
	TemporalAddress   string
	TemporalNamespace string

	// AWS report sink. CloudWatch publishing is off while the namespace is empty.
	CloudWatchNamespace string
	AWSRegion           string
	AWSProfile          string
	AWSRoleARN          string
}

// LoadFromEnv reads configuration from environment variables with sensible defaults.
func LoadFromEnv() (Config, error) {
	cfg := Config{
		URLColumn:           envOr("PAIRDIFF_URL_COLUMN", "url"),
		FileA:               os.Getenv("PAIRDIFF_FILE_A"),
		FileB:               os.Getenv("PAIRDIFF_FILE_B"),
		Output:              envOr("PAIRDIFF_OUTPUT", "output/comparison_report.txt"),
		LogLevel:            envOr("PAIRDIFF_LOG_LEVEL", "info"),
		APIPort:             envOr("PAIRDIFF_API_PORT", "8080"),
		CORSOrigins:         parseCORSOrigins(os.Getenv("PAIRDIFF_CORS_ORIGINS")),
		OIDCIssuer:          os.Getenv("PAIRDIFF_OIDC_ISSUER"),
		OIDCAudience:        os.Getenv("PAIRDIFF_OIDC_AUDIENCE"),
		TemporalAddress:     envOr("PAIRDIFF_TEMPORAL_ADDRESS", "localhost:7233"),
		TemporalNamespace:   envOr("PAIRDIFF_TEMPORAL_NAMESPACE", "default"),
		CloudWatchNamespace: os.Getenv("PAIRDIFF_CLOUDWATCH_NAMESPACE"),
		AWSRegion:           envOr("AWS_REGION", "us-east-1"),
		AWSProfile:          os.Getenv("AWS_PROFILE"),
		AWSRoleARN:          os.Getenv("PAIRDIFF_AWS_ROLE_ARN"),
	}

	var err error
	if cfg.Limit, err = envInt("PAIRDIFF_LIMIT", 1000); err != nil {
		return Config{}, err
	}
	if cfg.BatchSize, err = envInt("PAIRDIFF_BATCH_SIZE", 100); err != nil {
		return Config{}, err
	}
	if cfg.HostBurst, err = envInt("PAIRDIFF_HOST_BURST", 1); err != nil {
		return Config{}, err
	}
	if cfg.FetchTimeout, err = envDuration("PAIRDIFF_FETCH_TIMEOUT", 30*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.HostRPS, err = envFloat("PAIRDIFF_HOST_RPS", 0); err != nil {
		return Config{}, err
	}
	if cfg.MaxBodyBytes, err = envInt64("PAIRDIFF_MAX_BODY_BYTES", 0); err != nil {
		return Config{}, err
	}
	if cfg.OTelEnabled, err = envBool("PAIRDIFF_OTEL_ENABLED", false); err != nil {
		return Config{}, err
	}
	if cfg.MetricsEnabled, err = envBool("PAIRDIFF_METRICS_ENABLED", false); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the bounds of a loaded or flag-overridden config.
func (c Config) Validate() error {
	if c.Limit <= 0 {
		return fmt.Errorf("config: PAIRDIFF_LIMIT must be positive, got %d", c.Limit)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("config: PAIRDIFF_BATCH_SIZE must be positive, got %d", c.BatchSize)
	}
	if c.FetchTimeout < 0 {
		return fmt.Errorf("config: PAIRDIFF_FETCH_TIMEOUT must not be negative")
	}
	if c.HostRPS < 0 {
		return fmt.Errorf("config: PAIRDIFF_HOST_RPS must not be negative")
	}
	if c.MaxBodyBytes < 0 {
		return fmt.Errorf("config: PAIRDIFF_MAX_BODY_BYTES must not be negative")
	}
	if c.OIDCIssuer != "" && c.OIDCAudience == "" {
		return fmt.Errorf("config: PAIRDIFF_OIDC_AUDIENCE required when PAIRDIFF_OIDC_ISSUER is set")
	}
	return nil
}

// OIDCEnabled reports whether API requests must carry a bearer token.
func (c Config) OIDCEnabled() bool {
	return c.OIDCIssuer != ""
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func envInt64(key string, fallback int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("config: invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func envFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("config: invalid %s %q: %w", key, v, err)
	}
	return f, nil
}

func envBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("config: invalid %s %q: %w", key, v, err)
	}
	return b, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: invalid %s %q: %w", key, v, err)
	}
	return d, nil
}

func parseCORSOrigins(raw string) []string {
	if raw == "" {
		return []string{"*"}
	}
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if t := strings.TrimSpace(o); t != "" {
			origins = append(origins, t)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
