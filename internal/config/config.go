// Package config provides centralized configuration management for the
// application. It loads configuration from environment variables with
// sensible defaults and validates all settings on startup to fail fast
// on misconfiguration.
package config

import "time"

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Upload   UploadConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
	Analysis AnalysisConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading the request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing the response (default: 60s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"60s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// UploadConfig holds dataset upload and analysis-admission settings.
type UploadConfig struct {
	// MaxFileSize is the maximum allowed upload size in bytes (default: 100MB)
	MaxFileSize int64 `env:"UPLOAD_MAX_FILE_SIZE" default:"104857600"`

	// MaxConcurrent is the maximum number of analyses running in parallel (default: 4)
	MaxConcurrent int `env:"UPLOAD_MAX_CONCURRENT" default:"4"`

	// MaxWaitTime is how long a request waits for an analysis slot (default: 10s)
	MaxWaitTime time.Duration `env:"UPLOAD_MAX_WAIT_TIME" default:"10s"`

	// Timeout is the maximum duration for a single analysis (default: 2m)
	Timeout time.Duration `env:"UPLOAD_TIMEOUT" default:"2m"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// AllowedOrigins is a comma-separated list of CORS origins allowed to
	// call the API. Empty means same-origin only (no CORS headers).
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// AnalysisConfig holds the thresholds and sizes used by the profiling and
// drift-detection engine. All values are fixed at startup; the engine
// itself holds no mutable state.
type AnalysisConfig struct {
	// NullRateCritical is the null-rate delta above which a finding is critical (default: 0.2)
	NullRateCritical float64 `env:"ANALYSIS_NULL_RATE_CRITICAL" default:"0.2"`

	// NullRateWarning is the null-rate delta above which a finding is a warning (default: 0.05)
	NullRateWarning float64 `env:"ANALYSIS_NULL_RATE_WARNING" default:"0.05"`

	// NullRateMin suppresses null-rate deltas at or below this value (default: 0.01)
	NullRateMin float64 `env:"ANALYSIS_NULL_RATE_MIN" default:"0.01"`

	// MeanShiftCritical is the mean shift, in baseline standard deviations,
	// at or above which a finding is critical (default: 3)
	MeanShiftCritical float64 `env:"ANALYSIS_MEAN_SHIFT_CRITICAL" default:"3"`

	// MeanShiftWarning is the mean shift at or above which a finding is a warning (default: 1)
	MeanShiftWarning float64 `env:"ANALYSIS_MEAN_SHIFT_WARNING" default:"1"`

	// PSIBins is the number of equal-width bins fit to the baseline
	// distribution for numeric PSI (default: 10)
	PSIBins int `env:"ANALYSIS_PSI_BINS" default:"10"`

	// PSICritical is the PSI value at or above which a finding is critical (default: 0.25)
	PSICritical float64 `env:"ANALYSIS_PSI_CRITICAL" default:"0.25"`

	// PSIWarning is the PSI value at or above which a finding is a warning (default: 0.1)
	PSIWarning float64 `env:"ANALYSIS_PSI_WARNING" default:"0.1"`

	// CategoricalMaxFraction is the maximum distinct/non-null ratio for a
	// column to infer as categorical (default: 0.2)
	CategoricalMaxFraction float64 `env:"ANALYSIS_CATEGORICAL_MAX_FRACTION" default:"0.2"`

	// CategoricalMaxDistinct is the absolute distinct-value cap for a
	// column to infer as categorical (default: 50)
	CategoricalMaxDistinct int `env:"ANALYSIS_CATEGORICAL_MAX_DISTINCT" default:"50"`

	// TopN is how many of the most frequent values a categorical profile keeps (default: 10)
	TopN int `env:"ANALYSIS_TOP_N" default:"10"`

	// MissingCategoryMinShare is the minimum baseline share for an absent
	// category to be flagged missing (default: 0.05)
	MissingCategoryMinShare float64 `env:"ANALYSIS_MISSING_CATEGORY_MIN_SHARE" default:"0.05"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	if c.Host == "" {
		return ":" + itoa(c.Port)
	}
	return c.Host + ":" + itoa(c.Port)
}

// itoa converts an int to string without importing strconv in this file.
func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	var b [20]byte
	n := len(b)
	neg := i < 0
	if neg {
		i = -i
	}
	for i > 0 {
		n--
		b[n] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		n--
		b[n] = '-'
	}
	return string(b[n:])
}
