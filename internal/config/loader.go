package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Load reads configuration from environment variables.
// It applies defaults for unset values and validates the result.
// Returns an error if required values are missing or validation fails.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := loadStruct(reflect.ValueOf(cfg).Elem()); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration and panics on error.
// Use this only in main() where early termination is desired.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}

// loadStruct recursively populates struct fields from environment variables.
func loadStruct(v reflect.Value) error {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldVal := v.Field(i)

		// Skip unexported fields
		if !fieldVal.CanSet() {
			continue
		}

		// Recurse into nested structs
		if field.Type.Kind() == reflect.Struct && field.Type != reflect.TypeOf(time.Time{}) {
			if err := loadStruct(fieldVal); err != nil {
				return err
			}
			continue
		}

		// Get tags
		envName := field.Tag.Get("env")
		envAlt := field.Tag.Get("envAlt")
		defaultVal := field.Tag.Get("default")
		required := field.Tag.Get("required") == "true"

		if envName == "" {
			continue
		}

		// Try primary env var, then alternate
		value := os.Getenv(envName)
		if value == "" && envAlt != "" {
			value = os.Getenv(envAlt)
		}

		// Apply default if not set
		if value == "" {
			if required {
				return fmt.Errorf("required environment variable %s is not set", envName)
			}
			value = defaultVal
		}

		if value == "" {
			continue
		}

		// Set the field value
		if err := setField(fieldVal, value); err != nil {
			return fmt.Errorf("invalid value for %s=%q: %w", envName, value, err)
		}
	}

	return nil
}

// setField sets a reflect.Value from a string based on its type.
func setField(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int64:
		// Handle time.Duration specially
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			d, err := time.ParseDuration(value)
			if err != nil {
				return fmt.Errorf("invalid duration: %w", err)
			}
			field.Set(reflect.ValueOf(d))
		} else {
			i, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer: %w", err)
			}
			field.SetInt(i)
		}

	case reflect.Float64:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid float: %w", err)
		}
		field.SetFloat(f)

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %w", err)
		}
		field.SetBool(b)

	case reflect.Slice:
		if field.Type().Elem().Kind() == reflect.String {
			// Split comma-separated values, trim whitespace
			parts := strings.Split(value, ",")
			result := make([]string, 0, len(parts))
			for _, p := range parts {
				p = strings.TrimSpace(p)
				if p != "" {
					result = append(result, p)
				}
			}
			field.Set(reflect.ValueOf(result))
		} else {
			return fmt.Errorf("unsupported slice type: %s", field.Type().Elem().Kind())
		}

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("SERVER_PORT (%d) must be 1-65535", c.Server.Port))
	}
	if c.Server.ReadTimeout < 0 {
		errs = append(errs, "SERVER_READ_TIMEOUT must be non-negative")
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, "SERVER_SHUTDOWN_TIMEOUT must be positive")
	}

	// Upload validation
	if c.Upload.MaxFileSize <= 0 {
		errs = append(errs, "UPLOAD_MAX_FILE_SIZE must be positive")
	}
	if c.Upload.MaxConcurrent <= 0 {
		errs = append(errs, "UPLOAD_MAX_CONCURRENT must be positive")
	}
	if c.Upload.MaxWaitTime <= 0 {
		errs = append(errs, "UPLOAD_MAX_WAIT_TIME must be positive")
	}
	if c.Upload.Timeout <= 0 {
		errs = append(errs, "UPLOAD_TIMEOUT must be positive")
	}

	// Rate limit validation
	if c.Rate.Enabled && c.Rate.RequestsPerMinute <= 0 {
		errs = append(errs, "RATE_LIMIT_REQUESTS_PER_MINUTE must be positive when rate limiting is enabled")
	}

	// Analysis validation: each severity ladder must be ordered
	if c.Analysis.NullRateCritical <= c.Analysis.NullRateWarning {
		errs = append(errs, fmt.Sprintf("ANALYSIS_NULL_RATE_CRITICAL (%g) must be > ANALYSIS_NULL_RATE_WARNING (%g)",
			c.Analysis.NullRateCritical, c.Analysis.NullRateWarning))
	}
	if c.Analysis.NullRateWarning <= c.Analysis.NullRateMin {
		errs = append(errs, fmt.Sprintf("ANALYSIS_NULL_RATE_WARNING (%g) must be > ANALYSIS_NULL_RATE_MIN (%g)",
			c.Analysis.NullRateWarning, c.Analysis.NullRateMin))
	}
	if c.Analysis.NullRateMin < 0 {
		errs = append(errs, "ANALYSIS_NULL_RATE_MIN must be non-negative")
	}
	if c.Analysis.MeanShiftCritical <= c.Analysis.MeanShiftWarning {
		errs = append(errs, fmt.Sprintf("ANALYSIS_MEAN_SHIFT_CRITICAL (%g) must be > ANALYSIS_MEAN_SHIFT_WARNING (%g)",
			c.Analysis.MeanShiftCritical, c.Analysis.MeanShiftWarning))
	}
	if c.Analysis.MeanShiftWarning <= 0 {
		errs = append(errs, "ANALYSIS_MEAN_SHIFT_WARNING must be positive")
	}
	if c.Analysis.PSIBins < 2 {
		errs = append(errs, fmt.Sprintf("ANALYSIS_PSI_BINS (%d) must be at least 2", c.Analysis.PSIBins))
	}
	if c.Analysis.PSICritical <= c.Analysis.PSIWarning {
		errs = append(errs, fmt.Sprintf("ANALYSIS_PSI_CRITICAL (%g) must be > ANALYSIS_PSI_WARNING (%g)",
			c.Analysis.PSICritical, c.Analysis.PSIWarning))
	}
	if c.Analysis.PSIWarning <= 0 {
		errs = append(errs, "ANALYSIS_PSI_WARNING must be positive")
	}
	if c.Analysis.CategoricalMaxFraction <= 0 || c.Analysis.CategoricalMaxFraction > 1 {
		errs = append(errs, fmt.Sprintf("ANALYSIS_CATEGORICAL_MAX_FRACTION (%g) must be in (0, 1]",
			c.Analysis.CategoricalMaxFraction))
	}
	if c.Analysis.CategoricalMaxDistinct <= 0 {
		errs = append(errs, "ANALYSIS_CATEGORICAL_MAX_DISTINCT must be positive")
	}
	if c.Analysis.TopN <= 0 {
		errs = append(errs, "ANALYSIS_TOP_N must be positive")
	}
	if c.Analysis.MissingCategoryMinShare < 0 || c.Analysis.MissingCategoryMinShare > 1 {
		errs = append(errs, fmt.Sprintf("ANALYSIS_MISSING_CATEGORY_MIN_SHARE (%g) must be in [0, 1]",
			c.Analysis.MissingCategoryMinShare))
	}

	// Logging validation
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// String returns a string representation of the config for startup logging.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Config{")
	b.WriteString(fmt.Sprintf("Server: {Host: %q, Port: %d}, ", c.Server.Host, c.Server.Port))
	b.WriteString(fmt.Sprintf("Upload: {MaxFileSize: %d, MaxConcurrent: %d}, ",
		c.Upload.MaxFileSize, c.Upload.MaxConcurrent))
	b.WriteString(fmt.Sprintf("Rate: {Enabled: %v, RequestsPerMinute: %d}, ",
		c.Rate.Enabled, c.Rate.RequestsPerMinute))
	b.WriteString(fmt.Sprintf("Analysis: {PSIBins: %d, TopN: %d}, ",
		c.Analysis.PSIBins, c.Analysis.TopN))
	b.WriteString(fmt.Sprintf("Logging: {Level: %q, Format: %q}",
		c.Logging.Level, c.Logging.Format))
	b.WriteString("}")
	return b.String()
}
