package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Verify defaults
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 8080)
	}
	if cfg.Upload.MaxConcurrent != 4 {
		t.Errorf("Upload.MaxConcurrent = %d, want %d", cfg.Upload.MaxConcurrent, 4)
	}
	if cfg.Upload.MaxFileSize != 104857600 {
		t.Errorf("Upload.MaxFileSize = %d, want %d", cfg.Upload.MaxFileSize, 104857600)
	}
	if cfg.Rate.RequestsPerMinute != 100 {
		t.Errorf("Rate.RequestsPerMinute = %d, want %d", cfg.Rate.RequestsPerMinute, 100)
	}
	if cfg.Analysis.NullRateCritical != 0.2 {
		t.Errorf("Analysis.NullRateCritical = %g, want %g", cfg.Analysis.NullRateCritical, 0.2)
	}
	if cfg.Analysis.PSIBins != 10 {
		t.Errorf("Analysis.PSIBins = %d, want %d", cfg.Analysis.PSIBins, 10)
	}
	if cfg.Analysis.TopN != 10 {
		t.Errorf("Analysis.TopN = %d, want %d", cfg.Analysis.TopN, 10)
	}
	if cfg.Analysis.CategoricalMaxDistinct != 50 {
		t.Errorf("Analysis.CategoricalMaxDistinct = %d, want %d", cfg.Analysis.CategoricalMaxDistinct, 50)
	}
}

func TestLoad_OverrideDefaults(t *testing.T) {
	os.Setenv("SERVER_PORT", "9090")
	os.Setenv("UPLOAD_MAX_CONCURRENT", "10")
	os.Setenv("LOG_LEVEL", "debug")
	os.Setenv("ANALYSIS_PSI_WARNING", "0.15")
	defer func() {
		os.Unsetenv("SERVER_PORT")
		os.Unsetenv("UPLOAD_MAX_CONCURRENT")
		os.Unsetenv("LOG_LEVEL")
		os.Unsetenv("ANALYSIS_PSI_WARNING")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 9090)
	}
	if cfg.Upload.MaxConcurrent != 10 {
		t.Errorf("Upload.MaxConcurrent = %d, want %d", cfg.Upload.MaxConcurrent, 10)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
	if cfg.Analysis.PSIWarning != 0.15 {
		t.Errorf("Analysis.PSIWarning = %g, want %g", cfg.Analysis.PSIWarning, 0.15)
	}
}

func TestLoad_Duration(t *testing.T) {
	os.Setenv("SERVER_READ_TIMEOUT", "45s")
	os.Setenv("UPLOAD_MAX_WAIT_TIME", "1m30s")
	defer func() {
		os.Unsetenv("SERVER_READ_TIMEOUT")
		os.Unsetenv("UPLOAD_MAX_WAIT_TIME")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.ReadTimeout != 45*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want %v", cfg.Server.ReadTimeout, 45*time.Second)
	}
	if cfg.Upload.MaxWaitTime != 90*time.Second {
		t.Errorf("Upload.MaxWaitTime = %v, want %v", cfg.Upload.MaxWaitTime, 90*time.Second)
	}
}

func TestLoad_InvalidFloat(t *testing.T) {
	os.Setenv("ANALYSIS_NULL_RATE_WARNING", "lots")
	defer os.Unsetenv("ANALYSIS_NULL_RATE_WARNING")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() expected error for non-numeric threshold")
	}
	if !strings.Contains(err.Error(), "ANALYSIS_NULL_RATE_WARNING") {
		t.Errorf("error should mention ANALYSIS_NULL_RATE_WARNING: %v", err)
	}
}

func TestLoad_CommaSeparatedSlice(t *testing.T) {
	os.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 172.16.0.0/12 , 192.168.0.0/16")
	defer os.Unsetenv("TRUSTED_PROXIES")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	expected := []string{"10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"}
	if len(cfg.Security.TrustedProxies) != len(expected) {
		t.Fatalf("TrustedProxies length = %d, want %d", len(cfg.Security.TrustedProxies), len(expected))
	}
	for i, v := range expected {
		if cfg.Security.TrustedProxies[i] != v {
			t.Errorf("TrustedProxies[%d] = %q, want %q", i, cfg.Security.TrustedProxies[i], v)
		}
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = 99999

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error for invalid port")
	}
	if !strings.Contains(err.Error(), "SERVER_PORT") {
		t.Errorf("error should mention SERVER_PORT: %v", err)
	}
}

func TestValidate_UnorderedThresholds(t *testing.T) {
	cfg := validConfig()
	cfg.Analysis.PSIWarning = 0.3 // above critical

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error for warning threshold above critical")
	}
	if !strings.Contains(err.Error(), "ANALYSIS_PSI_CRITICAL") {
		t.Errorf("error should mention ANALYSIS_PSI_CRITICAL: %v", err)
	}
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Level = "verbose"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error for invalid log level")
	}
	if !strings.Contains(err.Error(), "LOG_LEVEL") {
		t.Errorf("error should mention LOG_LEVEL: %v", err)
	}
}

func TestServerAddr(t *testing.T) {
	tests := []struct {
		host string
		port int
		want string
	}{
		{"", 8080, ":8080"},
		{"0.0.0.0", 8080, "0.0.0.0:8080"},
		{"127.0.0.1", 3000, "127.0.0.1:3000"},
		{"localhost", 443, "localhost:443"},
	}

	for _, tt := range tests {
		cfg := &ServerConfig{Host: tt.host, Port: tt.port}
		got := cfg.Addr()
		if got != tt.want {
			t.Errorf("Addr() with host=%q, port=%d = %q, want %q", tt.host, tt.port, got, tt.want)
		}
	}
}

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: 8080, ShutdownTimeout: time.Second},
		Upload: UploadConfig{MaxFileSize: 1, MaxConcurrent: 1, MaxWaitTime: time.Second, Timeout: time.Minute},
		Rate:   RateLimitConfig{Enabled: true, RequestsPerMinute: 100},
		Analysis: AnalysisConfig{
			NullRateCritical:        0.2,
			NullRateWarning:         0.05,
			NullRateMin:             0.01,
			MeanShiftCritical:       3,
			MeanShiftWarning:        1,
			PSIBins:                 10,
			PSICritical:             0.25,
			PSIWarning:              0.1,
			CategoricalMaxFraction:  0.2,
			CategoricalMaxDistinct:  50,
			TopN:                    10,
			MissingCategoryMinShare: 0.05,
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}
