package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Addr          string        // API bind address, e.g., "127.0.0.1:8080" (Windows) or ":8080" (Docker)
	LogDir        string        // logs directory
	LogLevel      string        // zap level name
	DashboardFile string        // YAML catalog of services and hosted websites
	CheckInterval time.Duration // time between probing passes
	ProbeTimeout  time.Duration // budget for a single probe
	InsecureTLS   bool          // accept self-signed certificates when probing
	AllowedOrigin []string      // CORS origins; empty allows all
	APIRPM        int           // per-IP request rate for /api
	APIBurst      int
	StatusPageURL string // external status page shown in the Status tab; optional
}

const (
	DefaultCheckInterval = 60 * time.Second
	DefaultProbeTimeout  = 5 * time.Second
)

func FromEnv() Config {
	v := viper.New()
	v.AutomaticEnv()

	// Bind address (Windows-friendly default)
	v.SetDefault("ADDR", "127.0.0.1:8080")
	v.SetDefault("LOG_DIR", "logs")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DASHBOARD_FILE", "dashboard.yaml")
	v.SetDefault("CHECK_INTERVAL_MS", int(DefaultCheckInterval/time.Millisecond))
	v.SetDefault("PROBE_TIMEOUT_MS", int(DefaultProbeTimeout/time.Millisecond))
	v.SetDefault("PROBE_INSECURE_TLS", false)
	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("API_RPM", 600)
	v.SetDefault("API_BURST", 100)
	v.SetDefault("STATUS_PAGE_URL", "")

	interval := time.Duration(v.GetInt("CHECK_INTERVAL_MS")) * time.Millisecond
	if interval <= 0 {
		interval = DefaultCheckInterval
	}
	timeout := time.Duration(v.GetInt("PROBE_TIMEOUT_MS")) * time.Millisecond
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}

	return Config{
		Addr:          v.GetString("ADDR"),
		LogDir:        v.GetString("LOG_DIR"),
		LogLevel:      v.GetString("LOG_LEVEL"),
		DashboardFile: v.GetString("DASHBOARD_FILE"),
		CheckInterval: interval,
		ProbeTimeout:  timeout,
		InsecureTLS:   v.GetBool("PROBE_INSECURE_TLS"),
		AllowedOrigin: splitCSV(v.GetString("ALLOWED_ORIGINS")),
		APIRPM:        v.GetInt("API_RPM"),
		APIBurst:      v.GetInt("API_BURST"),
		StatusPageURL: strings.TrimSpace(v.GetString("STATUS_PAGE_URL")),
	}
}

// Validate checks settings that cannot be defaulted away.
func (c Config) Validate() error {
	if c.StatusPageURL != "" && !validURL(c.StatusPageURL) {
		return fmt.Errorf("STATUS_PAGE_URL %q: %w", c.StatusPageURL, ErrInvalidURL)
	}
	return nil
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
