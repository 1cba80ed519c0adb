package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// HTTPConfig holds listen settings for the dashboard server.
type HTTPConfig struct {
	Port string `yaml:"port" env:"METERWATCH_HTTP_PORT"`
}

// UpstreamConfig points at the external telemetry service.
type UpstreamConfig struct {
	BaseURL        string `yaml:"baseUrl" env:"METERWATCH_UPSTREAM_BASE_URL"`
	WSURL          string `yaml:"wsUrl" env:"METERWATCH_UPSTREAM_WS_URL"`
	TimeoutSeconds int    `yaml:"timeoutSeconds" env:"METERWATCH_UPSTREAM_TIMEOUT"`
}

// DashboardConfig tunes the live view behaviour.
type DashboardConfig struct {
	DefaultMeter       string `yaml:"defaultMeter" env:"METERWATCH_DEFAULT_METER"`
	DefaultPIN         string `yaml:"defaultPin" env:"METERWATCH_DEFAULT_PIN"`
	RecentLimit        int    `yaml:"recentLimit" env:"METERWATCH_RECENT_LIMIT"`
	ReconcileSeconds   int    `yaml:"reconcileSeconds" env:"METERWATCH_RECONCILE_SECONDS"`
	SessionIdleSeconds int    `yaml:"sessionIdleSeconds" env:"METERWATCH_SESSION_IDLE_SECONDS"`
}

// Config defines meterwatch configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Upstream  UpstreamConfig  `yaml:"upstream"`
	Dashboard DashboardConfig `yaml:"dashboard"`
}

// Load reads configuration via the shared hydrate helper.
func Load() (*Config, error) {
	cfg := &Config{
		HTTP: HTTPConfig{Port: "8080"},
		Upstream: UpstreamConfig{
			TimeoutSeconds: 10,
		},
		Dashboard: DashboardConfig{
			DefaultMeter:       "MED-001A",
			DefaultPIN:         "1111",
			RecentLimit:        10,
			ReconcileSeconds:   60,
			SessionIdleSeconds: 300,
		},
	}

	if err := hydrate(cfg); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.Upstream.BaseURL) == "" {
		return nil, errors.New("config: upstream base url required")
	}
	cfg.Upstream.BaseURL = strings.TrimRight(cfg.Upstream.BaseURL, "/")
	if strings.TrimSpace(cfg.Upstream.WSURL) == "" {
		cfg.Upstream.WSURL = deriveWSURL(cfg.Upstream.BaseURL)
	}
	cfg.Upstream.WSURL = strings.TrimRight(cfg.Upstream.WSURL, "/")

	return cfg, nil
}

// HTTPAddress returns :port style.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// RequestTimeout returns the upstream request timeout as duration.
func (c *Config) RequestTimeout() time.Duration {
	if c.Upstream.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.Upstream.TimeoutSeconds) * time.Second
}

// ReconcileInterval returns the poller period.
func (c *Config) ReconcileInterval() time.Duration {
	if c.Dashboard.ReconcileSeconds <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.Dashboard.ReconcileSeconds) * time.Second
}

// SessionIdle returns how long an unread session lives before teardown.
func (c *Config) SessionIdle() time.Duration {
	if c.Dashboard.SessionIdleSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.Dashboard.SessionIdleSeconds) * time.Second
}

func deriveWSURL(baseURL string) string {
	switch {
	case strings.HasPrefix(baseURL, "https://"):
		return "wss://" + strings.TrimPrefix(baseURL, "https://")
	case strings.HasPrefix(baseURL, "http://"):
		return "ws://" + strings.TrimPrefix(baseURL, "http://")
	default:
		return baseURL
	}
}
