package config

import (
	"fmt"
	"log/slog"
	"time"
)

// Config aggregates the runtime settings of the dashboard process.
type Config struct {
	Listen             string          `mapstructure:"listen"`
	Port               int             `mapstructure:"port"`
	NixosCurrentSystem bool            `mapstructure:"nixos_current_system"`
	RefreshInterval    int             `mapstructure:"refresh_interval"`
	Services           ServiceMap      `mapstructure:"services"`
	ServicesFile       string          `mapstructure:"services_file"`
	HTTP               HTTPConfig      `mapstructure:"http"`
	Log                LogConfig       `mapstructure:"log"`
	Telemetry          TelemetryConfig `mapstructure:"telemetry"`
	UI                 UIConfig        `mapstructure:"ui"`
}

// Service describes one dashboard link.
type Service struct {
	Description string `mapstructure:"description" json:"description" yaml:"description"`
	Route       string `mapstructure:"route" json:"route" yaml:"route"`
}

// ServiceMap maps a service name to its description and route.
type ServiceMap map[string]Service

// HTTPConfig defines server shutdown behavior.
type HTTPConfig struct {
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LogConfig controls slog handler behavior.
type LogConfig struct {
	Level     string `mapstructure:"level"`
	Format    string `mapstructure:"format"`
	AddSource bool   `mapstructure:"add_source"`
}

// TelemetryConfig controls the internal Prometheus endpoint.
type TelemetryConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// UIConfig controls how the front-end assets are served.
type UIConfig struct {
	// Dir overrides the embedded assets with an external directory.
	Dir string `mapstructure:"dir"`
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Listen, c.Port)
}

// Refresh returns the sampling interval as a duration.
func (c *Config) Refresh() time.Duration {
	if c.RefreshInterval <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.RefreshInterval) * time.Second
}

func (c LogConfig) SlogLevel() slog.Level {
	switch c.Level {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error", "err":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
