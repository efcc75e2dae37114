package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Load reads configuration from defaults, an optional config file and the
// environment, in increasing order of precedence.
//
// The file is taken from path if non-empty, otherwise from the ANSINE_CONFIG
// environment variable, otherwise config.{yaml,json} is searched in the
// working directory and /etc/ansine/. A missing file is not an error; an
// unreadable or unparsable one is.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if path == "" {
		path = os.Getenv("ANSINE_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/ansine/")
	}

	v.SetEnvPrefix("ANSINE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if err := bridgeLegacyKeys(v); err != nil {
		return nil, fmt.Errorf("bridge legacy config keys: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.ServicesFile != "" {
		services, err := loadServicesFile(cfg.ServicesFile)
		if err != nil {
			return nil, err
		}
		if cfg.Services == nil {
			cfg.Services = ServiceMap{}
		}
		for name, svc := range services {
			cfg.Services[name] = svc
		}
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("listen", "127.0.0.1")
	v.SetDefault("port", 3000)
	v.SetDefault("nixos_current_system", false)
	v.SetDefault("refresh_interval", 10)

	v.SetDefault("http.shutdown_timeout", "15s")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("telemetry.enabled", false)
}

// bridgeLegacyKeys maps the camelCase keys of pre-Go JSON config files onto
// the current structure. Viper lowercases keys, so nixosCurrentSystem arrives
// as nixoscurrentsystem. The bridged values are merged at config-file
// precedence, below ANSINE_ env vars and above defaults.
func bridgeLegacyKeys(v *viper.Viper) error {
	mappings := map[string]string{
		"nixoscurrentsystem": "nixos_current_system",
		"refreshinterval":    "refresh_interval",
		"servicesfile":       "services_file",
	}
	bridged := map[string]any{}
	for oldKey, newKey := range mappings {
		if v.InConfig(oldKey) && !v.InConfig(newKey) {
			bridged[newKey] = v.Get(oldKey)
		}
	}
	if len(bridged) == 0 {
		return nil
	}
	return v.MergeConfigMap(bridged)
}

// loadServicesFile reads a standalone YAML mapping of service name to
// description/route. Unlike viper, yaml.v3 preserves the case of map keys,
// so service names render exactly as written.
func loadServicesFile(path string) (ServiceMap, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read services file: %w", err)
	}
	var services ServiceMap
	if err := yaml.Unmarshal(data, &services); err != nil {
		return nil, fmt.Errorf("parse services file %s: %w", path, err)
	}
	return services, nil
}
