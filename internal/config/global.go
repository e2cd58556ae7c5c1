// Package config handles global configuration and the data directory layout.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// GlobalConfig represents configuration stored in ~/.config/affil/config.yml.
type GlobalConfig struct {
	DataDir           string  `yaml:"data_dir,omitempty"`
	PostalCodes       string  `yaml:"postal_codes,omitempty"`
	GeocodeAPIKey     string  `yaml:"geocode_api_key,omitempty"`
	Scale             float64 `yaml:"scale,omitempty"`
	SkipLines         int     `yaml:"skip_lines,omitempty"`
	Concurrency       int     `yaml:"concurrency,omitempty"`
	RequestsPerSecond float64 `yaml:"requests_per_second,omitempty"`
	UserAgent         string  `yaml:"user_agent,omitempty"`
	StrictSymbols     bool    `yaml:"strict_symbols,omitempty"`
}

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "affil"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"

	// DefaultDataDir is used when data_dir is not configured.
	DefaultDataDir = "data"
	// DefaultConcurrency is the number of papers analysed at once.
	DefaultConcurrency = 4
)

// Environment variables that override the config file.
const (
	EnvDataDir       = "AFFIL_DATA_DIR"
	EnvGeocodeAPIKey = "GOOGLE_MAPS_API_KEY"
	EnvConcurrency   = "AFFIL_CONCURRENCY"
)

// globalConfigCache caches the loaded global config.
var globalConfigCache *GlobalConfig

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/affil/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// ReadGlobalConfigFile reads the config file as written, without
// environment overrides. A missing file is an empty config, not an error.
func ReadGlobalConfigFile() (*GlobalConfig, error) {
	var cfg GlobalConfig
	path := GlobalConfigPath()
	if path == "" {
		return &cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("reading global config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing global config: %w", err)
	}
	return &cfg, nil
}

// LoadGlobalConfig loads the global configuration file and applies
// environment overrides. The result is cached.
func LoadGlobalConfig() (*GlobalConfig, error) {
	if globalConfigCache != nil {
		return globalConfigCache, nil
	}

	loaded, err := ReadGlobalConfigFile()
	if err != nil {
		return nil, err
	}
	cfg := *loaded

	cfg.DataDir = ExpandPath(GetConfigValue(EnvDataDir, cfg.DataDir))
	cfg.PostalCodes = ExpandPath(cfg.PostalCodes)
	cfg.GeocodeAPIKey = GetConfigValue(EnvGeocodeAPIKey, cfg.GeocodeAPIKey)
	if v := os.Getenv(EnvConcurrency); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid %s %q: want a positive integer", EnvConcurrency, v)
		}
		cfg.Concurrency = n
	}

	globalConfigCache = &cfg
	return &cfg, nil
}

// ResetGlobalConfigCache clears the cached global config.
// Useful for testing.
func ResetGlobalConfigCache() {
	globalConfigCache = nil
}

// GetConfigValue returns the environment variable envKey if set, else configValue.
func GetConfigValue(envKey, configValue string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	return configValue
}

// DataRoot returns the configured data directory, or DefaultDataDir.
func (c *GlobalConfig) DataRoot() string {
	if c.DataDir == "" {
		return DefaultDataDir
	}
	return c.DataDir
}

// Workers returns the configured concurrency, or DefaultConcurrency.
func (c *GlobalConfig) Workers() int {
	if c.Concurrency < 1 {
		return DefaultConcurrency
	}
	return c.Concurrency
}

// Save writes the config to GlobalConfigPath and clears the cache.
func (c *GlobalConfig) Save() error {
	path := GlobalConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	ResetGlobalConfigCache()
	return nil
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, path[1:])
}
