// Package daemon holds the long-running server's configuration.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the full daemon configuration, loaded from
// ~/.xingtu/config.toml when present.
type Config struct {
	API     APIConfig     `toml:"api"`
	Data    DataConfig    `toml:"data"`
	Metrics MetricsConfig `toml:"metrics"`
}

// APIConfig controls the HTTP listener.
type APIConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// DataConfig controls on-disk storage.
type DataConfig struct {
	Dir string `toml:"dir"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool `toml:"enabled"`
}

// DefaultConfig returns the configuration used when no config file exists.
// The API binds loopback only: this is a single-family app, not a service
// to expose.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			Host: "127.0.0.1",
			Port: 7315,
		},
		Data: DataConfig{
			Dir: defaultDataDir(),
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Load reads the config file at path, falling back to DefaultConfig when
// the file does not exist. Fields absent from the file keep their defaults.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		path = DefaultConfigPath()
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// DefaultConfigPath returns ~/.xingtu/config.toml.
func DefaultConfigPath() string {
	return filepath.Join(defaultDataDir(), "config.toml")
}

// Addr returns the host:port the API server should bind.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.API.Host, c.API.Port)
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".xingtu"
	}
	return filepath.Join(home, ".xingtu")
}
