// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Dashboard DashboardConfig `toml:"dashboard"`
	Log       LogConfig       `toml:"log"`
	Serve     ServeConfig     `toml:"serve"`
}

// DashboardConfig maps dashboard and listing defaults.
type DashboardConfig struct {
	PageSize   *int     `toml:"page-size"`
	Tag        *string  `toml:"tag"`
	Grades     []string `toml:"grades"`
	PlotHeight *int     `toml:"plot-height"`
	Name       *string  `toml:"name"`
}

// LogConfig maps logger settings.
type LogConfig struct {
	Level  *string `toml:"level"`
	Format *string `toml:"format"`
}

// ServeConfig maps HTTP API settings.
type ServeConfig struct {
	Addr *string `toml:"addr"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	if err := cfg.validate(); err != nil {
		return FileConfig{}, err
	}
	return cfg, nil
}

func (c FileConfig) validate() error {
	if c.Dashboard.PageSize != nil && *c.Dashboard.PageSize < 1 {
		return fmt.Errorf("dashboard.page-size must be >= 1")
	}
	if c.Dashboard.PlotHeight != nil && *c.Dashboard.PlotHeight < 1 {
		return fmt.Errorf("dashboard.plot-height must be >= 1")
	}
	if c.Log.Format != nil {
		switch *c.Log.Format {
		case "console", "json":
		default:
			return fmt.Errorf("log.format must be console or json, got %q", *c.Log.Format)
		}
	}
	return nil
}
