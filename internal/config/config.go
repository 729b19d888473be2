// Package config provides configuration management for iconvault using Viper.
package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/iconvault/iconvault/internal/paths"
)

// AppName is the application name used for config file naming.
const AppName = "iconvault"

// DefaultRetentionCount is the default number of archive entries kept by
// retention cleanup.
const DefaultRetentionCount = 10

// Config represents the top-level configuration structure.
type Config struct {
	Version        int    `mapstructure:"version" yaml:"version"`
	BackupDir      string `mapstructure:"backup_dir" yaml:"backup_dir"`
	StagingDir     string `mapstructure:"staging_dir" yaml:"staging_dir"`
	StorePath      string `mapstructure:"store_path" yaml:"store_path"`
	RetentionCount int    `mapstructure:"retention_count" yaml:"retention_count"`
}

// Init initializes Viper with default configuration.
// Call this once at application startup before accessing config values.
func Init() {
	// Config file settings
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Search paths (in order of precedence)
	viper.AddConfigPath(".") // Current directory
	viper.AddConfigPath(paths.ConfigDir())

	// Environment variable support
	viper.SetEnvPrefix("ICONVAULT")
	viper.AutomaticEnv()

	// Defaults
	viper.SetDefault("version", 1)
	viper.SetDefault("backup_dir", paths.BackupDir())
	viper.SetDefault("staging_dir", paths.StagingDir())
	viper.SetDefault("store_path", paths.StorePath())
	viper.SetDefault("retention_count", DefaultRetentionCount)
}

// Load reads the configuration file.
// If path is provided, it reads from that specific file.
// If path is empty, it searches in the default locations.
// Returns the loaded configuration or default values if no file is found (when path is empty).
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		// If config file not found...
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// If user specified a path, this is an error
			if path != "" {
				return nil, fmt.Errorf("config file not found at %s: %w", path, err)
			}
			// Otherwise (implicit load), it's fine to use defaults
		} else {
			// Real read error (parsing, permissions, etc)
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Path returns the path of the config file in use, or the default location
// when no file has been loaded.
func Path() string {
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	return filepath.Join(paths.ConfigDir(), "config.yaml")
}
