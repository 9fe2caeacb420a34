package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Index  IndexConfig  `mapstructure:"index"`
	Report ReportConfig `mapstructure:"report"`
	Log    LogConfig    `mapstructure:"log"`
}

// IndexConfig holds tree indexing configuration
type IndexConfig struct {
	FileName string   `mapstructure:"file_name"` // Listing page written into each directory
	Exclude  []string `mapstructure:"exclude"`   // Glob patterns skipped during the walk
}

// ReportConfig holds run report configuration
type ReportConfig struct {
	Path string `mapstructure:"path"` // Report file (.toml, .yaml or .json); empty disables it
}

// LogConfig holds logging configuration
type LogConfig struct {
	Format string `mapstructure:"format"` // "json", "text" or "auto"
	Level  string `mapstructure:"level"`  // "debug", "info", "warn", "error"
}

// Load reads configuration from defaults, an optional config file,
// environment variables and, when given, command line flags.
// An empty configFile searches the default locations.
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetDefault("index.file_name", "index.html")
	v.SetDefault("index.exclude", []string{})
	v.SetDefault("report.path", "")
	v.SetDefault("log.format", "auto")
	v.SetDefault("log.level", "info")

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("dirindex")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "dirindex"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, using defaults
	}

	// Environment variables override
	v.SetEnvPrefix("DIRINDEX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for key, name := range FlagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("error binding flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// FlagKeys maps configuration keys to the command line flags overriding them.
var FlagKeys = map[string]string{
	"index.file_name": "index-file",
	"index.exclude":   "exclude",
	"report.path":     "report",
	"log.format":      "log-format",
	"log.level":       "log-level",
}
