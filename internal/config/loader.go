// Package config provides configuration management for the firmware version extractor.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables overriding config keys.
const EnvPrefix = "FWVERSION"

// Load reads configuration from defaults, an optional YAML file and
// environment variables. Environment variables take precedence over file values.
// Environment variable format: FWVERSION_<SECTION>_<KEY> (e.g., FWVERSION_EXTRACTION_SECTION_NAME)
// An empty configPath means defaults and environment only.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", configPath)
		}

		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults sets default values for all configuration options.
// AutomaticEnv only sees keys viper already knows, so every key gets a default.
func setDefaults(v *viper.Viper) {
	// Extraction defaults
	v.SetDefault("extraction.section_name", ".version")
	v.SetDefault("extraction.min_year", 2020)
	v.SetDefault("extraction.max_year", 2100)
	v.SetDefault("extraction.max_file_size", 256<<20) // 256MB

	// Fetch defaults
	v.SetDefault("fetch.timeout", 30*time.Second)
	v.SetDefault("fetch.retry.max_retries", 3)
	v.SetDefault("fetch.retry.base_delay", 1*time.Second)

	// Report defaults
	v.SetDefault("report.timezone", "UTC")
	v.SetDefault("report.html_template", "")

	// Logging defaults
	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.format", "console")
}
