// Package config provides configuration management for the firmware version extractor.
package config

import "time"

// Config is the root configuration structure.
type Config struct {
	Extraction ExtractionConfig `mapstructure:"extraction"`
	Fetch      FetchConfig      `mapstructure:"fetch"`
	Report     ReportConfig     `mapstructure:"report"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// ExtractionConfig controls how version records are located and validated.
type ExtractionConfig struct {
	SectionName string `mapstructure:"section_name" validate:"required,startswith=."` // ELF section name
	MinYear     int    `mapstructure:"min_year" validate:"gte=1970,lte=9999"`         // Oldest plausible build year
	MaxYear     int    `mapstructure:"max_year" validate:"gte=1970,lte=9999"`         // Newest plausible build year
	MaxFileSize int64  `mapstructure:"max_file_size" validate:"gte=0"`                // Bytes, 0 = unlimited
}

// FetchConfig contains settings for downloading firmware over HTTP.
type FetchConfig struct {
	Timeout time.Duration     `mapstructure:"timeout"`
	Retry   RetryConfig       `mapstructure:"retry"`
	Headers map[string]string `mapstructure:"headers"` // Extra request headers (e.g. Authorization)
}

// RetryConfig defines retry behavior for HTTP requests.
type RetryConfig struct {
	MaxRetries int           `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	BaseDelay  time.Duration `mapstructure:"base_delay"`
}

// ReportConfig contains configurations for exported report files.
type ReportConfig struct {
	Timezone     string `mapstructure:"timezone" validate:"timezone"`
	HTMLTemplate string `mapstructure:"html_template"`
}

// LoggingConfig contains configurations for logging.
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
}
