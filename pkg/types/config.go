// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "paperfetch/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// MaxRetries bounds retries on HTTP 429 and 503 responses. Zero selects
	// the default of 3; a negative value disables retries.
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// MetadataFormat selects how fetched metadata is persisted next to the PDFs.
type MetadataFormat string

const (
	MetadataNone   MetadataFormat = "none"
	MetadataYAML   MetadataFormat = "yaml"
	MetadataSQLite MetadataFormat = "sqlite"
)

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error (default info).
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format is "text" or "json".
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// FetchConfig holds settings for the fetch stage.
type FetchConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// PDFDir receives downloaded PDFs.
	PDFDir string `json:"pdf_dir" yaml:"pdf_dir" mapstructure:"pdf_dir"`

	// MetadataDir receives metadata sidecars when MetadataFormat is not none.
	MetadataDir string `json:"metadata_dir" yaml:"metadata_dir" mapstructure:"metadata_dir"`

	// MetadataFormat selects the sidecar writer (default none).
	MetadataFormat MetadataFormat `json:"metadata_format" yaml:"metadata_format" mapstructure:"metadata_format"`
}

// Config is the top-level configuration file layout.
type Config struct {
	Fetch   FetchConfig   `json:"fetch" yaml:"fetch" mapstructure:"fetch"`
	Logging LoggingConfig `json:"logging" yaml:"logging" mapstructure:"logging"`
}

// DefaultConfig returns the configuration used when no file or flag
// overrides a value.
func DefaultConfig() Config {
	return Config{
		Fetch: FetchConfig{
			HTTPConfig: HTTPConfig{
				Timeout:    60 * time.Second,
				UserAgent:  "paperfetch/0.1",
				MaxRetries: 3,
			},
			PDFDir:         "papers/pdf",
			MetadataDir:    "papers/metadata",
			MetadataFormat: MetadataNone,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
