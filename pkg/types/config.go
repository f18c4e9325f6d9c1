package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "paper-pipeline/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// MaxRetries is the number of retries on HTTP 429/503 (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// PubMedConfig holds settings for the E-utilities client.
type PubMedConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// BaseURL is the E-utilities root, without a trailing slash.
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// APIKey is an optional NCBI API key for higher rate limits.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// Tool and Email identify the caller to NCBI.
	Tool  string `json:"tool" yaml:"tool" mapstructure:"tool"`
	Email string `json:"email" yaml:"email" mapstructure:"email"`

	// RetMax caps the number of IDs returned per journal search (default 1000).
	RetMax int `json:"retmax" yaml:"retmax" mapstructure:"retmax"`
}

// CollectConfig holds settings for the per-journal collection loop.
type CollectConfig struct {
	// Delay is the pause between consecutive journals (default 1s).
	Delay time.Duration `json:"delay" yaml:"delay" mapstructure:"delay"`

	// JournalsFile optionally overrides the built-in journal list.
	JournalsFile string `json:"journals_file,omitempty" yaml:"journals_file,omitempty" mapstructure:"journals_file"`
}

// ReportConfig holds settings for the workbook writer.
type ReportConfig struct {
	// OutputDir is where workbooks are written (default "output").
	OutputDir string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`

	// HighlightColor is the ARGB/RGB hex color of highlighted keyword runs.
	HighlightColor string `json:"highlight_color" yaml:"highlight_color" mapstructure:"highlight_color"`
}

// ArchiveConfig holds settings for the run archive.
type ArchiveConfig struct {
	// Path is the SQLite database file (default "archive/papers.db").
	Path string `json:"path" yaml:"path" mapstructure:"path"`

	// Disabled skips archiving collected runs.
	Disabled bool `json:"disabled" yaml:"disabled" mapstructure:"disabled"`
}

// PublishConfig holds settings for uploading reports to S3-compatible storage.
// Publishing is off when Bucket is empty.
type PublishConfig struct {
	Bucket   string `json:"bucket,omitempty" yaml:"bucket,omitempty" mapstructure:"bucket"`
	Prefix   string `json:"prefix,omitempty" yaml:"prefix,omitempty" mapstructure:"prefix"`
	Region   string `json:"region,omitempty" yaml:"region,omitempty" mapstructure:"region"`
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty" mapstructure:"endpoint"`

	AccessKey string `json:"-" yaml:"-" mapstructure:"access_key"`
	SecretKey string `json:"-" yaml:"-" mapstructure:"secret_key"`
}

// Enabled reports whether a bucket is configured.
func (c PublishConfig) Enabled() bool { return c.Bucket != "" }

// ScheduleConfig holds settings for periodic collection.
type ScheduleConfig struct {
	// Cron is a standard 5-field cron expression or descriptor ("@daily").
	Cron string `json:"cron" yaml:"cron" mapstructure:"cron"`

	// Days is the size of the look-back window collected on every tick.
	Days int `json:"days" yaml:"days" mapstructure:"days"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	PubMed   PubMedConfig   `json:"pubmed" yaml:"pubmed" mapstructure:"pubmed"`
	Collect  CollectConfig  `json:"collect" yaml:"collect" mapstructure:"collect"`
	Report   ReportConfig   `json:"report" yaml:"report" mapstructure:"report"`
	Archive  ArchiveConfig  `json:"archive" yaml:"archive" mapstructure:"archive"`
	Publish  PublishConfig  `json:"publish" yaml:"publish" mapstructure:"publish"`
	Schedule ScheduleConfig `json:"schedule" yaml:"schedule" mapstructure:"schedule"`
}
