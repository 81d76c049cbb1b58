package types

import "time"

// HTTPConfig holds shared settings for outbound HTTP requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "research-hub/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// LogConfig selects the logger flavour.
type LogConfig struct {
	// Env is one of prod, dev or local. prod logs JSON, the others log
	// coloured console lines.
	Env string `json:"env" yaml:"env"`

	// Level overrides the level implied by Env: debug, info, warn, error.
	Level string `json:"level,omitempty" yaml:"level,omitempty"`
}

// ServerConfig holds settings for the serve command.
type ServerConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr"`

	ReadTimeout     time.Duration `json:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout" yaml:"write_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// LinkCheckConfig holds settings for probing reference links.
type LinkCheckConfig struct {
	HTTPConfig `yaml:",inline"`

	// Delay is the pause between consecutive probes. Zero probes back to back.
	Delay time.Duration `json:"delay" yaml:"delay"`

	// MaxRetries is the number of retries on HTTP 429 (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// ExportFormat selects the catalog export format.
type ExportFormat string

const (
	ExportYAML   ExportFormat = "yaml"
	ExportJSON   ExportFormat = "json"
	ExportCSL    ExportFormat = "csl"
	ExportSQLite ExportFormat = "sqlite"
)

// ExportConfig holds settings for the export command.
type ExportConfig struct {
	// OutputDir receives the export files (default "export").
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	Format ExportFormat `json:"format" yaml:"format"`
}

// HubConfig groups every setting of the research-hub binary.
type HubConfig struct {
	// CatalogPath is an optional YAML catalog file. Empty selects the
	// built-in catalog.
	CatalogPath string `json:"catalog" yaml:"catalog"`

	Log    LogConfig       `json:"log" yaml:"log"`
	Server ServerConfig    `json:"server" yaml:"server"`
	Links  LinkCheckConfig `json:"links" yaml:"links"`
	Export ExportConfig    `json:"export" yaml:"export"`
}

// ApplyDefaults fills zero fields with their default values.
func (c *HubConfig) ApplyDefaults() {
	if c.Log.Env == "" {
		c.Log.Env = "local"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ReadTimeout <= 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout <= 0 {
		c.Server.WriteTimeout = 10 * time.Second
	}
	if c.Server.ShutdownTimeout <= 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Links.Timeout <= 0 {
		c.Links.Timeout = 15 * time.Second
	}
	if c.Links.UserAgent == "" {
		c.Links.UserAgent = "research-hub/0.1"
	}
	if c.Links.MaxRetries <= 0 {
		c.Links.MaxRetries = 3
	}
	if c.Export.OutputDir == "" {
		c.Export.OutputDir = "export"
	}
	if c.Export.Format == "" {
		c.Export.Format = ExportYAML
	}
}
