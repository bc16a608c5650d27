package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server  ServerConfig   `yaml:"server"`
	Assets  AssetsConfig   `yaml:"assets"`
	Logging *LoggingConfig `yaml:"logging,omitempty"`
	Metrics *MetricsConfig `yaml:"metrics,omitempty"`
}

// ServerConfig represents server-specific configuration
type ServerConfig struct {
	Mode      string      `yaml:"mode"`       // "stdio" or "http" (default: "http")
	Name      string      `yaml:"name"`       // Default: "pizzaz-mcp"
	Version   string      `yaml:"version"`    // Default: "0.1.0"
	PublicURL string      `yaml:"public_url"` // Optional, overrides the request origin in widget markup
	HTTP      *HTTPConfig `yaml:"http,omitempty"`
}

// HTTPConfig represents HTTP server configuration
type HTTPConfig struct {
	Host     string `yaml:"host"`     // Default: "0.0.0.0"
	Port     int    `yaml:"port"`     // Default: 8080
	Stateful bool   `yaml:"stateful"` // Issue and require Mcp-Session-Id (default: false)
}

// AssetsConfig represents the static asset store configuration
type AssetsConfig struct {
	Backend      string         `yaml:"backend"` // "dir", "bolt", or "origin" (default: "dir")
	Dir          string         `yaml:"dir"`     // Default: "assets"
	Bolt         BoltConfig     `yaml:"bolt"`
	Origin       OriginConfig   `yaml:"origin"`
	Manifest     ManifestConfig `yaml:"manifest"`
	FallbackHash string         `yaml:"fallback_hash"` // Default: "2d2b"
}

// BoltConfig represents the BoltDB asset store
type BoltConfig struct {
	DBPath    string `yaml:"db_path"`    // Required for the bolt backend
	Bucket    string `yaml:"bucket"`     // Default: "assets"
	ImportDir string `yaml:"import_dir"` // Optional, copied into the store at startup
}

// OriginConfig represents an upstream static host
type OriginConfig struct {
	URL     string        `yaml:"url"`     // Required for the origin backend
	Timeout time.Duration `yaml:"timeout"` // Default: 10s
}

// ManifestConfig says where the asset manifest is read from
type ManifestConfig struct {
	Path string `yaml:"path"` // Takes precedence over Env when set
	Env  string `yaml:"env"`  // Default: "__STATIC_CONTENT_MANIFEST"
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`  // "info", "debug", or "trace" (default: "info")
	Format string `yaml:"format"` // "text" or "json" (default: "text")
}

// MetricsConfig represents the Prometheus endpoint
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"` // Default: "/metrics"
}

var fallbackHashPattern = regexp.MustCompile(`^[a-z0-9]{4,}$`)

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return LoadFromBytes(data)
}

// LoadFromBytes parses configuration from a YAML byte slice
func LoadFromBytes(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromString parses configuration from a YAML string
func LoadFromString(yamlContent string) (*Config, error) {
	return LoadFromBytes([]byte(yamlContent))
}

// NewDefaultConfig creates a Config with all defaults applied
func NewDefaultConfig() *Config {
	cfg := &Config{Metrics: &MetricsConfig{Enabled: true}}
	// The zero config always validates
	_ = cfg.applyDefaults()
	return cfg
}

func (cfg *Config) applyDefaults() error {
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = "http"
	}
	if cfg.Server.Name == "" {
		cfg.Server.Name = "pizzaz-mcp"
	}
	if cfg.Server.Version == "" {
		cfg.Server.Version = "0.1.0"
	}

	switch cfg.Server.Mode {
	case "http":
		if cfg.Server.HTTP == nil {
			cfg.Server.HTTP = &HTTPConfig{}
		}
		if cfg.Server.HTTP.Host == "" {
			cfg.Server.HTTP.Host = "0.0.0.0"
		}
		if cfg.Server.HTTP.Port == 0 {
			cfg.Server.HTTP.Port = 8080
		}
	case "stdio":
	default:
		return fmt.Errorf("unknown server mode: %q", cfg.Server.Mode)
	}

	if err := cfg.Assets.applyDefaults(); err != nil {
		return err
	}

	if cfg.Logging == nil {
		cfg.Logging = &LoggingConfig{}
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}

	if cfg.Metrics == nil {
		cfg.Metrics = &MetricsConfig{Enabled: true}
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}

	return nil
}

func (a *AssetsConfig) applyDefaults() error {
	if a.Backend == "" {
		a.Backend = "dir"
	}

	switch a.Backend {
	case "dir":
		if a.Dir == "" {
			a.Dir = "assets"
		}
	case "bolt":
		if a.Bolt.DBPath == "" {
			return fmt.Errorf("assets.bolt.db_path is required for the bolt backend")
		}
		if a.Bolt.Bucket == "" {
			a.Bolt.Bucket = "assets"
		}
	case "origin":
		if a.Origin.URL == "" {
			return fmt.Errorf("assets.origin.url is required for the origin backend")
		}
		if a.Origin.Timeout == 0 {
			a.Origin.Timeout = 10 * time.Second
		}
	default:
		return fmt.Errorf("unknown asset backend: %q", a.Backend)
	}

	if a.Manifest.Path == "" && a.Manifest.Env == "" {
		a.Manifest.Env = "__STATIC_CONTENT_MANIFEST"
	}

	if a.FallbackHash == "" {
		a.FallbackHash = "2d2b"
	}
	if !fallbackHashPattern.MatchString(a.FallbackHash) {
		return fmt.Errorf("assets.fallback_hash must be 4 or more lowercase alphanumerics, got %q", a.FallbackHash)
	}

	return nil
}
