package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Search backend selection values.
const (
	BackendEngine  = "engine"
	BackendYouTube = "youtube"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Engine  EngineConfig  `yaml:"engine"`
	Search  SearchConfig  `yaml:"search"`
	Retry   RetryConfig   `yaml:"retry"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host         string        `yaml:"host" envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port         int           `yaml:"port" envconfig:"SERVER_PORT" default:"8000"`
	ReadTimeout  time.Duration `yaml:"read_timeout" envconfig:"SERVER_READ_TIMEOUT" default:"30s"`
	WriteTimeout time.Duration `yaml:"write_timeout" envconfig:"SERVER_WRITE_TIMEOUT" default:"15m"`
}

// StorageConfig holds filesystem storage configuration.
type StorageConfig struct {
	DownloadDir string `yaml:"download_dir" envconfig:"DOWNLOAD_DIR" default:"downloads"`
	HistoryPath string `yaml:"history_path" envconfig:"HISTORY_PATH" default:"downloads/history.db"`
}

// EngineConfig holds extraction engine configuration.
type EngineConfig struct {
	SocketTimeout time.Duration `yaml:"socket_timeout" envconfig:"ENGINE_SOCKET_TIMEOUT" default:"30s"`
	UserAgent     string        `yaml:"user_agent" envconfig:"ENGINE_USER_AGENT" default:"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"`
	// SkipProtocols lists delivery protocols the engine should not resolve;
	// skipping the segmented ones cuts extraction latency.
	SkipProtocols []string `yaml:"skip_protocols" envconfig:"ENGINE_SKIP_PROTOCOLS" default:"hls,dash"`
	SearchFormat  string   `yaml:"search_format" envconfig:"ENGINE_SEARCH_FORMAT" default:"bestaudio/best"`
	AudioFormat   string   `yaml:"audio_format" envconfig:"ENGINE_AUDIO_FORMAT" default:"mp3"`
	AudioQuality  string   `yaml:"audio_quality" envconfig:"ENGINE_AUDIO_QUALITY" default:"192K"`
	// AutoInstall fetches the yt-dlp binary at startup when missing.
	AutoInstall bool `yaml:"auto_install" envconfig:"ENGINE_AUTO_INSTALL" default:"true"`
}

// SearchConfig selects and configures the search backend.
type SearchConfig struct {
	// Backend is "engine" or "youtube". The two are mutually exclusive in a
	// given deployment.
	Backend           string `yaml:"backend" envconfig:"SEARCH_BACKEND" default:"engine"`
	YouTubeAPIKey     string `yaml:"youtube_api_key" envconfig:"YOUTUBE_API_KEY"`
	DefaultMaxResults int    `yaml:"default_max_results" envconfig:"SEARCH_DEFAULT_MAX_RESULTS" default:"10"`
}

// RetryConfig holds backoff configuration for upstream calls.
type RetryConfig struct {
	MaxAttempts  int           `yaml:"max_attempts" envconfig:"RETRY_MAX_ATTEMPTS" default:"3"`
	InitialDelay time.Duration `yaml:"initial_delay" envconfig:"RETRY_INITIAL_DELAY" default:"2s"`
	// ExtraSignatures extends the built-in set of error-message substrings
	// classified as bot detection.
	ExtraSignatures []string `yaml:"extra_signatures" envconfig:"RETRY_EXTRA_SIGNATURES"`
}

// Load reads configuration from file and environment variables.
// Environment variables override file values.
func Load(configPath string) (*Config, error) {
	cfg := &Config{}

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration values are set.
func (c *Config) Validate() error {
	switch c.Search.Backend {
	case BackendEngine:
	case BackendYouTube:
		if c.Search.YouTubeAPIKey == "" {
			return fmt.Errorf("YOUTUBE_API_KEY is required when SEARCH_BACKEND=youtube")
		}
	default:
		return fmt.Errorf("unknown search backend %q", c.Search.Backend)
	}
	if c.Storage.DownloadDir == "" {
		return fmt.Errorf("DOWNLOAD_DIR is required")
	}
	if c.Retry.MaxAttempts <= 0 {
		return fmt.Errorf("RETRY_MAX_ATTEMPTS must be positive")
	}
	return nil
}

// Address returns the server address in host:port format.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
