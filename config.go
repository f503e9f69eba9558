package mfdash

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Default configuration values.
const (
	DefaultFrontendEndpoint = "http://192.168.1.102:5000"
	DefaultListenAddr       = ":8080"
	DefaultMetricsAddr      = ":9090"
	DefaultRefreshInterval  = 5 * time.Second
	DefaultPageSize         = 25
	DefaultRequestTimeout   = 30 * time.Second
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "text"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "MFDASH"

// LegacyEndpointEnv is the variable the Model Factory CLI reads its frontend
// endpoint from. Load honours it too.
const LegacyEndpointEnv = "MF_FRONTEND_ENDPOINT"

// Config is the dashboard process configuration. It is resolved once at
// start-up and passed down to the components that need it.
type Config struct {
	// Endpoint is the base URL of the Model Factory frontend service.
	Endpoint string `mapstructure:"frontend_endpoint"`

	// ListenAddr is the address the dashboard listens on.
	ListenAddr string `mapstructure:"listen_addr"`

	// MetricsAddr serves Prometheus metrics. Empty disables the metrics server.
	MetricsAddr string `mapstructure:"metrics_addr"`

	// BasePath is the URL prefix the dashboard is mounted under, e.g. "/mf".
	BasePath string `mapstructure:"base_path"`

	// ReadOnly disables tagging, trigger toggles and model actions.
	ReadOnly bool `mapstructure:"read_only"`

	// RefreshInterval is the page auto-refresh period.
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`

	// CacheTTL bounds how stale backend reads may be. Defaults to RefreshInterval.
	CacheTTL time.Duration `mapstructure:"cache_ttl"`

	// PageSize is the default number of jobs per page.
	PageSize int `mapstructure:"page_size"`

	// RequestTimeout bounds each backend call.
	RequestTimeout time.Duration `mapstructure:"request_timeout"`

	Logging LoggingConfig `mapstructure:"logging"`
}

// LoggingConfig selects the log level and output format.
type LoggingConfig struct {
	// Level is a logrus level name: debug, info, warn, error.
	Level string `mapstructure:"level"`
	// Format is either "text" or "json".
	Format string `mapstructure:"format"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Endpoint:        DefaultFrontendEndpoint,
		ListenAddr:      DefaultListenAddr,
		MetricsAddr:     DefaultMetricsAddr,
		RefreshInterval: DefaultRefreshInterval,
		CacheTTL:        DefaultRefreshInterval,
		PageSize:        DefaultPageSize,
		RequestTimeout:  DefaultRequestTimeout,
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// FrontendEndpoint returns the backend base URL without a trailing slash.
func (c *Config) FrontendEndpoint() string {
	if c.Endpoint == "" {
		return DefaultFrontendEndpoint
	}
	return strings.TrimRight(c.Endpoint, "/")
}

// ApplyDefaults fills in zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = DefaultFrontendEndpoint
	}
	if c.ListenAddr == "" {
		c.ListenAddr = DefaultListenAddr
	}
	if c.RefreshInterval == 0 {
		c.RefreshInterval = DefaultRefreshInterval
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = c.RefreshInterval
	}
	if c.PageSize == 0 {
		c.PageSize = DefaultPageSize
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
	if c.Logging.Format == "" {
		c.Logging.Format = DefaultLogFormat
	}
	c.BasePath = strings.TrimRight(c.BasePath, "/")
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	u, err := url.Parse(c.FrontendEndpoint())
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: frontend_endpoint %q is not an http(s) URL", ErrInvalidConfig, c.Endpoint)
	}
	if c.BasePath != "" && !strings.HasPrefix(c.BasePath, "/") {
		return fmt.Errorf("%w: base_path %q must start with /", ErrInvalidConfig, c.BasePath)
	}
	if c.PageSize < 1 {
		return fmt.Errorf("%w: page_size must be positive", ErrInvalidConfig)
	}
	if c.RefreshInterval < time.Second {
		return fmt.Errorf("%w: refresh_interval must be at least 1s", ErrInvalidConfig)
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("%w: cache_ttl must not be negative", ErrInvalidConfig)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("%w: request_timeout must be positive", ErrInvalidConfig)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: logging.format %q must be text or json", ErrInvalidConfig, c.Logging.Format)
	}
	return nil
}

// Load reads the configuration from v. When configFile is empty, an optional
// mfdash.yaml is searched in the working directory and /etc/mfdash.
// Environment variables use the MFDASH_ prefix (MFDASH_FRONTEND_ENDPOINT,
// MFDASH_LOGGING_LEVEL, ...); MF_FRONTEND_ENDPOINT is accepted as well.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	def := DefaultConfig()
	v.SetDefault("frontend_endpoint", def.Endpoint)
	v.SetDefault("listen_addr", def.ListenAddr)
	v.SetDefault("metrics_addr", def.MetricsAddr)
	v.SetDefault("base_path", def.BasePath)
	v.SetDefault("read_only", def.ReadOnly)
	v.SetDefault("refresh_interval", def.RefreshInterval)
	v.SetDefault("cache_ttl", time.Duration(0))
	v.SetDefault("page_size", def.PageSize)
	v.SetDefault("request_timeout", def.RequestTimeout)
	v.SetDefault("logging.level", def.Logging.Level)
	v.SetDefault("logging.format", def.Logging.Format)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("frontend_endpoint", EnvPrefix+"_FRONTEND_ENDPOINT", LegacyEndpointEnv); err != nil {
		return nil, err
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("mfdash")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/mfdash")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
