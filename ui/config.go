package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/youssefsiam38/mfdash/route"
	"github.com/youssefsiam38/mfdash/ui/service"
)

// Default configuration values.
const (
	DefaultRefreshInterval = 5 * time.Second
	DefaultPageSize        = 25
)

// Config holds UI package configuration.
type Config struct {
	// FrontendEndpoint is the Model Factory frontend service the data comes
	// from. It is only displayed; the backend passed to UIHandler does the
	// fetching.
	FrontendEndpoint string

	// BasePath is the URL prefix where the UI is mounted.
	// For example, if mounted at "/ui/", set BasePath to "/ui".
	// All navigation links will be prefixed with this path.
	// Defaults to empty string (root mount).
	BasePath string

	// ReadOnly disables write operations (tags, trigger toggles, model
	// promotion and deletion).
	// Useful for monitoring-only deployments.
	ReadOnly bool

	// Logger for structured logging.
	// If nil, logging is disabled.
	Logger Logger

	// Observer receives request, view load and cache metrics.
	// *metrics.Metrics implements it. If nil, nothing is recorded.
	Observer Observer

	// RefreshInterval for auto-refresh of the list views.
	// Defaults to 5 seconds.
	RefreshInterval time.Duration

	// CacheTTL is how long backend reads are reused.
	// Defaults to RefreshInterval. A negative value disables caching.
	CacheTTL time.Duration

	// PageSize for pagination.
	// Defaults to 25.
	PageSize int

	// Routes maps paths to views.
	// Defaults to route.Default().
	Routes *route.Table
}

// Logger interface for structured logging.
// Compatible with logging.Adapt.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Observer records dashboard activity.
type Observer interface {
	ObserveRequest(handler, method string, code int, d time.Duration)
	ViewLoaded(view string, err error)
	CacheLookup(kind string, hit bool)
}

// DefaultConfig returns a new Config with default values.
func DefaultConfig() *Config {
	return &Config{
		RefreshInterval: DefaultRefreshInterval,
		CacheTTL:        DefaultRefreshInterval,
		PageSize:        DefaultPageSize,
		Routes:          route.Default(),
	}
}

// applyDefaults fills in default values for zero-valued fields.
func (c *Config) applyDefaults() {
	if c.RefreshInterval == 0 {
		c.RefreshInterval = DefaultRefreshInterval
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = c.RefreshInterval
	}
	if c.PageSize == 0 {
		c.PageSize = DefaultPageSize
	}
	if c.Routes == nil {
		c.Routes = route.Default()
	}
}

// validate checks the configuration for errors.
func (c *Config) validate() error {
	if c.PageSize < service.MinPageLimit || c.PageSize > service.MaxPageLimit {
		return fmt.Errorf("%w: page size %d out of range", ErrInvalidConfig, c.PageSize)
	}
	if c.RefreshInterval < time.Second {
		return fmt.Errorf("%w: refresh interval %s below 1s", ErrInvalidConfig, c.RefreshInterval)
	}
	if c.BasePath != "" && (!strings.HasPrefix(c.BasePath, "/") || strings.HasSuffix(c.BasePath, "/")) {
		return fmt.Errorf("%w: base path %q must start and not end with /", ErrInvalidConfig, c.BasePath)
	}
	return nil
}
