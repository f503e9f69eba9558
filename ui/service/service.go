package service

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/youssefsiam38/mfdash/modelfactory"
)

// Backend is the part of the Model Factory frontend service the views use.
// *modelfactory.Client implements it.
type Backend interface {
	ListVisibleJobs(ctx context.Context) ([]*modelfactory.Job, error)
	GetJob(ctx context.Context, jobID string) (*modelfactory.Job, error)
	TagJob(ctx context.Context, jobID, tag string) error
	UntagJob(ctx context.Context, jobID, tag string) error
	GetJobLog(ctx context.Context, jobID string) (string, bool, error)
	GetArchivedJobLog(ctx context.Context, jobID string) (string, error)

	ListTriggers(ctx context.Context) ([]*modelfactory.Trigger, error)
	EnableTrigger(ctx context.Context, name string) error
	DisableTrigger(ctx context.Context, name string) error

	ListModels(ctx context.Context, filter map[string]any) ([]*modelfactory.Model, error)
	GetModel(ctx context.Context, modelID string) (*modelfactory.Model, error)
	TagModel(ctx context.Context, modelID, tag string) error
	UntagModel(ctx context.Context, modelID, tag string) error
	DeleteModel(ctx context.Context, modelID string) error
	PromoteModel(ctx context.Context, modelID string) error
	ListProductionModels(ctx context.Context, names []string) ([]*modelfactory.ProductionModel, error)
}

// CacheObserver is notified of cache lookups.
type CacheObserver interface {
	CacheLookup(kind string, hit bool)
}

// Service provides dashboard view operations.
type Service struct {
	backend  Backend
	cache    *cache.Cache
	observer CacheObserver
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithCacheTTL caches backend reads for ttl. Zero disables caching.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl <= 0 {
			s.cache = nil
			return
		}
		s.cache = cache.New(ttl, 2*ttl)
	}
}

// WithCacheObserver reports cache hits and misses to o.
func WithCacheObserver(o CacheObserver) Option {
	return func(s *Service) {
		s.observer = o
	}
}

// WithClock replaces time.Now, used for the duration of running jobs.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// New creates a new Service reading from backend.
func New(backend Backend, opts ...Option) *Service {
	s := &Service{
		backend: backend,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Cache keys.
const (
	keyJobs          = "jobs"
	keyJobPrefix     = "job:"
	keyTriggers      = "triggers"
	keyModelsVisible = "models:visible"
	keyModelsAll     = "models:all"
	keyModelPrefix   = "model:"
	keyProduction    = "production"
)

// cached returns the value stored under key, or loads, stores and returns it.
func cached[T any](s *Service, kind, key string, load func() (T, error)) (T, error) {
	if s.cache != nil {
		if v, ok := s.cache.Get(key); ok {
			if s.observer != nil {
				s.observer.CacheLookup(kind, true)
			}
			return v.(T), nil
		}
		if s.observer != nil {
			s.observer.CacheLookup(kind, false)
		}
	}

	v, err := load()
	if err != nil {
		var zero T
		return zero, err
	}
	if s.cache != nil {
		s.cache.SetDefault(key, v)
	}
	return v, nil
}

// invalidate drops cache entries.
func (s *Service) invalidate(keys ...string) {
	if s.cache == nil {
		return
	}
	for _, k := range keys {
		s.cache.Delete(k)
	}
}

// Flush drops every cached read.
func (s *Service) Flush() {
	if s.cache != nil {
		s.cache.Flush()
	}
}
