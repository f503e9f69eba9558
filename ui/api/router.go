package api

import (
	"net/http"
	"time"

	"github.com/youssefsiam38/mfdash/internal/httpmw"
	"github.com/youssefsiam38/mfdash/route"
	"github.com/youssefsiam38/mfdash/ui/service"
)

// Config holds API router configuration.
type Config struct {
	// FrontendEndpoint is reported by GET /config.
	FrontendEndpoint string

	// ReadOnly rejects every mutation with 403.
	ReadOnly bool

	// PageSize for pagination.
	PageSize int

	// RefreshInterval is reported by GET /config.
	RefreshInterval time.Duration

	// Routes is reported by GET /routes. Defaults to route.Default().
	Routes *route.Table

	// Logger for structured logging.
	Logger Logger

	// Observer receives request metrics.
	Observer httpmw.Observer
}

// Logger interface for structured logging.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// router holds the API router state.
type router struct {
	svc    *service.Service
	config *Config
	routes *route.Table
}

// NewRouter creates a new API router.
func NewRouter(svc *service.Service, cfg *Config) http.Handler {
	if cfg == nil {
		cfg = &Config{
			PageSize: 25,
		}
	}
	routes := cfg.Routes
	if routes == nil {
		routes = route.Default()
	}

	r := &router{
		svc:    svc,
		config: cfg,
		routes: routes,
	}

	mux := http.NewServeMux()

	// Dashboard
	mux.HandleFunc("GET /routes", r.handleListRoutes)
	mux.HandleFunc("GET /config", r.handleGetConfig)

	// Jobs
	mux.HandleFunc("GET /jobs", r.handleListJobs)
	mux.HandleFunc("GET /jobs/{id}", r.handleGetJob)
	mux.HandleFunc("GET /jobs/{id}/log", r.handleGetJobLog)
	mux.HandleFunc("POST /jobs/{id}/tag", r.handleTagJob(true))
	mux.HandleFunc("POST /jobs/{id}/untag", r.handleTagJob(false))

	// Triggers
	mux.HandleFunc("GET /triggers", r.handleListTriggers)
	mux.HandleFunc("POST /triggers/{name}/enable", r.handleToggleTrigger(true))
	mux.HandleFunc("POST /triggers/{name}/disable", r.handleToggleTrigger(false))

	// Models
	mux.HandleFunc("GET /models", r.handleListModels)
	mux.HandleFunc("GET /models/{id}", r.handleGetModel)
	mux.HandleFunc("POST /models/{id}/tag", r.handleTagModel(true))
	mux.HandleFunc("POST /models/{id}/untag", r.handleTagModel(false))
	mux.HandleFunc("POST /models/{id}/promote", r.handlePromoteModel)
	mux.HandleFunc("POST /models/{id}/delete", r.handleDeleteModel)

	// Everything else
	mux.HandleFunc("/", r.handleNotFound)

	return withMiddleware(mux, cfg)
}

// withMiddleware wraps the handler with common middleware.
func withMiddleware(handler http.Handler, cfg *Config) http.Handler {
	// Add JSON content type
	handler = jsonMiddleware(handler)
	// Add error recovery
	var logger httpmw.Logger
	if cfg.Logger != nil {
		logger = cfg.Logger
	}
	handler = httpmw.Recover(handler, logger, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":"internal_error","message":"internal server error"}}`, http.StatusInternalServerError)
	})
	if cfg.Observer != nil {
		handler = httpmw.Instrument(handler, cfg.Observer)
	}
	return httpmw.RequestID(handler)
}

// jsonMiddleware sets JSON content type for all responses.
func jsonMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}
