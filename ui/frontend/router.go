package frontend

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/youssefsiam38/mfdash/internal/httpmw"
	"github.com/youssefsiam38/mfdash/route"
	"github.com/youssefsiam38/mfdash/ui/service"
)

//go:embed templates/*
var templatesFS embed.FS

//go:embed static/*
var staticFS embed.FS

// Config holds frontend router configuration.
type Config struct {
	// BasePath is the URL prefix where the UI is mounted.
	// All navigation links will be prefixed with this path.
	BasePath string

	// FrontendEndpoint is the backend the data comes from, shown in the footer.
	FrontendEndpoint string

	// ReadOnly disables write operations (tagging, trigger toggles, model
	// promotion and deletion).
	ReadOnly bool

	// PageSize for pagination.
	PageSize int

	// RefreshInterval for auto-refresh of the list views.
	RefreshInterval time.Duration

	// Routes maps paths to views. Defaults to route.Default().
	Routes *route.Table

	// Logger for structured logging.
	Logger Logger

	// Observer receives request and view load metrics.
	Observer Observer
}

// Logger interface for structured logging.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Observer records frontend activity.
type Observer interface {
	ObserveRequest(handler, method string, code int, d time.Duration)
	ViewLoaded(view string, err error)
}

// router holds the frontend router state.
type router struct {
	svc      *service.Service
	config   *Config
	routes   *route.Table
	views    map[route.ViewID]*view
	renderer *renderer
	handler  http.Handler
}

// NewRouter creates a new frontend router. It panics if the route table names
// a view the frontend does not provide.
func NewRouter(svc *service.Service, cfg *Config) http.Handler {
	return newRouter(svc, cfg).handler
}

func newRouter(svc *service.Service, cfg *Config) *router {
	if cfg == nil {
		cfg = &Config{
			PageSize:        25,
			RefreshInterval: 5 * time.Second,
		}
	}
	routes := cfg.Routes
	if routes == nil {
		routes = route.Default()
	}

	// Only the layout is parsed up front. Pages are parsed on first use.
	baseTmpl := template.Must(template.New("").
		Funcs(templateFuncs()).
		ParseFS(templatesFS, "templates/base.html"))

	r := &router{
		svc:      svc,
		config:   cfg,
		routes:   routes,
		views:    newViews(),
		renderer: newRenderer(baseTmpl, templatesFS, cfg, routes),
	}

	mux := http.NewServeMux()

	// Static assets
	staticSub, _ := fs.Sub(staticFS, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticSub))))

	// One page per route table entry, each resolved through the table
	for _, id := range routes.Views() {
		if _, ok := r.views[id]; !ok {
			panic(fmt.Sprintf("frontend: route table names unknown view %q", id))
		}
	}
	for _, rt := range routes.Routes() {
		mux.HandleFunc(routePattern(rt.Path), r.handleView)
	}

	// Detail pages
	mux.HandleFunc("GET /jobs/{id}", r.handleJobDetail)
	mux.HandleFunc("GET /jobs/{id}/log", r.handleJobLog)
	mux.HandleFunc("GET /models/{id}", r.handleModelDetail)

	// Mutations
	mux.HandleFunc("POST /jobs/{id}/tag", r.handleJobTag(true))
	mux.HandleFunc("POST /jobs/{id}/untag", r.handleJobTag(false))
	mux.HandleFunc("POST /triggers/{name}/enable", r.handleTriggerToggle(true))
	mux.HandleFunc("POST /triggers/{name}/disable", r.handleTriggerToggle(false))
	mux.HandleFunc("POST /models/{id}/tag", r.handleModelTag(true))
	mux.HandleFunc("POST /models/{id}/untag", r.handleModelTag(false))
	mux.HandleFunc("POST /models/{id}/promote", r.handleModelPromote)
	mux.HandleFunc("POST /models/{id}/delete", r.handleModelDelete)

	// Everything else
	mux.HandleFunc("/", r.handleNotFound)

	r.handler = withFrontendMiddleware(mux, cfg)
	return r
}

// routePattern turns a table path into an exact-match GET pattern.
func routePattern(path string) string {
	if strings.HasSuffix(path, "/") {
		return "GET " + path + "{$}"
	}
	return "GET " + path
}

// withFrontendMiddleware wraps the handler with frontend-specific middleware.
func withFrontendMiddleware(handler http.Handler, cfg *Config) http.Handler {
	var logger httpmw.Logger
	if cfg.Logger != nil {
		logger = cfg.Logger
	}
	handler = httpmw.Recover(handler, logger, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	})
	if cfg.Observer != nil {
		handler = httpmw.Instrument(handler, cfg.Observer)
	}
	return httpmw.RequestID(handler)
}
