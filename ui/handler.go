package ui

import (
	"net/http"

	"github.com/youssefsiam38/mfdash/internal/httpmw"
	"github.com/youssefsiam38/mfdash/ui/api"
	"github.com/youssefsiam38/mfdash/ui/frontend"
	"github.com/youssefsiam38/mfdash/ui/service"
)

// UIHandler returns an http.Handler serving the dashboard pages at / and the
// JSON API under /api/. Both read through one cached service over backend.
//
// Usage:
//
//	backend, _ := modelfactory.New(cfg.FrontendEndpoint())
//	http.Handle("/ui/", http.StripPrefix("/ui", ui.UIHandler(backend, &ui.Config{BasePath: "/ui"})))
func UIHandler(backend service.Backend, cfg *Config) http.Handler {
	if cfg == nil {
		cfg = DefaultConfig()
	} else {
		cfg.applyDefaults()
	}

	// Validate configuration (panic on invalid config as this is a programmer error)
	if err := cfg.validate(); err != nil {
		panic(err.Error())
	}

	opts := []service.Option{service.WithCacheTTL(cfg.CacheTTL)}
	if cfg.Observer != nil {
		opts = append(opts, service.WithCacheObserver(cfg.Observer))
	}
	svc := service.New(backend, opts...)

	// Leave the interfaces nil rather than wrapping a nil value.
	var (
		frontendLogger frontend.Logger
		apiLogger      api.Logger
		frontendObs    frontend.Observer
		apiObs         httpmw.Observer
	)
	if cfg.Logger != nil {
		frontendLogger, apiLogger = cfg.Logger, cfg.Logger
	}
	if cfg.Observer != nil {
		frontendObs, apiObs = cfg.Observer, cfg.Observer
	}

	mux := http.NewServeMux()
	mux.Handle("/api/", http.StripPrefix("/api", api.NewRouter(svc, &api.Config{
		FrontendEndpoint: cfg.FrontendEndpoint,
		ReadOnly:         cfg.ReadOnly,
		PageSize:         cfg.PageSize,
		RefreshInterval:  cfg.RefreshInterval,
		Routes:           cfg.Routes,
		Logger:           apiLogger,
		Observer:         apiObs,
	})))
	mux.Handle("/", frontend.NewRouter(svc, &frontend.Config{
		BasePath:         cfg.BasePath,
		FrontendEndpoint: cfg.FrontendEndpoint,
		ReadOnly:         cfg.ReadOnly,
		PageSize:         cfg.PageSize,
		RefreshInterval:  cfg.RefreshInterval,
		Routes:           cfg.Routes,
		Logger:           frontendLogger,
		Observer:         frontendObs,
	}))

	return mux
}
