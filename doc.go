// Package mfdash is the Model Factory dashboard.
//
// The dashboard serves three views over HTTP (Jobs, Triggers and Models),
// rendered server-side from data fetched from the Model Factory frontend
// service. The root package holds the process configuration; the pieces live
// in sub-packages:
//
//   - route: the static path-to-view table
//   - format: query parameter and timestamp/duration helpers
//   - modelfactory: HTTP client for the Model Factory frontend service
//   - ui: the http.Handler serving pages (ui/frontend) and JSON (ui/api)
//
// # Quick Start
//
//	cfg := mfdash.DefaultConfig()
//	backend, _ := modelfactory.New(cfg.FrontendEndpoint())
//
//	http.ListenAndServe(cfg.ListenAddr, ui.UIHandler(backend, &ui.Config{
//	    FrontendEndpoint: cfg.FrontendEndpoint(),
//	}))
//
// # Configuration
//
// Load resolves the configuration from an optional mfdash.yaml, MFDASH_*
// environment variables and command-line flags:
//
//	frontend_endpoint: http://192.168.1.102:5000
//	listen_addr: :8080
//	metrics_addr: :9090
//	read_only: false
//	refresh_interval: 5s
//	page_size: 25
//	logging:
//	  level: info
//	  format: text
//
// MF_FRONTEND_ENDPOINT, read by the Model Factory CLI, is honoured as well.
package mfdash
