// Package ui provides the web UI of the Model Factory dashboard.
//
// UIHandler serves two things from one http.Handler:
//   - the server-rendered pages (Jobs, Triggers, Models and their detail
//     pages), routed by a route.Table
//   - a JSON API under /api/ with the same data and mutations
//
// # Quick Start
//
//	backend, err := modelfactory.New("http://192.168.1.102:5000")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	http.ListenAndServe(":8080", ui.UIHandler(backend, &ui.Config{
//	    FrontendEndpoint: backend.Endpoint(),
//	}))
//
// # Configuration
//
// The handler accepts an optional Config struct for customization:
//
//	cfg := &ui.Config{
//	    ReadOnly:        true,             // Hide and reject every mutation
//	    RefreshInterval: 10 * time.Second, // List pages reload this often
//	    CacheTTL:        5 * time.Second,  // Reuse backend reads for this long
//	    PageSize:        50,
//	}
//
// # Mounting
//
// The handler returns a standard http.Handler:
//
//	http.Handle("/ui/", http.StripPrefix("/ui", ui.UIHandler(backend, &ui.Config{BasePath: "/ui"})))
package ui
