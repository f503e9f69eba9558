// Package service provides the shared logic behind the dashboard views.
//
// The service layer is HTTP-agnostic and used by both the JSON API and the
// SSR frontend handlers, so both show the same rows.
//
// # Usage
//
//	backend, _ := modelfactory.New(cfg.FrontendEndpoint())
//	svc := service.New(backend, service.WithCacheTTL(5*time.Second))
//
//	// List running jobs owned by alice
//	jobs, err := svc.Jobs(ctx, service.JobListParams{
//	    Status: "running",
//	    Owner:  "alice",
//	    Limit:  25,
//	})
//
// # Design
//
// The service layer:
//   - Uses the Backend interface for every read and write
//   - Returns rows with timestamps and durations already formatted for display
//   - Handles filtering, ordering and pagination, which the backend does not
//   - Caches backend reads for a short TTL and drops entries a write touches
package service
