// Package api provides the JSON API of the Model Factory dashboard.
//
// Every response is an envelope:
//
//	{"data": ..., "error": {"code": "...", "message": "..."}, "meta": {...}}
//
// # Endpoints
//
// Dashboard:
//   - GET /routes - The route table
//   - GET /config - Backend endpoint, read-only flag, refresh interval
//
// Jobs:
//   - GET /jobs - List visible jobs (filtered, paginated)
//   - GET /jobs/{id} - Job detail
//   - GET /jobs/{id}/log - Job log
//   - POST /jobs/{id}/tag - Add a tag ({"tag": "..."})
//   - POST /jobs/{id}/untag - Remove a tag ({"tag": "..."})
//
// Triggers:
//   - GET /triggers - List triggers
//   - POST /triggers/{name}/enable - Enable a trigger
//   - POST /triggers/{name}/disable - Disable a trigger
//
// Models:
//   - GET /models - List models (name, all)
//   - GET /models/{id} - Model detail
//   - POST /models/{id}/tag - Add a tag ({"tag": "..."})
//   - POST /models/{id}/untag - Remove a tag ({"tag": "..."})
//   - POST /models/{id}/promote - Make the model the production model
//   - POST /models/{id}/delete - Delete the model
//
// Mutations answer 403 with code "read_only" when the dashboard is read-only.
package api
