// Package frontend provides the server-rendered pages of the Model Factory
// dashboard.
//
// Pages are html/template files embedded in the binary. The layout is parsed
// when the router is built; each page is parsed the first time it is
// requested and reused afterwards.
//
// # Routes
//
// Views (one per route table entry, exact match):
//   - GET / - Home, the Jobs view
//   - GET /jobs - Jobs list (status, owner, pipeline, tag, limit, offset)
//   - GET /triggers - Triggers list
//   - GET /models - Models list (name, all)
//
// Detail Pages:
//   - GET /jobs/{id} - Job detail
//   - GET /jobs/{id}/log - Job log, live or archived
//   - GET /models/{id} - Model detail
//
// Mutations (403 in read-only mode, 303 back to the page otherwise):
//   - POST /jobs/{id}/tag, POST /jobs/{id}/untag
//   - POST /triggers/{name}/enable, POST /triggers/{name}/disable
//   - POST /models/{id}/tag, POST /models/{id}/untag
//   - POST /models/{id}/promote, POST /models/{id}/delete
//
// Static Assets:
//   - GET /static/* - Embedded CSS
//
// Any other path renders the not-found page.
package frontend
