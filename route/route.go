// Package route holds the static table that maps dashboard URL paths to views.
package route

import (
	"errors"
	"fmt"
	"strings"
)

// ViewID identifies a dashboard view.
type ViewID string

// Dashboard views.
const (
	ViewJobs     ViewID = "Jobs"
	ViewTriggers ViewID = "Triggers"
	ViewModels   ViewID = "Models"
)

// Route table errors.
var (
	// ErrDuplicatePath indicates two routes share the same path.
	ErrDuplicatePath = errors.New("route: duplicate path")

	// ErrInvalidPath indicates a path that is empty or not rooted at "/".
	ErrInvalidPath = errors.New("route: invalid path")

	// ErrInvalidView indicates a route without a view.
	ErrInvalidView = errors.New("route: missing view")
)

// Route maps a URL path to a named view.
type Route struct {
	Path string `json:"path"`
	Name string `json:"name"`
	View ViewID `json:"view"`
}

// Table is an ordered, read-only set of routes with unique paths.
type Table struct {
	routes []Route
	index  map[string]int
}

// NewTable builds a table from routes, keeping their order.
func NewTable(routes ...Route) (*Table, error) {
	t := &Table{
		routes: make([]Route, 0, len(routes)),
		index:  make(map[string]int, len(routes)),
	}
	for _, r := range routes {
		if r.Path == "" || !strings.HasPrefix(r.Path, "/") {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPath, r.Path)
		}
		if r.View == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidView, r.Path)
		}
		if _, ok := t.index[r.Path]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicatePath, r.Path)
		}
		t.index[r.Path] = len(t.routes)
		t.routes = append(t.routes, r)
	}
	return t, nil
}

// MustNewTable is like NewTable but panics on error.
func MustNewTable(routes ...Route) *Table {
	t, err := NewTable(routes...)
	if err != nil {
		panic(err)
	}
	return t
}

// Default returns the dashboard route table.
func Default() *Table {
	return MustNewTable(
		Route{Path: "/", Name: "Home", View: ViewJobs},
		Route{Path: "/jobs", Name: "Jobs", View: ViewJobs},
		Route{Path: "/triggers", Name: "Triggers", View: ViewTriggers},
		Route{Path: "/models", Name: "Models", View: ViewModels},
	)
}

// Lookup returns the route registered for path. Matching is exact and
// case-sensitive; "/jobs/" does not match "/jobs".
func (t *Table) Lookup(path string) (Route, bool) {
	i, ok := t.index[path]
	if !ok {
		return Route{}, false
	}
	return t.routes[i], true
}

// Routes returns a copy of the routes in declaration order.
func (t *Table) Routes() []Route {
	out := make([]Route, len(t.routes))
	copy(out, t.routes)
	return out
}

// Views returns the distinct views referenced by the table, in order of first use.
func (t *Table) Views() []ViewID {
	seen := make(map[ViewID]bool, len(t.routes))
	var views []ViewID
	for _, r := range t.routes {
		if seen[r.View] {
			continue
		}
		seen[r.View] = true
		views = append(views, r.View)
	}
	return views
}

// Len returns the number of routes.
func (t *Table) Len() int {
	return len(t.routes)
}
