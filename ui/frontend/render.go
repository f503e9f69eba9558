package frontend

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"

	jsoniter "github.com/json-iterator/go"

	"github.com/youssefsiam38/mfdash/format"
	"github.com/youssefsiam38/mfdash/internal/httpmw"
	"github.com/youssefsiam38/mfdash/route"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// pageState is the load state of a page template.
type pageState int32

const (
	pageNotLoaded pageState = iota
	pageLoaded
	pageFailed
)

func (s pageState) String() string {
	switch s {
	case pageLoaded:
		return "loaded"
	case pageFailed:
		return "failed"
	default:
		return "not loaded"
	}
}

// page is a page template parsed at most once, on first use.
type page struct {
	once  sync.Once
	state atomic.Int32
	tmpl  *template.Template
	err   error
}

// pageNames lists every page template under templates/.
var pageNames = []string{
	"jobs.html",
	"job_detail.html",
	"job_log.html",
	"triggers.html",
	"models.html",
	"model_detail.html",
	"notfound.html",
	"error.html",
}

// renderer handles template rendering.
type renderer struct {
	baseTemplate *template.Template // Base template with layout and nav
	templatesFS  fs.FS              // Embedded filesystem for page templates
	config       *Config
	nav          []route.Route
	pages        map[string]*page
}

// newRenderer creates a new renderer.
func newRenderer(baseTemplate *template.Template, templatesFS fs.FS, cfg *Config, routes *route.Table) *renderer {
	r := &renderer{
		baseTemplate: baseTemplate,
		templatesFS:  templatesFS,
		config:       cfg,
		nav:          make([]route.Route, 0, routes.Len()),
		pages:        make(map[string]*page, len(pageNames)),
	}
	r.nav = append(r.nav, routes.Routes()...)
	for _, name := range pageNames {
		r.pages[name] = &page{}
	}
	return r
}

// PageData contains common data for all pages.
type PageData struct {
	Title            string
	BasePath         string
	CurrentPath      string
	FrontendEndpoint string
	RequestID        string
	ReadOnly         bool
	RefreshInterval  int // in seconds, 0 disables auto-refresh
	Nav              []NavItem
	Data             any
}

// NavItem is a navigation link.
type NavItem struct {
	Name   string
	Path   string
	Active bool
}

// template returns the named page, parsing it on the first call. Concurrent
// first calls parse once; a parse error is kept and returned every time.
func (r *renderer) template(name string) (*template.Template, error) {
	p, ok := r.pages[name]
	if !ok {
		return nil, fmt.Errorf("unknown page template %s", name)
	}
	p.once.Do(func() {
		p.tmpl, p.err = r.parse(name)
		if p.err != nil {
			p.state.Store(int32(pageFailed))
		} else {
			p.state.Store(int32(pageLoaded))
		}
		if r.config.Observer != nil {
			r.config.Observer.ViewLoaded(strings.TrimSuffix(name, ".html"), p.err)
		}
		if r.config.Logger != nil {
			r.config.Logger.Debug("page template loaded", "page", name, "ok", p.err == nil)
		}
	})
	return p.tmpl, p.err
}

// state reports whether the named page has been loaded.
func (r *renderer) state(name string) pageState {
	p, ok := r.pages[name]
	if !ok {
		return pageNotLoaded
	}
	return pageState(p.state.Load())
}

// parse clones the base template and parses the page template into it,
// avoiding conflicts between "content" blocks in different pages.
func (r *renderer) parse(name string) (*template.Template, error) {
	tmpl, err := r.baseTemplate.Clone()
	if err != nil {
		return nil, fmt.Errorf("clone template: %w", err)
	}
	pageTemplatePath := "templates/" + name
	if _, err := tmpl.ParseFS(r.templatesFS, pageTemplatePath); err != nil {
		return nil, fmt.Errorf("parse page template %s: %w", pageTemplatePath, err)
	}
	return tmpl, nil
}

// render renders a page inside the layout. The page is rendered to a buffer
// first so a template error never leaves a half-written page behind.
func (r *renderer) render(w http.ResponseWriter, req *http.Request, status int, name, title string, refresh bool, data any) error {
	tmpl, err := r.template(name)
	if err != nil {
		return err
	}

	pageData := PageData{
		Title:            title,
		BasePath:         r.config.BasePath,
		CurrentPath:      req.URL.Path,
		FrontendEndpoint: r.config.FrontendEndpoint,
		RequestID:        httpmw.RequestIDFrom(req.Context()),
		ReadOnly:         r.config.ReadOnly,
		Nav:              r.navItems(req.URL.Path),
		Data:             data,
	}
	if refresh {
		pageData.RefreshInterval = int(r.config.RefreshInterval.Seconds())
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", pageData); err != nil {
		return fmt.Errorf("execute page template %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err = buf.WriteTo(w)
	return err
}

func (r *renderer) navItems(current string) []NavItem {
	items := make([]NavItem, 0, len(r.nav))
	for _, rt := range r.nav {
		items = append(items, NavItem{
			Name:   rt.Name,
			Path:   rt.Path,
			Active: current == rt.Path || (rt.Path != "/" && strings.HasPrefix(current, rt.Path+"/")),
		})
	}
	return items
}

// templateFuncs returns custom template functions.
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"timestamp":   format.Timestamp,
		"duration":    format.Duration,
		"count":       format.Count,
		"markdown":    markdown,
		"truncate":    truncate,
		"statusClass": statusClass,
		"json":        jsonEncode,
		"join":        strings.Join,
		"hasTag":      hasTag,
		"add":         add,
		"sub":         sub,
		"default":     defaultVal,
		"dict":        dictFunc,
	}
}

// Template helper functions

func truncate(n int, s string) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}

func statusClass(status string) string {
	switch status {
	case "pending":
		return "status-pending"
	case "running":
		return "status-running"
	case "succeeded":
		return "status-succeeded"
	case "failed":
		return "status-failed"
	default:
		return "status-other"
	}
}

func jsonEncode(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return string(b)
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

func add(a, b int) int {
	return a + b
}

func sub(a, b int) int {
	return a - b
}

func defaultVal(val, def any) any {
	if val == nil {
		return def
	}
	switch v := val.(type) {
	case string:
		if v == "" {
			return def
		}
	case int:
		if v == 0 {
			return def
		}
	}
	return val
}

// dictFunc creates a map from key-value pairs for use in templates.
// Usage: {{template "foo" (dict "key1" val1 "key2" val2)}}
func dictFunc(values ...any) map[string]any {
	if len(values)%2 != 0 {
		return nil
	}
	dict := make(map[string]any, len(values)/2)
	for i := 0; i < len(values); i += 2 {
		key, ok := values[i].(string)
		if !ok {
			continue
		}
		dict[key] = values[i+1]
	}
	return dict
}
