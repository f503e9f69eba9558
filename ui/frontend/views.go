package frontend

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/youssefsiam38/mfdash/format"
	"github.com/youssefsiam38/mfdash/modelfactory"
	"github.com/youssefsiam38/mfdash/route"
	"github.com/youssefsiam38/mfdash/ui/service"
)

// view is what a route resolves to: a page template, parsed on first use, and
// the loader for its data. The page title comes from the route, so two routes
// sharing a view still render their own names.
type view struct {
	id   route.ViewID
	page string
	load func(rt *router, r *http.Request) (any, error)
}

func newViews() map[route.ViewID]*view {
	return map[route.ViewID]*view{
		route.ViewJobs:     {id: route.ViewJobs, page: "jobs.html", load: (*router).loadJobs},
		route.ViewTriggers: {id: route.ViewTriggers, page: "triggers.html", load: (*router).loadTriggers},
		route.ViewModels:   {id: route.ViewModels, page: "models.html", load: (*router).loadModels},
	}
}

// viewState reports whether the template of a view has been loaded.
func (rt *router) viewState(id route.ViewID) pageState {
	v, ok := rt.views[id]
	if !ok {
		return pageNotLoaded
	}
	return rt.renderer.state(v.page)
}

// jobStatuses are offered in the status filter.
var jobStatuses = []string{
	modelfactory.StatusPending,
	modelfactory.StatusRunning,
	modelfactory.StatusSucceeded,
	modelfactory.StatusFailed,
}

func (rt *router) loadJobs(r *http.Request) (any, error) {
	params := service.JobListParams{
		Status:   param(r, "status"),
		Owner:    param(r, "owner"),
		Pipeline: param(r, "pipeline"),
		Tag:      param(r, "tag"),
		Limit:    parseInt(r, "limit", rt.config.PageSize),
		Offset:   parseOffset(r, "offset", 0),
	}

	list, err := rt.svc.Jobs(r.Context(), params)
	if err != nil {
		return nil, err
	}

	data := map[string]any{
		"Jobs":        list,
		"Filter":      params,
		"Statuses":    jobStatuses,
		"CurrentPage": list.Offset/list.Limit + 1,
		"TotalPages":  (list.TotalCount + list.Limit - 1) / list.Limit,
	}
	if list.Offset > 0 {
		prev := list.Offset - list.Limit
		if prev < 0 {
			prev = 0
		}
		data["PrevURL"] = rt.pageURL(r, prev)
	}
	if list.HasMore {
		data["NextURL"] = rt.pageURL(r, list.Offset+list.Limit)
	}
	return data, nil
}

func (rt *router) loadTriggers(r *http.Request) (any, error) {
	list, err := rt.svc.Triggers(r.Context())
	if err != nil {
		return nil, err
	}
	return map[string]any{"Triggers": list}, nil
}

func (rt *router) loadModels(r *http.Request) (any, error) {
	params := service.ModelListParams{
		Name: param(r, "name"),
		All:  flag(r, "all"),
	}
	list, err := rt.svc.Models(r.Context(), params)
	if err != nil {
		return nil, err
	}
	return map[string]any{"Models": list, "Filter": params}, nil
}

// pageURL returns the current URL with offset replaced.
func (rt *router) pageURL(r *http.Request, offset int) string {
	q, _ := url.ParseQuery(r.URL.RawQuery)
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	} else {
		q.Del("offset")
	}
	u := rt.config.BasePath + r.URL.Path
	if enc := q.Encode(); enc != "" {
		u += "?" + enc
	}
	return u
}

// param returns the query parameter key of the current location, or "".
func param(r *http.Request, key string) string {
	v, _ := format.CurrentParam(r.URL, key)
	return v
}

// flag reports whether a boolean query parameter is set. A bare "?all" counts.
func flag(r *http.Request, key string) bool {
	v, ok := format.CurrentParam(r.URL, key)
	if !ok {
		return false
	}
	if v == "" {
		return true
	}
	b, err := strconv.ParseBool(v)
	return err == nil && b
}
