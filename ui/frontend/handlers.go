package frontend

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/youssefsiam38/mfdash/format"
	"github.com/youssefsiam38/mfdash/internal/httpmw"
	"github.com/youssefsiam38/mfdash/ui/service"
)

// parseInt parses an integer from a query parameter with a default.
// It applies bounds validation to prevent resource exhaustion.
func parseInt(r *http.Request, key string, defaultVal int) int {
	val, _ := format.CurrentParam(r.URL, key)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return service.ValidateLimit(i)
}

// parseOffset parses an offset from a query parameter with a default.
func parseOffset(r *http.Request, key string, defaultVal int) int {
	val, _ := format.CurrentParam(r.URL, key)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return service.ValidateOffset(i)
}

// logError logs an error if the logger is configured.
func (rt *router) logError(r *http.Request, msg string, err error) {
	if rt.config.Logger != nil {
		rt.config.Logger.Warn(msg, "error", err.Error(), "path", r.URL.Path, "request_id", httpmw.RequestIDFrom(r.Context()))
	}
}

// render writes a page, falling back to a plain error if the page itself
// cannot be rendered.
func (rt *router) render(w http.ResponseWriter, r *http.Request, status int, page, title string, refresh bool, data any) {
	if err := rt.renderer.render(w, r, status, page, title, refresh, data); err != nil {
		rt.logError(r, "render failed", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// renderError renders the error page for err with a matching status.
func (rt *router) renderError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusBadGateway
	message := "The Model Factory service could not be reached."
	switch {
	case errors.Is(err, service.ErrNotFound):
		status, message = http.StatusNotFound, err.Error()
	case errors.Is(err, service.ErrInvalidTag):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrReadOnly):
		status, message = http.StatusForbidden, "This dashboard is read-only."
	case errors.Is(err, context.Canceled):
		// Client went away.
		return
	default:
		rt.logError(r, "backend request failed", err)
	}

	rt.render(w, r, status, "error.html", http.StatusText(status), false, map[string]any{
		"Status":  status,
		"Message": message,
	})
}

// View handlers

// handleView serves a route table page: the route names the view and the
// page title.
func (rt *router) handleView(w http.ResponseWriter, r *http.Request) {
	page, ok := rt.routes.Lookup(r.URL.Path)
	if !ok {
		rt.handleNotFound(w, r)
		return
	}
	v := rt.views[page.View]
	data, err := v.load(rt, r)
	if err != nil {
		rt.renderError(w, r, err)
		return
	}
	rt.render(w, r, http.StatusOK, v.page, page.Name, true, data)
}

func (rt *router) handleNotFound(w http.ResponseWriter, r *http.Request) {
	rt.render(w, r, http.StatusNotFound, "notfound.html", "Not Found", false, map[string]any{
		"Path": r.URL.Path,
	})
}

// Detail handlers

func (rt *router) handleJobDetail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	detail, err := rt.svc.Job(r.Context(), id)
	if err != nil {
		rt.renderError(w, r, err)
		return
	}
	rt.render(w, r, http.StatusOK, "job_detail.html", "Job "+id, !detail.Finished, map[string]any{
		"Job": detail,
	})
}

func (rt *router) handleJobLog(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	log, err := rt.svc.JobLog(r.Context(), id)
	if err != nil {
		rt.renderError(w, r, err)
		return
	}
	rt.render(w, r, http.StatusOK, "job_log.html", "Log "+id, log.Source == service.LogSourcePod, map[string]any{
		"Log": log,
	})
}

func (rt *router) handleModelDetail(w http.ResponseWriter, r *http.Request) {
	model, err := rt.svc.Model(r.Context(), r.PathValue("id"))
	if err != nil {
		rt.renderError(w, r, err)
		return
	}
	rt.render(w, r, http.StatusOK, "model_detail.html", "Model "+model.Name, false, map[string]any{
		"Model": model,
	})
}

// Mutation handlers

// mutate runs a write and redirects back (Post/Redirect/Get). The form field
// "next" picks the page to return to; it must be a local path.
func (rt *router) mutate(w http.ResponseWriter, r *http.Request, fallback string, write func(ctx context.Context) error) {
	if rt.config.ReadOnly {
		rt.renderError(w, r, service.ErrReadOnly)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	if err := write(r.Context()); err != nil {
		rt.renderError(w, r, err)
		return
	}
	http.Redirect(w, r, rt.config.BasePath+localPath(r.PostFormValue("next"), fallback), http.StatusSeeOther)
}

// localPath returns next if it is a path on this site, fallback otherwise.
func localPath(next, fallback string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return fallback
	}
	return next
}

func (rt *router) handleJobTag(add bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		rt.mutate(w, r, "/jobs", func(ctx context.Context) error {
			if add {
				return rt.svc.TagJob(ctx, id, r.PostFormValue("tag"))
			}
			return rt.svc.UntagJob(ctx, id, r.PostFormValue("tag"))
		})
	}
}

func (rt *router) handleTriggerToggle(enabled bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.PathValue("name")
		rt.mutate(w, r, "/triggers", func(ctx context.Context) error {
			return rt.svc.SetTriggerEnabled(ctx, name, enabled)
		})
	}
}

func (rt *router) handleModelTag(add bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		rt.mutate(w, r, "/models", func(ctx context.Context) error {
			if add {
				return rt.svc.TagModel(ctx, id, r.PostFormValue("tag"))
			}
			return rt.svc.UntagModel(ctx, id, r.PostFormValue("tag"))
		})
	}
}

func (rt *router) handleModelPromote(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	rt.mutate(w, r, "/models", func(ctx context.Context) error {
		return rt.svc.PromoteModel(ctx, id)
	})
}

func (rt *router) handleModelDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	rt.mutate(w, r, "/models", func(ctx context.Context) error {
		return rt.svc.DeleteModel(ctx, id)
	})
}
