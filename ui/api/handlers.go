package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	jsoniter "github.com/json-iterator/go"

	"github.com/youssefsiam38/mfdash/format"
	"github.com/youssefsiam38/mfdash/internal/httpmw"
	"github.com/youssefsiam38/mfdash/ui/service"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// maxBodyBytes caps request bodies; the only body is a tag.
const maxBodyBytes = 1 << 16

// Response wraps all API responses.
type Response struct {
	Data  any       `json:"data,omitempty"`
	Error *APIError `json:"error,omitempty"`
	Meta  *Meta     `json:"meta,omitempty"`
}

// APIError represents an API error.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Meta contains pagination metadata.
type Meta struct {
	TotalCount int  `json:"total_count,omitempty"`
	HasMore    bool `json:"has_more,omitempty"`
	Limit      int  `json:"limit,omitempty"`
	Offset     int  `json:"offset,omitempty"`
}

// ConfigInfo is the dashboard configuration exposed to clients.
type ConfigInfo struct {
	FrontendEndpoint string `json:"frontend_endpoint"`
	ReadOnly         bool   `json:"read_only"`
	RefreshSeconds   int    `json:"refresh_interval_seconds"`
	PageSize         int    `json:"page_size"`
}

// TagRequest is the body of the tag and untag calls.
type TagRequest struct {
	Tag string `json:"tag"`
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Response{Data: data})
}

// writeJSONWithMeta writes a JSON response with metadata.
func writeJSONWithMeta(w http.ResponseWriter, status int, data any, meta *Meta) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Response{Data: data, Meta: meta})
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Response{
		Error: &APIError{Code: code, Message: message},
	})
}

// writeServiceError maps a service error to a status and error code.
func (rt *router) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, service.ErrInvalidTag):
		writeError(w, http.StatusBadRequest, "invalid_tag", err.Error())
	case errors.Is(err, service.ErrReadOnly):
		writeError(w, http.StatusForbidden, "read_only", "dashboard is read-only")
	case errors.Is(err, context.Canceled):
		// Client went away.
	default:
		if rt.config.Logger != nil {
			rt.config.Logger.Warn("backend request failed", "error", err.Error(), "path", r.URL.Path, "request_id", httpmw.RequestIDFrom(r.Context()))
		}
		writeError(w, http.StatusBadGateway, "backend_error", "model factory service unavailable")
	}
}

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

func param(r *http.Request, key string) string {
	v, _ := format.CurrentParam(r.URL, key)
	return v
}

// Dashboard handlers

func (rt *router) handleListRoutes(w http.ResponseWriter, r *http.Request) {
	routes := rt.routes.Routes()
	writeJSONWithMeta(w, http.StatusOK, routes, &Meta{TotalCount: len(routes)})
}

func (rt *router) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ConfigInfo{
		FrontendEndpoint: rt.config.FrontendEndpoint,
		ReadOnly:         rt.config.ReadOnly,
		RefreshSeconds:   int(rt.config.RefreshInterval.Seconds()),
		PageSize:         rt.config.PageSize,
	})
}

func (rt *router) handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "not_found", "no such endpoint: "+r.URL.Path)
}

// Job handlers

func (rt *router) handleListJobs(w http.ResponseWriter, r *http.Request) {
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
		rt.writeServiceError(w, r, err)
		return
	}

	writeJSONWithMeta(w, http.StatusOK, list.Jobs, &Meta{
		TotalCount: list.TotalCount,
		HasMore:    list.HasMore,
		Limit:      list.Limit,
		Offset:     list.Offset,
	})
}

func (rt *router) handleGetJob(w http.ResponseWriter, r *http.Request) {
	detail, err := rt.svc.Job(r.Context(), r.PathValue("id"))
	if err != nil {
		rt.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (rt *router) handleGetJobLog(w http.ResponseWriter, r *http.Request) {
	log, err := rt.svc.JobLog(r.Context(), r.PathValue("id"))
	if err != nil {
		rt.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, log)
}

func (rt *router) handleTagJob(add bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		rt.mutateTag(w, r, func(ctx context.Context, tag string) error {
			if add {
				return rt.svc.TagJob(ctx, id, tag)
			}
			return rt.svc.UntagJob(ctx, id, tag)
		})
	}
}

// Trigger handlers

func (rt *router) handleListTriggers(w http.ResponseWriter, r *http.Request) {
	list, err := rt.svc.Triggers(r.Context())
	if err != nil {
		rt.writeServiceError(w, r, err)
		return
	}
	writeJSONWithMeta(w, http.StatusOK, list.Triggers, &Meta{TotalCount: len(list.Triggers)})
}

func (rt *router) handleToggleTrigger(enabled bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.PathValue("name")
		rt.mutate(w, r, func(ctx context.Context) error {
			return rt.svc.SetTriggerEnabled(ctx, name, enabled)
		})
	}
}

// Model handlers

func (rt *router) handleListModels(w http.ResponseWriter, r *http.Request) {
	all, _ := strconv.ParseBool(param(r, "all"))
	list, err := rt.svc.Models(r.Context(), service.ModelListParams{
		Name: param(r, "name"),
		All:  all,
	})
	if err != nil {
		rt.writeServiceError(w, r, err)
		return
	}
	writeJSONWithMeta(w, http.StatusOK, list.Models, &Meta{TotalCount: list.TotalCount})
}

func (rt *router) handleGetModel(w http.ResponseWriter, r *http.Request) {
	model, err := rt.svc.Model(r.Context(), r.PathValue("id"))
	if err != nil {
		rt.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, model)
}

func (rt *router) handleTagModel(add bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		rt.mutateTag(w, r, func(ctx context.Context, tag string) error {
			if add {
				return rt.svc.TagModel(ctx, id, tag)
			}
			return rt.svc.UntagModel(ctx, id, tag)
		})
	}
}

func (rt *router) handlePromoteModel(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	rt.mutate(w, r, func(ctx context.Context) error {
		return rt.svc.PromoteModel(ctx, id)
	})
}

func (rt *router) handleDeleteModel(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	rt.mutate(w, r, func(ctx context.Context) error {
		return rt.svc.DeleteModel(ctx, id)
	})
}

// Mutations

// mutate runs a write unless the dashboard is read-only. Success is an empty
// 204.
func (rt *router) mutate(w http.ResponseWriter, r *http.Request, write func(ctx context.Context) error) {
	if rt.config.ReadOnly {
		rt.writeServiceError(w, r, service.ErrReadOnly)
		return
	}
	if err := write(r.Context()); err != nil {
		rt.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// mutateTag decodes a TagRequest body and runs write with its tag.
func (rt *router) mutateTag(w http.ResponseWriter, r *http.Request, write func(ctx context.Context, tag string) error) {
	if rt.config.ReadOnly {
		rt.writeServiceError(w, r, service.ErrReadOnly)
		return
	}
	var req TagRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "invalid request body")
		return
	}
	rt.mutate(w, r, func(ctx context.Context) error {
		return write(ctx, req.Tag)
	})
}
