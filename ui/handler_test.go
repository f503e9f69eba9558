package ui

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youssefsiam38/mfdash/internal/metrics"
	"github.com/youssefsiam38/mfdash/modelfactory"
)

type stubBackend struct {
	listJobs int
}

func (s *stubBackend) ListVisibleJobs(ctx context.Context) ([]*modelfactory.Job, error) {
	s.listJobs++
	return []*modelfactory.Job{{JobID: "j1", Owner: "ann", Status: "running"}}, nil
}

func (s *stubBackend) GetJob(ctx context.Context, jobID string) (*modelfactory.Job, error) {
	return nil, modelfactory.ErrNotFound
}

func (s *stubBackend) TagJob(ctx context.Context, jobID, tag string) error   { return nil }
func (s *stubBackend) UntagJob(ctx context.Context, jobID, tag string) error { return nil }

func (s *stubBackend) GetJobLog(ctx context.Context, jobID string) (string, bool, error) {
	return "", false, nil
}

func (s *stubBackend) GetArchivedJobLog(ctx context.Context, jobID string) (string, error) {
	return "", nil
}

func (s *stubBackend) ListTriggers(ctx context.Context) ([]*modelfactory.Trigger, error) {
	return nil, nil
}

func (s *stubBackend) EnableTrigger(ctx context.Context, name string) error  { return nil }
func (s *stubBackend) DisableTrigger(ctx context.Context, name string) error { return nil }

func (s *stubBackend) ListModels(ctx context.Context, filter map[string]any) ([]*modelfactory.Model, error) {
	return nil, nil
}

func (s *stubBackend) GetModel(ctx context.Context, modelID string) (*modelfactory.Model, error) {
	return nil, modelfactory.ErrNotFound
}

func (s *stubBackend) TagModel(ctx context.Context, modelID, tag string) error   { return nil }
func (s *stubBackend) UntagModel(ctx context.Context, modelID, tag string) error { return nil }
func (s *stubBackend) DeleteModel(ctx context.Context, modelID string) error     { return nil }
func (s *stubBackend) PromoteModel(ctx context.Context, modelID string) error    { return nil }

func (s *stubBackend) ListProductionModels(ctx context.Context, names []string) ([]*modelfactory.ProductionModel, error) {
	return nil, nil
}

func serve(h http.Handler, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestUIHandlerServesPagesAndAPI(t *testing.T) {
	h := UIHandler(&stubBackend{}, nil)

	rec := serve(h, http.MethodGet, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<h1>Home")

	rec = serve(h, http.MethodGet, "/api/jobs")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `"id":"j1"`)

	rec = serve(h, http.MethodGet, "/api/routes")
	assert.Contains(t, rec.Body.String(), `"path":"/triggers"`)

	assert.Equal(t, http.StatusNotFound, serve(h, http.MethodGet, "/nope").Code)
}

func TestUIHandlerSharesCacheBetweenPagesAndAPI(t *testing.T) {
	backend := &stubBackend{}
	h := UIHandler(backend, &Config{CacheTTL: time.Minute})

	serve(h, http.MethodGet, "/jobs")
	serve(h, http.MethodGet, "/api/jobs")
	assert.Equal(t, 1, backend.listJobs)
}

func TestUIHandlerCacheDisabled(t *testing.T) {
	backend := &stubBackend{}
	h := UIHandler(backend, &Config{CacheTTL: -1})

	serve(h, http.MethodGet, "/jobs")
	serve(h, http.MethodGet, "/jobs")
	assert.Equal(t, 2, backend.listJobs)
}

func TestUIHandlerReadOnly(t *testing.T) {
	h := UIHandler(&stubBackend{}, &Config{ReadOnly: true})

	assert.Equal(t, http.StatusForbidden, serve(h, http.MethodPost, "/triggers/x/enable").Code)
	assert.Equal(t, http.StatusForbidden, serve(h, http.MethodPost, "/api/triggers/x/enable").Code)
}

func TestUIHandlerRecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	h := UIHandler(&stubBackend{}, &Config{Observer: m})

	serve(h, http.MethodGet, "/jobs")
	serve(h, http.MethodGet, "/jobs")
	serve(h, http.MethodGet, "/api/triggers")

	count, err := testutil.GatherAndCount(reg, metrics.Prefix+"http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "one series per pattern")

	count, err = testutil.GatherAndCount(reg, metrics.Prefix+"view_loads_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = testutil.GatherAndCount(reg, metrics.Prefix+"cache_lookups_total")
	require.NoError(t, err)
	assert.Equal(t, 3, count, "jobs miss, jobs hit and triggers miss")
}

func TestConfigDefaults(t *testing.T) {
	cfg := &Config{RefreshInterval: 10 * time.Second}
	cfg.applyDefaults()

	assert.Equal(t, DefaultPageSize, cfg.PageSize)
	assert.Equal(t, 10*time.Second, cfg.CacheTTL)
	assert.NotNil(t, cfg.Routes)
	assert.NoError(t, cfg.validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"page size too large", Config{PageSize: 5000, RefreshInterval: time.Second}},
		{"negative page size", Config{PageSize: -1, RefreshInterval: time.Second}},
		{"refresh too fast", Config{PageSize: 10, RefreshInterval: time.Millisecond}},
		{"relative base path", Config{PageSize: 10, RefreshInterval: time.Second, BasePath: "ui"}},
		{"trailing slash base path", Config{PageSize: 10, RefreshInterval: time.Second, BasePath: "/ui/"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.cfg.validate(), ErrInvalidConfig)
		})
	}
}

func TestUIHandlerPanicsOnInvalidConfig(t *testing.T) {
	assert.Panics(t, func() {
		UIHandler(&stubBackend{}, &Config{PageSize: -5})
	})
}
