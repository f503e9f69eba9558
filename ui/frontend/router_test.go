package frontend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youssefsiam38/mfdash/internal/httpmw"
	"github.com/youssefsiam38/mfdash/modelfactory"
	"github.com/youssefsiam38/mfdash/route"
	"github.com/youssefsiam38/mfdash/ui/service"
)

type fakeBackend struct {
	mu       sync.Mutex
	err      error
	jobs     []*modelfactory.Job
	triggers []*modelfactory.Trigger
	models   []*modelfactory.Model
	calls    []string
}

func (f *fakeBackend) record(call string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	return f.err
}

func (f *fakeBackend) called(call string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.calls {
		if c == call {
			return true
		}
	}
	return false
}

func (f *fakeBackend) ListVisibleJobs(ctx context.Context) ([]*modelfactory.Job, error) {
	return f.jobs, f.record("ListVisibleJobs")
}

func (f *fakeBackend) GetJob(ctx context.Context, jobID string) (*modelfactory.Job, error) {
	if err := f.record("GetJob"); err != nil {
		return nil, err
	}
	for _, j := range f.jobs {
		if j.Key() == jobID {
			return j, nil
		}
	}
	return nil, modelfactory.ErrNotFound
}

func (f *fakeBackend) TagJob(ctx context.Context, jobID, tag string) error {
	return f.record("TagJob " + jobID + " " + tag)
}

func (f *fakeBackend) UntagJob(ctx context.Context, jobID, tag string) error {
	return f.record("UntagJob " + jobID + " " + tag)
}

func (f *fakeBackend) GetJobLog(ctx context.Context, jobID string) (string, bool, error) {
	return "epoch 1 loss=0.5\n", true, f.record("GetJobLog")
}

func (f *fakeBackend) GetArchivedJobLog(ctx context.Context, jobID string) (string, error) {
	return "", f.record("GetArchivedJobLog")
}

func (f *fakeBackend) ListTriggers(ctx context.Context) ([]*modelfactory.Trigger, error) {
	return f.triggers, f.record("ListTriggers")
}

func (f *fakeBackend) EnableTrigger(ctx context.Context, name string) error {
	return f.record("EnableTrigger " + name)
}

func (f *fakeBackend) DisableTrigger(ctx context.Context, name string) error {
	return f.record("DisableTrigger " + name)
}

func (f *fakeBackend) ListModels(ctx context.Context, filter map[string]any) ([]*modelfactory.Model, error) {
	return f.models, f.record("ListModels")
}

func (f *fakeBackend) GetModel(ctx context.Context, modelID string) (*modelfactory.Model, error) {
	if err := f.record("GetModel"); err != nil {
		return nil, err
	}
	for _, m := range f.models {
		if m.ID == modelID {
			return m, nil
		}
	}
	return nil, modelfactory.ErrNotFound
}

func (f *fakeBackend) TagModel(ctx context.Context, modelID, tag string) error {
	return f.record("TagModel " + modelID + " " + tag)
}

func (f *fakeBackend) UntagModel(ctx context.Context, modelID, tag string) error {
	return f.record("UntagModel " + modelID + " " + tag)
}

func (f *fakeBackend) DeleteModel(ctx context.Context, modelID string) error {
	return f.record("DeleteModel " + modelID)
}

func (f *fakeBackend) PromoteModel(ctx context.Context, modelID string) error {
	return f.record("PromoteModel " + modelID)
}

func (f *fakeBackend) ListProductionModels(ctx context.Context, names []string) ([]*modelfactory.ProductionModel, error) {
	return []*modelfactory.ProductionModel{{ModelName: "ranker", ModelID: "m1"}}, f.record("ListProductionModels")
}

type countingObserver struct {
	mu       sync.Mutex
	loads    map[string]int
	requests int
}

func (o *countingObserver) ObserveRequest(handler, method string, code int, d time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.requests++
}

func (o *countingObserver) ViewLoaded(view string, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.loads == nil {
		o.loads = map[string]int{}
	}
	o.loads[view]++
}

func ptr[T any](v T) *T { return &v }

func newFixture() *fakeBackend {
	return &fakeBackend{
		jobs: []*modelfactory.Job{
			{JobID: "job-a", PipelineName: "train", Owner: "ann", Status: modelfactory.StatusSucceeded,
				CreationTimestamp: ptr(1000.0), StartTimestamp: ptr(1000.0), CompletionTimestamp: ptr(4661.0),
				Cmd: "python train.py --epochs 3"},
			{JobID: "job-b", PipelineName: "eval", Owner: "bob", Status: modelfactory.StatusRunning,
				CreationTimestamp: ptr(2000.0)},
		},
		triggers: []*modelfactory.Trigger{
			{Name: "nightly", TriggerClass: "CronTrigger", Owner: "ann", Enabled: true,
				InputJSON: `{"description":"Retrain **every** night"}`},
		},
		models: []*modelfactory.Model{
			{ID: "m1", ModelName: "ranker", JobID: "job-a", Timestamp: ptr(5000.0),
				Metadata: `{"notes":"<script>alert(1)</script>_best_ so far"}`},
		},
	}
}

func newTestRouter(t *testing.T, backend *fakeBackend, mutate func(*Config)) http.Handler {
	t.Helper()
	cfg := &Config{
		FrontendEndpoint: "http://192.168.1.102:5000",
		PageSize:         25,
		RefreshInterval:  5 * time.Second,
	}
	if mutate != nil {
		mutate(cfg)
	}
	return NewRouter(service.New(backend), cfg)
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func post(t *testing.T, h http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouteTableViews(t *testing.T) {
	h := newTestRouter(t, newFixture(), nil)

	tests := []struct {
		path string
		want string
	}{
		{"/", "<h1>Home"},
		{"/jobs", "<h1>Jobs"},
		{"/triggers", "<h1>Triggers"},
		{"/models", "<h1>Models"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := get(t, h, tt.path)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.want)
			assert.Contains(t, rec.Body.String(), "http://192.168.1.102:5000")
			assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
		})
	}
}

func TestUnknownPathsRenderNotFound(t *testing.T) {
	h := newTestRouter(t, newFixture(), nil)

	for _, path := range []string{"/unknown", "/Jobs", "/jobs/job-a/extra/more", "/triggers/nightly"} {
		t.Run(path, func(t *testing.T) {
			rec := get(t, h, path)
			assert.Equal(t, http.StatusNotFound, rec.Code)
			assert.Contains(t, rec.Body.String(), "Back to Home")
		})
	}
}

func TestJobsFiltersFromQuery(t *testing.T) {
	h := newTestRouter(t, newFixture(), nil)

	body := get(t, h, "/jobs?owner=ann").Body.String()
	assert.Contains(t, body, `href="/jobs/job-a"`)
	assert.NotContains(t, body, `href="/jobs/job-b"`)
	assert.Contains(t, body, "1970-01-01 00:16:40")
	assert.Contains(t, body, "01:01:01")

	body = get(t, h, "/jobs?status=running").Body.String()
	assert.NotContains(t, body, `href="/jobs/job-a"`)
	assert.Contains(t, body, `href="/jobs/job-b"`)
}

func TestListViewsAutoRefresh(t *testing.T) {
	h := newTestRouter(t, newFixture(), nil)

	assert.Contains(t, get(t, h, "/jobs").Body.String(), `http-equiv="refresh" content="5"`)
	assert.NotContains(t, get(t, h, "/nowhere").Body.String(), `http-equiv="refresh"`)
}

func TestDetailPages(t *testing.T) {
	h := newTestRouter(t, newFixture(), nil)

	rec := get(t, h, "/jobs/job-a")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "python train.py --epochs 3")

	rec = get(t, h, "/jobs/job-a/log")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "epoch 1 loss=0.5")

	rec = get(t, h, "/models/m1")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "production")
	assert.Contains(t, body, "<em>best</em>")
	assert.NotContains(t, body, "<script>alert")

	assert.Equal(t, http.StatusNotFound, get(t, h, "/jobs/missing").Code)
	assert.Equal(t, http.StatusNotFound, get(t, h, "/models/missing").Code)
}

func TestTriggerDescriptionMarkdown(t *testing.T) {
	h := newTestRouter(t, newFixture(), nil)

	body := get(t, h, "/triggers").Body.String()
	assert.Contains(t, body, "<strong>every</strong>")
	assert.Contains(t, body, `action="/triggers/nightly/disable"`)
}

func TestBackendFailureRendersBadGateway(t *testing.T) {
	backend := newFixture()
	backend.err = errors.New("connection refused")
	h := newTestRouter(t, backend, nil)

	rec := get(t, h, "/triggers")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "could not be reached")
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestMutationsRedirect(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		form     url.Values
		call     string
		location string
	}{
		{"tag job", "/jobs/job-a/tag", url.Values{"tag": {"hide"}}, "TagJob job-a hide", "/jobs"},
		{"untag job", "/jobs/job-a/untag", url.Values{"tag": {"hide"}, "next": {"/jobs/job-a"}}, "UntagJob job-a hide", "/jobs/job-a"},
		{"enable trigger", "/triggers/nightly/enable", nil, "EnableTrigger nightly", "/triggers"},
		{"disable trigger", "/triggers/nightly/disable", nil, "DisableTrigger nightly", "/triggers"},
		{"tag model", "/models/m1/tag", url.Values{"tag": {"best"}}, "TagModel m1 best", "/models"},
		{"untag model", "/models/m1/untag", url.Values{"tag": {"best"}}, "UntagModel m1 best", "/models"},
		{"promote model", "/models/m1/promote", url.Values{"next": {"/models/m1"}}, "PromoteModel m1", "/models/m1"},
		{"delete model", "/models/m1/delete", url.Values{"next": {"//evil.example"}}, "DeleteModel m1", "/models"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := newFixture()
			h := newTestRouter(t, backend, nil)

			rec := post(t, h, tt.path, tt.form)
			assert.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Equal(t, tt.location, rec.Header().Get("Location"))
			assert.True(t, backend.called(tt.call), "expected backend call %q, got %v", tt.call, backend.calls)
		})
	}
}

func TestMutationsHonorBasePath(t *testing.T) {
	h := newTestRouter(t, newFixture(), func(c *Config) { c.BasePath = "/ui" })

	rec := post(t, h, "/triggers/nightly/enable", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/ui/triggers", rec.Header().Get("Location"))
}

func TestMutationsRejectedWhenReadOnly(t *testing.T) {
	backend := newFixture()
	h := newTestRouter(t, backend, func(c *Config) { c.ReadOnly = true })

	for _, path := range []string{"/jobs/job-a/tag", "/triggers/nightly/enable", "/models/m1/delete"} {
		rec := post(t, h, path, url.Values{"tag": {"x"}})
		assert.Equal(t, http.StatusForbidden, rec.Code, path)
	}
	for _, c := range backend.calls {
		assert.NotContains(t, c, "m1")
		assert.NotContains(t, c, "nightly")
	}

	body := get(t, h, "/triggers").Body.String()
	assert.Contains(t, body, "read-only")
	assert.NotContains(t, body, `action="/triggers/nightly/disable"`)
}

func TestInvalidTagIsBadRequest(t *testing.T) {
	backend := newFixture()
	h := newTestRouter(t, backend, nil)

	rec := post(t, h, "/jobs/job-a/tag", url.Values{"tag": {"not valid"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, backend.called("TagJob job-a not valid"))
}

func TestViewsLoadLazily(t *testing.T) {
	obs := &countingObserver{}
	rt := newRouter(service.New(newFixture()), &Config{PageSize: 25, Observer: obs})
	h := rt.handler

	for _, id := range []route.ViewID{route.ViewJobs, route.ViewTriggers, route.ViewModels} {
		assert.Equal(t, pageNotLoaded, rt.viewState(id), id)
	}

	require.Equal(t, http.StatusOK, get(t, h, "/triggers").Code)
	assert.Equal(t, pageLoaded, rt.viewState(route.ViewTriggers))
	assert.Equal(t, pageNotLoaded, rt.viewState(route.ViewJobs))
	assert.Equal(t, pageNotLoaded, rt.viewState(route.ViewModels))

	require.Equal(t, http.StatusOK, get(t, h, "/triggers").Code)
	assert.Equal(t, 1, obs.loads["triggers"])
	assert.Equal(t, 2, obs.requests)
}

func TestViewsLoadOnceUnderConcurrency(t *testing.T) {
	obs := &countingObserver{}
	h := newTestRouter(t, newFixture(), func(c *Config) { c.Observer = obs })

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/models", nil))
		}()
	}
	wg.Wait()

	obs.mu.Lock()
	defer obs.mu.Unlock()
	assert.Equal(t, 1, obs.loads["models"])
	assert.Equal(t, 32, obs.requests)
}

func TestHomeAndJobsShareTheView(t *testing.T) {
	obs := &countingObserver{}
	h := newTestRouter(t, newFixture(), func(c *Config) { c.Observer = obs })

	home := get(t, h, "/").Body.String()
	jobs := get(t, h, "/jobs").Body.String()
	assert.Equal(t, 1, obs.loads["jobs"])

	assert.Contains(t, home, "<title>Home · Model Factory</title>")
	assert.Contains(t, home, "<h1>Home")
	assert.Contains(t, home, `<a href="/" class="active">Home</a>`)
	assert.Contains(t, home, `<a href="/jobs">Jobs</a>`)

	assert.Contains(t, jobs, "<title>Jobs · Model Factory</title>")
	assert.Contains(t, jobs, "<h1>Jobs")
	assert.Contains(t, jobs, `<a href="/jobs" class="active">Jobs</a>`)
	assert.Contains(t, jobs, `<a href="/">Home</a>`)
}

func TestPageTitlesFollowRouteNames(t *testing.T) {
	table := route.MustNewTable(
		route.Route{Path: "/", Name: "Overview", View: route.ViewJobs},
		route.Route{Path: "/registry", Name: "Registry", View: route.ViewModels},
	)
	h := newTestRouter(t, newFixture(), func(c *Config) { c.Routes = table })

	assert.Contains(t, get(t, h, "/").Body.String(), "<h1>Overview")
	assert.Contains(t, get(t, h, "/registry").Body.String(), "<h1>Registry")
}

func TestCustomRouteTable(t *testing.T) {
	table := route.MustNewTable(
		route.Route{Path: "/", Name: "Home", View: route.ViewModels},
		route.Route{Path: "/m", Name: "Models", View: route.ViewModels},
	)
	h := newTestRouter(t, newFixture(), func(c *Config) { c.Routes = table })

	assert.Contains(t, get(t, h, "/").Body.String(), "<h1>Home")
	assert.Contains(t, get(t, h, "/m").Body.String(), "<h1>Models")
	assert.Equal(t, http.StatusNotFound, get(t, h, "/jobs").Code)
}

func TestUnknownViewPanics(t *testing.T) {
	table := route.MustNewTable(route.Route{Path: "/x", Name: "X", View: "Dashboards"})
	assert.Panics(t, func() {
		NewRouter(service.New(newFixture()), &Config{Routes: table})
	})
}

func TestRequestIDHeader(t *testing.T) {
	h := newTestRouter(t, newFixture(), nil)
	rec := get(t, h, "/jobs")
	id := rec.Header().Get(httpmw.RequestIDHeader)
	require.NotEmpty(t, id)
	assert.Contains(t, rec.Body.String(), id)
}

func TestStaticAssets(t *testing.T) {
	h := newTestRouter(t, newFixture(), nil)
	rec := get(t, h, "/static/app.css")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), ".topbar")
}

func TestLocalPath(t *testing.T) {
	assert.Equal(t, "/jobs/a", localPath("/jobs/a", "/jobs"))
	assert.Equal(t, "/jobs", localPath("", "/jobs"))
	assert.Equal(t, "/jobs", localPath("https://example.com", "/jobs"))
	assert.Equal(t, "/jobs", localPath("//example.com", "/jobs"))
	assert.Equal(t, "/jobs", localPath(`/\example.com`, "/jobs"))
}

func TestMarkdown(t *testing.T) {
	assert.Equal(t, "", string(markdown("")))
	out := string(markdown("**bold** <img src=x onerror=alert(1)>"))
	assert.Contains(t, out, "<strong>bold</strong>")
	assert.NotContains(t, out, "onerror")
}
