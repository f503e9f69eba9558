// Package testutil provides test utilities for mfdash
package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ModelFactory is a fake Model Factory frontend service. Every call is a POST
// to /<call name>; the fake records the decoded body and answers with the
// canned response for that call, or "null".
type ModelFactory struct {
	// URL is the base URL of the fake service.
	URL string

	mu        sync.Mutex
	responses map[string]string
	status    map[string]int
	requests  map[string][]map[string]any
}

// NewModelFactory starts a fake service that is closed when t finishes.
func NewModelFactory(t *testing.T) *ModelFactory {
	t.Helper()
	f := &ModelFactory{
		responses: map[string]string{},
		status:    map[string]int{},
		requests:  map[string][]map[string]any{},
	}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	f.URL = srv.URL
	return f
}

// Respond sets the raw JSON body answered to call.
func (f *ModelFactory) Respond(call, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[call] = body
}

// Fail makes call answer with status and body.
func (f *ModelFactory) Fail(call string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status[call] = status
	f.responses[call] = body
}

// LastRequest returns the decoded body of the latest request to call, or nil.
func (f *ModelFactory) LastRequest(call string) map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	reqs := f.requests[call]
	if len(reqs) == 0 {
		return nil
	}
	return reqs[len(reqs)-1]
}

// Calls returns how many requests call received.
func (f *ModelFactory) Calls(call string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests[call])
}

func (f *ModelFactory) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Path[1:]
	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	var decoded map[string]any
	if len(body) > 0 {
		_ = json.Unmarshal(body, &decoded)
	}
	f.requests[name] = append(f.requests[name], decoded)
	status, ok := f.status[name]
	resp, hasResp := f.responses[name]
	f.mu.Unlock()

	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !ok {
		status = http.StatusOK
	}
	if !hasResp {
		resp = "null"
	}
	w.WriteHeader(status)
	_, _ = io.WriteString(w, resp)
}
