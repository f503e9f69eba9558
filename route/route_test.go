package route

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLookup(t *testing.T) {
	table := Default()

	tests := []struct {
		path string
		name string
		view ViewID
	}{
		{path: "/", name: "Home", view: ViewJobs},
		{path: "/jobs", name: "Jobs", view: ViewJobs},
		{path: "/triggers", name: "Triggers", view: ViewTriggers},
		{path: "/models", name: "Models", view: ViewModels},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			r, ok := table.Lookup(tt.path)
			require.True(t, ok)
			assert.Equal(t, tt.path, r.Path)
			assert.Equal(t, tt.name, r.Name)
			assert.Equal(t, tt.view, r.View)
		})
	}
}

func TestDefaultLookupNoMatch(t *testing.T) {
	table := Default()

	for _, path := range []string{"", "/jobs/", "/Jobs", "/JOBS", "/models/abc", "/unknown", "jobs"} {
		t.Run(path, func(t *testing.T) {
			r, ok := table.Lookup(path)
			assert.False(t, ok)
			assert.Equal(t, Route{}, r)
		})
	}
}

func TestDefaultOrder(t *testing.T) {
	routes := Default().Routes()
	require.Len(t, routes, 4)

	var paths []string
	for _, r := range routes {
		paths = append(paths, r.Path)
	}
	assert.Equal(t, []string{"/", "/jobs", "/triggers", "/models"}, paths)
	assert.Equal(t, []ViewID{ViewJobs, ViewTriggers, ViewModels}, Default().Views())
}

func TestRoutesReturnsCopy(t *testing.T) {
	table := Default()
	routes := table.Routes()
	routes[0].Name = "Changed"

	r, ok := table.Lookup("/")
	require.True(t, ok)
	assert.Equal(t, "Home", r.Name)
}

func TestNewTableValidation(t *testing.T) {
	tests := []struct {
		name    string
		routes  []Route
		wantErr error
	}{
		{
			name: "duplicate path",
			routes: []Route{
				{Path: "/jobs", Name: "Jobs", View: ViewJobs},
				{Path: "/jobs", Name: "Again", View: ViewModels},
			},
			wantErr: ErrDuplicatePath,
		},
		{
			name:    "empty path",
			routes:  []Route{{Path: "", Name: "Empty", View: ViewJobs}},
			wantErr: ErrInvalidPath,
		},
		{
			name:    "relative path",
			routes:  []Route{{Path: "jobs", Name: "Jobs", View: ViewJobs}},
			wantErr: ErrInvalidPath,
		},
		{
			name:    "missing view",
			routes:  []Route{{Path: "/x", Name: "X"}},
			wantErr: ErrInvalidView,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := NewTable(tt.routes...)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, table)
		})
	}
}

func TestMustNewTablePanics(t *testing.T) {
	assert.Panics(t, func() {
		MustNewTable(Route{Path: "/", View: ViewJobs}, Route{Path: "/", View: ViewJobs})
	})
}

func TestEmptyTable(t *testing.T) {
	table, err := NewTable()
	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())
	_, ok := table.Lookup("/")
	assert.False(t, ok)
}
