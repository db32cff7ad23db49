package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/nikbrunner/kiosk/internal/dashboard"
	"github.com/nikbrunner/kiosk/internal/exporter"
	"github.com/nikbrunner/kiosk/internal/model"
	"github.com/nikbrunner/kiosk/internal/server"
	"github.com/nikbrunner/kiosk/internal/storage"
	"github.com/nikbrunner/kiosk/internal/surface"
)

type fixture struct {
	srv     *server.Server
	store   *storage.JSONStorage
	page    *surface.Page
	manager *dashboard.Manager
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	reg := model.DefaultRegistry()
	store := storage.NewJSONStorage(filepath.Join(t.TempDir(), "panels.json"))
	page, err := surface.ParseString(exporter.DashboardHTML(reg))
	assert.NilError(t, err)
	manager := dashboard.New(dashboard.Params{Loader: store, Surface: page, Registry: reg})

	srv := server.New(server.Params{
		Storage:  store,
		Manager:  manager,
		Page:     page,
		Registry: reg,
		Toggles:  model.Toggles{model.Markets: true},
	})
	return fixture{srv: srv, store: store, page: page, manager: manager}
}

func (f fixture) do(method, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	w := httptest.NewRecorder()
	f.srv.Handler().ServeHTTP(w, req)
	return w
}

func TestServer_GetPanelsDefault(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/config/panels.json", nil)

	assert.Equal(t, w.Code, http.StatusOK)
	assert.Equal(t, w.Header().Get("Content-Type"), "application/json")

	var doc model.Document
	assert.NilError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Assert(t, doc.Layout.Equal(model.NewLayout()))
}

func TestServer_SaveDerivesEnabledAndApplies(t *testing.T) {
	f := newFixture(t)
	body := `{"rows":2,"columns":3,"panels":[{"id":"news","row":0,"col":0,"width":3,"height":1}],
	          "activePanels":[{"id":"news","visible":true}]}`

	w := f.do(http.MethodPost, "/config/panels", []byte(body))
	assert.Equal(t, w.Code, http.StatusOK, w.Body.String())

	saved, err := f.store.Load(context.Background())
	assert.NilError(t, err)
	assert.Equal(t, saved.Columns, 3)
	assert.Assert(t, saved.PanelsEnabled[model.News], "placed")
	assert.Assert(t, saved.PanelsEnabled[model.InfoFeed], "markets toggle")
	assert.Assert(t, !saved.PanelsEnabled[model.Timer])

	// The live dashboard follows the save
	assert.Equal(t, f.page.Style("news", "grid-column"), "1 / span 3")
	assert.Equal(t, f.page.GridStyle("grid-template-columns"), "repeat(3, 1fr)")

	w = f.do(http.MethodGet, "/dashboard", nil)
	assert.Equal(t, w.Code, http.StatusOK)
	assert.Assert(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/html"))
	assert.Assert(t, is.Contains(w.Body.String(), "grid-column: 1 / span 3"))
}

func TestServer_SaveReportsProblems(t *testing.T) {
	f := newFixture(t)
	body := `{"rows":1,"columns":1,"panels":[{"id":"news","row":0,"col":0,"width":2,"height":1}]}`

	w := f.do(http.MethodPost, "/config/panels", []byte(body))
	assert.Equal(t, w.Code, http.StatusOK)

	var resp struct {
		Status   string   `json:"status"`
		Problems []string `json:"problems"`
	}
	assert.NilError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.DeepEqual(t, resp.Problems, []string{"news does not fit the grid"})
}

func TestServer_SaveRejectsMalformedBody(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodPost, "/config/panels", []byte("{not json"))

	assert.Equal(t, w.Code, http.StatusBadRequest)
}

type failingStorage struct{}

func (failingStorage) Load(context.Context) (*model.Document, error) {
	return nil, storage.Unavailable("load", errors.New("disk gone"))
}

func (failingStorage) Save(context.Context, *model.Document) error {
	return storage.Unavailable("save", errors.New("disk gone"))
}

func TestServer_StorageFailure(t *testing.T) {
	srv := server.New(server.Params{Storage: failingStorage{}})

	for _, tc := range []struct {
		method, path, body string
	}{
		{http.MethodGet, "/config/panels.json", ""},
		{http.MethodPost, "/config/panels", "{}"},
	} {
		req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, req)
		assert.Equal(t, w.Code, http.StatusServiceUnavailable, "%s %s", tc.method, tc.path)
	}
}

func TestServer_DashboardWithoutPage(t *testing.T) {
	srv := server.New(server.Params{Storage: failingStorage{}})

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, w.Code, http.StatusNotFound)
}

func TestServer_HealthAndMethods(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/health", nil)
	assert.Equal(t, w.Code, http.StatusOK)
	assert.Assert(t, is.Contains(w.Body.String(), `"ok"`))

	w = f.do(http.MethodDelete, "/config/panels", nil)
	assert.Equal(t, w.Code, http.StatusMethodNotAllowed)
}

// HTTPStorage and the server agree on the wire format.
func TestServer_HTTPStorageRoundTrip(t *testing.T) {
	f := newFixture(t)
	ts := httptest.NewServer(f.srv.Handler())
	defer ts.Close()

	remote, err := storage.NewHTTPStorage(ts.URL, ts.Client())
	assert.NilError(t, err)
	ctx := context.Background()

	layout := model.Layout{Rows: 3, Columns: 3, Panels: []model.Placement{
		{ID: model.Timer, Row: 2, Col: 2, Width: 1, Height: 1},
	}}
	assert.NilError(t, remote.Save(ctx, model.NewDocument(layout, nil, model.DefaultRegistry(), nil)))

	doc, err := remote.Load(ctx)
	assert.NilError(t, err)
	assert.Assert(t, doc.Layout.Equal(layout))
	assert.Assert(t, doc.PanelsEnabled[model.Timer])
}
