package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeblew999/plat-floormap/internal/session"
)

const testBase = "http://inventory.test"

func newTestServer(t *testing.T, readOnly bool) (*Server, *httpmock.MockTransport) {
	t.Helper()
	mt := httpmock.NewMockTransport()
	mt.RegisterResponder(http.MethodGet, testBase+"/api/maps",
		httpmock.NewStringResponder(http.StatusOK, `[{"id":1,"name":"Ground"}]`))

	srv, err := New(Config{
		Host:           "localhost",
		Port:           "8086",
		APIURL:         testBase,
		ReadOnly:       readOnly,
		SessionTTL:     time.Minute,
		RequestTimeout: time.Second,
		Logger:         zerolog.Nop(),
		HTTPClient:     &http.Client{Transport: mt},
	})
	require.NoError(t, err)
	return srv, mt
}

func serve(srv *Server, method, path string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, httptest.NewRequest(method, path, nil))
	return rr
}

func TestPage_SetsSessionAndRoutes(t *testing.T) {
	srv, _ := newTestServer(t, false)

	rr := serve(srv, http.MethodGet, "/")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/html")

	var cookie *http.Cookie
	for _, c := range rr.Result().Cookies() {
		if c.Name == session.CookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	_, ok := srv.Sessions().Lookup(cookie.Value)
	assert.True(t, ok)

	body := rr.Body.String()
	assert.Contains(t, body, `id="map-board"`)
	assert.Contains(t, body, `id="bulk-panel"`)
	assert.Contains(t, body, "name,tags,quantity,description,link")
	assert.Contains(t, body, `<option value="zone">Zone</option>`)
	// route URLs land inside JS attribute strings, so slashes are escaped
	assert.Contains(t, body, `api\/v1\/view\/maps\/select`)
	assert.Contains(t, body, `&#34;mapid&#34;:&#34;0&#34;`)
	assert.Contains(t, body, `&#34;_busysubmit&#34;:false`)
	assert.NotContains(t, body, `&#34;error&#34;`)
}

func TestPage_ReadOnlyHidesEditing(t *testing.T) {
	srv, _ := newTestServer(t, true)

	body := serve(srv, http.MethodGet, "/").Body.String()
	assert.NotContains(t, body, `id="bulk-panel"`)
	assert.NotContains(t, body, "Add item")
}

func TestPage_ReloadsTemplatesFromDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "fragments"), 0o755))
	write := func(body string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "fragments", "page.html"), []byte(body), 0o644))
	}
	write(`{{define "page"}}{{.Title}} v1{{end}}`)

	srv, err := New(Config{
		APIURL:       testBase,
		TemplatesDir: dir,
		Logger:       zerolog.Nop(),
		HTTPClient:   &http.Client{Transport: httpmock.NewMockTransport()},
	})
	require.NoError(t, err)
	assert.Equal(t, "Floor map v1", serve(srv, http.MethodGet, "/").Body.String())

	write(`{{define "page"}}{{.Title}} v2{{end}}`)
	assert.Equal(t, "Floor map v2", serve(srv, http.MethodGet, "/").Body.String())
}

func TestPage_UnknownPath(t *testing.T) {
	srv, _ := newTestServer(t, false)
	assert.Equal(t, http.StatusNotFound, serve(srv, http.MethodGet, "/nope").Code)
}

func TestOpenAPI_ListsViewOperations(t *testing.T) {
	srv, _ := newTestServer(t, false)

	spec := srv.OpenAPI()
	for _, path := range []string{"/health", "/api/v1/info", "/api/v1/view/form/submit", "/api/v1/view/items/{id}", "/api/v1/view/scene"} {
		assert.Contains(t, spec.Paths, path)
	}
	assert.Equal(t, "delete-item", spec.Paths["/api/v1/view/items/{id}"].Delete.OperationID)
}

func TestRoutes_HealthInfoMetrics(t *testing.T) {
	srv, mt := newTestServer(t, false)

	rr := serve(srv, http.MethodGet, "/health?deep=true")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"upstream":"ok"`)
	assert.Equal(t, 1, mt.GetTotalCallCount())

	rr = serve(srv, http.MethodGet, "/api/v1/info")
	require.Equal(t, http.StatusOK, rr.Code)
	var info struct {
		Upstream string `json:"upstream"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &info))
	assert.Equal(t, testBase, info.Upstream)

	rr = serve(srv, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.Contains(rr.Body.String(), `floormap_gateway_requests_total{op="list maps",status="200"} 1`))
}
