package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAPI(h *APIHandler) *http.ServeMux {
	mux := http.NewServeMux()
	cfg := huma.DefaultConfig("test", Version)
	cfg.Transformers = append(cfg.Transformers, LinkTransformer())
	RegisterRoutes(humago.New(mux, cfg), h)
	return mux
}

func get(mux *http.ServeMux, path string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func TestHealth(t *testing.T) {
	mux := newTestAPI(NewAPIHandler(Info{}, nil))

	rr := get(mux, "/health")
	require.Equal(t, http.StatusOK, rr.Code)

	var body HealthBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, Version, body.Version)
	assert.Empty(t, body.Upstream)

	links := rr.Header().Values("Link")
	assert.Contains(t, links, `</api/v1/info>; rel="info"`)
	assert.Contains(t, links, `</health>; rel="self"`)
}

func TestHealth_Deep(t *testing.T) {
	var fail error
	mux := newTestAPI(NewAPIHandler(Info{}, func(context.Context) error { return fail }))

	rr := get(mux, "/health?deep=true")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"upstream":"ok"`)

	fail = errors.New("connection refused")
	rr = get(mux, "/health?deep=true")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Contains(t, rr.Body.String(), "inventory API unavailable")
}

func TestInfo(t *testing.T) {
	mux := newTestAPI(NewAPIHandler(Info{
		Upstream: "http://inventory.test",
		ReadOnly: true,
		Sessions: func() int { return 3 },
	}, nil))

	rr := get(mux, "/api/v1/info")
	require.Equal(t, http.StatusOK, rr.Code)

	var body InfoBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "floormap", body.Name)
	assert.Equal(t, "http://inventory.test", body.Upstream)
	assert.True(t, body.ReadOnly)
	assert.Equal(t, 3, body.Sessions)
	assert.NotContains(t, body.Features, "editing")
}
