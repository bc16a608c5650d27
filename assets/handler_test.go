package assets

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(manifest ManifestSource) *Handler {
	backend := NewDirBackend(fstest.MapFS{
		"pizzaz-2d2b.js":  {Data: []byte("js")},
		"pizzaz-2d2b.css": {Data: []byte("css")},
	})
	return NewHandler(NewOrchestrator(backend, FixedHashFallback{}), manifest)
}

func TestHandler_ServesThroughManifest(t *testing.T) {
	h := newTestHandler(StaticManifest(`{"pizzaz.css":"pizzaz-2d2b.css"}`))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets/pizzaz.css", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "css", rec.Body.String())
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "cross-origin", rec.Header().Get("Cross-Origin-Resource-Policy"))
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/css")
}

func TestHandler_HeadHasNoBody(t *testing.T) {
	h := newTestHandler(nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodHead, "/assets/pizzaz.js", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestHandler_NotFound(t *testing.T) {
	h := newTestHandler(nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets/missing.js", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Asset not found", body["error"])
	assert.Equal(t, "/assets/missing-2d2b.js", body["path"])
}

func TestHandler_MalformedManifest(t *testing.T) {
	h := newTestHandler(StaticManifest("{not json"))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets/pizzaz.js", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandler_Preflight(t *testing.T) {
	h := newTestHandler(nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/assets/pizzaz.js", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "GET, HEAD, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
}

func TestHandler_RejectsOtherMethods(t *testing.T) {
	h := newTestHandler(nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/assets/pizzaz.js", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
