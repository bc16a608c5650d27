package assets

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readBody(t *testing.T, resp *Response) string {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(data)
}

func TestDirBackend(t *testing.T) {
	backend := NewDirBackend(fstest.MapFS{
		"pizzaz-2d2b.js":  {Data: []byte("console.log('pizza')")},
		"pizzaz-2d2b.css": {Data: []byte("body{}")},
		"nested/list.js":  {Data: []byte("list")},
	})
	ctx := context.Background()

	resp, err := backend.Fetch(ctx, "pizzaz-2d2b.js")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "javascript")
	assert.Equal(t, "20", resp.Header.Get("Content-Length"))
	assert.Equal(t, "console.log('pizza')", readBody(t, resp))

	resp, err = backend.Fetch(ctx, "pizzaz-2d2b.css")
	require.NoError(t, err)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/css")
	readBody(t, resp)

	_, err = backend.Fetch(ctx, "missing.js")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = backend.Fetch(ctx, "nested")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = backend.Fetch(ctx, "../etc/passwd")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNewDirBackendFromPath(t *testing.T) {
	_, err := NewDirBackendFromPath(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)

	backend, err := NewDirBackendFromPath(t.TempDir())
	require.NoError(t, err)
	_, err = backend.Fetch(context.Background(), "pizzaz.js")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBoltBackend(t *testing.T) {
	backend, err := NewBoltBackend(filepath.Join(t.TempDir(), "assets.db"), "")
	require.NoError(t, err)
	defer backend.Close()
	ctx := context.Background()

	require.NoError(t, backend.Put("pizzaz-2d2b.js", []byte("js")))

	resp, err := backend.Fetch(ctx, "pizzaz-2d2b.js")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "js", readBody(t, resp))

	_, err = backend.Fetch(ctx, "pizzaz.js")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBoltBackend_ImportFS(t *testing.T) {
	backend, err := NewBoltBackend(filepath.Join(t.TempDir(), "assets.db"), "bundles")
	require.NoError(t, err)
	defer backend.Close()

	n, err := backend.ImportFS(fstest.MapFS{
		"pizzaz-2d2b.js":      {Data: []byte("js")},
		"pizzaz-2d2b.css":     {Data: []byte("css")},
		"nested/list-2d2b.js": {Data: []byte("list")},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	resp, err := backend.Fetch(context.Background(), "nested/list-2d2b.js")
	require.NoError(t, err)
	assert.Equal(t, "list", readBody(t, resp))
}

func TestOriginBackend(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/pizzaz-2d2b.js":
			w.Header().Set("Content-Type", "text/javascript")
			w.Write([]byte("js"))
		case "/broken.js":
			http.Error(w, "boom", http.StatusBadGateway)
		default:
			http.NotFound(w, r)
		}
	}))
	defer upstream.Close()

	backend := NewOriginBackend(upstream.URL+"/", 5*time.Second)
	ctx := context.Background()

	resp, err := backend.Fetch(ctx, "pizzaz-2d2b.js")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/javascript", resp.Header.Get("Content-Type"))
	assert.Equal(t, "js", readBody(t, resp))

	resp, err = backend.Fetch(ctx, "broken.js")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	readBody(t, resp)

	_, err = backend.Fetch(ctx, "missing.js")
	assert.ErrorIs(t, err, ErrNotFound)
}
