package assets

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseManifest(t *testing.T) {
	t.Run("empty input is an empty manifest", func(t *testing.T) {
		m, err := ParseManifest("")
		require.NoError(t, err)
		assert.NotNil(t, m)
		assert.Empty(t, m)
	})

	t.Run("null is an empty manifest", func(t *testing.T) {
		m, err := ParseManifest("null")
		require.NoError(t, err)
		assert.NotNil(t, m)
		assert.Empty(t, m)
	})

	t.Run("flat object", func(t *testing.T) {
		m, err := ParseManifest(`{"pizzaz.js":"pizzaz-2d2b.js","pizzaz.css":"pizzaz-2d2b.css"}`)
		require.NoError(t, err)
		assert.Equal(t, Manifest{"pizzaz.js": "pizzaz-2d2b.js", "pizzaz.css": "pizzaz-2d2b.css"}, m)
	})

	t.Run("malformed input fails with cause", func(t *testing.T) {
		_, err := ParseManifest("{not json")
		var parseErr *ManifestParseError
		require.True(t, errors.As(err, &parseErr))

		var syntaxErr *json.SyntaxError
		assert.True(t, errors.As(err, &syntaxErr))
	})

	t.Run("non-string values are malformed", func(t *testing.T) {
		_, err := ParseManifest(`{"pizzaz.js": 1}`)
		var parseErr *ManifestParseError
		assert.True(t, errors.As(err, &parseErr))
	})
}

func TestManifestSources(t *testing.T) {
	t.Run("static", func(t *testing.T) {
		raw, err := StaticManifest(`{"a":"b"}`).Load()
		require.NoError(t, err)
		assert.Equal(t, `{"a":"b"}`, raw)
	})

	t.Run("env set", func(t *testing.T) {
		t.Setenv("PIZZAZ_TEST_MANIFEST", `{"a":"b"}`)
		raw, err := EnvManifest{Name: "PIZZAZ_TEST_MANIFEST"}.Load()
		require.NoError(t, err)
		assert.Equal(t, `{"a":"b"}`, raw)
	})

	t.Run("env unset is absent", func(t *testing.T) {
		raw, err := EnvManifest{Name: "PIZZAZ_TEST_MANIFEST_UNSET"}.Load()
		require.NoError(t, err)
		assert.Empty(t, raw)
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "manifest.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"a":"b"}`), 0o644))
		raw, err := FileManifest{Path: path}.Load()
		require.NoError(t, err)
		assert.Equal(t, `{"a":"b"}`, raw)
	})

	t.Run("missing file is absent", func(t *testing.T) {
		raw, err := FileManifest{Path: filepath.Join(t.TempDir(), "missing.json")}.Load()
		require.NoError(t, err)
		assert.Empty(t, raw)
	})
}
