package assets

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
)

// DirBackend serves assets from a file system tree, usually the build
// output directory
type DirBackend struct {
	fsys fs.FS
}

// NewDirBackend creates a backend over fsys
func NewDirBackend(fsys fs.FS) *DirBackend {
	return &DirBackend{fsys: fsys}
}

// NewDirBackendFromPath creates a backend rooted at a directory on disk
func NewDirBackendFromPath(dir string) (*DirBackend, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open asset directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("asset path is not a directory: %s", dir)
	}
	return NewDirBackend(os.DirFS(dir)), nil
}

// Fetch reads the file stored under key
func (b *DirBackend) Fetch(ctx context.Context, key string) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !fs.ValidPath(key) {
		return nil, ErrNotFound
	}

	info, err := fs.Stat(b.fsys, key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to stat asset %s: %w", key, err)
	}
	if info.IsDir() {
		return nil, ErrNotFound
	}

	data, err := fs.ReadFile(b.fsys, key)
	if err != nil {
		return nil, fmt.Errorf("failed to read asset %s: %w", key, err)
	}

	return &Response{
		StatusCode: http.StatusOK,
		Header:     contentHeaders(key, len(data)),
		Body:       io.NopCloser(bytes.NewReader(data)),
	}, nil
}
