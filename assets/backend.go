package assets

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"path"
	"strconv"
)

// ErrNotFound is returned by a Backend when it holds nothing under the key
var ErrNotFound = errors.New("asset not found")

// Response is a fetched asset ready to relay to the client
type Response struct {
	StatusCode int
	Header     http.Header
	Body       io.ReadCloser
}

// Backend is a static content store keyed by physical asset path.
// Implementations return ErrNotFound for a miss and any other error for a
// store failure.
type Backend interface {
	Fetch(ctx context.Context, key string) (*Response, error)
}

// contentHeaders builds the headers for a locally stored asset
func contentHeaders(key string, size int) http.Header {
	h := make(http.Header)
	contentType := mime.TypeByExtension(path.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h.Set("Content-Type", contentType)
	h.Set("Content-Length", strconv.Itoa(size))
	return h
}
