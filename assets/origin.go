package assets

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// OriginBackend fetches assets from an upstream static host, such as the
// bucket or CDN the bundles were uploaded to
type OriginBackend struct {
	baseURL string
	client  *http.Client
}

// NewOriginBackend creates a backend requesting baseURL/<key>.
// A zero timeout means no client-side timeout.
func NewOriginBackend(baseURL string, timeout time.Duration) *OriginBackend {
	return &OriginBackend{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Fetch issues a GET for key. A 404 becomes ErrNotFound; every other status
// is handed back for the caller to relay.
func (b *OriginBackend) Fetch(ctx context.Context, key string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+"/"+key, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build asset request: %w", err)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch asset %s: %w", key, err)
	}
	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return nil, ErrNotFound
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header.Clone(),
		Body:       resp.Body,
	}, nil
}
