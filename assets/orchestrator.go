package assets

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/spirilis/pizzaz-mcp/logging"
)

// AssetNotFoundError reports that every attempted key missed
type AssetNotFoundError struct {
	Key string // Last key attempted
}

func (e *AssetNotFoundError) Error() string {
	return fmt.Sprintf("asset not found: %s", e.Key)
}

// Orchestrator resolves a requested asset path and fetches it, retrying once
// with the fallback strategy when the resolved key is missing
type Orchestrator struct {
	backend  Backend
	fallback FallbackStrategy
}

// NewOrchestrator creates an orchestrator. A nil fallback disables the retry.
func NewOrchestrator(backend Backend, fallback FallbackStrategy) *Orchestrator {
	if fallback == nil {
		fallback = NoFallback{}
	}
	return &Orchestrator{backend: backend, fallback: fallback}
}

// Serve fetches the asset for requestPath using the manifest in manifestRaw.
// On success the response carries cross-origin headers; the caller owns the body.
func (o *Orchestrator) Serve(ctx context.Context, requestPath, manifestRaw string) (*Response, error) {
	manifest, err := ParseManifest(manifestRaw)
	if err != nil {
		assetRequestsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	requested := NormalizePath(requestPath)
	key := Resolve(manifest, requested)
	logging.Debug("Asset resolved", "requested", requested, "resolved", key)

	resp, err := o.fetch(ctx, "primary", key)
	if errors.Is(err, ErrNotFound) {
		hashed := HasHashSuffix(requested)
		logging.Debug("Asset missed", "requested", requested, "key", key, "has_hash", hashed)

		if candidate, ok := o.fallback.Candidate(requested); ok {
			key = candidate
			logging.Debug("Asset fallback", "requested", requested, "fallback", key)
			resp, err = o.fetch(ctx, "fallback", key)
		}
	}

	if errors.Is(err, ErrNotFound) {
		assetRequestsTotal.WithLabelValues("not_found").Inc()
		logging.Warn("Asset not found", "requested", requested, "key", key)
		return nil, &AssetNotFoundError{Key: key}
	}
	if err != nil {
		assetRequestsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	if resp.Header == nil {
		resp.Header = make(http.Header)
	}
	SetCORSHeaders(resp.Header)
	assetRequestsTotal.WithLabelValues("served").Inc()
	return resp, nil
}

func (o *Orchestrator) fetch(ctx context.Context, stage, key string) (*Response, error) {
	resp, err := o.backend.Fetch(ctx, key)
	switch {
	case err == nil:
		assetFetchesTotal.WithLabelValues(stage, "hit").Inc()
		logging.Debug("Asset fetch", "stage", stage, "key", key, "status", resp.StatusCode)
	case errors.Is(err, ErrNotFound):
		assetFetchesTotal.WithLabelValues(stage, "miss").Inc()
		logging.Debug("Asset fetch", "stage", stage, "key", key, "status", http.StatusNotFound)
	default:
		assetFetchesTotal.WithLabelValues(stage, "error").Inc()
		logging.Error("Asset fetch failed", "stage", stage, "key", key, "error", err)
	}
	return resp, err
}

// SetCORSHeaders marks a response as fetchable and embeddable from any origin
func SetCORSHeaders(h http.Header) {
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Headers", "*")
	h.Set("Access-Control-Allow-Methods", "GET, HEAD, OPTIONS")
	h.Set("Cross-Origin-Resource-Policy", "cross-origin")
}
