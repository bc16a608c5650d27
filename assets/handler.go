package assets

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/spirilis/pizzaz-mcp/logging"
)

// PathPrefix is the URL prefix asset requests are mounted under
const PathPrefix = "/assets/"

// Handler serves GET/HEAD requests under PathPrefix through an Orchestrator,
// reading the manifest fresh for each request
type Handler struct {
	orchestrator *Orchestrator
	manifest     ManifestSource
}

// NewHandler creates an asset HTTP handler
func NewHandler(orchestrator *Orchestrator, manifest ManifestSource) *Handler {
	if manifest == nil {
		manifest = StaticManifest("")
	}
	return &Handler{orchestrator: orchestrator, manifest: manifest}
}

type errorBody struct {
	Error string `json:"error"`
	Path  string `json:"path,omitempty"`
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodOptions:
		SetCORSHeaders(w.Header())
		w.WriteHeader(http.StatusNoContent)
		return
	case http.MethodGet, http.MethodHead:
	default:
		SetCORSHeaders(w.Header())
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if logging.IsTraceEnabled() {
		logging.Trace("Asset request received",
			"method", r.Method,
			"path", r.URL.Path,
			"headers", logging.SanitizeHeaders(r.Header))
	}

	requested := strings.TrimPrefix(r.URL.Path, PathPrefix)

	raw, err := h.manifest.Load()
	if err != nil {
		logging.Error("Failed to load asset manifest", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "Failed to load asset manifest"})
		return
	}

	resp, err := h.orchestrator.Serve(r.Context(), requested, raw)
	if err != nil {
		var notFound *AssetNotFoundError
		var parseErr *ManifestParseError
		switch {
		case errors.As(err, &notFound):
			writeJSON(w, http.StatusNotFound, errorBody{Error: "Asset not found", Path: PathPrefix + notFound.Key})
		case errors.As(err, &parseErr):
			logging.Error("Failed to serve asset", "path", requested, "error", err)
			writeJSON(w, http.StatusInternalServerError, errorBody{Error: "Failed to parse asset manifest"})
		default:
			logging.Error("Failed to serve asset", "path", requested, "error", err)
			writeJSON(w, http.StatusInternalServerError, errorBody{Error: "Failed to fetch asset"})
		}
		return
	}
	defer resp.Body.Close()

	for key, values := range resp.Header {
		w.Header()[key] = values
	}
	w.WriteHeader(resp.StatusCode)

	if r.Method == http.MethodHead {
		return
	}
	if _, err := io.Copy(w, resp.Body); err != nil {
		logging.Debug("Asset body copy interrupted", "path", requested, "error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	SetCORSHeaders(w.Header())
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
