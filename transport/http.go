package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spirilis/pizzaz-mcp/logging"
)

// maxBodySize bounds a single POSTed JSON-RPC message
const maxBodySize = 4 * 1024 * 1024

// responseRecorder wraps http.ResponseWriter to capture response details
type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	size       int
	body       *bytes.Buffer
}

func newResponseRecorder(w http.ResponseWriter) *responseRecorder {
	return &responseRecorder{
		ResponseWriter: w,
		statusCode:     http.StatusOK, // Default status
		body:           &bytes.Buffer{},
	}
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	// Capture body if trace logging is enabled
	if logging.IsTraceEnabled() {
		r.body.Write(b)
	}
	n, err := r.ResponseWriter.Write(b)
	r.size += n
	return n, err
}

// Flush lets SSE writes through the recorder reach the client
func (r *responseRecorder) Flush() {
	if flusher, ok := r.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

// Session represents a stateful Streamable HTTP client session
type Session struct {
	ID      string
	Created time.Time
	Done    chan struct{}
}

// SessionManager manages active sessions
type SessionManager struct {
	sessions sync.Map // map[string]*Session
}

// NewSessionManager creates a new session manager
func NewSessionManager() *SessionManager {
	return &SessionManager{}
}

// CreateSession creates a new session with a unique ID
func (sm *SessionManager) CreateSession() *Session {
	session := &Session{
		ID:      uuid.NewString(),
		Created: time.Now(),
		Done:    make(chan struct{}),
	}
	sm.sessions.Store(session.ID, session)
	return session
}

// GetSession retrieves a session by ID
func (sm *SessionManager) GetSession(id string) (*Session, bool) {
	val, ok := sm.sessions.Load(id)
	if !ok {
		return nil, false
	}
	return val.(*Session), true
}

// RemoveSession removes a session by ID
func (sm *SessionManager) RemoveSession(id string) bool {
	val, ok := sm.sessions.LoadAndDelete(id)
	if ok {
		close(val.(*Session).Done)
	}
	return ok
}

// HTTPTransportConfig holds configuration for HTTP transport
type HTTPTransportConfig struct {
	Host        string
	Port        int
	Stateful    bool         // Issue and require Mcp-Session-Id
	Assets      http.Handler // Optional, mounted under /assets/
	MetricsPath string       // Optional, serves Prometheus metrics when set
}

// HTTPTransport implements Transport using Streamable HTTP, and also serves
// widget assets and metrics from the same listener
type HTTPTransport struct {
	config         HTTPTransportConfig
	sessionManager *SessionManager
	handler        MessageHandler
	server         *http.Server
	stopCh         chan struct{}
	wg             sync.WaitGroup
}

// NewHTTPTransport creates a new HTTP transport
func NewHTTPTransport(config HTTPTransportConfig) *HTTPTransport {
	// Set defaults
	if config.Host == "" {
		config.Host = "0.0.0.0"
	}
	if config.Port == 0 {
		config.Port = 8080
	}

	return &HTTPTransport{
		config:         config,
		sessionManager: NewSessionManager(),
		stopCh:         make(chan struct{}),
	}
}

// Handler builds the routing table. handler receives the /mcp messages.
func (t *HTTPTransport) Handler(handler MessageHandler) http.Handler {
	t.handler = handler

	mux := http.NewServeMux()
	mux.HandleFunc("/mcp", t.handleMCP)
	if t.config.Assets != nil {
		mux.Handle("/assets/", t.config.Assets)
	}
	if t.config.MetricsPath != "" {
		mux.Handle("GET "+t.config.MetricsPath, promhttp.Handler())
	}
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		setCORSHeaders(w.Header())
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprint(w, "Pizzaz MCP server")
	})
	return mux
}

// Start begins the HTTP server
func (t *HTTPTransport) Start(handler MessageHandler) error {
	t.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", t.config.Host, t.config.Port),
		Handler:           t.Handler(handler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		logging.Info("HTTP server listening", "addr", t.server.Addr, "transport", "Streamable HTTP", "stateful", t.config.Stateful)
		if err := t.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("HTTP server error", "error", err)
		}
	}()

	return nil
}

// Stop gracefully stops the HTTP server
func (t *HTTPTransport) Stop() error {
	close(t.stopCh)

	if t.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := t.server.Shutdown(ctx); err != nil {
			t.server.Close()
			return err
		}
	}

	t.wg.Wait()
	return nil
}

func setCORSHeaders(h http.Header) {
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "*")
	h.Set("Access-Control-Expose-Headers", "Mcp-Session-Id")
}

// requestOrigin reconstructs the origin the client used, trusting the
// forwarding headers set by the edge proxy
func requestOrigin(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
	}

	host := r.Host
	if fwd := r.Header.Get("X-Forwarded-Host"); fwd != "" {
		host = strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	return scheme + "://" + host
}

// handleMCP handles the /mcp endpoint for Streamable HTTP transport
func (t *HTTPTransport) handleMCP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	// Wrap response writer to capture details
	recorder := newResponseRecorder(w)
	setCORSHeaders(recorder.Header())

	if r.Method == http.MethodOptions {
		recorder.WriteHeader(http.StatusNoContent)
		return
	}

	// Trace: Log request details
	if logging.IsTraceEnabled() {
		logging.Trace("HTTP request received",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"headers", logging.SanitizeHeaders(r.Header))
	}

	switch r.Method {
	case http.MethodPost:
		t.handlePost(recorder, r)
	case http.MethodGet:
		t.handleGet(recorder, r)
	case http.MethodDelete:
		t.handleDelete(recorder, r)
	default:
		http.Error(recorder, "Method not allowed", http.StatusMethodNotAllowed)
	}

	if logging.IsDebugEnabled() {
		logArgs := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", recorder.statusCode,
			"size", recorder.size,
			"duration_ms", time.Since(start).Milliseconds(),
			"remote_addr", r.RemoteAddr,
		}
		if sessionID := r.Header.Get("Mcp-Session-Id"); sessionID != "" {
			logArgs = append(logArgs, "session_id", sessionID)
		}
		logging.Debug("HTTP request completed", logArgs...)
	}

	// Trace: Log response body
	if logging.IsTraceEnabled() && recorder.body.Len() > 0 {
		logging.Trace("HTTP response body", "body", recorder.body.String())
	}
}

// handlePost handles POST requests (client → server messages)
func (t *HTTPTransport) handlePost(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	if logging.IsTraceEnabled() {
		logging.Trace("HTTP POST request body", "body", string(body))
	}

	var envelope struct {
		Method string `json:"method"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if t.config.Stateful {
		sessionID := r.Header.Get("Mcp-Session-Id")
		if envelope.Method == "initialize" {
			session, ok := t.sessionManager.GetSession(sessionID)
			if !ok {
				session = t.sessionManager.CreateSession()
				logging.Debug("Session created via POST", "session_id", session.ID)
			}
			w.Header().Set("Mcp-Session-Id", session.ID)
		} else {
			if sessionID == "" {
				http.Error(w, "Missing Mcp-Session-Id header", http.StatusBadRequest)
				return
			}
			if _, ok := t.sessionManager.GetSession(sessionID); !ok {
				http.Error(w, "Session not found", http.StatusNotFound)
				return
			}
		}
	}

	ctx := WithOrigin(r.Context(), requestOrigin(r))
	response := t.handler.HandleMessage(ctx, body)
	if response == nil {
		w.WriteHeader(http.StatusAccepted)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(response)
}

// handleGet opens an SSE stream for server → client messages. This server
// never initiates messages, so the stream only carries keep-alives.
func (t *HTTPTransport) handleGet(w http.ResponseWriter, r *http.Request) {
	if !t.config.Stateful {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sessionID := r.Header.Get("Mcp-Session-Id")
	session, ok := t.sessionManager.GetSession(sessionID)
	if !ok {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}
	logging.Debug("SSE connection established", "session_id", sessionID, "remote_addr", r.RemoteAddr)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Mcp-Session-Id", session.ID)
	w.WriteHeader(http.StatusOK)

	flusher, _ := w.(http.Flusher)
	if flusher != nil {
		flusher.Flush()
	}

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			logging.Debug("SSE connection closed by client", "session_id", session.ID)
			return
		case <-session.Done:
			logging.Debug("SSE connection closed (session ended)", "session_id", session.ID)
			return
		case <-t.stopCh:
			return
		case <-ticker.C:
			fmt.Fprint(w, ": ping\n\n")
			if flusher != nil {
				flusher.Flush()
			}
		}
	}
}

// handleDelete handles DELETE requests (session cleanup)
func (t *HTTPTransport) handleDelete(w http.ResponseWriter, r *http.Request) {
	if !t.config.Stateful {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sessionID := r.Header.Get("Mcp-Session-Id")
	if sessionID == "" {
		http.Error(w, "Missing Mcp-Session-Id header", http.StatusBadRequest)
		return
	}

	if !t.sessionManager.RemoveSession(sessionID) {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}
	logging.Debug("Session deleted", "session_id", sessionID)
	w.WriteHeader(http.StatusOK)
}
