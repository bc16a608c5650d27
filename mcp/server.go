// Package mcp answers MCP JSON-RPC requests against the widget catalog:
// resource and template discovery, widget markup reads, and widget tool calls.
package mcp

import (
	"context"
	"encoding/json"

	"github.com/spirilis/pizzaz-mcp/logging"
	"github.com/spirilis/pizzaz-mcp/transport"
	"github.com/spirilis/pizzaz-mcp/widgets"
)

// ServerConfig holds configuration for the MCP server
type ServerConfig struct {
	Name      string // Server name (default: "pizzaz-mcp")
	Version   string // Server version (default: "0.1.0")
	PublicURL string // Optional base URL for widget asset links
}

// Server implements the MCP protocol. It holds no per-request state and is
// safe for concurrent use.
type Server struct {
	catalog    *widgets.Catalog
	components map[string]string // widget id -> component name
	config     ServerConfig
}

// NewServer creates a new MCP server over catalog. If config is nil, default
// values are used. Every widget must have a component binding.
func NewServer(catalog *widgets.Catalog, config *ServerConfig) (*Server, error) {
	cfg := ServerConfig{
		Name:    "pizzaz-mcp",
		Version: "0.1.0",
	}
	if config != nil {
		if config.Name != "" {
			cfg.Name = config.Name
		}
		if config.Version != "" {
			cfg.Version = config.Version
		}
		cfg.PublicURL = config.PublicURL
	}

	components := make(map[string]string, catalog.Len())
	for _, w := range catalog.List() {
		component, err := widgets.ResolveComponentName(w.ID)
		if err != nil {
			return nil, err
		}
		components[w.ID] = component
	}

	return &Server{
		catalog:    catalog,
		components: components,
		config:     cfg,
	}, nil
}

// HandleMessage processes incoming JSON-RPC messages
func (s *Server) HandleMessage(ctx context.Context, data []byte) []byte {
	var req transport.JSONRPCRequest
	if err := json.Unmarshal(data, &req); err != nil {
		logging.Debug("JSON-RPC parse error", "error", err)
		return s.errorResponse(nil, transport.ParseError, "Parse error", nil)
	}

	logging.Debug("JSON-RPC request", "method", req.Method, "id", req.ID)

	if logging.IsTraceEnabled() && req.Params != nil {
		logging.Trace("JSON-RPC params", "method", req.Method, "params", string(req.Params))
	}

	// Handle notifications (no response)
	if req.ID == nil {
		s.handleNotification(req.Method)
		return nil
	}

	var result interface{}
	var err error

	switch req.Method {
	case "initialize":
		result, err = s.handleInitialize(req.Params)
	case "ping":
		result = struct{}{}
	case "resources/list":
		result = s.ListResources()
	case "resources/read":
		result, err = s.handleResourcesRead(ctx, req.Params)
	case "resources/templates/list":
		result = s.ListResourceTemplates()
	case "tools/list":
		result = s.ListTools()
	case "tools/call":
		result, err = s.handleToolsCall(req.Params)
	default:
		logging.Debug("JSON-RPC method not found", "method", req.Method)
		rpcRequestsTotal.WithLabelValues("unknown", "client_error").Inc()
		return s.errorResponse(req.ID, transport.MethodNotFound, "Method not found", nil)
	}

	if err != nil {
		code := errorCode(err)
		if code == transport.InternalError {
			rpcRequestsTotal.WithLabelValues(req.Method, "server_error").Inc()
			logging.Error("JSON-RPC error", "method", req.Method, "error", err)
		} else {
			rpcRequestsTotal.WithLabelValues(req.Method, "client_error").Inc()
			logging.Debug("JSON-RPC error", "method", req.Method, "error", err)
		}
		return s.errorResponse(req.ID, code, err.Error(), nil)
	}

	rpcRequestsTotal.WithLabelValues(req.Method, "ok").Inc()

	if logging.IsTraceEnabled() {
		resultJSON, _ := json.Marshal(result)
		logging.Trace("JSON-RPC response", "method", req.Method, "result", string(resultJSON))
	}

	return s.successResponse(req.ID, result)
}

// successResponse creates a successful JSON-RPC response
func (s *Server) successResponse(id interface{}, result interface{}) []byte {
	resp := transport.JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      id,
		Result:  result,
	}
	data, err := json.Marshal(resp)
	if err != nil {
		logging.Error("JSON-RPC response encoding failed", "error", err)
		return s.errorResponse(id, transport.InternalError, "Internal error", nil)
	}
	return data
}

// errorResponse creates an error JSON-RPC response
func (s *Server) errorResponse(id interface{}, code int, message string, data interface{}) []byte {
	resp := transport.JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &transport.RPCError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
	respData, _ := json.Marshal(resp)
	return respData
}
