package mcp

import (
	"context"
	"encoding/json"
	"slices"

	"github.com/spirilis/pizzaz-mcp/logging"
)

// LatestProtocolVersion is offered to clients asking for a version we do not speak
const LatestProtocolVersion = "2025-06-18"

var supportedProtocolVersions = []string{LatestProtocolVersion, "2025-03-26", "2024-11-05"}

// InitializeParams represents the parameters for the initialize request
type InitializeParams struct {
	ProtocolVersion string                 `json:"protocolVersion"`
	Capabilities    map[string]interface{} `json:"capabilities"`
	ClientInfo      ClientInfo             `json:"clientInfo"`
}

// ClientInfo contains information about the client
type ClientInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// InitializeResult represents the result of the initialize request
type InitializeResult struct {
	ProtocolVersion string       `json:"protocolVersion"`
	Capabilities    Capabilities `json:"capabilities"`
	ServerInfo      ServerInfo   `json:"serverInfo"`
}

// Capabilities represents server capabilities
type Capabilities struct {
	Resources map[string]interface{} `json:"resources"`
	Tools     map[string]interface{} `json:"tools"`
}

// ServerInfo contains information about the server
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// handleInitialize processes the initialize request
func (s *Server) handleInitialize(params json.RawMessage) (interface{}, error) {
	var initParams InitializeParams
	if len(params) > 0 {
		if err := json.Unmarshal(params, &initParams); err != nil {
			return nil, &invalidParamsError{method: "initialize", err: err}
		}
	}

	version := LatestProtocolVersion
	if slices.Contains(supportedProtocolVersions, initParams.ProtocolVersion) {
		version = initParams.ProtocolVersion
	}

	logging.Info("Client initialized",
		"client", initParams.ClientInfo.Name,
		"client_version", initParams.ClientInfo.Version,
		"protocol_version", version)

	return InitializeResult{
		ProtocolVersion: version,
		Capabilities: Capabilities{
			Resources: map[string]interface{}{},
			Tools:     map[string]interface{}{},
		},
		ServerInfo: ServerInfo{
			Name:    s.config.Name,
			Version: s.config.Version,
		},
	}, nil
}

// handleNotification processes notification messages. None of them change
// server state.
func (s *Server) handleNotification(method string) {
	logging.Debug("JSON-RPC notification", "method", method)
}

// ResourcesReadParams represents the parameters for resources/read request
type ResourcesReadParams struct {
	URI string `json:"uri"`
}

func (s *Server) handleResourcesRead(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var readParams ResourcesReadParams
	if err := json.Unmarshal(params, &readParams); err != nil {
		return nil, &invalidParamsError{method: "resources/read", err: err}
	}
	return s.ReadResource(ctx, readParams.URI)
}

// ToolsCallParams represents the parameters for tools/call request
type ToolsCallParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

func (s *Server) handleToolsCall(params json.RawMessage) (interface{}, error) {
	var callParams ToolsCallParams
	if err := json.Unmarshal(params, &callParams); err != nil {
		return nil, &invalidParamsError{method: "tools/call", err: err}
	}
	return s.CallTool(callParams.Name, callParams.Arguments)
}
