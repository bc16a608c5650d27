// Package transport carries JSON-RPC messages between MCP clients and a
// MessageHandler, and hosts the outer HTTP routes of the server.
package transport

import (
	"context"
	"encoding/json"
)

// Standard JSON-RPC 2.0 error codes
const (
	ParseError     = -32700
	InvalidRequest = -32600
	MethodNotFound = -32601
	InvalidParams  = -32602
	InternalError  = -32603
)

// JSONRPCRequest is an inbound JSON-RPC 2.0 message. A nil ID marks a notification.
type JSONRPCRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// JSONRPCResponse is an outbound JSON-RPC 2.0 message
type JSONRPCResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *RPCError   `json:"error,omitempty"`
}

// RPCError is the error member of a JSON-RPC response
type RPCError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// MessageHandler processes one raw JSON-RPC message and returns the raw
// response, or nil for notifications
type MessageHandler interface {
	HandleMessage(ctx context.Context, data []byte) []byte
}

// Transport moves messages between clients and a MessageHandler
type Transport interface {
	Start(handler MessageHandler) error
	Stop() error
}

type originKey struct{}

// WithOrigin returns a context carrying the origin ("scheme://host") the
// client reached the server on
func WithOrigin(ctx context.Context, origin string) context.Context {
	return context.WithValue(ctx, originKey{}, origin)
}

// OriginFromContext returns the origin stored by WithOrigin
func OriginFromContext(ctx context.Context) (string, bool) {
	origin, ok := ctx.Value(originKey{}).(string)
	return origin, ok && origin != ""
}
