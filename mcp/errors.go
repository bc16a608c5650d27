package mcp

import (
	"errors"
	"fmt"

	"github.com/spirilis/pizzaz-mcp/transport"
)

// UnknownResourceError reports a resource URI that no widget is bound to
type UnknownResourceError struct {
	URI string
}

func (e *UnknownResourceError) Error() string {
	return fmt.Sprintf("Unknown resource: %s", e.URI)
}

// UnknownToolError reports a tool name that matches no widget id
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("Unknown tool: %s", e.Name)
}

// InvalidArgumentsError reports tool arguments rejected by the input schema
type InvalidArgumentsError struct {
	Tool string
	Err  error
}

func (e *InvalidArgumentsError) Error() string {
	return fmt.Sprintf("Invalid arguments for tool %s: %v", e.Tool, e.Err)
}

func (e *InvalidArgumentsError) Unwrap() error {
	return e.Err
}

// invalidParamsError reports request params that could not be decoded
type invalidParamsError struct {
	method string
	err    error
}

func (e *invalidParamsError) Error() string {
	return fmt.Sprintf("invalid %s params: %v", e.method, e.err)
}

func (e *invalidParamsError) Unwrap() error {
	return e.err
}

// isClientError reports whether err was caused by the request rather than the server
func isClientError(err error) bool {
	var unknownResource *UnknownResourceError
	var unknownTool *UnknownToolError
	var invalidArgs *InvalidArgumentsError
	var invalidParams *invalidParamsError
	return errors.As(err, &unknownResource) ||
		errors.As(err, &unknownTool) ||
		errors.As(err, &invalidArgs) ||
		errors.As(err, &invalidParams)
}

// errorCode maps an operation error onto a JSON-RPC error code. Client
// mistakes become Invalid params; a widgets.ConfigurationError, like any
// other failure, is an Internal error.
func errorCode(err error) int {
	if isClientError(err) {
		return transport.InvalidParams
	}
	return transport.InternalError
}
