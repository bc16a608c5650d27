package mcp

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/spirilis/pizzaz-mcp/widgets"
)

// ToolInputSchema is the input schema shared by every widget tool. Clients
// depend on its exact shape.
var ToolInputSchema = json.RawMessage(`{"type":"object","properties":{"pizzaTopping":{"type":"string","description":"Name of the topping to mention in the rendered widget"}},"required":["pizzaTopping"],"additionalProperties":false}`)

var resolvedInputSchema = mustResolveSchema(ToolInputSchema)

func mustResolveSchema(raw json.RawMessage) *jsonschema.Resolved {
	var schema jsonschema.Schema
	if err := json.Unmarshal(raw, &schema); err != nil {
		panic(fmt.Sprintf("tool input schema: %v", err))
	}
	resolved, err := schema.Resolve(nil)
	if err != nil {
		panic(fmt.Sprintf("tool input schema: %v", err))
	}
	return resolved
}

// Tool represents an MCP tool definition
type Tool struct {
	Name        string          `json:"name"`
	Title       string          `json:"title,omitempty"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema"`
	Meta        map[string]any  `json:"_meta,omitempty"`
	Annotations ToolAnnotations `json:"annotations"`
}

// ToolAnnotations are the behavior hints reported for a tool
type ToolAnnotations struct {
	DestructiveHint bool `json:"destructiveHint"`
	OpenWorldHint   bool `json:"openWorldHint"`
	ReadOnlyHint    bool `json:"readOnlyHint"`
}

// ToolContent represents the content of a tool response
type ToolContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// ToppingInput is the validated tool input
type ToppingInput struct {
	PizzaTopping string `json:"pizzaTopping"`
}

// ToolCallResult represents the result of a tool call
type ToolCallResult struct {
	Content           []ToolContent  `json:"content"`
	StructuredContent ToppingInput   `json:"structuredContent"`
	Meta              map[string]any `json:"_meta,omitempty"`
}

// ToolsListResult represents the result of tools/list request
type ToolsListResult struct {
	Tools []Tool `json:"tools"`
}

// ListTools returns one tool per catalog widget, named by widget id
func (s *Server) ListTools() ToolsListResult {
	list := s.catalog.List()
	tools := make([]Tool, 0, len(list))
	for _, w := range list {
		tools = append(tools, Tool{
			Name:        w.ID,
			Title:       w.Title,
			Description: w.Title,
			InputSchema: ToolInputSchema,
			Meta:        widgets.Meta(w),
			Annotations: ToolAnnotations{
				DestructiveHint: false,
				OpenWorldHint:   false,
				ReadOnlyHint:    true,
			},
		})
	}
	return ToolsListResult{Tools: tools}
}

// CallTool invokes the widget tool called name with the given arguments
func (s *Server) CallTool(name string, arguments json.RawMessage) (ToolCallResult, error) {
	w, ok := s.catalog.Lookup().ByID(name)
	if !ok {
		return ToolCallResult{}, &UnknownToolError{Name: name}
	}

	input, err := validateToolInput(arguments)
	if err != nil {
		return ToolCallResult{}, &InvalidArgumentsError{Tool: name, Err: err}
	}

	return ToolCallResult{
		Content: []ToolContent{
			{
				Type: "text",
				Text: w.ResponseText,
			},
		},
		StructuredContent: input,
		Meta:              widgets.Meta(w),
	}, nil
}

func validateToolInput(arguments json.RawMessage) (ToppingInput, error) {
	trimmed := bytes.TrimSpace(arguments)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ToppingInput{}, errors.New("arguments are required")
	}

	var instance any
	if err := json.Unmarshal(trimmed, &instance); err != nil {
		return ToppingInput{}, fmt.Errorf("arguments are not valid JSON: %w", err)
	}
	if err := resolvedInputSchema.Validate(instance); err != nil {
		return ToppingInput{}, err
	}

	var input ToppingInput
	if err := json.Unmarshal(trimmed, &input); err != nil {
		return ToppingInput{}, err
	}
	return input, nil
}
