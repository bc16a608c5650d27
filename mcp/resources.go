package mcp

import (
	"context"

	"github.com/spirilis/pizzaz-mcp/transport"
	"github.com/spirilis/pizzaz-mcp/widgets"
)

// defaultBaseURL is used for widget markup when neither a public URL nor a
// request origin is known, as on stdio
const defaultBaseURL = "https://localhost"

// Resource represents an MCP resource definition
type Resource struct {
	URI         string         `json:"uri"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	MimeType    string         `json:"mimeType,omitempty"`
	Meta        map[string]any `json:"_meta,omitempty"`
}

// ResourceTemplate represents an MCP resource template definition
type ResourceTemplate struct {
	URITemplate string         `json:"uriTemplate"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	MimeType    string         `json:"mimeType,omitempty"`
	Meta        map[string]any `json:"_meta,omitempty"`
}

// ResourceContents is one entry of a resources/read result
type ResourceContents struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType"`
	Text     string `json:"text"`
}

// ResourcesListResult represents the result of resources/list request
type ResourcesListResult struct {
	Resources []Resource `json:"resources"`
}

// ResourceTemplatesListResult represents the result of resources/templates/list request
type ResourceTemplatesListResult struct {
	ResourceTemplates []ResourceTemplate `json:"resourceTemplates"`
}

// ResourceReadResult represents the result of resources/read request
type ResourceReadResult struct {
	Contents []ResourceContents `json:"contents"`
}

func resourceDescription(w widgets.Widget) string {
	return w.Title + " widget markup"
}

// ListResources returns one resource per catalog widget
func (s *Server) ListResources() ResourcesListResult {
	list := s.catalog.List()
	resources := make([]Resource, 0, len(list))
	for _, w := range list {
		resources = append(resources, Resource{
			URI:         w.TemplateURI,
			Name:        w.Title,
			Description: resourceDescription(w),
			MimeType:    widgets.MimeType,
			Meta:        widgets.Meta(w),
		})
	}
	return ResourcesListResult{Resources: resources}
}

// ListResourceTemplates returns one resource template per catalog widget
func (s *Server) ListResourceTemplates() ResourceTemplatesListResult {
	list := s.catalog.List()
	templates := make([]ResourceTemplate, 0, len(list))
	for _, w := range list {
		templates = append(templates, ResourceTemplate{
			URITemplate: w.TemplateURI,
			Name:        w.Title,
			Description: resourceDescription(w),
			MimeType:    widgets.MimeType,
			Meta:        widgets.Meta(w),
		})
	}
	return ResourceTemplatesListResult{ResourceTemplates: templates}
}

// ReadResource renders the markup for the widget bound to uri. Asset URLs in
// the markup point at the configured public URL, or else the request origin.
func (s *Server) ReadResource(ctx context.Context, uri string) (ResourceReadResult, error) {
	w, ok := s.catalog.Lookup().ByURI(uri)
	if !ok {
		return ResourceReadResult{}, &UnknownResourceError{URI: uri}
	}

	component, ok := s.components[w.ID]
	if !ok {
		return ResourceReadResult{}, &widgets.ConfigurationError{WidgetID: w.ID}
	}

	return ResourceReadResult{
		Contents: []ResourceContents{
			{
				URI:      w.TemplateURI,
				MimeType: widgets.MimeType,
				Text:     widgets.ComposeWidgetHTML(component, s.baseURL(ctx)),
			},
		},
	}, nil
}

func (s *Server) baseURL(ctx context.Context) string {
	if s.config.PublicURL != "" {
		return widgets.NormalizeBaseURL(s.config.PublicURL)
	}
	if origin, ok := transport.OriginFromContext(ctx); ok {
		return widgets.NormalizeBaseURL(origin)
	}
	return defaultBaseURL
}
