// Package widgets holds the fixed catalog of Pizzaz widgets and the helpers
// that turn a widget into the markup served for it.
package widgets

import (
	"fmt"
	"strings"
	"sync"
)

// MimeType is the resource type for widget markup. Clients key off it to
// render the skybridge flavor of HTML, so it must not change.
const MimeType = "text/html+skybridge"

// Widget represents a single renderable widget
type Widget struct {
	ID           string // Also the tool name
	Title        string
	TemplateURI  string // Resource URI and resource template URI
	Invoking     string // Status shown while the tool runs
	Invoked      string // Status shown after the tool ran
	ResponseText string
}

// Lookup indexes the catalog by widget id and by template URI
type Lookup struct {
	byID  map[string]Widget
	byURI map[string]Widget
}

// ByID returns the widget with the given id
func (l Lookup) ByID(id string) (Widget, bool) {
	w, ok := l.byID[id]
	return w, ok
}

// ByURI returns the widget whose template URI matches uri
func (l Lookup) ByURI(uri string) (Widget, bool) {
	w, ok := l.byURI[uri]
	return w, ok
}

// Len returns the number of entries in each index
func (l Lookup) Len() (byID, byURI int) {
	return len(l.byID), len(l.byURI)
}

// Catalog is the ordered widget list plus its lookup indexes
type Catalog struct {
	list   []Widget
	lookup Lookup
}

// List returns the widgets in declaration order
func (c *Catalog) List() []Widget {
	// Return a copy to prevent external modification
	result := make([]Widget, len(c.list))
	copy(result, c.list)
	return result
}

// Lookup returns the catalog indexes
func (c *Catalog) Lookup() Lookup {
	return c.lookup
}

// Len returns the catalog size
func (c *Catalog) Len() int {
	return len(c.list)
}

func declaredWidgets() []Widget {
	return []Widget{
		{
			ID:           "pizza-map",
			Title:        "Show Pizza Map",
			TemplateURI:  "ui://widget/pizza-map.html",
			Invoking:     "Hand-tossing a map",
			Invoked:      "Served a fresh map",
			ResponseText: "Rendered a pizza map!",
		},
		{
			ID:           "pizza-carousel",
			Title:        "Show Pizza Carousel",
			TemplateURI:  "ui://widget/pizza-carousel.html",
			Invoking:     "Carousel some spots",
			Invoked:      "Served a fresh carousel",
			ResponseText: "Rendered a pizza carousel!",
		},
		{
			ID:           "pizza-albums",
			Title:        "Show Pizza Album",
			TemplateURI:  "ui://widget/pizza-albums.html",
			Invoking:     "Hand-tossing an album",
			Invoked:      "Served a fresh album",
			ResponseText: "Rendered a pizza album!",
		},
		{
			ID:           "pizza-list",
			Title:        "Show Pizza List",
			TemplateURI:  "ui://widget/pizza-list.html",
			Invoking:     "Hand-tossing a list",
			Invoked:      "Served a fresh list",
			ResponseText: "Rendered a pizza list!",
		},
	}
}

// BuildCatalog constructs a fresh catalog. The output is the same on every call.
func BuildCatalog() *Catalog {
	list := declaredWidgets()
	lookup := Lookup{
		byID:  make(map[string]Widget, len(list)),
		byURI: make(map[string]Widget, len(list)),
	}
	for _, w := range list {
		lookup.byID[w.ID] = w
		lookup.byURI[w.TemplateURI] = w
	}
	return &Catalog{list: list, lookup: lookup}
}

var defaultCatalog = sync.OnceValue(BuildCatalog)

// Default returns the process-wide catalog, built on first use
func Default() *Catalog {
	return defaultCatalog()
}

// componentByWidgetID binds each widget to the bundle that renders it
var componentByWidgetID = map[string]string{
	"pizza-map":      "pizzaz",
	"pizza-carousel": "pizzaz-carousel",
	"pizza-albums":   "pizzaz-albums",
	"pizza-list":     "pizzaz-list",
}

// ConfigurationError reports a widget with no component binding. It means the
// catalog and the binding table disagree, which is a deployment defect.
type ConfigurationError struct {
	WidgetID string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("unknown widget id: %s", e.WidgetID)
}

// ResolveComponentName returns the component bundle name bound to widgetID
func ResolveComponentName(widgetID string) (string, error) {
	component, ok := componentByWidgetID[widgetID]
	if !ok {
		return "", &ConfigurationError{WidgetID: widgetID}
	}
	return component, nil
}

// ComposeWidgetHTML returns the markup document loading the component's
// script and stylesheet from baseURL. baseURL must already be normalized.
func ComposeWidgetHTML(component, baseURL string) string {
	jsURL := fmt.Sprintf("%s/assets/%s.js", baseURL, component)
	cssURL := fmt.Sprintf("%s/assets/%s.css", baseURL, component)

	var b strings.Builder
	b.WriteString("<!doctype html>\n<html>\n<head>\n")
	fmt.Fprintf(&b, "  <script type=\"module\" src=\"%s\"></script>\n", jsURL)
	fmt.Fprintf(&b, "  <link rel=\"stylesheet\" href=\"%s\">\n", cssURL)
	b.WriteString("</head>\n<body>\n")
	fmt.Fprintf(&b, "  <div id=\"%s-root\"></div>\n", component)
	b.WriteString("</body>\n</html>")
	return b.String()
}

// NormalizeBaseURL upgrades an http origin to https and drops one trailing slash
func NormalizeBaseURL(origin string) string {
	if rest, ok := strings.CutPrefix(origin, "http://"); ok {
		origin = "https://" + rest
	}
	return strings.TrimSuffix(origin, "/")
}

// Meta returns the _meta block attached to every descriptor for w
func Meta(w Widget) map[string]any {
	return map[string]any{
		"openai/outputTemplate":          w.TemplateURI,
		"openai/toolInvocation/invoking": w.Invoking,
		"openai/toolInvocation/invoked":  w.Invoked,
		"openai/widgetAccessible":        true,
		"openai/resultCanProduceWidget":  true,
	}
}
