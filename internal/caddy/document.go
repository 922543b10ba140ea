package caddy

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ServerName is the HTTP server block the installer owns in the Caddy config
const ServerName = "nixopus"

// Template placeholders filled in from the installer's answers
const (
	AppDomainPlaceholder   = "{env.APP_DOMAIN}"
	APIDomainPlaceholder   = "{env.API_DOMAIN}"
	AppUpstreamPlaceholder = "{env.APP_REVERSE_PROXY_URL}"
	APIUpstreamPlaceholder = "{env.API_REVERSE_PROXY_URL}"
)

// Values maps a placeholder to its replacement
type Values map[string]string

// RouteValues builds the replacement set for the routing template
func RouteValues(appDomain, apiDomain, appUpstream, apiUpstream string) Values {
	return Values{
		AppDomainPlaceholder:   appDomain,
		APIDomainPlaceholder:   apiDomain,
		AppUpstreamPlaceholder: appUpstream,
		APIUpstreamPlaceholder: apiUpstream,
	}
}

// Document is a Caddy JSON configuration held as a generic tree
type Document map[string]any

// ParseDocument decodes a JSON configuration. A JSON null decodes to a nil
// document, which is what Caddy returns when nothing is loaded.
func ParseDocument(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid caddy config: %w", err)
	}
	return doc, nil
}

// Render parses the template and substitutes placeholders inside string
// values only. Object keys and non-string values are never touched, so a
// replacement can not break the JSON structure.
func Render(template []byte, values Values) (Document, error) {
	doc, err := ParseDocument(template)
	if err != nil {
		return nil, fmt.Errorf("failed to parse routing template: %w", err)
	}
	if doc == nil {
		return nil, fmt.Errorf("routing template is empty")
	}

	pairs := make([]string, 0, len(values)*2)
	for placeholder, value := range values {
		pairs = append(pairs, placeholder, value)
	}
	replacer := strings.NewReplacer(pairs...)

	return replaceStrings(doc, replacer).(map[string]any), nil
}

func replaceStrings(node any, r *strings.Replacer) any {
	switch v := node.(type) {
	case Document:
		return replaceStrings(map[string]any(v), r)
	case map[string]any:
		for key, child := range v {
			v[key] = replaceStrings(child, r)
		}
		return v
	case []any:
		for i, child := range v {
			v[i] = replaceStrings(child, r)
		}
		return v
	case string:
		return r.Replace(v)
	default:
		return v
	}
}

// Server returns the named HTTP server block if present
func (d Document) Server(name string) (map[string]any, bool) {
	node := any(map[string]any(d))
	for _, key := range []string{"apps", "http", "servers", name} {
		m, ok := node.(map[string]any)
		if !ok {
			return nil, false
		}
		node, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	server, ok := node.(map[string]any)
	return server, ok
}

// HasServer reports whether the named HTTP server block exists
func (d Document) HasServer(name string) bool {
	_, ok := d.Server(name)
	return ok
}

// Routes returns the route list of the named server
func (d Document) Routes(name string) []any {
	server, ok := d.Server(name)
	if !ok {
		return nil
	}
	routes, _ := server["routes"].([]any)
	return routes
}

// RouteLabel names a route by its host matchers, for error messages
func RouteLabel(route any) string {
	r, ok := route.(map[string]any)
	if !ok {
		return "<invalid route>"
	}
	matchers, _ := r["match"].([]any)
	var hosts []string
	for _, m := range matchers {
		matcher, ok := m.(map[string]any)
		if !ok {
			continue
		}
		list, _ := matcher["host"].([]any)
		for _, h := range list {
			if s, ok := h.(string); ok {
				hosts = append(hosts, s)
			}
		}
	}
	if len(hosts) == 0 {
		return "<unmatched route>"
	}
	return strings.Join(hosts, ",")
}
