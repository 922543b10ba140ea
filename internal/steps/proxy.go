package steps

import (
	"context"
	"fmt"

	"github.com/nixopus/installer/internal/caddy"
	"github.com/nixopus/installer/internal/log"
	"github.com/nixopus/installer/internal/ui"
)

// ProxyAPI is the reverse proxy control plane
type ProxyAPI interface {
	Config(ctx context.Context) (caddy.Document, error)
	Load(ctx context.Context, doc caddy.Document) error
	AppendRoute(ctx context.Context, server string, route any) error
}

// ProxyMode tells how the routing configuration was applied
type ProxyMode string

const (
	// ProxyLoaded means the whole configuration was replaced
	ProxyLoaded ProxyMode = "load"
	// ProxyAppended means routes were appended to an existing server block
	ProxyAppended ProxyMode = "append"
)

// ProxyConfigurator pushes the Nixopus routes to Caddy
type ProxyConfigurator struct {
	ui       *ui.UI
	api      ProxyAPI
	template []byte
	values   caddy.Values
}

// NewProxyConfigurator creates a new ProxyConfigurator instance
func NewProxyConfigurator(ui *ui.UI, api ProxyAPI, template []byte, values caddy.Values) *ProxyConfigurator {
	return &ProxyConfigurator{
		ui:       ui,
		api:      api,
		template: template,
		values:   values,
	}
}

// Run renders the template and applies it. When Caddy already serves a
// nixopus server block the routes are appended one by one, otherwise the
// rendered document is loaded as the whole configuration.
func (p *ProxyConfigurator) Run(ctx context.Context) (ProxyMode, error) {
	p.ui.Info("Setting up proxy...")

	current, err := p.api.Config(ctx)
	if err != nil {
		log.Debug("No existing proxy configuration", "error", err)
		current = nil
	}

	doc, err := caddy.Render(p.template, p.values)
	if err != nil {
		return "", err
	}

	if current.HasServer(caddy.ServerName) {
		routes := doc.Routes(caddy.ServerName)
		p.ui.Infof("Existing %s server found, appending %d routes", caddy.ServerName, len(routes))
		for _, route := range routes {
			if err := p.api.AppendRoute(ctx, caddy.ServerName, route); err != nil {
				return ProxyAppended, fmt.Errorf("failed to append route to Caddy configuration: %w", err)
			}
			p.ui.Successf("Route added for %s", caddy.RouteLabel(route))
		}
		return ProxyAppended, nil
	}

	if err := p.api.Load(ctx, doc); err != nil {
		return ProxyLoaded, fmt.Errorf("failed to load Caddy configuration: %w", err)
	}

	p.ui.Success("Caddy configuration loaded successfully")
	return ProxyLoaded, nil
}
