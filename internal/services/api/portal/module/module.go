// Package module wires the portal read API into a modkit module
package module

import (
	"net/http"

	modkit "classboard/internal/modkit"
	"classboard/internal/modkit/httpkit"
	str "classboard/internal/platform/strings"

	portalhttp "classboard/internal/services/api/portal/http"
	posts "classboard/internal/services/posts/domain"
	"classboard/internal/services/sentiment"
)

// Ports declares the cross module ports the portal consumes
type Ports struct {
	Query     posts.QueryPort
	Sentiment *sentiment.Service
}

// Module implements the modkit.Module interface
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string
	mws    []func(http.Handler) http.Handler
	ports  Ports

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)
}

// New constructs the portal module; the Query port is injected via
// modkit.WithPorts by the API assembler
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("portal"),
		modkit.WithPrefix("/portal"),
	}, opts...)...)

	ports, ok := b.Ports.(Ports)
	if !ok || ports.Query == nil {
		panic("portal module requires a Query port")
	}

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		ports:     ports,
		subrouter: b.Subrouter,
	}

	external := b.Register
	m.register = func(r httpkit.Router) {
		portalhttp.Register(r, portalhttp.Deps{
			Query:     ports.Query,
			Sentiment: ports.Sentiment,
		})
		if external != nil {
			external(r)
		}
	}

	return m
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		if m.subrouter != nil {
			rr = m.subrouter(rr)
		}
		if m.register != nil {
			m.register(rr)
		}
	})
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return str.MustString(m.name, "portal") }

// Prefix implements the modkit.Module interface
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Middlewares implements the modkit.Module interface
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return m.mws }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return m.ports }
