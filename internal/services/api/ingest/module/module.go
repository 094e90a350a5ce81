// Package module wires the ingest write endpoint into a modkit module
package module

import (
	"net/http"

	modkit "classboard/internal/modkit"
	"classboard/internal/modkit/httpkit"
	str "classboard/internal/platform/strings"

	ingesthttp "classboard/internal/services/api/ingest/http"
	ingest "classboard/internal/services/ingest/domain"
)

// Ports declares the cross module ports the ingest endpoint consumes
type Ports struct {
	Ingest ingest.IngestPort
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

// New constructs the API ingest module; the Ingest port is injected via
// modkit.WithPorts by the API assembler
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("ingest-api"),
		modkit.WithPrefix("/ingest"),
	}, opts...)...)

	ports, ok := b.Ports.(Ports)
	if !ok || ports.Ingest == nil {
		panic("ingest api module requires an Ingest port")
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
		ingesthttp.Register(r, ingesthttp.Deps{Ingest: ports.Ingest})
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
func (m *Module) Name() string { return str.MustString(m.name, "ingest-api") }

// Prefix implements the modkit.Module interface
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Middlewares implements the modkit.Module interface
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return m.mws }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return m.ports }
