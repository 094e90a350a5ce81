// Package module implements the ingest service module
package module

import (
	"classboard/internal/core/classify"
	"classboard/internal/core/rules"
	"classboard/internal/modkit"
	"classboard/internal/modkit/httpkit"
	auditdom "classboard/internal/services/audit/domain"
	"classboard/internal/services/ingest/domain"
	"classboard/internal/services/ingest/service"
	posts "classboard/internal/services/posts/domain"
)

// Ports exposed by the ingest module
type Ports struct {
	Ingest domain.IngestPort
}

// Module implements the ingest service module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs a new ingest module over the shared post store and the
// audit recorder. The embedded rule pack is compiled here; a broken pack
// is a build defect so it panics at wiring time
func New(deps modkit.Deps, store posts.StoragePort, rec auditdom.RecorderPort) *Module {
	pack, err := rules.Load()
	if err != nil {
		panic("ingest module: rule pack: " + err.Error())
	}
	p := service.New(store, classify.New(pack), rec, deps.Log)

	m := &Module{deps: deps}
	m.ports = Ports{Ingest: p}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "ingest" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// Prefix satisfies modkit.Module
func (m *Module) Prefix() string { return "" }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {}
