// Package module implements the posts service module
package module

import (
	"classboard/internal/modkit"
	"classboard/internal/modkit/httpkit"
	"classboard/internal/services/posts/domain"
	"classboard/internal/services/posts/repo"
	"classboard/internal/services/posts/service"
)

// Ports exposed by the posts module
type Ports struct {
	Store domain.StoragePort
	Query domain.QueryPort
}

// Module implements the posts service module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs a new posts module. Without a Postgres runner the module
// falls back to the in memory store, which is how tests and the local
// dashboard run
func New(deps modkit.Deps) *Module {
	var st domain.StoragePort
	if deps.PG != nil {
		st = repo.NewPG().Bind(deps.PG)
	} else {
		st = repo.NewMemory()
	}
	svc := service.New(st)

	m := &Module{deps: deps}
	m.ports = Ports{
		Store: st,
		Query: svc,
	}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "posts" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// Prefix satisfies modkit.Module
func (m *Module) Prefix() string { return "" }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {}
