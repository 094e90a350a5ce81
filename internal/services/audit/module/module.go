// Package module implements the audit service module
package module

import (
	"classboard/internal/modkit"
	"classboard/internal/modkit/httpkit"
	"classboard/internal/services/audit/domain"
	"classboard/internal/services/audit/service"
)

// Ports exposed by the audit module
type Ports struct {
	Recorder domain.RecorderPort
}

// Module implements the audit service module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs a new audit module. Without a ClickHouse seam the trail
// is disabled and every entry is dropped
func New(deps modkit.Deps) *Module {
	var rec domain.RecorderPort = domain.Nop{}
	if deps.CH != nil {
		rec = service.New(deps.CH, deps.Log)
	}
	m := &Module{deps: deps}
	m.ports = Ports{Recorder: rec}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "audit" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// Prefix satisfies modkit.Module
func (m *Module) Prefix() string { return "" }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {}
