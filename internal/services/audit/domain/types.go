// Package domain defines the audit trail types for ingest decisions
package domain

import (
	"context"
	"time"
)

// Outcomes recorded for pipeline decisions
const (
	OutcomeCreated   = "created"
	OutcomeUpdated   = "updated"
	OutcomeComment   = "comment"
	OutcomeOrphan    = "orphan_dropped"
	OutcomeMalformed = "malformed"
)

// Entry is one append-only audit row for a single pipeline decision
type Entry struct {
	ID      string
	At      time.Time
	Kind    string
	PostID  string
	Outcome string

	// Classified fields at decision time; zero values when the decision
	// did not produce a classified post. Homework 0 means none extracted
	Participation string
	Homework      int32
	Agent         string
}

// RecorderPort appends audit entries. Implementations must be safe for
// concurrent use and must never block the pipeline on sink failures
type RecorderPort interface {
	Record(ctx context.Context, e Entry)
}

// Nop is a recorder that drops every entry, used when no sink is configured
type Nop struct{}

// Record implements RecorderPort
func (Nop) Record(context.Context, Entry) {}
