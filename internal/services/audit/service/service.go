// Package service implements the ingest audit recorder
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"classboard/internal/platform/logger"
	"classboard/internal/platform/store"
	"classboard/internal/services/audit/domain"
)

// Table is the ClickHouse table audit rows land in
const Table = "ingest_audit"

var columns = []string{
	"id", "at", "kind", "post_id", "outcome",
	"participation", "homework", "agent",
}

// Recorder appends audit entries to ClickHouse
type Recorder struct {
	ch  store.Clickhouse
	log logger.Logger
}

var _ domain.RecorderPort = (*Recorder)(nil)

// New constructs a Recorder over the ClickHouse seam
func New(ch store.Clickhouse, log logger.Logger) *Recorder {
	if ch == nil {
		panic("audit recorder requires a clickhouse seam")
	}
	return &Recorder{ch: ch, log: log}
}

// Record implements domain.RecorderPort. Sink failures are logged and
// swallowed so ingestion never stalls on the audit trail
func (r *Recorder) Record(ctx context.Context, e domain.Entry) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	row := []any{e.ID, e.At, e.Kind, e.PostID, e.Outcome, e.Participation, e.Homework, e.Agent}
	if err := r.ch.Insert(ctx, Table, columns, [][]any{row}); err != nil {
		r.log.Warn().Err(err).Str("post_id", e.PostID).Str("outcome", e.Outcome).Msg("audit insert failed")
	}
}
