// Package service implements the ingest pipeline. Raw feed events are
// validated, classified, and applied to the post store; every decision is
// mirrored to the audit trail.
package service

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"classboard/internal/core/classify"
	"classboard/internal/platform/logger"
	auditdom "classboard/internal/services/audit/domain"
	"classboard/internal/services/ingest/domain"
	posts "classboard/internal/services/posts/domain"

	perr "classboard/internal/platform/errors"
)

// lockStripes is the size of the per-id mutex table. Contention is per
// post id so a small power of two is plenty
const lockStripes = 64

// Pipeline applies raw events to the post store
type Pipeline struct {
	log   logger.Logger
	store posts.StoragePort
	cls   *classify.Classifier
	audit auditdom.RecorderPort

	locks [lockStripes]sync.Mutex

	// now is swappable for tests
	now func() time.Time
}

var _ domain.IngestPort = (*Pipeline)(nil)

// New constructs a Pipeline. A nil recorder disables the audit trail
func New(store posts.StoragePort, cls *classify.Classifier, rec auditdom.RecorderPort, log logger.Logger) *Pipeline {
	if store == nil {
		panic("ingest pipeline requires a storage port")
	}
	if cls == nil {
		panic("ingest pipeline requires a classifier")
	}
	if rec == nil {
		rec = auditdom.Nop{}
	}
	return &Pipeline{
		log:   log,
		store: store,
		cls:   cls,
		audit: rec,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Ingest applies one event. Orphan comments are dropped and return
// (nil, nil); malformed events error without touching the store
func (p *Pipeline) Ingest(ctx context.Context, ev domain.RawEvent) (*posts.Post, error) {
	if err := checkEvent(ev); err != nil {
		p.audit.Record(ctx, auditEntry(ev, auditdom.OutcomeMalformed, nil))
		return nil, err
	}

	mu := p.lockFor(p.targetID(ev))
	mu.Lock()
	defer mu.Unlock()

	switch ev.Kind {
	case domain.ThreadCreated:
		return p.applyThread(ctx, ev, auditdom.OutcomeCreated)
	case domain.ThreadUpdated:
		return p.applyThreadUpdate(ctx, ev)
	default:
		return p.applyCommentEvent(ctx, ev)
	}
}

// targetID is the post id an event mutates, used for lock striping
func (p *Pipeline) targetID(ev domain.RawEvent) string {
	if ev.Kind == domain.CommentAdded {
		return ev.ParentID
	}
	return ev.ID
}

func (p *Pipeline) lockFor(id string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return &p.locks[h.Sum32()%lockStripes]
}

func (p *Pipeline) applyThread(ctx context.Context, ev domain.RawEvent, outcome string) (*posts.Post, error) {
	res := p.cls.Classify(ev.Title, ev.Body, ev.Category)
	next := buildPost(ev, res, p.now())
	if outcome == auditdom.OutcomeUpdated {
		existing, err := p.store.Get(ctx, ev.ID)
		if err != nil {
			return nil, err
		}
		next = applyUpdate(*existing, ev, res, p.now())
	}
	if err := p.store.Upsert(ctx, next); err != nil {
		return nil, err
	}
	p.audit.Record(ctx, auditEntry(ev, outcome, &next))
	return &next, nil
}

// applyThreadUpdate promotes an update for a post we have never seen into
// a create, which makes replayed or out of order feeds converge
func (p *Pipeline) applyThreadUpdate(ctx context.Context, ev domain.RawEvent) (*posts.Post, error) {
	_, err := p.store.Get(ctx, ev.ID)
	switch {
	case err == nil:
		return p.applyThread(ctx, ev, auditdom.OutcomeUpdated)
	case perr.IsCode(err, perr.ErrorCodeNotFound):
		p.log.Debug().Str("post_id", ev.ID).Msg("update for unseen thread promoted to create")
		return p.applyThread(ctx, ev, auditdom.OutcomeCreated)
	default:
		return nil, err
	}
}

func (p *Pipeline) applyCommentEvent(ctx context.Context, ev domain.RawEvent) (*posts.Post, error) {
	existing, err := p.store.Get(ctx, ev.ParentID)
	switch {
	case err == nil:
	case perr.IsCode(err, perr.ErrorCodeNotFound):
		orphan := perr.OrphanCommentf("comment %s references unknown thread %s", ev.ID, ev.ParentID)
		p.log.Warn().Err(orphan).Str("comment_id", ev.ID).Str("parent_id", ev.ParentID).Msg("orphan comment dropped")
		p.audit.Record(ctx, auditEntry(ev, auditdom.OutcomeOrphan, nil))
		return nil, nil
	default:
		return nil, err
	}

	next := applyComment(*existing, ev, p.now())
	if err := p.store.Upsert(ctx, next); err != nil {
		return nil, err
	}
	p.audit.Record(ctx, auditEntry(ev, auditdom.OutcomeComment, &next))
	return &next, nil
}

func auditEntry(ev domain.RawEvent, outcome string, post *posts.Post) auditdom.Entry {
	e := auditdom.Entry{
		Kind:    string(ev.Kind),
		PostID:  ev.ID,
		Outcome: outcome,
	}
	if ev.Kind == domain.CommentAdded {
		e.PostID = ev.ParentID
	}
	if post != nil {
		e.Participation = post.Participation
		e.Agent = post.Agent
		if post.Homework != nil {
			e.Homework = int32(*post.Homework)
		}
	}
	return e
}
