// Package domain defines the event types and interfaces for the ingest service
package domain

import (
	"context"
	"time"

	posts "classboard/internal/services/posts/domain"
)

// EventKind discriminates raw feed events
type EventKind string

// Raw event kinds accepted by the pipeline
const (
	ThreadCreated EventKind = "thread_created"
	ThreadUpdated EventKind = "thread_updated"
	CommentAdded  EventKind = "comment_added"
)

// RawEvent is one normalized forum event as delivered by the feed adapter
// or the ingest endpoint. ID is the thread id for thread events and the
// comment id for comment events; ParentID carries the thread id for comments
type RawEvent struct {
	Kind      EventKind `json:"kind" validate:"required,oneof=thread_created thread_updated comment_added"`
	ID        string    `json:"id" validate:"required"`
	Author    string    `json:"author,omitempty"`
	Title     string    `json:"title,omitempty"`
	Body      string    `json:"body,omitempty"`
	Category  string    `json:"category,omitempty"`
	URL       string    `json:"url,omitempty"`
	ParentID  string    `json:"parent_id,omitempty"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// IngestPort applies one raw event to the post store.
// A nil post with a nil error means the event was intentionally dropped
type IngestPort interface {
	Ingest(ctx context.Context, ev RawEvent) (*posts.Post, error)
}
