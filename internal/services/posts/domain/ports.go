package domain

import "context"

// StoragePort is the write and point-read surface the ingest pipeline needs
type StoragePort interface {
	// Upsert inserts or fully replaces the record for post.ID
	Upsert(ctx context.Context, post Post) error
	// Get returns the post or a NotFound error
	Get(ctx context.Context, id string) (*Post, error)
	// List returns posts matching the filter, newest first
	List(ctx context.Context, f Filter) ([]Post, error)
}

// QueryPort is the read-model surface the portal exposes
type QueryPort interface {
	Students(ctx context.Context) ([]string, error)
	Homeworks(ctx context.Context) ([]HomeworkRollup, error)
	Agents(ctx context.Context) ([]AgentRollup, error)
	Posts(ctx context.Context, f Filter) ([]Post, error)
	PostByID(ctx context.Context, id string) (*Post, error)
	Submission(ctx context.Context, student string, homework int, agent string) (*Submission, error)
}
