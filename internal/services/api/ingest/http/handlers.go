// Package http provides the ingest write endpoint
package http

import (
	stdhttp "net/http"

	"classboard/internal/modkit/httpkit"
	ingest "classboard/internal/services/ingest/domain"
)

// Deps are the handler dependencies
type Deps struct {
	Ingest ingest.IngestPort
}

type handlers struct{ deps Deps }

// Register mounts the ingest endpoints on the given router
func Register(r httpkit.Router, d Deps) {
	h := &handlers{deps: d}

	httpkit.PostJSON[ingest.RawEvent](r, "/events", h.event)
}

// EventResponse reports what the pipeline did with one event
type EventResponse struct {
	Applied bool `json:"applied"`

	// Post is the resulting record, absent when the event was dropped
	Post any `json:"post,omitempty"`
}

// event applies one raw feed event. A dropped event (orphan comment) is
// still a 200 so feed replays never wedge on old garbage
func (h *handlers) event(r *stdhttp.Request, in ingest.RawEvent) (any, error) {
	post, err := h.deps.Ingest.Ingest(r.Context(), in)
	if err != nil {
		return nil, err
	}
	resp := EventResponse{Applied: post != nil}
	if post != nil {
		resp.Post = post
	}
	return resp, nil
}
