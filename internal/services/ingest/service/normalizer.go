package service

import (
	"time"

	"classboard/internal/core/classify"
	perr "classboard/internal/platform/errors"
	"classboard/internal/services/ingest/domain"
	posts "classboard/internal/services/posts/domain"
)

// buildPost materializes a canonical post from a thread event and its
// classification. The event timestamp becomes both created and updated time;
// zero timestamps fall back to now so ordering stays sane
func buildPost(ev domain.RawEvent, res classify.Result, now time.Time) posts.Post {
	ts := ev.Timestamp
	if ts.IsZero() {
		ts = now
	}
	return posts.Post{
		ID:            ev.ID,
		Author:        ev.Author,
		Title:         ev.Title,
		Body:          ev.Body,
		Category:      ev.Category,
		URL:           ev.URL,
		Participation: res.Participation.Value,
		Homework:      res.Homework,
		Agent:         res.Agent.Value,
		CreatedAt:     ts,
		UpdatedAt:     ts,
	}
}

// applyUpdate rebuilds the classified content of an existing post from an
// update event. Creation time and comment count survive; everything content
// derived is recomputed, never merged
func applyUpdate(existing posts.Post, ev domain.RawEvent, res classify.Result, now time.Time) posts.Post {
	ts := ev.Timestamp
	if ts.IsZero() {
		ts = now
	}
	next := buildPost(ev, res, now)
	next.CreatedAt = existing.CreatedAt
	next.CommentCount = existing.CommentCount
	if next.URL == "" {
		next.URL = existing.URL
	}
	next.UpdatedAt = ts
	return next
}

// applyComment bumps the comment counter and refreshes the update time.
// Classification is untouched because comment text is not part of the
// classified surface
func applyComment(existing posts.Post, ev domain.RawEvent, now time.Time) posts.Post {
	ts := ev.Timestamp
	if ts.IsZero() {
		ts = now
	}
	existing.CommentCount++
	if ts.After(existing.UpdatedAt) {
		existing.UpdatedAt = ts
	}
	return existing
}

// checkEvent rejects events the pipeline cannot act on
func checkEvent(ev domain.RawEvent) error {
	if ev.ID == "" {
		return perr.MalformedEventf("event has no id")
	}
	switch ev.Kind {
	case domain.ThreadCreated, domain.ThreadUpdated:
		if ev.Author == "" {
			return perr.MalformedEventf("thread event %s has no author", ev.ID)
		}
	case domain.CommentAdded:
		if ev.ParentID == "" {
			return perr.MalformedEventf("comment event %s has no parent id", ev.ID)
		}
	default:
		return perr.MalformedEventf("unknown event kind %q", ev.Kind)
	}
	return nil
}
