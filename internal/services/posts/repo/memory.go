package repo

import (
	"context"
	"sort"
	"strconv"
	"sync"

	perr "classboard/internal/platform/errors"
	"classboard/internal/services/posts/domain"
)

// Memory is a mutex-guarded in-process store used by tests and dev mode
type Memory struct {
	mu    sync.RWMutex
	posts map[string]domain.Post
}

// NewMemory constructs an empty in-memory store
func NewMemory() *Memory {
	return &Memory{posts: make(map[string]domain.Post)}
}

// Upsert implements domain.StoragePort
func (m *Memory) Upsert(_ context.Context, p domain.Post) error {
	m.mu.Lock()
	m.posts[p.ID] = p
	m.mu.Unlock()
	return nil
}

// Get implements domain.StoragePort
func (m *Memory) Get(_ context.Context, id string) (*domain.Post, error) {
	m.mu.RLock()
	p, ok := m.posts[id]
	m.mu.RUnlock()
	if !ok {
		return nil, perr.NotFoundf("post %s not found", id)
	}
	return &p, nil
}

// List implements domain.StoragePort, newest first
func (m *Memory) List(_ context.Context, f domain.Filter) ([]domain.Post, error) {
	m.mu.RLock()
	out := make([]domain.Post, 0, len(m.posts))
	for _, p := range m.posts {
		if matches(p, f) {
			out = append(out, p)
		}
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func matches(p domain.Post, f domain.Filter) bool {
	if len(f.Students) > 0 && !containsString(f.Students, p.Author) {
		return false
	}
	if len(f.Types) > 0 && !containsString(f.Types, p.Participation) {
		return false
	}
	if len(f.Agents) > 0 && !containsString(f.Agents, p.Agent) {
		return false
	}
	if len(f.Homeworks) > 0 {
		if p.Homework == nil {
			return false
		}
		if !containsString(f.Homeworks, strconv.Itoa(*p.Homework)) {
			return false
		}
	}
	return true
}

func containsString(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}
