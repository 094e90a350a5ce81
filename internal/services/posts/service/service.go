// Package service implements the posts read model as projections over the
// storage port. Rollups are computed per request from a filtered snapshot,
// which keeps the storage layer free of aggregation concerns.
package service

import (
	"context"
	"sort"
	"strconv"
	"unicode/utf8"

	perr "classboard/internal/platform/errors"
	"classboard/internal/services/posts/domain"
)

// Service answers portal queries from a StoragePort
type Service struct {
	store domain.StoragePort
}

// New constructs a Service over the given storage port
func New(store domain.StoragePort) *Service {
	if store == nil {
		panic("posts service requires a storage port")
	}
	return &Service{store: store}
}

var _ domain.QueryPort = (*Service)(nil)

// Students returns the distinct post authors, sorted ascending
func (s *Service) Students(ctx context.Context) ([]string, error) {
	posts, err := s.store.List(ctx, domain.Filter{})
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(posts))
	out := make([]string, 0, len(posts))
	for _, p := range posts {
		if p.Author == "" {
			continue
		}
		if _, ok := seen[p.Author]; ok {
			continue
		}
		seen[p.Author] = struct{}{}
		out = append(out, p.Author)
	}
	sort.Strings(out)
	return out, nil
}

// Homeworks returns one rollup per homework number, sorted by number.
// Posts with no extracted homework number are excluded
func (s *Service) Homeworks(ctx context.Context) ([]domain.HomeworkRollup, error) {
	posts, err := s.store.List(ctx, domain.Filter{})
	if err != nil {
		return nil, err
	}
	type acc struct {
		posts    int
		students map[string]struct{}
		agents   map[string]struct{}
	}
	byNum := map[int]*acc{}
	for _, p := range posts {
		if p.Homework == nil {
			continue
		}
		a := byNum[*p.Homework]
		if a == nil {
			a = &acc{students: map[string]struct{}{}, agents: map[string]struct{}{}}
			byNum[*p.Homework] = a
		}
		a.posts++
		if p.Author != "" {
			a.students[p.Author] = struct{}{}
		}
		if p.Agent != "" && p.Agent != domain.Unknown {
			a.agents[p.Agent] = struct{}{}
		}
	}
	out := make([]domain.HomeworkRollup, 0, len(byNum))
	for n, a := range byNum {
		out = append(out, domain.HomeworkRollup{
			Number:   n,
			Posts:    a.posts,
			Students: sortedKeys(a.students),
			Agents:   sortedKeys(a.agents),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

// Agents returns one rollup per recognized agent, sorted by name.
// The Unknown bucket is excluded; callers that want unclassified posts
// filter the post list directly
func (s *Service) Agents(ctx context.Context) ([]domain.AgentRollup, error) {
	posts, err := s.store.List(ctx, domain.Filter{})
	if err != nil {
		return nil, err
	}
	type acc struct {
		posts     int
		students  map[string]struct{}
		homeworks map[int]struct{}
	}
	byName := map[string]*acc{}
	for _, p := range posts {
		if p.Agent == "" || p.Agent == domain.Unknown {
			continue
		}
		a := byName[p.Agent]
		if a == nil {
			a = &acc{students: map[string]struct{}{}, homeworks: map[int]struct{}{}}
			byName[p.Agent] = a
		}
		a.posts++
		if p.Author != "" {
			a.students[p.Author] = struct{}{}
		}
		if p.Homework != nil {
			a.homeworks[*p.Homework] = struct{}{}
		}
	}
	out := make([]domain.AgentRollup, 0, len(byName))
	for name, a := range byName {
		hws := make([]int, 0, len(a.homeworks))
		for n := range a.homeworks {
			hws = append(hws, n)
		}
		sort.Ints(hws)
		out = append(out, domain.AgentRollup{
			Name:      name,
			Posts:     a.posts,
			Students:  sortedKeys(a.students),
			Homeworks: hws,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Posts returns the filtered post list, newest first
func (s *Service) Posts(ctx context.Context, f domain.Filter) ([]domain.Post, error) {
	return s.store.List(ctx, f)
}

// PostByID returns a single post or a not found error
func (s *Service) PostByID(ctx context.Context, id string) (*domain.Post, error) {
	if id == "" {
		return nil, perr.InvalidArgf("post id is required")
	}
	return s.store.Get(ctx, id)
}

// Submission resolves the (student, homework, agent) triple to the most
// recently updated matching post. Ties on update time fall back to the
// higher post id so the answer stays stable
func (s *Service) Submission(ctx context.Context, student string, homework int, agent string) (*domain.Submission, error) {
	if student == "" {
		return nil, perr.InvalidArgf("student is required")
	}
	if homework <= 0 {
		return nil, perr.InvalidArgf("homework must be a positive number")
	}
	if agent == "" {
		return nil, perr.InvalidArgf("agent is required")
	}
	posts, err := s.store.List(ctx, domain.Filter{
		Students:  []string{student},
		Homeworks: []string{strconv.Itoa(homework)},
		Agents:    []string{agent},
	})
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, perr.NotFoundf(
			"no submission for student %q homework %d agent %q", student, homework, agent)
	}
	best := posts[0]
	for _, p := range posts[1:] {
		if p.UpdatedAt.After(best.UpdatedAt) || (p.UpdatedAt.Equal(best.UpdatedAt) && p.ID > best.ID) {
			best = p
		}
	}
	return &domain.Submission{
		Student:  student,
		Homework: homework,
		Agent:    agent,
		Post:     best,
		Summary:  summarize(best),
	}, nil
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// summarize produces a short single line description of the resolved post
func summarize(p domain.Post) string {
	title := p.Title
	if title == "" {
		title = "(untitled)"
	}
	const max = 120
	if utf8.RuneCountInString(title) > max {
		runes := []rune(title)
		title = string(runes[:max-3]) + "..."
	}
	return title
}
