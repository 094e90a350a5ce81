// Package http provides http transport for the portal read API
package http

import (
	stdhttp "net/http"
	"strconv"

	"classboard/internal/modkit/httpkit"
	perr "classboard/internal/platform/errors"
	str "classboard/internal/platform/strings"
	posts "classboard/internal/services/posts/domain"
	"classboard/internal/services/sentiment"
)

// Deps are the handler dependencies
type Deps struct {
	Query     posts.QueryPort
	Sentiment *sentiment.Service
}

type handlers struct{ deps Deps }

// Register mounts the portal endpoints on the given router
func Register(r httpkit.Router, d Deps) {
	h := &handlers{deps: d}

	httpkit.Get(r, "/students", h.students)
	httpkit.Get(r, "/homeworks", h.homeworks)
	httpkit.Get(r, "/agents", h.agents)
	httpkit.Get(r, "/posts", h.posts)
	httpkit.Get(r, "/posts/{id}", h.postByID)
	httpkit.Get(r, "/submissions", h.submission)
	httpkit.Get(r, "/sentiment", h.sentiment)
}

func (h *handlers) students(r *stdhttp.Request) (any, error) {
	return h.deps.Query.Students(r.Context())
}

func (h *handlers) homeworks(r *stdhttp.Request) (any, error) {
	return h.deps.Query.Homeworks(r.Context())
}

func (h *handlers) agents(r *stdhttp.Request) (any, error) {
	return h.deps.Query.Agents(r.Context())
}

// posts lists posts filtered by comma separated query params, all ANDed
func (h *handlers) posts(r *stdhttp.Request) (any, error) {
	q := r.URL.Query()
	f := posts.Filter{
		Students:  str.SplitCSV(q.Get("students")),
		Homeworks: str.SplitCSV(q.Get("homeworks")),
		Agents:    str.SplitCSV(q.Get("agents")),
		Types:     str.SplitCSV(q.Get("types")),
	}
	return h.deps.Query.Posts(r.Context(), f)
}

func (h *handlers) postByID(r *stdhttp.Request) (any, error) {
	return h.deps.Query.PostByID(r.Context(), httpkit.Param(r, "id"))
}

// submission resolves the (student, homework, agent) triple
func (h *handlers) submission(r *stdhttp.Request) (any, error) {
	q := r.URL.Query()
	student := q.Get("student")
	agent := q.Get("agent")
	hwRaw := q.Get("homework")
	if hwRaw == "" {
		return nil, perr.InvalidArgf("homework query param is required")
	}
	hw, err := strconv.Atoi(hwRaw)
	if err != nil {
		return nil, perr.InvalidArgf("bad homework query param %q", hwRaw)
	}
	return h.deps.Query.Submission(r.Context(), student, hw, agent)
}

func (h *handlers) sentiment(r *stdhttp.Request) (any, error) {
	if h.deps.Sentiment == nil {
		return nil, perr.Unavailablef("sentiment scoring is not configured")
	}
	agents := str.SplitCSV(r.URL.Query().Get("agents"))
	return h.deps.Sentiment.ByAgent(r.Context(), agents)
}
