// Package domain defines the types and interfaces for the posts service
package domain

import "time"

// Unknown is the degraded value for enum classified fields when no rule
// matched the post text
const Unknown = "Unknown"

// Post is the canonical classified record for one discussion thread
type Post struct {
	ID       string `json:"id"`
	Author   string `json:"author"`
	Title    string `json:"title"`
	Body     string `json:"body"`
	Category string `json:"category"`
	URL      string `json:"url,omitempty"`

	// Classified fields. Participation and Agent degrade to "Unknown",
	// Homework to nil when no rule matched
	Participation string `json:"participation"`
	Homework      *int   `json:"homework,omitempty"`
	Agent         string `json:"agent"`

	CommentCount int       `json:"comment_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Filter narrows a post listing. Fields are ANDed; values within a field are
// ORed. Homeworks values are decimal numbers in string form
type Filter struct {
	Students  []string
	Homeworks []string
	Agents    []string
	Types     []string
}

// Empty reports whether the filter matches everything
func (f Filter) Empty() bool {
	return len(f.Students) == 0 && len(f.Homeworks) == 0 && len(f.Agents) == 0 && len(f.Types) == 0
}

// HomeworkRollup aggregates posts for one homework number
type HomeworkRollup struct {
	Number   int      `json:"number"`
	Posts    int      `json:"posts"`
	Students []string `json:"students"`
	Agents   []string `json:"agents"`
}

// AgentRollup aggregates posts for one AI agent
type AgentRollup struct {
	Name      string   `json:"name"`
	Posts     int      `json:"posts"`
	Students  []string `json:"students"`
	Homeworks []int    `json:"homeworks"`
}

// Submission is a complete participation submission, the triple
// (student, homework, agent) backed by its latest classified post
type Submission struct {
	Student  string `json:"student"`
	Homework int    `json:"homework"`
	Agent    string `json:"agent"`
	Post     Post   `json:"post"`

	// Summary is a short placeholder derived from the post, kept for the
	// dashboard card view
	Summary string `json:"summary"`
}
