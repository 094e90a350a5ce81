// Package sentiment scores post text and aggregates scores per AI agent.
// The default scorer is a small lexicon so results are deterministic;
// anything smarter plugs in behind ScorerPort.
package sentiment

import (
	"context"
	"sort"
	"strings"

	"classboard/internal/core/normalize"
	posts "classboard/internal/services/posts/domain"
)

// ScorerPort scores one piece of text in [-1, 1]
type ScorerPort interface {
	Score(text string) float64
}

// Lexicon is a deterministic word list scorer
type Lexicon struct {
	norm *normalize.Normalizer
	pos  map[string]struct{}
	neg  map[string]struct{}
}

var _ ScorerPort = (*Lexicon)(nil)

// NewLexicon constructs the default scorer
func NewLexicon() *Lexicon {
	return &Lexicon{
		norm: normalize.New(),
		pos:  wordSet("good great helpful excellent correct works solved easy clear love nice useful fast accurate"),
		neg:  wordSet("bad wrong broken confusing stuck error fail failed hard unclear hate slow buggy incorrect useless"),
	}
}

func wordSet(words string) map[string]struct{} {
	m := map[string]struct{}{}
	for _, w := range strings.Fields(words) {
		m[w] = struct{}{}
	}
	return m
}

// Score implements ScorerPort. The score is the signed fraction of
// sentiment bearing words; text with none scores zero
func (l *Lexicon) Score(text string) float64 {
	var pos, neg int
	for _, w := range strings.Fields(l.norm.Normalize(text)) {
		w = strings.Trim(w, ".,!?;:()[]\"'")
		if _, ok := l.pos[w]; ok {
			pos++
		}
		if _, ok := l.neg[w]; ok {
			neg++
		}
	}
	if pos+neg == 0 {
		return 0
	}
	return float64(pos-neg) / float64(pos+neg)
}

// AgentSentiment is the aggregated score for one agent
type AgentSentiment struct {
	Agent string  `json:"agent"`
	Posts int     `json:"posts"`
	Score float64 `json:"score"`
}

// Service aggregates per post scores by classified agent
type Service struct {
	store  posts.StoragePort
	scorer ScorerPort
}

// New constructs a Service. A nil scorer gets the default lexicon
func New(store posts.StoragePort, scorer ScorerPort) *Service {
	if store == nil {
		panic("sentiment service requires a storage port")
	}
	if scorer == nil {
		scorer = NewLexicon()
	}
	return &Service{store: store, scorer: scorer}
}

// ByAgent returns the mean post score per recognized agent, sorted by
// agent name. Posts without a recognized agent are skipped. An empty
// agents list means all agents
func (s *Service) ByAgent(ctx context.Context, agents []string) ([]AgentSentiment, error) {
	all, err := s.store.List(ctx, posts.Filter{Agents: agents})
	if err != nil {
		return nil, err
	}
	type acc struct {
		n   int
		sum float64
	}
	byAgent := map[string]*acc{}
	for _, p := range all {
		if p.Agent == "" || p.Agent == posts.Unknown {
			continue
		}
		a := byAgent[p.Agent]
		if a == nil {
			a = &acc{}
			byAgent[p.Agent] = a
		}
		a.n++
		a.sum += s.scorer.Score(p.Title + " " + p.Body)
	}
	out := make([]AgentSentiment, 0, len(byAgent))
	for name, a := range byAgent {
		out = append(out, AgentSentiment{
			Agent: name,
			Posts: a.n,
			Score: a.sum / float64(a.n),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Agent < out[j].Agent })
	return out, nil
}
