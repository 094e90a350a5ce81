// Package classify derives participation metadata from post text using the
// compiled rule pack. It is pure: same input, same output, no errors
package classify

import (
	"strconv"

	"classboard/internal/core/normalize"
	"classboard/internal/core/rules"
)

// Confidence says how a classified field was produced
type Confidence string

const (
	// MatchExact means a rule pattern hit the text
	MatchExact Confidence = "exact"
	// MatchNone means no rule hit and the field degraded to its zero signal
	MatchNone Confidence = "none"
)

// Unknown is the degraded label for enum axes when nothing matched
const Unknown = "Unknown"

// Field is one classified enum axis value with its confidence
type Field struct {
	Value      string     `json:"value"`
	Confidence Confidence `json:"confidence"`
}

// Result is the full classification of a post
type Result struct {
	Participation Field `json:"participation"`
	Agent         Field `json:"agent"`

	// Homework is nil when no homework number was found
	Homework           *int       `json:"homework,omitempty"`
	HomeworkConfidence Confidence `json:"homework_confidence"`
}

// Classifier binds a rule pack and a normalizer
type Classifier struct {
	pack *rules.Pack
	norm *normalize.Normalizer
}

// New constructs a Classifier over the given pack
func New(pack *rules.Pack) *Classifier {
	return &Classifier{pack: pack, norm: normalize.New()}
}

// Classify extracts participation type, homework number, and agent from the
// post fields. Category is searched first so a category like "Participation A"
// wins over incidental mentions in the body
func (c *Classifier) Classify(title, body, category string) Result {
	text := c.norm.Normalize(category)
	if t := c.norm.Normalize(title); t != "" {
		if text != "" {
			text += " "
		}
		text += t
	}
	if b := c.norm.Normalize(body); b != "" {
		if text != "" {
			text += " "
		}
		text += b
	}

	res := Result{
		Participation:      Field{Value: Unknown, Confidence: MatchNone},
		Agent:              Field{Value: Unknown, Confidence: MatchNone},
		HomeworkConfidence: MatchNone,
	}

	if label, ok := matchAxis(c.pack.Participation, text); ok {
		res.Participation = Field{Value: label, Confidence: MatchExact}
	}
	if label, ok := matchAxis(c.pack.Agent, text); ok {
		res.Agent = Field{Value: label, Confidence: MatchExact}
	}
	if n, ok := matchHomework(c.pack, text); ok {
		res.Homework = &n
		res.HomeworkConfidence = MatchExact
	}

	return res
}

// matchAxis returns the winning label for one axis.
// Rules are pre-sorted by (priority, label); within one priority tier the
// earliest match position in the text wins, ties fall to label order
func matchAxis(axis []rules.Rule, text string) (string, bool) {
	bestLabel := ""
	bestPos := -1
	bestPriority := 0

	for _, r := range axis {
		if bestPos >= 0 && r.Priority > bestPriority {
			break // a lower tier already won
		}
		pos := earliestMatch(r, text)
		if pos < 0 {
			continue
		}
		if bestPos < 0 || pos < bestPos {
			bestLabel = r.Label
			bestPos = pos
			bestPriority = r.Priority
		}
	}
	if bestPos < 0 {
		return "", false
	}
	return bestLabel, true
}

// earliestMatch returns the smallest match start across the rule's patterns,
// or -1 when nothing matches
func earliestMatch(r rules.Rule, text string) int {
	best := -1
	for _, re := range r.Compiled {
		loc := re.FindStringIndex(text)
		if loc == nil {
			continue
		}
		if best < 0 || loc[0] < best {
			best = loc[0]
		}
	}
	return best
}

// matchHomework extracts the first homework number by text position
func matchHomework(p *rules.Pack, text string) (int, bool) {
	m := p.Homework.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	for _, g := range m[1:] {
		if g == "" {
			continue
		}
		n, err := strconv.Atoi(g)
		if err != nil || n <= 0 {
			return 0, false
		}
		return n, true
	}
	return 0, false
}
