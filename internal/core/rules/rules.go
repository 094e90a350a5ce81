// Package rules loads and compiles the participation rule pack from the
// embedded rules.json. It prepares per axis label rules and the homework
// number extractor for the classifier
package rules

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

//go:embed rules.json
var embedded []byte

type rawRule struct {
	Label    string   `json:"label"`
	Priority int      `json:"priority"`
	Patterns []string `json:"patterns"`
}

type rawAxes struct {
	Participation []rawRule `json:"participation"`
	Agent         []rawRule `json:"agent"`
}

type rawHomework struct {
	Pattern string `json:"pattern"`
}

type rawPack struct {
	Version  int            `json:"version"`
	Meta     map[string]any `json:"meta"`
	Axes     rawAxes        `json:"axes"`
	Homework rawHomework    `json:"homework"`
}

// Rule is a compiled label rule for one axis
type Rule struct {
	Label    string
	Priority int

	// Sources are the expanded regex sources, 1:1 with Compiled
	Sources  []string
	Compiled []*regexp.Regexp
}

// Pack represents the compiled rule pack
type Pack struct {
	Version int
	Meta    map[string]any

	// Label rules per axis, ordered by ascending priority then label
	Participation []Rule
	Agent         []Rule

	// Homework extracts the first homework number; capture group 1 is the digits
	Homework *regexp.Regexp
}

// Load returns the compiled pack from the embedded rules.json
func Load() (*Pack, error) {
	return Parse(embedded)
}

// Parse compiles a rule pack from raw JSON bytes
func Parse(raw []byte) (*Pack, error) {
	var rp rawPack
	if err := json.Unmarshal(raw, &rp); err != nil {
		return nil, fmt.Errorf("rules: parse rules.json: %w", err)
	}
	if rp.Version != 1 {
		return nil, fmt.Errorf("rules: unsupported rules.json version %d (want 1)", rp.Version)
	}

	p := &Pack{
		Version: rp.Version,
		Meta:    rp.Meta,
	}

	var err error
	if p.Participation, err = compileAxis("participation", rp.Axes.Participation); err != nil {
		return nil, err
	}
	if p.Agent, err = compileAxis("agent", rp.Axes.Agent); err != nil {
		return nil, err
	}

	hw := strings.TrimSpace(rp.Homework.Pattern)
	if hw == "" {
		return nil, fmt.Errorf("rules: missing homework pattern")
	}
	if p.Homework, err = regexp.Compile("(?i)" + hw); err != nil {
		return nil, fmt.Errorf("rules: compile homework %q: %w", hw, err)
	}

	return p, nil
}

// compileAxis expands and compiles every rule of one axis and fixes ordering
func compileAxis(axis string, in []rawRule) ([]Rule, error) {
	if len(in) == 0 {
		return nil, fmt.Errorf("rules: axis %q has no rules", axis)
	}
	out := make([]Rule, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, r := range in {
		label := strings.TrimSpace(r.Label)
		if label == "" {
			return nil, fmt.Errorf("rules: axis %q has a rule without a label", axis)
		}
		if _, dup := seen[label]; dup {
			return nil, fmt.Errorf("rules: axis %q has duplicate label %q", axis, label)
		}
		seen[label] = struct{}{}

		rule := Rule{Label: label, Priority: r.Priority}
		for _, surf := range r.Patterns {
			src, err := expandSurface(surf)
			if err != nil {
				return nil, fmt.Errorf("rules: axis %q label %q: %w", axis, label, err)
			}
			re, err := regexp.Compile(src)
			if err != nil {
				return nil, fmt.Errorf("rules: compile %q: %w", src, err)
			}
			rule.Sources = append(rule.Sources, src)
			rule.Compiled = append(rule.Compiled, re)
		}
		if len(rule.Compiled) == 0 {
			return nil, fmt.Errorf("rules: axis %q label %q has no patterns", axis, label)
		}
		out = append(out, rule)
	}

	// Deterministic match order: priority, then label
	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority < out[j].Priority
		}
		return out[i].Label < out[j].Label
	})
	return out, nil
}

// expandSurface turns a literal surface form into a case-insensitive
// word-boundary regex source. Spaces in the surface form match optional
// whitespace so "part a", "parta", and "part  a" all hit
func expandSurface(surf string) (string, error) {
	surf = strings.ToLower(strings.TrimSpace(surf))
	if surf == "" {
		return "", fmt.Errorf("empty pattern")
	}
	esc := regexp.QuoteMeta(surf)
	esc = strings.ReplaceAll(esc, " ", `\s*`)
	return `(?i)\b` + esc + `\b`, nil
}

// Counts reports rule counts per axis for diagnostics
func (p *Pack) Counts() map[string]int {
	if p == nil {
		return nil
	}
	return map[string]int{
		"participation": len(p.Participation),
		"agent":         len(p.Agent),
	}
}
