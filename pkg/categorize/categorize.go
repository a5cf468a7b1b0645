// Package categorize suggests a category for normalized transactions
// using an ordered keyword rule table. It is best-effort by design: the
// first matching rule wins and a miss is a zero-confidence result, never
// an error.
package categorize

import (
	"strings"

	"github.com/mvfrancisco/extrato/pkg/ingest"
	"github.com/mvfrancisco/extrato/pkg/models"
)

// Rule matches normalized description text against a keyword set. Kind,
// when set, restricts the rule to income or expense rows. Order in the
// table is significant: specific high-confidence rules come first so a
// broad fallback cannot shadow them.
type Rule struct {
	ID          string      `yaml:"id"`
	CategoryKey string      `yaml:"category"`
	Keywords    []string    `yaml:"keywords"`
	Kind        models.Kind `yaml:"kind,omitempty"`
	Confidence  float64     `yaml:"confidence"`
}

// Result is a category suggestion. A zero-valued Result means no rule
// matched.
type Result struct {
	CategoryKey string  `json:"categoryKey,omitempty"`
	Confidence  float64 `json:"confidence"`
	MatchedRule string  `json:"matchedRule,omitempty"`
}

// Engine evaluates rules in order. The rule table is read-only after
// construction and safe for concurrent use.
type Engine struct {
	rules []Rule
}

// New returns an engine with the built-in rule table.
func New() *Engine {
	return &Engine{rules: defaultRules}
}

// NewWithRules returns an engine evaluating the given rules in order.
func NewWithRules(rules []Rule) *Engine {
	return &Engine{rules: rules}
}

// Rules returns the engine's rule table in evaluation order.
func (e *Engine) Rules() []Rule {
	return e.rules
}

// Categorize normalizes description and extra text and returns the first
// matching rule's suggestion.
func (e *Engine) Categorize(description, extra string, amountCents int64, kind models.Kind) Result {
	_ = amountCents // reserved: no rule discriminates on amount yet

	text := ingest.NormalizeText(strings.TrimSpace(description + " " + extra))
	if text == "" {
		return Result{}
	}

	for _, rule := range e.rules {
		if rule.Kind != "" && rule.Kind != kind {
			continue
		}
		for _, keyword := range rule.Keywords {
			if strings.Contains(text, keyword) {
				return Result{
					CategoryKey: rule.CategoryKey,
					Confidence:  rule.Confidence,
					MatchedRule: rule.ID,
				}
			}
		}
	}

	return Result{}
}
