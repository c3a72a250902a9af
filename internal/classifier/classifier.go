// Package classifier routes transcript text to a department by keyword scoring.
package classifier

import (
	"strings"

	"github.com/spec-kit/voice2ticket/internal/domain"
)

// Rule holds the keywords that vote for one department.
type Rule struct {
	Department domain.Department `yaml:"department"`
	Keywords   []string          `yaml:"keywords"`
}

// Rules is ordered; on equal scores the earlier rule wins.
type Rules []Rule

// DefaultRules are the built-in keyword sets.
func DefaultRules() Rules {
	return Rules{
		{Department: domain.DepartmentIT, Keywords: []string{"laptop", "wifi", "email", "password", "vpn", "system"}},
		{Department: domain.DepartmentHR, Keywords: []string{"vacation", "leave", "benefits", "contact", "insurance"}},
		{Department: domain.DepartmentAdmin, Keywords: []string{"printer", "room", "booking", "facilities", "air conditioning"}},
	}
}

// Classifier is safe for concurrent use; it never mutates its rules.
type Classifier struct {
	rules Rules
}

// New builds a classifier. Empty rules fall back to DefaultRules.
func New(rules Rules) *Classifier {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	normalized := make(Rules, len(rules))
	for i, rule := range rules {
		keywords := make([]string, 0, len(rule.Keywords))
		for _, kw := range rule.Keywords {
			if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
				keywords = append(keywords, kw)
			}
		}
		normalized[i] = Rule{Department: rule.Department, Keywords: keywords}
	}
	return &Classifier{rules: normalized}
}

// Scores counts keyword hits per rule, in rule order.
func (c *Classifier) Scores(text string) []int {
	lower := strings.ToLower(text)
	scores := make([]int, len(c.rules))
	for i, rule := range c.rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				scores[i]++
			}
		}
	}
	return scores
}

// Classify returns the department with the highest score. A tie, including
// no hits at all, goes to the first rule.
func (c *Classifier) Classify(text string) domain.Department {
	scores := c.Scores(text)
	best := 0
	for i := 1; i < len(scores); i++ {
		if scores[i] > scores[best] {
			best = i
		}
	}
	return c.rules[best].Department
}
