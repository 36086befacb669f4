// Package heuristics infers a secondary accounting leg from a transaction's
// free-text description. Rules are an explicit ordered list evaluated
// first-match-wins; order is preserved exactly as authored.
package heuristics

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/beanport-dev/beanport/internal/model"
)

// Rule maps description substrings to a target account. Triggers are matched
// case-insensitively; the first rule with any matching trigger wins.
type Rule struct {
	Name     string   `yaml:"name"`
	Triggers []string `yaml:"triggers"`
	Account  string   `yaml:"account"`
	Invert   bool     `yaml:"invert,omitempty"`
}

// Classifier applies an ordered rule set to row descriptions.
type Classifier struct {
	rules    []Rule
	currency string
	invert   bool
}

// New creates a Classifier. The invert flag is a global default applied on top
// of per-rule inversion, so one classifier serves source formats with either
// amount-sign convention.
func New(rules []Rule, currency string, invert bool) *Classifier {
	return &Classifier{rules: rules, currency: currency, invert: invert}
}

// DefaultRules is the stock rule set for UK statement descriptions.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:     "groceries",
			Triggers: []string{"tesco", "morrison", "lidl", "aldi"},
			Account:  "Expenses:Groceries",
			Invert:   true,
		},
		{
			Name:     "phone",
			Triggers: []string{"smarty"},
			Account:  "Expenses:Phone",
			Invert:   true,
		},
	}
}

// Classify returns the secondary posting for a description, or false when no
// rule matches (the transaction stays single-leg). Classified postings carry
// the needs-review flag so the inferred leg is visible at review time.
func (c *Classifier) Classify(description string, amount decimal.Decimal) (model.Posting, bool) {
	desc := strings.ToLower(description)
	for _, rule := range c.rules {
		for _, trigger := range rule.Triggers {
			if !strings.Contains(desc, strings.ToLower(trigger)) {
				continue
			}
			units := amount
			if rule.Invert || c.invert {
				units = units.Neg()
			}
			return model.Posting{
				Account: rule.Account,
				Units:   model.NewAmount(units, c.currency),
				Flag:    model.FlagWarning,
			}, true
		}
	}
	return model.Posting{}, false
}
