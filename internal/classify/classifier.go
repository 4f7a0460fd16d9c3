package classify

import (
	"strings"

	"github.com/oseilabs/econdocs/internal/taxonomy"
	"github.com/oseilabs/econdocs/pkg/document"
)

// rule is one step of the classification checklist.
type rule struct {
	theme    string
	category document.Category
	match    func(combined string) bool
}

// Classifier assigns exactly one category to a (link text, link URL) pair.
// It is a pure function over the taxonomy: no I/O, no state mutation, and
// identical inputs always produce the same category.
//
// Rules are evaluated in taxonomy order and the first match wins. This is
// deliberate: a budget page that leads with GDP figures belongs to the
// economic-growth corpus, so later rules never get a chance to reclaim it.
type Classifier struct {
	rules []rule
}

// NewClassifier builds the rule chain from the taxonomy's theme order.
func NewClassifier(tax *taxonomy.Taxonomy) *Classifier {
	rules := make([]rule, 0, len(tax.Themes))
	for _, th := range tax.Themes {
		keywords := th.Keywords
		var match func(string) bool

		switch th.Name {
		case taxonomy.ThemeAnnual:
			// "annual report" without budget language; budget-year annuals
			// already matched the fiscal rule above.
			match = func(s string) bool {
				return containsAny(s, keywords) && !strings.Contains(s, "budget")
			}
		default:
			match = func(s string) bool {
				return containsAny(s, keywords)
			}
		}

		rules = append(rules, rule{theme: th.Name, category: th.Category, match: match})
	}
	return &Classifier{rules: rules}
}

// Classify maps a link's visible text and URL to a category. When nothing
// in the checklist matches, the default category applies.
func (c *Classifier) Classify(text, url string) document.Category {
	combined := combine(text, url)
	for _, r := range c.rules {
		if r.match(combined) {
			return r.category
		}
	}
	return document.DefaultCategory
}

func combine(text, url string) string {
	return strings.ToLower(text + " " + url)
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
