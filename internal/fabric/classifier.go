// Package fabric infers fabric tags from free-text product descriptions using
// a static keyword table.
package fabric

import (
	"strings"

	"github.com/utafrali/storefront/internal/domain"
)

// Rule maps a fabric tag to the keyword phrases that imply it. A description
// matches the rule when any keyword occurs in it as a substring.
type Rule struct {
	Tag      domain.FabricTag
	Keywords []string
}

// DefaultRules is the keyword table used by the storefront.
var DefaultRules = []Rule{
	{Tag: domain.FabricCotton, Keywords: []string{"cotton", "cotton blend"}},
	{Tag: domain.FabricLeather, Keywords: []string{"leather", "faux leather", "pu leather"}},
	{Tag: domain.FabricPolyester, Keywords: []string{"polyester", "poly"}},
	{Tag: domain.FabricWool, Keywords: []string{"wool", "merino", "cashmere"}},
	{Tag: domain.FabricSilk, Keywords: []string{"silk"}},
}

// Classifier matches descriptions against an ordered rule table. It holds no
// mutable state and is safe for concurrent use.
type Classifier struct {
	rules []Rule
}

// New creates a classifier over the given rules. With no rules it uses
// DefaultRules. Keywords are lower-cased once here.
func New(rules ...Rule) *Classifier {
	if len(rules) == 0 {
		rules = DefaultRules
	}

	normalized := make([]Rule, 0, len(rules))
	for _, r := range rules {
		keywords := make([]string, 0, len(r.Keywords))
		for _, k := range r.Keywords {
			if k = strings.ToLower(k); k != "" {
				keywords = append(keywords, k)
			}
		}
		normalized = append(normalized, Rule{Tag: r.Tag, Keywords: keywords})
	}

	return &Classifier{rules: normalized}
}

// Classify returns every tag whose keywords occur in the description, in
// rule order. Several tags may match the same description.
func (c *Classifier) Classify(description string) []domain.FabricTag {
	lower := strings.ToLower(description)

	var tags []domain.FabricTag
	for _, r := range c.rules {
		if matchesAny(lower, r.Keywords) {
			tags = append(tags, r.Tag)
		}
	}
	return tags
}

// Rules returns a copy of the classifier's rule table.
func (c *Classifier) Rules() []Rule {
	out := make([]Rule, len(c.rules))
	for i, r := range c.rules {
		out[i] = Rule{Tag: r.Tag, Keywords: append([]string{}, r.Keywords...)}
	}
	return out
}

func matchesAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
