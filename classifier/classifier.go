// Package classifier maps a free-text business question to one template
// from a closed set using ordered phrase rules. Classification is total:
// any input, including the empty string, yields a template.
package classifier

import (
	"regexp"
	"strings"
)

// Rule selects Template when the lower-cased question contains any phrase.
type Rule struct {
	Phrases  []string
	Template Template
}

func (r Rule) matches(q string) bool {
	for _, p := range r.Phrases {
		if strings.Contains(q, p) {
			return true
		}
	}
	return false
}

// DefaultRules is the generic rule table in priority order.
var DefaultRules = []Rule{
	{Phrases: []string{"top customer", "best customer", "biggest customer"}, Template: TopCustomers},
	{Phrases: []string{"revenue by product", "product performance"}, Template: ProductPerformance},
	{Phrases: []string{"customer analysis", "customer breakdown"}, Template: CustomerAnalysis},
	{Phrases: []string{"sales summary", "overview"}, Template: SalesSummary},
}

// ComprehensivePhrases trigger the run-everything sentinel.
var ComprehensivePhrases = []string{"complete dashboard", "entire dashboard", "everything", "complete analysis"}

// DefaultProducts are the catalog aliases recognised in questions.
var DefaultProducts = []string{"laptop", "mouse", "chair", "mug", "notebook", "lamp", "keyboard", "bottle", "monitor stand", "phone case"}

// Fallback is returned when nothing matches.
var Fallback = SalesSummary

type productMatcher struct {
	alias string
	re    *regexp.Regexp
}

// Classifier is immutable after construction and safe for concurrent use.
type Classifier struct {
	rules         []Rule
	comprehensive []string
	products      []productMatcher
	fallback      Template
}

type Option func(*Classifier)

// WithoutComprehensive disables the sentinel rule.
func WithoutComprehensive() Option {
	return func(c *Classifier) { c.comprehensive = nil }
}

// WithoutProductLookup disables named-product matching.
func WithoutProductLookup() Option {
	return func(c *Classifier) { c.products = nil }
}

// WithProducts replaces the recognised product aliases.
func WithProducts(aliases ...string) Option {
	return func(c *Classifier) { c.products = compileProducts(aliases) }
}

// WithRules replaces the generic rule table.
func WithRules(rules []Rule) Option {
	return func(c *Classifier) { c.rules = rules }
}

func New(opts ...Option) *Classifier {
	c := &Classifier{
		rules:         DefaultRules,
		comprehensive: ComprehensivePhrases,
		products:      compileProducts(DefaultProducts),
		fallback:      Fallback,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func compileProducts(aliases []string) []productMatcher {
	out := make([]productMatcher, 0, len(aliases))
	for _, a := range aliases {
		a = strings.ToLower(strings.TrimSpace(a))
		if a == "" {
			continue
		}
		out = append(out, productMatcher{
			alias: a,
			re:    regexp.MustCompile(`\b` + regexp.QuoteMeta(a) + `s?\b`),
		})
	}
	return out
}

// Classify returns the template for question. Evaluation order: the
// comprehensive sentinel, then named products, then the rule table, then
// the fallback. The first match wins.
func (c *Classifier) Classify(question string) Template {
	q := strings.ToLower(question)

	for _, p := range c.comprehensive {
		if strings.Contains(q, p) {
			return Comprehensive
		}
	}
	return c.match(q)
}

// Fallback classifies question with the sentinel rule skipped. Model-backed
// routing uses it whenever a generated statement is unusable.
func (c *Classifier) Fallback(question string) Template {
	return c.match(strings.ToLower(question))
}

func (c *Classifier) match(q string) Template {
	for _, p := range c.products {
		if p.re.MatchString(q) {
			return BindProduct(p.alias)
		}
	}

	for _, r := range c.rules {
		if r.matches(q) {
			return r.Template
		}
	}

	return c.fallback
}
