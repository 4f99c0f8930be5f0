package classifier

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_RuleTable(t *testing.T) {
	tests := []struct {
		question string
		expected string
	}{
		{"Who are my top customers?", "top_customers"},
		{"Who is my BEST CUSTOMER", "top_customers"},
		{"biggest customer this year", "top_customers"},
		{"Show me revenue by product", "product_performance"},
		{"Show me product performance", "product_performance"},
		{"Give me customer analysis", "customer_analysis"},
		{"customer breakdown by city", "customer_analysis"},
		{"What's my sales summary?", "sales_summary"},
		{"quick overview please", "sales_summary"},
	}

	c := New()
	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			assert.Equal(t, tt.expected, c.Classify(tt.question).Name)
		})
	}
}

func TestClassify_Totality(t *testing.T) {
	inputs := []string{"", "   ", "\t\n", "how is the weather", "SELECT * FROM fact_sales", strings.Repeat("x", 10000), "日本語の質問"}

	c := New()
	for _, in := range inputs {
		got := c.Classify(in)
		assert.Equal(t, SalesSummary, got)
		assert.NotEmpty(t, got.SQL)
	}
}

func TestClassify_PriorityDeterminism(t *testing.T) {
	c := New()

	assert.Equal(t, TopCustomers, c.Classify("show me top customer revenue by product"))
	assert.Equal(t, ProductPerformance, c.Classify("product performance and customer analysis overview"))
	assert.Equal(t, CustomerAnalysis, c.Classify("customer breakdown with an overview"))
}

func TestClassify_ProductLookup(t *testing.T) {
	c := New()

	got := c.Classify("What is the revenue for Coffee Mug?")
	require.Equal(t, "product_lookup", got.Name)
	assert.Equal(t, "mug", got.Product)
	assert.Contains(t, got.SQL, "LIKE '%mug%'")
	assert.NotContains(t, got.SQL, productPlaceholder)

	got = c.Classify("Who bought Laptop Pro and how much?")
	assert.Equal(t, "laptop", got.Product)

	got = c.Classify("how many laptops did we sell")
	assert.Equal(t, "laptop", got.Product)

	// product mentions outrank generic rules
	got = c.Classify("top customers for the keyboard")
	assert.Equal(t, "keyboard", got.Product)

	// whole words only
	assert.Equal(t, SalesSummary, c.Classify("help me understand the summary of mugging"))
}

func TestClassify_Comprehensive(t *testing.T) {
	c := New()

	for _, q := range []string{
		"Give me a complete dashboard analysis of everything",
		"show the ENTIRE DASHBOARD",
		"complete analysis of top customers",
	} {
		got := c.Classify(q)
		assert.True(t, got.IsComprehensive(), q)
		assert.Empty(t, got.SQL)
	}

	assert.Equal(t, SalesSummary, c.Fallback("everything"))
	assert.Equal(t, TopCustomers, c.Fallback("everything about my top customers"))
}

func TestClassify_Options(t *testing.T) {
	base := New(WithoutComprehensive(), WithoutProductLookup())

	assert.Equal(t, SalesSummary, base.Classify("complete analysis"))
	assert.Equal(t, TopCustomers, base.Classify("top customers for the keyboard"))

	custom := New(WithProducts("Standing Desk"))
	assert.Equal(t, "standing desk", custom.Classify("sales of the standing desk").Product)
	assert.Equal(t, SalesSummary, custom.Classify("sales of the keyboard"))

	rules := New(WithRules([]Rule{{Phrases: []string{"categories"}, Template: CategoryBreakdown}}))
	assert.Equal(t, CategoryBreakdown, rules.Classify("compare categories"))
	assert.Equal(t, SalesSummary, rules.Classify("top customers"))
}

func TestTemplates_ClosedSet(t *testing.T) {
	names := map[string]bool{}
	for _, tpl := range Templates() {
		assert.False(t, names[tpl.Name], "duplicate template %s", tpl.Name)
		names[tpl.Name] = true
		if !tpl.IsComprehensive() {
			assert.NotEmpty(t, tpl.SQL, tpl.Name)
		}
	}
	assert.Len(t, names, 7)

	got, ok := Lookup("customer_analysis")
	require.True(t, ok)
	assert.Equal(t, CustomerAnalysis, got)

	_, ok = Lookup("nope")
	assert.False(t, ok)
}
