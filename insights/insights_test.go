package insights

import (
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datamilo/database"
)

func customerResult(rows ...database.Row) *database.QueryResult {
	return &database.QueryResult{Columns: []string{"name", "total_spent"}, Rows: rows}
}

func summaryResult(aov float64) *database.QueryResult {
	return &database.QueryResult{
		Columns: []string{"total_sales", "total_revenue", "avg_order_value", "unique_customers"},
		Rows: []database.Row{{
			"total_sales":      int64(4),
			"total_revenue":    aov * 4,
			"avg_order_value":  aov,
			"unique_customers": int64(2),
		}},
	}
}

func texts(in []Insight) []string {
	return Strings(in)
}

func containsPrefix(in []Insight, prefix string) bool {
	for _, i := range in {
		if strings.HasPrefix(i.Text, prefix) {
			return true
		}
	}
	return false
}

func TestGenerate_EmptyResult(t *testing.T) {
	g := NewGenerator(DefaultThresholds())
	questions := []string{"", "   ", "who are my top customers?", "zzz"}

	for _, q := range questions {
		out := g.Generate(&database.QueryResult{Columns: []string{"total_spent"}}, q)
		require.Len(t, out, 1)
		assert.Equal(t, NoDataText, out[0].Text)
	}

	out := g.Generate(nil, "anything")
	require.Len(t, out, 1)
	assert.Equal(t, NoDataText, out[0].Text)
}

func TestGenerate_ConcentrationScenario(t *testing.T) {
	g := NewGenerator(DefaultThresholds())
	result := customerResult(
		database.Row{"name": "Ervin Howell", "total_spent": 2931.89},
		database.Row{"name": "Chelsey Dietrich", "total_spent": 12.99},
		database.Row{"name": "Leanne Graham", "total_spent": 19.99},
	)

	out := g.Generate(result, "Who are my top customers?")

	assert.Equal(t, []string{
		"REVENUE CONCENTRATION: Top customer Ervin Howell represents 98.9% of total revenue",
		"CRITICAL RISK: Extreme customer dependency detected",
		"RECOMMENDATION: Immediate customer diversification strategy needed",
		"LOW CUSTOMER BASE: Only 3 active customers",
		"ACTION: Focus on customer acquisition",
	}, texts(out))
	assert.Equal(t, []Kind{Observation, Risk, Recommendation, Observation, Recommendation}, []Kind{
		out[0].Kind, out[1].Kind, out[2].Kind, out[3].Kind, out[4].Kind,
	})

	var b strings.Builder
	for _, i := range out {
		b.WriteString(string(i.Kind) + ": " + i.Text + "\n")
	}
	gold := goldie.New(t)
	gold.Assert(t, "concentration_scenario", []byte(b.String()))
}

func TestGenerate_ConcentrationBoundaries(t *testing.T) {
	tests := []struct {
		name         string
		top, rest    float64
		wantCritical bool
		wantModerate bool
		wantShare    string
	}{
		{name: "moderate at 60%", top: 60, rest: 40, wantModerate: true, wantShare: "60.0%"},
		{name: "exactly 80% stays moderate", top: 80, rest: 20, wantModerate: true, wantShare: "80.0%"},
		{name: "exactly 50% is neither", top: 50, rest: 50, wantShare: "50.0%"},
		{name: "above 80% is critical", top: 81, rest: 19, wantCritical: true, wantShare: "81.0%"},
		{name: "zero total guards division", top: 0, rest: 0, wantShare: "0.0%"},
	}

	g := NewGenerator(DefaultThresholds())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := g.Generate(customerResult(
				database.Row{"name": "A", "total_spent": tt.top},
				database.Row{"name": "B", "total_spent": tt.rest},
			), "q")

			require.NotEmpty(t, out)
			assert.Contains(t, out[0].Text, tt.wantShare)
			assert.Equal(t, tt.wantCritical, containsPrefix(out, "CRITICAL RISK"))
			assert.Equal(t, tt.wantModerate, containsPrefix(out, "MODERATE RISK"))
		})
	}
}

func TestGenerate_CustomerBaseThreshold(t *testing.T) {
	g := NewGenerator(DefaultThresholds())

	rows := make([]database.Row, 0, 5)
	for i := 0; i < 5; i++ {
		rows = append(rows, database.Row{"name": "c", "total_spent": 10.0})
	}
	assert.False(t, containsPrefix(g.Generate(customerResult(rows...), "q"), "LOW CUSTOMER BASE"))
	assert.True(t, containsPrefix(g.Generate(customerResult(rows[:4]...), "q"), "LOW CUSTOMER BASE"))

	single := g.Generate(customerResult(database.Row{"name": "solo", "total_spent": 10.0}), "q")
	assert.Contains(t, texts(single), "LOW CUSTOMER BASE: Only 1 active customer")

	wide := DefaultThresholds()
	wide.LowCustomerBase = 10
	assert.True(t, containsPrefix(NewGenerator(wide).Generate(customerResult(rows...), "q"), "LOW CUSTOMER BASE"))
}

func TestGenerate_ProductBlock(t *testing.T) {
	g := NewGenerator(DefaultThresholds())
	result := &database.QueryResult{
		Columns: []string{"product_name", "category", "total_revenue"},
		Rows: []database.Row{
			{"product_name": "Laptop Pro", "category": "Electronics", "total_revenue": 2599.98},
			{"product_name": "Desk Lamp", "category": "Furniture", "total_revenue": 229.95},
			{"product_name": "Mouse", "category": "Electronics", "total_revenue": 89.97},
		},
	}

	out := g.Generate(result, "product performance")

	assert.Equal(t, []string{
		"TOP PRODUCT: Laptop Pro generates 89.0% of product revenue ($2,599.98)",
		"RISK: Over-dependence on a single product",
		"RECOMMENDATION: Diversify the product portfolio",
	}, texts(out))
}

func TestGenerate_SingleProductHasNoDependenceRisk(t *testing.T) {
	g := NewGenerator(DefaultThresholds())
	result := &database.QueryResult{
		Columns: []string{"product_name", "total_revenue"},
		Rows: []database.Row{
			{"product_name": "Laptop Pro", "total_revenue": 2599.98},
		},
	}

	out := g.Generate(result, "how is the laptop doing?")
	assert.Equal(t, []string{"TOP PRODUCT: Laptop Pro generates 100.0% of product revenue ($2,599.98)"}, texts(out))
}

func TestGenerate_ProductBlockUsesRevenueColumn(t *testing.T) {
	g := NewGenerator(DefaultThresholds())
	result := &database.QueryResult{
		Columns: []string{"product_name", "revenue"},
		Rows: []database.Row{
			{"product_name": "Keyboard", "revenue": 60.0},
			{"product_name": "Mug", "revenue": 40.0},
		},
	}

	out := g.Generate(result, "revenue by product")
	assert.Equal(t, []string{"TOP PRODUCT: Keyboard generates 60.0% of product revenue ($60.00)"}, texts(out))
}

func TestGenerate_OrderValueTiers(t *testing.T) {
	tests := []struct {
		aov      float64
		expected string
		absent   []string
	}{
		{1500, "PREMIUM BUSINESS", []string{"STRONG PERFORMANCE", "GROWTH POTENTIAL"}},
		{1000, "STRONG PERFORMANCE", []string{"PREMIUM BUSINESS", "GROWTH POTENTIAL"}},
		{750, "STRONG PERFORMANCE", []string{"PREMIUM BUSINESS", "GROWTH POTENTIAL"}},
		{500, "GROWTH POTENTIAL", []string{"PREMIUM BUSINESS", "STRONG PERFORMANCE"}},
		{150, "GROWTH POTENTIAL", []string{"PREMIUM BUSINESS", "STRONG PERFORMANCE"}},
	}

	g := NewGenerator(DefaultThresholds())
	for _, tt := range tests {
		out := g.Generate(summaryResult(tt.aov), "sales summary")
		assert.True(t, containsPrefix(out, tt.expected), "aov %v", tt.aov)
		for _, a := range tt.absent {
			assert.False(t, containsPrefix(out, a), "aov %v should not produce %s", tt.aov, a)
		}
	}

	low := g.Generate(summaryResult(100), "sales summary")
	assert.Len(t, low, 4)
}

func TestGenerate_SummaryBlockOrder(t *testing.T) {
	g := NewGenerator(DefaultThresholds())

	out := g.Generate(summaryResult(750), "What's my sales summary?")

	assert.Equal(t, []string{
		"TOTAL TRANSACTIONS: 4",
		"TOTAL REVENUE: $3,000.00",
		"AVERAGE ORDER VALUE: $750.00",
		"UNIQUE CUSTOMERS: 2",
		"STRONG PERFORMANCE: Solid average order value of $750.00",
		"OPPORTUNITY: Upselling could drive significant growth",
	}, texts(out))
}

func TestGenerate_BlockOrderForCustomerAnalysis(t *testing.T) {
	g := NewGenerator(DefaultThresholds())
	result := &database.QueryResult{
		Columns: []string{"name", "city", "company", "order_count", "total_spent", "avg_order"},
		Rows: []database.Row{
			{"name": "Ervin Howell", "order_count": int64(2), "total_spent": 2400.0, "avg_order": 1200.0},
			{"name": "Leanne Graham", "order_count": int64(1), "total_spent": 900.0, "avg_order": 900.0},
		},
	}

	out := g.Generate(result, "customer analysis")

	assert.Equal(t, []string{
		"REVENUE CONCENTRATION: Top customer Ervin Howell represents 72.7% of total revenue",
		"MODERATE RISK: High customer concentration",
		"RECOMMENDATION: Develop additional customer acquisition channels",
		"LOW CUSTOMER BASE: Only 2 active customers",
		"ACTION: Focus on customer acquisition",
		"PREMIUM BUSINESS: Excellent average order value of $1,050.00",
		"STRATEGY: Focus on customer retention and premium service",
	}, texts(out))
}

func TestGenerate_NoMatchingColumns(t *testing.T) {
	g := NewGenerator(DefaultThresholds())
	out := g.Generate(&database.QueryResult{
		Columns: []string{"category"},
		Rows:    []database.Row{{"category": "Kitchen"}},
	}, "categories")

	require.Len(t, out, 1)
	assert.Equal(t, NoInsightsText, out[0].Text)
}

func TestGenerate_Idempotent(t *testing.T) {
	g := NewGenerator(DefaultThresholds())
	result := customerResult(
		database.Row{"name": "Ervin Howell", "total_spent": 2931.89},
		database.Row{"name": "Leanne Graham", "total_spent": 19.99},
	)

	first := g.Generate(result, "top customers")
	second := g.Generate(result, "top customers")
	assert.Equal(t, first, second)
}

func TestGenerate_CustomThresholds(t *testing.T) {
	th := DefaultThresholds()
	th.CriticalConcentration = 95
	g := NewGenerator(th)

	out := g.Generate(customerResult(
		database.Row{"name": "A", "total_spent": 90.0},
		database.Row{"name": "B", "total_spent": 10.0},
	), "q")

	assert.True(t, containsPrefix(out, "MODERATE RISK"))
	assert.False(t, containsPrefix(out, "CRITICAL RISK"))
	assert.Equal(t, 95.0, g.Thresholds().CriticalConcentration)
}
