// Package insights derives short business observations from a query result.
//
// Derivation is column driven: which blocks fire depends on the aggregate
// columns present in the result, never on which template produced it. Rows
// are expected to arrive sorted descending by the relevant metric; row 0 is
// always treated as the top contributor.
package insights

import (
	"fmt"

	"datamilo/database"
	"datamilo/utils"
)

// Kind classifies an insight line.
type Kind string

const (
	Observation    Kind = "observation"
	Recommendation Kind = "recommendation"
	Risk           Kind = "risk"
)

// Insight is one displayable line.
type Insight struct {
	Kind Kind   `json:"kind"`
	Text string `json:"text"`
}

func (i Insight) String() string {
	return i.Text
}

const (
	NoDataText     = "No data found for your query."
	NoInsightsText = "Analysis complete. No specific insights detected."
)

// Result columns the generator understands.
const (
	ColTotalSpent      = "total_spent"
	ColName            = "name"
	ColCustomer        = "customer"
	ColRevenue         = "revenue"
	ColTotalRevenue    = "total_revenue"
	ColProductName     = "product_name"
	ColAvgOrderValue   = "avg_order_value"
	ColAvgOrder        = "avg_order"
	ColTotalSales      = "total_sales"
	ColUniqueCustomers = "unique_customers"
)

// Generator is safe for concurrent use; it holds no mutable state.
type Generator struct {
	thresholds Thresholds
}

func NewGenerator(t Thresholds) *Generator {
	return &Generator{thresholds: t}
}

func (g *Generator) Thresholds() Thresholds {
	return g.thresholds
}

// Generate returns the ordered insights for result. The sequence is never
// empty: a result without rows yields the single "no data" line.
func (g *Generator) Generate(result *database.QueryResult, question string) []Insight {
	if result.IsEmpty() {
		return []Insight{{Kind: Observation, Text: NoDataText}}
	}

	var out []Insight
	out = append(out, g.concentration(result)...)
	out = append(out, g.customerBase(result)...)
	out = append(out, g.product(result)...)
	if !isSummaryShape(result) {
		out = append(out, g.orderValue(result)...)
	}
	out = append(out, g.summary(result)...)

	if len(out) == 0 {
		return []Insight{{Kind: Observation, Text: NoInsightsText}}
	}
	return out
}

// Strings flattens insights to their display text.
func Strings(in []Insight) []string {
	out := make([]string, len(in))
	for i, ins := range in {
		out[i] = ins.Text
	}
	return out
}

func (g *Generator) concentration(r *database.QueryResult) []Insight {
	if !r.HasColumn(ColTotalSpent) {
		return nil
	}

	share := shareOfFirst(r, ColTotalSpent)
	subject := "Top customer"
	if name := labelOf(r, ColName, ColCustomer); name != "" {
		subject = "Top customer " + name
	}

	out := []Insight{{
		Kind: Observation,
		Text: fmt.Sprintf("REVENUE CONCENTRATION: %s represents %s of total revenue", subject, utils.FormatPercent(share)),
	}}

	switch {
	case share > g.thresholds.CriticalConcentration:
		out = append(out,
			Insight{Kind: Risk, Text: "CRITICAL RISK: Extreme customer dependency detected"},
			Insight{Kind: Recommendation, Text: "RECOMMENDATION: Immediate customer diversification strategy needed"},
		)
	case share > g.thresholds.ModerateConcentration:
		out = append(out,
			Insight{Kind: Risk, Text: "MODERATE RISK: High customer concentration"},
			Insight{Kind: Recommendation, Text: "RECOMMENDATION: Develop additional customer acquisition channels"},
		)
	}
	return out
}

func (g *Generator) customerBase(r *database.QueryResult) []Insight {
	if !r.HasColumn(ColTotalSpent) || r.Len() >= g.thresholds.LowCustomerBase {
		return nil
	}
	noun := "customers"
	if r.Len() == 1 {
		noun = "customer"
	}
	return []Insight{
		{Kind: Observation, Text: fmt.Sprintf("LOW CUSTOMER BASE: Only %d active %s", r.Len(), noun)},
		{Kind: Recommendation, Text: "ACTION: Focus on customer acquisition"},
	}
}

func (g *Generator) product(r *database.QueryResult) []Insight {
	col := firstColumn(r, ColTotalRevenue, ColRevenue)
	if col == "" || !r.HasColumn(ColProductName) {
		return nil
	}

	top, _ := r.Float(0, col)
	share := shareOfFirst(r, col)
	name := r.Text(0, ColProductName)
	if name == "" {
		name = "Unknown"
	}

	out := []Insight{{
		Kind: Observation,
		Text: fmt.Sprintf("TOP PRODUCT: %s generates %s of product revenue (%s)", name, utils.FormatPercent(share), utils.FormatMoney(top)),
	}}
	if r.Len() > 1 && share > g.thresholds.CriticalConcentration {
		out = append(out,
			Insight{Kind: Risk, Text: "RISK: Over-dependence on a single product"},
			Insight{Kind: Recommendation, Text: "RECOMMENDATION: Diversify the product portfolio"},
		)
	}
	return out
}

func (g *Generator) orderValue(r *database.QueryResult) []Insight {
	col := firstColumn(r, ColAvgOrderValue, ColAvgOrder)
	if col == "" {
		return nil
	}
	return g.orderValueTier(r.Mean(col))
}

func (g *Generator) orderValueTier(aov float64) []Insight {
	amount := utils.FormatMoney(aov)
	switch {
	case aov > g.thresholds.PremiumOrderValue:
		return []Insight{
			{Kind: Observation, Text: "PREMIUM BUSINESS: Excellent average order value of " + amount},
			{Kind: Recommendation, Text: "STRATEGY: Focus on customer retention and premium service"},
		}
	case aov > g.thresholds.StrongOrderValue:
		return []Insight{
			{Kind: Observation, Text: "STRONG PERFORMANCE: Solid average order value of " + amount},
			{Kind: Recommendation, Text: "OPPORTUNITY: Upselling could drive significant growth"},
		}
	case aov > g.thresholds.GrowthOrderValue:
		return []Insight{
			{Kind: Observation, Text: "GROWTH POTENTIAL: Average order value of " + amount + " leaves room to grow"},
			{Kind: Recommendation, Text: "TACTICS: Consider product bundling or cross-selling"},
		}
	}
	return nil
}

func (g *Generator) summary(r *database.QueryResult) []Insight {
	if !isSummaryShape(r) {
		return nil
	}
	count, _ := r.Float(0, ColTotalSales)
	revenue, _ := r.Float(0, ColTotalRevenue)
	aov, _ := r.Float(0, ColAvgOrderValue)
	customers, _ := r.Float(0, ColUniqueCustomers)

	out := []Insight{
		{Kind: Observation, Text: "TOTAL TRANSACTIONS: " + utils.FormatCount(count)},
		{Kind: Observation, Text: "TOTAL REVENUE: " + utils.FormatMoney(revenue)},
		{Kind: Observation, Text: "AVERAGE ORDER VALUE: " + utils.FormatMoney(aov)},
		{Kind: Observation, Text: "UNIQUE CUSTOMERS: " + utils.FormatCount(customers)},
	}
	return append(out, g.orderValueTier(aov)...)
}

// isSummaryShape matches the one-row count plus revenue-sum result.
func isSummaryShape(r *database.QueryResult) bool {
	return r.Len() == 1 && r.HasColumn(ColTotalSales) && r.HasColumn(ColTotalRevenue)
}

// shareOfFirst is row 0's percentage of the column total, 0 when the total
// is not positive.
func shareOfFirst(r *database.QueryResult, col string) float64 {
	total := r.Sum(col)
	if total <= 0 {
		return 0
	}
	top, _ := r.Float(0, col)
	return top / total * 100
}

func firstColumn(r *database.QueryResult, cols ...string) string {
	for _, c := range cols {
		if r.HasColumn(c) {
			return c
		}
	}
	return ""
}

func labelOf(r *database.QueryResult, cols ...string) string {
	if c := firstColumn(r, cols...); c != "" {
		return r.Text(0, c)
	}
	return ""
}
