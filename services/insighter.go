package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"datamilo/database"
	"datamilo/insights"
	"datamilo/logger"
	"datamilo/utils"
)

const summaryRowLimit = 5

var bulletRegexp = regexp.MustCompile(`^\s*(?:[-*•]|\d+[.)])\s*`)

// Insighter derives business insights from a result set.
type Insighter interface {
	Insights(ctx context.Context, result *database.QueryResult, question, sql string) []insights.Insight
}

// RuleInsighter applies the deterministic insight rules.
type RuleInsighter struct {
	rules *insights.Generator
}

func NewRuleInsighter(rules *insights.Generator) *RuleInsighter {
	return &RuleInsighter{rules: rules}
}

func (r *RuleInsighter) Insights(_ context.Context, result *database.QueryResult, question, _ string) []insights.Insight {
	return r.rules.Generate(result, question)
}

// ModelInsighter asks the model for insights and falls back to the rules
// when the model fails or says nothing.
type ModelInsighter struct {
	gen   Generator
	rules *insights.Generator
	opts  GenerationOptions
	log   logger.Logger
}

func NewModelInsighter(gen Generator, rules *insights.Generator, opts GenerationOptions, log logger.Logger) *ModelInsighter {
	return &ModelInsighter{gen: gen, rules: rules, opts: opts, log: log}
}

func (m *ModelInsighter) Insights(ctx context.Context, result *database.QueryResult, question, sql string) []insights.Insight {
	if result.IsEmpty() {
		return m.rules.Generate(result, question)
	}

	prompt := fmt.Sprintf(`You are a senior business analyst. Analyze this data and provide actionable insights.

Original Question: %q
SQL Query Used: %s
Data Results:
%s
Provide 3-5 specific business insights, one per line, in this format:
INSIGHT: [insight description]
RECOMMENDATION: [actionable recommendation]
RISK: [business risk or opportunity]

Focus on revenue concentration, product performance, customer behavior and operational recommendations.
Return plain lines without formatting.
`, question, sql, SummarizeResult(result))

	text, err := m.gen.Generate(ctx, prompt, m.opts)
	if err != nil {
		m.log.Warn("Insight generation failed, using analytical rules", map[string]interface{}{"error": err.Error()})
		return m.rules.Generate(result, question)
	}

	parsed := ParseInsights(text)
	if len(parsed) == 0 {
		m.log.Warn("Insight generation returned nothing, using analytical rules", nil)
		return m.rules.Generate(result, question)
	}
	return parsed
}

// SummarizeResult describes a result for a model prompt: size, columns,
// the leading rows and totals of money and count columns.
func SummarizeResult(result *database.QueryResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dataset: %d rows\n", result.Len())
	fmt.Fprintf(&b, "Columns: %s\n\n", strings.Join(result.Columns, ", "))

	b.WriteString("Top Results:\n")
	for i := 0; i < result.Len() && i < summaryRowLimit; i++ {
		parts := make([]string, len(result.Columns))
		for j, col := range result.Columns {
			parts[j] = fmt.Sprintf("%s: %s", col, result.Text(i, col))
		}
		fmt.Fprintf(&b, "- %s\n", strings.Join(parts, ", "))
	}

	var metrics []string
	for _, col := range result.Columns {
		lower := strings.ToLower(col)
		switch {
		case utils.IsMoneyColumn(col):
			metrics = append(metrics, fmt.Sprintf("- Total %s: %s", col, utils.FormatMoney(result.Sum(col))))
		case strings.Contains(lower, "quantity") || strings.Contains(lower, "count"):
			metrics = append(metrics, fmt.Sprintf("- Total %s: %s", col, utils.FormatCount(result.Sum(col))))
		}
	}
	if len(metrics) > 0 {
		b.WriteString("\nKey Metrics:\n")
		b.WriteString(strings.Join(metrics, "\n"))
		b.WriteString("\n")
	}
	return b.String()
}

// ParseInsights splits model output into insights, one per non-blank line.
// The line prefix selects the kind; unprefixed lines are observations.
func ParseInsights(text string) []insights.Insight {
	var out []insights.Insight
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(bulletRegexp.ReplaceAllString(line, ""))
		if line == "" {
			continue
		}
		upper := strings.ToUpper(line)
		kind := insights.Observation
		switch {
		case strings.HasPrefix(upper, "RECOMMENDATION"), strings.HasPrefix(upper, "ACTION"):
			kind = insights.Recommendation
		case strings.HasPrefix(upper, "RISK"), strings.HasPrefix(upper, "CRITICAL RISK"):
			kind = insights.Risk
		}
		out = append(out, insights.Insight{Kind: kind, Text: line})
	}
	return out
}
