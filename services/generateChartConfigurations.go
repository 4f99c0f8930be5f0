package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"datamilo/database"
	"datamilo/logger"
	"datamilo/utils"
)

const chartRowLimit = 10

// Charter proposes a chart for a result set.
type Charter interface {
	Chart(ctx context.Context, result *database.QueryResult, question string) *utils.ChartConfiguration
}

// RuleCharter picks a chart from the result columns alone.
type RuleCharter struct{}

func (RuleCharter) Chart(_ context.Context, result *database.QueryResult, question string) *utils.ChartConfiguration {
	return SuggestChart(result, question)
}

// SuggestChart maps column shapes to a chart: category shares become a
// pie, spend or revenue per label a horizontal bar of the top rows, order
// counts a scatter against value. Anything else is shown as a table.
func SuggestChart(result *database.QueryResult, question string) *utils.ChartConfiguration {
	table := &utils.ChartConfiguration{ChartType: utils.ChartTable, Title: analysisTitle(question)}
	if result.IsEmpty() {
		return table
	}

	valueCol := firstPresent(result, "total_spent", "total_revenue", "revenue")
	labelCol := firstPresent(result, "name", "product_name", "customer", "category")

	switch {
	case result.HasColumn("category") && labelCol == "category" && valueCol != "" && valueCol != "total_spent":
		cfg := &utils.ChartConfiguration{
			ChartType: utils.ChartPie,
			XLabel:    "Category",
			YLabel:    columnLabel(valueCol),
			Title:     "Revenue by Product Category",
		}
		for i := range result.Rows {
			v, _ := result.Float(i, valueCol)
			cfg.Labels = append(cfg.Labels, result.Text(i, "category"))
			cfg.Values = append(cfg.Values, v)
		}
		return cfg

	case valueCol != "" && labelCol != "":
		cfg := &utils.ChartConfiguration{
			ChartType:  utils.ChartBar,
			Horizontal: true,
			XLabel:     columnLabel(valueCol),
			YLabel:     columnLabel(labelCol),
			Title:      analysisTitle(question),
		}
		for i := 0; i < result.Len() && i < chartRowLimit; i++ {
			v, _ := result.Float(i, valueCol)
			cfg.Labels = append(cfg.Labels, result.Text(i, labelCol))
			cfg.Values = append(cfg.Values, v)
		}
		return cfg

	case result.HasColumn("order_count"):
		yCol := valueCol
		if yCol == "" {
			yCol = firstNumeric(result, "order_count")
		}
		if yCol == "" {
			return table
		}
		cfg := &utils.ChartConfiguration{
			ChartType: utils.ChartScatter,
			XLabel:    "Number of Orders",
			YLabel:    columnLabel(yCol),
			Title:     "Orders vs " + columnLabel(yCol),
		}
		for i := range result.Rows {
			x, _ := result.Float(i, "order_count")
			y, _ := result.Float(i, yCol)
			if labelCol != "" {
				cfg.Labels = append(cfg.Labels, result.Text(i, labelCol))
			}
			cfg.Values = append(cfg.Values, map[string]interface{}{"x": x, "y": y})
		}
		return cfg
	}
	return table
}

func analysisTitle(question string) string {
	q := strings.TrimSpace(question)
	if q == "" {
		return "Analysis"
	}
	return "Analysis: " + utils.Title(q)
}

func columnLabel(col string) string {
	return utils.Title(strings.ReplaceAll(col, "_", " "))
}

func firstPresent(r *database.QueryResult, cols ...string) string {
	for _, c := range cols {
		if r.HasColumn(c) {
			return c
		}
	}
	return ""
}

func firstNumeric(r *database.QueryResult, except string) string {
	for _, c := range r.Columns {
		if c == except {
			continue
		}
		if _, ok := r.Float(0, c); ok {
			if _, isText := r.Rows[0][c].(string); !isText {
				return c
			}
		}
	}
	return ""
}

// ModelCharter asks the model for a chart configuration and falls back to
// SuggestChart when the answer is unusable.
type ModelCharter struct {
	gen  Generator
	opts GenerationOptions
	log  logger.Logger
}

func NewModelCharter(gen Generator, opts GenerationOptions, log logger.Logger) *ModelCharter {
	return &ModelCharter{gen: gen, opts: opts, log: log}
}

func (m *ModelCharter) Chart(ctx context.Context, result *database.QueryResult, question string) *utils.ChartConfiguration {
	if result.IsEmpty() {
		return SuggestChart(result, question)
	}
	cfg, err := m.generate(ctx, result, question)
	if err != nil {
		m.log.Warn("Chart generation failed, using column rules", map[string]interface{}{"error": err.Error()})
		return SuggestChart(result, question)
	}
	return cfg
}

func (m *ModelCharter) generate(ctx context.Context, result *database.QueryResult, question string) (*utils.ChartConfiguration, error) {
	rows := result.Rows
	if len(rows) > chartRowLimit {
		rows = rows[:chartRowLimit]
	}
	dataJSON, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal input data: %v", err)
	}

	fullPrompt := fmt.Sprintf(`
You are a data visualization expert. Given the following JSON data and user question, generate a chart configuration.

User Question: %s

Input Data (JSON): %s

Return a JSON configuration with these fields:
- chartType (bar/line/pie/scatter)
- xLabel (x-axis label)
- yLabel (y-axis label)
- labels (x-axis categories)
- values (y-axis numeric values)
- title (chart title)
- insights (optional explanation)

IMPORTANT: Return ONLY a valid JSON matching this structure.`, question, string(dataJSON))

	generatedText, err := m.gen.Generate(ctx, fullPrompt, m.opts)
	if err != nil {
		return nil, err
	}

	jsonStart := strings.Index(generatedText, "{")
	jsonEnd := strings.LastIndex(generatedText, "}")
	if jsonStart == -1 || jsonEnd < jsonStart {
		return nil, fmt.Errorf("%w: no JSON object in chart response", ErrValidationRejected)
	}

	var chartConfig utils.ChartConfiguration
	if err := json.Unmarshal([]byte(generatedText[jsonStart:jsonEnd+1]), &chartConfig); err != nil {
		return nil, fmt.Errorf("%w: failed to parse chart JSON: %v", ErrValidationRejected, err)
	}
	if chartConfig.ChartType == "" || chartConfig.XLabel == "" || chartConfig.YLabel == "" {
		return nil, fmt.Errorf("%w: chart configuration is missing required fields", ErrValidationRejected)
	}
	return &chartConfig, nil
}
