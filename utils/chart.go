package utils

const (
	ChartBar     = "bar"
	ChartScatter = "scatter"
	ChartPie     = "pie"
	ChartLine    = "line"
	ChartTable   = "table"
)

// ChartConfiguration is a display hint for one result set. Values holds
// numbers, or {"x","y"} points for scatter charts.
type ChartConfiguration struct {
	ChartType  string        `json:"chartType" yaml:"chart_type"`
	Horizontal bool          `json:"horizontal,omitempty" yaml:"horizontal,omitempty"`
	XLabel     string        `json:"xLabel" yaml:"x_label"`
	YLabel     string        `json:"yLabel" yaml:"y_label"`
	Labels     []interface{} `json:"labels" yaml:"labels"`
	Values     []interface{} `json:"values" yaml:"values"`
	Title      string        `json:"title" yaml:"title"`
	Insights   string        `json:"insights,omitempty" yaml:"insights,omitempty"`
}

// IsTable reports whether the hint is to show the raw rows only.
func (c *ChartConfiguration) IsTable() bool {
	return c == nil || c.ChartType == ChartTable || c.ChartType == ""
}
