package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChartConfigToChartJS_Bar(t *testing.T) {
	cfg := &ChartConfiguration{
		ChartType:  ChartBar,
		Horizontal: true,
		XLabel:     "Total Spent",
		YLabel:     "Name",
		Labels:     []interface{}{"Ervin Howell", "Leanne Graham"},
		Values:     []interface{}{2999.89, 19.99},
		Title:      "Top Customers",
	}

	data, options := ParseChartConfigToChartJS(cfg)
	require.NotNil(t, data)
	assert.Equal(t, "bar", data["type"])
	assert.Equal(t, cfg.Labels, data["labels"])
	datasets := data["datasets"].([]map[string]interface{})
	require.Len(t, datasets, 1)
	assert.Equal(t, cfg.Values, datasets[0]["data"])

	assert.Equal(t, "y", options["indexAxis"])
	assert.Contains(t, options, "scales")
}

func TestParseChartConfigToChartJS_Pie(t *testing.T) {
	cfg := &ChartConfiguration{
		ChartType: ChartPie,
		Labels:    []interface{}{"Electronics", "Furniture", "Kitchen"},
		Values:    []interface{}{2769.94, 229.95, 32.98},
	}

	data, options := ParseChartConfigToChartJS(cfg)
	datasets := data["datasets"].([]map[string]interface{})
	assert.Len(t, datasets[0]["backgroundColor"], 3)
	assert.NotContains(t, options, "scales")
	assert.NotContains(t, options, "indexAxis")
}

func TestParseChartConfigToChartJS_Scatter(t *testing.T) {
	cfg := &ChartConfiguration{
		ChartType: ChartScatter,
		Values:    []interface{}{map[string]interface{}{"x": 4, "y": 2999.89}},
	}

	data, _ := ParseChartConfigToChartJS(cfg)
	assert.NotContains(t, data, "labels")
}

func TestParseChartConfigToChartJS_Table(t *testing.T) {
	data, options := ParseChartConfigToChartJS(&ChartConfiguration{ChartType: ChartTable})
	assert.Nil(t, data)
	assert.Nil(t, options)

	data, options = ParseChartConfigToChartJS(nil)
	assert.Nil(t, data)
	assert.Nil(t, options)
}
