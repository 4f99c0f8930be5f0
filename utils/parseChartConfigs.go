package utils

var piePalette = []string{
	"rgba(59, 130, 246, 0.6)",
	"rgba(16, 185, 129, 0.6)",
	"rgba(245, 158, 11, 0.6)",
	"rgba(239, 68, 68, 0.6)",
	"rgba(139, 92, 246, 0.6)",
	"rgba(236, 72, 153, 0.6)",
}

// ParseChartConfigToChartJS shapes a chart hint into Chart.js data and
// options objects. Table hints have no chart and yield nil, nil.
func ParseChartConfigToChartJS(chartConfig *ChartConfiguration) (map[string]interface{}, map[string]interface{}) {
	if chartConfig.IsTable() {
		return nil, nil
	}

	dataset := map[string]interface{}{
		"label": chartConfig.YLabel,
		"data":  chartConfig.Values,
	}
	if chartConfig.ChartType == ChartPie {
		colors := make([]string, len(chartConfig.Values))
		for i := range colors {
			colors[i] = piePalette[i%len(piePalette)]
		}
		dataset["backgroundColor"] = colors
	} else {
		dataset["backgroundColor"] = "rgba(59, 130, 246, 0.5)"
	}

	chartJSConfig := map[string]interface{}{
		"type":     chartConfig.ChartType,
		"datasets": []map[string]interface{}{dataset},
	}
	if chartConfig.ChartType != ChartScatter {
		chartJSConfig["labels"] = chartConfig.Labels
	}

	options := map[string]interface{}{
		"responsive": true,
		"plugins": map[string]interface{}{
			"title": map[string]interface{}{
				"display": true,
				"text":    chartConfig.Title,
			},
		},
	}
	if chartConfig.Horizontal {
		options["indexAxis"] = "y"
	}
	if chartConfig.ChartType != ChartPie {
		options["scales"] = map[string]interface{}{
			"x": map[string]interface{}{
				"title": map[string]interface{}{
					"display": true,
					"text":    chartConfig.XLabel,
				},
			},
			"y": map[string]interface{}{
				"title": map[string]interface{}{
					"display": true,
					"text":    chartConfig.YLabel,
				},
			},
		}
	}

	return chartJSConfig, options
}
