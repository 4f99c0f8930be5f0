package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"datamilo/services"
	"datamilo/utils"
)

// renderAnswer prints an answer as plain text: a header, then per section
// the SQL, an aligned result table and the insight list.
func renderAnswer(w io.Writer, answer *services.Answer) error {
	fmt.Fprintf(w, "Question: %s\n", answer.Question)
	fmt.Fprintf(w, "Template: %s (%s)\n", answer.Template, answer.Source)
	if answer.FallbackReason != "" {
		fmt.Fprintf(w, "Fallback: %s\n", answer.FallbackReason)
	}

	sections := answer.Sections
	if !answer.Comprehensive() {
		sections = []services.Section{answer.Section}
	}
	for _, s := range sections {
		if answer.Comprehensive() {
			fmt.Fprintf(w, "\n== %s ==\n", utils.Title(s.Category))
		}
		if err := renderSection(w, s); err != nil {
			return err
		}
	}
	return nil
}

func renderSection(w io.Writer, s services.Section) error {
	fmt.Fprintf(w, "\nSQL:\n%s\n\n", s.SQL)

	if s.Result.IsEmpty() {
		fmt.Fprintln(w, "(no rows)")
	} else {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, strings.Join(s.Result.Columns, "\t"))
		for _, row := range s.Result.Rows {
			cells := make([]string, len(s.Result.Columns))
			for i, col := range s.Result.Columns {
				cells[i] = utils.FormatCell(col, row[col])
			}
			fmt.Fprintln(tw, strings.Join(cells, "\t"))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	fmt.Fprintln(w, "\nInsights:")
	for _, ins := range s.Insights {
		fmt.Fprintf(w, "  - %s\n", ins.Text)
	}
	if s.Chart != nil && !s.Chart.IsTable() {
		fmt.Fprintf(w, "\nSuggested chart: %s (%s)\n", s.Chart.ChartType, s.Chart.Title)
	}
	return nil
}
