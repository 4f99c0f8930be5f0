package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"datamilo/classifier"
)

func NewTemplatesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List the query templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(rootOpts.Format, FormatText, FormatJSON, FormatYAML); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			templates := classifier.Templates()

			switch rootOpts.Format {
			case FormatJSON:
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(templates)
			case FormatYAML:
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				defer enc.Close()
				return enc.Encode(templates)
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tCATEGORY\tDESCRIPTION")
			for _, t := range templates {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", t.Name, t.Category, t.Description)
			}
			return tw.Flush()
		},
	}
}
