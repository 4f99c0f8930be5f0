package cmd

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"
)

func NewAskCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Answer one business question",
		Long: `Answer one business question and print the SQL, the result table and the insights.

Example:
  datamilo ask "Who are my top customers?"
  datamilo ask --format json "complete dashboard"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(rootOpts.Format, FormatText, FormatJSON); err != nil {
				return err
			}

			a, err := newApp(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer a.Close()

			answer, err := a.assistant.Ask(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}

			if rootOpts.Format == FormatJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(answer)
			}
			return renderAnswer(cmd.OutOrStdout(), answer)
		},
	}
}
