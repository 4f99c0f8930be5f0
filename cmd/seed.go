package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"datamilo/database"
)

func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the star schema and load the sample data",
		Long: `Create the star schema (dim_users, dim_products, dim_date, fact_sales) in the
configured database and replace its contents with the sample data set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(rootOpts)
			if err != nil {
				return err
			}
			defer log.Sync()

			opts := cfg.Database
			opts.Seed = true
			store, err := database.Open(cmd.Context(), opts, log)
			if err != nil {
				return err
			}
			defer store.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %s: %d customers, %d products, %d dates, %d sales\n",
				opts.Driver, len(database.SampleUsers), len(database.SampleProducts),
				len(database.SampleDates), len(database.SampleSales))
			return nil
		},
	}
}
