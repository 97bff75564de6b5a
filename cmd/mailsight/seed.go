package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coralbricks/mailsight/server/seeder"
)

var (
	seedRows int
	seedSeed int64
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Reset the store and fill it with mock campaign data",
	RunE: func(cmd *cobra.Command, _ []string) error {
		p, err := loadProfile()
		if err != nil {
			return err
		}
		st, err := openStore(cmd, p)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := seeder.New(st, seedSeed).Seed(cmd.Context(), seedRows); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "seeded %d email events into %s\n", seedRows, p.DSN)
		return nil
	},
}

func init() {
	seedCmd.Flags().IntVar(&seedRows, "rows", 140, "number of email events to generate")
	seedCmd.Flags().Int64Var(&seedSeed, "seed", 42, "random seed for deterministic data")
	rootCmd.AddCommand(seedCmd)
}
