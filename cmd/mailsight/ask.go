package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask \"<question>\"",
	Short: "Answer one question and exit",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadProfile()
		if err != nil {
			return err
		}
		st, err := openStore(cmd, p)
		if err != nil {
			return err
		}
		defer st.Close()

		result, err := newAssembler(p, st).Answer(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Answer)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
}
