package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/xtding233/gacha-odds/internal/odds"
)

func newDiceCmd(opts *rootOptions) *cobra.Command {
	var given string
	cmd := &cobra.Command{
		Use:   "dice <roll>",
		Short: "Distribution of a dice roll total",
		Example: `  odds dice 2d6
  odds dice 3d6+2 --given "x >= 15"
  odds dice 1d20 --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := &odds.Service{}
			rep, err := svc.Dice(args[0], given)
			if err != nil {
				return err
			}
			slog.Debug("computed roll", "roll", rep.Roll, "outcomes", len(rep.PMF))

			out := cmd.OutOrStdout()
			if opts.format == "json" {
				return writeJSON(out, rep)
			}
			fmt.Fprintf(out, "roll: %s\n", rep.Roll)
			if rep.Given != "" {
				fmt.Fprintf(out, "given: %s (p=%.6f)\n", rep.Given, rep.PGiven)
			}
			fmt.Fprintf(out, "mean: %.6f  var: %.6f\n\n", rep.Expectation, rep.Variance)
			return writeTable(out, rep.PMF)
		},
	}
	cmd.Flags().StringVarP(&given, "given", "g", "", "condition on an event over the total x, e.g. \"x % 2 == 0\"")
	return cmd
}
