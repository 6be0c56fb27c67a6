package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/xtding233/gacha-odds/internal/odds"
)

type rootOptions struct {
	verbose bool
	format  string
}

// newRootCmd builds the odds command tree.
func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "odds",
		Short: "Exact odds for dice rolls and pity-based pulls",
		Long: `odds computes exact discrete distributions: totals of dice rolls,
optionally conditioned on an event, and draw counts under hard and soft pity
from the same game configs the server reads.`,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			setupLogging(opts.verbose)
			switch opts.format {
			case "table", "json":
				return nil
			}
			return fmt.Errorf("unknown format %q (want table or json)", opts.format)
		},
		SilenceUsage: true,
	}
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose output")
	cmd.PersistentFlags().StringVarP(&opts.format, "format", "f", "table", "output format: table, json")

	cmd.AddCommand(newDiceCmd(opts), newPullCmd(opts))
	return cmd
}

func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeTable prints one row per outcome with its mass and running total.
func writeTable(out io.Writer, rows []odds.Mass) error {
	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	if _, err := fmt.Fprintln(w, "OUTCOME\tP\tCUM"); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(w, "%d\t%.6f\t%.6f\n", r.Outcome, r.P, r.Cum); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush writer: %w", err)
	}
	return nil
}
