package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/xtding233/gacha-odds/internal/gacha"
	"github.com/xtding233/gacha-odds/internal/game"
	"github.com/xtding233/gacha-odds/internal/odds"
)

type pullOptions struct {
	configDir string
	game      string
	pool      string
	goal      string
	draws     int
	cushion   int
	maxStates int
	budget    int
	firstTime []string
}

func newPullCmd(opts *rootOptions) *cobra.Command {
	po := &pullOptions{}
	cmd := &cobra.Command{
		Use:   "pull",
		Short: "Distribution of draws for a game pool",
		Long: `pull reads the layered game config (default, game, pool) and prints the
exact distribution for the chosen goal: draws until the first hit, draws until
the first featured hit, or featured hits within a fixed number of draws.`,
		Example: `  odds pull --game genshin --pool character
  odds pull --game genshin --goal first_hit --cushion 40
  odds pull --game genshin --goal fixed_budget --draws 180`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc := &odds.Service{Resolver: game.NewLoader(po.configDir), MaxStates: po.maxStates}
			req := odds.PullRequest{
				Game:        po.game,
				Pool:        po.pool,
				Goal:        gacha.TrialGoal(po.goal),
				Draws:       po.draws,
				BudgetCents: po.budget,
				FirstTime:   po.firstTime,
			}
			if cmd.Flags().Changed("cushion") {
				req.Overrides.Cushion = &po.cushion
			}
			rep, err := svc.Pull(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("pull %s: %w", po.game, err)
			}
			slog.Debug("computed pull odds", "game", rep.Game, "pool", rep.Pool, "support", rep.Stats.Support)

			out := cmd.OutOrStdout()
			if opts.format == "json" {
				return writeJSON(out, rep)
			}
			fmt.Fprintf(out, "game: %s", rep.Game)
			if rep.Pool != "" {
				fmt.Fprintf(out, "/%s", rep.Pool)
			}
			if rep.Version != "" {
				fmt.Fprintf(out, " (version %s)", rep.Version)
			}
			fmt.Fprintf(out, "\ngoal: %s\n", rep.Goal)
			s := rep.Stats
			fmt.Fprintf(out, "mean: %.4f  stddev: %.4f  p50: %g  p90: %g  p99: %g\n", s.Mean, s.StdDev, s.P50, s.P90, s.P99)
			if rep.ExpectedTokens > 0 {
				fmt.Fprintf(out, "expected %s: %.2f\n", rep.Token, rep.ExpectedTokens)
			}
			if rep.Currency != "" {
				fmt.Fprintf(out, "expected spend: %.2f %s\n", rep.ExpectedCents/100, rep.Currency)
			}
			if b := rep.Budget; b != nil {
				fmt.Fprintf(out, "budget %.2f %s buys %d draws: p=%.4f\n", float64(b.Cents)/100, rep.Currency, b.Draws, b.PWithin)
			}
			fmt.Fprintln(out)
			return writeTable(out, rep.PMF)
		},
	}
	f := cmd.Flags()
	f.StringVar(&po.configDir, "config", "config", "config directory holding games/")
	f.StringVar(&po.game, "game", "", "game name")
	f.StringVar(&po.pool, "pool", "", "pool name")
	f.StringVar(&po.goal, "goal", string(gacha.GoalFirstUP), "first_hit, first_up or fixed_budget")
	f.IntVar(&po.draws, "draws", 0, "draw budget for fixed_budget")
	f.IntVar(&po.cushion, "cushion", 0, "draws already made since the last hit")
	f.IntVar(&po.budget, "budget-cents", 0, "money budget in minor units; reports the chance it is enough")
	f.StringSliceVar(&po.firstTime, "first-time", nil, "pack ids whose first-time bonus is unused")
	f.IntVar(&po.maxStates, "max-states", gacha.DefaultMaxStates, "cap on live model states")
	_ = cmd.MarkFlagRequired("game")
	return cmd
}
