package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/wordlebot/internal/bot"
	"github.com/robalobadob/wordlebot/internal/game"
)

type simulateFlags struct {
	games    int
	seed     int64
	keeper   string
	rounds   int
	parallel int
}

func newSimulateCmd(e *env) *cobra.Command {
	sf := &simulateFlags{}
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Play solver against keeper and report the outcome",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSimulate(cmd, e, sf)
		},
	}
	f := cmd.Flags()
	f.IntVar(&sf.games, "games", 1, "number of games")
	f.Int64Var(&sf.seed, "seed", 1, "seed of the first game; game i uses seed+i")
	f.StringVar(&sf.keeper, "keeper", "", "honest or flexible (default from config)")
	f.IntVar(&sf.rounds, "rounds", 0, "round limit (0 for none)")
	f.IntVar(&sf.parallel, "parallel", 1, "games played at once")
	return cmd
}

type simResult struct {
	seed int64
	res  bot.Result
}

func runSimulate(cmd *cobra.Command, e *env, sf *simulateFlags) error {
	if sf.games < 1 {
		return fmt.Errorf("--games must be positive")
	}
	kind := sf.keeper
	if kind == "" {
		kind = e.cfg.Bot.Keeper
	}
	settings := e.cfg.Game
	settings.Rounds = sf.rounds
	if settings.Rounds <= 0 {
		settings.Rounds = game.Unlimited
	}

	results := make([]simResult, sf.games)
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(max(sf.parallel, 1))
	for i := range sf.games {
		seed := sf.seed + int64(i)
		g.Go(func() error {
			res, err := playOne(ctx, e, settings, kind, seed)
			if err != nil {
				return fmt.Errorf("seed %d: %w", seed, err)
			}
			results[i] = simResult{seed: seed, res: res}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	var won, total, worst int
	for _, r := range results {
		fmt.Fprintf(out, "seed=%d %s in %d: %s\n", r.seed, r.res.State, r.res.Rounds(), strings.Join(pairs(r.res), " "))
		total += r.res.Rounds()
		worst = max(worst, r.res.Rounds())
		if r.res.State == game.Won {
			won++
		}
	}
	fmt.Fprintf(out, "games=%d won=%d mean=%.3f worst=%d\n", len(results), won, float64(total)/float64(len(results)), worst)
	log.Info().Int("games", len(results)).Int("won", won).Str("keeper", kind).Msg("simulation done")
	return nil
}

func playOne(ctx context.Context, e *env, settings game.Settings, kind string, seed int64) (bot.Result, error) {
	o := e.options(settings, seed)
	solver, err := bot.NewSolver(o)
	if err != nil {
		return bot.Result{}, err
	}
	keeper, err := bot.NewKeeper(kind, o)
	if err != nil {
		return bot.Result{}, err
	}
	gm, err := game.New(settings, e.validator(settings.Letters))
	if err != nil {
		return bot.Result{}, err
	}
	return bot.Play(ctx, gm, solver, keeper)
}

func pairs(r bot.Result) []string {
	out := make([]string, len(r.Guesses))
	for i := range r.Guesses {
		out[i] = r.Guesses[i] + ":" + r.Patterns[i]
	}
	return out
}
