package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/robalobadob/wordlebot/internal/bot"
)

func newSuggestCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:     "suggest [GUESS:PATTERN...]",
		Short:   "Print the solver's next guess for a history",
		Example: "  wordlebot suggest crane:..=+. sloth:.+...",
		RunE: func(cmd *cobra.Command, args []string) error {
			history, err := e.parseHistory(args)
			if err != nil {
				return err
			}
			solver, err := bot.NewSolver(e.options(e.cfg.Game, 0))
			if err != nil {
				return err
			}
			guess, err := solver.Guess(cmd.Context(), history)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), guess)
			return nil
		},
	}
}
