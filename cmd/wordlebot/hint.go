package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/robalobadob/wordlebot/internal/constraint"
	"github.com/robalobadob/wordlebot/internal/feedback"
	"github.com/robalobadob/wordlebot/internal/words"
)

func newHintCmd(e *env) *cobra.Command {
	var (
		quick bool
		codes bool
	)
	cmd := &cobra.Command{
		Use:     "hint [GUESS:PATTERN...]",
		Short:   "Print what a history reveals about the secret",
		Example: "  wordlebot hint crane:..=+. sloth:.+...",
		RunE: func(cmd *cobra.Command, args []string) error {
			history, err := e.parseHistory(args)
			if err != nil {
				return err
			}
			p := &feedback.Provider{
				Alphabet:  e.symbols(),
				Length:    e.cfg.Game.Letters,
				Policy:    constraint.Perfect,
				Eliminate: !quick,
				MaxVisits: e.cfg.Bot.MaxVisits,
			}
			if e.lists != nil {
				p.Alphabet = words.Alphabet()
				if !codes {
					p.Vocabulary = e.lists.Answers(p.Length)
				}
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), e.cfg.Bot.HintTimeout)
			defer cancel()
			var last *feedback.Feedback
			for r, err := range p.Refinements(ctx, history) {
				if errors.Is(err, context.DeadlineExceeded) && last != nil {
					break
				}
				if err != nil {
					return err
				}
				last = r.Feedback
			}
			printFeedback(cmd, last)
			return nil
		},
	}
	cmd.Flags().BoolVar(&quick, "quick", false, "skip the search stage")
	cmd.Flags().BoolVar(&codes, "codes", false, "search every letter combination, not just answer words")
	return cmd
}

func printFeedback(cmd *cobra.Command, f *feedback.Feedback) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, f.String())
	if s, ok := f.Solved(); ok {
		fmt.Fprintf(out, "solved: %s\n", s)
		return
	}
	var absent []rune
	for _, cf := range f.Characters() {
		switch {
		case cf.Max == 0:
			absent = append(absent, cf.Char)
		case cf.Min > 0:
			fmt.Fprintf(out, "%c: %d..%d at %v\n", cf.Char, cf.Min, cf.Max, cf.Positions)
		}
	}
	fmt.Fprintf(out, "absent: %s\n", string(absent))
}
