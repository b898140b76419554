package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/wordlebot/internal/bot"
	"github.com/robalobadob/wordlebot/internal/config"
	"github.com/robalobadob/wordlebot/internal/constraint"
	"github.com/robalobadob/wordlebot/internal/game"
	"github.com/robalobadob/wordlebot/internal/validator"
	"github.com/robalobadob/wordlebot/internal/words"
)

// env holds what every subcommand shares after PersistentPreRunE.
type env struct {
	configPath string
	logLevel   string
	alphabet   string
	letters    int
	policy     string

	cfg   config.Config
	lists *words.Lists
}

func newRootCmd() *cobra.Command {
	e := &env{}
	root := &cobra.Command{
		Use:           "wordlebot",
		Short:         "Play, solve and inspect Wordle-style games from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return e.setup(cmd)
		},
	}
	f := root.PersistentFlags()
	f.StringVar(&e.configPath, "config", os.Getenv("WORDLEBOT_CONFIG"), "YAML config file")
	f.StringVar(&e.logLevel, "log-level", "", "log level (overrides config)")
	f.StringVar(&e.alphabet, "alphabet", "", "play codes over these characters instead of the word lists")
	f.IntVar(&e.letters, "letters", 0, "code length (default from config)")
	f.StringVar(&e.policy, "policy", "", "hard-mode policy (default from config)")

	root.AddCommand(newSimulateCmd(e), newSuggestCmd(e), newHintCmd(e))
	return root
}

func (e *env) setup(cmd *cobra.Command) error {
	_ = godotenv.Load()
	cfg, err := config.Load(e.configPath)
	if err != nil {
		return err
	}
	if e.letters > 0 {
		cfg.Game.Letters = e.letters
	}
	if e.policy != "" {
		p, err := constraint.ParsePolicy(e.policy)
		if err != nil {
			return err
		}
		cfg.Game.Policy = p
	}
	if e.logLevel != "" {
		cfg.LogLevel = e.logLevel
	}
	lvl, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("log level %q: %w", cfg.LogLevel, err)
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()})
	e.cfg = cfg

	if e.alphabet == "" {
		lists, err := words.Load(cfg.Words.AnswersFile, cfg.Words.AllowedFile)
		if err != nil {
			return err
		}
		e.lists = lists
	}
	return nil
}

func (e *env) symbols() []rune { return []rune(e.alphabet) }

// options describes settings to the bots, from the word lists or the
// alphabet.
func (e *env) options(settings game.Settings, seed int64) bot.Options {
	o := bot.Options{
		Settings: settings,
		Scorer:   e.cfg.Bot.Scorer,
		Workers:  e.cfg.Bot.Workers,
		Seed:     seed,
	}
	if e.lists != nil {
		o.Guesses = e.lists.Allowed(settings.Letters)
		o.Solutions = e.lists.Answers(settings.Letters)
		o.Weight = e.lists.Weight
	} else {
		o.Alphabet = e.symbols()
	}
	return o
}

func (e *env) validator(n int) validator.Validator {
	if e.lists != nil {
		return e.lists.Validator(n)
	}
	return validator.All(validator.Length(n), validator.Alphabet(e.symbols()))
}

// parseHistory reads GUESS:PATTERN arguments. Word-list games are lower
// case; alphabet games keep the case given.
func (e *env) parseHistory(args []string) ([]constraint.Constraint, error) {
	out := make([]constraint.Constraint, 0, len(args))
	for _, a := range args {
		guess, pattern, ok := strings.Cut(a, ":")
		if !ok {
			return nil, fmt.Errorf("history %q: want GUESS:PATTERN", a)
		}
		if e.lists != nil {
			guess = strings.ToLower(guess)
		}
		c, err := constraint.Parse(guess, pattern)
		if err != nil {
			return nil, fmt.Errorf("history %q: %w", a, err)
		}
		if c.Len() != e.cfg.Game.Letters {
			return nil, fmt.Errorf("history %q: want %d letters", a, e.cfg.Game.Letters)
		}
		out = append(out, c)
	}
	return out, nil
}
