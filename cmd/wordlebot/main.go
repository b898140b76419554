// cmd/wordlebot/main.go
//
// Command-line front end for the bots.
//
// Subcommands:
//   - simulate: bot-vs-bot games, with a summary.
//   - suggest:  the solver's next guess for a history.
//   - hint:     what a history reveals about the secret.
//
// History arguments are GUESS:PATTERN pairs, e.g. crane:..=+. where '='
// is exact, '+' included and '.' absent (G/Y/- also accepted).
package main

import (
	"os"

	"github.com/rs/zerolog/log"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("wordlebot failed")
		os.Exit(1)
	}
}
