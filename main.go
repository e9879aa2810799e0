// main.go
//
// hangman: an AI that plays hangman against your words.
//
// Commands:
//   play   interactive console game (the AI guesses, you watch)
//   solve  play a single word non-interactively
//   serve  HTTP API (rounds, accounts, word of the day)
//
// Configuration comes from the environment / .env (see internal/config).
package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/hangman-ai/internal/config"
	"github.com/robalobadob/hangman-ai/internal/words"
)

var cfg config.Config

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatal().Err(err).Msg("hangman exited")
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "hangman",
		Short:         "An AI that guesses your hangman words",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg = config.Load()
			zerolog.SetGlobalLevel(cfg.LogLevel)
		},
	}
	root.AddCommand(newPlayCmd(), newSolveCmd(), newServeCmd())
	return root
}

// consoleLogger sends human-readable logs to stderr so stdout stays the game.
func consoleLogger() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}

// loadDictionary loads the configured word list; failure is fatal for every command.
func loadDictionary() words.Dictionary {
	dict, err := words.Load(cfg.WordsFile)
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.WordsFile).Msg("failed to load word list")
	}
	log.Debug().Int("words", dict.Len()).Msg("dictionary loaded")
	return dict
}
