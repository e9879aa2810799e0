package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/hangman-ai/internal/history"
	"github.com/robalobadob/hangman-ai/internal/httpserver"
	"github.com/robalobadob/hangman-ai/internal/store"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dict := loadDictionary()

			hist, err := history.Open(cfg.DBPath)
			if err != nil {
				log.Fatal().Err(err).Str("db", cfg.DBPath).Msg("failed to open database")
			}
			defer hist.Close()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := httpserver.New(cfg, dict, store.NewMemoryStore(), hist)
			log.Info().Str("port", cfg.Port).Int("words", dict.Len()).Msg("starting hangman server")
			if err := srv.Start(ctx, ":"+cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			log.Info().Msg("server stopped")
			return nil
		},
	}
}
