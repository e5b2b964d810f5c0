package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/hangman/assets"
	"github.com/robalobadob/hangman/internal/config"
	"github.com/robalobadob/hangman/internal/console"
	"github.com/robalobadob/hangman/internal/game"
	"github.com/robalobadob/hangman/internal/httpserver"
	"github.com/robalobadob/hangman/internal/storage"
	"github.com/robalobadob/hangman/internal/store"
	"github.com/robalobadob/hangman/internal/words"
)

// Usage:
//
//	hangman           serve the HTTP API
//	hangman play [c]  play in the terminal, optionally in category c
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	rng := game.NewRand(cfg.RNGSeed)
	lists, err := loadWords(cfg.WordsDir, rng)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load word lists")
	}

	if len(os.Args) > 1 && os.Args[1] == "play" {
		play(cfg, lists, rng)
		return
	}
	serve(cfg, lists, rng)
}

func loadWords(dir string, rng game.Rand) (*words.Lists, error) {
	if dir == "" {
		return words.Embedded(rng)
	}
	return words.LoadDir(dir, rng)
}

func play(cfg config.Config, lists *words.Lists, rng game.Rand) {
	// game text owns stdout; diagnostics go to stderr
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opt := console.Options{Lives: cfg.StartingLives, Rand: rng}
	if len(os.Args) > 2 {
		opt.Category = os.Args[2]
	}
	if err := console.Play(ctx, os.Stdin, os.Stdout, lists, opt); err != nil && ctx.Err() == nil {
		log.Error().Err(err).Msg("game ended")
		os.Exit(1)
	}
}

func serve(cfg config.Config, lists *words.Lists, rng game.Rand) {
	db, err := storage.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer db.Close()
	if err := db.Migrate(assets.Migrations()); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	mem := store.NewMemoryStore(cfg.RoundTTL)
	srv := httpserver.New(cfg, mem, db, lists, rng)
	log.Info().Str("port", cfg.Port).Strs("categories", lists.Categories()).Msg("starting hangman server")
	if err := srv.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
