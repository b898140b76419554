// main.go
//
// wordlebot HTTP server.
//
// Startup:
//  1. Load .env (if present) and the YAML file named by WORDLEBOT_CONFIG.
//  2. Set the global log level.
//  3. Load word lists, open and migrate the database.
//  4. Serve the API; idle sessions are swept every few minutes.
//
// DB_PATH=off runs without a database.
package main

import (
	"database/sql"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordlebot/assets"
	"github.com/robalobadob/wordlebot/internal/config"
	"github.com/robalobadob/wordlebot/internal/httpserver"
	"github.com/robalobadob/wordlebot/internal/store"
	"github.com/robalobadob/wordlebot/internal/words"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load(os.Getenv("WORDLEBOT_CONFIG"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if cfg.SessionSecret == config.Default().SessionSecret {
		log.Warn().Msg("SESSION_SECRET is the development default")
	}

	lists, err := words.Load(cfg.Words.AnswersFile, cfg.Words.AllowedFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load word lists")
	}
	a, g := lists.Stats()
	log.Info().Int("answers", a).Int("allowed", g).Msg("word lists loaded")

	var db *sql.DB
	if cfg.DBPath != "off" {
		db, err = openDB(cfg.DBPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("failed to open database")
		}
		defer db.Close()
		if err := migrate(db, assets.Migrations()); err != nil {
			log.Fatal().Err(err).Msg("failed to migrate database")
		}
	}

	mem := store.NewMemoryStore()
	go func() {
		for range time.Tick(5 * time.Minute) {
			if n := mem.Sweep(cfg.SessionTTL); n > 0 {
				log.Debug().Int("sessions", n).Msg("swept idle sessions")
			}
		}
	}()

	srv := httpserver.New(cfg, lists, mem, db)
	log.Info().Str("port", cfg.Port).Msg("starting wordlebot")
	if err := srv.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
