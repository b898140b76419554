// internal/httpserver/history.go
//
// SQLite history of finished games: one row per game, written once when it
// ends, listed by GET /games/recent.
package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordlebot/internal/game"
	"github.com/robalobadob/wordlebot/internal/store"
)

func (s *Server) mountHistory(r chi.Router) {
	r.Get("/games/recent", s.handleRecent)
}

// recordGame inserts the finished game.
func (s *Server) recordGame(ctx context.Context, sess *store.Session, secret string) error {
	g := sess.Game
	var guesses []string
	for _, c := range g.Constraints() {
		guesses = append(guesses, c.Candidate())
	}
	encoded, err := json.Marshal(guesses)
	if err != nil {
		return err
	}
	settings := g.Settings()
	var dailyKey any
	if sess.DailyKey != "" {
		dailyKey = sess.DailyKey
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO games
		 (id, letters, rounds, policy, keeper, seed, secret, guesses, won, attempts, daily_key, finished_at)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		sess.ID().String(), settings.Letters, settings.Rounds, settings.Policy.String(), string(sess.Kind),
		sess.Seed, secret, string(encoded), g.State() == game.Won, len(guesses), dailyKey,
		s.now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert game: %w", err)
	}
	return nil
}

// gameRow is one entry of GET /games/recent.
type gameRow struct {
	ID         string   `json:"id"`
	Letters    int      `json:"letters"`
	Policy     string   `json:"policy"`
	Keeper     string   `json:"keeper"`
	Seed       int64    `json:"seed"`
	Secret     string   `json:"secret"`
	Guesses    []string `json:"guesses"`
	Won        bool     `json:"won"`
	Daily      string   `json:"daily,omitempty"`
	FinishedAt string   `json:"finishedAt"`
}

func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		writeError(w, http.StatusServiceUnavailable, "no_database", "")
		return
	}
	rows, err := s.db.QueryContext(r.Context(),
		`SELECT id, letters, policy, keeper, seed, secret, guesses, won, COALESCE(daily_key,''), finished_at
		 FROM games ORDER BY finished_at DESC LIMIT ?`, queryLimit(r, 20, 200))
	if err != nil {
		log.Error().Err(err).Msg("recent games")
		writeError(w, http.StatusInternalServerError, "db_error", "")
		return
	}
	defer rows.Close()

	out := []gameRow{}
	for rows.Next() {
		var (
			gr      gameRow
			guesses string
		)
		if err := rows.Scan(&gr.ID, &gr.Letters, &gr.Policy, &gr.Keeper, &gr.Seed, &gr.Secret,
			&guesses, &gr.Won, &gr.Daily, &gr.FinishedAt); err != nil {
			log.Warn().Err(err).Msg("scan game row")
			continue
		}
		if err := json.Unmarshal([]byte(guesses), &gr.Guesses); err != nil {
			log.Warn().Err(err).Str("gameId", gr.ID).Msg("decode guesses")
		}
		out = append(out, gr)
	}
	if err := rows.Err(); err != nil {
		log.Error().Err(err).Msg("recent games")
		writeError(w, http.StatusInternalServerError, "db_error", "")
		return
	}
	writeJSON(w, http.StatusOK, out)
}
