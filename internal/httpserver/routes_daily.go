// internal/httpserver/routes_daily.go
//
// HTTP routes for the daily puzzle:
//   - GET /daily             → today's date key, seed and whether the caller played
//   - GET /daily/leaderboard → top results for today (or ?date=YYYY-MM-DD)
//
// Daily games themselves are started with POST /game/new {"daily": true};
// each player records one result per day, written when the game ends.
package httpserver

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordlebot/internal/daily"
)

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	r.Route("/daily", func(r chi.Router) {
		r.Get("/", s.handleDaily)
		r.Get("/leaderboard", s.handleLeaderboard)
	})
}

// dailyRes is returned by GET /daily.
type dailyRes struct {
	Date   string `json:"date"`
	Seed   int64  `json:"seed"`
	Played bool   `json:"played"`
}

func (s *Server) handleDaily(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	res := dailyRes{Date: daily.DateKey(now), Seed: daily.Seed(now, s.cfg.DailySalt)}
	if s.daily != nil {
		player := s.ensurePlayerID(w, r)
		played, err := s.daily.AlreadyPlayed(r.Context(), player, res.Date)
		if err != nil {
			log.Warn().Err(err).Msg("daily lookup")
		}
		res.Played = played
	}
	writeJSON(w, http.StatusOK, res)
}

// lbRes is returned by GET /daily/leaderboard.
type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if s.daily == nil {
		writeError(w, http.StatusServiceUnavailable, "no_database", "")
		return
	}
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(s.now())
	}
	rows, err := s.daily.Leaderboard(r.Context(), date, queryLimit(r, 20, 100))
	if err != nil {
		log.Error().Err(err).Msg("leaderboard")
		writeError(w, http.StatusInternalServerError, "db_error", "")
		return
	}
	writeJSON(w, http.StatusOK, lbRes{Date: date, Top: rows})
}

// queryLimit reads ?limit=, falling back to def and capping at most.
func queryLimit(r *http.Request, def, most int) int {
	n, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || n <= 0 {
		return def
	}
	return min(n, most)
}
