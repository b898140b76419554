// internal/httpserver/routes_game.go
//
// Game endpoints:
//   - POST /game/new          → start a game against an honest or flexible keeper
//   - POST /game/guess        → submit a guess; the keeper answers at once
//   - POST /game/resume       → rebuild a game from its session token
//   - GET  /game/{id}         → current state
//   - GET  /game/{id}/hint    → sound feedback derived from the history
//   - GET  /game/{id}/suggest → the solver's next guess
//
// Every successful response carries a fresh session token. Game rejections
// map to 400 (bad guess) or 409 (wrong state) with a typed error code.
package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordlebot/internal/bot"
	"github.com/robalobadob/wordlebot/internal/bot/generation"
	"github.com/robalobadob/wordlebot/internal/constraint"
	"github.com/robalobadob/wordlebot/internal/daily"
	"github.com/robalobadob/wordlebot/internal/feedback"
	"github.com/robalobadob/wordlebot/internal/game"
	"github.com/robalobadob/wordlebot/internal/store"
	"github.com/robalobadob/wordlebot/internal/words"
)

var errNoWords = errors.New("no answers of that length")

func (s *Server) mountGame(r chi.Router) {
	r.Route("/game", func(r chi.Router) {
		r.Post("/new", s.handleNewGame)
		r.Post("/guess", s.handleGuess)
		r.Post("/resume", s.handleResume)
		r.Get("/{id}", s.handleGetGame)
		r.Get("/{id}/hint", s.handleHint)
		r.Get("/{id}/suggest", s.handleSuggest)
	})
}

// ------------------------------ payloads -----------------------------------

// newGameReq is the body of POST /game/new. Omitted fields take the
// configured defaults; rounds below zero mean unlimited.
type newGameReq struct {
	Letters *int               `json:"letters"`
	Rounds  *int               `json:"rounds"`
	Policy  *constraint.Policy `json:"policy"`
	Keeper  store.Keeper       `json:"keeper"`
	Seed    *int64             `json:"seed"`
	Daily   bool               `json:"daily"`
}

type guessReq struct {
	GameID string `json:"gameId"`
	Guess  string `json:"guess"`
}

type resumeReq struct {
	Token string `json:"token"`
}

// roundView is one evaluated guess.
type roundView struct {
	Guess    string              `json:"guess"`
	Pattern  string              `json:"pattern"`
	Markup   []constraint.Markup `json:"markup"`
	Exact    int                 `json:"exact"`
	Included int                 `json:"included"`
}

func newRoundView(c constraint.Constraint) roundView {
	return roundView{
		Guess:    c.Candidate(),
		Pattern:  c.Pattern(),
		Markup:   c.Markup(),
		Exact:    c.Exact(),
		Included: c.Included(),
	}
}

// gameView is the state of a session as seen by the player.
type gameView struct {
	GameID          string        `json:"gameId"`
	Settings        game.Settings `json:"settings"`
	Keeper          store.Keeper  `json:"keeper"`
	Seed            int64         `json:"seed"`
	Daily           string        `json:"daily,omitempty"`
	State           game.State    `json:"state"`
	Round           int           `json:"round"`
	RoundsRemaining int           `json:"roundsRemaining"`
	Rounds          []roundView   `json:"rounds"`
	Answer          string        `json:"answer,omitempty"`
	Token           string        `json:"token"`
	ExpiresAt       time.Time     `json:"expiresAt"`
}

type guessRes struct {
	Last roundView `json:"last"`
	gameView
}

type hintRes struct {
	Pattern string                       `json:"pattern"`
	Solved  string                       `json:"solved,omitempty"`
	Present []feedback.CharacterFeedback `json:"present"`
	Absent  string                       `json:"absent"`
	Done    bool                         `json:"done"`
}

// ------------------------------ sessions -----------------------------------

// botOptions describes a session's game to the bots.
func (s *Server) botOptions(settings game.Settings, seed int64) bot.Options {
	n := settings.Letters
	return bot.Options{
		Settings:  settings,
		Guesses:   s.words.Allowed(n),
		Solutions: s.words.Answers(n),
		Weight:    s.words.Weight,
		Scorer:    s.cfg.Bot.Scorer,
		Workers:   s.cfg.Bot.Workers,
		Seed:      seed,
	}
}

// newSession builds a fresh session. A non-empty dailyKey commits the
// keeper to that day's word.
func (s *Server) newSession(settings game.Settings, kind store.Keeper, seed int64, dailyKey, player string, opts ...game.Option) (*store.Session, error) {
	if len(s.words.Answers(settings.Letters)) == 0 {
		return nil, errNoWords
	}
	g, err := game.New(settings, s.words.Validator(settings.Letters), opts...)
	if err != nil {
		return nil, err
	}
	keeper, err := bot.NewKeeper(string(kind), s.botOptions(settings, seed))
	if err != nil {
		return nil, err
	}
	if dailyKey != "" {
		secret, err := s.dailySecret(dailyKey, settings.Letters)
		if err != nil {
			return nil, err
		}
		if h, ok := keeper.(*bot.HonestEvaluator); ok {
			h.Commit(secret)
		}
	}
	return &store.Session{Game: g, Keeper: keeper, Kind: kind, Seed: seed, DailyKey: dailyKey, Player: player}, nil
}

// dailySecret returns the word for the date key among answers of length n.
func (s *Server) dailySecret(key string, n int) (string, error) {
	day, err := time.Parse("2006-01-02", key)
	if err != nil {
		return "", err
	}
	answers := s.words.Answers(n)
	if len(answers) == 0 {
		return "", errNoWords
	}
	return answers[daily.WordIndex(day, s.cfg.DailySalt, len(answers))], nil
}

// view renders sess; the caller holds the session lock.
func (s *Server) view(ctx context.Context, sess *store.Session) (gameView, error) {
	g := sess.Game
	v := gameView{
		GameID:          sess.ID().String(),
		Settings:        g.Settings(),
		Keeper:          sess.Kind,
		Seed:            sess.Seed,
		Daily:           sess.DailyKey,
		State:           g.State(),
		Round:           g.Round(),
		RoundsRemaining: g.RoundsRemaining(),
		Rounds:          []roundView{},
		ExpiresAt:       s.tokenExpiry(),
	}
	for _, c := range g.Constraints() {
		v.Rounds = append(v.Rounds, newRoundView(c))
	}
	if v.State.Over() {
		answer, err := sess.Keeper.Peek(ctx, g.Constraints())
		if err != nil {
			return gameView{}, err
		}
		v.Answer = answer
	}
	tok, err := s.signSession(sess)
	if err != nil {
		return gameView{}, err
	}
	v.Token = tok
	return v, nil
}

// session loads the session named by the {id} URL parameter.
func (s *Server) session(w http.ResponseWriter, r *http.Request, raw string) (*store.Session, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_id", "game id is not a UUID")
		return nil, false
	}
	sess, err := s.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "unknown game; resume it with its token")
			return nil, false
		}
		log.Error().Err(err).Str("gameId", raw).Msg("load session")
		writeError(w, http.StatusInternalServerError, "internal", "")
		return nil, false
	}
	return sess, true
}

// writeGameError maps engine and bot errors to responses.
func writeGameError(w http.ResponseWriter, err error) {
	var (
		ge *game.GuessError
		se *game.SettingsError
	)
	switch {
	case errors.Is(err, game.ErrLength):
		writeError(w, http.StatusBadRequest, "length", err.Error())
	case errors.Is(err, game.ErrValidation):
		writeError(w, http.StatusBadRequest, "validation", err.Error())
	case errors.Is(err, game.ErrConstraints) && errors.As(err, &ge):
		writeJSON(w, http.StatusBadRequest, apiError{
			Error:   "constraints",
			Message: err.Error(),
			Details: map[string]any{"violations": ge.Violations, "positions": ge.Positions()},
		})
	case errors.Is(err, game.ErrGameOver),
		errors.Is(err, game.ErrNotGuessing),
		errors.Is(err, game.ErrNotEvaluating),
		errors.Is(err, game.ErrGuessMismatch):
		writeError(w, http.StatusConflict, "state", err.Error())
	case errors.As(err, &se):
		writeError(w, http.StatusBadRequest, "settings", err.Error())
	case errors.Is(err, errNoWords):
		writeError(w, http.StatusBadRequest, "settings", err.Error())
	case errors.Is(err, generation.ErrNoSolutions):
		writeError(w, http.StatusConflict, "no_solutions", err.Error())
	default:
		log.Error().Err(err).Msg("game request failed")
		writeError(w, http.StatusInternalServerError, "internal", "")
	}
}

// finish records a finished game once; the caller holds the session lock.
func (s *Server) finish(ctx context.Context, sess *store.Session, answer string) {
	if sess.Recorded || !sess.Game.State().Over() {
		return
	}
	sess.Recorded = true
	logger := log.With().Str("gameId", sess.ID().String()).Logger()
	logger.Info().
		Str("state", string(sess.Game.State())).
		Int("rounds", len(sess.Game.Constraints())).
		Str("keeper", string(sess.Kind)).
		Msg("game finished")
	if s.db == nil {
		return
	}
	if err := s.recordGame(ctx, sess, answer); err != nil {
		logger.Warn().Err(err).Msg("record game")
	}
	if sess.DailyKey != "" && sess.Player != "" {
		_, err := s.daily.InsertResult(ctx, daily.Result{
			Date:     sess.DailyKey,
			Player:   sess.Player,
			GameID:   sess.ID().String(),
			Won:      sess.Game.State() == game.Won,
			Attempts: len(sess.Game.Constraints()),
		})
		if err != nil {
			logger.Warn().Err(err).Msg("record daily result")
		}
	}
}

// ------------------------------ handlers -----------------------------------

func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_json", err.Error())
			return
		}
	}

	settings := s.cfg.Game
	if req.Letters != nil {
		settings.Letters = *req.Letters
	}
	if req.Rounds != nil {
		settings.Rounds = *req.Rounds
		if settings.Rounds < 0 {
			settings.Rounds = game.Unlimited
		}
	}
	if req.Policy != nil {
		settings.Policy = *req.Policy
	}
	kind := req.Keeper
	if kind == "" {
		kind = store.Keeper(s.cfg.Bot.Keeper)
	}
	if !kind.Valid() {
		writeError(w, http.StatusBadRequest, "keeper", "keeper must be honest or flexible")
		return
	}
	seed := s.now().UnixNano()
	if req.Seed != nil {
		seed = *req.Seed
	}

	var dailyKey, player string
	if req.Daily {
		// the daily puzzle is the same for everyone
		today := s.now()
		dailyKey = daily.DateKey(today)
		settings = s.cfg.Game
		kind = store.Honest
		seed = daily.Seed(today, s.cfg.DailySalt)
		player = s.ensurePlayerID(w, r)
		if s.daily != nil {
			played, err := s.daily.AlreadyPlayed(r.Context(), player, dailyKey)
			if err != nil {
				log.Warn().Err(err).Msg("daily lookup")
			} else if played {
				writeError(w, http.StatusConflict, "played", "today's puzzle is already played")
				return
			}
		}
	}

	sess, err := s.newSession(settings, kind, seed, dailyKey, player)
	if err != nil {
		writeGameError(w, err)
		return
	}
	sess.Lock()
	defer sess.Unlock()
	if err := s.store.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Msg("save session")
		writeError(w, http.StatusInternalServerError, "save_failed", "")
		return
	}
	v, err := s.view(r.Context(), sess)
	if err != nil {
		writeGameError(w, err)
		return
	}
	log.Info().Str("gameId", v.GameID).Str("keeper", string(kind)).Bool("daily", req.Daily).Msg("game created")
	writeJSON(w, http.StatusCreated, v)
}

func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", err.Error())
		return
	}
	sess, ok := s.session(w, r, req.GameID)
	if !ok {
		return
	}
	sess.Lock()
	defer sess.Unlock()

	g := sess.Game
	guess := strings.ToLower(strings.TrimSpace(req.Guess))
	history := g.Constraints()
	if err := g.Guess(guess); err != nil {
		writeGameError(w, err)
		return
	}
	// the guess is accepted; the keeper must answer even if the client left
	c, err := sess.Keeper.Evaluate(context.WithoutCancel(r.Context()), guess, history)
	if err != nil {
		writeGameError(w, err)
		return
	}
	if err := g.Evaluate(c); err != nil {
		writeGameError(w, err)
		return
	}

	v, err := s.view(r.Context(), sess)
	if err != nil {
		writeGameError(w, err)
		return
	}
	s.finish(r.Context(), sess, v.Answer)
	writeJSON(w, http.StatusOK, guessRes{Last: newRoundView(c), gameView: v})
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	sess.Lock()
	defer sess.Unlock()
	v, err := s.view(r.Context(), sess)
	if err != nil {
		writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	var req resumeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", err.Error())
		return
	}
	claims, err := s.parseSession(req.Token)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "token", err.Error())
		return
	}
	id, err := uuid.Parse(claims.ID)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "token", "bad game id")
		return
	}

	sess, err := s.store.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		sess, err = s.replay(r.Context(), id, claims)
		if err != nil {
			writeError(w, http.StatusBadRequest, "token", err.Error())
			return
		}
		if err := s.store.Save(r.Context(), sess); err != nil {
			log.Error().Err(err).Msg("save session")
			writeError(w, http.StatusInternalServerError, "save_failed", "")
			return
		}
		log.Info().Str("gameId", claims.ID).Int("rounds", len(claims.Guesses)).Msg("game resumed")
	} else if err != nil {
		writeGameError(w, err)
		return
	}

	sess.Lock()
	defer sess.Unlock()
	v, err := s.view(r.Context(), sess)
	if err != nil {
		writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// replay rebuilds a session from token claims by fast-forwarding the game
// through its guesses.
func (s *Server) replay(ctx context.Context, id uuid.UUID, claims *sessionClaims) (*store.Session, error) {
	sess, err := s.newSession(claims.Settings, claims.Keeper, claims.Seed, claims.Daily, claims.Subject, game.WithID(id))
	if err != nil {
		return nil, err
	}
	g := sess.Game
	for _, guess := range claims.Guesses {
		history := g.Constraints()
		if err := g.Guess(guess); err != nil {
			return nil, err
		}
		c, err := sess.Keeper.Evaluate(ctx, guess, history)
		if err != nil {
			return nil, err
		}
		if err := g.Evaluate(c); err != nil {
			return nil, err
		}
	}
	// finished games were recorded when they ended
	sess.Recorded = g.State().Over()
	return sess, nil
}

func (s *Server) handleHint(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	sess.Lock()
	history := sess.Game.Constraints()
	n := sess.Game.Settings().Letters
	sess.Unlock()

	p := &feedback.Provider{
		Alphabet:   words.Alphabet(),
		Length:     n,
		Policy:     constraint.Perfect,
		Vocabulary: s.words.Answers(n),
		Eliminate:  true,
		MaxVisits:  s.cfg.Bot.MaxVisits,
	}
	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.Bot.HintTimeout)
	defer cancel()

	var (
		last *feedback.Feedback
		done bool
	)
	err := p.Provide(ctx, history, func(f *feedback.Feedback, d bool) bool {
		last, done = f, d
		return false
	})
	switch {
	case err == nil:
	case errors.Is(err, context.DeadlineExceeded) && last != nil && r.Context().Err() == nil:
		// out of time: the last refinement is still sound
	case errors.Is(err, feedback.ErrContradiction):
		writeError(w, http.StatusConflict, "contradiction", err.Error())
		return
	default:
		log.Error().Err(err).Str("gameId", sess.ID().String()).Msg("hint")
		writeError(w, http.StatusInternalServerError, "internal", "")
		return
	}

	res := hintRes{Pattern: last.String(), Present: []feedback.CharacterFeedback{}, Done: done}
	if solved, ok := last.Solved(); ok {
		res.Solved = solved
	}
	var absent strings.Builder
	for _, cf := range last.Characters() {
		switch {
		case cf.Max == 0:
			absent.WriteRune(cf.Char)
		case cf.Min > 0:
			res.Present = append(res.Present, cf)
		}
	}
	res.Absent = absent.String()
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	sess.Lock()
	if sess.Game.State().Over() {
		sess.Unlock()
		writeGameError(w, game.ErrGameOver)
		return
	}
	if sess.Solver == nil {
		solver, err := bot.NewSolver(s.botOptions(sess.Game.Settings(), sess.Seed))
		if err != nil {
			sess.Unlock()
			writeGameError(w, err)
			return
		}
		sess.Solver = solver
	}
	solver := sess.Solver
	history := sess.Game.Constraints()
	sess.Unlock()

	guess, err := solver.Guess(r.Context(), history)
	if err != nil {
		writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"guess": guess})
}
