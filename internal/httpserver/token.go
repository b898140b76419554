// internal/httpserver/token.go
//
// Signed session tokens. A token carries everything needed to rebuild a
// game after the in-memory session is gone: settings, keeper, seed and the
// evaluated guesses. Keepers are deterministic given their seed, so
// replaying the guesses reproduces the same answers.
package httpserver

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/robalobadob/wordlebot/internal/game"
	"github.com/robalobadob/wordlebot/internal/store"
)

var errToken = errors.New("invalid session token")

// sessionClaims is the token payload. The JWT ID is the game ID.
type sessionClaims struct {
	Settings game.Settings `json:"settings"`
	Keeper   store.Keeper  `json:"keeper"`
	Seed     int64         `json:"seed"`
	Daily    string        `json:"daily,omitempty"`
	Guesses  []string      `json:"guesses"`
	jwt.RegisteredClaims
}

// signSession issues a token for the current state of sess.
func (s *Server) signSession(sess *store.Session) (string, error) {
	var guesses []string
	for _, c := range sess.Game.Constraints() {
		guesses = append(guesses, c.Candidate())
	}
	now := s.now()
	claims := sessionClaims{
		Settings: sess.Game.Settings(),
		Keeper:   sess.Kind,
		Seed:     sess.Seed,
		Daily:    sess.DailyKey,
		Guesses:  guesses,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sess.ID().String(),
			Subject:   sess.Player,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.SessionTTL)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.SessionSecret))
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	return tok, nil
}

// parseSession verifies a token and returns its claims.
func (s *Server) parseSession(tok string) (*sessionClaims, error) {
	claims := &sessionClaims{}
	t, err := jwt.ParseWithClaims(tok, claims,
		func(t *jwt.Token) (any, error) { return []byte(s.cfg.SessionSecret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errToken, err)
	}
	if !t.Valid || claims.ID == "" || !claims.Keeper.Valid() {
		return nil, errToken
	}
	return claims, nil
}

// tokenExpiry is when a token issued now expires.
func (s *Server) tokenExpiry() time.Time { return s.now().Add(s.cfg.SessionTTL) }
