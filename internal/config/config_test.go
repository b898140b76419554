package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordlebot/internal/constraint"
)

func env(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wordlebot.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "8080"
session_ttl: 2h
game:
  letters: 6
  rounds: 8
  policy: perfect
bot:
  scorer: minimax
  hint_timeout: 500ms
`), 0o644))

	cfg, err := load(path, env(map[string]string{
		"PORT":         "9090",
		"BOT_WORKERS":  "4",
		"HINT_TIMEOUT": "1s",
	}))
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port, "env wins over file")
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 6, cfg.Game.Letters)
	assert.Equal(t, 8, cfg.Game.Rounds)
	assert.Equal(t, constraint.Perfect, cfg.Game.Policy)
	assert.Equal(t, ScorerMinimax, cfg.Bot.Scorer)
	assert.Equal(t, 4, cfg.Bot.Workers)
	assert.Equal(t, time.Second, cfg.Bot.HintTimeout)
	assert.Equal(t, "honest", cfg.Bot.Keeper, "untouched default")
}

func TestLoadNoFile(t *testing.T) {
	cfg, err := load("", env(map[string]string{"GAME_POLICY": "aggregated", "DB_PATH": "/tmp/x.db"}))
	require.NoError(t, err)
	assert.Equal(t, constraint.Aggregated, cfg.Game.Policy)
	assert.Equal(t, "/tmp/x.db", cfg.DBPath)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad int", map[string]string{"BOT_WORKERS": "many"}},
		{"bad duration", map[string]string{"HINT_TIMEOUT": "soon"}},
		{"bad policy", map[string]string{"GAME_POLICY": "lenient"}},
		{"bad scorer", map[string]string{"BOT_SCORER": "vibes"}},
		{"bad keeper", map[string]string{"BOT_KEEPER": "sneaky"}},
		{"too many letters", map[string]string{"GAME_LETTERS": "40"}},
		{"no rounds", map[string]string{"GAME_ROUNDS": "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := load("", env(tt.env))
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}

	_, err := load(filepath.Join(t.TempDir(), "missing.yaml"), env(nil))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("port: [1, 2"), 0o644))
	_, err = load(bad, env(nil))
	assert.Error(t, err)
}
