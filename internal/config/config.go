// internal/config/config.go
//
// Server and bot configuration.
//
// Sources, later ones winning:
//  1. Defaults (Default).
//  2. An optional YAML file, usually named by WORDLEBOT_CONFIG.
//  3. Environment variables (see applyEnv); main loads .env first.
//
// Durations are written the Go way in YAML ("10s", "24h").
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/robalobadob/wordlebot/internal/constraint"
	"github.com/robalobadob/wordlebot/internal/game"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Scorer names accepted by Bot.Scorer.
const (
	ScorerEntropy = "entropy"
	ScorerMinimax = "minimax"
)

// Config is the full configuration.
type Config struct {
	Port          string        `yaml:"port"`
	LogLevel      string        `yaml:"log_level"`
	DBPath        string        `yaml:"db_path"`
	ClientOrigin  string        `yaml:"client_origin"`
	DailySalt     string        `yaml:"daily_salt"`
	SessionSecret string        `yaml:"session_secret"`
	SessionTTL    time.Duration `yaml:"session_ttl"`
	Words         Words         `yaml:"words"`
	Game          game.Settings `yaml:"game"`
	Bot           Bot           `yaml:"bot"`
}

// Words names optional word list files; empty means the embedded lists.
type Words struct {
	AnswersFile string `yaml:"answers_file"`
	AllowedFile string `yaml:"allowed_file"`
}

// Bot tunes the solver, the keepers and the hint provider.
type Bot struct {
	Keeper      string        `yaml:"keeper"` // default keeper: honest or flexible
	Scorer      string        `yaml:"scorer"` // solver scorer: entropy or minimax
	Workers     int           `yaml:"workers"`
	HintTimeout time.Duration `yaml:"hint_timeout"`
	MaxVisits   int           `yaml:"max_visits"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Port:          "5175",
		LogLevel:      "info",
		DBPath:        "./data/wordlebot.db",
		ClientOrigin:  "http://localhost:5173",
		DailySalt:     "local_dev_salt",
		SessionSecret: "dev_secret_change_me",
		SessionTTL:    24 * time.Hour,
		Game:          game.DefaultSettings(),
		Bot: Bot{
			Keeper:      "honest",
			Scorer:      ScorerEntropy,
			Workers:     0,
			HintTimeout: 3 * time.Second,
			MaxVisits:   1 << 20,
		},
	}
}

// Load reads path (if non-empty) over the defaults, then applies the
// process environment.
func Load(path string) (Config, error) {
	return load(path, os.LookupEnv)
}

func load(path string, lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(lookup); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv overrides fields from environment variables.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := map[string]*string{
		"PORT":               &c.Port,
		"LOG_LEVEL":          &c.LogLevel,
		"DB_PATH":            &c.DBPath,
		"CLIENT_ORIGIN":      &c.ClientOrigin,
		"DAILY_SALT":         &c.DailySalt,
		"SESSION_SECRET":     &c.SessionSecret,
		"WORDS_ANSWERS_FILE": &c.Words.AnswersFile,
		"WORDS_ALLOWED_FILE": &c.Words.AllowedFile,
		"BOT_KEEPER":         &c.Bot.Keeper,
		"BOT_SCORER":         &c.Bot.Scorer,
	}
	for k, p := range str {
		if v, ok := lookup(k); ok && v != "" {
			*p = v
		}
	}

	ints := map[string]*int{
		"BOT_WORKERS":    &c.Bot.Workers,
		"BOT_MAX_VISITS": &c.Bot.MaxVisits,
		"GAME_LETTERS":   &c.Game.Letters,
		"GAME_ROUNDS":    &c.Game.Rounds,
	}
	for k, p := range ints {
		if v, ok := lookup(k); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%w: %s=%q: %v", ErrInvalid, k, v, err)
			}
			*p = n
		}
	}

	durs := map[string]*time.Duration{
		"SESSION_TTL":  &c.SessionTTL,
		"HINT_TIMEOUT": &c.Bot.HintTimeout,
	}
	for k, p := range durs {
		if v, ok := lookup(k); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("%w: %s=%q: %v", ErrInvalid, k, v, err)
			}
			*p = d
		}
	}

	if v, ok := lookup("GAME_POLICY"); ok && v != "" {
		p, err := constraint.ParsePolicy(v)
		if err != nil {
			return fmt.Errorf("%w: GAME_POLICY: %v", ErrInvalid, err)
		}
		c.Game.Policy = p
	}
	return nil
}

// Validate checks ranges and names.
func (c Config) Validate() error {
	switch {
	case c.Port == "":
		return fmt.Errorf("%w: empty port", ErrInvalid)
	case c.SessionSecret == "":
		return fmt.Errorf("%w: empty session secret", ErrInvalid)
	case c.Game.Letters < 1 || c.Game.Letters > constraint.MaxLetters:
		return fmt.Errorf("%w: game letters %d", ErrInvalid, c.Game.Letters)
	case c.Game.Rounds < 1:
		return fmt.Errorf("%w: game rounds %d", ErrInvalid, c.Game.Rounds)
	case c.Bot.Keeper != "honest" && c.Bot.Keeper != "flexible":
		return fmt.Errorf("%w: keeper %q", ErrInvalid, c.Bot.Keeper)
	case c.Bot.Scorer != ScorerEntropy && c.Bot.Scorer != ScorerMinimax:
		return fmt.Errorf("%w: scorer %q", ErrInvalid, c.Bot.Scorer)
	case c.Bot.Workers < 0 || c.Bot.MaxVisits < 0:
		return fmt.Errorf("%w: negative bot limits", ErrInvalid)
	case c.Bot.HintTimeout <= 0 || c.SessionTTL <= 0:
		return fmt.Errorf("%w: non-positive timeout", ErrInvalid)
	}
	return nil
}
