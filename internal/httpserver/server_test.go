package httpserver

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordlebot/assets"
	"github.com/robalobadob/wordlebot/internal/config"
	"github.com/robalobadob/wordlebot/internal/constraint"
	"github.com/robalobadob/wordlebot/internal/daily"
	"github.com/robalobadob/wordlebot/internal/store"
	"github.com/robalobadob/wordlebot/internal/words"
)

var answers = []string{"crane", "stoat", "sloth", "toast", "boast", "ghost"}

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	script, err := fs.ReadFile(assets.Migrations(), "001_init.sql")
	require.NoError(t, err)
	_, err = db.Exec(string(script))
	require.NoError(t, err)
	return db
}

func testServer(t *testing.T, db *sql.DB) *Server {
	t.Helper()
	lists, err := words.New(answers, []string{"abide", "plumb"})
	require.NoError(t, err)
	cfg := config.Default()
	cfg.SessionSecret = "test-secret"
	s := New(cfg, lists, store.NewMemoryStore(), db)
	s.now = func() time.Time { return fixedNow }
	return s
}

// client keeps cookies between requests.
type client struct {
	t       *testing.T
	h       http.Handler
	cookies []*http.Cookie
}

func (c *client) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c.h.ServeHTTP(rec, req)
	c.cookies = append(c.cookies, rec.Result().Cookies()...)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

// playOut guesses every answer in order until the game ends.
func playOut(t *testing.T, c *client, id string) guessRes {
	t.Helper()
	var last guessRes
	for _, w := range answers {
		rec := c.do(http.MethodPost, "/game/guess", guessReq{GameID: id, Guess: w})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		last = decode[guessRes](t, rec)
		if last.State.Over() {
			return last
		}
	}
	t.Fatalf("game %s did not finish", id)
	return last
}

func TestHealthAndNotFound(t *testing.T) {
	c := &client{t: t, h: testServer(t, nil).Router()}

	rec := c.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())

	rec = c.do(http.MethodGet, "/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decode[apiError](t, rec).Error)

	rec = c.do(http.MethodGet, "/debug/words", nil)
	assert.JSONEq(t, `{"answers":6,"allowed":8}`, rec.Body.String())
}

func TestPlayHonestGame(t *testing.T) {
	db := testDB(t)
	c := &client{t: t, h: testServer(t, db).Router()}

	rec := c.do(http.MethodPost, "/game/new", map[string]any{"keeper": "honest", "seed": 5, "rounds": -1})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	v := decode[gameView](t, rec)
	assert.Equal(t, store.Honest, v.Keeper)
	assert.NotEmpty(t, v.Token)
	assert.Empty(t, v.Answer, "no answer while playing")

	last := playOut(t, c, v.GameID)
	assert.Equal(t, "won", string(last.State))
	assert.Equal(t, last.Last.Guess, last.Answer)
	assert.Equal(t, "=====", last.Last.Pattern)

	rec = c.do(http.MethodPost, "/game/guess", guessReq{GameID: v.GameID, Guess: "crane"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "state", decode[apiError](t, rec).Error)

	rec = c.do(http.MethodGet, "/games/recent", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rows := decode[[]gameRow](t, rec)
	require.Len(t, rows, 1)
	assert.Equal(t, v.GameID, rows[0].ID)
	assert.True(t, rows[0].Won)
	assert.Equal(t, last.Answer, rows[0].Secret)
}

func TestGuessErrors(t *testing.T) {
	c := &client{t: t, h: testServer(t, nil).Router()}
	rec := c.do(http.MethodPost, "/game/new", map[string]any{"keeper": "flexible", "policy": "perfect"})
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode[gameView](t, rec).GameID

	tests := []struct {
		name   string
		guess  string
		status int
		code   string
	}{
		{"too short", "cran", http.StatusBadRequest, "length"},
		{"unknown word", "zzzzz", http.StatusBadRequest, "validation"},
		{"first guess", "crane", http.StatusOK, ""},
		// a wrong guess can never be repeated under full disclosure
		{"repeat", "crane", http.StatusBadRequest, "constraints"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := c.do(http.MethodPost, "/game/guess", guessReq{GameID: id, Guess: tt.guess})
			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			if tt.code != "" {
				assert.Equal(t, tt.code, decode[apiError](t, rec).Error)
			}
		})
	}

	rec = c.do(http.MethodPost, "/game/guess", guessReq{GameID: "not-a-uuid", Guess: "crane"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = c.do(http.MethodPost, "/game/guess", guessReq{GameID: "00000000-0000-0000-0000-000000000000", Guess: "crane"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = c.do(http.MethodPost, "/game/new", map[string]any{"keeper": "sneaky"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = c.do(http.MethodPost, "/game/new", map[string]any{"letters": 7})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "settings", decode[apiError](t, rec).Error)
}

func TestResumeAfterRestart(t *testing.T) {
	first := &client{t: t, h: testServer(t, nil).Router()}
	rec := first.do(http.MethodPost, "/game/new", map[string]any{"keeper": "flexible", "seed": 9})
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode[gameView](t, rec).GameID

	var token string
	var patterns []string
	for _, w := range []string{"crane", "sloth"} {
		rec := first.do(http.MethodPost, "/game/guess", guessReq{GameID: id, Guess: w})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		res := decode[guessRes](t, rec)
		token = res.Token
		patterns = append(patterns, res.Last.Pattern)
	}

	// a new server has an empty session store
	second := &client{t: t, h: testServer(t, nil).Router()}
	rec = second.do(http.MethodGet, "/game/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = second.do(http.MethodPost, "/game/resume", resumeReq{Token: token})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	v := decode[gameView](t, rec)
	assert.Equal(t, id, v.GameID)
	require.Len(t, v.Rounds, 2)
	for i, r := range v.Rounds {
		assert.Equal(t, patterns[i], r.Pattern)
	}

	rec = second.do(http.MethodGet, "/game/"+id, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = second.do(http.MethodPost, "/game/resume", resumeReq{Token: token + "x"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "token", decode[apiError](t, rec).Error)
}

func TestHintIsSound(t *testing.T) {
	c := &client{t: t, h: testServer(t, nil).Router()}
	rec := c.do(http.MethodPost, "/game/new", map[string]any{"keeper": "honest", "seed": 21, "rounds": -1})
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode[gameView](t, rec).GameID

	rec = c.do(http.MethodGet, "/game/"+id+"/hint", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = c.do(http.MethodPost, "/game/guess", guessReq{GameID: id, Guess: "abide"})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = c.do(http.MethodGet, "/game/"+id+"/hint", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	hint := decode[hintRes](t, rec)
	assert.True(t, hint.Done)

	answer := playOut(t, c, id).Answer
	require.NotEmpty(t, answer)
	for _, r := range hint.Absent {
		assert.NotContains(t, answer, string(r))
	}
	for _, cf := range hint.Present {
		n := strings.Count(answer, string(cf.Char))
		assert.GreaterOrEqual(t, n, cf.Min, string(cf.Char))
		assert.LessOrEqual(t, n, cf.Max, string(cf.Char))
	}
	if hint.Solved != "" {
		assert.Equal(t, answer, hint.Solved)
	}
}

func TestSuggest(t *testing.T) {
	c := &client{t: t, h: testServer(t, nil).Router()}
	rec := c.do(http.MethodPost, "/game/new", map[string]any{"keeper": "honest", "seed": 2, "rounds": -1, "policy": "positive"})
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode[gameView](t, rec).GameID

	for range 2 * len(answers) {
		rec := c.do(http.MethodGet, "/game/"+id+"/suggest", nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		guess := decode[map[string]string](t, rec)["guess"]
		require.NotEmpty(t, guess)

		rec = c.do(http.MethodPost, "/game/guess", guessReq{GameID: id, Guess: guess})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		if decode[guessRes](t, rec).State.Over() {
			break
		}
	}
	rec = c.do(http.MethodGet, "/game/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "won", string(decode[gameView](t, rec).State))

	rec = c.do(http.MethodGet, "/game/"+id+"/suggest", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestDaily(t *testing.T) {
	db := testDB(t)
	s := testServer(t, db)
	c := &client{t: t, h: s.Router()}

	rec := c.do(http.MethodGet, "/daily", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	d := decode[dailyRes](t, rec)
	assert.Equal(t, "2024-03-01", d.Date)
	assert.Equal(t, daily.Seed(fixedNow, s.cfg.DailySalt), d.Seed)
	assert.False(t, d.Played)

	rec = c.do(http.MethodPost, "/game/new", map[string]any{"daily": true, "keeper": "flexible"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	v := decode[gameView](t, rec)
	assert.Equal(t, store.Honest, v.Keeper, "daily games are honest")
	assert.Equal(t, d.Date, v.Daily)

	last := playOut(t, c, v.GameID)
	want := answers[daily.WordIndex(fixedNow, s.cfg.DailySalt, len(answers))]
	assert.Equal(t, want, last.Answer)

	rec = c.do(http.MethodPost, "/game/new", map[string]any{"daily": true})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "played", decode[apiError](t, rec).Error)

	rec = c.do(http.MethodGet, "/daily", nil)
	assert.True(t, decode[dailyRes](t, rec).Played)

	rec = c.do(http.MethodGet, "/daily/leaderboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	lb := decode[lbRes](t, rec)
	require.Len(t, lb.Top, 1)
	assert.Equal(t, last.State == "won", lb.Top[0].Won)
	assert.Equal(t, len(last.Rounds), lb.Top[0].Attempts)
}

func TestNoDatabase(t *testing.T) {
	c := &client{t: t, h: testServer(t, nil).Router()}
	rec := c.do(http.MethodGet, "/daily/leaderboard", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	rec = c.do(http.MethodGet, "/games/recent", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestPolicyJSON(t *testing.T) {
	c := &client{t: t, h: testServer(t, nil).Router()}
	rec := c.do(http.MethodPost, "/game/new", map[string]any{"policy": "aggregated"})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, constraint.Aggregated, decode[gameView](t, rec).Settings.Policy)
}
