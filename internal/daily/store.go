// internal/daily/store.go
//
// SQLite-backed daily results. One row per player and date; replays of the
// same day are ignored.
package daily

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Result is one finished daily game.
type Result struct {
	Date     string `json:"date"`
	Player   string `json:"player"`
	GameID   string `json:"gameId"`
	Won      bool   `json:"won"`
	Attempts int    `json:"attempts"`
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// AlreadyPlayed reports whether player has a result for date.
func (s *Store) AlreadyPlayed(ctx context.Context, player, date string) (bool, error) {
	var cnt int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM daily_results WHERE player=? AND date_key=?",
		player, date,
	).Scan(&cnt)
	if err != nil {
		return false, fmt.Errorf("daily: already played: %w", err)
	}
	return cnt > 0, nil
}

// InsertResult records r. It reports false when the player already has a
// result for that date.
func (s *Store) InsertResult(ctx context.Context, r Result) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO daily_results(date_key, player, game_id, won, attempts, created_at)
		 VALUES(?,?,?,?,?,?)`,
		r.Date, r.Player, r.GameID, r.Won, r.Attempts, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return false, fmt.Errorf("daily: insert result: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("daily: insert result: %w", err)
	}
	return n == 1, nil
}

// LBRow is one leaderboard entry.
type LBRow struct {
	Player   string `json:"player"`
	Won      bool   `json:"won"`
	Attempts int    `json:"attempts"`
}

// Leaderboard ranks date's results: wins first, then fewer attempts, then
// earlier finish.
func (s *Store) Leaderboard(ctx context.Context, date string, limit int) ([]LBRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT player, won, attempts
		 FROM daily_results
		 WHERE date_key=?
		 ORDER BY won DESC, attempts ASC, created_at ASC
		 LIMIT ?`, date, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("daily: leaderboard: %w", err)
	}
	defer rows.Close()
	out := []LBRow{}
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.Player, &r.Won, &r.Attempts); err != nil {
			return nil, fmt.Errorf("daily: leaderboard: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
