package storage

import (
	"fmt"
	"time"
)

// Session outcomes.
const (
	OutcomeWon  = "won"
	OutcomeLost = "lost"
	OutcomeQuit = "quit" // left before a terminal phase
)

// SessionRecord describes one finished or abandoned play session.
type SessionRecord struct {
	ID         int64
	GameID     string
	Seed       int64
	Outcome    string
	Score      int
	Frames     uint64
	Duration   time.Duration // simulated play time
	Difficulty string
	Player     string // SSH user, empty for local play
	CreatedAt  time.Time
}

// SaveSession records a play session and returns its ID.
func (s *Store) SaveSession(rec SessionRecord) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO sessions (game_id, seed, outcome, score, frames, duration_ms, difficulty, player)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.GameID, rec.Seed, rec.Outcome, rec.Score,
		int64(rec.Frames), rec.Duration.Milliseconds(), rec.Difficulty, rec.Player,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save session: %w", err)
	}
	return insertedID(res)
}

// RecentSessions returns the game's latest sessions, newest first. An
// empty gameID lists every game. A limit of zero or less means 20.
func (s *Store) RecentSessions(gameID string, limit int) ([]SessionRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(
		`SELECT id, game_id, seed, outcome, score, frames, duration_ms, difficulty, player, created_at
		 FROM sessions
		 WHERE ? = '' OR game_id = ?
		 ORDER BY id DESC LIMIT ?`,
		gameID, gameID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionRecord
	for rows.Next() {
		var (
			rec        SessionRecord
			frames, ms int64
			createdAt  any
		)
		err := rows.Scan(&rec.ID, &rec.GameID, &rec.Seed, &rec.Outcome, &rec.Score,
			&frames, &ms, &rec.Difficulty, &rec.Player, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan session: %w", err)
		}
		rec.Frames = uint64(frames)
		rec.Duration = time.Duration(ms) * time.Millisecond
		rec.CreatedAt = parseTime(createdAt)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}
