package storage

import (
	"fmt"
	"time"
)

// GameStats aggregates a game's scores and sessions.
type GameStats struct {
	GameID     string
	GamesCount int // recorded scores
	HighScore  int
	AvgScore   float64
	TotalScore int64
	LastPlayed time.Time

	Wins, Losses int
	PlayTime     time.Duration
}

// GetGameStats aggregates one game. A game never played returns zeroes.
func (s *Store) GetGameStats(gameID string) (*GameStats, error) {
	stats := &GameStats{GameID: gameID}

	var lastPlayed any
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0), COALESCE(SUM(score), 0), MAX(created_at)
		 FROM scores WHERE game_id = ?`,
		gameID,
	).Scan(&stats.GamesCount, &stats.HighScore, &stats.AvgScore, &stats.TotalScore, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get game stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)

	if err := s.sessionTotals(stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// sessionTotals fills in the win/loss counts and play time.
func (s *Store) sessionTotals(stats *GameStats) error {
	var playMS int64
	err := s.db.QueryRow(
		`SELECT
		   COALESCE(SUM(outcome = ?), 0),
		   COALESCE(SUM(outcome = ?), 0),
		   COALESCE(SUM(duration_ms), 0)
		 FROM sessions WHERE game_id = ?`,
		OutcomeWon, OutcomeLost, stats.GameID,
	).Scan(&stats.Wins, &stats.Losses, &playMS)
	if err != nil {
		return fmt.Errorf("storage: cannot get session totals: %w", err)
	}
	stats.PlayTime = time.Duration(playMS) * time.Millisecond
	return nil
}

// GetAllGamesStats aggregates every game with at least one score.
func (s *Store) GetAllGamesStats() (map[string]*GameStats, error) {
	rows, err := s.db.Query(
		`SELECT game_id, COUNT(*), MAX(score), AVG(score), SUM(score), MAX(created_at)
		 FROM scores GROUP BY game_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all games stats: %w", err)
	}

	stats := make(map[string]*GameStats)
	for rows.Next() {
		gs := &GameStats{}
		var lastPlayed any
		if err := rows.Scan(&gs.GameID, &gs.GamesCount, &gs.HighScore, &gs.AvgScore, &gs.TotalScore, &lastPlayed); err != nil {
			rows.Close()
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		gs.LastPlayed = parseTime(lastPlayed)
		stats[gs.GameID] = gs
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	// Session totals need the connection the rows held.
	for _, gs := range stats {
		if err := s.sessionTotals(gs); err != nil {
			return nil, err
		}
	}
	return stats, nil
}
