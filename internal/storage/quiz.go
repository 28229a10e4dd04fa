// Package storage persists finished quiz rounds. Persistence is optional:
// the bot runs fully in memory when no database is configured, and callers
// hold a nil repository in that case.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/kovalevdev/chatmate/core/logger"
	"log/slog"
)

// QuizResult is one finished quiz round.
type QuizResult struct {
	ID       int64     `db:"id"`
	UserID   int64     `db:"user_id"`
	Topic    string    `db:"topic"`
	Score    int       `db:"score"`
	PlayedAt time.Time `db:"played_at"`
}

// QuizResults reads and writes quiz history.
type QuizResults struct {
	db *sqlx.DB
}

// NewQuizResults wraps the connection pool. Returns nil for a nil pool so
// callers can pass the repository through unconditionally.
func NewQuizResults(db *sqlx.DB) *QuizResults {
	if db == nil {
		return nil
	}
	return &QuizResults{db: db}
}

// SaveResult records a finished round. A nil repository is a no-op.
func (r *QuizResults) SaveResult(ctx context.Context, userID int64, topic string, score int) error {
	if r == nil {
		return nil
	}
	const q = `INSERT INTO quiz_results (user_id, topic, score, played_at) VALUES ($1, $2, $3, $4)`
	if _, err := r.db.ExecContext(ctx, q, userID, topic, score, time.Now().UTC()); err != nil {
		return fmt.Errorf("save quiz result: %w", err)
	}
	logger.DB.LogAttrs(ctx, slog.LevelDebug, "quiz_result.saved",
		slog.Int64("user_id", userID),
		slog.String("topic", topic),
		slog.Int("score", score),
	)
	return nil
}

// RecentResults returns the user's latest rounds, newest first.
func (r *QuizResults) RecentResults(ctx context.Context, userID int64, limit int) ([]QuizResult, error) {
	if r == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}
	const q = `SELECT id, user_id, topic, score, played_at
	           FROM quiz_results WHERE user_id = $1
	           ORDER BY played_at DESC LIMIT $2`
	var out []QuizResult
	if err := r.db.SelectContext(ctx, &out, q, userID, limit); err != nil {
		return nil, fmt.Errorf("load quiz results: %w", err)
	}
	return out, nil
}

// TotalsByTopic aggregates rounds and best score per topic for the user.
func (r *QuizResults) TotalsByTopic(ctx context.Context, userID int64) (map[string]TopicTotal, error) {
	if r == nil {
		return nil, nil
	}
	const q = `SELECT topic, COUNT(*) AS rounds, MAX(score) AS best
	           FROM quiz_results WHERE user_id = $1 GROUP BY topic`
	rows := []struct {
		Topic  string `db:"topic"`
		Rounds int    `db:"rounds"`
		Best   int    `db:"best"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, q, userID); err != nil {
		return nil, fmt.Errorf("aggregate quiz results: %w", err)
	}
	out := make(map[string]TopicTotal, len(rows))
	for _, row := range rows {
		out[row.Topic] = TopicTotal{Rounds: row.Rounds, Best: row.Best}
	}
	return out, nil
}

// TopicTotal is the per-topic aggregate used by the stats command.
type TopicTotal struct {
	Rounds int
	Best   int
}
