package storage

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*QuizResults, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return &QuizResults{db: sqlx.NewDb(db, "sqlmock")}, mock
}

func TestSaveResult(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO quiz_results (user_id, topic, score, played_at)")).
		WithArgs(int64(7), "prog", 3, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.SaveResult(context.Background(), 7, "prog", 3)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecentResults(t *testing.T) {
	repo, mock := newMockRepo(t)
	played := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT id, user_id, topic, score, played_at").
		WithArgs(int64(7), 5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "topic", "score", "played_at"}).
			AddRow(2, 7, "math", 4, played).
			AddRow(1, 7, "prog", 2, played.Add(-time.Hour)))

	out, err := repo.RecentResults(context.Background(), 7, 5)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "math", out[0].Topic)
	assert.Equal(t, 4, out[0].Score)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecentResultsDefaultsLimit(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT id, user_id, topic, score, played_at").
		WithArgs(int64(7), 10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "topic", "score", "played_at"}))

	out, err := repo.RecentResults(context.Background(), 7, 0)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTotalsByTopic(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT topic, COUNT").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"topic", "rounds", "best"}).
			AddRow("prog", 3, 5).
			AddRow("biology", 1, 2))

	totals, err := repo.TotalsByTopic(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, TopicTotal{Rounds: 3, Best: 5}, totals["prog"])
	assert.Equal(t, TopicTotal{Rounds: 1, Best: 2}, totals["biology"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNilRepositoryIsNoOp(t *testing.T) {
	var repo *QuizResults
	require.NoError(t, repo.SaveResult(context.Background(), 1, "prog", 0))

	out, err := repo.RecentResults(context.Background(), 1, 5)
	require.NoError(t, err)
	assert.Nil(t, out)

	totals, err := repo.TotalsByTopic(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, totals)
}
