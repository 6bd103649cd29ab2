// internal/repository/rankings_test.go
package repository

import (
	"context"
	"database/sql"
	stderrors "errors"
	"regexp"
	"testing"
	"time"

	"faculty-ranking-workers/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var scoredColumns = []string{"id", "score", "created_at"}

// rankAll is a plan that ranks in load order and always writes.
func rankAll(fingerprint string) (models.RankingPlan, *[]models.RankingEntry, *string) {
	var seen []models.RankingEntry
	var stored string
	return func(scored []models.RankingEntry, prev string) ([]models.RankingEntry, string, bool) {
		seen, stored = scored, prev
		ranked := make([]models.RankingEntry, len(scored))
		for i, e := range scored {
			e.Rank = i + 1
			ranked[i] = e
		}
		return ranked, fingerprint, prev != fingerprint
	}, &seen, &stored
}

func TestSync_ReadsScoresUnderLockAndStoresFingerprint(t *testing.T) {
	db, mock := newMock(t)
	created := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec(`SELECT pg_advisory_xact_lock\(\$1\)`).
		WithArgs(int64(7231)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`FROM applications WHERE score IS NOT NULL`).
		WillReturnRows(sqlmock.NewRows(scoredColumns).
			AddRow("a", 81.2, created).
			AddRow("b", 64.0, created.Add(time.Hour)))
	mock.ExpectQuery(`SELECT fingerprint, version FROM ranking_state`).
		WillReturnRows(sqlmock.NewRows([]string{"fingerprint", "version"}).AddRow("old", int64(4)))
	mock.ExpectExec(`DELETE FROM application_rankings`).
		WillReturnResult(sqlmock.NewResult(0, 5))
	prep := mock.ExpectPrepare(regexp.QuoteMeta(pq.CopyIn("application_rankings", "application_id", "rank", "score")))
	prep.ExpectExec().WithArgs("a", 1, 81.2).WillReturnResult(sqlmock.NewResult(0, 1))
	prep.ExpectExec().WithArgs("b", 2, 64.0).WillReturnResult(sqlmock.NewResult(0, 1))
	prep.ExpectExec().WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`INSERT INTO ranking_state`).
		WithArgs("new").
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(int64(5)))
	mock.ExpectCommit()

	plan, seen, stored := rankAll("new")
	version, changed, err := NewRankingRepository(db).Sync(context.Background(), 7231, plan)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, int64(5), version)
	assert.Equal(t, "old", *stored)
	require.Len(t, *seen, 2)
	assert.Equal(t, 81.2, (*seen)[0].Score)
	assert.Zero(t, (*seen)[0].Rank)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSync_UnchangedFingerprintLeavesTable(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(`pg_advisory_xact_lock`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`FROM applications WHERE score IS NOT NULL`).
		WillReturnRows(sqlmock.NewRows(scoredColumns).AddRow("a", 81.2, time.Now()))
	mock.ExpectQuery(`FROM ranking_state`).
		WillReturnRows(sqlmock.NewRows([]string{"fingerprint", "version"}).AddRow("same", int64(9)))
	mock.ExpectCommit()

	plan, _, _ := rankAll("same")
	version, changed, err := NewRankingRepository(db).Sync(context.Background(), 1, plan)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, int64(9), version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSync_FirstRunWithEmptyRanking(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(`pg_advisory_xact_lock`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`FROM applications WHERE score IS NOT NULL`).
		WillReturnRows(sqlmock.NewRows(scoredColumns))
	mock.ExpectQuery(`FROM ranking_state`).WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(`DELETE FROM application_rankings`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`INSERT INTO ranking_state`).
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(int64(1)))
	mock.ExpectCommit()

	plan, _, stored := rankAll("empty")
	version, changed, err := NewRankingRepository(db).Sync(context.Background(), 1, plan)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, int64(1), version)
	assert.Empty(t, *stored)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSync_LockFailureRollsBack(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(`pg_advisory_xact_lock`).WillReturnError(stderrors.New("canceling statement due to lock timeout"))
	mock.ExpectRollback()

	plan, seen, _ := rankAll("x")
	_, _, err := NewRankingRepository(db).Sync(context.Background(), 1, plan)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "acquire ranking lock")
	assert.Nil(t, *seen)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSync_StateWriteFailureRollsBack(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(`pg_advisory_xact_lock`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`FROM applications WHERE score IS NOT NULL`).
		WillReturnRows(sqlmock.NewRows(scoredColumns))
	mock.ExpectQuery(`FROM ranking_state`).WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(`DELETE FROM application_rankings`).WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectQuery(`INSERT INTO ranking_state`).WillReturnError(stderrors.New("disk full"))
	mock.ExpectRollback()

	plan, _, _ := rankAll("x")
	_, changed, err := NewRankingRepository(db).Sync(context.Background(), 1, plan)
	require.Error(t, err)
	assert.False(t, changed)
	assert.Contains(t, err.Error(), "store ranking state")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadRanked(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery(`FROM application_rankings r\s+JOIN applications a`).
		WillReturnRows(sqlmock.NewRows(topRankedColumns).
			AddRow("a", "Asha Rao", "Computer Science", "Assistant Professor", "IIT Delhi", 81.2, 1, "shortlisted", 12, 4))

	ranked, err := NewRankingRepository(db).LoadRanked(context.Background())
	require.NoError(t, err)
	require.Len(t, ranked, 1)
	assert.Equal(t, 1, *ranked[0].Rank)
	assert.Equal(t, 81.2, *ranked[0].Score)
	assert.Equal(t, 16, ranked[0].PaperCount)
}
