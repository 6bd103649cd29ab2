// internal/repository/scores_test.go
package repository

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	errs "faculty-ranking-workers/internal/common/errors"
	"faculty-ranking-workers/internal/models"
	"faculty-ranking-workers/internal/scoring"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecords() []models.CriterionScore {
	return scoring.BuildRecords("app-101", map[string]float64{
		scoring.Education:     100,
		scoring.Research:      60,
		scoring.Teaching:      68,
		scoring.Industry:      70,
		scoring.Publications:  55,
		scoring.Awards:        90,
		scoring.Communication: 92,
	}, scoring.MustDefaultWeightTable())
}

func TestUpsertScores_WritesEveryCriterionInOneTransaction(t *testing.T) {
	db, mock := newMock(t)
	records := sampleRecords()

	mock.ExpectBegin()
	for _, r := range records {
		mock.ExpectExec(`INSERT INTO application_scores`).
			WithArgs("app-101", r.CriterionID, r.Score, 100.0, r.WeightedScore).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	require.NoError(t, NewScoreRepository(db).UpsertScores(context.Background(), "app-101", records))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertScores_RollsBackOnFailure(t *testing.T) {
	db, mock := newMock(t)
	records := sampleRecords()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO application_scores`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO application_scores`).WillReturnError(stderrors.New("deadlock detected"))
	mock.ExpectRollback()

	err := NewScoreRepository(db).UpsertScores(context.Background(), "app-101", records)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errs.ErrScorePersistenceFailed))
	assert.Contains(t, err.Error(), "research")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateCompositeScore(t *testing.T) {
	db, mock := newMock(t)

	// only the score column is written
	mock.ExpectExec(`^UPDATE applications SET score = \$2 WHERE id = \$1$`).
		WithArgs("app-101", 75.65).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, NewScoreRepository(db).UpdateCompositeScore(context.Background(), "app-101", 75.65))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateCompositeScore_NoRowsIsNotFound(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectExec(`UPDATE applications`).
		WithArgs("ghost", 10.0).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := NewScoreRepository(db).UpdateCompositeScore(context.Background(), "ghost", 10)
	assert.True(t, stderrors.Is(err, errs.ErrApplicationNotFound))
}

var breakdownColumns = []string{
	"application_id", "criterion_id", "name", "score", "max_score", "weight", "weighted_score", "updated_at",
}

func TestBreakdown_JoinsCriterionNames(t *testing.T) {
	db, mock := newMock(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`JOIN scoring_criteria c ON c.id = s.criterion_id`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(breakdownColumns).
			AddRow("app-101", 1, "education", 100.0, 100.0, 0.2, 20.0, now).
			AddRow("app-101", 2, "research", 60.0, 100.0, 0.2, 12.0, now))

	rows, err := NewScoreRepository(db).Breakdown(context.Background(), "app-101")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "research", rows[1].Criterion)
	assert.Equal(t, 12.0, rows[1].WeightedScore)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBreakdown_UnscoredVersusUnknown(t *testing.T) {
	db, mock := newMock(t)
	repo := NewScoreRepository(db)

	mock.ExpectQuery(`FROM application_scores`).WillReturnRows(sqlmock.NewRows(breakdownColumns))
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("app-new").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	rows, err := repo.Breakdown(context.Background(), "app-new")
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)

	mock.ExpectQuery(`FROM application_scores`).WillReturnRows(sqlmock.NewRows(breakdownColumns))
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	_, err = repo.Breakdown(context.Background(), "ghost")
	assert.True(t, stderrors.Is(err, errs.ErrApplicationNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBreakdowns_GroupsByApplication(t *testing.T) {
	db, mock := newMock(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`WHERE s.application_id = ANY\(\$1\)`).
		WillReturnRows(sqlmock.NewRows(breakdownColumns).
			AddRow("a", 1, "education", 40.0, 100.0, 0.2, 8.0, now).
			AddRow("b", 1, "education", 55.0, 100.0, 0.2, 11.0, now).
			AddRow("b", 6, "awards", 30.0, 100.0, 0.1, 3.0, now))

	all, err := NewScoreRepository(db).Breakdowns(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Len(t, all["a"], 1)
	assert.Len(t, all["b"], 2)
}

func TestSyncCriteria(t *testing.T) {
	db, mock := newMock(t)
	weights := scoring.MustDefaultWeightTable()

	mock.ExpectBegin()
	for _, cw := range weights.Criteria() {
		mock.ExpectExec(`INSERT INTO scoring_criteria`).
			WithArgs(cw.ID, cw.Name, cw.Weight, 100.0).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	require.NoError(t, NewScoreRepository(db).SyncCriteria(context.Background(), weights))
	assert.NoError(t, mock.ExpectationsWereMet())
}
