// internal/repository/applications_test.go
package repository

import (
	"context"
	"database/sql"
	stderrors "errors"
	"testing"
	"time"

	errs "faculty-ranking-workers/internal/common/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var applicationColumns = []string{
	"id", "full_name", "email", "phone", "department", "position",
	"highest_degree", "university", "graduation_year", "years_of_experience",
	"previous_positions", "publications",
	"cv", "cover_letter", "research_statement", "teaching_statement", "degree_certificate",
	"score", "status", "created_at",
}

var experienceColumns = []string{"institution", "post", "description", "start_date", "end_date"}

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestLoadCandidate_ReadsSnapshotInOneTransaction(t *testing.T) {
	db, mock := newMock(t)
	created := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM applications\s+WHERE id = \$1`).
		WithArgs("app-7").
		WillReturnRows(sqlmock.NewRows(applicationColumns).AddRow(
			"app-7", "Ravi Kumar", "ravi@example.org", "", "Physics", "Associate Professor",
			"Ph.D.", "IISc Bangalore", 2015, "6 years",
			"Postdoc at CERN", nil,
			true, false, true, false, true,
			nil, "in_review", created,
		))
	mock.ExpectQuery(`FROM teaching_experiences`).
		WithArgs("app-7").
		WillReturnRows(sqlmock.NewRows(experienceColumns).
			AddRow("IISER Pune", "Visiting Faculty", "Taught quantum mechanics", "2019-07-01", ""))
	mock.ExpectQuery(`FROM research_experiences`).
		WithArgs("app-7").
		WillReturnRows(sqlmock.NewRows(experienceColumns))
	mock.ExpectQuery(`FROM research_info`).
		WithArgs("app-7").
		WillReturnRows(sqlmock.NewRows([]string{"scopus", "conf", "books", "scopus_id", "scholar", "orcid"}).
			AddRow(9, 3, 1, "", "", "0000-0002-1825-0097"))
	mock.ExpectCommit()

	c, err := NewApplicationRepository(db).LoadCandidate(context.Background(), "app-7")
	require.NoError(t, err)

	assert.Equal(t, "Ravi Kumar", c.Application.FullName)
	require.NotNil(t, c.Application.GraduationYear)
	assert.Equal(t, 2015, *c.Application.GraduationYear)
	assert.Nil(t, c.Application.Publications)
	assert.Nil(t, c.Application.Score)
	assert.True(t, c.Application.Documents.CV)
	assert.False(t, c.Application.Documents.CoverLetter)
	assert.Equal(t, created, c.Application.CreatedAt)

	require.Len(t, c.TeachingExperiences, 1)
	assert.Equal(t, "Visiting Faculty", c.TeachingExperiences[0].Post)
	assert.NotNil(t, c.ResearchExperiences)
	assert.Empty(t, c.ResearchExperiences)

	assert.True(t, c.HasResearchInfo)
	assert.Equal(t, 13, c.ResearchInfo.TotalPublications())
	assert.True(t, c.ResearchInfo.HasResearcherID())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadCandidate_MissingResearchInfoIsZero(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM applications`).
		WithArgs("app-8").
		WillReturnRows(sqlmock.NewRows(applicationColumns).AddRow(
			"app-8", "Meera Das", "", "", "", "", "", "", nil, "", "", 4,
			false, false, false, false, false,
			61.5, "in_review", time.Now(),
		))
	mock.ExpectQuery(`FROM teaching_experiences`).WillReturnRows(sqlmock.NewRows(experienceColumns))
	mock.ExpectQuery(`FROM research_experiences`).WillReturnRows(sqlmock.NewRows(experienceColumns))
	mock.ExpectQuery(`FROM research_info`).WillReturnError(sql.ErrNoRows)
	mock.ExpectCommit()

	c, err := NewApplicationRepository(db).LoadCandidate(context.Background(), "app-8")
	require.NoError(t, err)

	assert.False(t, c.HasResearchInfo)
	assert.Zero(t, c.ResearchInfo.TotalPublications())
	require.NotNil(t, c.Application.Publications)
	assert.Equal(t, 4, *c.Application.Publications)
	require.NotNil(t, c.Application.Score)
	assert.Equal(t, 61.5, *c.Application.Score)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadCandidate_NotFound(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM applications`).
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows(applicationColumns))
	mock.ExpectRollback()

	_, err := NewApplicationRepository(db).LoadCandidate(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errs.ErrApplicationNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGet(t *testing.T) {
	db, mock := newMock(t)
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM applications\s+WHERE id = \$1`).
		WithArgs("app-1").
		WillReturnRows(sqlmock.NewRows(applicationColumns).AddRow(
			"app-1", "Asha Rao", "asha@example.org", "", "Physics", "Assistant Professor",
			"PhD", "IIT Madras", 2018, "6 years", "", nil,
			true, false, false, false, true,
			62.5, "in_review", created,
		))
	mock.ExpectQuery(`FROM applications`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(applicationColumns))

	repo := NewApplicationRepository(db)
	app, err := repo.Get(context.Background(), "app-1")
	require.NoError(t, err)
	assert.Equal(t, "Asha Rao", app.FullName)
	assert.Equal(t, "Physics", app.Department)
	require.NotNil(t, app.Score)
	assert.Equal(t, 62.5, *app.Score)
	assert.Nil(t, app.Publications)

	_, err = repo.Get(context.Background(), "missing")
	assert.True(t, stderrors.Is(err, errs.ErrApplicationNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadCandidate_QueryFailureIsLoadFailed(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM applications`).WillReturnError(stderrors.New("connection reset by peer"))
	mock.ExpectRollback()

	_, err := NewApplicationRepository(db).LoadCandidate(context.Background(), "app-1")
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errs.ErrApplicationLoadFailed))
	assert.NoError(t, mock.ExpectationsWereMet())
}

var topRankedColumns = []string{
	"id", "full_name", "department", "position", "university", "score", "rank", "status",
	"scopus", "conference",
}

func TestTopRanked_DefaultsToPublicationOrder(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery(`ORDER BY COALESCE\(ri.scopus_general_papers, 0\) \+ COALESCE\(ri.conference_papers, 0\) DESC`).
		WithArgs("Computer Science", "", 5).
		WillReturnRows(sqlmock.NewRows(topRankedColumns).
			AddRow("app-1", "Asha Rao", "Computer Science", "Assistant Professor", "IIT Delhi", 75.65, 1, "in_review", 12, 4).
			AddRow("app-2", "Vikram Sen", "Computer Science", "Professor", "Anna University", nil, nil, "in_review", 3, 1))

	apps, err := NewApplicationRepository(db).TopRanked(context.Background(), TopRankedFilter{
		Department: "Computer Science",
		Limit:      5,
	})
	require.NoError(t, err)
	require.Len(t, apps, 2)

	assert.Equal(t, 16, apps[0].PaperCount)
	require.NotNil(t, apps[0].Rank)
	assert.Equal(t, 1, *apps[0].Rank)
	assert.Nil(t, apps[1].Score)
	assert.Nil(t, apps[1].Rank)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTopRanked_CompositeUsesCanonicalRank(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery(`ORDER BY r.rank ASC NULLS LAST`).
		WithArgs("", "Professor", 10).
		WillReturnRows(sqlmock.NewRows(topRankedColumns))

	apps, err := NewApplicationRepository(db).TopRanked(context.Background(), TopRankedFilter{
		Position: "Professor",
		Limit:    10,
		SortBy:   SortByComposite,
	})
	require.NoError(t, err)
	assert.NotNil(t, apps)
	assert.Empty(t, apps)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTopRanked_QueryError(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(`FROM applications a`).WillReturnError(stderrors.New("syntax error"))

	_, err := NewApplicationRepository(db).TopRanked(context.Background(), TopRankedFilter{Limit: 1})
	require.Error(t, err)

	var stdErr *errs.StandardError
	require.True(t, stderrors.As(err, &stdErr))
	assert.Equal(t, errs.ErrCodeQueryExecutionFailed, stdErr.Code)
}
