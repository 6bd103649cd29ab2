// internal/repository/applications.go
package repository

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"

	"faculty-ranking-workers/internal/common/database"
	errs "faculty-ranking-workers/internal/common/errors"
	"faculty-ranking-workers/internal/models"
)

const (
	SortByPublications = "publications"
	SortByComposite    = "composite"
)

// ApplicationRepository reads candidate snapshots and the top-ranked listing.
type ApplicationRepository struct {
	db *sql.DB
}

func NewApplicationRepository(db *sql.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

const selectApplication = `
	SELECT id, full_name, COALESCE(email, ''), COALESCE(phone, ''),
	       COALESCE(department, ''), COALESCE(position, ''),
	       COALESCE(highest_degree, ''), COALESCE(university, ''),
	       graduation_year, COALESCE(years_of_experience, ''),
	       COALESCE(previous_positions, ''), publications,
	       COALESCE(cv_path, '') <> '', COALESCE(cover_letter_path, '') <> '',
	       COALESCE(research_statement_path, '') <> '', COALESCE(teaching_statement_path, '') <> '',
	       COALESCE(degree_certificate_path, '') <> '',
	       score, status, created_at
	FROM applications
	WHERE id = $1`

const selectExperiences = `
	SELECT COALESCE(institution, ''), COALESCE(post, ''), COALESCE(description, ''),
	       COALESCE(to_char(start_date, 'YYYY-MM-DD'), ''), COALESCE(to_char(end_date, 'YYYY-MM-DD'), '')
	FROM %s
	WHERE application_id = $1
	ORDER BY sort_order, id`

const selectResearchInfo = `
	SELECT scopus_general_papers, conference_papers, edited_books,
	       COALESCE(scopus_id, ''), COALESCE(google_scholar_id, ''), COALESCE(orcid, '')
	FROM research_info
	WHERE application_id = $1`

// LoadCandidate reads the application and its dependent rows inside one read-only
// transaction so every scorer sees the same snapshot.
func (r *ApplicationRepository) LoadCandidate(ctx context.Context, applicationID string) (models.Candidate, error) {
	var candidate models.Candidate

	err := database.WithTx(ctx, r.db, &sql.TxOptions{ReadOnly: true, Isolation: sql.LevelRepeatableRead}, func(tx *sql.Tx) error {
		app, err := scanApplication(tx.QueryRowContext(ctx, selectApplication, applicationID))
		if err != nil {
			return err
		}

		teaching, err := loadExperiences(ctx, tx, "teaching_experiences", applicationID)
		if err != nil {
			return err
		}
		research, err := loadExperiences(ctx, tx, "research_experiences", applicationID)
		if err != nil {
			return err
		}

		var info models.ResearchInfo
		err = tx.QueryRowContext(ctx, selectResearchInfo, applicationID).Scan(
			&info.ScopusGeneralPapers, &info.ConferencePapers, &info.EditedBooks,
			&info.ScopusID, &info.GoogleScholarID, &info.ORCID,
		)
		switch {
		case stderrors.Is(err, sql.ErrNoRows):
			candidate = models.NewCandidate(app, teaching, research, nil)
		case err != nil:
			return fmt.Errorf("load research info: %w", err)
		default:
			candidate = models.NewCandidate(app, teaching, research, &info)
		}
		return nil
	})
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return models.Candidate{}, errs.NewApplicationNotFoundError(applicationID)
		}
		return models.Candidate{}, errs.NewApplicationLoadFailedError(applicationID, err)
	}
	return candidate, nil
}

// Get reads the application row alone, without experiences or research info.
func (r *ApplicationRepository) Get(ctx context.Context, applicationID string) (models.Application, error) {
	app, err := scanApplication(r.db.QueryRowContext(ctx, selectApplication, applicationID))
	if stderrors.Is(err, sql.ErrNoRows) {
		return models.Application{}, errs.NewApplicationNotFoundError(applicationID)
	}
	if err != nil {
		return models.Application{}, queryError(ctx, "getApplication", err)
	}
	return app, nil
}

func scanApplication(row *sql.Row) (models.Application, error) {
	var (
		app            models.Application
		graduationYear sql.NullInt64
		publications   sql.NullInt64
		score          sql.NullFloat64
	)
	err := row.Scan(
		&app.ID, &app.FullName, &app.Email, &app.Phone,
		&app.Department, &app.Position,
		&app.HighestDegree, &app.University,
		&graduationYear, &app.YearsOfExperience,
		&app.PreviousPositions, &publications,
		&app.Documents.CV, &app.Documents.CoverLetter,
		&app.Documents.ResearchStatement, &app.Documents.TeachingStatement,
		&app.Documents.DegreeCertificate,
		&score, &app.Status, &app.CreatedAt,
	)
	if err != nil {
		return models.Application{}, err
	}
	if graduationYear.Valid {
		y := int(graduationYear.Int64)
		app.GraduationYear = &y
	}
	if publications.Valid {
		p := int(publications.Int64)
		app.Publications = &p
	}
	if score.Valid {
		s := score.Float64
		app.Score = &s
	}
	return app, nil
}

func loadExperiences(ctx context.Context, tx *sql.Tx, table, applicationID string) ([]models.Experience, error) {
	rows, err := tx.QueryContext(ctx, fmt.Sprintf(selectExperiences, table), applicationID)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", table, err)
	}
	defer rows.Close()

	var out []models.Experience
	for rows.Next() {
		var e models.Experience
		if err := rows.Scan(&e.Institution, &e.Post, &e.Description, &e.StartDate, &e.EndDate); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// TopRankedFilter narrows the top-ranked listing. Empty strings match everything.
type TopRankedFilter struct {
	Department string
	Position   string
	Limit      int
	SortBy     string
}

const selectTopRanked = `
	SELECT a.id, a.full_name, COALESCE(a.department, ''), COALESCE(a.position, ''),
	       COALESCE(a.university, ''), a.score, r.rank, a.status,
	       COALESCE(ri.scopus_general_papers, 0), COALESCE(ri.conference_papers, 0)
	FROM applications a
	LEFT JOIN research_info ri ON ri.application_id = a.id
	LEFT JOIN application_rankings r ON r.application_id = a.id
	WHERE ($1 = '' OR a.department = $1)
	  AND ($2 = '' OR a.position = $2)
	ORDER BY %s
	LIMIT $3`

const (
	orderByPublications = "COALESCE(ri.scopus_general_papers, 0) + COALESCE(ri.conference_papers, 0) DESC, a.created_at ASC, a.id ASC"
	orderByComposite    = "r.rank ASC NULLS LAST, a.created_at ASC, a.id ASC"
)

// TopRanked lists applications by paper count (the default) or by canonical rank.
func (r *ApplicationRepository) TopRanked(ctx context.Context, f TopRankedFilter) ([]models.RankedApplication, error) {
	order := orderByPublications
	if f.SortBy == SortByComposite {
		order = orderByComposite
	}

	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(selectTopRanked, order), f.Department, f.Position, f.Limit)
	if err != nil {
		return nil, queryError(ctx, "topRanked", err)
	}
	defer rows.Close()

	out := []models.RankedApplication{}
	for rows.Next() {
		var (
			a     models.RankedApplication
			score sql.NullFloat64
			rank  sql.NullInt64
		)
		if err := rows.Scan(&a.ID, &a.FullName, &a.Department, &a.Position, &a.University,
			&score, &rank, &a.Status, &a.ScopusPapers, &a.ConferencePapers); err != nil {
			return nil, queryError(ctx, "topRanked", err)
		}
		if score.Valid {
			s := score.Float64
			a.Score = &s
		}
		if rank.Valid {
			rk := int(rank.Int64)
			a.Rank = &rk
		}
		a.PaperCount = a.ScopusPapers + a.ConferencePapers
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, queryError(ctx, "topRanked", err)
	}
	return out, nil
}
