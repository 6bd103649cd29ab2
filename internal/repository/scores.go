// internal/repository/scores.go
package repository

import (
	"context"
	"database/sql"
	"fmt"

	"faculty-ranking-workers/internal/common/database"
	errs "faculty-ranking-workers/internal/common/errors"
	"faculty-ranking-workers/internal/models"
	"faculty-ranking-workers/internal/scoring"

	"github.com/lib/pq"
)

// ScoreRepository persists per-criterion breakdowns and the composite score.
type ScoreRepository struct {
	db *sql.DB
}

func NewScoreRepository(db *sql.DB) *ScoreRepository {
	return &ScoreRepository{db: db}
}

const upsertScore = `
	INSERT INTO application_scores (application_id, criterion_id, score, max_score, weighted_score, updated_at)
	VALUES ($1, $2, $3, $4, $5, NOW())
	ON CONFLICT (application_id, criterion_id) DO UPDATE
	SET score = EXCLUDED.score,
	    max_score = EXCLUDED.max_score,
	    weighted_score = EXCLUDED.weighted_score,
	    updated_at = EXCLUDED.updated_at`

// UpsertScores writes every record in one transaction. Only rows of applicationID are touched.
func (r *ScoreRepository) UpsertScores(ctx context.Context, applicationID string, records []models.CriterionScore) error {
	err := database.WithTx(ctx, r.db, nil, func(tx *sql.Tx) error {
		for _, rec := range records {
			if _, err := tx.ExecContext(ctx, upsertScore,
				applicationID, rec.CriterionID, rec.Score, rec.MaxScore, rec.WeightedScore,
			); err != nil {
				return fmt.Errorf("upsert %s: %w", rec.Criterion, err)
			}
		}
		return nil
	})
	if err != nil {
		return errs.NewScorePersistenceFailedError(applicationID, err)
	}
	return nil
}

// UpdateCompositeScore sets applications.score and nothing else.
func (r *ScoreRepository) UpdateCompositeScore(ctx context.Context, applicationID string, score float64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE applications SET score = $2 WHERE id = $1`,
		applicationID, score)
	if err != nil {
		return errs.NewScorePersistenceFailedError(applicationID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errs.NewScorePersistenceFailedError(applicationID, err)
	}
	if n == 0 {
		return errs.NewApplicationNotFoundError(applicationID)
	}
	return nil
}

const selectBreakdown = `
	SELECT s.application_id, s.criterion_id, c.name, s.score, s.max_score, c.weight,
	       s.weighted_score, s.updated_at
	FROM application_scores s
	JOIN scoring_criteria c ON c.id = s.criterion_id
	WHERE s.application_id = ANY($1)
	ORDER BY s.application_id, s.criterion_id`

// Breakdown returns the stored criterion rows of one application joined with their
// criterion name and weight. An unknown application is NotFound; a known one that was
// never scored yields an empty slice.
func (r *ScoreRepository) Breakdown(ctx context.Context, applicationID string) ([]models.CriterionScore, error) {
	all, err := r.Breakdowns(ctx, []string{applicationID})
	if err != nil {
		return nil, err
	}
	if rows := all[applicationID]; len(rows) > 0 {
		return rows, nil
	}

	var exists bool
	if err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM applications WHERE id = $1)`, applicationID,
	).Scan(&exists); err != nil {
		return nil, queryError(ctx, "scoreBreakdown", err)
	}
	if !exists {
		return nil, errs.NewApplicationNotFoundError(applicationID)
	}
	return []models.CriterionScore{}, nil
}

// Breakdowns loads the breakdowns of several applications in one query.
func (r *ScoreRepository) Breakdowns(ctx context.Context, applicationIDs []string) (map[string][]models.CriterionScore, error) {
	rows, err := r.db.QueryContext(ctx, selectBreakdown, pq.Array(applicationIDs))
	if err != nil {
		return nil, queryError(ctx, "scoreBreakdown", err)
	}
	defer rows.Close()

	out := make(map[string][]models.CriterionScore, len(applicationIDs))
	for rows.Next() {
		var s models.CriterionScore
		if err := rows.Scan(&s.ApplicationID, &s.CriterionID, &s.Criterion, &s.Score, &s.MaxScore,
			&s.Weight, &s.WeightedScore, &s.UpdatedAt); err != nil {
			return nil, queryError(ctx, "scoreBreakdown", err)
		}
		out[s.ApplicationID] = append(out[s.ApplicationID], s)
	}
	if err := rows.Err(); err != nil {
		return nil, queryError(ctx, "scoreBreakdown", err)
	}
	return out, nil
}

const upsertCriterion = `
	INSERT INTO scoring_criteria (id, name, weight, max_score)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (id) DO UPDATE
	SET name = EXCLUDED.name, weight = EXCLUDED.weight, max_score = EXCLUDED.max_score`

// SyncCriteria makes scoring_criteria match the weight table the process was started with,
// so stored breakdowns join against the weights actually used.
func (r *ScoreRepository) SyncCriteria(ctx context.Context, weights scoring.WeightTable) error {
	return database.WithTx(ctx, r.db, nil, func(tx *sql.Tx) error {
		for _, cw := range weights.Criteria() {
			if _, err := tx.ExecContext(ctx, upsertCriterion, cw.ID, cw.Name, cw.Weight, models.MaxCriterionScore); err != nil {
				return fmt.Errorf("sync criterion %s: %w", cw.Name, err)
			}
		}
		return nil
	})
}
