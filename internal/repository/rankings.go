// internal/repository/rankings.go
package repository

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"

	"faculty-ranking-workers/internal/common/database"
	"faculty-ranking-workers/internal/models"

	"github.com/lib/pq"
)

// RankingRepository owns the application_rankings and ranking_state tables.
type RankingRepository struct {
	db *sql.DB
}

func NewRankingRepository(db *sql.DB) *RankingRepository {
	return &RankingRepository{db: db}
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

// loadScored returns every application that has a composite score. Rank is left zero.
func loadScored(ctx context.Context, q queryer) ([]models.RankingEntry, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, score, created_at FROM applications WHERE score IS NOT NULL`)
	if err != nil {
		return nil, queryError(ctx, "scoredApplications", err)
	}
	defer rows.Close()

	var out []models.RankingEntry
	for rows.Next() {
		var e models.RankingEntry
		if err := rows.Scan(&e.ApplicationID, &e.Score, &e.CreatedAt); err != nil {
			return nil, queryError(ctx, "scoredApplications", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, queryError(ctx, "scoredApplications", err)
	}
	return out, nil
}

const upsertRankingState = `
	INSERT INTO ranking_state (id, fingerprint, version, updated_at)
	VALUES (1, $1, 1, CURRENT_TIMESTAMP)
	ON CONFLICT (id) DO UPDATE
	SET fingerprint = EXCLUDED.fingerprint,
	    version = ranking_state.version + 1,
	    updated_at = CURRENT_TIMESTAMP
	RETURNING version`

// Sync recomputes the ranking inside one transaction holding the advisory lock. Scores are
// read after the lock is taken and the fingerprint is written next to the table it
// describes, so a writer that started on older scores cannot leave the table behind them.
// version is the ranking_state version after the call; changed reports whether plan asked
// for a write.
func (r *RankingRepository) Sync(ctx context.Context, lockKey int64, plan models.RankingPlan) (version int64, changed bool, err error) {
	err = database.WithTx(ctx, r.db, nil, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, lockKey); err != nil {
			return fmt.Errorf("acquire ranking lock: %w", err)
		}

		scored, err := loadScored(ctx, tx)
		if err != nil {
			return err
		}

		var stored string
		err = tx.QueryRowContext(ctx,
			`SELECT fingerprint, version FROM ranking_state WHERE id = 1`).Scan(&stored, &version)
		if err != nil && !stderrors.Is(err, sql.ErrNoRows) {
			return queryError(ctx, "rankingState", err)
		}

		ranked, fingerprint, write := plan(scored, stored)
		if !write {
			return nil
		}
		if err := replaceRanking(ctx, tx, ranked); err != nil {
			return err
		}
		if err := tx.QueryRowContext(ctx, upsertRankingState, fingerprint).Scan(&version); err != nil {
			return fmt.Errorf("store ranking state: %w", err)
		}
		changed = true
		return nil
	})
	if err != nil {
		return 0, false, err
	}
	return version, changed, nil
}

func replaceRanking(ctx context.Context, tx *sql.Tx, entries []models.RankingEntry) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM application_rankings`); err != nil {
		return fmt.Errorf("clear rankings: %w", err)
	}
	if len(entries) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("application_rankings", "application_id", "rank", "score"))
	if err != nil {
		return fmt.Errorf("prepare ranking copy: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx, e.ApplicationID, e.Rank, e.Score); err != nil {
			return fmt.Errorf("copy rank %d: %w", e.Rank, err)
		}
	}
	if _, err := stmt.ExecContext(ctx); err != nil {
		return fmt.Errorf("flush ranking copy: %w", err)
	}
	return nil
}

const selectRanked = `
	SELECT a.id, a.full_name, COALESCE(a.department, ''), COALESCE(a.position, ''),
	       COALESCE(a.university, ''), r.score, r.rank, a.status,
	       COALESCE(ri.scopus_general_papers, 0), COALESCE(ri.conference_papers, 0)
	FROM application_rankings r
	JOIN applications a ON a.id = r.application_id
	LEFT JOIN research_info ri ON ri.application_id = a.id
	ORDER BY r.rank`

// LoadRanked returns the stored ranking joined with the application details.
func (r *RankingRepository) LoadRanked(ctx context.Context) ([]models.RankedApplication, error) {
	rows, err := r.db.QueryContext(ctx, selectRanked)
	if err != nil {
		return nil, queryError(ctx, "ranking", err)
	}
	defer rows.Close()

	out := []models.RankedApplication{}
	for rows.Next() {
		var (
			a     models.RankedApplication
			score float64
			rank  int
		)
		if err := rows.Scan(&a.ID, &a.FullName, &a.Department, &a.Position, &a.University,
			&score, &rank, &a.Status, &a.ScopusPapers, &a.ConferencePapers); err != nil {
			return nil, queryError(ctx, "ranking", err)
		}
		a.Score = &score
		a.Rank = &rank
		a.PaperCount = a.ScopusPapers + a.ConferencePapers
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, queryError(ctx, "ranking", err)
	}
	return out, nil
}
