// internal/repository/audit.go
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"faculty-ranking-workers/internal/models"
)

// AuditRepository appends scoring runs to audit_log.
type AuditRepository struct {
	db *sql.DB
}

func NewAuditRepository(db *sql.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) RecordScoringRun(ctx context.Context, run models.ScoringRun) error {
	details, err := json.Marshal(map[string]interface{}{
		"runId":            run.RunID,
		"state":            run.State,
		"failedState":      run.FailedState,
		"score":            run.Score,
		"rankingRefreshed": run.RankingRefreshed,
		"error":            run.Error,
		"durationMs":       run.Duration.Milliseconds(),
	})
	if err != nil {
		return fmt.Errorf("marshal audit details: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO audit_log (event_type, resource_type, resource_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		"scoring_run_"+run.State,
		"application",
		run.ApplicationID,
		details,
		run.StartedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}
