// internal/repository/repository.go

// Package repository holds the PostgreSQL access used by the scoring engine and its workers.
package repository

import (
	"context"
	stderrors "errors"

	errs "faculty-ranking-workers/internal/common/errors"
)

// queryError maps a failed read to QUERY_TIMEOUT when the job deadline expired and to
// QUERY_EXECUTION_FAILED otherwise.
func queryError(ctx context.Context, queryType string, err error) error {
	if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
		return errs.NewQueryTimeoutError(queryType)
	}
	return errs.NewQueryExecutionFailedError(queryType, err)
}
