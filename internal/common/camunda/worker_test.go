// internal/common/camunda/worker_test.go
package camunda

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"faculty-ranking-workers/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstrument_CallsHandler(t *testing.T) {
	var got int64
	h := Instrument("submit-application", func(_ worker.JobClient, job entities.Job) {
		got = job.Key
	}, nil)

	h(nil, entities.Job{ActivatedJob: &pb.ActivatedJob{Key: 42}})
	assert.Equal(t, int64(42), got)
}

func TestRetryWithBackoff(t *testing.T) {
	rc := &RetryConfig{MaxRetries: 4, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}
	log := logger.NewTestLogger(t)

	attempts := 0
	err := RetryWithBackoff(context.Background(), rc, log, "gateway", func() error {
		attempts++
		if attempts < 3 {
			return stderrors.New("connection refused")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)

	attempts = 0
	err = RetryWithBackoff(context.Background(), rc, log, "gateway", func() error {
		attempts++
		return stderrors.New("permission denied")
	})
	require.Error(t, err)
	assert.Equal(t, 1, attempts)

	attempts = 0
	err = RetryWithBackoff(context.Background(), rc, log, "gateway", func() error {
		attempts++
		return stderrors.New("unavailable")
	})
	require.Error(t, err)
	assert.Equal(t, 4, attempts)
	assert.Contains(t, err.Error(), "gateway failed")
}

func TestRetryWithBackoff_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rc := &RetryConfig{MaxRetries: 5, BaseDelay: time.Hour, MaxDelay: time.Hour}

	err := RetryWithBackoff(ctx, rc, logger.NewNoOpLogger(), "gateway", func() error {
		return stderrors.New("timeout")
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsTransient(t *testing.T) {
	assert.True(t, IsTransient(stderrors.New("rpc error: code = Unavailable desc = connection refused")))
	assert.True(t, IsTransient(stderrors.New("context deadline exceeded")))
	assert.False(t, IsTransient(stderrors.New("invalid credentials")))
}
