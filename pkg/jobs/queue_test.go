package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitForState(t *testing.T, q *Queue, id string, want State) Status {
	t.Helper()
	var status Status
	require.Eventually(t, func() bool {
		var ok bool
		status, ok = q.Status(id)
		return ok && status.State == want
	}, 2*time.Second, 5*time.Millisecond)
	return status
}

func TestQueueRunsJob(t *testing.T) {
	done := make(chan interface{}, 1)
	q := New("test", func(ctx context.Context, job Job) error {
		done <- job.Payload
		return nil
	}, Config{Workers: 2})
	q.Start(context.Background())
	defer q.Stop()

	id, err := q.Submit("greet", "hello")
	require.NoError(t, err)

	assert.Equal(t, "hello", <-done)
	status := waitForState(t, q, id, StateSucceeded)
	assert.Equal(t, 1, status.Attempts)
	assert.Equal(t, "greet", status.Kind)
}

func TestQueueRetriesThenFails(t *testing.T) {
	var calls int32
	q := New("test", func(ctx context.Context, job Job) error {
		atomic.AddInt32(&calls, 1)
		return errors.New("boom")
	}, Config{MaxRetries: 2, RetryDelay: time.Millisecond})
	q.Start(context.Background())
	defer q.Stop()

	id, err := q.Submit("flaky", nil)
	require.NoError(t, err)

	status := waitForState(t, q, id, StateFailed)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	assert.Equal(t, 3, status.Attempts)
	assert.Equal(t, "boom", status.LastError)
}

func TestQueueRetrySucceeds(t *testing.T) {
	var calls int32
	q := New("test", func(ctx context.Context, job Job) error {
		if atomic.AddInt32(&calls, 1) == 1 {
			return errors.New("transient")
		}
		return nil
	}, Config{MaxRetries: 3, RetryDelay: time.Millisecond})
	q.Start(context.Background())
	defer q.Stop()

	id, err := q.Submit("flaky", nil)
	require.NoError(t, err)

	status := waitForState(t, q, id, StateSucceeded)
	assert.Equal(t, 2, status.Attempts)
}

func TestQueueSubmitBeforeStart(t *testing.T) {
	q := New("idle", func(ctx context.Context, job Job) error { return nil }, Config{})

	_, err := q.Submit("x", nil)
	assert.ErrorIs(t, err, ErrNotStarted)
}

func TestQueueStatusUnknown(t *testing.T) {
	q := New("idle", func(ctx context.Context, job Job) error { return nil }, Config{})
	_, ok := q.Status("missing")
	assert.False(t, ok)
}
