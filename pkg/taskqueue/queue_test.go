package taskqueue

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestQueue() *Queue {
	return New(Config{Capacity: 8, RetryDelay: time.Millisecond})
}

func TestQueue_RunsTasks(t *testing.T) {
	q := newTestQueue()

	var ran atomic.Int32
	q.Enqueue("job-1", "receipt-print", 3, func() error {
		ran.Add(1)
		return nil
	})
	q.Shutdown()

	assert.Equal(t, int32(1), ran.Load())
	assert.Empty(t, q.FailedTasks())
}

func TestQueue_RetriesUntilSuccess(t *testing.T) {
	q := newTestQueue()

	var attempts atomic.Int32
	q.Enqueue("job-1", "receipt-print", 3, func() error {
		if attempts.Add(1) < 3 {
			return errors.New("printer offline")
		}
		return nil
	})
	q.Shutdown()

	assert.Equal(t, int32(3), attempts.Load())
	assert.Empty(t, q.FailedTasks())
}

func TestQueue_JournalsExhaustedTasks(t *testing.T) {
	q := newTestQueue()

	q.Enqueue("job-1", "drawer-kick", 2, func() error {
		return errors.New("no response")
	})
	q.Shutdown()

	failed := q.FailedTasks()
	require.Len(t, failed, 1)
	assert.Equal(t, "job-1", failed[0].ID)
	assert.Equal(t, "drawer-kick", failed[0].Kind)
	assert.Equal(t, 2, failed[0].Attempts)
	assert.Equal(t, "no response", failed[0].LastError)
}

func TestQueue_ClearFailed(t *testing.T) {
	q := newTestQueue()

	q.Enqueue("job-1", "receipt-print", 1, func() error {
		return errors.New("boom")
	})
	q.Shutdown()

	require.Len(t, q.FailedTasks(), 1)
	q.ClearFailed()
	assert.Empty(t, q.FailedTasks())
}

func TestQueue_FullQueueJournalsImmediately(t *testing.T) {
	q := New(Config{Capacity: 1, RetryDelay: time.Millisecond})

	block := make(chan struct{})
	q.Enqueue("blocker", "receipt-print", 1, func() error {
		<-block
		return nil
	})

	// give the worker time to pick up the blocker so the buffer is free
	time.Sleep(10 * time.Millisecond)

	q.Enqueue("queued", "receipt-print", 1, func() error { return nil })
	q.Enqueue("dropped", "receipt-print", 1, func() error { return nil })

	close(block)
	q.Shutdown()

	failed := q.FailedTasks()
	require.Len(t, failed, 1)
	assert.Equal(t, "dropped", failed[0].ID)
	assert.Equal(t, "task queue full", failed[0].LastError)
}

func TestQueue_ProcessesInOrder(t *testing.T) {
	q := newTestQueue()

	var order []string
	for _, id := range []string{"a", "b", "c"} {
		id := id
		q.Enqueue(id, "receipt-print", 1, func() error {
			order = append(order, id)
			return nil
		})
	}
	q.Shutdown()

	assert.Equal(t, []string{"a", "b", "c"}, order)
}
