package taskqueue

import (
	"log"
	"sync"
	"time"
)

// Task is a unit of background work (receipt print, drawer kick).
// It is retried until it succeeds or MaxAttempts is exhausted.
type Task struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	EnqueuedAt  time.Time `json:"enqueued_at"`
	Attempts    int       `json:"attempts"`
	MaxAttempts int       `json:"max_attempts"`
	LastError   string    `json:"last_error,omitempty"`

	run func() error
}

// FailedTask is the journal record kept after a task exhausts its retries.
type FailedTask struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Attempts  int       `json:"attempts"`
	LastError string    `json:"last_error"`
	FailedAt  time.Time `json:"failed_at"`
}

// Queue runs tasks on a single background worker. Callers never wait on a
// task: success or failure is observable only through the failure journal.
type Queue struct {
	tasks      chan *Task
	retryDelay time.Duration

	mu     sync.Mutex
	failed []FailedTask
	done   chan struct{}
}

// Config holds queue tuning knobs.
type Config struct {
	Capacity   int
	RetryDelay time.Duration
}

// DefaultConfig returns sensible defaults for a single POS terminal.
func DefaultConfig() Config {
	return Config{
		Capacity:   64,
		RetryDelay: 2 * time.Second,
	}
}

// New creates a queue and starts its worker.
func New(cfg Config) *Queue {
	if cfg.Capacity <= 0 {
		cfg.Capacity = 64
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 2 * time.Second
	}
	q := &Queue{
		tasks:      make(chan *Task, cfg.Capacity),
		retryDelay: cfg.RetryDelay,
		done:       make(chan struct{}),
	}
	go q.worker()
	return q
}

// Enqueue submits a task. If the queue is full the task is journaled as
// failed immediately rather than blocking the caller.
func (q *Queue) Enqueue(id, kind string, maxAttempts int, run func() error) {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	t := &Task{
		ID:          id,
		Kind:        kind,
		EnqueuedAt:  time.Now(),
		MaxAttempts: maxAttempts,
		run:         run,
	}
	select {
	case q.tasks <- t:
	default:
		log.Printf("[taskqueue] queue full, dropping task %s (%s)", id, kind)
		q.journal(t, "task queue full")
	}
}

// FailedTasks returns a copy of the failure journal.
func (q *Queue) FailedTasks() []FailedTask {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]FailedTask, len(q.failed))
	copy(out, q.failed)
	return out
}

// ClearFailed empties the failure journal.
func (q *Queue) ClearFailed() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.failed = nil
}

// Shutdown stops the worker after draining queued tasks.
func (q *Queue) Shutdown() {
	close(q.tasks)
	<-q.done
}

func (q *Queue) worker() {
	defer close(q.done)
	for t := range q.tasks {
		q.execute(t)
	}
}

func (q *Queue) execute(t *Task) {
	for {
		t.Attempts++
		err := t.run()
		if err == nil {
			return
		}
		t.LastError = err.Error()
		log.Printf("[taskqueue] task %s (%s) attempt %d/%d failed: %v",
			t.ID, t.Kind, t.Attempts, t.MaxAttempts, err)
		if t.Attempts >= t.MaxAttempts {
			q.journal(t, t.LastError)
			return
		}
		time.Sleep(q.retryDelay)
	}
}

func (q *Queue) journal(t *Task, reason string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.failed = append(q.failed, FailedTask{
		ID:        t.ID,
		Kind:      t.Kind,
		Attempts:  t.Attempts,
		LastError: reason,
		FailedAt:  time.Now(),
	})
	// Keep the journal bounded; oldest entries rotate out.
	if len(q.failed) > 200 {
		q.failed = q.failed[len(q.failed)-200:]
	}
}
