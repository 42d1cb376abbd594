// Package worker runs tasks one at a time in submission order.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"photogallery/internal/metrics"
)

var ErrClosed = errors.New("worker queue closed")

// Task is a unit of work. Its result is handed back to the submitter.
type Task func() (any, error)

type result struct {
	value any
	err   error
}

type job struct {
	name string
	task Task
	done chan result
}

// Queue is a single-worker FIFO. Tasks never overlap, so state touched only
// from tasks needs no further locking. A running task is never interrupted.
type Queue struct {
	jobs    chan job
	logger  zerolog.Logger
	closed  bool
	mu      sync.RWMutex
	wg      sync.WaitGroup
	started sync.Once
}

func New(size int, logger zerolog.Logger) *Queue {
	if size < 0 {
		size = 0
	}
	return &Queue{
		jobs:   make(chan job, size),
		logger: logger,
	}
}

// Start launches the worker goroutine. Calling it again is a no-op.
func (q *Queue) Start() {
	q.started.Do(func() {
		q.wg.Add(1)
		go q.run()
	})
}

func (q *Queue) run() {
	defer q.wg.Done()

	for j := range q.jobs {
		metrics.WorkerQueueDepth.Dec()
		value, err := q.execute(j)
		j.done <- result{value: value, err: err}
	}
}

func (q *Queue) execute(j job) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			q.logger.Error().Str("task", j.name).Interface("panic", r).Msg("task panicked")
			err = fmt.Errorf("task %s panicked: %v", j.name, r)
		}
	}()
	return j.task()
}

// Submit enqueues a task and waits for its result. If ctx ends first the
// caller stops waiting; the task still runs when its turn comes.
func (q *Queue) Submit(ctx context.Context, name string, task Task) (any, error) {
	j := job{name: name, task: task, done: make(chan result, 1)}

	q.mu.RLock()
	if q.closed {
		q.mu.RUnlock()
		return nil, ErrClosed
	}
	// counted before the send so the worker's Dec never runs first
	metrics.WorkerQueueDepth.Inc()
	select {
	case q.jobs <- j:
		q.mu.RUnlock()
	case <-ctx.Done():
		metrics.WorkerQueueDepth.Dec()
		q.mu.RUnlock()
		return nil, ctx.Err()
	}

	select {
	case r := <-j.done:
		return r.value, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close stops accepting tasks and waits for queued ones to finish.
func (q *Queue) Close() {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.jobs)
	}
	q.mu.Unlock()

	q.wg.Wait()
}
