// Package worker runs compile and run tasks one at a time on a dedicated
// goroutine.
package worker

import (
	"context"
	"sync"

	"cobide/internal/errors"
	"cobide/internal/log"
)

// Task is a unit of work. The context is cancelled when the queue is
// closed.
type Task func(ctx context.Context)

// Queue executes submitted tasks in submission order with at most one task
// active at any time. Submitting while a task is active queues the new task
// behind it.
type Queue struct {
	mu      sync.Mutex
	cond    *sync.Cond
	pending []Task
	busy    bool
	closed  bool

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// NewQueue starts the worker goroutine
func NewQueue() *Queue {
	ctx, cancel := context.WithCancel(context.Background())
	q := &Queue{ctx: ctx, cancel: cancel, done: make(chan struct{})}
	q.cond = sync.NewCond(&q.mu)
	go q.loop()
	return q
}

// Submit queues task. It fails once the queue is closed.
func (q *Queue) Submit(task Task) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return errors.ErrQueueClosed
	}
	q.pending = append(q.pending, task)
	if q.busy {
		log.Debugf("worker busy, task queued (%d pending)", len(q.pending))
	}
	q.cond.Broadcast()
	return nil
}

// Busy reports whether a task is executing
func (q *Queue) Busy() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.busy
}

// Pending returns the number of tasks waiting for the slot
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Wait blocks until no task is active or pending
func (q *Queue) Wait() {
	q.mu.Lock()
	defer q.mu.Unlock()
	for (q.busy || len(q.pending) > 0) && !q.closed {
		q.cond.Wait()
	}
}

// Close stops accepting tasks, drops the pending ones and waits for the
// active task to return.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		<-q.done
		return
	}
	q.closed = true
	if n := len(q.pending); n > 0 {
		log.Debugf("worker closing, dropping %d pending tasks", n)
	}
	q.pending = nil
	q.cond.Broadcast()
	q.mu.Unlock()

	q.cancel()
	<-q.done
}

func (q *Queue) loop() {
	defer close(q.done)
	for {
		q.mu.Lock()
		for len(q.pending) == 0 && !q.closed {
			q.cond.Wait()
		}
		if q.closed {
			q.mu.Unlock()
			return
		}
		task := q.pending[0]
		q.pending[0] = nil
		q.pending = q.pending[1:]
		q.busy = true
		q.mu.Unlock()

		q.run(task)

		q.mu.Lock()
		q.busy = false
		q.cond.Broadcast()
		q.mu.Unlock()
	}
}

func (q *Queue) run(task Task) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("worker task panicked: %v", r)
		}
	}()
	task(q.ctx)
}
