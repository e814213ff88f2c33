package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

type job struct {
	jobType string
	payload []byte
}

// InMemoryQueue is a FIFO queue used in tests. It implements both the
// producer and consumer contracts; jobs sit in memory until Drain is called.
type InMemoryQueue struct {
	mu       sync.Mutex
	jobs     []job
	handlers map[string]Handler
}

// NewInMemoryQueue creates an empty queue with no handlers.
func NewInMemoryQueue() *InMemoryQueue {
	return &InMemoryQueue{handlers: make(map[string]Handler)}
}

func (q *InMemoryQueue) Enqueue(ctx context.Context, jobType string, payload []byte) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	p := make([]byte, len(payload))
	copy(p, payload)
	q.jobs = append(q.jobs, job{jobType: jobType, payload: p})
	return nil
}

func (q *InMemoryQueue) Register(jobType string, h Handler) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.handlers[jobType] = h
}

// Len reports the number of undelivered jobs.
func (q *InMemoryQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.jobs)
}

// Drain delivers every queued job once, in order, and returns the combined
// handler errors. Permanent failures are part of the returned error but do
// not stop the drain, mirroring a transport discarding the job.
func (q *InMemoryQueue) Drain(ctx context.Context) error {
	var errs []error
	for {
		q.mu.Lock()
		if len(q.jobs) == 0 {
			q.mu.Unlock()
			break
		}
		j := q.jobs[0]
		q.jobs = q.jobs[1:]
		h, ok := q.handlers[j.jobType]
		q.mu.Unlock()

		if !ok {
			errs = append(errs, fmt.Errorf("no handler for job type %q", j.jobType))
			continue
		}
		if err := h(ctx, j.payload); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
