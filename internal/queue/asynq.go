package queue

import (
	"context"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
)

// AsynqClient is the Redis-backed producer used by the API process.
type AsynqClient struct {
	client *asynq.Client
}

// NewAsynqClient creates an enqueue-only client for the given Redis address.
func NewAsynqClient(redisAddr string) *AsynqClient {
	return &AsynqClient{client: asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr})}
}

func (q *AsynqClient) Enqueue(ctx context.Context, jobType string, payload []byte) error {
	if _, err := q.client.EnqueueContext(ctx, asynq.NewTask(jobType, payload)); err != nil {
		return fmt.Errorf("enqueueing %s job: %w", jobType, err)
	}
	return nil
}

// Close releases the underlying Redis connections.
func (q *AsynqClient) Close() error {
	return q.client.Close()
}

// AsynqServer is the Redis-backed consumer run by the worker process.
type AsynqServer struct {
	server *asynq.Server
	mux    *asynq.ServeMux
}

// NewAsynqServer creates a consumer with the given concurrency.
func NewAsynqServer(redisAddr string, concurrency int) *AsynqServer {
	return &AsynqServer{
		server: asynq.NewServer(
			asynq.RedisClientOpt{Addr: redisAddr},
			asynq.Config{Concurrency: concurrency},
		),
		mux: asynq.NewServeMux(),
	}
}

// Register binds a handler to a job type. Errors wrapping ErrSkipRetry are
// translated to asynq's skip-retry signal so the job is not redelivered.
func (s *AsynqServer) Register(jobType string, h Handler) {
	s.mux.HandleFunc(jobType, func(ctx context.Context, t *asynq.Task) error {
		err := h(ctx, t.Payload())
		if errors.Is(err, ErrSkipRetry) {
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		return err
	})
}

// Run starts processing and blocks until shutdown.
func (s *AsynqServer) Run() error {
	return s.server.Run(s.mux)
}
