package queue

import (
	"context"
	"errors"
)

// Job types consumed by the worker process.
const (
	TypeThumbnails = "thumbnails:generate"
	TypeWelcome    = "email:welcome"
)

// ErrSkipRetry marks a job failure as permanent. Handlers wrap it when
// redelivery can never succeed, e.g. the source record is gone.
var ErrSkipRetry = errors.New("permanent job failure")

// Handler processes a single job payload. Returning an error that wraps
// ErrSkipRetry discards the job; any other error leaves retrying to the
// transport's redelivery policy.
type Handler func(ctx context.Context, payload []byte) error

// Queue is the producer side of the job transport.
type Queue interface {
	Enqueue(ctx context.Context, jobType string, payload []byte) error
}

// Consumer is the worker side of the job transport. Delivery is
// at-least-once with no ordering guarantee.
type Consumer interface {
	Register(jobType string, h Handler)
}

// ThumbnailPayload is the body of a TypeThumbnails job, enqueued right after
// an image upload commits.
type ThumbnailPayload struct {
	UserID    string `json:"userId"`
	FileID    string `json:"fileId"`
	LocalPath string `json:"localPath"`
}

// WelcomePayload is the body of a TypeWelcome job, enqueued on registration.
type WelcomePayload struct {
	UserID string `json:"userId"`
}
