// Package worker implements the background job handlers: thumbnail
// generation for uploaded images and welcome notifications for new users.
package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"filesmanager/internal/models"
	"filesmanager/internal/queue"
	"filesmanager/internal/repository"
	"filesmanager/internal/storage"

	"github.com/disintegration/imaging"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Derivatives are generated at these widths, aspect ratio preserved.
var thumbnailWidths = []int{500, 250, 100}

// Worker holds the dependencies shared by all job handlers.
type Worker struct {
	users repository.UserStore
	files repository.FileStore
	blobs storage.BlobStore
	log   *slog.Logger
}

// New creates a worker.
func New(users repository.UserStore, files repository.FileStore, blobs storage.BlobStore, log *slog.Logger) *Worker {
	return &Worker{users: users, files: files, blobs: blobs, log: log}
}

// Register binds the worker's handlers to their job types on the consumer.
func (w *Worker) Register(c queue.Consumer) {
	c.Register(queue.TypeThumbnails, w.HandleThumbnails)
	c.Register(queue.TypeWelcome, w.HandleWelcome)
}

// HandleThumbnails produces the scaled derivatives for one uploaded image.
// A missing source record is a permanent failure; a non-image node is a
// no-op so stale or misrouted jobs drain harmlessly. Scaling and write
// errors are transient and left to the transport's retry policy; partial
// derivative sets are not cleaned up.
func (w *Worker) HandleThumbnails(ctx context.Context, payload []byte) error {
	var job queue.ThumbnailPayload
	if err := json.Unmarshal(payload, &job); err != nil {
		return fmt.Errorf("malformed thumbnail payload: %w", queue.ErrSkipRetry)
	}

	fileID, err := primitive.ObjectIDFromHex(job.FileID)
	if err != nil {
		return fmt.Errorf("invalid file id %q: %w", job.FileID, queue.ErrSkipRetry)
	}
	userID, err := primitive.ObjectIDFromHex(job.UserID)
	if err != nil {
		return fmt.Errorf("invalid user id %q: %w", job.UserID, queue.ErrSkipRetry)
	}

	node, err := w.files.GetFileByIDAndUser(ctx, fileID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("file %s not found: %w", job.FileID, queue.ErrSkipRetry)
		}
		return fmt.Errorf("looking up file: %w", err)
	}
	if node.Type != models.TypeImage {
		w.log.Info("skipping thumbnail job for non-image node", "fileId", job.FileID, "type", node.Type)
		return nil
	}

	src, err := w.blobs.ReadStream(node.LocalPath)
	if err != nil {
		return fmt.Errorf("opening source image: %w", err)
	}
	defer src.Close()

	img, err := imaging.Decode(src)
	if err != nil {
		return fmt.Errorf("decoding image %s: %w", job.FileID, err)
	}

	format, err := imaging.FormatFromFilename(node.Name)
	if err != nil {
		format = imaging.PNG
	}

	for _, width := range thumbnailWidths {
		scaled := imaging.Resize(img, width, 0, imaging.Lanczos)

		var buf bytes.Buffer
		if err := imaging.Encode(&buf, scaled, format); err != nil {
			return fmt.Errorf("encoding %dpx derivative: %w", width, err)
		}
		out := fmt.Sprintf("%s_%d", node.LocalPath, width)
		if err := w.blobs.Write(out, buf.Bytes()); err != nil {
			return fmt.Errorf("writing %dpx derivative: %w", width, err)
		}
	}

	w.log.Info("thumbnails generated", "fileId", job.FileID)
	return nil
}

// HandleWelcome emits the welcome notification for a newly registered user.
// A missing user is a permanent failure.
func (w *Worker) HandleWelcome(ctx context.Context, payload []byte) error {
	var job queue.WelcomePayload
	if err := json.Unmarshal(payload, &job); err != nil {
		return fmt.Errorf("malformed welcome payload: %w", queue.ErrSkipRetry)
	}

	userID, err := primitive.ObjectIDFromHex(job.UserID)
	if err != nil {
		return fmt.Errorf("invalid user id %q: %w", job.UserID, queue.ErrSkipRetry)
	}

	user, err := w.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("user %s not found: %w", job.UserID, queue.ErrSkipRetry)
		}
		return fmt.Errorf("looking up user: %w", err)
	}

	// Stand-in for a real mail sender.
	w.log.Info(fmt.Sprintf("Welcome %s!", user.Email), "userId", job.UserID)
	return nil
}
