package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"filesmanager/internal/auth"
	"filesmanager/internal/models"
	"filesmanager/internal/queue"
	"filesmanager/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserService handles account registration and lookup.
type UserService struct {
	store repository.UserStore
	queue queue.Queue
	log   *slog.Logger
}

// NewUserService creates a user service.
func NewUserService(store repository.UserStore, q queue.Queue, log *slog.Logger) *UserService {
	return &UserService{store: store, queue: q, log: log}
}

// Register creates a new account with a digested password and enqueues a
// welcome notification. The notification is best effort; a failed enqueue
// does not undo the registration.
func (s *UserService) Register(ctx context.Context, email, password string) (*models.User, error) {
	if email == "" {
		return nil, ErrMissingEmail
	}
	if password == "" {
		return nil, ErrMissingPassword
	}

	if _, err := s.store.GetUserByEmail(ctx, email); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("checking for existing user: %w", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: auth.HashPassword(password),
		CreatedAt:    time.Now(),
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	payload, _ := json.Marshal(queue.WelcomePayload{UserID: user.ID.Hex()})
	if err := s.queue.Enqueue(ctx, queue.TypeWelcome, payload); err != nil {
		s.log.Warn("could not enqueue welcome job", "userId", user.ID.Hex(), "error", err)
	}

	return user, nil
}

// GetByID returns the user for the given id.
func (s *UserService) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("finding user: %w", err)
	}
	return user, nil
}
