package service

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"filesmanager/internal/auth"
	"filesmanager/internal/queue"
	"filesmanager/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newUserServiceForTest(t *testing.T) (*UserService, *repository.InMemoryStore, *queue.InMemoryQueue) {
	t.Helper()
	store := repository.NewInMemoryStore()
	q := queue.NewInMemoryQueue()
	return NewUserService(store, q, discardLogger()), store, q
}

func TestRegister(t *testing.T) {
	svc, store, q := newUserServiceForTest(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "a@x.com", "secret")
	require.NoError(t, err)
	require.False(t, user.ID.IsZero())
	assert.Equal(t, "a@x.com", user.Email)
	assert.Equal(t, auth.HashPassword("secret"), user.PasswordHash)
	assert.NotEqual(t, "secret", user.PasswordHash)

	stored, err := store.GetUserByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, stored.ID)

	// Exactly one welcome job was enqueued, carrying the new user's id.
	require.Equal(t, 1, q.Len())
	var welcomed []string
	q.Register(queue.TypeWelcome, func(ctx context.Context, payload []byte) error {
		var p queue.WelcomePayload
		require.NoError(t, json.Unmarshal(payload, &p))
		welcomed = append(welcomed, p.UserID)
		return nil
	})
	require.NoError(t, q.Drain(ctx))
	assert.Equal(t, []string{user.ID.Hex()}, welcomed)
}

func TestRegisterMissingFields(t *testing.T) {
	svc, _, q := newUserServiceForTest(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "", "secret")
	assert.ErrorIs(t, err, ErrMissingEmail)

	_, err = svc.Register(ctx, "a@x.com", "")
	assert.ErrorIs(t, err, ErrMissingPassword)

	assert.Equal(t, 0, q.Len())
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newUserServiceForTest(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "a@x.com", "secret")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "a@x.com", "other")
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestGetByID(t *testing.T) {
	svc, _, _ := newUserServiceForTest(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "a@x.com", "secret")
	require.NoError(t, err)

	got, err := svc.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, got.Email)

	_, err = svc.GetByID(ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrNotFound)
}
