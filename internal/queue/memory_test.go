package queue

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryQueueDrainInOrder(t *testing.T) {
	q := NewInMemoryQueue()
	ctx := context.Background()

	var got []string
	q.Register("job", func(ctx context.Context, payload []byte) error {
		got = append(got, string(payload))
		return nil
	})

	require.NoError(t, q.Enqueue(ctx, "job", []byte("one")))
	require.NoError(t, q.Enqueue(ctx, "job", []byte("two")))
	require.NoError(t, q.Enqueue(ctx, "job", []byte("three")))
	assert.Equal(t, 3, q.Len())

	require.NoError(t, q.Drain(ctx))
	assert.Equal(t, []string{"one", "two", "three"}, got)
	assert.Equal(t, 0, q.Len())
}

func TestInMemoryQueueHandlerErrors(t *testing.T) {
	q := NewInMemoryQueue()
	ctx := context.Background()

	q.Register("job", func(ctx context.Context, payload []byte) error {
		if string(payload) == "bad" {
			return fmt.Errorf("cannot process: %w", ErrSkipRetry)
		}
		return nil
	})

	require.NoError(t, q.Enqueue(ctx, "job", []byte("bad")))
	require.NoError(t, q.Enqueue(ctx, "job", []byte("good")))

	err := q.Drain(ctx)
	assert.ErrorIs(t, err, ErrSkipRetry)
	// The failing job did not block the one behind it.
	assert.Equal(t, 0, q.Len())
}

func TestInMemoryQueueUnknownJobType(t *testing.T) {
	q := NewInMemoryQueue()
	ctx := context.Background()

	require.NoError(t, q.Enqueue(ctx, "unregistered", nil))

	err := q.Drain(ctx)
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrSkipRetry))
}
