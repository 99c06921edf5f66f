package push

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleInitialisesOnce(t *testing.T) {
	calls := 0
	h := NewHandle(func(context.Context) (Dispatcher, error) {
		calls++
		return LogDispatcher{}, nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.True(t, h.Available(context.Background()))
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, calls)

	d, err := h.Dispatcher(context.Background())
	require.NoError(t, err)
	id, err := d.SendToTopic(context.Background(), "event_x", "t", "b", nil)
	require.NoError(t, err)
	assert.Equal(t, "simulated", id)
}

func TestHandleFailureIsSticky(t *testing.T) {
	calls := 0
	h := NewHandle(func(context.Context) (Dispatcher, error) {
		calls++
		return nil, errors.New("bad credentials")
	})
	assert.False(t, h.Available(context.Background()))
	assert.False(t, h.Available(context.Background()))
	assert.Equal(t, 1, calls)

	assert.False(t, Static(nil).Available(context.Background()))
	_, err := Static(nil).Dispatcher(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.True(t, Static(LogDispatcher{}).Available(context.Background()))
}

func TestFromEnv(t *testing.T) {
	t.Setenv("NOTIFICATIONS_SIMULATE", "true")
	d, err := FromEnv(context.Background())
	require.NoError(t, err)
	assert.IsType(t, LogDispatcher{}, d)

	t.Setenv("NOTIFICATIONS_SIMULATE", "false")
	t.Setenv("FIREBASE_CREDENTIALS_FILE", "")
	t.Setenv("FIREBASE_CREDENTIALS", "")
	_, err = FromEnv(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}
