package backoffice

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationPollerFetchesOnStartAndTicks(t *testing.T) {
	var calls atomic.Int32
	counter := UnreadCounterFunc(func(context.Context) (int, error) {
		return int(calls.Add(1)), nil
	})
	var mu sync.Mutex
	var seen []int
	logger := zerolog.Nop()
	poller := NewNotificationPoller(counter, PollerOptions{
		Interval: 10 * time.Millisecond,
		Logger:   &logger,
		OnChange: func(count int) {
			mu.Lock()
			seen = append(seen, count)
			mu.Unlock()
		},
	})

	require.NoError(t, poller.Start(context.Background()))
	require.Error(t, poller.Start(context.Background()))
	require.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, time.Millisecond)

	poller.Stop()
	assert.False(t, poller.Running())
	stopped := calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stopped, calls.Load())

	count, known := poller.Count()
	assert.True(t, known)
	assert.Equal(t, int(stopped), count)

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, seen)
	assert.Equal(t, 1, seen[0])
}

func TestNotificationPollerKeepsLastCountOnError(t *testing.T) {
	fail := errors.New("unauthorized")
	var failing atomic.Bool
	counter := UnreadCounterFunc(func(context.Context) (int, error) {
		if failing.Load() {
			return 0, fail
		}
		return 4, nil
	})
	logger := zerolog.Nop()
	poller := NewNotificationPoller(counter, PollerOptions{Logger: &logger})

	count, err := poller.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	failing.Store(true)
	count, err = poller.Refresh(context.Background())
	require.ErrorIs(t, err, fail)
	assert.Equal(t, 4, count)
	assert.ErrorIs(t, poller.Err(), fail)
}

func TestNotificationPollerStopsWithContext(t *testing.T) {
	counter := UnreadCounterFunc(func(context.Context) (int, error) { return 0, nil })
	logger := zerolog.Nop()
	poller := NewNotificationPoller(counter, PollerOptions{Interval: time.Hour, Logger: &logger})
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, poller.Start(ctx))
	cancel()
	poller.Stop()
	poller.Stop()
	assert.False(t, poller.Running())
}

func TestNotificationPollerDefaultInterval(t *testing.T) {
	poller := NewNotificationPoller(UnreadCounterFunc(func(context.Context) (int, error) { return 0, nil }), PollerOptions{})
	assert.Equal(t, DefaultPollInterval, poller.interval)
}
