package schedule

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_Add(t *testing.T) {
	s := NewScheduler(time.UTC)

	assert.NoError(t, s.Add("daily", "0 9 * * *", func(context.Context) error { return nil }))
	assert.NoError(t, s.Add("monthly", "0 10 1 * *", func(context.Context) error { return nil }))
	assert.Error(t, s.Add("broken", "not a schedule", func(context.Context) error { return nil }))
	assert.Len(t, s.entries, 2)
}

func TestScheduler_Run(t *testing.T) {
	// Given
	logger := zerolog.New(zerolog.NewTestWriter(t))
	ctx, cancel := context.WithCancel(logger.WithContext(context.Background()))
	defer cancel()

	var ok, failed atomic.Int32
	s := NewScheduler(nil)
	require.NoError(t, s.Add("tick", "@every 1s", func(context.Context) error {
		ok.Add(1)
		return nil
	}))
	require.NoError(t, s.Add("failing", "@every 1s", func(context.Context) error {
		failed.Add(1)
		return errors.New("boom")
	}))

	// When
	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx)
	}()

	// Then
	assert.Eventually(t, func() bool {
		return ok.Load() > 0 && failed.Load() > 0
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}
