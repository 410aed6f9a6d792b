package service

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHousekeepingCleanup(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	now := time.Now().UTC()
	stale := now.Add(-72 * time.Hour)

	_, err := st.Counters().IncrementWindow(ctx, "user-1", "code_update", stale)
	require.NoError(t, err)
	_, err = st.Counters().IncrementWindow(ctx, "user-1", "code_update", now)
	require.NoError(t, err)

	svc := NewHousekeepingService(st, slog.Default(), time.Hour)
	svc.cleanup()

	// The stale window is gone: re-incrementing it starts from scratch.
	count, err := st.Counters().IncrementWindow(ctx, "user-1", "code_update", stale)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)

	// The current window survived.
	count, err = st.Counters().IncrementWindow(ctx, "user-1", "code_update", now)
	require.NoError(t, err)
	require.Equal(t, int64(2), count)
}

func TestHousekeepingStartStop(t *testing.T) {
	st := newTestStore(t)

	svc := NewHousekeepingService(st, slog.Default(), time.Hour)
	svc.Start()
	svc.Stop()
}
