package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Publisher_StampsTimestamp(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	pub := NewPublisher(store)

	require.NoError(t, pub.Emit(ctx, Event{Action: ActionAuthenticate, Decision: DecisionDeny, Reason: "NO_TOKEN"}))

	events, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.WithinDuration(t, time.Now(), events[0].Timestamp, time.Minute)
	assert.Equal(t, "NO_TOKEN", events[0].Reason)
}

func Test_Publisher_PreservesExplicitTimestamp(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	pub := NewPublisher(store)

	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, pub.Emit(ctx, Event{Timestamp: at, Action: ActionIssueToken}))

	events, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, at, events[0].Timestamp)
}

func Test_Publisher_AsyncMode(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	pub := NewPublisher(store, WithAsyncBuffer(8))
	defer pub.Close()

	require.NoError(t, pub.Emit(ctx, Event{Action: ActionAuthenticate, Decision: DecisionAllow}))

	require.Eventually(t, func() bool {
		events, err := store.List(ctx)
		return err == nil && len(events) == 1
	}, time.Second, 10*time.Millisecond)
}

func Test_Publisher_AsyncDrainsOnClose(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	pub := NewPublisher(store, WithAsyncBuffer(64))

	for range 10 {
		require.NoError(t, pub.Emit(ctx, Event{Action: ActionIssueToken, Decision: DecisionAllow}))
	}
	pub.Close()

	events, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, events, 10)
}

func Test_Worker_DrainsInbox(t *testing.T) {
	store := NewInMemoryStore()
	inbox := make(chan Event, 4)
	worker := NewWorker(store, inbox)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	inbox <- Event{Action: ActionAuthenticate}
	inbox <- Event{Action: ActionIssueToken}

	require.Eventually(t, func() bool {
		events, err := store.List(context.Background())
		return err == nil && len(events) == 2
	}, time.Second, 10*time.Millisecond)

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}
