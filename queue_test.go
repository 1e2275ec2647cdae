package x11conn

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func Test_EventQueue_PushThenWait(t *testing.T) {
	q := newEventQueue()
	q.push(MappingNotifyEvent{Request: 1})

	ev, err := q.wait()
	require.NoError(t, err)
	require.Equal(t, MappingNotifyEvent{Request: 1}, ev)
}

func Test_EventQueue_Poll_EmptyReturnsFalse(t *testing.T) {
	q := newEventQueue()
	_, ok := q.poll()
	require.False(t, ok)
}

func Test_EventQueue_PushError_IsStickyAndWakesAllWaiters(t *testing.T) {
	q := newEventQueue()
	cause := fmt.Errorf("boom")

	done := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := q.wait()
			done <- err
		}()
	}
	time.Sleep(20 * time.Millisecond)
	q.pushError(cause)

	for i := 0; i < 2; i++ {
		require.ErrorIs(t, <-done, cause)
	}
	require.ErrorIs(t, q.pollError(), cause)

	// further pushes after termination are dropped, not queued.
	q.push(MappingNotifyEvent{})
	_, ok := q.poll()
	require.False(t, ok)
}

func Test_EventQueue_WaitTimeout_ExpiresWithoutEvent(t *testing.T) {
	q := newEventQueue()
	ev, timedOut, err := q.waitTimeout(20 * time.Millisecond)
	require.Nil(t, ev)
	require.True(t, timedOut)
	require.NoError(t, err)
}

func Test_EventQueue_WaitTimeout_ReturnsQueuedEvent(t *testing.T) {
	q := newEventQueue()
	q.push(MappingNotifyEvent{Request: 9})
	ev, timedOut, err := q.waitTimeout(time.Second)
	require.False(t, timedOut)
	require.NoError(t, err)
	require.Equal(t, MappingNotifyEvent{Request: 9}, ev)
}
