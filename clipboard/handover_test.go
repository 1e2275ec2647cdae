package clipboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func Test_Handover_WrittenThenNotifiedCompletes(t *testing.T) {
	h := newHandover()
	h.begin()

	go func() {
		time.Sleep(5 * time.Millisecond)
		h.observeWritten()
		h.observeNotified(false)
	}()

	ok := h.waitTimeout(time.Second)
	require.True(t, ok)
}

func Test_Handover_NotifiedWithPropertyCompletesAlone(t *testing.T) {
	h := newHandover()
	h.begin()

	go func() {
		time.Sleep(5 * time.Millisecond)
		h.observeNotified(true)
	}()

	ok := h.waitTimeout(time.Second)
	require.True(t, ok)
}

func Test_Handover_WaitTimeout_ExpiresWithoutEitherSignal(t *testing.T) {
	h := newHandover()
	h.begin()

	ok := h.waitTimeout(20 * time.Millisecond)
	require.False(t, ok)
}

func Test_Handover_NotifiedWithoutPropertyAloneDoesNotComplete(t *testing.T) {
	h := newHandover()
	h.begin()
	h.observeNotified(false)

	ok := h.waitTimeout(20 * time.Millisecond)
	require.False(t, ok)
}

func Test_Handover_ObserveIgnoredWhenNotInProgress(t *testing.T) {
	h := newHandover()
	// never called begin(); state is handoverIdle.
	h.observeWritten()
	h.observeNotified(true)

	require.Equal(t, handoverIdle, h.state)
}
