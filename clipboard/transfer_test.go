package clipboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	x11 "x11conn"
)

func Test_TransferTable_RegisterLookupRemove(t *testing.T) {
	tt := newTransferTable()
	key := transferKey{selection: x11.AtomSecondary, target: x11.AtomString}

	state := tt.register(key)
	require.NotNil(t, state)

	got, ok := tt.lookup(key)
	require.True(t, ok)
	require.Same(t, state, got)

	tt.remove(key)
	_, ok = tt.lookup(key)
	require.False(t, ok)
}

func Test_TransferTable_LookupMissingKey(t *testing.T) {
	tt := newTransferTable()
	_, ok := tt.lookup(transferKey{selection: x11.AtomPrimary, target: x11.AtomString})
	require.False(t, ok)
}

func Test_TransferState_CompleteDeliversData(t *testing.T) {
	ts := newTransferState()
	go func() {
		time.Sleep(5 * time.Millisecond)
		ts.complete([]byte("payload"))
	}()

	data, err := ts.waitTimeout(time.Second)
	require.NoError(t, err)
	require.Equal(t, []byte("payload"), data)
}

func Test_TransferState_FailReturnsErrNoSelectionData(t *testing.T) {
	ts := newTransferState()
	go func() {
		time.Sleep(5 * time.Millisecond)
		ts.fail()
	}()

	_, err := ts.waitTimeout(time.Second)
	require.ErrorIs(t, err, x11.ErrNoSelectionData)
}

func Test_TransferState_WaitTimeout_ExpiresWithoutCompletion(t *testing.T) {
	ts := newTransferState()
	_, err := ts.waitTimeout(20 * time.Millisecond)
	require.ErrorIs(t, err, x11.ErrSelectionTimeout)
}

func Test_TransferState_CompleteAfterFailIsIgnored(t *testing.T) {
	ts := newTransferState()
	ts.fail()
	ts.complete([]byte("too late"))

	data, err := ts.waitTimeout(time.Second)
	require.ErrorIs(t, err, x11.ErrNoSelectionData)
	require.Nil(t, data)
}
