package x11conn

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Sequencer_AppendAssignsMonotonicSequence(t *testing.T) {
	s := newSequencer()
	seq1, _ := s.append(ReplyInternAtom)
	seq2, _ := s.append(ReplyGetProperty)
	require.Equal(t, seq1+1, seq2)
}

func Test_Sequencer_ResolveDeliversPayloadToWaiter(t *testing.T) {
	s := newSequencer()
	seq, pending := s.append(ReplyInternAtom)

	payload := []byte{1, 2, 3}
	require.NoError(t, s.resolve(seq, payload))

	got, err := pending.wait()
	require.NoError(t, err)
	require.Equal(t, payload, got)
}

func Test_Sequencer_ResolveUnknownSequenceIsError(t *testing.T) {
	s := newSequencer()
	require.ErrorIs(t, s.resolve(999, nil), ErrUnknownSequence)
}

func Test_Sequencer_FailDeliversProtocolErrorToWaiter(t *testing.T) {
	s := newSequencer()
	seq, pending := s.append(ReplyInternAtom)

	protoErr := &ProtocolError{Code: 3, Sequence: seq}
	s.fail(seq, protoErr)

	_, err := pending.wait()
	require.Same(t, protoErr, err)
}

func Test_Sequencer_FailOnFireAndForgetGoesToDelayedMailbox(t *testing.T) {
	s := newSequencer()
	seq := s.skip()

	protoErr := &ProtocolError{Code: 5, Sequence: seq}
	s.fail(seq, protoErr)

	require.Same(t, protoErr, s.pollError())
	require.Nil(t, s.pollError())
}

func Test_Sequencer_Terminate_FailsAllOutstandingAndFutureRequests(t *testing.T) {
	s := newSequencer()
	_, pendingA := s.append(ReplyInternAtom)

	cause := ErrTerminated
	s.terminate(cause)

	_, err := pendingA.wait()
	require.ErrorIs(t, err, cause)

	_, pendingB := s.append(ReplyGetProperty)
	_, err = pendingB.wait()
	require.ErrorIs(t, err, cause)

	require.ErrorIs(t, s.pollError(), cause)
}
