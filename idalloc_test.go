package x11conn

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_IDAllocator_AllocatesWithinBaseMask(t *testing.T) {
	a := newIDAllocator(0x00800000, 0x001fffff)

	first, err := a.alloc()
	require.NoError(t, err)
	require.Equal(t, uint32(0x00800001), first)

	second, err := a.alloc()
	require.NoError(t, err)
	require.Equal(t, uint32(0x00800002), second)
}

func Test_IDAllocator_ExhaustionReturnsErrOutOfIDs(t *testing.T) {
	a := newIDAllocator(0, 2)

	_, err := a.alloc()
	require.NoError(t, err)
	_, err = a.alloc()
	require.NoError(t, err)
	_, err = a.alloc()
	require.ErrorIs(t, err, ErrOutOfIDs)
}
