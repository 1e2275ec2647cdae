package x11conn

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Pad_RoundsUpTo4ByteBoundary(t *testing.T) {
	cases := map[int]int{0: 0, 1: 3, 2: 2, 3: 1, 4: 0, 5: 3, 17: 3}
	for n, want := range cases {
		require.Equal(t, want, pad(n), "pad(%d)", n)
	}
}

func Test_ByteWriterReader_RoundTrip(t *testing.T) {
	w := newWriter(binary.LittleEndian)
	w.u8(0x7f)
	w.u16(0x1234)
	w.u32(0xdeadbeef)
	w.raw([]byte("hi"))
	w.padTo4()

	r := newReader(binary.LittleEndian, w.bytes())
	require.Equal(t, uint8(0x7f), r.u8())
	require.Equal(t, uint16(0x1234), r.u16())
	require.Equal(t, uint32(0xdeadbeef), r.u32())
	require.Equal(t, []byte("hi"), r.raw(2))
	require.Equal(t, 0, len(w.bytes())%4)
}

func Test_ByteWriter_PatchesReservedLength(t *testing.T) {
	w := newWriter(binary.BigEndian)
	off := w.reserve16()
	w.raw([]byte{1, 2, 3})
	w.patch16(off, uint16(len(w.bytes())))

	r := newReader(binary.BigEndian, w.bytes())
	require.Equal(t, uint16(5), r.u16())
}

func Test_ByteReader_SignedFields(t *testing.T) {
	w := newWriter(binary.LittleEndian)
	w.u16(uint16(int16(-5)))
	w.u32(uint32(int32(-100)))
	r := newReader(binary.LittleEndian, w.bytes())
	require.EqualValues(t, -5, r.i16())
	require.EqualValues(t, -100, r.i32())
}
