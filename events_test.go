package x11conn

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

// buildEventBuf assembles a 32-byte generic event record: code, detail,
// then the sequence/body fields a caller supplies.
func buildEventBuf(order binary.ByteOrder, code, detail uint8, body func(w *byteWriter)) []byte {
	var buf [32]byte
	buf[0] = code
	buf[1] = detail
	w := newWriter(order)
	w.u16(0) // sequence, left zero
	body(w)
	copy(buf[2:], w.bytes())
	return buf[:]
}

func Test_DecodeEvent_KeyPress(t *testing.T) {
	order := binary.LittleEndian
	buf := buildEventBuf(order, opKeyPress, 65, func(w *byteWriter) {
		w.u32(1000)       // time
		w.u32(0x100)      // root
		w.u32(0x200)      // event
		w.u32(0)          // child
		w.u16(10)         // root x
		w.u16(20)         // root y
		w.u16(1)          // event x
		w.u16(2)          // event y
		w.u16(uint16(ModShift))
		w.u8(1) // same screen
	})

	ev := decodeEvent(order, buf)
	key, ok := ev.(KeyEvent)
	require.True(t, ok)
	require.False(t, key.Release)
	require.Equal(t, uint8(65), key.Detail)
	require.Equal(t, uint32(1000), key.Time)
	require.Equal(t, ModShift, key.State)
	require.True(t, key.SameScreen)
}

func Test_DecodeEvent_PropertyNotify(t *testing.T) {
	order := binary.BigEndian
	buf := buildEventBuf(order, opPropertyNotify, 0, func(w *byteWriter) {
		w.u32(42)          // window
		w.u32(77)          // atom
		w.u32(123456)       // time
		w.u8(PropertyDeleted)
	})

	ev := decodeEvent(order, buf)
	pn, ok := ev.(PropertyNotifyEvent)
	require.True(t, ok)
	require.Equal(t, uint32(42), pn.Window)
	require.Equal(t, Atom(77), pn.Atom)
	require.Equal(t, PropertyDeleted, pn.State)
}

func Test_DecodeEvent_SelectionNotify(t *testing.T) {
	order := binary.LittleEndian
	buf := buildEventBuf(order, opSelectionNotify, 0, func(w *byteWriter) {
		w.u32(99)   // time
		w.u32(0x300) // requestor
		w.u32(uint32(AtomPrimary))
		w.u32(uint32(AtomString))
		w.u32(55) // property
	})

	ev := decodeEvent(order, buf)
	sn, ok := ev.(SelectionNotifyEvent)
	require.True(t, ok)
	require.Equal(t, uint32(0x300), sn.Requestor)
	require.Equal(t, AtomPrimary, sn.Selection)
	require.Equal(t, AtomString, sn.Target)
	require.Equal(t, Atom(55), sn.Property)
}

func Test_ClientMessageEvent_Data32(t *testing.T) {
	order := binary.LittleEndian
	buf := buildEventBuf(order, opClientMessage, 32, func(w *byteWriter) {
		w.u32(0x400) // window
		w.u32(uint32(AtomWMName))
		for i := uint32(0); i < 5; i++ {
			w.u32(i * 10)
		}
	})

	ev := decodeEvent(order, buf)
	cm, ok := ev.(ClientMessageEvent)
	require.True(t, ok)
	require.Equal(t, uint8(32), cm.Format)
	require.Equal(t, AtomWMName, cm.Type)

	data := cm.Data32(order)
	require.Equal(t, [5]uint32{0, 10, 20, 30, 40}, data)
}

func Test_DecodeEvent_UnknownCodeFallsBackToUnknownEvent(t *testing.T) {
	order := binary.LittleEndian
	buf := buildEventBuf(order, 200&0x7f, 0, func(w *byteWriter) {
		w.raw(make([]byte, 28))
	})
	ev := decodeEvent(order, buf)
	unknown, ok := ev.(UnknownEvent)
	require.True(t, ok)
	require.Equal(t, uint8(200&0x7f), unknown.Code)
}
