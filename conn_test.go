package x11conn

import (
	"encoding/binary"
	"io"
	"log"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// newTestConn wires a Conn to one end of an in-process pipe, running the
// handshake against a scripted fake server on the other end, and starts the
// demultiplexer exactly as Open does post-handshake. No real X server is
// needed (§ Test tooling, AMBIENT STACK).
func newTestConn(t *testing.T, serverSetup func(serverConn net.Conn)) *Conn {
	t.Helper()
	client, server := net.Pipe()
	t.Cleanup(func() { client.Close(); server.Close() })

	go serverSetup(server)

	c := &Conn{
		stream:     newStream(client),
		order:      binary.LittleEndian,
		events:     newEventQueue(),
		atoms:      newAtomCache(),
		logger:     log.Default(),
		extensions: make(map[string]ExtensionInfo),
	}
	require.NoError(t, c.handshake())
	c.ids = newIDAllocator(c.setup.ResourceIDBase, c.setup.ResourceIDMask)
	c.seq = newSequencer()
	go c.demux()
	return c
}

// writeSuccessSetup drains the client's SetupRequest then writes back a
// minimal Success reply: one screen, one depth, one visual, zero pixmap
// formats, no vendor string.
func writeSuccessSetup(t *testing.T, server net.Conn) {
	t.Helper()
	head := make([]byte, 12)
	_, err := io.ReadFull(server, head)
	require.NoError(t, err)
	order := binary.LittleEndian
	nameLen := order.Uint16(head[6:8])
	dataLen := order.Uint16(head[8:10])
	rest := int(nameLen) + pad(int(nameLen)) + int(dataLen) + pad(int(dataLen))
	if rest > 0 {
		_, err := io.ReadFull(server, make([]byte, rest))
		require.NoError(t, err)
	}

	w := newWriter(order)
	w.u8(1) // Success
	w.u8(0) // unused
	w.u16(11)
	w.u16(0)

	body := newWriter(order)
	body.u32(0)          // release number
	body.u32(0x00800000) // resource id base
	body.u32(0x001fffff) // resource id mask
	body.u32(0)          // motion buffer size
	body.u16(0)          // vendor len
	body.u16(65535)      // max request length
	body.u8(1)           // num roots
	body.u8(0)           // num formats
	body.u8(0)           // image byte order
	body.u8(0)           // bitmap bit order
	body.u8(8)           // bitmap scanline unit
	body.u8(32)          // bitmap scanline pad
	body.u8(8)           // min keycode
	body.u8(255)         // max keycode
	body.raw(make([]byte, 4))

	// one screen, zero depths.
	body.u32(0x1)  // root
	body.u32(0x2)  // default colormap
	body.u32(0)    // white pixel
	body.u32(0xff) // black pixel
	body.u32(0)    // current input masks
	body.u16(1024) // width px
	body.u16(768)  // height px
	body.u16(300)  // width mm
	body.u16(200)  // height mm
	body.u16(1)    // min installed maps
	body.u16(1)    // max installed maps
	body.u32(0x21) // root visual
	body.u8(0)     // backing stores
	body.u8(0)     // save unders
	body.u8(24)    // root depth
	body.u8(0)     // num depths

	w.u16(uint16(len(body.bytes()) / 4))
	require.NoError(t, writeAll(server, w.bytes()))
	require.NoError(t, writeAll(server, body.bytes()))
}

func writeAll(conn net.Conn, buf []byte) error {
	_, err := conn.Write(buf)
	return err
}

func Test_Conn_HandshakeSuccess_PublishesSetupInfo(t *testing.T) {
	c := newTestConn(t, func(server net.Conn) {
		writeSuccessSetup(t, server)
	})
	require.NotNil(t, c.Setup())
	require.Equal(t, uint32(0x1), c.DefaultRootWindow())
	require.Equal(t, uint16(11), c.Setup().ProtocolMajorVersion)
}

func Test_Conn_HandshakeFailed_ReturnsSetupFailedError(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	go func() {
		head := make([]byte, 12)
		io.ReadFull(server, head)
		order := binary.LittleEndian
		nameLen := order.Uint16(head[6:8])
		dataLen := order.Uint16(head[8:10])
		rest := int(nameLen) + pad(int(nameLen)) + int(dataLen) + pad(int(dataLen))
		if rest > 0 {
			io.ReadFull(server, make([]byte, rest))
		}
		reason := "access denied"
		w := newWriter(order)
		w.u8(0) // Failed
		w.u8(uint8(len(reason)))
		w.u16(11)
		w.u16(0)
		w.u16(uint16((len(reason) + pad(len(reason))) / 4))
		writeAll(server, w.bytes())
		body := newWriter(order)
		body.str(reason)
		body.padTo4()
		writeAll(server, body.bytes())
	}()

	c := &Conn{
		stream:     newStream(client),
		order:      binary.LittleEndian,
		events:     newEventQueue(),
		atoms:      newAtomCache(),
		logger:     log.Default(),
		extensions: make(map[string]ExtensionInfo),
	}
	err := c.handshake()
	var setupErr *SetupFailedError
	require.ErrorAs(t, err, &setupErr)
	require.Equal(t, "access denied", setupErr.Reason)
}

func Test_Conn_InternAtom_RoundTripsThroughReplyRouter(t *testing.T) {
	atomReplied := Atom(900)
	c := newTestConn(t, func(server net.Conn) {
		writeSuccessSetup(t, server)

		// INTERN_ATOM request header: opcode, flag, length(2).
		head := make([]byte, 4)
		_, err := io.ReadFull(server, head)
		require.NoError(t, err)
		order := binary.LittleEndian
		lenWords := order.Uint16(head[2:4])
		rest := int(lenWords)*4 - 4
		body := make([]byte, rest)
		_, err = io.ReadFull(server, body)
		require.NoError(t, err)

		w := newWriter(order)
		w.u8(1) // reply
		w.u8(0)
		w.u16(1) // sequence
		w.u32(0) // reply length (extra words beyond the fixed 32)
		w.u32(uint32(atomReplied))
		w.raw(make([]byte, 20))
		require.NoError(t, writeAll(server, w.bytes()))
	})

	atom, err := c.InternAtom("_CUSTOM_ATOM", false)
	require.NoError(t, err)
	require.Equal(t, atomReplied, atom)

	// second call must hit the cache, not the wire again.
	cached, err := c.InternAtom("_CUSTOM_ATOM", false)
	require.NoError(t, err)
	require.Equal(t, atomReplied, cached)
}

func Test_Conn_NextEventTimeout_ExpiresWithoutBlockingForever(t *testing.T) {
	c := newTestConn(t, func(server net.Conn) {
		writeSuccessSetup(t, server)
	})
	_, timedOut, err := c.NextEventTimeout(30 * time.Millisecond)
	require.NoError(t, err)
	require.True(t, timedOut)
}
