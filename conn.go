package x11conn

import (
	"encoding/binary"
	"fmt"
	"log"
	"net"
	"sync"
	"time"
)

// nativeOrder is this host's byte order, detected once at init via the
// standard library's own native-endian implementation (no unsafe needed).
// The X11 setup request tells the server which order the client picked
// (§4.5 step 1); every field on the wire afterward uses that order.
var nativeOrder binary.ByteOrder = binary.NativeEndian

var nativeIsLittle = func() bool {
	return binary.NativeEndian.Uint16([]byte{1, 0}) == 1
}()

// Options configures Open. The zero value is a reasonable default for
// connecting to a local display.
type Options struct {
	// Display overrides $DISPLAY. Empty means read the environment.
	Display string
	// Logger receives diagnostic output; nil means log.Default().
	Logger *log.Logger
	// DialTimeout bounds the initial socket connect. Zero means no
	// timeout (net.Dial's default behavior).
	DialTimeout time.Duration
	// SocketOverride dials this UNIX domain socket path directly instead
	// of deriving one from Display/$DISPLAY. Empty means use the normal
	// display-string resolution.
	SocketOverride string
}

// Conn is a live connection to an X server: the handshake (C6), the shared
// stream (C2), the sequence/reply router (C4), the resource-id allocator
// (C3), and the event queue (C5) the demultiplexer (C7) feeds. Conn is
// reified as a per-connection value — §9 flags the original's
// process-global allocator as unnecessary, so nothing here is a package
// singleton, supporting multiple independent connections in one process
// (e.g. in tests).
type Conn struct {
	stream *stream
	order  binary.ByteOrder

	seq    *sequencer
	ids    *idAllocator
	events *eventQueue
	atoms  *atomCache

	setup *SetupInfo

	logger *log.Logger

	extMu      sync.Mutex
	extensions map[string]ExtensionInfo

	keymapMu sync.Mutex
	keymap   *keyboardMapping

	closeOnce sync.Once
}

// ExtensionInfo is the decoded QUERY_EXTENSION reply (§6).
type ExtensionInfo struct {
	Present     bool
	MajorOpcode uint8
	FirstEvent  uint8
	FirstError  uint8
}

// Open performs §4.5's full setup exchange: parse the display spec, dial
// the socket, load XAUTHORITY, send SetupRequest, parse the reply, and
// spawn the demultiplexer goroutine (C7).
func Open(opts Options) (*Conn, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	network, address := "unix", opts.SocketOverride
	if address == "" {
		spec, err := parseDisplay(opts.Display)
		if err != nil {
			return nil, err
		}
		network, address = spec.socketTarget()
	}

	var netConn net.Conn
	var err error
	if opts.DialTimeout > 0 {
		netConn, err = net.DialTimeout(network, address, opts.DialTimeout)
	} else {
		netConn, err = net.Dial(network, address)
	}
	if err != nil {
		return nil, fmt.Errorf("x11conn: dial %s %s: %w", network, address, err)
	}

	c := &Conn{
		stream:     newStream(netConn),
		order:      nativeOrder,
		events:     newEventQueue(),
		atoms:      newAtomCache(),
		logger:     logger,
		extensions: make(map[string]ExtensionInfo),
	}

	if err := c.handshake(); err != nil {
		netConn.Close()
		return nil, err
	}

	c.ids = newIDAllocator(c.setup.ResourceIDBase, c.setup.ResourceIDMask)
	c.seq = newSequencer()

	go c.demux()

	return c, nil
}

// handshake runs the setup exchange (§4.5 steps 1-4) before the
// demultiplexer goroutine exists; it reads the stream directly since no
// concurrent readers are possible yet.
func (c *Conn) handshake() error {
	name, data, _ := loadAuth(c.logger)

	w := newWriter(c.order)
	if nativeIsLittle {
		w.u8(0x6c)
	} else {
		w.u8(0x42)
	}
	w.u8(0) // unused
	w.u16(11)
	w.u16(0)
	w.u16(uint16(len(name)))
	w.u16(uint16(len(data)))
	w.u16(0) // unused
	w.str(name)
	w.padTo4()
	w.raw([]byte(data))
	w.buf = append(w.buf, padBytes(pad(len(data)))...)

	if err := c.stream.send(w.bytes()); err != nil {
		return fmt.Errorf("x11conn: send setup request: %w", err)
	}

	head, err := c.stream.recv(8)
	if err != nil {
		return fmt.Errorf("x11conn: read setup header: %w", err)
	}
	r := newReader(c.order, head)
	status := r.u8()
	reasonLen := r.u8()
	major := r.u16()
	minor := r.u16()
	dataLen := r.u16()

	body, err := c.stream.recv(int(dataLen) * 4)
	if err != nil {
		return fmt.Errorf("x11conn: read setup body: %w", err)
	}
	br := newReader(c.order, body)

	switch status {
	case 0:
		reason := string(br.raw(int(reasonLen)))
		return &SetupFailedError{Reason: reason}
	case 1:
		info := parseSetupSuccess(br)
		info.ProtocolMajorVersion = major
		info.ProtocolMinorVersion = minor
		c.setup = info
		return nil
	case 2:
		return &AuthenticateError{Reason: string(br.remaining())}
	default:
		return ErrInvalidStatus
	}
}

// Setup returns the connection's published handshake information (§4.5
// step 4).
func (c *Conn) Setup() *SetupInfo { return c.setup }

// Close tears down the connection. Safe to call more than once.
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		err = c.stream.close()
	})
	return err
}

// sendRequest assembles the write-lock/sequence critical section §4.4
// mandates: the request's sequence number is assigned in the same
// critical section as the byte write that puts it on the wire, so wire
// order and sequence order always agree (§5 "Ordering").
func (c *Conn) sendRequest(buf []byte, kind ReplyKind, expectReply bool) (*pendingReply, error) {
	c.stream.writeMu.Lock()
	defer c.stream.writeMu.Unlock()

	var pending *pendingReply
	if expectReply {
		_, pending = c.seq.append(kind)
	} else {
		c.seq.skip()
	}

	p := padBytes(pad(len(buf)))
	if _, err := c.stream.conn.Write(buf); err != nil {
		c.terminate(err)
		return nil, fmt.Errorf("x11conn: write request: %w", err)
	}
	if len(p) > 0 {
		if _, err := c.stream.conn.Write(p); err != nil {
			c.terminate(err)
			return nil, fmt.Errorf("x11conn: write request padding: %w", err)
		}
	}
	return pending, nil
}

// poll_error surfaces a delayed protocol error for a fire-and-forget
// request, per §4.8's "Fire-and-forget requests call poll_error() after
// sending so that a delayed protocol error is not lost silently."
func (c *Conn) pollError() error {
	return c.seq.pollError()
}

// sendFireAndForget writes a request that expects no reply, then performs
// the poll_error() check §4.9 requires of every no-reply operation before
// it returns: a write error takes priority, otherwise any delayed protocol
// error waiting in the mailbox (not necessarily caused by this request,
// since errors arrive asynchronously, but not lost either way) is
// surfaced to the caller instead of silently dropped.
func (c *Conn) sendFireAndForget(buf []byte) error {
	if _, err := c.sendRequest(buf, 0, false); err != nil {
		return err
	}
	return c.pollError()
}

// terminate propagates a fatal transport failure to every blocked caller:
// outstanding reply waiters, the event queue, and all future requests
// (§5 "Deadlock avoidance", §7 "Terminal transport error").
func (c *Conn) terminate(cause error) {
	err := fmt.Errorf("%w: %v", ErrTerminated, cause)
	c.seq.terminate(err)
	c.events.pushError(err)
}
