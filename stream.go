package x11conn

import (
	"io"
	"net"
	"sync"
	"syscall"

	"golang.org/x/sys/unix"
)

// stream wraps one socket (UNIX or TCP) with a shared read half and a
// shared write half, each guarded by its own mutex (§4.2). Apart from the
// setup handshake, which runs before it starts, only the demultiplexer
// goroutine calls recv*; any caller goroutine may call send* concurrently,
// serialized by writeMu.
type stream struct {
	conn net.Conn

	writeMu sync.Mutex
	readMu  sync.Mutex
}

func newStream(conn net.Conn) *stream {
	tuneSocket(conn)
	return &stream{conn: conn}
}

// tuneSocket enables TCP/UNIX keepalive on the raw socket. Best-effort:
// failure to introspect the fd (e.g. it isn't a *net.TCPConn or
// *net.UnixConn) is not fatal.
func tuneSocket(conn net.Conn) {
	var sc syscall.RawConn
	var err error
	switch c := conn.(type) {
	case *net.TCPConn:
		sc, err = c.SyscallConn()
	case *net.UnixConn:
		sc, err = c.SyscallConn()
	default:
		return
	}
	if err != nil {
		return
	}
	_ = sc.Control(func(fd uintptr) {
		// Keepalive only: the demultiplexer's read must be allowed to block
		// indefinitely waiting for events, so no SO_RCVTIMEO is set here.
		_ = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_KEEPALIVE, 1)
	})
}

// send writes buf as one atomic transmission unit.
func (s *stream) send(buf []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_, err := s.conn.Write(buf)
	return err
}

// sendVectored writes several buffers back to back under a single lock
// acquisition, so no other request can land between them on the wire.
func (s *stream) sendVectored(bufs [][]byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	for _, b := range bufs {
		if _, err := s.conn.Write(b); err != nil {
			return err
		}
	}
	return nil
}

// sendWithPad writes buf followed by zero padding out to a 4-byte boundary.
func (s *stream) sendWithPad(buf []byte) error {
	p := padBytes(pad(len(buf)))
	if p == nil {
		return s.send(buf)
	}
	return s.sendVectored([][]byte{buf, p})
}

// recv reads exactly n bytes. After the setup handshake, only the
// demultiplexer goroutine calls this.
func (s *stream) recv(n int) ([]byte, error) {
	s.readMu.Lock()
	defer s.readMu.Unlock()
	buf := make([]byte, n)
	if _, err := io.ReadFull(s.conn, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// recvStr reads n bytes of string data plus its 4-byte pad, per the X11
// convention that STRING8 fields on the wire are padded like everything
// else.
func (s *stream) recvStr(n int) (string, error) {
	buf, err := s.recv(n + pad(n))
	if err != nil {
		return "", err
	}
	return string(buf[:n]), nil
}

func (s *stream) close() error {
	return s.conn.Close()
}
