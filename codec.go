package x11conn

import "encoding/binary"

// pad returns the number of zero-padding bytes needed to round n up to a
// 4-byte boundary, per §4.1's "4-byte pad rule".
func pad(n int) int {
	return (4 - (n % 4)) % 4
}

// padBytes returns n zero bytes, the wire padding for a payload of length n.
func padBytes(n int) []byte {
	if n == 0 {
		return nil
	}
	return make([]byte, n)
}

// byteWriter accumulates a single on-wire transmission unit. Every request
// is built up in one of these and handed to Stream.send as one call, per
// §4.2's "one send call corresponds to exactly one transmission unit".
type byteWriter struct {
	order binary.ByteOrder
	buf   []byte
}

func newWriter(order binary.ByteOrder) *byteWriter {
	return &byteWriter{order: order}
}

func (w *byteWriter) u8(v uint8)   { w.buf = append(w.buf, v) }
func (w *byteWriter) u16(v uint16) { w.buf = append(w.buf, 0, 0); w.order.PutUint16(w.buf[len(w.buf)-2:], v) }
func (w *byteWriter) u32(v uint32) { w.buf = append(w.buf, 0, 0, 0, 0); w.order.PutUint32(w.buf[len(w.buf)-4:], v) }
func (w *byteWriter) raw(b []byte) { w.buf = append(w.buf, b...) }
func (w *byteWriter) str(s string) { w.raw([]byte(s)) }
func (w *byteWriter) padTo4()      { w.raw(padBytes(pad(len(w.buf)))) }

// reserve16 writes a placeholder and returns its offset so the caller can patch
// it in (used for request length words that depend on payload already
// written). Only used where a single linear pass can't know the length
// up front.
func (w *byteWriter) reserve16() int {
	off := len(w.buf)
	w.u16(0)
	return off
}
func (w *byteWriter) patch16(off int, v uint16) { w.order.PutUint16(w.buf[off:], v) }

func (w *byteWriter) bytes() []byte { return w.buf }

// byteReader decodes one fixed-layout record at a time, unaligned-safe: it
// never assumes the slice is aligned to the natural size of the field being
// read, matching §4.1's contract.
type byteReader struct {
	order binary.ByteOrder
	buf   []byte
	off   int
}

func newReader(order binary.ByteOrder, buf []byte) *byteReader {
	return &byteReader{order: order, buf: buf}
}

func (r *byteReader) u8() uint8 {
	v := r.buf[r.off]
	r.off++
	return v
}
func (r *byteReader) u16() uint16 {
	v := r.order.Uint16(r.buf[r.off:])
	r.off += 2
	return v
}
func (r *byteReader) u32() uint32 {
	v := r.order.Uint32(r.buf[r.off:])
	r.off += 4
	return v
}
func (r *byteReader) i16() int16 { return int16(r.u16()) }
func (r *byteReader) i32() int32 { return int32(r.u32()) }
func (r *byteReader) skip(n int) { r.off += n }
func (r *byteReader) raw(n int) []byte {
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b
}
func (r *byteReader) remaining() []byte { return r.buf[r.off:] }
func (r *byteReader) len() int          { return len(r.buf) - r.off }
