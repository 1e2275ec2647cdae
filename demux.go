package x11conn

// demux is the single dedicated reader goroutine (C7): once started after
// the handshake, it is the only caller of stream.recv, decodes each 32-byte generic wire record by its
// first byte, and routes the result to the sequencer (replies, errors) or
// the event queue (everything else). A read failure is fatal and
// propagates to every blocked caller via terminate (§4.3, §7).
func (c *Conn) demux() {
	for {
		head, err := c.stream.recv(32)
		if err != nil {
			c.terminate(err)
			return
		}

		switch head[0] {
		case 0: // error
			c.handleError(head)
		case 1: // reply
			if err := c.handleReply(head); err != nil {
				c.terminate(err)
				return
			}
		default: // event, 2..127 with bit 7 reserved for SendEvent
			c.events.push(decodeEvent(c.order, head))
		}
	}
}

func (c *Conn) handleError(head []byte) {
	r := newReader(c.order, head[1:])
	code := r.u8()
	seq := r.u16()
	badValue := r.u32()
	minor := r.u16()
	major := r.u8()
	c.seq.fail(seq, &ProtocolError{
		Code:     code,
		Sequence: seq,
		BadValue: badValue,
		Minor:    minor,
		Major:    major,
	})
}

// handleReply reads a reply's variable-length tail (if any) and hands the
// complete 32+N byte payload to the sequencer. The 4-byte word count at
// offset 4 is common to every reply layout in the core protocol (§6).
func (c *Conn) handleReply(head []byte) error {
	r := newReader(c.order, head[2:4])
	seq := r.u16()

	wordCount := c.order.Uint32(head[4:8])
	payload := head
	if wordCount > 0 {
		tail, err := c.stream.recv(int(wordCount) * 4)
		if err != nil {
			return err
		}
		payload = append(append([]byte(nil), head...), tail...)
	} else {
		payload = append([]byte(nil), head...)
	}

	return c.seq.resolve(seq, payload)
}
