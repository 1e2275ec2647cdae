package x11conn

// QUERY_EXTENSION / LIST_EXTENSIONS: the generic extension-discovery
// pattern every X11 extension (GLX, RANDR, XKB, ...) builds on (§6).
// x11conn itself stops at discovery; it does not decode any extension's
// own request/reply/event set, leaving that to higher-level packages
// built the same way this one is.

func (c *Conn) queryExtensionRequest(name string) (ExtensionInfo, error) {
	w := newWriter(c.order)
	w.u8(opQueryExtension)
	w.u8(0)
	w.u16(uint16(2 + (len(name)+pad(len(name)))/4))
	w.u16(uint16(len(name)))
	w.u16(0)
	w.str(name)
	w.padTo4()

	pending, err := c.sendRequest(w.bytes(), ReplyQueryExtension, true)
	if err != nil {
		return ExtensionInfo{}, err
	}
	payload, err := pending.wait()
	if err != nil {
		return ExtensionInfo{}, err
	}
	r := newReader(c.order, payload[8:])
	present := r.u8()
	major := r.u8()
	firstEvent := r.u8()
	firstError := r.u8()
	return ExtensionInfo{
		Present:     present != 0,
		MajorOpcode: major,
		FirstEvent:  firstEvent,
		FirstError:  firstError,
	}, nil
}

func (c *Conn) listExtensionsRequest() ([]string, error) {
	w := newWriter(c.order)
	w.u8(opListExtensions)
	w.u8(0)
	w.u16(1)

	pending, err := c.sendRequest(w.bytes(), ReplyListExtensions, true)
	if err != nil {
		return nil, err
	}
	payload, err := pending.wait()
	if err != nil {
		return nil, err
	}
	r := newReader(c.order, payload[1:])
	count := r.u8()
	r.skip(30)
	names := make([]string, 0, count)
	for i := 0; i < int(count); i++ {
		n := r.u8()
		names = append(names, string(r.raw(int(n))))
	}
	return names, nil
}

// QueryExtension issues QUERY_EXTENSION and caches the result for the
// lifetime of the connection (§4.10).
func (c *Conn) QueryExtension(name string) (ExtensionInfo, error) {
	c.extMu.Lock()
	if info, ok := c.extensions[name]; ok {
		c.extMu.Unlock()
		return info, nil
	}
	c.extMu.Unlock()

	info, err := c.queryExtensionRequest(name)
	if err != nil {
		return ExtensionInfo{}, err
	}
	c.extMu.Lock()
	c.extensions[name] = info
	c.extMu.Unlock()
	return info, nil
}

// ListExtensions issues the supplemented LIST_EXTENSIONS request (§4.10,
// grounded on sandboxed-tor-browser's surrogate.go use of the same
// opcode to enumerate server extensions before deciding whether to wrap
// them).
func (c *Conn) ListExtensions() ([]string, error) {
	return c.listExtensionsRequest()
}
