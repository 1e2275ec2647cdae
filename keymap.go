package x11conn

// Keysym is an opaque keyboard symbol id (§3 "Keysym"). Values 0x20-0x7e
// and 0xa0-0xff coincide with their Latin-1 codepoint; everything else
// (function keys, dead keys, non-Latin layouts) needs a larger table this
// package does not attempt to provide.
type Keysym uint32

// keyboardMapping caches one GetKeyboardMapping reply: for each keycode in
// [MinKeycode, MaxKeycode], the list of keysyms bound to it across
// shift/group levels (§4.12).
type keyboardMapping struct {
	firstKeycode     uint8
	keysymsPerKeycode uint8
	keysyms          []Keysym // flattened, keycode-major
}

func (m *keyboardMapping) symsFor(keycode uint8) []Keysym {
	if keycode < m.firstKeycode {
		return nil
	}
	idx := int(keycode-m.firstKeycode) * int(m.keysymsPerKeycode)
	if idx+int(m.keysymsPerKeycode) > len(m.keysyms) {
		return nil
	}
	return m.keysyms[idx : idx+int(m.keysymsPerKeycode)]
}

// getKeyboardMappingRequest issues GET_KEYBOARD_MAPPING for the given
// keycode range (§6).
func (c *Conn) getKeyboardMappingRequest(firstKeycode, count uint8) (*keyboardMapping, error) {
	w := newWriter(c.order)
	w.u8(opGetKeyboardMapping)
	w.u8(0)
	w.u16(2)
	w.u8(firstKeycode)
	w.u8(count)
	w.u16(0)

	pending, err := c.sendRequest(w.bytes(), ReplyGetKeyboardMapping, true)
	if err != nil {
		return nil, err
	}
	payload, err := pending.wait()
	if err != nil {
		return nil, err
	}
	keysymsPerKeycode := payload[1]
	r := newReader(c.order, payload[8:])
	total := int(keysymsPerKeycode) * int(count)
	syms := make([]Keysym, total)
	for i := range syms {
		syms[i] = Keysym(r.u32())
	}
	return &keyboardMapping{
		firstKeycode:      firstKeycode,
		keysymsPerKeycode: keysymsPerKeycode,
		keysyms:           syms,
	}, nil
}

// loadKeyboardMapping fetches and caches the full keycode table implied by
// the handshake's MinKeycode/MaxKeycode range, the first time any
// keysym/keycode lookup is made.
func (c *Conn) loadKeyboardMapping() error {
	c.keymapMu.Lock()
	defer c.keymapMu.Unlock()
	if c.keymap != nil {
		return nil
	}
	first := c.setup.MinKeycode
	count := c.setup.MaxKeycode - c.setup.MinKeycode + 1
	m, err := c.getKeyboardMappingRequest(first, count)
	if err != nil {
		return err
	}
	c.keymap = m
	return nil
}

// KeysymFromKeycode resolves a keycode to its primary (level 0) keysym, the
// common case for plain character input (§4.12).
func (c *Conn) KeysymFromKeycode(keycode uint8) (Keysym, error) {
	return c.KeysymFromKeycodeLevel(keycode, 0)
}

// KeysymFromKeycodeLevel resolves a keycode at a specific shift/group
// level (0 = unshifted, 1 = shifted, and so on per keysymsPerKeycode).
func (c *Conn) KeysymFromKeycodeLevel(keycode uint8, level int) (Keysym, error) {
	if err := c.loadKeyboardMapping(); err != nil {
		return 0, err
	}
	c.keymapMu.Lock()
	defer c.keymapMu.Unlock()
	syms := c.keymap.symsFor(keycode)
	if level < 0 || level >= len(syms) {
		return 0, nil
	}
	return syms[level], nil
}

// KeycodeFromKeysym performs the reverse lookup: the first keycode whose
// mapping contains sym at any level (§4.12). Returns ok=false if sym is
// not bound to any key in the current mapping.
func (c *Conn) KeycodeFromKeysym(sym Keysym) (keycode uint8, ok bool, err error) {
	if err := c.loadKeyboardMapping(); err != nil {
		return 0, false, err
	}
	c.keymapMu.Lock()
	defer c.keymapMu.Unlock()
	m := c.keymap
	for kc := int(m.firstKeycode); kc < int(m.firstKeycode)+len(m.keysyms)/int(m.keysymsPerKeycode); kc++ {
		for _, s := range m.symsFor(uint8(kc)) {
			if s == sym {
				return uint8(kc), true, nil
			}
		}
	}
	return 0, false, nil
}

// KeysymToRune converts a Latin-1 range keysym to its character, per the
// X11 convention that keysyms 0x20-0x7e and 0xa0-0xff are identical to
// their ISO 8859-1 codepoint (§4.12 "Latin-1 character mapping"). Anything
// outside that range reports ok=false rather than guessing.
func KeysymToRune(sym Keysym) (r rune, ok bool) {
	switch {
	case sym >= 0x20 && sym <= 0x7e:
		return rune(sym), true
	case sym >= 0xa0 && sym <= 0xff:
		return rune(sym), true
	default:
		return 0, false
	}
}

// RuneToKeysym is KeysymToRune's inverse for the Latin-1 subset.
func RuneToKeysym(r rune) (sym Keysym, ok bool) {
	switch {
	case r >= 0x20 && r <= 0x7e:
		return Keysym(r), true
	case r >= 0xa0 && r <= 0xff:
		return Keysym(r), true
	default:
		return 0, false
	}
}

// InvalidateKeyboardMapping drops the cached table, forcing the next
// lookup to re-fetch it. Call this after observing a MappingNotifyEvent
// with Request == MappingKeyboard (§4.12 "cache invalidation").
func (c *Conn) InvalidateKeyboardMapping() {
	c.keymapMu.Lock()
	defer c.keymapMu.Unlock()
	c.keymap = nil
}

// MappingNotify request kinds (§6), used to decide whether a
// MappingNotifyEvent should invalidate the cached keyboard mapping.
const (
	MappingModifier = 0
	MappingKeyboard = 1
	MappingPointer  = 2
)
