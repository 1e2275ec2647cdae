package x11conn

// Window class values for CreateWindow (§6). CopyFromParent doubles as
// both the depth and visual "inherit from parent" sentinel (0).
const (
	ClassCopyFromParent uint16 = 0
	ClassInputOutput    uint16 = 1
	ClassInputOnly      uint16 = 2
)

// CW* bits select which optional fields follow in CreateWindow/
// ChangeWindowAttributes's VALUE list (§6). The list is ordered by
// ascending bit position, not by declaration order in WindowAttributes.
const (
	CWBackPixmap       uint32 = 1 << 0
	CWBackPixel        uint32 = 1 << 1
	CWBorderPixmap     uint32 = 1 << 2
	CWBorderPixel      uint32 = 1 << 3
	CWBitGravity       uint32 = 1 << 4
	CWWinGravity       uint32 = 1 << 5
	CWBackingStore     uint32 = 1 << 6
	CWBackingPlanes    uint32 = 1 << 7
	CWBackingPixel     uint32 = 1 << 8
	CWOverrideRedirect uint32 = 1 << 9
	CWSaveUnder        uint32 = 1 << 10
	CWEventMask        uint32 = 1 << 11
	CWDontPropagate    uint32 = 1 << 12
	CWColormap         uint32 = 1 << 13
	CWCursor           uint32 = 1 << 14
)

// Event mask bits, for CWEventMask and the grab requests (§6).
const (
	EventMaskKeyPress             uint32 = 1 << 0
	EventMaskKeyRelease           uint32 = 1 << 1
	EventMaskButtonPress          uint32 = 1 << 2
	EventMaskButtonRelease        uint32 = 1 << 3
	EventMaskEnterWindow          uint32 = 1 << 4
	EventMaskLeaveWindow          uint32 = 1 << 5
	EventMaskPointerMotion        uint32 = 1 << 6
	EventMaskStructureNotify      uint32 = 1 << 17
	EventMaskSubstructureNotify   uint32 = 1 << 19
	EventMaskSubstructureRedirect uint32 = 1 << 20
	EventMaskFocusChange          uint32 = 1 << 21
	EventMaskPropertyChange       uint32 = 1 << 22
)

// ConfigMask bits select which optional fields follow in ConfigureWindow's
// VALUE list, again ordered by ascending bit position (§6).
const (
	ConfigX           uint16 = 1 << 0
	ConfigY           uint16 = 1 << 1
	ConfigWidth       uint16 = 1 << 2
	ConfigHeight      uint16 = 1 << 3
	ConfigBorderWidth uint16 = 1 << 4
	ConfigSibling     uint16 = 1 << 5
	ConfigStackMode   uint16 = 1 << 6
)

// WindowAttributes is the sparse set of CreateWindow/ChangeWindowAttributes
// optional fields a caller wants to set. Only fields whose corresponding
// CW* bit is present in the request's computed mask are encoded.
type WindowAttributes struct {
	BackPixmap       *uint32
	BackPixel        *uint32
	BorderPixmap     *uint32
	BorderPixel      *uint32
	BitGravity       *uint8
	WinGravity       *uint8
	BackingStore     *uint8
	BackingPlanes    *uint32
	BackingPixel     *uint32
	OverrideRedirect *bool
	SaveUnder        *bool
	EventMask        *uint32
	DontPropagate    *uint32
	Colormap         *uint32
	Cursor           *uint32
}

// encode builds the (mask, VALUE list) pair CreateWindow and
// ChangeWindowAttributes both share, walking CW* bits low to high (§6
// "Value list ordering").
func (a WindowAttributes) encode() (uint32, []uint32) {
	var mask uint32
	var values []uint32
	add := func(bit uint32, v uint32) {
		mask |= bit
		values = append(values, v)
	}
	if a.BackPixmap != nil {
		add(CWBackPixmap, *a.BackPixmap)
	}
	if a.BackPixel != nil {
		add(CWBackPixel, *a.BackPixel)
	}
	if a.BorderPixmap != nil {
		add(CWBorderPixmap, *a.BorderPixmap)
	}
	if a.BorderPixel != nil {
		add(CWBorderPixel, *a.BorderPixel)
	}
	if a.BitGravity != nil {
		add(CWBitGravity, uint32(*a.BitGravity))
	}
	if a.WinGravity != nil {
		add(CWWinGravity, uint32(*a.WinGravity))
	}
	if a.BackingStore != nil {
		add(CWBackingStore, uint32(*a.BackingStore))
	}
	if a.BackingPlanes != nil {
		add(CWBackingPlanes, *a.BackingPlanes)
	}
	if a.BackingPixel != nil {
		add(CWBackingPixel, *a.BackingPixel)
	}
	if a.OverrideRedirect != nil {
		add(CWOverrideRedirect, boolToU32(*a.OverrideRedirect))
	}
	if a.SaveUnder != nil {
		add(CWSaveUnder, boolToU32(*a.SaveUnder))
	}
	if a.EventMask != nil {
		add(CWEventMask, *a.EventMask)
	}
	if a.DontPropagate != nil {
		add(CWDontPropagate, *a.DontPropagate)
	}
	if a.Colormap != nil {
		add(CWColormap, *a.Colormap)
	}
	if a.Cursor != nil {
		add(CWCursor, *a.Cursor)
	}
	return mask, values
}

func boolToU32(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

// CreateWindow allocates a window id and issues CREATE_WINDOW (§4.9, §6).
// depth 0 and visual 0 inherit from parent, matching CopyFromParent.
func (c *Conn) CreateWindow(parent uint32, x, y int16, width, height, borderWidth uint16, depth uint8, class uint16, visual uint32, attrs WindowAttributes) (uint32, error) {
	win, err := c.ids.alloc()
	if err != nil {
		return 0, err
	}
	mask, values := attrs.encode()

	w := newWriter(c.order)
	w.u8(opCreateWindow)
	w.u8(depth)
	w.u16(uint16(8 + len(values)))
	w.u32(win)
	w.u32(parent)
	w.u16(uint16(x))
	w.u16(uint16(y))
	w.u16(width)
	w.u16(height)
	w.u16(borderWidth)
	w.u16(class)
	w.u32(visual)
	w.u32(mask)
	for _, v := range values {
		w.u32(v)
	}

	if err := c.sendFireAndForget(w.bytes()); err != nil {
		return 0, err
	}
	return win, nil
}

// ChangeWindowAttributes issues CHANGE_WINDOW_ATTRIBUTES for an existing
// window (§6).
func (c *Conn) ChangeWindowAttributes(win uint32, attrs WindowAttributes) error {
	mask, values := attrs.encode()
	w := newWriter(c.order)
	w.u8(opChangeWindowAttribs)
	w.u8(0)
	w.u16(uint16(3 + len(values)))
	w.u32(win)
	w.u32(mask)
	for _, v := range values {
		w.u32(v)
	}
	return c.sendFireAndForget(w.bytes())
}

// DestroyWindow issues DESTROY_WINDOW (§6).
func (c *Conn) DestroyWindow(win uint32) error {
	w := newWriter(c.order)
	w.u8(opDestroyWindow)
	w.u8(0)
	w.u16(2)
	w.u32(win)
	return c.sendFireAndForget(w.bytes())
}

// WindowGeometry is GET_GEOMETRY's decoded reply (§6).
type WindowGeometry struct {
	Root                        uint32
	Depth                       uint8
	X, Y                        int16
	Width, Height, BorderWidth  uint16
}

// GetGeometry issues GET_GEOMETRY against any drawable (window or pixmap).
func (c *Conn) GetGeometry(drawable uint32) (*WindowGeometry, error) {
	w := newWriter(c.order)
	w.u8(opGetGeometry)
	w.u8(0)
	w.u16(2)
	w.u32(drawable)

	pending, err := c.sendRequest(w.bytes(), ReplyGetGeometry, true)
	if err != nil {
		return nil, err
	}
	payload, err := pending.wait()
	if err != nil {
		return nil, err
	}
	r := newReader(c.order, payload[1:])
	depth := r.u8()
	r.skip(6)
	root := r.u32()
	x, y := r.i16(), r.i16()
	width, height := r.u16(), r.u16()
	borderWidth := r.u16()
	return &WindowGeometry{Root: root, Depth: depth, X: x, Y: y, Width: width, Height: height, BorderWidth: borderWidth}, nil
}

// WindowAttributesReply is GET_WINDOW_ATTRIBUTES's decoded reply (§6).
type WindowAttributesReply struct {
	MapState     uint8
	OverrideRedirect bool
	YourEventMask   uint32
	AllEventMasks   uint32
}

// GetWindowAttributes issues GET_WINDOW_ATTRIBUTES.
func (c *Conn) GetWindowAttributes(win uint32) (*WindowAttributesReply, error) {
	w := newWriter(c.order)
	w.u8(opGetWindowAttributes)
	w.u8(0)
	w.u16(2)
	w.u32(win)

	pending, err := c.sendRequest(w.bytes(), ReplyGetWindowAttributes, true)
	if err != nil {
		return nil, err
	}
	payload, err := pending.wait()
	if err != nil {
		return nil, err
	}
	// byte1 is backing-store; bytes2-7 are sequence + reply length, already
	// consumed by the router, so the rest of the body resumes at byte8.
	r := newReader(c.order, payload[8:])
	r.skip(4)  // visual
	r.skip(2)  // class
	r.skip(1)  // bit-gravity
	r.skip(1)  // win-gravity
	r.skip(4)  // backing-planes
	r.skip(4)  // backing-pixel
	r.skip(1)  // save-under
	r.skip(1)  // map-is-installed
	mapState := r.u8()
	overrideRedirect := r.u8()
	r.skip(4) // colormap
	allEventMasks := r.u32()
	yourEventMask := r.u32()
	return &WindowAttributesReply{
		MapState:         mapState,
		OverrideRedirect: overrideRedirect != 0,
		YourEventMask:    yourEventMask,
		AllEventMasks:    allEventMasks,
	}, nil
}

// ConfigureWindow issues CONFIGURE_WINDOW. values must already be ordered
// to match mask's ascending bit order (§6).
func (c *Conn) ConfigureWindow(win uint32, mask uint16, values []uint32) error {
	w := newWriter(c.order)
	w.u8(opConfigureWindow)
	w.u8(0)
	w.u16(uint16(3 + len(values)))
	w.u32(win)
	w.u16(mask)
	w.u16(0)
	for _, v := range values {
		w.u32(v)
	}
	return c.sendFireAndForget(w.bytes())
}

// QueryTreeReply is QUERY_TREE's decoded reply (§6, supplemented feature
// grounded on resetti's GetWindowChildren tree walk).
type QueryTreeReply struct {
	Root, Parent uint32
	Children     []uint32
}

// QueryTree issues the supplemented QUERY_TREE request.
func (c *Conn) QueryTree(win uint32) (*QueryTreeReply, error) {
	w := newWriter(c.order)
	w.u8(opQueryTree)
	w.u8(0)
	w.u16(2)
	w.u32(win)

	pending, err := c.sendRequest(w.bytes(), ReplyQueryTree, true)
	if err != nil {
		return nil, err
	}
	payload, err := pending.wait()
	if err != nil {
		return nil, err
	}
	r := newReader(c.order, payload[8:])
	root := r.u32()
	parent := r.u32()
	numChildren := r.u16()
	r.skip(14)
	children := make([]uint32, numChildren)
	for i := range children {
		children[i] = r.u32()
	}
	return &QueryTreeReply{Root: root, Parent: parent, Children: children}, nil
}

// Children returns every descendant of win, breadth-first, matching the
// traversal in resetti's GetWindowChildren: a window that disappears
// mid-walk is skipped rather than treated as fatal.
func (c *Conn) Children(win uint32) []uint32 {
	queue := []uint32{win}
	for i := 0; i < len(queue); i++ {
		tree, err := c.QueryTree(queue[i])
		if err != nil {
			continue
		}
		queue = append(queue, tree.Children...)
	}
	return queue[1:]
}

// GrabMode values for the grab requests (§6).
const (
	GrabModeSync  uint8 = 0
	GrabModeAsync uint8 = 1
)

// GrabStatus values returned by GrabPointer/GrabKeyboard (§6).
const (
	GrabStatusSuccess    uint8 = 0
	GrabStatusAlreadyGrabbed uint8 = 1
	GrabStatusInvalidTime    uint8 = 2
	GrabStatusNotViewable    uint8 = 3
	GrabStatusFrozen         uint8 = 4
)

// GrabPointer issues GRAB_POINTER.
func (c *Conn) GrabPointer(grabWindow uint32, ownerEvents bool, eventMask uint16, pointerMode, keyboardMode uint8, confineTo, cursor uint32, time uint32) (uint8, error) {
	w := newWriter(c.order)
	w.u8(opGrabPointer)
	w.u8(boolToU8(ownerEvents))
	w.u16(6)
	w.u32(grabWindow)
	w.u16(eventMask)
	w.u8(pointerMode)
	w.u8(keyboardMode)
	w.u32(confineTo)
	w.u32(cursor)
	w.u32(time)

	pending, err := c.sendRequest(w.bytes(), ReplyGrabPointer, true)
	if err != nil {
		return 0, err
	}
	payload, err := pending.wait()
	if err != nil {
		return 0, err
	}
	return payload[1], nil
}

// UngrabPointer issues UNGRAB_POINTER.
func (c *Conn) UngrabPointer(time uint32) error {
	w := newWriter(c.order)
	w.u8(opUngrabPointer)
	w.u8(0)
	w.u16(2)
	w.u32(time)
	return c.sendFireAndForget(w.bytes())
}

// GrabButton issues GRAB_BUTTON.
func (c *Conn) GrabButton(grabWindow uint32, ownerEvents bool, eventMask uint16, pointerMode, keyboardMode uint8, confineTo, cursor uint32, button uint8, modifiers uint16) error {
	w := newWriter(c.order)
	w.u8(opGrabButton)
	w.u8(boolToU8(ownerEvents))
	w.u16(6)
	w.u32(grabWindow)
	w.u16(eventMask)
	w.u8(pointerMode)
	w.u8(keyboardMode)
	w.u32(confineTo)
	w.u32(cursor)
	w.u8(button)
	w.u8(0)
	w.u16(modifiers)
	return c.sendFireAndForget(w.bytes())
}

// UngrabButton issues UNGRAB_BUTTON.
func (c *Conn) UngrabButton(button uint8, grabWindow uint32, modifiers uint16) error {
	w := newWriter(c.order)
	w.u8(opUngrabButton)
	w.u8(button)
	w.u16(3)
	w.u32(grabWindow)
	w.u16(modifiers)
	w.u16(0)
	return c.sendFireAndForget(w.bytes())
}

// GrabKey issues GRAB_KEY.
func (c *Conn) GrabKey(grabWindow uint32, ownerEvents bool, modifiers uint16, key uint8, pointerMode, keyboardMode uint8) error {
	w := newWriter(c.order)
	w.u8(opGrabKey)
	w.u8(boolToU8(ownerEvents))
	w.u16(4)
	w.u32(grabWindow)
	w.u16(modifiers)
	w.u8(key)
	w.u8(pointerMode)
	w.u8(keyboardMode)
	w.raw([]byte{0, 0, 0})
	return c.sendFireAndForget(w.bytes())
}

func boolToU8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// PointerPosition is QUERY_POINTER's decoded reply (§6).
type PointerPosition struct {
	SameScreen      bool
	Root, Child     uint32
	RootXY, WinXY   Point
	Mask            Keymod
}

// QueryPointer issues QUERY_POINTER.
func (c *Conn) QueryPointer(win uint32) (*PointerPosition, error) {
	w := newWriter(c.order)
	w.u8(opQueryPointer)
	w.u8(0)
	w.u16(2)
	w.u32(win)

	pending, err := c.sendRequest(w.bytes(), ReplyQueryPointer, true)
	if err != nil {
		return nil, err
	}
	payload, err := pending.wait()
	if err != nil {
		return nil, err
	}
	r := newReader(c.order, payload[1:])
	sameScreen := r.u8()
	r.skip(6)
	root := r.u32()
	child := r.u32()
	rx, ry := r.i16(), r.i16()
	wx, wy := r.i16(), r.i16()
	mask := r.u16()
	return &PointerPosition{
		SameScreen: sameScreen != 0,
		Root:       root,
		Child:      child,
		RootXY:     Point{rx, ry},
		WinXY:      Point{wx, wy},
		Mask:       Keymod(mask),
	}, nil
}

// SetInputFocus issues SET_INPUT_FOCUS.
func (c *Conn) SetInputFocus(focus uint32, revertTo uint8, time uint32) error {
	w := newWriter(c.order)
	w.u8(opSetInputFocus)
	w.u8(revertTo)
	w.u16(3)
	w.u32(focus)
	w.u32(time)
	return c.sendFireAndForget(w.bytes())
}

// GetInputFocus issues GET_INPUT_FOCUS.
func (c *Conn) GetInputFocus() (uint32, error) {
	w := newWriter(c.order)
	w.u8(opGetInputFocus)
	w.u8(0)
	w.u16(1)

	pending, err := c.sendRequest(w.bytes(), ReplyGetInputFocus, true)
	if err != nil {
		return 0, err
	}
	payload, err := pending.wait()
	if err != nil {
		return 0, err
	}
	r := newReader(c.order, payload[8:])
	return r.u32(), nil
}

// KillClient issues KILL_CLIENT against a resource owned by a misbehaving
// client (§6).
func (c *Conn) KillClient(resource uint32) error {
	return c.killClientRequest(resource)
}
