package x11conn

import "encoding/binary"

// Event is the tagged-union interface every decoded event implements
// (§3 "Event"). Callers type-switch on the concrete type.
type Event interface {
	xevent()
}

// Event opcodes (§6, low 7 bits of the generic event header's first byte).
const (
	opKeyPress         = 2
	opKeyRelease       = 3
	opButtonPress      = 4
	opButtonRelease    = 5
	opMotionNotify     = 6
	opEnterNotify      = 7
	opLeaveNotify      = 8
	opFocusIn          = 9
	opFocusOut         = 10
	opCreateNotify     = 16
	opDestroyNotify    = 17
	opUnmapNotify      = 18
	opMapNotify        = 19
	opMapRequest       = 20
	opReparentNotify   = 21
	opConfigureNotify  = 22
	opConfigureRequest = 23
	opGravityNotify    = 24
	opCirculateNotify  = 26
	opPropertyNotify   = 28
	opSelectionClear   = 29
	opSelectionRequest = 30
	opSelectionNotify  = 31
	opClientMessage    = 33
	opMappingNotify    = 34
)

// Keymod is the modifier-key bitmask carried on input events.
type Keymod uint16

const (
	ModShift   Keymod = 1 << 0
	ModLock    Keymod = 1 << 1
	ModControl Keymod = 1 << 2
	ModMod1    Keymod = 1 << 3
	ModMod2    Keymod = 1 << 4
	ModMod3    Keymod = 1 << 5
	ModMod4    Keymod = 1 << 6
	ModMod5    Keymod = 1 << 7
	ModButton1 Keymod = 1 << 8
	ModButton2 Keymod = 1 << 9
	ModButton3 Keymod = 1 << 10
	ModButton4 Keymod = 1 << 11
	ModButton5 Keymod = 1 << 12
)

// Point is a pointer/event coordinate pair.
type Point struct{ X, Y int16 }

type KeyEvent struct {
	Release             bool
	Detail              uint8
	Sequence            uint16
	Time                uint32
	Root, EventWin, Child uint32
	RootXY, EventXY     Point
	State               Keymod
	SameScreen          bool
}

func (KeyEvent) xevent() {}

type ButtonEvent struct {
	Release               bool
	Detail                uint8
	Sequence              uint16
	Time                  uint32
	Root, EventWin, Child uint32
	RootXY, EventXY       Point
	State                 Keymod
	SameScreen            bool
}

func (ButtonEvent) xevent() {}

type MotionEvent struct {
	IsHint                uint8
	Sequence              uint16
	Time                  uint32
	Root, EventWin, Child uint32
	RootXY, EventXY       Point
	State                 Keymod
	SameScreen            bool
}

func (MotionEvent) xevent() {}

type CrossingEvent struct {
	Leave                 bool
	Detail                uint8
	Sequence              uint16
	Time                  uint32
	Root, EventWin, Child uint32
	RootXY, EventXY       Point
	State                 Keymod
	Mode                  uint8
	SameScreenFocus       uint8
}

func (CrossingEvent) xevent() {}

type FocusEvent struct {
	Out      bool
	Detail   uint8
	Sequence uint16
	EventWin uint32
	Mode     uint8
}

func (FocusEvent) xevent() {}

type CreateNotifyEvent struct {
	Sequence                uint16
	Parent, Window          uint32
	X, Y, Width, Height     int16
	BorderWidth             int16
	OverrideRedirect        bool
}

func (CreateNotifyEvent) xevent() {}

type DestroyNotifyEvent struct {
	Sequence      uint16
	Event, Window uint32
}

func (DestroyNotifyEvent) xevent() {}

type UnmapNotifyEvent struct {
	Sequence      uint16
	Event, Window uint32
	FromConfigure bool
}

func (UnmapNotifyEvent) xevent() {}

type MapNotifyEvent struct {
	Sequence         uint16
	Event, Window    uint32
	OverrideRedirect bool
}

func (MapNotifyEvent) xevent() {}

type MapRequestEvent struct {
	Sequence       uint16
	Parent, Window uint32
}

func (MapRequestEvent) xevent() {}

type ReparentNotifyEvent struct {
	Sequence                 uint16
	Event, Window, Parent    uint32
	X, Y                     int16
	OverrideRedirect         bool
}

func (ReparentNotifyEvent) xevent() {}

type ConfigureNotifyEvent struct {
	Sequence                            uint16
	Event, Window, AboveSibling         uint32
	X, Y                                int16
	Width, Height, BorderWidth          uint16
	OverrideRedirect                    bool
}

func (ConfigureNotifyEvent) xevent() {}

type ConfigureRequestEvent struct {
	StackMode                   uint8
	Sequence                    uint16
	Parent, Window, Sibling     uint32
	X, Y                        int16
	Width, Height, BorderWidth  uint16
	ValueMask                   uint16
}

func (ConfigureRequestEvent) xevent() {}

type GravityNotifyEvent struct {
	Sequence      uint16
	Event, Window uint32
	X, Y          int16
}

func (GravityNotifyEvent) xevent() {}

type CirculateNotifyEvent struct {
	Sequence      uint16
	Event, Window uint32
	Place         uint8
}

func (CirculateNotifyEvent) xevent() {}

// PropertyState values for PropertyNotifyEvent.State.
const (
	PropertyNewValue uint8 = 0
	PropertyDeleted  uint8 = 1
)

type PropertyNotifyEvent struct {
	Sequence uint16
	Window   uint32
	Atom     Atom
	Time     uint32
	State    uint8
}

func (PropertyNotifyEvent) xevent() {}

type SelectionClearEvent struct {
	Sequence          uint16
	Time              uint32
	Owner             uint32
	Selection         Atom
}

func (SelectionClearEvent) xevent() {}

type SelectionRequestEvent struct {
	Sequence                          uint16
	Time                              uint32
	Owner, Requestor                  uint32
	Selection, Target, Property       Atom
}

func (SelectionRequestEvent) xevent() {}

type SelectionNotifyEvent struct {
	Sequence               uint16
	Time                   uint32
	Requestor              uint32
	Selection, Target, Property Atom
}

func (SelectionNotifyEvent) xevent() {}

type ClientMessageEvent struct {
	Format   uint8
	Sequence uint16
	Window   uint32
	Type     Atom
	Data     [20]byte
}

func (ClientMessageEvent) xevent() {}

// Data32 interprets Data as five 32-bit words in the connection's byte
// order, the common case for EWMH client messages.
func (e ClientMessageEvent) Data32(order binary.ByteOrder) [5]uint32 {
	var out [5]uint32
	for i := 0; i < 5; i++ {
		out[i] = order.Uint32(e.Data[i*4:])
	}
	return out
}

type MappingNotifyEvent struct {
	Sequence     uint16
	Request      uint8
	FirstKeycode uint8
	Count        uint8
}

func (MappingNotifyEvent) xevent() {}

// decodeEvent decodes a 32-byte generic event record into its typed form.
// The first byte's low 7 bits select the event type; bit 7 (SendEvent) is
// masked off and not recorded on the decoded event.
func decodeEvent(order binary.ByteOrder, buf []byte) Event {
	code := buf[0] & 0x7f
	detail := buf[1]
	r := newReader(order, buf[2:])
	seq := r.u16()

	switch code {
	case opKeyPress, opKeyRelease:
		time := r.u32()
		root := r.u32()
		event := r.u32()
		child := r.u32()
		rx, ry := r.i16(), r.i16()
		ex, ey := r.i16(), r.i16()
		state := r.u16()
		same := r.u8()
		return KeyEvent{
			Release: code == opKeyRelease, Detail: detail, Sequence: seq, Time: time,
			Root: root, EventWin: event, Child: child,
			RootXY: Point{rx, ry}, EventXY: Point{ex, ey},
			State: Keymod(state), SameScreen: same != 0,
		}
	case opButtonPress, opButtonRelease:
		time := r.u32()
		root := r.u32()
		event := r.u32()
		child := r.u32()
		rx, ry := r.i16(), r.i16()
		ex, ey := r.i16(), r.i16()
		state := r.u16()
		same := r.u8()
		return ButtonEvent{
			Release: code == opButtonRelease, Detail: detail, Sequence: seq, Time: time,
			Root: root, EventWin: event, Child: child,
			RootXY: Point{rx, ry}, EventXY: Point{ex, ey},
			State: Keymod(state), SameScreen: same != 0,
		}
	case opMotionNotify:
		time := r.u32()
		root := r.u32()
		event := r.u32()
		child := r.u32()
		rx, ry := r.i16(), r.i16()
		ex, ey := r.i16(), r.i16()
		state := r.u16()
		same := r.u8()
		return MotionEvent{
			IsHint: detail, Sequence: seq, Time: time,
			Root: root, EventWin: event, Child: child,
			RootXY: Point{rx, ry}, EventXY: Point{ex, ey},
			State: Keymod(state), SameScreen: same != 0,
		}
	case opEnterNotify, opLeaveNotify:
		time := r.u32()
		root := r.u32()
		event := r.u32()
		child := r.u32()
		rx, ry := r.i16(), r.i16()
		ex, ey := r.i16(), r.i16()
		state := r.u16()
		mode := r.u8()
		ssf := r.u8()
		return CrossingEvent{
			Leave: code == opLeaveNotify, Detail: detail, Sequence: seq, Time: time,
			Root: root, EventWin: event, Child: child,
			RootXY: Point{rx, ry}, EventXY: Point{ex, ey},
			State: Keymod(state), Mode: mode, SameScreenFocus: ssf,
		}
	case opFocusIn, opFocusOut:
		event := r.u32()
		mode := r.u8()
		return FocusEvent{Out: code == opFocusOut, Detail: detail, Sequence: seq, EventWin: event, Mode: mode}
	case opCreateNotify:
		parent := r.u32()
		window := r.u32()
		x, y := r.i16(), r.i16()
		w, h := r.i16(), r.i16()
		bw := r.i16()
		override := r.u8()
		return CreateNotifyEvent{
			Sequence: seq, Parent: parent, Window: window,
			X: x, Y: y, Width: w, Height: h, BorderWidth: bw, OverrideRedirect: override != 0,
		}
	case opDestroyNotify:
		event := r.u32()
		window := r.u32()
		return DestroyNotifyEvent{Sequence: seq, Event: event, Window: window}
	case opUnmapNotify:
		event := r.u32()
		window := r.u32()
		fromConf := r.u8()
		return UnmapNotifyEvent{Sequence: seq, Event: event, Window: window, FromConfigure: fromConf != 0}
	case opMapNotify:
		event := r.u32()
		window := r.u32()
		override := r.u8()
		return MapNotifyEvent{Sequence: seq, Event: event, Window: window, OverrideRedirect: override != 0}
	case opMapRequest:
		parent := r.u32()
		window := r.u32()
		return MapRequestEvent{Sequence: seq, Parent: parent, Window: window}
	case opReparentNotify:
		event := r.u32()
		window := r.u32()
		parent := r.u32()
		x, y := r.i16(), r.i16()
		override := r.u8()
		return ReparentNotifyEvent{Sequence: seq, Event: event, Window: window, Parent: parent, X: x, Y: y, OverrideRedirect: override != 0}
	case opConfigureNotify:
		event := r.u32()
		window := r.u32()
		above := r.u32()
		x, y := r.i16(), r.i16()
		w, h := r.u16(), r.u16()
		bw := r.u16()
		override := r.u8()
		return ConfigureNotifyEvent{
			Sequence: seq, Event: event, Window: window, AboveSibling: above,
			X: x, Y: y, Width: w, Height: h, BorderWidth: bw, OverrideRedirect: override != 0,
		}
	case opConfigureRequest:
		parent := r.u32()
		window := r.u32()
		sibling := r.u32()
		x, y := r.i16(), r.i16()
		w, h := r.u16(), r.u16()
		bw := r.u16()
		mask := r.u16()
		return ConfigureRequestEvent{
			StackMode: detail, Sequence: seq, Parent: parent, Window: window, Sibling: sibling,
			X: x, Y: y, Width: w, Height: h, BorderWidth: bw, ValueMask: mask,
		}
	case opGravityNotify:
		event := r.u32()
		window := r.u32()
		x, y := r.i16(), r.i16()
		return GravityNotifyEvent{Sequence: seq, Event: event, Window: window, X: x, Y: y}
	case opCirculateNotify:
		event := r.u32()
		window := r.u32()
		r.skip(4)
		place := r.u8()
		return CirculateNotifyEvent{Sequence: seq, Event: event, Window: window, Place: place}
	case opPropertyNotify:
		window := r.u32()
		atom := r.u32()
		time := r.u32()
		state := r.u8()
		return PropertyNotifyEvent{Sequence: seq, Window: window, Atom: Atom(atom), Time: time, State: state}
	case opSelectionClear:
		time := r.u32()
		owner := r.u32()
		selection := r.u32()
		return SelectionClearEvent{Sequence: seq, Time: time, Owner: owner, Selection: Atom(selection)}
	case opSelectionRequest:
		time := r.u32()
		owner := r.u32()
		requestor := r.u32()
		selection := r.u32()
		target := r.u32()
		property := r.u32()
		return SelectionRequestEvent{
			Sequence: seq, Time: time, Owner: owner, Requestor: requestor,
			Selection: Atom(selection), Target: Atom(target), Property: Atom(property),
		}
	case opSelectionNotify:
		time := r.u32()
		requestor := r.u32()
		selection := r.u32()
		target := r.u32()
		property := r.u32()
		return SelectionNotifyEvent{
			Sequence: seq, Time: time, Requestor: requestor,
			Selection: Atom(selection), Target: Atom(target), Property: Atom(property),
		}
	case opClientMessage:
		window := r.u32()
		typ := r.u32()
		var data [20]byte
		copy(data[:], r.raw(20))
		return ClientMessageEvent{Format: detail, Sequence: seq, Window: window, Type: Atom(typ), Data: data}
	case opMappingNotify:
		request := r.u8()
		first := r.u8()
		count := r.u8()
		return MappingNotifyEvent{Sequence: seq, Request: request, FirstKeycode: first, Count: count}
	default:
		return UnknownEvent{Code: code, Sequence: seq, Raw: append([]byte(nil), buf...)}
	}
}

// UnknownEvent carries any event code this package does not decode (e.g.
// an extension event), matching the generic "typed request / typed reply"
// extensibility the spec calls for (§1).
type UnknownEvent struct {
	Code     uint8
	Sequence uint16
	Raw      []byte
}

func (UnknownEvent) xevent() {}
