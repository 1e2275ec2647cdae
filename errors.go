package x11conn

import "fmt"

// ErrTerminated is delivered to every blocked caller when the connection's
// read or write side fails. It is terminal: the Conn is unusable afterward.
var ErrTerminated = fmt.Errorf("x11conn: connection terminated")

// ErrOutOfIDs is returned by the resource-id allocator once the
// server-assigned (base, mask) range is exhausted.
var ErrOutOfIDs = fmt.Errorf("x11conn: out of resource ids")

// ErrInvalidDisplay is returned when a display specification string cannot
// be parsed.
var ErrInvalidDisplay = fmt.Errorf("x11conn: invalid display string")

// ErrInvalidStatus is returned when the setup reply's status byte is
// neither Success, Failed nor Authenticate.
var ErrInvalidStatus = fmt.Errorf("x11conn: invalid setup status byte")

// ErrUnknownSequence is returned when a reply or error references a request
// sequence number the router has no record of. This is always a fatal
// protocol violation, never a recoverable condition.
var ErrUnknownSequence = fmt.Errorf("x11conn: reply/error for unknown sequence number")

// SetupFailedError wraps the reason string the server sent back when it
// refused the connection at setup time.
type SetupFailedError struct {
	Reason string
}

func (e *SetupFailedError) Error() string {
	return fmt.Sprintf("x11conn: setup refused: %s", e.Reason)
}

// AuthenticateError is returned when the server replies with the
// Authenticate status (further authentication exchange is not implemented).
type AuthenticateError struct {
	Reason string
}

func (e *AuthenticateError) Error() string {
	return fmt.Sprintf("x11conn: server demands further authentication: %s", e.Reason)
}

// ProtocolError is the decoded form of an X11 error event: the server
// rejected one of our requests. It carries enough of the original wire
// error to let a caller distinguish error classes (§7 "Protocol").
type ProtocolError struct {
	Code     uint8  // error code, e.g. 3 = BadWindow, 5 = BadAtom, ...
	Sequence uint16 // low 16 bits of the offending request's sequence
	BadValue uint32
	Minor    uint16
	Major    uint8
}

func (e *ProtocolError) Error() string {
	name, ok := errorNames[e.Code]
	if !ok {
		name = fmt.Sprintf("Unknown(%d)", e.Code)
	}
	return fmt.Sprintf("x11conn: protocol error %s (major=%d minor=%d bad_value=%#x seq=%d)",
		name, e.Major, e.Minor, e.BadValue, e.Sequence)
}

// errorNames maps the core protocol's error codes to their conventional
// names, used only for diagnostics.
var errorNames = map[uint8]string{
	1:  "Request",
	2:  "Value",
	3:  "Window",
	4:  "Pixmap",
	5:  "Atom",
	6:  "Cursor",
	7:  "Font",
	8:  "Match",
	9:  "Drawable",
	10: "Access",
	11: "Alloc",
	12: "Colormap",
	13: "GContext",
	14: "IDChoice",
	15: "Name",
	16: "Length",
	17: "Implementation",
}

// Selection / clipboard errors (§7 "Selection").
var (
	ErrSelectionTimeout  = fmt.Errorf("x11conn/clipboard: timed out waiting for selection transfer")
	ErrNoSelectionData   = fmt.Errorf("x11conn/clipboard: selection owner has no data for target")
	ErrConversionRefused = fmt.Errorf("x11conn/clipboard: selection owner refused conversion")
	ErrHandoverFailed    = fmt.Errorf("x11conn/clipboard: clipboard manager handover failed")
	ErrNoManager         = fmt.Errorf("x11conn/clipboard: no clipboard manager present")
	ErrServiceStopped    = fmt.Errorf("x11conn/clipboard: background event service is not running")
)
