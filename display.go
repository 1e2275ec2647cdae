package x11conn

import (
	"os"
	"strconv"
	"strings"
)

// displaySpec is the parsed form of a $DISPLAY-shaped string (§4.5, §6):
//
//	(host)?(/tcp|/unix)?:display(.screen)?
//	unix:/path/to/socket:display(.screen)?
//
// Socket selection then follows from it: a UNIX path defaults to
// /tmp/.X11-unix/X<display>, a TCP port to 6000+display.
type displaySpec struct {
	network    string // "unix" or "tcp"
	address    string // explicit socket path (unix) or host (tcp); "" means use the default
	displayNum int
	screenNum  int
}

// parseDisplay runs a small deterministic state machine over the
// characters of spec, left to right, failing fast with ErrInvalidDisplay
// on anything it doesn't recognize. Grounded on the teacher stack's own
// xgb.connect, restated as explicit states per §4.5 "parse with a
// deterministic state machine".
func parseDisplay(spec string) (*displaySpec, error) {
	if spec == "" {
		spec = os.Getenv("DISPLAY")
	}
	if spec == "" {
		return nil, ErrInvalidDisplay
	}
	original := spec

	var d displaySpec

	// An absolute path before the last colon names a UNIX socket directly,
	// whether or not it carries the "unix:" prefix shorthand.
	if strings.HasPrefix(spec, "unix:") && len(spec) > len("unix:") && spec[len("unix:")] == '/' {
		spec = spec[len("unix:"):]
	}

	colonIdx := strings.LastIndex(spec, ":")
	if colonIdx < 0 {
		return nil, wrapInvalidDisplay(original)
	}

	head := spec[:colonIdx]
	tail := spec[colonIdx+1:]
	if tail == "" {
		return nil, wrapInvalidDisplay(original)
	}

	switch {
	case len(head) > 0 && head[0] == '/' && head != "/unix" && head != "/tcp":
		// State: raw absolute path -> explicit UNIX socket. A bare "/unix" or
		// "/tcp" is an empty host with a protocol suffix, handled below.
		d.network = "unix"
		d.address = head
	default:
		// State: optional host, optional "/protocol" suffix on the host.
		if slashIdx := strings.LastIndex(head, "/"); slashIdx >= 0 {
			host := head[:slashIdx]
			protocol := head[slashIdx+1:]
			switch protocol {
			case "tcp", "":
				d.network = "tcp"
			case "unix":
				d.network = "unix"
			default:
				return nil, wrapInvalidDisplay(original)
			}
			d.address = host
		} else if head != "" {
			d.network = "tcp"
			d.address = head
		} else {
			d.network = "unix"
			d.address = ""
		}
	}

	// State: display number, optionally followed by ".screen".
	display := tail
	screen := ""
	if dotIdx := strings.LastIndex(tail, "."); dotIdx >= 0 {
		display = tail[:dotIdx]
		screen = tail[dotIdx+1:]
	}

	n, err := strconv.Atoi(display)
	if err != nil || n < 0 {
		return nil, wrapInvalidDisplay(original)
	}
	d.displayNum = n

	if screen != "" {
		sn, err := strconv.Atoi(screen)
		if err != nil || sn < 0 {
			return nil, wrapInvalidDisplay(original)
		}
		d.screenNum = sn
	}

	return &d, nil
}

func wrapInvalidDisplay(spec string) error {
	return &displayParseError{spec: spec}
}

type displayParseError struct{ spec string }

func (e *displayParseError) Error() string {
	return ErrInvalidDisplay.Error() + ": " + strconv.Quote(e.spec)
}

func (e *displayParseError) Unwrap() error { return ErrInvalidDisplay }

// socketTarget resolves the displaySpec to a (network, address) pair
// suitable for net.Dial, applying the default UNIX socket path / TCP port
// rule (§4.5 "Socket selection").
func (d *displaySpec) socketTarget() (network, address string) {
	switch d.network {
	case "unix":
		if d.address != "" {
			return "unix", d.address
		}
		return "unix", "/tmp/.X11-unix/X" + strconv.Itoa(d.displayNum)
	default:
		port := 6000 + d.displayNum
		return "tcp", d.address + ":" + strconv.Itoa(port)
	}
}
