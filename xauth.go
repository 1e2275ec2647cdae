package x11conn

import (
	"encoding/binary"
	"io"
	"log"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// xauthEntry is one record of the xauth binary file format (§4.5, §6):
// family, then length-prefixed address/number/name/data, all lengths
// big-endian regardless of the host's native order (the Xauthority file
// format predates per-connection endian negotiation).
type xauthEntry struct {
	family  uint16
	address []byte
	number  []byte
	name    string
	data    []byte
}

// loadAuth reads the first entry of the XAUTHORITY file. Absence of the
// file, or any read error, is not fatal (§4.5): the caller falls back to
// empty name/data and an unauthenticated setup request.
func loadAuth(logger *log.Logger) (name string, data []byte, ok bool) {
	path := os.Getenv("XAUTHORITY")
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", nil, false
		}
		path = filepath.Join(home, ".Xauthority")
	}

	if _, err := os.Stat(path); err != nil {
		return "", nil, false
	}
	if ok, err := checkFilePerm(path); err == nil && !ok && logger != nil {
		logger.Printf("xauth: %s is group/world readable, reading it anyway", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return "", nil, false
	}
	defer f.Close()

	entry, err := readXauthEntry(f)
	if err != nil {
		return "", nil, false
	}
	return entry.name, entry.data, true
}

// checkFilePerm reports whether the XAUTHORITY file is not group/world
// readable, mirroring the permission hygiene xauth itself expects of
// .Xauthority. Purely advisory: a loose-permission file is still read.
func checkFilePerm(path string) (ok bool, err error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return false, err
	}
	return st.Mode&0077 == 0, nil
}

func readXauthEntry(r io.Reader) (*xauthEntry, error) {
	family, err := readU16BE(r)
	if err != nil {
		return nil, err
	}
	address, err := readLenPrefixed(r)
	if err != nil {
		return nil, err
	}
	number, err := readLenPrefixed(r)
	if err != nil {
		return nil, err
	}
	nameBytes, err := readLenPrefixed(r)
	if err != nil {
		return nil, err
	}
	data, err := readLenPrefixed(r)
	if err != nil {
		return nil, err
	}
	return &xauthEntry{
		family:  family,
		address: address,
		number:  number,
		name:    string(nameBytes),
		data:    data,
	}, nil
}

func readU16BE(r io.Reader) (uint16, error) {
	var buf [2]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(buf[:]), nil
}

func readLenPrefixed(r io.Reader) ([]byte, error) {
	n, err := readU16BE(r)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}
