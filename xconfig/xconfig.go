// Package xconfig loads optional file-backed tuning knobs for a connection,
// for callers who would rather edit a file than set x11conn.Options and
// clipboard.Options fields directly.
package xconfig

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	x11 "x11conn"
	"x11conn/clipboard"
)

// Tuning holds the x11conn.Options and clipboard.Options fields that are
// reasonable to tune from a config file rather than from code.
type Tuning struct {
	SelectionTimeoutMS int
	HandoverTimeoutMS  int
	IncrChunkBytes     int
	IncrThresholdBytes int
	SocketOverride     string
}

const fileName = "x11conn.toml"

// Defaults mirrors the zero-value behavior documented on clipboard.Options.
func Defaults() Tuning {
	return Tuning{
		SelectionTimeoutMS: 5000,
		HandoverTimeoutMS:  500,
		IncrChunkBytes:     4096,
		IncrThresholdBytes: 64 * 1024,
	}
}

// SelectionTimeout returns the tuning value as a time.Duration.
func (t Tuning) SelectionTimeout() time.Duration {
	return time.Duration(t.SelectionTimeoutMS) * time.Millisecond
}

// HandoverTimeout returns the tuning value as a time.Duration.
func (t Tuning) HandoverTimeout() time.Duration {
	return time.Duration(t.HandoverTimeoutMS) * time.Millisecond
}

// ConnOptions renders the tuning as x11conn.Options, leaving Display and
// Logger for the caller to fill in.
func (t Tuning) ConnOptions() x11.Options {
	return x11.Options{SocketOverride: t.SocketOverride}
}

// ClipboardOptions renders the tuning as clipboard.Options.
func (t Tuning) ClipboardOptions() clipboard.Options {
	return clipboard.Options{
		SelectionTimeout:   t.SelectionTimeout(),
		HandoverTimeout:    t.HandoverTimeout(),
		IncrChunkBytes:     t.IncrChunkBytes,
		IncrThresholdBytes: t.IncrThresholdBytes,
	}
}

// LoadOrInit reads dir/x11conn.toml, creating it with Defaults() if absent.
// A missing or unreadable $XDG_CONFIG_HOME falls back to $HOME/.config, same
// resolution order the config predates this package used.
func LoadOrInit(dir string) (Tuning, error) {
	if dir == "" {
		dir = configDir()
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return Tuning{}, err
	}

	path := filepath.Join(dir, fileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		def := Defaults()
		if err := write(path, &def); err != nil {
			return Tuning{}, err
		}
		return def, nil
	} else if err != nil {
		return Tuning{}, err
	}

	var t Tuning
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return Tuning{}, err
	}
	return t, nil
}

func write(path string, t *Tuning) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(t); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

func configDir() string {
	return filepath.Join(xdgOrFallback("XDG_CONFIG_HOME", filepath.Join(os.Getenv("HOME"), ".config")), "x11conn")
}

func xdgOrFallback(xdg, fallback string) string {
	dir := os.Getenv(xdg)
	if dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
		log.Printf("xconfig: $%s set but not a usable directory, falling back to %q", xdg, fallback)
	}
	return fallback
}
