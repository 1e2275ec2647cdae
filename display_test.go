package x11conn

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_ParseDisplay_TableDriven(t *testing.T) {
	cases := []struct {
		name    string
		spec    string
		network string
		address string
		display int
		screen  int
	}{
		{"bare display number", ":0", "unix", "/tmp/.X11-unix/X0", 0, 0},
		{"display with screen", ":1.2", "unix", "/tmp/.X11-unix/X1", 1, 2},
		{"tcp host", "myhost:0", "tcp", "myhost:6000", 0, 0},
		{"explicit tcp protocol", "myhost/tcp:3", "tcp", "myhost:6003", 3, 0},
		{"explicit unix protocol host part", "/unix:4", "unix", "/tmp/.X11-unix/X4", 4, 0},
		{"unix socket path shorthand", "unix:/tmp/x.sock:5", "unix", "/tmp/x.sock", 5, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d, err := parseDisplay(tc.spec)
			require.NoError(t, err)
			require.Equal(t, tc.display, d.displayNum)
			require.Equal(t, tc.screen, d.screenNum)

			network, address := d.socketTarget()
			require.Equal(t, tc.network, network)
			require.Equal(t, tc.address, address)
		})
	}
}

func Test_ParseDisplay_RejectsMalformedSpecs(t *testing.T) {
	t.Setenv("DISPLAY", "")
	for _, spec := range []string{"", "nodisplaynumber", "host:", "host:abc", "host:-1"} {
		_, err := parseDisplay(spec)
		require.ErrorIs(t, err, ErrInvalidDisplay, "spec=%q", spec)
	}
}
