package xconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_LoadOrInit_CreatesFileWithDefaultsWhenAbsent(t *testing.T) {
	dir := t.TempDir()

	tuning, err := LoadOrInit(dir)
	require.NoError(t, err)
	require.Equal(t, Defaults(), tuning)

	_, err = os.Stat(filepath.Join(dir, fileName))
	require.NoError(t, err)
}

func Test_LoadOrInit_ReadsExistingFile(t *testing.T) {
	dir := t.TempDir()
	custom := Tuning{
		SelectionTimeoutMS: 1000,
		HandoverTimeoutMS:  250,
		IncrChunkBytes:     2048,
		IncrThresholdBytes: 32 * 1024,
		SocketOverride:     "/tmp/custom.sock",
	}
	require.NoError(t, write(filepath.Join(dir, fileName), &custom))

	tuning, err := LoadOrInit(dir)
	require.NoError(t, err)
	require.Equal(t, custom, tuning)
}

func Test_Tuning_DurationHelpersConvertMillisecondFields(t *testing.T) {
	tuning := Tuning{SelectionTimeoutMS: 5000, HandoverTimeoutMS: 500}
	require.Equal(t, 5000000000, int(tuning.SelectionTimeout()))
	require.Equal(t, 500000000, int(tuning.HandoverTimeout()))
}

func Test_XdgOrFallback_UsesEnvWhenItIsAnExistingDirectory(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	require.Equal(t, dir, xdgOrFallback("XDG_CONFIG_HOME", "/fallback"))
}

func Test_XdgOrFallback_FallsBackWhenEnvUnsetOrNotADirectory(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	require.Equal(t, "/fallback", xdgOrFallback("XDG_CONFIG_HOME", "/fallback"))

	notADir := filepath.Join(t.TempDir(), "not-a-dir-entry")
	require.NoError(t, os.WriteFile(notADir, []byte("x"), 0644))
	t.Setenv("XDG_CONFIG_HOME", notADir)
	require.Equal(t, "/fallback", xdgOrFallback("XDG_CONFIG_HOME", "/fallback"))
}
