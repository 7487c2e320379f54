package gadget

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeConfigfs builds the directory skeleton the kernel would provide.
func fakeConfigfs(t *testing.T) (*Configfs, string) {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "configs", "b.1"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "functions"), 0o755))
	return NewConfigfs(root), root
}

func readAttr(t *testing.T, root, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, name))
	require.NoError(t, err)
	return string(data)
}

func TestConfigfsSetVidPid(t *testing.T) {
	c, root := fakeConfigfs(t)
	require.NoError(t, c.SetVidPid("0x05C6", "0x90E7"))
	assert.Equal(t, "0x05C6", readAttr(t, root, "idVendor"))
	assert.Equal(t, "0x90E7", readAttr(t, root, "idProduct"))
}

func TestConfigfsLinkAndUnlink(t *testing.T) {
	c, root := fakeConfigfs(t)

	require.NoError(t, c.LinkFunction("diag.diag", 0))
	require.NoError(t, c.LinkFunction("ffs.adb", 1))

	configDir := filepath.Join(root, "configs", "b.1")
	target, err := os.Readlink(filepath.Join(configDir, "function0"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "functions", "diag.diag"), target)

	// A duplicate slot is a hard error, not a silent overwrite.
	require.ErrorIs(t, c.LinkFunction("qdss.qdss", 0), ErrDeviceIO)

	// Non-symlink entries (the kernel keeps attribute files here) survive.
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "MaxPower"), []byte("500"), 0o644))

	require.NoError(t, c.UnlinkFunctions())
	entries, err := os.ReadDir(configDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "MaxPower", entries[0].Name())
}

func TestConfigfsPullup(t *testing.T) {
	c, root := fakeConfigfs(t)
	require.NoError(t, c.WritePullup("a600000.dwc3"))
	assert.Equal(t, "a600000.dwc3", readAttr(t, root, "UDC"))
	require.NoError(t, c.ClearPullup())
	assert.Equal(t, "none", readAttr(t, root, "UDC"))
}

func TestConfigfsResetGadget(t *testing.T) {
	c, root := fakeConfigfs(t)
	require.NoError(t, c.SetVidPid("0x18d1", "0x4ee7"))
	require.NoError(t, c.LinkFunction("ffs.adb", 0))
	require.NoError(t, c.WritePullup("a600000.dwc3"))

	require.NoError(t, c.ResetGadget())
	assert.Equal(t, "none", readAttr(t, root, "UDC"))
	assert.Equal(t, "0x0000", readAttr(t, root, "idVendor"))
	assert.Equal(t, "0x0000", readAttr(t, root, "idProduct"))
	entries, err := os.ReadDir(filepath.Join(root, "configs", "b.1"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestConfigfsMissingRoot(t *testing.T) {
	c := NewConfigfs(filepath.Join(t.TempDir(), "not-mounted"))
	assert.ErrorIs(t, c.SetVidPid("0x18d1", "0x4ee7"), ErrDeviceIO)
	assert.ErrorIs(t, c.UnlinkFunctions(), ErrDeviceIO)
}
