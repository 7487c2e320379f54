package gadget

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSysfs lays out a minimal esoc bus and soc0 machine file under a temp
// dir and returns a probe pointed at them.
func fakeSysfs(t *testing.T, esocNames []string, machine string) *ModemProbe {
	t.Helper()
	root := t.TempDir()

	esocDir := filepath.Join(root, "bus", "esoc", "devices")
	require.NoError(t, os.MkdirAll(esocDir, 0o755))
	for i, name := range esocNames {
		dev := filepath.Join(esocDir, "esoc"+string(rune('0'+i)))
		require.NoError(t, os.MkdirAll(dev, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dev, "esoc_name"), []byte(name), 0o644))
	}

	machineFile := filepath.Join(root, "soc0", "machine")
	if machine != "" {
		require.NoError(t, os.MkdirAll(filepath.Dir(machineFile), 0o755))
		require.NoError(t, os.WriteFile(machineFile, []byte(machine), 0o644))
	}

	return &ModemProbe{EsocDir: esocDir, SocMachine: machineFile, Logger: slog.Default()}
}

func TestModemProbe(t *testing.T) {
	tests := []struct {
		name      string
		esocNames []string
		machine   string
		want      ModemTopology
	}{
		{name: "plain soc", esocNames: nil, machine: "SM8350\n", want: ModemInternal},
		{name: "no sysfs at all", esocNames: nil, machine: "", want: ModemInternal},
		{name: "external mdm", esocNames: []string{"MDM9x55"}, machine: "SM8350\n", want: ModemInternalExternal},
		{name: "external sdx", esocNames: []string{"SDX55m"}, machine: "SM8350\n", want: ModemInternalExternal},
		{name: "modemless sda", esocNames: nil, machine: "SDA845\n", want: ModemNone},
		{name: "modemless p suffix", esocNames: nil, machine: "SM8150P\n", want: ModemNone},
		{name: "external on modemless soc", esocNames: []string{"MDM9x55"}, machine: "SDA845\n", want: ModemExternal},
		{name: "external without machine file", esocNames: []string{"SDX55m"}, machine: "", want: ModemExternal},
		{name: "unrelated esoc device", esocNames: []string{"WLAN"}, machine: "SM8350\n", want: ModemInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			probe := fakeSysfs(t, tt.esocNames, tt.machine)
			assert.Equal(t, tt.want, probe.Probe())
		})
	}
}

func TestModemProbeMissingEsocDir(t *testing.T) {
	probe := &ModemProbe{
		EsocDir:    filepath.Join(t.TempDir(), "does-not-exist"),
		SocMachine: filepath.Join(t.TempDir(), "also-missing"),
	}
	assert.Equal(t, ModemInternal, probe.Probe())
}

func TestModemTopologyString(t *testing.T) {
	assert.Equal(t, "internal", ModemInternal.String())
	assert.Equal(t, "external", ModemExternal.String())
	assert.Equal(t, "internal+external", ModemInternalExternal.String())
	assert.Equal(t, "none", ModemNone.String())
}
