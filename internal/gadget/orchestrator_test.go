package gadget

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrchestrator(t *testing.T, ops *fakeOps, mon *fakeMonitor, props Properties, topo ModemTopology) *orchestrator {
	t.Helper()
	catalog, err := NewCatalog()
	require.NoError(t, err)
	logger := slog.Default()
	return &orchestrator{
		ops:     ops,
		catalog: catalog,
		android: NewAndroidFunctions(ops, mon, DefaultFFSRoot, logger),
		probe:   fakeProber{topo: topo},
		props:   props,
		logger:  logger,
	}
}

func TestRndisAdbExternalModem(t *testing.T) {
	ops := newFakeOps()
	mon := &fakeMonitor{}
	o := newTestOrchestrator(t, ops, mon, fakeProps{controller: "udc0"}, ModemExternal)

	res, err := o.chooseAndApply(FuncRndis | FuncAdb)
	require.NoError(t, err)
	assert.True(t, res.ffs)
	assert.Equal(t, 8, res.slots)

	assert.Equal(t, []string{
		"rndis", "diag.diag", "diag.diag_mdm", "qdss.qdss", "qdss.qdss_mdm",
		"cser.dun.0", "gsi.dpl", "ffs.adb",
	}, ops.endpoints())
	assert.Equal(t, "0x05C6", ops.vid)
	assert.Equal(t, "0x90E7", ops.pid)
	// ADB is terminal so its slot index is the highest.
	assert.Equal(t, 7, ops.links[len(ops.links)-1].slot)
	assert.Equal(t, []string{DefaultFFSRoot + "/adb"}, mon.watches)
}

func TestRndisAdbNoModem(t *testing.T) {
	ops := newFakeOps()
	mon := &fakeMonitor{}
	o := newTestOrchestrator(t, ops, mon, fakeProps{controller: "udc0"}, ModemNone)

	res, err := o.chooseAndApply(FuncRndis | FuncAdb)
	require.NoError(t, err)
	assert.True(t, res.ffs)
	assert.Equal(t, []string{"rndis", "ffs.adb"}, ops.endpoints())
	assert.Equal(t, "0x9024", ops.pid)
}

func TestRndisAlone(t *testing.T) {
	ops := newFakeOps()
	mon := &fakeMonitor{}
	o := newTestOrchestrator(t, ops, mon, fakeProps{controller: "udc0"}, ModemInternal)

	res, err := o.chooseAndApply(FuncRndis)
	require.NoError(t, err)
	assert.False(t, res.ffs)
	assert.Equal(t, 1, res.slots)
	assert.Equal(t, []string{"rndis"}, ops.endpoints())
	// The simple-combination id pair stays; the catalog has no lone-rndis row.
	assert.Empty(t, ops.vid)
	assert.Empty(t, mon.watches)
}

func TestRndisWithVendorFunctionName(t *testing.T) {
	ops := newFakeOps()
	mon := &fakeMonitor{}
	props := fakeProps{controller: "udc0", fc: FunctionConfig{RndisFunction: "gsi"}}
	o := newTestOrchestrator(t, ops, mon, props, ModemNone)

	_, err := o.chooseAndApply(FuncRndis | FuncAdb)
	require.NoError(t, err)
	assert.Equal(t, []string{"gsi.rndis", "ffs.adb"}, ops.endpoints())
}

func TestAdbFallbackByTopology(t *testing.T) {
	tests := []struct {
		name      string
		topo      ModemTopology
		endpoints []string
		pid       string
	}{
		{
			name: "external modem",
			topo: ModemExternal,
			endpoints: []string{
				"diag.diag", "diag.diag_mdm", "qdss.qdss", "qdss.qdss_mdm",
				"cser.dun.0", "gsi.dpl", "gsi.rmnet", "ffs.adb",
			},
			pid: "0x90E5",
		},
		{
			name:      "internal modem",
			topo:      ModemInternal,
			endpoints: []string{"diag.diag", "cser.dun.0", "gsi.rmnet", "gsi.dpl", "qdss.qdss", "ffs.adb"},
			pid:       "0x90DB",
		},
		{
			name:      "no modem",
			topo:      ModemNone,
			endpoints: []string{"diag.diag", "ffs.adb"},
			pid:       "0x901D",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ops := newFakeOps()
			mon := &fakeMonitor{}
			o := newTestOrchestrator(t, ops, mon, fakeProps{controller: "udc0"}, tt.topo)

			res, err := o.chooseAndApply(FuncAdb)
			require.NoError(t, err)
			assert.True(t, res.ffs)
			assert.Equal(t, tt.endpoints, ops.endpoints())
			assert.Equal(t, tt.pid, ops.pid)
		})
	}
}

func TestVendorCompositionOverride(t *testing.T) {
	ops := newFakeOps()
	mon := &fakeMonitor{}
	props := fakeProps{controller: "udc0", vendorComp: "diag,qdss"}
	o := newTestOrchestrator(t, ops, mon, props, ModemInternal)

	_, err := o.chooseAndApply(FuncAdb)
	require.NoError(t, err)
	// adb is appended to the override and linked last.
	assert.Equal(t, []string{"diag.diag", "qdss.qdss", "ffs.adb"}, ops.endpoints())
	assert.Equal(t, "0x9060", ops.pid)
}

func TestVendorCompositionRejectedFallsBack(t *testing.T) {
	ops := newFakeOps()
	mon := &fakeMonitor{}
	props := fakeProps{controller: "udc0", vendorComp: "diag,floppy"}
	o := newTestOrchestrator(t, ops, mon, props, ModemNone)

	res, err := o.chooseAndApply(FuncAdb)
	require.NoError(t, err)
	assert.True(t, res.ffs)
	// No trace of the rejected override; the topology default applies.
	assert.Equal(t, []string{"diag.diag", "ffs.adb"}, ops.endpoints())
	assert.Equal(t, "0x901D", ops.pid)
}

func TestFailedAttemptLeavesNoLinks(t *testing.T) {
	ops := newFakeOps()
	ops.failLink["qdss.qdss"] = errors.New("enoent")
	mon := &fakeMonitor{}
	o := newTestOrchestrator(t, ops, mon, fakeProps{controller: "udc0"}, ModemInternal)

	_, err := o.chooseAndApply(FuncAdb)
	require.Error(t, err)
	assert.Empty(t, ops.endpoints())
}

func TestAdbFailureUnlinksEverything(t *testing.T) {
	ops := newFakeOps()
	ops.failLink["ffs.adb"] = errors.New("enoent")
	mon := &fakeMonitor{}
	o := newTestOrchestrator(t, ops, mon, fakeProps{controller: "udc0"}, ModemNone)

	_, err := o.chooseAndApply(FuncRndis | FuncAdb)
	require.Error(t, err)
	assert.Empty(t, ops.endpoints())
}

func TestGenericFunctions(t *testing.T) {
	ops := newFakeOps()
	mon := &fakeMonitor{}
	o := newTestOrchestrator(t, ops, mon, fakeProps{controller: "udc0"}, ModemInternal)

	res, err := o.chooseAndApply(FuncMtp | FuncMidi)
	require.NoError(t, err)
	assert.True(t, res.ffs)
	assert.Equal(t, []string{"ffs.mtp", "midi.gs5"}, ops.endpoints())
	assert.Equal(t, []string{DefaultFFSRoot + "/mtp"}, mon.watches)
}

func TestAccessoryAudioSource(t *testing.T) {
	ops := newFakeOps()
	mon := &fakeMonitor{}
	o := newTestOrchestrator(t, ops, mon, fakeProps{controller: "udc0"}, ModemInternal)

	res, err := o.chooseAndApply(FuncAccessory | FuncAudioSource)
	require.NoError(t, err)
	assert.False(t, res.ffs)
	assert.Equal(t, []string{"accessory.gs2", "audio_source.gs3"}, ops.endpoints())
	assert.Empty(t, mon.watches)
}
