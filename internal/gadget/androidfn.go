package gadget

import (
	"fmt"
	"log/slog"
	"path/filepath"
)

// DefaultFFSRoot is where FunctionFS instances are mounted by user-space
// daemons (adbd, the MTP stack, ...).
const DefaultFFSRoot = "/dev/usb-ffs"

// FunctionLinker links the platform-generic capabilities (everything that is
// not part of the vendor diagnostic/modem-bridge catalog) and the terminal
// ADB function, using the same sequential slot convention as the resolver.
type FunctionLinker interface {
	// LinkGeneric links all non-RNDIS generic capabilities in the mask.
	// Returns whether any linked function is FunctionFS-backed, i.e. needs
	// descriptor readiness before pull-up.
	LinkGeneric(functions Functions, slot *int) (ffs bool, err error)
	// LinkAdb appends the ADB function at the next slot, always last.
	LinkAdb(slot *int) error
}

// AndroidFunctions is the stock FunctionLinker. FunctionFS-backed endpoints
// register their descriptor directories with the readiness monitor as they
// are linked.
type AndroidFunctions struct {
	ops     Ops
	monitor Monitor
	ffsRoot string
	logger  *slog.Logger
}

func NewAndroidFunctions(ops Ops, monitor Monitor, ffsRoot string, logger *slog.Logger) *AndroidFunctions {
	if ffsRoot == "" {
		ffsRoot = DefaultFFSRoot
	}
	return &AndroidFunctions{ops: ops, monitor: monitor, ffsRoot: ffsRoot, logger: logger}
}

func (a *AndroidFunctions) link(endpoint string, slot *int) error {
	a.logger.Info("linking function", "endpoint", endpoint, "slot", *slot)
	if err := a.ops.LinkFunction(endpoint, *slot); err != nil {
		return err
	}
	*slot++
	return nil
}

func (a *AndroidFunctions) linkFFS(endpoint, mount string, slot *int) error {
	if err := a.link(endpoint, slot); err != nil {
		return err
	}
	a.monitor.AddWatch(filepath.Join(a.ffsRoot, mount))
	return nil
}

func (a *AndroidFunctions) LinkGeneric(functions Functions, slot *int) (bool, error) {
	ffs := false
	if functions.Has(FuncMtp) {
		if err := a.linkFFS("ffs.mtp", "mtp", slot); err != nil {
			return ffs, err
		}
		ffs = true
	}
	if functions.Has(FuncPtp) {
		if err := a.linkFFS("ffs.ptp", "ptp", slot); err != nil {
			return ffs, err
		}
		ffs = true
	}
	if functions.Has(FuncMidi) {
		if err := a.link("midi.gs5", slot); err != nil {
			return ffs, err
		}
	}
	if functions.Has(FuncAccessory) {
		if err := a.link("accessory.gs2", slot); err != nil {
			return ffs, err
		}
	}
	if functions.Has(FuncAudioSource) {
		if err := a.link("audio_source.gs3", slot); err != nil {
			return ffs, err
		}
	}
	return ffs, nil
}

func (a *AndroidFunctions) LinkAdb(slot *int) error {
	if err := a.linkFFS("ffs.adb", "adb", slot); err != nil {
		return fmt.Errorf("adb: %w", err)
	}
	return nil
}
