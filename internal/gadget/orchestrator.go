package gadget

import (
	"fmt"
	"log/slog"
	"strings"
)

// rndisAdbCompositions and adbFallbackCompositions are the topology-keyed
// default compositions. External modems get the full diagnostic and
// modem-bridge set, internal-only platforms a reduced one, and modem-less
// platforms the bare minimum.
func rndisAdbComposition(topo ModemTopology) string {
	switch topo {
	case ModemExternal, ModemInternalExternal:
		return "rndis,diag,diag_mdm,qdss,qdss_mdm,serial_cdev,dpl,adb"
	case ModemInternal:
		return "rndis,diag,qdss,serial_cdev,dpl,adb"
	default:
		return "rndis,adb"
	}
}

func adbFallbackComposition(topo ModemTopology) string {
	switch topo {
	case ModemExternal, ModemInternalExternal:
		return "diag,diag_mdm,qdss,qdss_mdm,serial_cdev,dpl,rmnet,adb"
	case ModemInternal:
		return "diag,serial_cdev,rmnet,dpl,qdss,adb"
	default:
		return "diag,adb"
	}
}

// attemptResult describes a successfully applied composition.
type attemptResult struct {
	// ffs is true when at least one linked endpoint is FunctionFS-backed and
	// pull-up must wait for descriptor readiness.
	ffs bool
	// slots is the number of linked endpoints.
	slots int
}

// orchestrator owns the composition decision procedure for one attempt.
type orchestrator struct {
	ops     Ops
	catalog *Catalog
	android FunctionLinker
	probe   TopologyProber
	props   Properties
	logger  *slog.Logger
}

// chooseAndApply resolves the requested capability mask into linked
// endpoints and a vendor/product id. On any error all partial links are
// removed before returning; a failed attempt never leaves the gadget
// half-configured.
func (o *orchestrator) chooseAndApply(functions Functions) (attemptResult, error) {
	var res attemptResult
	topo := o.probe.Probe()
	linker := &compositionLinker{
		ops:     o.ops,
		catalog: o.catalog,
		fc:      o.props.FunctionConfig(),
		logger:  o.logger,
	}

	fail := func(err error) (attemptResult, error) {
		if uerr := o.ops.UnlinkFunctions(); uerr != nil {
			o.logger.Error("unlink after failed attempt", "error", uerr)
		}
		return attemptResult{}, err
	}

	if functions.Has(FuncRndis) {
		if functions.Has(FuncAdb) {
			comp := rndisAdbComposition(topo)
			o.logger.Info("rndis+adb default composition", "composition", comp, "topology", topo.String())
			if err := linker.linkComposition(comp, false); err != nil {
				return fail(err)
			}
			if err := o.setVidPidFor(comp); err != nil {
				return fail(err)
			}
		} else {
			// A lone RNDIS function is not part of the catalog's id table;
			// the id pair was already set from the simple-combination table.
			endpoint, err := o.catalog.Endpoint("rndis", linker.fc)
			if err != nil {
				return fail(err)
			}
			o.logger.Info("linking function", "token", "rndis", "endpoint", endpoint, "slot", linker.slot)
			if err := o.ops.LinkFunction(endpoint, linker.slot); err != nil {
				return fail(err)
			}
			linker.slot++
		}
	} else {
		ffs, err := o.android.LinkGeneric(functions, &linker.slot)
		if err != nil {
			return fail(err)
		}
		res.ffs = ffs
	}

	// Bare ADB gets upgraded to a vendor composition: either the configured
	// override or the topology-keyed default.
	if linker.slot == 0 && functions.Has(FuncAdb) {
		if comp := o.props.VendorComposition(); comp != "" {
			if !strings.Contains(comp, "adb") {
				comp += ",adb"
			}
			o.logger.Info("applying vendor composition override", "composition", comp)
			err := linker.linkComposition(comp, false)
			if err == nil {
				err = o.setVidPidFor(comp)
			}
			if err != nil {
				o.logger.Warn("vendor composition rejected, using default", "composition", comp, "error", err)
				if uerr := o.ops.UnlinkFunctions(); uerr != nil {
					return fail(uerr)
				}
				linker.slot = 0
			}
		}
		if linker.slot == 0 {
			comp := adbFallbackComposition(topo)
			o.logger.Info("default adb composition", "composition", comp, "topology", topo.String())
			if err := linker.linkComposition(comp, false); err != nil {
				return fail(err)
			}
			if err := o.setVidPidFor(comp); err != nil {
				return fail(err)
			}
		}
	}

	// ADB is always the terminal function so its slot index is the highest.
	if functions.Has(FuncAdb) {
		res.ffs = true
		if err := o.android.LinkAdb(&linker.slot); err != nil {
			return fail(err)
		}
	}

	res.slots = linker.slot
	return res, nil
}

func (o *orchestrator) setVidPidFor(comp string) error {
	vid, pid, err := o.catalog.VendorProduct(splitComposition(comp))
	if err != nil {
		return err
	}
	o.logger.Debug("catalog id pair overrides default", "vid", vid, "pid", pid)
	if err := o.ops.SetVidPid(vid, pid); err != nil {
		return fmt.Errorf("composition %q: %w", comp, err)
	}
	return nil
}
