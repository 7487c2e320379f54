// Package gadget resolves requested USB peripheral capability sets into
// hardware-accepted compositions and sequences their application against the
// kernel configfs gadget interface.
package gadget

import (
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Status is the outcome of a capability-change request.
type Status int

const (
	StatusSuccess Status = iota
	StatusError
	StatusNotSupported
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "SUCCESS"
	case StatusError:
		return "ERROR"
	case StatusNotSupported:
		return "CONFIGURATION_NOT_SUPPORTED"
	}
	return "UNKNOWN"
}

// State is the coordinator's lifecycle state, exposed for observability.
type State int32

const (
	StateDown State = iota
	StateConfiguring
	StateEndpointsLinked
	StateAwaitingReadiness
	StatePulledUp
	StateError
)

func (s State) String() string {
	switch s {
	case StateDown:
		return "down"
	case StateConfiguring:
		return "configuring"
	case StateEndpointsLinked:
		return "endpoints_linked"
	case StateAwaitingReadiness:
		return "awaiting_readiness"
	case StatePulledUp:
		return "pulled_up"
	case StateError:
		return "error"
	}
	return "unknown"
}

// disconnectWait is how long the gadget stays pulled down during a
// composition change so the host can sense the disconnect. Fixed, not
// caller-configurable.
const disconnectWait = 100 * time.Millisecond

// Gadget coordinates teardown, composition application and pull-up for one
// USB controller. A single mutex serializes capability-change requests end
// to end; the applied flag is the only state shared with the readiness
// monitor's goroutine and is updated atomically.
type Gadget struct {
	mu      sync.Mutex
	ops     Ops
	catalog *Catalog
	monitor Monitor
	android FunctionLinker
	probe   TopologyProber
	props   Properties
	logger  *slog.Logger

	current atomic.Uint64
	applied atomic.Bool
	state   atomic.Int32
}

// New builds a Gadget over the given collaborators. The android linker may
// be nil, in which case the stock AndroidFunctions over the default
// FunctionFS root is used.
func New(ops Ops, monitor Monitor, android FunctionLinker, probe TopologyProber, props Properties, logger *slog.Logger) (*Gadget, error) {
	catalog, err := NewCatalog()
	if err != nil {
		return nil, err
	}
	if android == nil {
		android = NewAndroidFunctions(ops, monitor, DefaultFFSRoot, logger)
	}
	return &Gadget{
		ops:     ops,
		catalog: catalog,
		monitor: monitor,
		android: android,
		probe:   probe,
		props:   props,
		logger:  logger,
	}, nil
}

// GetCurrentFunctions reports the last requested capability mask and whether
// the composition is applied (pulled up with descriptors ready). Never
// blocks on an in-flight change.
func (g *Gadget) GetCurrentFunctions() (Functions, bool) {
	return Functions(g.current.Load()), g.applied.Load()
}

// State returns the current lifecycle state.
func (g *Gadget) State() State { return State(g.state.Load()) }

func (g *Gadget) setState(s State) { g.state.Store(int32(s)) }

// Reset clears the pull-up only, independent of the full lifecycle.
func (g *Gadget) Reset() Status {
	if err := g.ops.ClearPullup(); err != nil {
		g.logger.Error("reset: unable to clear pullup", "error", err)
		return StatusError
	}
	return StatusSuccess
}

// SetCurrentFunctions tears the gadget down, applies the composition
// resolved for the requested capability mask and pulls the gadget up,
// waiting up to timeout for FunctionFS descriptor readiness when needed.
// Concurrent calls serialize; only one change is ever in flight.
func (g *Gadget) SetCurrentFunctions(functions Functions, timeout time.Duration) Status {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.current.Store(uint64(functions))
	g.applied.Store(false)
	g.setState(StateConfiguring)

	if err := g.tearDown(); err != nil {
		g.logger.Error("teardown failed", "error", err)
		g.setState(StateError)
		return StatusError
	}

	// Leave the gadget pulled down so the host senses the disconnect.
	time.Sleep(disconnectWait)

	if functions == FuncNone {
		g.setState(StateDown)
		return StatusSuccess
	}

	controller := g.props.Controller()
	if controller == "" {
		g.logger.Error("set functions", "error", ErrNoController)
		g.setState(StateError)
		return StatusError
	}

	if st := g.validateAndSetVidPid(functions); st != StatusSuccess {
		g.setState(StateError)
		return st
	}

	orch := &orchestrator{
		ops:     g.ops,
		catalog: g.catalog,
		android: g.android,
		probe:   g.probe,
		props:   g.props,
		logger:  g.logger,
	}
	res, err := orch.chooseAndApply(functions)
	if err != nil {
		g.logger.Error("composition failed", "functions", functions.String(), "error", err)
		g.setState(StateError)
		if errors.Is(err, ErrUnsupportedComposition) {
			return StatusNotSupported
		}
		return StatusError
	}
	g.setState(StateEndpointsLinked)

	if !res.ffs {
		// No descriptor-backed endpoints; pull up right away.
		if err := g.ops.WritePullup(controller); err != nil {
			g.logger.Error("pullup failed", "error", err)
			g.setState(StateError)
			return StatusError
		}
		g.applied.Store(true)
		g.setState(StatePulledUp)
		g.logger.Info("gadget pulled up without FunctionFS functions", "functions", functions.String())
		return StatusSuccess
	}

	// Descriptor-backed endpoints: the monitor owns the pull-up. It also
	// keeps the applied flag honest if a descriptor writer restarts or a
	// late readiness signal arrives after we stopped waiting.
	g.monitor.OnApplied(func(applied bool) { g.applied.Store(applied) })
	if err := g.monitor.Start(); err != nil {
		g.logger.Error("cannot start descriptor monitor", "error", err)
		g.setState(StateError)
		return StatusError
	}
	g.setState(StateAwaitingReadiness)

	if !g.monitor.WaitForPullup(timeout) {
		g.logger.Error("set functions", "functions", functions.String(), "error", ErrReadinessTimeout)
		g.setState(StateError)
		return StatusError
	}
	g.setState(StatePulledUp)
	g.logger.Info("gadget functions applied", "functions", functions.String())
	return StatusSuccess
}

func (g *Gadget) tearDown() error {
	if err := g.ops.ResetGadget(); err != nil {
		return err
	}
	if g.monitor.IsRunning() {
		g.monitor.Reset()
	} else {
		g.logger.Debug("descriptor monitor not running")
	}
	return nil
}

// validateAndSetVidPid applies the fixed id pair for simple single and dual
// capability combinations. Richer catalog compositions chosen later by the
// orchestrator override this pair; the fixed table acts as validation and
// default.
func (g *Gadget) validateAndSetVidPid(functions Functions) Status {
	var vid, pid string
	switch functions {
	case FuncAdb:
		vid, pid = "0x18d1", "0x4ee7"
	case FuncMtp:
		vid, pid = "0x18d1", "0x4ee1"
	case FuncAdb | FuncMtp:
		vid, pid = "0x18d1", "0x4ee2"
	case FuncRndis:
		vid, pid = "0x18d1", "0x4ee3"
	case FuncAdb | FuncRndis:
		vid, pid = "0x18d1", "0x4ee4"
	case FuncPtp:
		vid, pid = "0x18d1", "0x4ee5"
	case FuncAdb | FuncPtp:
		vid, pid = "0x18d1", "0x4ee6"
	case FuncMidi:
		vid, pid = "0x18d1", "0x4ee8"
	case FuncAdb | FuncMidi:
		vid, pid = "0x18d1", "0x4ee9"
	case FuncAccessory:
		vid, pid = "0x18d1", "0x2d00"
	case FuncAdb | FuncAccessory:
		vid, pid = "0x18d1", "0x2d01"
	case FuncAudioSource:
		vid, pid = "0x18d1", "0x2d02"
	case FuncAdb | FuncAudioSource:
		vid, pid = "0x18d1", "0x2d03"
	case FuncAccessory | FuncAudioSource:
		vid, pid = "0x18d1", "0x2d04"
	case FuncAdb | FuncAccessory | FuncAudioSource:
		vid, pid = "0x18d1", "0x2d05"
	default:
		g.logger.Error("combination not supported", "functions", functions.String())
		return StatusNotSupported
	}
	if err := g.ops.SetVidPid(vid, pid); err != nil {
		g.logger.Error("set vid/pid", "error", err)
		return StatusError
	}
	return StatusSuccess
}
