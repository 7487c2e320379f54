package gadget

// Properties supplies the runtime-tunable gadget settings. Implementations
// must return current values on every call; the coordinator re-reads them
// for each composition attempt rather than caching.
type Properties interface {
	// Controller is the UDC controller name written to the pull-up attribute.
	Controller() string
	// VendorComposition is the vendor composition override, with the session
	// value taking precedence over the persisted one. Empty means unset.
	VendorComposition() string
	// FunctionConfig returns the per-function instance name overrides.
	FunctionConfig() FunctionConfig
}

// Config is the flag/env/file-backed Properties implementation used by the
// daemon.
type Config struct {
	UDC                string `name:"controller" help:"UDC controller name (e.g. a600000.dwc3)" env:"GADGETD_CONTROLLER"`
	Composition        string `help:"Session vendor composition override (comma-separated tokens)" env:"GADGETD_COMPOSITION"`
	PersistComposition string `help:"Persisted vendor composition override" env:"GADGETD_PERSIST_COMPOSITION"`
	DiagFunction       string `help:"diag function name" default:"diag" env:"GADGETD_DIAG_FUNC"`
	RmnetFunction      string `help:"rmnet function name" default:"gsi" env:"GADGETD_RMNET_FUNC"`
	RmnetInstance      string `help:"rmnet instance name" default:"rmnet" env:"GADGETD_RMNET_INST"`
	DplInstance        string `help:"dpl instance name" default:"dpl" env:"GADGETD_DPL_INST"`
	QdssInstance       string `help:"qdss instance name" default:"qdss" env:"GADGETD_QDSS_INST"`
	RndisFunction      string `help:"rndis function name prefix; empty uses the bare rndis function" env:"GADGETD_RNDIS_FUNC"`
}

func (c Config) Controller() string { return c.UDC }

func (c Config) VendorComposition() string {
	if c.Composition != "" {
		return c.Composition
	}
	return c.PersistComposition
}

func (c Config) FunctionConfig() FunctionConfig {
	return FunctionConfig{
		DiagFunction:  c.DiagFunction,
		RmnetFunction: c.RmnetFunction,
		RmnetInstance: c.RmnetInstance,
		DplInstance:   c.DplInstance,
		QdssInstance:  c.QdssInstance,
		RndisFunction: c.RndisFunction,
	}
}
