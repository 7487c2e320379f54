package gadget

import (
	"fmt"
	"sort"
	"strings"
)

// FunctionConfig carries the runtime-tunable pieces of endpoint naming.
// Several configfs function names embed a vendor-configurable function or
// instance name; callers must pass a freshly read config on every resolution
// since the values may change between composition attempts.
type FunctionConfig struct {
	DiagFunction  string // default "diag"
	RmnetFunction string // default "gsi"
	RmnetInstance string // default "rmnet"
	DplInstance   string // default "dpl"
	QdssInstance  string // default "qdss"
	RndisFunction string // empty means the bare "rndis" function
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func (fc FunctionConfig) rndisEndpoint() string {
	if fc.RndisFunction == "" {
		return "rndis"
	}
	return fc.RndisFunction + ".rndis"
}

// composition is one row of the vendor/product id table. key is the
// canonical comma-joined token order, which also fixes link order when the
// orchestrator applies one of these compositions directly.
type composition struct {
	key string
	vid string
	pid string
}

// compositionTable is a certification contract with host-side device
// matching. The keys and id pairs must not be edited or derived.
var compositionTable = []composition{
	{"mass_storage", "0x05C6", "0xF000"},
	{"mass_storage,adb", "0x05C6", "0x9015"},
	{"diag,adb", "0x05C6", "0x901D"},
	{"diag", "0x05C6", "0x900E"},
	{"diag,serial_cdev,rmnet,adb", "0x05C6", "0x9091"},
	{"diag,serial_cdev,rmnet", "0x05C6", "0x9092"},
	{"rndis", "0x05C6", "0xF00E"},
	{"rndis,adb", "0x05C6", "0x9024"},
	{"rndis,diag", "0x05C6", "0x902C"},
	{"rndis,diag,adb", "0x05C6", "0x902D"},
	{"rndis,serial_cdev", "0x05C6", "0x90B3"},
	{"rndis,serial_cdev,adb", "0x05C6", "0x90B4"},
	{"rndis,serial_cdev,diag,", "0x05C6", "0x90B5"},
	{"rndis,serial_cdev,diag,adb", "0x05C6", "0x90B6"},
	{"mtp,diag", "0x05C6", "0x901B"},
	{"mtp,diag,adb", "0x05C6", "0x903A"},
	{"diag,qdss", "0x05C6", "0x904A"},
	{"diag,qdss,adb", "0x05C6", "0x9060"},
	{"rndis,diag,qdss", "0x05C6", "0x9081"},
	{"rndis,diag,qdss,adb", "0x05C6", "0x9082"},
	{"diag,qdss,rmnet", "0x05C6", "0x9083"},
	{"diag,qdss,rmnet,adb", "0x05C6", "0x9084"},
	{"ncm", "0x05C6", "0xA4A1"},
	{"ncm,adb", "0x05C6", "0x908C"},
	{"diag,serial_cdev", "0x05C6", "0x9004"},
	{"diag,serial_cdev,rmnet,dpl", "0x05C6", "0x90B7"},
	{"diag,serial_cdev,rmnet,dpl,adb", "0x05C6", "0x90B8"},
	{"rndis,diag,dpl", "0x05C6", "0x90BF"},
	{"rndis,diag,dpl,adb", "0x05C6", "0x90C0"},
	{"ccid", "0x05C6", "0x90CE"},
	{"ccid,adb", "0x05C6", "0x90CF"},
	{"ccid,diag", "0x05C6", "0x90D0"},
	{"ccid,diag,adb", "0x05C6", "0x90D1"},
	{"diag,serial_cdev,rmnet,ccid", "0x05C6", "0x90D2"},
	{"diag,serial_cdev,rmnet,ccid,adb", "0x05C6", "0x90D3"},
	{"diag,diag_mdm,qdss,qdss_mdm,serial_cdev,serial_cdev_mdm,rmnet", "0x05C6", "0x90D7"},
	{"diag,diag_mdm,qdss,qdss_mdm,serial_cdev,serial_cdev_mdm,rmnet,adb", "0x05C6", "0x90D8"},
	{"diag,diag_mdm,qdss,qdss_mdm,serial_cdev,serial_cdev_mdm,dpl,rmnet", "0x05C6", "0x90DD"},
	{"diag,diag_mdm,qdss,qdss_mdm,serial_cdev,serial_cdev_mdm,dpl,rmnet,adb", "0x05C6", "0x90DE"},
	{"diag,serial_cdev,rmnet,dpl,qdss", "0x05C6", "0x90DC"},
	{"diag,serial_cdev,rmnet,dpl,qdss,adb", "0x05C6", "0x90DB"},
	{"diag,uac2,adb", "0x05C6", "0x90CA"},
	{"diag,uac2", "0x05C6", "0x901C"},
	{"diag,uvc,adb", "0x05C6", "0x90CB"},
	{"diag,uvc", "0x05C6", "0x90DF"},
	{"diag,uac2,uvc,adb", "0x05C6", "0x90CC"},
	{"diag,uac2,uvc", "0x05C6", "0x90E0"},
	{"diag,diag_mdm,qdss,qdss_mdm,serial_cdev,dpl,rmnet", "0x05C6", "0x90E4"},
	{"diag,diag_mdm,qdss,qdss_mdm,serial_cdev,dpl,rmnet,adb", "0x05C6", "0x90E5"},
	{"rndis,diag,diag_mdm,qdss,qdss_mdm,serial_cdev,dpl", "0x05C6", "0x90E6"},
	{"rndis,diag,diag_mdm,qdss,qdss_mdm,serial_cdev,dpl,adb", "0x05C6", "0x90E7"},
	{"rndis,diag,qdss,serial_cdev,dpl", "0x05C6", "0x90E8"},
	{"rndis,diag,qdss,serial_cdev,dpl,adb", "0x05C6", "0x90E9"},
	{"diag,diag_mdm,adb", "0x05C6", "0x90D9"},
	{"diag,diag_mdm,diag_mdm2,qdss,qdss_mdm,serial_cdev,dpl,rmnet", "0x05C6", "0x90F6"},
	{"diag,diag_mdm,diag_mdm2,qdss,qdss_mdm,serial_cdev,dpl,rmnet,adb", "0x05C6", "0x90F7"},
	{"rndis,diag,diag_mdm,diag_mdm2,qdss,qdss_mdm,serial_cdev,dpl", "0x05C6", "0x90F8"},
	{"rndis,diag,diag_mdm,diag_mdm2,qdss,qdss_mdm,serial_cdev,dpl,adb", "0x05C6", "0x90F9"},
	{"diag,diag_mdm,qdss_mdm,dpl,adb", "0x05C6", "0x90FF"},
	{"diag,qdss,dpl,adb", "0x05C6", "0x9104"},
	{"diag,dpl", "0x05C6", "0x9105"},
	{"diag,diag_cnss,serial_cdev,rmnet,dpl,qdss,adb", "0x05C6", "0x9110"},
	{"diag,diag_cnss,serial_cdev,rmnet,dpl,qdss", "0x05C6", "0x9111"},
}

// endpointNames maps a function token to its configfs endpoint name.
// Parameterized entries read the supplied FunctionConfig at call time.
var endpointNames = map[string]func(FunctionConfig) string{
	"adb":  func(FunctionConfig) string { return "ffs.adb" },
	"ccid": func(FunctionConfig) string { return "ccid.ccid" },
	"diag": func(fc FunctionConfig) string { return orDefault(fc.DiagFunction, "diag") + ".diag" },
	"diag_cnss": func(fc FunctionConfig) string {
		return orDefault(fc.DiagFunction, "diag") + ".diag_mdm2"
	},
	"diag_mdm2": func(fc FunctionConfig) string {
		return orDefault(fc.DiagFunction, "diag") + ".diag_mdm2"
	},
	"diag_mdm": func(fc FunctionConfig) string {
		return orDefault(fc.DiagFunction, "diag") + ".diag_mdm"
	},
	"dpl": func(fc FunctionConfig) string {
		return orDefault(fc.RmnetFunction, "gsi") + "." + orDefault(fc.DplInstance, "dpl")
	},
	"mass_storage": func(FunctionConfig) string { return "mass_storage.0" },
	"mtp":          func(FunctionConfig) string { return "ffs.mtp" },
	"ncm":          func(FunctionConfig) string { return "ncm.0" },
	"ptp":          func(FunctionConfig) string { return "ffs.ptp" },
	"qdss": func(fc FunctionConfig) string {
		return "qdss." + orDefault(fc.QdssInstance, "qdss")
	},
	"qdss_mdm": func(FunctionConfig) string { return "qdss.qdss_mdm" },
	"rmnet": func(fc FunctionConfig) string {
		return orDefault(fc.RmnetFunction, "gsi") + "." + orDefault(fc.RmnetInstance, "rmnet")
	},
	"rndis":           FunctionConfig.rndisEndpoint,
	"serial_cdev":     func(FunctionConfig) string { return "cser.dun.0" },
	"serial_cdev_mdm": func(FunctionConfig) string { return "cser.dun.2" },
	"uac2":            func(FunctionConfig) string { return "uac2.0" },
	"uvc":             func(FunctionConfig) string { return "uvc.0" },
}

// Catalog resolves function tokens to endpoint names and token sets to
// vendor/product id pairs. Lookups are order-independent: permutations of
// the same token set resolve to the same id pair.
type Catalog struct {
	compositions map[string]composition
}

// NewCatalog builds the catalog from the static tables and rejects entries
// whose normalized token sets collide.
func NewCatalog() (*Catalog, error) {
	c := &Catalog{compositions: make(map[string]composition, len(compositionTable))}
	for _, comp := range compositionTable {
		key := normalizeKey(splitComposition(comp.key))
		if prev, ok := c.compositions[key]; ok {
			return nil, fmt.Errorf("ambiguous composition %q collides with %q", comp.key, prev.key)
		}
		c.compositions[key] = comp
	}
	return c, nil
}

// Endpoint resolves a single function token to its configfs endpoint name.
func (c *Catalog) Endpoint(token string, fc FunctionConfig) (string, error) {
	fn, ok := endpointNames[token]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFunction, token)
	}
	return fn(fc), nil
}

// VendorProduct looks up the id pair for a token set, in any order.
func (c *Catalog) VendorProduct(tokens []string) (vid, pid string, err error) {
	comp, ok := c.compositions[normalizeKey(tokens)]
	if !ok {
		return "", "", fmt.Errorf("%w: %q", ErrUnsupportedComposition, strings.Join(tokens, ","))
	}
	return comp.vid, comp.pid, nil
}

func splitComposition(s string) []string {
	var tokens []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

func normalizeKey(tokens []string) string {
	set := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t != "" {
			set = append(set, t)
		}
	}
	sort.Strings(set)
	return strings.Join(set, ",")
}
