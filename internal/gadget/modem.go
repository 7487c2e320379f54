package gadget

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// ModemTopology classifies which cellular modem modules are present.
type ModemTopology int

const (
	ModemInternal ModemTopology = iota
	ModemExternal
	ModemInternalExternal
	ModemNone
)

func (t ModemTopology) String() string {
	switch t {
	case ModemInternal:
		return "internal"
	case ModemExternal:
		return "external"
	case ModemInternalExternal:
		return "internal+external"
	case ModemNone:
		return "none"
	}
	return "unknown"
}

// TopologyProber reports the modem topology for one composition attempt.
type TopologyProber interface {
	Probe() ModemTopology
}

// ModemProbe inspects sysfs to classify modem presence. The probe never
// fails: missing files or directories simply leave the conservative default
// in place. Results are not cached; vendor overlays can change between
// attempts even though the silicon cannot.
type ModemProbe struct {
	// EsocDir is the modem bus enumeration directory. Each child holds an
	// esoc_name identity file.
	EsocDir string
	// SocMachine is the SoC machine identity file, authoritative for ruling
	// out an integrated modem.
	SocMachine string
	Logger     *slog.Logger
}

const (
	DefaultEsocDir    = "/sys/bus/esoc/devices"
	DefaultSocMachine = "/sys/devices/soc0/machine"
)

// NewModemProbe returns a probe over the standard sysfs locations.
func NewModemProbe(logger *slog.Logger) *ModemProbe {
	return &ModemProbe{EsocDir: DefaultEsocDir, SocMachine: DefaultSocMachine, Logger: logger}
}

// Probe performs a point-in-time classification. An external modem is
// detected from esoc identity strings containing "MDM" or "SDX". A machine
// string containing "SDA" or ending in "P" identifies a modem-less SoC
// variant, which downgrades Internal to None but leaves a detected external
// modem standalone. Otherwise an external modem implies the SoC also carries
// an internal one.
func (p *ModemProbe) Probe() ModemTopology {
	topo := ModemInternal

	entries, err := os.ReadDir(p.EsocDir)
	if err != nil {
		// Some platforms have no esoc bus at all.
		entries = nil
	}
	for _, entry := range entries {
		name, err := os.ReadFile(filepath.Join(p.EsocDir, entry.Name(), "esoc_name"))
		if err != nil {
			continue
		}
		if strings.Contains(string(name), "MDM") || strings.Contains(string(name), "SDX") {
			topo = ModemExternal
			break
		}
	}

	if raw, err := os.ReadFile(p.SocMachine); err == nil {
		machine := strings.TrimSpace(string(raw))
		if strings.Contains(machine, "SDA") || strings.HasSuffix(machine, "P") {
			if topo == ModemInternal {
				topo = ModemNone
			}
		} else if topo == ModemExternal {
			topo = ModemInternalExternal
		}
	}

	if p.Logger != nil {
		p.Logger.Debug("probed modem topology", "topology", topo.String())
	}
	return topo
}
