package gadget

import (
	"fmt"
	"strings"
)

// Functions is a bitmask of requested gadget capabilities. The bit values
// match the Android gadget HAL so callers can pass masks straight through.
type Functions uint64

const (
	FuncNone        Functions = 0
	FuncAdb         Functions = 1 << 0
	FuncAccessory   Functions = 1 << 1
	FuncMtp         Functions = 1 << 2
	FuncMidi        Functions = 1 << 3
	FuncPtp         Functions = 1 << 4
	FuncRndis       Functions = 1 << 5
	FuncAudioSource Functions = 1 << 6
)

var functionNames = []struct {
	bit  Functions
	name string
}{
	{FuncAdb, "adb"},
	{FuncAccessory, "accessory"},
	{FuncMtp, "mtp"},
	{FuncMidi, "midi"},
	{FuncPtp, "ptp"},
	{FuncRndis, "rndis"},
	{FuncAudioSource, "audio_source"},
}

// Has reports whether every bit in f is set.
func (f Functions) Has(bits Functions) bool { return f&bits == bits }

func (f Functions) String() string {
	if f == FuncNone {
		return "none"
	}
	var names []string
	for _, fn := range functionNames {
		if f.Has(fn.bit) {
			names = append(names, fn.name)
		}
	}
	return strings.Join(names, ",")
}

// ParseFunctions parses a comma-separated capability list such as
// "rndis,adb". The literal "none" or an empty string yields FuncNone.
func ParseFunctions(s string) (Functions, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "none" {
		return FuncNone, nil
	}
	var out Functions
next:
	for _, name := range strings.Split(s, ",") {
		name = strings.TrimSpace(name)
		for _, fn := range functionNames {
			if fn.name == name {
				out |= fn.bit
				continue next
			}
		}
		return FuncNone, fmt.Errorf("unknown capability %q", name)
	}
	return out, nil
}
