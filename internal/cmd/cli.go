// Package cmd defines the kong command tree for the gadgetd binary.
package cmd

// LogFlags are the global logging flags shared by every command.
type LogFlags struct {
	Level string `help:"Log level (trace, debug, info, warn, error)" default:"info" env:"GADGETD_LOG_LEVEL"`
	File  string `help:"Log file path; stdout/stderr when empty" env:"GADGETD_LOG_FILE"`
}

// CLI is the root of the command tree.
type CLI struct {
	Log        LogFlags `embed:"" prefix:"log."`
	ConfigFile string   `help:"Path to a config file; also read before parsing to seed defaults" env:"GADGETD_CONFIG"`

	Serve  Serve         `cmd:"" help:"Run the gadget supervisor daemon"`
	Get    Get           `cmd:"" help:"Query the current gadget functions"`
	Set    Set           `cmd:"" help:"Request a new gadget function composition"`
	Reset  Reset         `cmd:"" help:"Clear the gadget pull-up"`
	Status Status        `cmd:"" help:"Show the gadget lifecycle state"`
	Config ConfigCommand `cmd:"" help:"Configuration file utilities"`
}
