package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/sanjay900/gadgetd/ctlclient"
	"github.com/sanjay900/gadgetd/ctltypes"
)

// clientFlags are shared by the client subcommands that talk to a running
// daemon.
type clientFlags struct {
	Addr string `help:"Control server address" default:"127.0.0.1:3260" env:"GADGETD_CTL_ADDR"`
}

// Get queries the current gadget functions.
type Get struct {
	clientFlags `embed:""`
}

func (c *Get) Run(logger *slog.Logger) error {
	line, err := ctlclient.NewTransport(c.Addr).Do("functions/get", nil)
	if err != nil {
		return err
	}
	fmt.Println(line)
	return nil
}

// Set requests a new gadget function composition.
type Set struct {
	clientFlags `embed:""`
	Functions   string        `arg:"" help:"Capability list (e.g. rndis,adb) or decimal bitmask"`
	Timeout     time.Duration `help:"Descriptor readiness wait" default:"5s"`
}

func (c *Set) Run(logger *slog.Logger) error {
	req := ctltypes.SetFunctionsRequest{
		Functions: c.Functions,
		TimeoutMs: uint64(c.Timeout / time.Millisecond),
	}
	line, err := ctlclient.NewTransport(c.Addr).Do("functions/set", req)
	if err != nil {
		return err
	}
	fmt.Println(line)
	return nil
}

// Reset clears the gadget pull-up.
type Reset struct {
	clientFlags `embed:""`
}

func (c *Reset) Run(logger *slog.Logger) error {
	line, err := ctlclient.NewTransport(c.Addr).Do("reset", nil)
	if err != nil {
		return err
	}
	fmt.Println(line)
	return nil
}

// Status shows the gadget lifecycle state.
type Status struct {
	clientFlags `embed:""`
}

func (c *Status) Run(logger *slog.Logger) error {
	line, err := ctlclient.NewTransport(c.Addr).Do("status", nil)
	if err != nil {
		return err
	}
	fmt.Println(line)
	return nil
}
