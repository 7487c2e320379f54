package ctl

import "time"

// ServerConfig represents the control server configuration.
type ServerConfig struct {
	Addr              string        `help:"Control server listen address" default:"127.0.0.1:3260" env:"GADGETD_CTL_ADDR"`
	DefaultSetTimeout time.Duration `help:"Descriptor readiness wait used when a set request carries no timeout" default:"5s" env:"GADGETD_CTL_SET_TIMEOUT"`
}
