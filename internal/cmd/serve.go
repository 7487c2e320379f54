package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/sanjay900/gadgetd/internal/gadget"
	"github.com/sanjay900/gadgetd/internal/monitor"
	"github.com/sanjay900/gadgetd/internal/server/ctl"
	"github.com/sanjay900/gadgetd/internal/server/ctl/handler"
)

// Serve runs the gadget supervisor daemon.
type Serve struct {
	Ctl          ctl.ServerConfig `embed:"" prefix:"ctl."`
	Gadget       gadget.Config    `embed:"" prefix:"gadget."`
	ConfigfsRoot string           `help:"configfs gadget root" default:"/config/usb_gadget/g1" env:"GADGETD_CONFIGFS_ROOT"`
	FfsRoot      string           `help:"FunctionFS mount root" default:"/dev/usb-ffs" env:"GADGETD_FFS_ROOT"`
}

// Run is called by kong when the serve command is executed.
func (s *Serve) Run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.StartServer(ctx, logger)
}

func (s *Serve) StartServer(ctx context.Context, logger *slog.Logger) error {
	if s.Gadget.Controller() == "" {
		logger.Error("refusing to start", "error", gadget.ErrNoController)
		return gadget.ErrNoController
	}

	logger.Info("starting gadgetd", "controller", s.Gadget.Controller(), "configfs", s.ConfigfsRoot)

	ops := gadget.NewConfigfs(s.ConfigfsRoot)
	mon := monitor.NewFFS(s.Gadget.Controller(), ops, logger)
	android := gadget.NewAndroidFunctions(ops, mon, s.FfsRoot, logger)
	probe := gadget.NewModemProbe(logger)

	g, err := gadget.New(ops, mon, android, probe, s.Gadget, logger)
	if err != nil {
		return err
	}

	srv := ctl.New(s.Ctl.Addr, s.Ctl, logger)
	r := srv.Router()
	r.Register("ping", handler.Ping())
	r.Register("functions/get", handler.FunctionsGet(g))
	r.Register("functions/set", handler.FunctionsSet(g, s.Ctl.DefaultSetTimeout))
	r.Register("reset", handler.Reset(g))
	r.Register("status", handler.Status(g))

	if err := srv.Start(); err != nil {
		logger.Error("failed to start control server", "error", err)
		return err
	}

	<-ctx.Done()
	srv.Close()
	mon.Stop()
	return nil
}
