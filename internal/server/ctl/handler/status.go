package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/sanjay900/gadgetd/ctltypes"
	"github.com/sanjay900/gadgetd/internal/gadget"
	"github.com/sanjay900/gadgetd/internal/server/ctl"
)

// Status returns a handler that exposes the lifecycle state.
func Status(g *gadget.Gadget) ctl.HandlerFunc {
	return func(req *ctl.Request, res *ctl.Response, logger *slog.Logger) error {
		functions, applied := g.GetCurrentFunctions()
		out, err := json.Marshal(ctltypes.StatusResponse{
			State:     g.State().String(),
			Functions: functions.String(),
			Applied:   applied,
		})
		if err != nil {
			return ctl.ErrInternal(fmt.Sprintf("failed to marshal response: %v", err))
		}
		res.JSON = string(out)
		return nil
	}
}
