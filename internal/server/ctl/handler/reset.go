package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/sanjay900/gadgetd/ctltypes"
	"github.com/sanjay900/gadgetd/internal/gadget"
	"github.com/sanjay900/gadgetd/internal/server/ctl"
)

// Reset returns a handler that clears the gadget pull-up only.
func Reset(g *gadget.Gadget) ctl.HandlerFunc {
	return func(req *ctl.Request, res *ctl.Response, logger *slog.Logger) error {
		status := g.Reset()
		out, err := json.Marshal(ctltypes.ResetResponse{Status: status.String()})
		if err != nil {
			return ctl.ErrInternal(fmt.Sprintf("failed to marshal response: %v", err))
		}
		res.JSON = string(out)
		return nil
	}
}
