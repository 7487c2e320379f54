package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/sanjay900/gadgetd/ctltypes"
	"github.com/sanjay900/gadgetd/internal/gadget"
	"github.com/sanjay900/gadgetd/internal/server/ctl"
)

// FunctionsGet returns a handler that reports the current capability mask
// and applied flag. Never blocks on an in-flight change.
func FunctionsGet(g *gadget.Gadget) ctl.HandlerFunc {
	return func(req *ctl.Request, res *ctl.Response, logger *slog.Logger) error {
		functions, applied := g.GetCurrentFunctions()
		out, err := json.Marshal(ctltypes.GetFunctionsResponse{
			Functions: uint64(functions),
			Names:     functions.String(),
			Applied:   applied,
		})
		if err != nil {
			return ctl.ErrInternal(fmt.Sprintf("failed to marshal response: %v", err))
		}
		res.JSON = string(out)
		return nil
	}
}
