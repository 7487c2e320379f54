package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/sanjay900/gadgetd/ctltypes"
	"github.com/sanjay900/gadgetd/internal/gadget"
	"github.com/sanjay900/gadgetd/internal/server/ctl"
)

// FunctionsSet returns a handler that requests a new composition. The
// payload is a SetFunctionsRequest; the capability list may be given as
// names ("rndis,adb") or as a decimal bitmask. A zero timeout falls back to
// the server default.
func FunctionsSet(g *gadget.Gadget, defaultTimeout time.Duration) ctl.HandlerFunc {
	return func(req *ctl.Request, res *ctl.Response, logger *slog.Logger) error {
		var in ctltypes.SetFunctionsRequest
		if req.Payload == "" {
			return ctl.ErrBadRequest("missing payload")
		}
		if err := json.Unmarshal([]byte(req.Payload), &in); err != nil {
			return ctl.ErrBadRequest(fmt.Sprintf("invalid payload: %v", err))
		}

		functions, err := parseFunctions(in.Functions)
		if err != nil {
			return ctl.ErrBadRequest(err.Error())
		}

		timeout := defaultTimeout
		if in.TimeoutMs > 0 {
			timeout = time.Duration(in.TimeoutMs) * time.Millisecond
		}

		status := g.SetCurrentFunctions(functions, timeout)
		out, err := json.Marshal(ctltypes.SetFunctionsResponse{Status: status.String()})
		if err != nil {
			return ctl.ErrInternal(fmt.Sprintf("failed to marshal response: %v", err))
		}
		res.JSON = string(out)
		return nil
	}
}

func parseFunctions(s string) (gadget.Functions, error) {
	if mask, err := strconv.ParseUint(s, 10, 64); err == nil {
		return gadget.Functions(mask), nil
	}
	return gadget.ParseFunctions(s)
}
