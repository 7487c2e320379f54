package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/sanjay900/gadgetd/ctltypes"
	"github.com/sanjay900/gadgetd/internal/server/ctl"
)

// Version of the control protocol/daemon reported by ping.
const Version = "1.1"

// Ping returns a handler that reports server identity.
func Ping() ctl.HandlerFunc {
	return func(req *ctl.Request, res *ctl.Response, logger *slog.Logger) error {
		out, err := json.Marshal(ctltypes.PingResponse{Server: "gadgetd", Version: Version})
		if err != nil {
			return ctl.ErrInternal(fmt.Sprintf("failed to marshal response: %v", err))
		}
		res.JSON = string(out)
		return nil
	}
}
