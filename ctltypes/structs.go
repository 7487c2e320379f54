// Package ctltypes defines the wire types of the gadgetd control protocol.
package ctltypes

import "fmt"

// CtlError represents an RFC 7807 (problem+json) error response.
type CtlError struct {
	// Status is the HTTP-style status code (e.g., 400, 404, 500)
	Status int `json:"status"`
	// Title is a short, human-readable summary of the problem type
	Title string `json:"title"`
	// Detail is a human-readable explanation specific to this occurrence
	Detail string `json:"detail"`
}

func (e CtlError) Error() string {
	if e.Status == 0 && e.Title == "" {
		return "unknown error"
	}
	if e.Status == 0 {
		return fmt.Sprintf("%s: %s", e.Title, e.Detail)
	}
	return fmt.Sprintf("%d %s: %s", e.Status, e.Title, e.Detail)
}

// Request status values reported by functions/set and reset.
const (
	StatusSuccess      = "SUCCESS"
	StatusError        = "ERROR"
	StatusNotSupported = "CONFIGURATION_NOT_SUPPORTED"
)

type PingResponse struct {
	Server  string `json:"server"`
	Version string `json:"version"`
}

// GetFunctionsResponse reports the current capability mask and whether the
// composition is live on the bus.
type GetFunctionsResponse struct {
	Functions uint64 `json:"functions"`
	Names     string `json:"names"`
	Applied   bool   `json:"applied"`
}

// SetFunctionsRequest asks for a new composition. Functions accepts either a
// comma-separated capability list ("rndis,adb") or a decimal bitmask.
type SetFunctionsRequest struct {
	Functions string `json:"functions"`
	TimeoutMs uint64 `json:"timeoutMs,omitempty"`
}

type SetFunctionsResponse struct {
	Status string `json:"status"`
}

type ResetResponse struct {
	Status string `json:"status"`
}

// StatusResponse exposes the lifecycle state for observability.
type StatusResponse struct {
	State     string `json:"state"`
	Functions string `json:"functions"`
	Applied   bool   `json:"applied"`
}
