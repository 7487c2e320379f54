package gadget

import "errors"

var (
	// ErrUnsupportedFunction marks a function token with no known endpoint.
	ErrUnsupportedFunction = errors.New("unsupported function")
	// ErrUnsupportedComposition marks a token set absent from the
	// composition catalog. Reported to callers as CONFIGURATION_NOT_SUPPORTED.
	ErrUnsupportedComposition = errors.New("unsupported composition")
	// ErrDeviceIO marks a failed read or write of a gadget attribute.
	ErrDeviceIO = errors.New("gadget device io")
	// ErrReadinessTimeout marks a descriptor wait that elapsed.
	ErrReadinessTimeout = errors.New("timeout waiting for descriptors")
	// ErrNoController is returned when the UDC controller name is not set.
	ErrNoController = errors.New("UDC controller name not configured")
)
