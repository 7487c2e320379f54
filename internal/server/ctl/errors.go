package ctl

import "github.com/sanjay900/gadgetd/ctltypes"

// Factory helpers returning *ctltypes.CtlError (single canonical error type).
func ErrBadRequest(detail string) *ctltypes.CtlError {
	return &ctltypes.CtlError{Status: 400, Title: "Bad Request", Detail: detail}
}
func ErrNotFound(detail string) *ctltypes.CtlError {
	return &ctltypes.CtlError{Status: 404, Title: "Not Found", Detail: detail}
}
func ErrInternal(detail string) *ctltypes.CtlError {
	return &ctltypes.CtlError{Status: 500, Title: "Internal Server Error", Detail: detail}
}

// WrapError normalizes any error into *ctltypes.CtlError.
func WrapError(err error) *ctltypes.CtlError {
	if err == nil {
		return nil
	}
	if ce, ok := err.(*ctltypes.CtlError); ok {
		return ce
	}
	// Default wrap as internal error
	return ErrInternal(err.Error())
}
