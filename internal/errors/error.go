package errors

import "errors"

var (
	ErrValidation    = errors.New("invalid input")
	ErrEngineSpawn   = errors.New("failed to start engine")
	ErrEngineRuntime = errors.New("engine failed")
	ErrEngineTimeout = errors.New("engine analysis timed out")
	ErrNotFound      = errors.New("not found")
	ErrInternal      = errors.New("internal error")
)

// IsClientFault reports whether err was caused by the request itself.
func IsClientFault(err error) bool {
	return errors.Is(err, ErrValidation)
}
