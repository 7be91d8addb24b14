package apperr

import "errors"

var (
	ErrParse          = errors.New("invalid record")
	ErrConfig         = errors.New("invalid config")
	ErrDeviceNotFound = errors.New("device not found")
	ErrDisconnected   = errors.New("device disconnected")
)
