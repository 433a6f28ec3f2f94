package entities

import "errors"

// Domain errors
var (
	ErrCallRecordNotFound = errors.New("call record not found")
	ErrInvalidRequest     = errors.New("invalid request")
)
