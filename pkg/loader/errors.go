package loader

import "errors"

var (
	ErrInvalidAddress = errors.New("invalid address")
	ErrOverflow       = errors.New("region overflow")
)
