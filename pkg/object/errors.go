package object

import "errors"

// Sentinel error kinds for object-file serialization and parsing.
var (
	ErrWrite = errors.New("object write")
	ErrParse = errors.New("object parse")
)
