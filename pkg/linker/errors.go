package linker

import "errors"

// Sentinel error kinds for the linker's fatal cases: an unresolved
// reference, two defined globals sharing a name, and an object file
// the reader could not interpret.
var (
	ErrUndefinedSymbol = errors.New("undefined symbol")
	ErrSymbolCollision = errors.New("symbol collision")
	ErrMalformedObject = errors.New("malformed object")
)
