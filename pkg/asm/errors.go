package asm

import (
	"errors"

	"github.com/msp430dev/toolchain/pkg/utils"
)

// Diagnostic categories. Each wraps a sentinel so callers can errors.Is
// against the category while the message carries the detail.
var (
	ErrLexical           = errors.New("lexical")
	ErrStructural        = errors.New("structural")
	ErrSemantic          = errors.New("semantic")
	ErrDirectiveArgument = errors.New("directive")
	ErrIO                = errors.New("io")
)

// SourceError is a diagnostic tied to a source line number, the unit of
// propagation the assembler aborts a run with.
type SourceError struct {
	Line int
	Err  error
}

func (e *SourceError) Error() string {
	if e.Line > 0 {
		return utils.MakeError(e.Err, "line %d", e.Line).Error()
	}
	return e.Err.Error()
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

func lineError(line int, kind error, format string, args ...any) error {
	return &SourceError{Line: line, Err: utils.MakeError(kind, format, args...)}
}

func errInvalidNumericLiteral(s string) error {
	return utils.MakeError(ErrLexical, "invalid numeric literal %q", s)
}

func errInvalidCharLiteral(s string) error {
	return utils.MakeError(ErrLexical, "invalid character literal %q", s)
}
