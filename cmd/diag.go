package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/msp430dev/toolchain/pkg/asm"
	"github.com/msp430dev/toolchain/pkg/linker"
	"github.com/msp430dev/toolchain/pkg/loader"
	"github.com/msp430dev/toolchain/pkg/object"
)

// category classifies an error into a diagnostic category — lexical,
// structural, semantic, directive, io — and picks the color it prints
// in. Classification goes through errors.Is on each package's
// sentinels rather than string matching.
func category(err error) (label string, c *color.Color) {
	switch {
	case errors.Is(err, asm.ErrLexical):
		return "lexical", color.New(color.FgRed)
	case errors.Is(err, asm.ErrStructural):
		return "structural", color.New(color.FgRed)
	case errors.Is(err, asm.ErrSemantic), errors.Is(err, linker.ErrUndefinedSymbol), errors.Is(err, linker.ErrSymbolCollision):
		return "semantic", color.New(color.FgRed)
	case errors.Is(err, asm.ErrDirectiveArgument):
		return "directive", color.New(color.FgRed)
	case errors.Is(err, asm.ErrIO), errors.Is(err, object.ErrWrite), errors.Is(err, object.ErrParse),
		errors.Is(err, linker.ErrMalformedObject), errors.Is(err, loader.ErrOverflow), errors.Is(err, loader.ErrInvalidAddress):
		return "io", color.New(color.FgRed)
	default:
		return "error", color.New(color.FgRed)
	}
}

// fail prints a single-line categorized diagnostic to stderr and
// returns the process exit code.
func fail(err error) int {
	label, c := category(err)
	c.Fprintf(os.Stderr, "%s:", label)
	fmt.Fprintf(os.Stderr, " %v\n", err)
	return 1
}

// warn prints a non-fatal diagnostic (the loader's per-line warnings)
// in yellow.
func warn(message string) {
	color.New(color.FgYellow).Fprintln(os.Stderr, message)
}
