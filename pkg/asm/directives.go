package asm

import (
	"strconv"
	"strings"

	"github.com/msp430dev/toolchain/pkg/utils"
)

// directiveName recognizes a token as a directive regardless of case.
func directiveName(mnemonic string) (string, bool) {
	if !strings.HasPrefix(mnemonic, ".") {
		return "", false
	}
	return strings.ToLower(mnemonic), true
}

// unquote strips a single layer of double quotes from a `.sect`/`.usect`
// name argument, tolerating the bare, unquoted form too.
func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

// directiveSize returns the number of bytes a directive advances the
// location counter by during Pass 1, given its already-split operands.
// Directives that do not touch the location counter (.global, .def,
// .ref, .equ, .set, .end) return 0.
func directiveSize(name string, operands []string) (int, error) {
	switch name {
	case ".word":
		return 2 * len(operands), nil
	case ".usect":
		if len(operands) != 2 {
			return 0, utils.MakeError(ErrDirectiveArgument, ".usect requires name and size operands")
		}
		n, err := strconv.ParseInt(strings.TrimSpace(operands[1]), 0, 32)
		if err != nil {
			return 0, utils.MakeError(ErrDirectiveArgument, "invalid .usect size %q", operands[1])
		}
		return int(n), nil
	default:
		return 0, nil
	}
}

// isSectionSwitch reports whether name switches the current section,
// returning the section it switches to.
func isSectionSwitch(name string) (section string, bss bool, ok bool) {
	switch name {
	case ".text":
		return SectionText, false, true
	case ".data":
		return SectionData, false, true
	case ".bss":
		return SectionBSS, true, true
	default:
		return "", false, false
	}
}

// isTerminator reports whether name is `.end`, after which the
// assembler ignores every subsequent line.
func isTerminator(name string) bool {
	return name == ".end"
}

// splitSymbolList splits a directive's comma-separated symbol-list
// operands (`.global a, b, c` may already be pre-split by the lexer, but
// a single operand might still carry embedded commas if quoting was
// used upstream).
func splitSymbolList(operands []string) []string {
	var names []string
	for _, op := range operands {
		for _, part := range strings.Split(op, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				names = append(names, trimmed)
			}
		}
	}
	return names
}
