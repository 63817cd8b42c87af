package asm

import (
	"strings"

	"github.com/msp430dev/toolchain/pkg/utils"
)

// AddrMode is one of the MSP430's seven source/destination addressing
// modes.
type AddrMode int

const (
	ModeRegister AddrMode = iota
	ModeIndexed
	ModeAbsolute
	ModeSymbolic
	ModeIndirect
	ModeIndirectAutoinc
	ModeImmediate
)

func (m AddrMode) String() string {
	switch m {
	case ModeRegister:
		return "register"
	case ModeIndexed:
		return "indexed"
	case ModeAbsolute:
		return "absolute"
	case ModeSymbolic:
		return "symbolic"
	case ModeIndirect:
		return "indirect"
	case ModeIndirectAutoinc:
		return "indirect-autoincrement"
	case ModeImmediate:
		return "immediate"
	default:
		panic("unreachable")
	}
}

// registerAliases maps the CPU's named registers to their numeric form:
// the program counter, stack pointer, status register
// and constant generator are addressable both as Rn and by name.
var registerAliases = map[string]int{
	"PC": 0, "SP": 1, "SR": 2, "CG": 3,
	"R0": 0, "R1": 1, "R2": 2, "R3": 3,
	"R4": 4, "R5": 5, "R6": 6, "R7": 7,
	"R8": 8, "R9": 9, "R10": 10, "R11": 11,
	"R12": 12, "R13": 13, "R14": 14, "R15": 15,
}

// registerNumber returns a register's numeric index and whether name
// names a register at all.
func registerNumber(name string) (int, bool) {
	n, ok := registerAliases[strings.ToUpper(name)]
	return n, ok
}

// Operand is a fully classified source or destination operand: its
// addressing mode, the register field (As/Ad, always R0 for the non-
// register modes that need none) and, where the mode requires an
// extension word, either a literal value or a symbol to resolve it from.
type Operand struct {
	Mode     AddrMode
	Register int
	Value    uint16
	Symbol   string
	PCRel    bool
}

// HasExtension reports whether this operand requires a second instruction
// word: every mode except plain register and register-
// indirect addressing does.
func (o Operand) HasExtension() bool {
	switch o.Mode {
	case ModeRegister, ModeIndirect, ModeIndirectAutoinc:
		return false
	default:
		return true
	}
}

// As returns the 2-bit source addressing-mode field encoding for this
// operand.
func (o Operand) As() uint16 {
	switch o.Mode {
	case ModeRegister:
		return 0
	case ModeIndexed, ModeSymbolic, ModeAbsolute:
		return 1
	case ModeIndirect:
		return 2
	case ModeIndirectAutoinc, ModeImmediate:
		return 3
	default:
		panic("unreachable")
	}
}

// Ad returns the single-bit destination addressing-mode field: a
// destination operand is only ever register-direct (Ad=0)
// or indexed/symbolic/absolute (Ad=1).
func (o Operand) Ad() (uint16, error) {
	switch o.Mode {
	case ModeRegister:
		return 0, nil
	case ModeIndexed, ModeSymbolic, ModeAbsolute:
		return 1, nil
	default:
		return 0, utils.MakeError(ErrDirectiveArgument, "addressing mode %s is not valid as a destination operand", o.Mode)
	}
}

// ParseOperand classifies a raw operand token into its addressing mode.
// It never consults a symbol table: whether a bare
// identifier resolves to a known constant or a relocatable address is a
// Pass 1/Pass 2 concern, not a syntactic one.
func ParseOperand(raw string) (Operand, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Operand{}, utils.MakeError(ErrStructural, "empty operand")
	}

	switch {
	case strings.HasPrefix(s, "#"):
		return parseImmediate(s[1:])

	case strings.HasPrefix(s, "&"):
		label := s[1:]
		if value, ok, err := NumericLiteral(label); ok {
			if err != nil {
				return Operand{}, err
			}
			return Operand{Mode: ModeAbsolute, Register: 2, Value: uint16(value)}, nil
		}
		return Operand{Mode: ModeAbsolute, Register: 2, Symbol: label}, nil

	case strings.HasPrefix(s, "@") && strings.HasSuffix(s, "+"):
		reg, ok := registerNumber(s[1 : len(s)-1])
		if !ok {
			return Operand{}, utils.MakeError(ErrStructural, "invalid register in operand %q", s)
		}
		return Operand{Mode: ModeIndirectAutoinc, Register: reg}, nil

	case strings.HasPrefix(s, "@"):
		reg, ok := registerNumber(s[1:])
		if !ok {
			return Operand{}, utils.MakeError(ErrStructural, "invalid register in operand %q", s)
		}
		return Operand{Mode: ModeIndirect, Register: reg}, nil

	default:
		if reg, ok := registerNumber(s); ok {
			return Operand{Mode: ModeRegister, Register: reg}, nil
		}
		if offset, reg, ok := splitIndexed(s); ok {
			regNum, ok := registerNumber(reg)
			if !ok {
				return Operand{}, utils.MakeError(ErrStructural, "invalid register in operand %q", s)
			}
			value, ok, err := NumericLiteral(offset)
			if err != nil {
				return Operand{}, err
			}
			if ok {
				return Operand{Mode: ModeIndexed, Register: regNum, Value: uint16(value)}, nil
			}
			return Operand{Mode: ModeIndexed, Register: regNum, Symbol: offset}, nil
		}
		if !isIdentifier(s) {
			return Operand{}, utils.MakeError(ErrStructural, "unrecognized operand %q", s)
		}
		return Operand{Mode: ModeSymbolic, Register: 0, Symbol: s, PCRel: true}, nil
	}
}

func parseImmediate(body string) (Operand, error) {
	body = strings.TrimSpace(body)
	if value, ok, err := NumericLiteral(body); ok {
		if err != nil {
			return Operand{}, err
		}
		return Operand{Mode: ModeImmediate, Register: 0, Value: uint16(value)}, nil
	}
	if !isIdentifier(body) {
		return Operand{}, utils.MakeError(ErrStructural, "invalid immediate operand %q", body)
	}
	return Operand{Mode: ModeImmediate, Register: 0, Symbol: body}, nil
}

// splitIndexed recognizes "offset(Rn)" operands, where offset is either a
// numeric literal or a symbol.
func splitIndexed(s string) (offset, reg string, ok bool) {
	if !strings.HasSuffix(s, ")") {
		return "", "", false
	}
	open := strings.IndexByte(s, '(')
	if open < 0 {
		return "", "", false
	}
	reg = s[open+1 : len(s)-1]
	if _, isReg := registerNumber(reg); !isReg {
		return "", "", false
	}
	return s[:open], reg, true
}

func isIdentifier(s string) bool {
	if s == "" || !isIdentStart(rune(s[0])) {
		return false
	}
	for _, r := range s {
		if !isIdentPart(r) {
			return false
		}
	}
	return true
}
