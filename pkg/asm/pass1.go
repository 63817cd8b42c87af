package asm

import (
	"regexp"

	"github.com/msp430dev/toolchain/pkg/utils"
)

// entry is one line surviving macro expansion, annotated with the
// section and location counter it occupied when Pass 1 visited it.
// Pass 2 consumes entries in order and re-derives operand addressing
// modes from the same operand strings — a pure, deterministic
// computation, so nothing is lost by not caching the parsed Operand
// values here.
type entry struct {
	LineNo   int
	Section  string
	Offset   uint16
	Mnemonic string
	Operands []string
	IsDir    bool
}

var (
	identRegexp       = regexp.MustCompile(`\b[A-Za-z_]\w*`)
	charLiteralRegexp = regexp.MustCompile(`'[^']*'`)
)

// referencedSymbols extracts every identifier referenced by a constant
// expression, for forward-reference dependency tracking. Character
// literals are blanked first so their contents never read as names, and
// suffix-form numeric literals (0FFh, 1010b) are filtered the same way
// the expression tokenizer reads them: as numbers, not symbols.
func referencedSymbols(expr string) []string {
	expr = charLiteralRegexp.ReplaceAllString(expr, " ")
	names := identRegexp.FindAllString(expr, -1)
	seen := make(map[string]bool, len(names))
	var out []string
	for _, n := range names {
		if _, isNumber, _ := NumericLiteral(n); isNumber {
			continue
		}
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

// runPass1 scans expanded source lines for labels and directives,
// advances each section's location counter by the encoded byte size of
// every instruction and `.word`/`.usect` directive, and returns the
// surviving entries for Pass 2.
func (c *Context) runPass1(lines []string) ([]entry, error) {
	var entries []entry

	for i, raw := range lines {
		lineNo := i + 1
		line := SplitLine(raw)
		if line.IsEmpty() {
			continue
		}

		dirName, isDir := directiveName(line.Mnemonic)

		// A .usect line's label names the reserved block, which lives in
		// the named section, not the one currently receiving code.
		if line.Label != "" && !(isDir && dirName == ".usect") {
			sect := c.Current()
			if err := c.Symbols.Define(line.Label, sect.LC, SymRelative, c.current); err != nil {
				return nil, lineError(lineNo, ErrStructural, "%v", err)
			}
		}

		if line.Mnemonic == "" {
			continue
		}

		if isDir {
			name := dirName
			if isTerminator(name) {
				break
			}

			if sect, bss, ok := isSectionSwitch(name); ok {
				c.SwitchSection(sect, bss)
				continue
			}

			switch name {
			case ".sect":
				if len(line.Operands) != 1 {
					return nil, lineError(lineNo, ErrDirectiveArgument, ".sect requires exactly one name operand")
				}
				c.SwitchSection(unquote(line.Operands[0]), false)
				continue

			case ".usect":
				if len(line.Operands) != 2 {
					return nil, lineError(lineNo, ErrDirectiveArgument, ".usect requires name and size operands")
				}
				size, err := directiveSize(".usect", line.Operands)
				if err != nil {
					return nil, lineError(lineNo, ErrDirectiveArgument, "%v", err)
				}
				// Reserve in the named section without leaving the one
				// currently receiving code.
				reserved := c.section(unquote(line.Operands[0]), true)
				if line.Label != "" {
					if err := c.Symbols.Define(line.Label, reserved.LC, SymRelative, reserved.Name); err != nil {
						return nil, lineError(lineNo, ErrStructural, "%v", err)
					}
				}
				reserved.Reserve(uint16(size))
				continue

			case ".org":
				if len(line.Operands) != 1 {
					return nil, lineError(lineNo, ErrDirectiveArgument, ".org requires exactly one address operand")
				}
				addr, ok, err := NumericLiteral(line.Operands[0])
				if err != nil {
					return nil, lineError(lineNo, ErrDirectiveArgument, "%v", err)
				}
				if !ok {
					return nil, lineError(lineNo, ErrDirectiveArgument, "invalid .org address %q", line.Operands[0])
				}
				c.Current().SetOrg(uint16(addr))
				continue

			case ".word":
				if c.Current().bss {
					return nil, lineError(lineNo, ErrDirectiveArgument, "cannot emit data into uninitialized section %q", c.current)
				}
				entries = append(entries, entry{
					LineNo: lineNo, Section: c.current, Offset: c.Current().LC,
					Mnemonic: name, Operands: line.Operands, IsDir: true,
				})
				c.Current().LC += uint16(2 * len(line.Operands))
				continue

			case ".global", ".def":
				for _, sym := range splitSymbolList(line.Operands) {
					c.Symbols.MarkGlobal(sym)
				}
				continue

			case ".ref":
				for _, sym := range splitSymbolList(line.Operands) {
					c.Symbols.MarkExternal(sym)
				}
				continue

			case ".equ", ".set":
				if len(line.Operands) != 2 {
					return nil, lineError(lineNo, ErrDirectiveArgument, "%s requires a name and an expression", name)
				}
				symName := line.Operands[0]
				expr := line.Operands[1]
				deps := referencedSymbols(expr)

				allDefined := true
				for _, dep := range deps {
					if d := c.Symbols.Lookup(dep); d == nil || !d.Defined {
						allDefined = false
						break
					}
				}

				if allDefined {
					value, typ, err := EvaluateExpr(expr, c.Symbols, c.Current().LC)
					if err != nil {
						return nil, lineError(lineNo, ErrSemantic, "%v", err)
					}
					if err := c.Symbols.Define(symName, value, typ, SectionNone); err != nil {
						return nil, lineError(lineNo, ErrStructural, "%v", err)
					}
				} else if err := c.Symbols.DefinePending(symName, expr, deps); err != nil {
					return nil, lineError(lineNo, ErrStructural, "%v", err)
				}
				continue

			default:
				return nil, lineError(lineNo, ErrDirectiveArgument, "unknown directive %q", line.Mnemonic)
			}
		}

		form, ok := MnemonicForm(line.Mnemonic)
		if !ok {
			return nil, lineError(lineNo, ErrStructural, "unknown mnemonic %q", line.Mnemonic)
		}

		size, err := instructionSize(form, line.Mnemonic, line.Operands)
		if err != nil {
			return nil, &SourceError{Line: lineNo, Err: err}
		}

		if c.Current().bss {
			return nil, lineError(lineNo, ErrDirectiveArgument, "cannot emit code into uninitialized section %q", c.current)
		}

		entries = append(entries, entry{
			LineNo: lineNo, Section: c.current, Offset: c.Current().LC,
			Mnemonic: line.Mnemonic, Operands: line.Operands,
		})
		c.Current().LC += uint16(size)
	}

	return entries, nil
}

// instructionSize computes the Pass-1 byte count for one instruction
// line purely from its addressing modes: two bytes for the opcode word
// plus two per required extension word. Addressing-mode classification
// never depends on symbol resolution, so this never needs the symbol
// table.
func instructionSize(form Form, mnemonic string, operands []string) (int, error) {
	switch form {
	case FormFixed:
		return 2, nil

	case FormJump:
		return 2, nil

	case FormSingle:
		base, _ := splitSuffix(mnemonic)
		if len(operands) != 1 {
			return 0, utils.MakeError(ErrDirectiveArgument, "%q requires exactly one operand", mnemonic)
		}
		if equalFold(base, "CALL") {
			return 4, nil
		}
		op, err := ParseOperand(operands[0])
		if err != nil {
			return 0, err
		}
		if op.HasExtension() {
			return 4, nil
		}
		return 2, nil

	case FormDouble:
		if len(operands) != 2 {
			return 0, utils.MakeError(ErrDirectiveArgument, "%q requires exactly two operands", mnemonic)
		}
		src, err := ParseOperand(operands[0])
		if err != nil {
			return 0, err
		}
		dst, err := ParseOperand(operands[1])
		if err != nil {
			return 0, err
		}
		size := 2
		if src.HasExtension() {
			size += 2
		}
		if dst.HasExtension() {
			size += 2
		}
		return size, nil

	default:
		panic("unreachable")
	}
}

func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if ca >= 'a' && ca <= 'z' {
			ca -= 'a' - 'A'
		}
		if cb >= 'a' && cb <= 'z' {
			cb -= 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}
