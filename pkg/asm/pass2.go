package asm

import (
	"strings"
)

// resolveSymbolValue looks up name for Pass-2 emission: a symbol
// that is undefined or external needs a
// relocation entry and a zero placeholder; anything else is materialized
// inline as its concrete value.
func resolveSymbolValue(name string, symtab *SymbolTable) (value uint16, needsReloc bool) {
	sym := symtab.Lookup(name)
	if sym == nil {
		symtab.Reference(name)
		return 0, true
	}
	if sym.Type == SymExternal || !sym.Defined {
		return 0, true
	}
	return sym.Value, false
}

// resolveOperand fills in op.Value from the symbol table when the
// operand references a symbol, reporting whether a relocation entry is
// required at its extension word.
func resolveOperand(op Operand, symtab *SymbolTable) (Operand, bool) {
	if op.Symbol == "" {
		return op, false
	}
	value, needsReloc := resolveSymbolValue(op.Symbol, symtab)
	op.Value = value
	return op, needsReloc
}

// runPass2 emits instruction and data words for every Pass-1 entry,
// recording a relocation wherever an operand or jump target could not
// be resolved locally. Each entry rewinds its section's location
// counter to the offset Pass 1 assigned it, so emission lands exactly
// where the size computation said it would regardless of intervening
// `.org` or section switches.
func (c *Context) runPass2(entries []entry) error {
	for _, e := range entries {
		sect := c.Sections[e.Section]
		sect.LC = e.Offset

		if e.IsDir {
			if err := c.emitWordDirective(sect, e); err != nil {
				return err
			}
			continue
		}

		form, _ := MnemonicForm(e.Mnemonic)
		switch form {
		case FormFixed:
			word, _ := FixedWord(e.Mnemonic)
			if err := sect.Emit(word); err != nil {
				return &SourceError{Line: e.LineNo, Err: err}
			}

		case FormJump:
			if err := c.emitJump(sect, e); err != nil {
				return err
			}

		case FormSingle:
			if err := c.emitSingle(sect, e); err != nil {
				return err
			}

		case FormDouble:
			if err := c.emitDouble(sect, e); err != nil {
				return err
			}

		default:
			panic("unreachable")
		}
	}
	return nil
}

func (c *Context) emitWordDirective(sect *Section, e entry) error {
	for _, raw := range e.Operands {
		if value, ok, err := NumericLiteral(raw); ok {
			if err != nil {
				return lineError(e.LineNo, ErrDirectiveArgument, "%v", err)
			}
			if err := sect.Emit(uint16(value)); err != nil {
				return &SourceError{Line: e.LineNo, Err: err}
			}
			continue
		}

		value, needsReloc := resolveSymbolValue(raw, c.Symbols)
		if needsReloc {
			c.Relocations = append(c.Relocations, Relocation{
				Offset: sect.LC, Symbol: raw, Kind: AbsoluteReloc, Section: e.Section,
			})
		}
		if err := sect.Emit(value); err != nil {
			return &SourceError{Line: e.LineNo, Err: err}
		}
	}
	return nil
}

func (c *Context) emitJump(sect *Section, e entry) error {
	if len(e.Operands) != 1 {
		return lineError(e.LineNo, ErrDirectiveArgument, "%q requires exactly one operand", e.Mnemonic)
	}
	target := strings.TrimSpace(e.Operands[0])
	pc := sect.LC

	if value, ok, err := NumericLiteral(target); ok {
		if err != nil {
			return lineError(e.LineNo, ErrDirectiveArgument, "%v", err)
		}
		word, err := EncodeJump(e.Mnemonic, pc, uint16(value))
		if err != nil {
			return &SourceError{Line: e.LineNo, Err: err}
		}
		return emitAt(sect, e.LineNo, word)
	}

	value, needsReloc := resolveSymbolValue(target, c.Symbols)
	if needsReloc {
		base, ok := jumpOpcodes[strings.ToUpper(e.Mnemonic)]
		if !ok {
			return lineError(e.LineNo, ErrStructural, "unknown jump mnemonic %q", e.Mnemonic)
		}
		c.Relocations = append(c.Relocations, Relocation{
			Offset: sect.LC, Symbol: target, Kind: PCRelativeReloc, Section: e.Section,
		})
		return emitAt(sect, e.LineNo, base)
	}

	word, err := EncodeJump(e.Mnemonic, pc, value)
	if err != nil {
		return &SourceError{Line: e.LineNo, Err: err}
	}
	return emitAt(sect, e.LineNo, word)
}

// emitAt appends one word at the section's location counter, tagging any
// failure with the source line it came from.
func emitAt(sect *Section, lineNo int, word uint16) error {
	if err := sect.Emit(word); err != nil {
		return &SourceError{Line: lineNo, Err: err}
	}
	return nil
}

func (c *Context) emitSingle(sect *Section, e entry) error {
	if len(e.Operands) != 1 {
		return lineError(e.LineNo, ErrDirectiveArgument, "%q requires exactly one operand", e.Mnemonic)
	}

	base, _ := splitSuffix(e.Mnemonic)
	if equalFold(base, "CALL") {
		target := strings.TrimPrefix(strings.TrimSpace(e.Operands[0]), "#")

		if err := emitAt(sect, e.LineNo, 0x1280); err != nil {
			return err
		}

		if value, ok, err := NumericLiteral(target); ok {
			if err != nil {
				return lineError(e.LineNo, ErrDirectiveArgument, "%v", err)
			}
			return emitAt(sect, e.LineNo, uint16(value))
		}

		value, needsReloc := resolveSymbolValue(target, c.Symbols)
		if needsReloc {
			c.Relocations = append(c.Relocations, Relocation{
				Offset: sect.LC, Symbol: target, Kind: AbsoluteReloc, Section: e.Section,
			})
		}
		return emitAt(sect, e.LineNo, value)
	}

	dst, err := ParseOperand(e.Operands[0])
	if err != nil {
		return &SourceError{Line: e.LineNo, Err: err}
	}

	var needsReloc bool
	dst, needsReloc = resolveOperand(dst, c.Symbols)

	words, err := EncodeSingle(e.Mnemonic, dst)
	if err != nil {
		return &SourceError{Line: e.LineNo, Err: err}
	}

	if err := emitAt(sect, e.LineNo, words[0]); err != nil {
		return err
	}
	if len(words) > 1 {
		if needsReloc {
			c.Relocations = append(c.Relocations, Relocation{
				Offset: sect.LC, Symbol: dst.Symbol, Kind: AbsoluteReloc, Section: e.Section,
			})
		}
		return emitAt(sect, e.LineNo, words[1])
	}
	return nil
}

func (c *Context) emitDouble(sect *Section, e entry) error {
	if len(e.Operands) != 2 {
		return lineError(e.LineNo, ErrDirectiveArgument, "%q requires exactly two operands", e.Mnemonic)
	}

	src, err := ParseOperand(e.Operands[0])
	if err != nil {
		return &SourceError{Line: e.LineNo, Err: err}
	}
	dst, err := ParseOperand(e.Operands[1])
	if err != nil {
		return &SourceError{Line: e.LineNo, Err: err}
	}

	var srcReloc, dstReloc bool
	src, srcReloc = resolveOperand(src, c.Symbols)
	dst, dstReloc = resolveOperand(dst, c.Symbols)

	words, err := EncodeDouble(e.Mnemonic, src, dst)
	if err != nil {
		return &SourceError{Line: e.LineNo, Err: err}
	}

	if err := emitAt(sect, e.LineNo, words[0]); err != nil {
		return err
	}
	idx := 1
	if src.HasExtension() {
		if srcReloc {
			c.Relocations = append(c.Relocations, Relocation{
				Offset: sect.LC, Symbol: src.Symbol, Kind: AbsoluteReloc, Section: e.Section,
			})
		}
		if err := emitAt(sect, e.LineNo, words[idx]); err != nil {
			return err
		}
		idx++
	}
	if dst.HasExtension() {
		if dstReloc {
			c.Relocations = append(c.Relocations, Relocation{
				Offset: sect.LC, Symbol: dst.Symbol, Kind: AbsoluteReloc, Section: e.Section,
			})
		}
		return emitAt(sect, e.LineNo, words[idx])
	}
	return nil
}
