package asm

import "github.com/msp430dev/toolchain/pkg/object"

// ToObjectFile converts this context's sections, symbol table and
// relocations into the serializable object-file model.
func (c *Context) ToObjectFile() object.File {
	return object.File{
		Text:        toWords(c.Sections[SectionText]),
		Data:        toWords(c.Sections[SectionData]),
		Symbols:     c.toObjectSymbols(),
		Relocations: c.toObjectRelocations(),
	}
}

func toWords(s *Section) []object.Word {
	if s == nil {
		return nil
	}
	words := make([]object.Word, 0, len(s.Words()))
	for _, w := range s.Words() {
		words = append(words, object.Word{Address: w.Offset, Code: w.Value})
	}
	return words
}

func (c *Context) toObjectSymbols() []object.Symbol {
	names := c.Symbols.Names()
	symbols := make([]object.Symbol, 0, len(names))
	for _, name := range names {
		sym := c.Symbols.Lookup(name)
		symbols = append(symbols, object.Symbol{
			Name:    sym.Name,
			Value:   sym.Value,
			Type:    object.SymbolType(sym.Type.String()),
			Section: sym.Section,
			Defined: sym.Defined,
			Global:  sym.Global,
		})
	}
	return symbols
}

func (c *Context) toObjectRelocations() []object.Relocation {
	relocations := make([]object.Relocation, 0, len(c.Relocations))
	for _, r := range c.Relocations {
		relocations = append(relocations, object.Relocation{
			Offset:  r.Offset,
			Symbol:  r.Symbol,
			Type:    object.RelocationType(r.Kind.String()),
			Section: r.Section,
		})
	}
	return relocations
}
