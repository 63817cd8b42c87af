package asm

import (
	"sort"

	"github.com/msp430dev/toolchain/pkg/utils"
)

// SymbolType classifies the nature of a symbol's value.
type SymbolType int

const (
	SymAbsolute SymbolType = iota
	SymRelative
	SymExternal
	SymCode
	SymData
	SymConstant
)

func (t SymbolType) String() string {
	switch t {
	case SymAbsolute:
		return "absolute"
	case SymRelative:
		return "relative"
	case SymExternal:
		return "external"
	case SymCode:
		return "code"
	case SymData:
		return "data"
	case SymConstant:
		return "constant"
	default:
		return "unknown"
	}
}

// Well-known section names. A section may also be an arbitrary
// name introduced by `.sect`/`.usect`.
const (
	SectionText  = "text"
	SectionData  = "data"
	SectionBSS   = "bss"
	SectionConst = "const"
	SectionNone  = "none"
)

// Unresolved tracks a symbol bound to a constant expression that could
// not be evaluated yet because one or more of its dependencies are not
// defined.
type Unresolved struct {
	Expr      string
	DependsOn []string
}

// Symbol is the assembler's single record type for every named value. All
// attributes are explicit fields rather than encoded via missing map keys.
type Symbol struct {
	Name        string
	Value       uint16
	Type        SymbolType
	Section     string
	Defined     bool
	Global      bool
	Constant    bool
	Placeholder bool
	Pending     *Unresolved
}

// SymbolTable owns every symbol seen while assembling one translation
// unit. Iteration order (Names) is insertion order so object-file output
// is deterministic.
type SymbolTable struct {
	symbols map[string]*Symbol
	order   []string
}

// NewSymbolTable returns an empty symbol table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{symbols: make(map[string]*Symbol)}
}

// Lookup returns the symbol by name, or nil if it has never been
// referenced or defined.
func (t *SymbolTable) Lookup(name string) *Symbol {
	return t.symbols[name]
}

// Names returns every known symbol name in the order it was first seen.
func (t *SymbolTable) Names() []string {
	names := make([]string, len(t.order))
	copy(names, t.order)
	return names
}

// getOrCreate returns the existing symbol or registers a fresh, undefined
// placeholder for it.
func (t *SymbolTable) getOrCreate(name string) *Symbol {
	if sym, ok := t.symbols[name]; ok {
		return sym
	}
	sym := &Symbol{Name: name, Section: SectionNone}
	t.symbols[name] = sym
	t.order = append(t.order, name)
	return sym
}

// Reference records a use of name (e.g. a bare symbolic operand) without
// defining it, creating the placeholder symbol tracked for relocation if
// it is never defined locally.
func (t *SymbolTable) Reference(name string) *Symbol {
	return t.getOrCreate(name)
}

// Define binds name to value within section. It is an error to define an
// already-defined symbol twice within the same translation unit.
func (t *SymbolTable) Define(name string, value uint16, typ SymbolType, section string) error {
	sym := t.getOrCreate(name)
	if sym.Defined {
		return utils.MakeError(ErrStructural, "duplicate definition of symbol %q", name)
	}
	sym.Value = value
	sym.Type = typ
	sym.Section = section
	sym.Defined = true
	sym.Placeholder = false
	sym.Pending = nil
	return nil
}

// DefinePending registers a symbol bound to an expression whose
// dependencies are not all defined yet (an `.equ`/`.set` forward
// reference). It is resolved by the Pass-1 finalizer fixpoint.
func (t *SymbolTable) DefinePending(name, expr string, dependsOn []string) error {
	sym := t.getOrCreate(name)
	if sym.Defined || sym.Pending != nil {
		return utils.MakeError(ErrStructural, "duplicate definition of symbol %q", name)
	}
	sym.Constant = true
	sym.Pending = &Unresolved{Expr: expr, DependsOn: dependsOn}
	return nil
}

// MarkGlobal marks name as globally visible, creating a placeholder if it
// has not been seen yet (`.global` may precede the definition or refer to
// a symbol the linker must resolve).
func (t *SymbolTable) MarkGlobal(name string) {
	t.getOrCreate(name).Global = true
}

// MarkExternal registers name as an external reference (`.ref`), which
// will require linker relocation unless the linker later supplies it.
func (t *SymbolTable) MarkExternal(name string) {
	sym := t.getOrCreate(name)
	sym.Type = SymExternal
	sym.Placeholder = true
}

// ResolveForward performs the Pass-1 finalizer fixpoint over pending
// `.equ`/`.set` symbols: repeatedly evaluate any pending
// expression whose dependencies are now all defined, until no further
// progress is made.
func (t *SymbolTable) ResolveForward() error {
	for {
		progressed := false

		for _, name := range t.order {
			sym := t.symbols[name]
			if sym.Pending == nil {
				continue
			}

			allDefined := true
			for _, dep := range sym.Pending.DependsOn {
				depSym := t.symbols[dep]
				if depSym == nil || !depSym.Defined {
					allDefined = false
					break
				}
			}
			if !allDefined {
				continue
			}

			value, typ, err := EvaluateExpr(sym.Pending.Expr, t, 0)
			if err != nil {
				return utils.MakeError(ErrSemantic, "evaluating %q for symbol %q: %v", sym.Pending.Expr, name, err)
			}

			sym.Value = value
			sym.Type = typ
			sym.Defined = true
			sym.Pending = nil
			progressed = true
		}

		if !progressed {
			break
		}
	}

	return nil
}

// PendingNames returns the names of every `.equ`/`.set` symbol that is
// still unresolved after the Pass-1 fixpoint — a hard error, since
// constant expressions (unlike instruction operands) are never relocated
// by the linker.
func (t *SymbolTable) PendingNames() []string {
	var names []string
	for _, name := range t.order {
		if t.symbols[name].Pending != nil {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
