// Package object implements the textual relocatable object file format
// produced by the assembler and consumed by the linker, and the linked
// image format produced by the linker and consumed by the loader.
package object

// Word pairs an in-section offset with the 16-bit value stored there.
type Word struct {
	Address uint16
	Code    uint16
}

// SymbolType mirrors asm.SymbolType's String() values as they appear in
// the object file's Type column.
type SymbolType string

const (
	TypeAbsolute SymbolType = "absolute"
	TypeRelative SymbolType = "relative"
	TypeExternal SymbolType = "external"
	TypeCode     SymbolType = "code"
	TypeData     SymbolType = "data"
	TypeConstant SymbolType = "constant"
)

// Symbol is one row of the `.symtab` section.
type Symbol struct {
	Name    string
	Value   uint16
	Type    SymbolType
	Section string
	Defined bool
	Global  bool
	// File is populated only in a linked image's symbol table (the
	// extra "File" column), naming the object the symbol came from.
	File string
}

// RelocationType is the `.rel.text` Type column.
type RelocationType string

const (
	RelocAbsolute16 RelocationType = "ABSOLUTE_16"
	RelocPCRelative RelocationType = "PC_RELATIVE"
)

// RelocationStatus is the linked image's extra Status column: every
// relocation in a successfully linked image is RESOLVED.
type RelocationStatus string

const (
	StatusUnresolved RelocationStatus = "UNRESOLVED"
	StatusResolved   RelocationStatus = "RESOLVED"
)

// Relocation is one row of the `.rel.text` section.
type Relocation struct {
	Offset  uint16
	Symbol  string
	Type    RelocationType
	Section string
	// Status is the empty string in an assembler-produced object (the
	// column does not exist there) and always RESOLVED in a linked
	// image: the linker never emits an output with unresolved entries.
	Status RelocationStatus
}

// File is the in-memory model of one object or linked-image file: the
// text and data sections' words, the symbol table, and the relocation
// table.
type File struct {
	Text        []Word
	Data        []Word
	Symbols     []Symbol
	Relocations []Relocation
	// Linked is set once a File represents a linker's output rather
	// than a single assembler unit: it gates the extra File/Status
	// columns and the summary footer.
	Linked bool
	// Inputs lists the source object file paths, in link order, for the
	// linked-image summary footer.
	Inputs []string
}
