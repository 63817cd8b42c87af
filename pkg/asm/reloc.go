package asm

// RelocationKind distinguishes how the linker must patch a deferred
// reference.
type RelocationKind int

const (
	AbsoluteReloc RelocationKind = iota
	PCRelativeReloc
)

func (k RelocationKind) String() string {
	if k == PCRelativeReloc {
		return "PC_RELATIVE"
	}
	return "ABSOLUTE_16"
}

// Relocation is a deferred patch site: an emitted word that the linker
// must overwrite once Symbol is resolved.
type Relocation struct {
	Offset  uint16
	Symbol  string
	Kind    RelocationKind
	Section string
}
