package asm

import "github.com/msp430dev/toolchain/pkg/utils"

// Word is one emitted 16-bit memory cell at a section-relative offset. An
// object's on-disk section table is simply its Words in offset order.
type Word struct {
	Offset uint16
	Value  uint16
}

// Section accumulates the words emitted into one named output section
// (`.text`, `.data`, `.bss`/`.usect`, or an arbitrary `.sect` name) along
// with the location counter that advances as instructions and directives
// are assembled into it.
type Section struct {
	Name string
	LC   uint16
	Org  bool
	// words is append-only, in emission order. Offsets increase except
	// after a backward `.org`, which starts a new run at a lower offset.
	// BSS-like sections track size only and never populate words.
	words []Word
	bss   bool
}

// NewSection creates an empty section starting at location counter 0.
func NewSection(name string, bss bool) *Section {
	return &Section{Name: name, bss: bss}
}

// Size returns the section's length in bytes as currently assembled: the
// current value of its location counter. After a backward `.org` this is
// less than the highest offset already emitted.
func (s *Section) Size() uint16 {
	return s.LC
}

// Words returns the emitted (offset, value) pairs in emission order.
func (s *Section) Words() []Word {
	return s.words
}

// Emit writes value at the current location counter and advances it by
// one 16-bit word (two bytes). BSS-like sections reserve space without
// carrying data and reject Emit.
func (s *Section) Emit(value uint16) error {
	if s.bss {
		return utils.MakeError(ErrDirectiveArgument, "cannot emit data into uninitialized section %q", s.Name)
	}
	s.words = append(s.words, Word{Offset: s.LC, Value: value})
	s.LC += 2
	return nil
}

// Reserve advances the location counter by count bytes without emitting
// data, for `.bss`/`.usect` storage declarations.
func (s *Section) Reserve(count uint16) {
	s.LC += count
}

// SetOrg relocates the location counter within the section, as `.org`
// does. Subsequent Emit calls continue to append in increasing offset
// order; a backward `.org` is the caller's responsibility to reject if
// it would overlap previously emitted words.
func (s *Section) SetOrg(addr uint16) {
	s.LC = addr
	s.Org = true
}
