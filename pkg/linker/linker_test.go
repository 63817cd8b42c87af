package linker_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msp430dev/toolchain/pkg/linker"
	"github.com/msp430dev/toolchain/pkg/object"
)

// TestLinkTwoObjectsRebasesAndResolvesCall links a caller object
// referencing an external FUNC defined in a second object, in order
// [caller, callee].
func TestLinkTwoObjectsRebasesAndResolvesCall(t *testing.T) {
	caller := object.File{
		Text: []object.Word{
			{Address: 0x0000, Code: 0x1280},
			{Address: 0x0002, Code: 0x0000},
		},
		Symbols: []object.Symbol{
			{Name: "FUNC", Type: object.TypeExternal, Section: "none", Defined: false},
		},
		Relocations: []object.Relocation{
			{Offset: 0x0002, Symbol: "FUNC", Type: object.RelocAbsolute16, Section: "text"},
		},
	}
	callee := object.File{
		Text: []object.Word{
			{Address: 0x0000, Code: 0x4303},
		},
		Symbols: []object.Symbol{
			{Name: "FUNC", Value: 0x0000, Type: object.TypeRelative, Section: "text", Defined: true, Global: true},
		},
	}

	linked, err := linker.Link([]linker.Input{
		{Name: "caller.obj", File: caller},
		{Name: "callee.obj", File: callee},
	})
	require.NoError(t, err)

	require.Len(t, linked.Text, 3)
	// caller's two words stay at 0x0000/0x0002; callee's NOP rebases by
	// the caller's word count times two.
	assert.Equal(t, uint16(0x0004), linked.Text[2].Address)
	assert.Equal(t, uint16(0x4303), linked.Text[2].Code)

	// The patched CALL target word now holds FUNC's rebased address.
	assert.Equal(t, uint16(0x0004), linked.Text[1].Code)

	require.Len(t, linked.Relocations, 1)
	assert.Equal(t, object.StatusResolved, linked.Relocations[0].Status)
}

func TestLinkRejectsUndefinedSymbol(t *testing.T) {
	caller := object.File{
		Text: []object.Word{{Address: 0, Code: 0x1280}, {Address: 2, Code: 0}},
		Relocations: []object.Relocation{
			{Offset: 2, Symbol: "MISSING", Type: object.RelocAbsolute16, Section: "text"},
		},
	}

	_, err := linker.Link([]linker.Input{{Name: "a.obj", File: caller}})
	require.Error(t, err)
	assert.ErrorIs(t, err, linker.ErrUndefinedSymbol)
}

func TestLinkRejectsSymbolCollision(t *testing.T) {
	a := object.File{
		Symbols: []object.Symbol{{Name: "ENTRY", Value: 0, Type: object.TypeRelative, Section: "text", Defined: true}},
	}
	b := object.File{
		Symbols: []object.Symbol{{Name: "ENTRY", Value: 0, Type: object.TypeRelative, Section: "text", Defined: true}},
	}

	_, err := linker.Link([]linker.Input{{Name: "a.obj", File: a}, {Name: "b.obj", File: b}})
	require.Error(t, err)
	assert.ErrorIs(t, err, linker.ErrSymbolCollision)
}

func TestLinkUndefinedThenDefinedReferenceResolves(t *testing.T) {
	a := object.File{
		Symbols: []object.Symbol{{Name: "SHARED", Type: object.TypeExternal, Section: "none", Defined: false}},
	}
	b := object.File{
		Symbols: []object.Symbol{{Name: "SHARED", Value: 0x10, Type: object.TypeRelative, Section: "text", Defined: true}},
	}

	linked, err := linker.Link([]linker.Input{{Name: "a.obj", File: a}, {Name: "b.obj", File: b}})
	require.NoError(t, err)

	require.Len(t, linked.Symbols, 1)
	assert.True(t, linked.Symbols[0].Defined)
	assert.Equal(t, uint16(0x10), linked.Symbols[0].Value)
}

// TestLinkPCRelativePatchPreservesOpcodeBits covers the PC-relative
// redesign: the linker ORs the displacement into the existing word
// instead of overwriting it, so bits the assembler already wrote survive.
func TestLinkPCRelativePatchPreservesOpcodeBits(t *testing.T) {
	caller := object.File{
		Text: []object.Word{
			{Address: 0x0000, Code: 0x3C00}, // JMP opcode, zero displacement placeholder
		},
		Relocations: []object.Relocation{
			{Offset: 0x0000, Symbol: "TARGET", Type: object.RelocPCRelative, Section: "text"},
		},
	}
	callee := object.File{
		Text: []object.Word{
			{Address: 0x0000, Code: 0x4303},
			{Address: 0x0002, Code: 0x4303},
		},
		Symbols: []object.Symbol{
			{Name: "TARGET", Value: 0x0002, Type: object.TypeRelative, Section: "text", Defined: true},
		},
	}

	linked, err := linker.Link([]linker.Input{
		{Name: "caller.obj", File: caller},
		{Name: "callee.obj", File: callee},
	})
	require.NoError(t, err)

	// TARGET rebases to 0x0002 + (1 word * 2 bytes) = 0x0004; displacement
	// from the JMP at 0x0000 is (0x0004-(0+2))/2 = 1.
	assert.Equal(t, uint16(0x3C01), linked.Text[0].Code)
}

// TestRelinkSingleObjectIsIdentity links a single object with no
// relocations: its code comes through byte-identical (the text base
// starts at zero), and its data lands at the 0x0200 data base.
func TestRelinkSingleObjectIsIdentity(t *testing.T) {
	obj := object.File{
		Text: []object.Word{
			{Address: 0x0000, Code: 0x4034},
			{Address: 0x0002, Code: 0x1234},
		},
		Data: []object.Word{
			{Address: 0x0000, Code: 0x00AA},
		},
		Symbols: []object.Symbol{
			{Name: "START", Value: 0, Type: object.TypeRelative, Section: "text", Defined: true},
		},
	}

	linked, err := linker.Link([]linker.Input{{Name: "whole.obj", File: obj}})
	require.NoError(t, err)

	assert.Equal(t, obj.Text, linked.Text)
	require.Len(t, linked.Data, 1)
	assert.Equal(t, uint16(0x0200), linked.Data[0].Address)
	assert.Equal(t, uint16(0x00AA), linked.Data[0].Code)
	assert.Empty(t, linked.Relocations)
}

func TestLinkOrderingDeterminesSectionBases(t *testing.T) {
	first := object.File{Text: []object.Word{{Address: 0, Code: 0x4303}}}
	second := object.File{Text: []object.Word{{Address: 0, Code: 0x4303}}}

	linked, err := linker.Link([]linker.Input{
		{Name: "first.obj", File: first},
		{Name: "second.obj", File: second},
	})
	require.NoError(t, err)

	assert.Equal(t, uint16(0x0000), linked.Text[0].Address)
	assert.Equal(t, uint16(0x0002), linked.Text[1].Address)
}
