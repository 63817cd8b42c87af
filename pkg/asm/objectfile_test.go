package asm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msp430dev/toolchain/pkg/object"
)

func TestToObjectFileCarriesSectionsSymbolsAndRelocations(t *testing.T) {
	source := []string{
		"       .ref FUNC",
		"START: CALL #FUNC",
		"       .word 0x0042",
	}

	result, err := Assemble(source, nil)
	require.NoError(t, err)

	obj := result.Context.ToObjectFile()

	require.Len(t, obj.Text, 3)
	assert.Equal(t, uint16(0x1280), obj.Text[0].Code)
	assert.Equal(t, uint16(0x0042), obj.Text[2].Code)
	assert.Equal(t, uint16(0x0000), obj.Text[0].Address)
	assert.Equal(t, uint16(0x0002), obj.Text[1].Address)
	assert.Equal(t, uint16(0x0004), obj.Text[2].Address)

	require.Len(t, obj.Relocations, 1)
	assert.Equal(t, "FUNC", obj.Relocations[0].Symbol)
	assert.Equal(t, object.RelocAbsolute16, obj.Relocations[0].Type)
	assert.Equal(t, uint16(0x0002), obj.Relocations[0].Offset)

	var startSym *object.Symbol
	for i := range obj.Symbols {
		if obj.Symbols[i].Name == "START" {
			startSym = &obj.Symbols[i]
		}
	}
	require.NotNil(t, startSym)
	assert.Equal(t, "relative", string(startSym.Type))
	assert.True(t, startSym.Defined)
}
