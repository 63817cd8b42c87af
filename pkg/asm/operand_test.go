package asm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOperandModes(t *testing.T) {
	cases := []struct {
		name   string
		raw    string
		mode   AddrMode
		reg    int
		value  uint16
		symbol string
	}{
		{"register", "R4", ModeRegister, 4, 0, ""},
		{"register alias SP", "SP", ModeRegister, 1, 0, ""},
		{"indirect", "@R5", ModeIndirect, 5, 0, ""},
		{"indirect autoincrement", "@R5+", ModeIndirectAutoinc, 5, 0, ""},
		{"immediate literal", "#0x1234", ModeImmediate, 0, 0x1234, ""},
		{"immediate symbol", "#FUNC", ModeImmediate, 0, 0, "FUNC"},
		{"absolute literal", "&0x0200", ModeAbsolute, 2, 0x0200, ""},
		{"absolute symbol", "&PORT", ModeAbsolute, 2, 0, "PORT"},
		{"indexed literal", "4(R5)", ModeIndexed, 5, 4, ""},
		{"indexed symbol", "OFFSET(R6)", ModeIndexed, 6, 0, "OFFSET"},
		{"symbolic (PC-relative)", "SELF", ModeSymbolic, 0, 0, "SELF"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			op, err := ParseOperand(tc.raw)
			require.NoError(t, err)
			assert.Equal(t, tc.mode, op.Mode)
			assert.Equal(t, tc.reg, op.Register)
			assert.Equal(t, tc.value, op.Value)
			assert.Equal(t, tc.symbol, op.Symbol)
		})
	}
}

func TestParseOperandSymbolicSetsPCRel(t *testing.T) {
	op, err := ParseOperand("SELF")
	require.NoError(t, err)
	assert.True(t, op.PCRel)
}

func TestParseOperandRejectsEmpty(t *testing.T) {
	_, err := ParseOperand("   ")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStructural)
}

func TestParseOperandRejectsInvalidRegister(t *testing.T) {
	_, err := ParseOperand("@R99")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStructural)
}

func TestOperandHasExtension(t *testing.T) {
	reg, _ := ParseOperand("R4")
	assert.False(t, reg.HasExtension())

	ind, _ := ParseOperand("@R4")
	assert.False(t, ind.HasExtension())

	autoinc, _ := ParseOperand("@R4+")
	assert.False(t, autoinc.HasExtension())

	imm, _ := ParseOperand("#4")
	assert.True(t, imm.HasExtension())

	abs, _ := ParseOperand("&0x0200")
	assert.True(t, abs.HasExtension())
}

func TestOperandAsEncoding(t *testing.T) {
	reg, _ := ParseOperand("R4")
	assert.Equal(t, uint16(0), reg.As())

	idx, _ := ParseOperand("4(R5)")
	assert.Equal(t, uint16(1), idx.As())

	ind, _ := ParseOperand("@R5")
	assert.Equal(t, uint16(2), ind.As())

	autoinc, _ := ParseOperand("@R5+")
	assert.Equal(t, uint16(3), autoinc.As())

	imm, _ := ParseOperand("#4")
	assert.Equal(t, uint16(3), imm.As())
}

func TestOperandAdRejectsNonDestinationModes(t *testing.T) {
	ind, _ := ParseOperand("@R5")
	_, err := ind.Ad()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDirectiveArgument)

	reg, _ := ParseOperand("R4")
	ad, err := reg.Ad()
	require.NoError(t, err)
	assert.Equal(t, uint16(0), ad)
}
