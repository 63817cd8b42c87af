package asm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitLine(t *testing.T) {
	cases := []struct {
		name     string
		raw      string
		label    string
		mnemonic string
		operands []string
		comment  string
	}{
		{"plain instruction", "\tMOV #0x1234, R4", "", "MOV", []string{"#0x1234", "R4"}, ""},
		{"labeled instruction", "START: MOV R4, R5", "START", "MOV", []string{"R4", "R5"}, ""},
		{"label only", "LOOP:", "LOOP", "", nil, ""},
		{"comment only", "; a full-line comment", "", "", nil, "a full-line comment"},
		{"trailing comment", "\tNOP ; step marker", "", "NOP", nil, "step marker"},
		{"indexed operand keeps comma depth", "\tMOV 4(R5), 0x10(R6)", "", "MOV", []string{"4(R5)", "0x10(R6)"}, ""},
		{"blank line", "", "", "", nil, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			line := SplitLine(tc.raw)
			assert.Equal(t, tc.label, line.Label)
			assert.Equal(t, tc.mnemonic, line.Mnemonic)
			assert.Equal(t, tc.operands, line.Operands)
			assert.Equal(t, tc.comment, line.Comment)
		})
	}
}

func TestSplitLineIsEmpty(t *testing.T) {
	line := SplitLine("   \t  ")
	assert.True(t, line.IsEmpty())

	line = SplitLine("NOP")
	assert.False(t, line.IsEmpty())
}

func TestNumericLiteral(t *testing.T) {
	cases := []struct {
		name  string
		raw   string
		ok    bool
		value int64
	}{
		{"decimal", "1234", true, 1234},
		{"negative decimal", "-5", true, -5},
		{"0x hex", "0x1234", true, 0x1234},
		{"h suffix hex", "0FFh", true, 0xFF},
		{"0b binary", "0b1010", true, 0b1010},
		{"b suffix binary", "1010b", true, 0b1010},
		{"char literal", "'A'", true, 65},
		{"not a literal", "START", false, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			value, ok, err := NumericLiteral(tc.raw)
			require.NoError(t, err)
			assert.Equal(t, tc.ok, ok)
			if ok {
				assert.Equal(t, tc.value, value)
			}
		})
	}
}

func TestNumericLiteralInvalidCharLiteral(t *testing.T) {
	_, ok, err := NumericLiteral("'AB'")
	assert.True(t, ok)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLexical)
}

func TestSplitOperandsRespectsParenDepth(t *testing.T) {
	line := SplitLine("\tMOV #foo(1,2), R4")
	assert.Equal(t, []string{"#foo(1,2)", "R4"}, line.Operands)
}
