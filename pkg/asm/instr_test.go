package asm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEncodeDoubleMovImmediateToRegister covers MOV #0x1234, R4 ->
// 0x4034, 0x1234.
func TestEncodeDoubleMovImmediateToRegister(t *testing.T) {
	src, err := ParseOperand("#0x1234")
	require.NoError(t, err)
	dst, err := ParseOperand("R4")
	require.NoError(t, err)

	words, err := EncodeDouble("MOV", src, dst)
	require.NoError(t, err)
	require.Equal(t, []uint16{0x4034, 0x1234}, words)
}

// TestEncodeDoubleMovRegisterToAbsolute covers: MOV R4, &0x0200, whose
// opcode word is built from opcode=0x4, src-reg=4, Ad=1 (absolute
// destination), As=0 (register source), dst-reg=2 (the absolute mode's
// fixed SR-as-base register field).
func TestEncodeDoubleMovRegisterToAbsolute(t *testing.T) {
	src, err := ParseOperand("R4")
	require.NoError(t, err)
	dst, err := ParseOperand("&0x0200")
	require.NoError(t, err)

	words, err := EncodeDouble("MOV", src, dst)
	require.NoError(t, err)
	require.Equal(t, []uint16{0x4482, 0x0200}, words)
}

func TestEncodeDoubleByteWidthSetsBWBit(t *testing.T) {
	src, _ := ParseOperand("R4")
	dst, _ := ParseOperand("R5")

	word, err := EncodeDouble("MOV.B", src, dst)
	require.NoError(t, err)
	assert.NotZero(t, word[0]&0x0040)

	wordWord, err := EncodeDouble("MOV.W", src, dst)
	require.NoError(t, err)
	assert.Zero(t, wordWord[0]&0x0040)
}

func TestEncodeDoubleUnknownMnemonic(t *testing.T) {
	src, _ := ParseOperand("R4")
	dst, _ := ParseOperand("R5")
	_, err := EncodeDouble("FROB", src, dst)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStructural)
}

func TestEncodeDoubleRejectsNonDestinationMode(t *testing.T) {
	src, _ := ParseOperand("R4")
	dst, _ := ParseOperand("@R5")
	_, err := EncodeDouble("MOV", src, dst)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDirectiveArgument)
}

func TestEncodeSingleCallImmediate(t *testing.T) {
	dst, err := ParseOperand("#0x4400")
	require.NoError(t, err)
	words, err := EncodeSingle("CALL", dst)
	require.NoError(t, err)
	require.Equal(t, []uint16{0x1280, 0x4400}, words)
}

func TestEncodeSinglePush(t *testing.T) {
	dst, err := ParseOperand("R5")
	require.NoError(t, err)
	words, err := EncodeSingle("PUSH", dst)
	require.NoError(t, err)
	require.Len(t, words, 1)
	assert.Equal(t, uint16(0x1205), words[0])
}

// TestEncodeJumpSelf covers: JMP SELF (jumping to its own address) -> 0x3FFF.
func TestEncodeJumpSelf(t *testing.T) {
	word, err := EncodeJump("JMP", 0x1000, 0x1000)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x3FFF), word)
}

func TestEncodeJumpForwardAndBackward(t *testing.T) {
	word, err := EncodeJump("JEQ", 0x1000, 0x1008)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x2400|0x0003), word)

	word, err = EncodeJump("JNE", 0x1008, 0x1000)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x23FB), word)
}

func TestEncodeJumpOutOfRange(t *testing.T) {
	_, err := EncodeJump("JMP", 0x0000, 0xFFFF)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSemantic)
}

func TestFixedWord(t *testing.T) {
	word, ok := FixedWord("RETI")
	require.True(t, ok)
	assert.Equal(t, uint16(0x1300), word)

	word, ok = FixedWord("nop")
	require.True(t, ok)
	assert.Equal(t, uint16(0x4303), word)

	_, ok = FixedWord("MOV")
	assert.False(t, ok)
}

func TestMnemonicForm(t *testing.T) {
	form, ok := MnemonicForm("MOV.B")
	require.True(t, ok)
	assert.Equal(t, FormDouble, form)

	form, ok = MnemonicForm("PUSH")
	require.True(t, ok)
	assert.Equal(t, FormSingle, form)

	form, ok = MnemonicForm("JMP")
	require.True(t, ok)
	assert.Equal(t, FormJump, form)

	form, ok = MnemonicForm("NOP")
	require.True(t, ok)
	assert.Equal(t, FormFixed, form)

	_, ok = MnemonicForm("FROB")
	assert.False(t, ok)
}
