package asm

import (
	"strings"

	"github.com/msp430dev/toolchain/pkg/utils"
)

// Form distinguishes the MSP430 instruction word shapes.
type Form int

const (
	FormDouble Form = iota
	FormSingle
	FormJump
	FormFixed
)

// doubleOpcodes is the double-operand opcode nibble table.
var doubleOpcodes = map[string]uint16{
	"MOV": 0x4, "ADD": 0x5, "ADDC": 0x6, "SUBC": 0x7,
	"SUB": 0x8, "CMP": 0x9, "DADD": 0xA, "BIT": 0xB,
	"BIC": 0xC, "BIS": 0xD, "XOR": 0xE, "AND": 0xF,
}

// singleOpcodes is the single-operand format-field table, encoded at
// bits 9..7 with the fixed prefix 000100 at bits 15..10.
var singleOpcodes = map[string]uint16{
	"RRC": 0x0, "SWPB": 0x1, "RRA": 0x2, "SXT": 0x3, "PUSH": 0x4, "CALL": 0x5,
}

// jumpOpcodes is the jump base-opcode table, bits 15..10.
var jumpOpcodes = map[string]uint16{
	"JNE": 0x2000, "JNZ": 0x2000,
	"JEQ": 0x2400, "JZ": 0x2400,
	"JNC": 0x2800,
	"JC":  0x2C00,
	"JN":  0x3000,
	"JGE": 0x3400,
	"JL":  0x3800,
	"JMP": 0x3C00,
}

// fixedWords are zero-operand mnemonics with no addressing modes at all.
var fixedWords = map[string]uint16{
	"RETI": 0x1300,
	"NOP":  0x4303,
}

// MnemonicForm classifies a mnemonic (its base name, without a .B/.W
// suffix) into the instruction form that encodes it, and reports whether
// it is recognized at all.
func MnemonicForm(mnemonic string) (Form, bool) {
	base, _ := splitSuffix(mnemonic)
	base = strings.ToUpper(base)

	if _, ok := fixedWords[base]; ok {
		return FormFixed, true
	}
	if _, ok := jumpOpcodes[base]; ok {
		return FormJump, true
	}
	if _, ok := singleOpcodes[base]; ok {
		return FormSingle, true
	}
	if _, ok := doubleOpcodes[base]; ok {
		return FormDouble, true
	}
	return 0, false
}

// splitSuffix separates a mnemonic's ".B"/".W" byte/word suffix.
func splitSuffix(mnemonic string) (base string, byteWidth bool) {
	upper := strings.ToUpper(mnemonic)
	switch {
	case strings.HasSuffix(upper, ".B"):
		return mnemonic[:len(mnemonic)-2], true
	case strings.HasSuffix(upper, ".W"):
		return mnemonic[:len(mnemonic)-2], false
	default:
		return mnemonic, false
	}
}

// extensionValue computes the value emitted in an operand's extension
// word given its already-resolved numeric value (or zero as a
// relocation placeholder).
func extensionValue(op Operand) uint16 {
	switch op.Mode {
	case ModeIndexed:
		return op.Value
	case ModeAbsolute:
		return op.Value
	case ModeSymbolic:
		return op.Value
	case ModeImmediate:
		return op.Value
	default:
		return 0
	}
}

// EncodeDouble assembles a double-operand instruction (word layout:
// bits 15..12 opcode | 11..8 src-reg | 7 Ad | 6 B/W | 5..4 As |
// 3..0 dst-reg). It returns the opcode word followed by any extension
// words, source extension first.
func EncodeDouble(mnemonic string, src, dst Operand) ([]uint16, error) {
	base, byteWidth := splitSuffix(mnemonic)
	nibble, ok := doubleOpcodes[strings.ToUpper(base)]
	if !ok {
		return nil, utils.MakeError(ErrStructural, "unknown double-operand mnemonic %q", mnemonic)
	}

	ad, err := dst.Ad()
	if err != nil {
		return nil, err
	}

	var word uint16
	view := utils.CreateBitView(&word)
	view.Write(nibble, 12, 4)
	view.Write(uint16(src.Register), 8, 4)
	view.Write(ad, 7, 1)
	view.Write(boolBit(byteWidth), 6, 1)
	view.Write(src.As(), 4, 2)
	view.Write(uint16(dst.Register), 0, 4)

	words := []uint16{word}
	if src.HasExtension() {
		words = append(words, extensionValue(src))
	}
	if dst.HasExtension() {
		words = append(words, extensionValue(dst))
	}
	return words, nil
}

// EncodeSingle assembles a single-operand instruction (fixed prefix
// 000100 at bits 15..10, format field at bits 9..7, then B/W,
// As and the operand register as in the double-operand layout).
func EncodeSingle(mnemonic string, dst Operand) ([]uint16, error) {
	base, byteWidth := splitSuffix(mnemonic)
	base = strings.ToUpper(base)

	if base == "CALL" {
		// CALL's immediate-target form is a special fixed encoding:
		// opcode 0x1280 followed by the 16-bit target, relocated like
		// any other absolute reference.
		word := uint16(0x1280)
		return []uint16{word, extensionValue(dst)}, nil
	}

	format, ok := singleOpcodes[base]
	if !ok {
		return nil, utils.MakeError(ErrStructural, "unknown single-operand mnemonic %q", mnemonic)
	}

	var word uint16
	view := utils.CreateBitView(&word)
	view.Write(0x04, 10, 6)
	view.Write(format, 7, 3)
	view.Write(boolBit(byteWidth), 6, 1)
	view.Write(dst.As(), 4, 2)
	view.Write(uint16(dst.Register), 0, 4)

	words := []uint16{word}
	if dst.HasExtension() {
		words = append(words, extensionValue(dst))
	}
	return words, nil
}

// EncodeJump computes a jump instruction's opcode word from its target
// address and the address of the jump instruction itself:
// displacement = (target - (pc+2)) / 2, valid in [-1024, 1023].
func EncodeJump(mnemonic string, pc, target uint16) (uint16, error) {
	base := strings.ToUpper(mnemonic)
	opcode, ok := jumpOpcodes[base]
	if !ok {
		return 0, utils.MakeError(ErrStructural, "unknown jump mnemonic %q", mnemonic)
	}

	disp := (int64(target) - int64(pc) - 2) / 2
	if disp < -1024 || disp > 1023 {
		return 0, utils.MakeError(ErrSemantic, "jump target out of range: displacement %d words", disp)
	}

	return opcode | uint16(disp)&0x03FF, nil
}

// FixedWord returns the encoded word for a zero-operand fixed mnemonic
// (RETI, NOP) and whether mnemonic is one.
func FixedWord(mnemonic string) (uint16, bool) {
	word, ok := fixedWords[strings.ToUpper(mnemonic)]
	return word, ok
}

func boolBit(b bool) uint16 {
	if b {
		return 1
	}
	return 0
}
