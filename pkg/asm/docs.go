package asm

import (
	"fmt"
	"sort"
	"strings"

	"github.com/msp430dev/toolchain/pkg/utils"
)

// sortedKeys returns a map's keys sorted alphabetically, for deterministic
// documentation output.
func sortedKeys[V any](m map[string]V) []string {
	keys := utils.Keys(m)
	sort.Strings(keys)
	return keys
}

func mnemonicList[V any](m map[string]V) string {
	return strings.Join(sortedKeys(m), ", ")
}

// DocString renders the instruction-set and addressing-mode documentation
// for `tools docs` as ASCII bit-layout frames.
func DocString() string {
	var b strings.Builder

	fmt.Fprintln(&b, "MSP430 instruction word layouts")
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "Double-operand (MOV, ADD, ADDC, SUBC, SUB, CMP, DADD, BIT, BIC, BIS, XOR, AND):")
	fmt.Fprint(&b, utils.AsciiFrame([]utils.AsciiFrameField{
		{Name: "dst-reg", Begin: 0, Width: 4},
		{Name: "As", Begin: 4, Width: 2},
		{Name: "B/W", Begin: 6, Width: 1},
		{Name: "Ad", Begin: 7, Width: 1},
		{Name: "src-reg", Begin: 8, Width: 4},
		{Name: "opcode", Begin: 12, Width: 4},
	}, 16, "bits", utils.AsciiFrameUnitLayout_RightToLeft, 2))
	fmt.Fprintf(&b, "  mnemonics: %s\n\n", mnemonicList(doubleOpcodes))

	fmt.Fprintln(&b, "Single-operand (RRC, SWPB, RRA, SXT, PUSH, CALL):")
	fmt.Fprint(&b, utils.AsciiFrame([]utils.AsciiFrameField{
		{Name: "dst-reg", Begin: 0, Width: 4},
		{Name: "As", Begin: 4, Width: 2},
		{Name: "B/W", Begin: 6, Width: 1},
		{Name: "format", Begin: 7, Width: 3},
		{Name: "prefix 000100", Begin: 10, Width: 6},
	}, 16, "bits", utils.AsciiFrameUnitLayout_RightToLeft, 2))
	fmt.Fprintf(&b, "  mnemonics: %s\n", mnemonicList(singleOpcodes))
	fmt.Fprintln(&b, "  CALL's immediate-target form instead encodes as the fixed word 0x1280")
	fmt.Fprintln(&b, "  followed by a 16-bit absolute target extension word.")
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "Jump (JNE/JNZ, JEQ/JZ, JNC, JC, JN, JGE, JL, JMP):")
	fmt.Fprint(&b, utils.AsciiFrame([]utils.AsciiFrameField{
		{Name: "10-bit signed displacement", Begin: 0, Width: 10},
		{Name: "opcode", Begin: 10, Width: 6},
	}, 16, "bits", utils.AsciiFrameUnitLayout_RightToLeft, 2))
	fmt.Fprintln(&b, "  displacement = (target - (pc + 2)) / 2, valid in [-1024, 1023] words")
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "Fixed zero-operand words:")
	for _, name := range sortedKeys(fixedWords) {
		fmt.Fprintf(&b, "  %-4s = %s\n", name, utils.FormatUintHex(uint64(fixedWords[name]), 4))
	}
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "Addressing modes:")
	for mode := ModeRegister; mode <= ModeImmediate; mode++ {
		fmt.Fprintf(&b, "  %-22s As=%s extension=%v\n",
			mode.String(), utils.FormatUintBinary(uint64(mode.asDoc()), 2), mode.hasExtensionDoc())
	}

	return b.String()
}

// asDoc/hasExtensionDoc expose the As encoding and extension-word rule for
// every mode, including the three (indirect, indirect-autoincrement,
// immediate) that Operand.Ad rejects as destinations — `tools docs` documents all seven
// modes regardless of source/destination position.
func (m AddrMode) asDoc() uint16 {
	switch m {
	case ModeRegister:
		return 0
	case ModeIndexed, ModeSymbolic, ModeAbsolute:
		return 1
	case ModeIndirect:
		return 2
	default:
		return 3
	}
}

func (m AddrMode) hasExtensionDoc() bool {
	return Operand{Mode: m}.HasExtension()
}
