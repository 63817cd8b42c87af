package loader_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msp430dev/toolchain/pkg/loader"
)

const sampleImage = `ELF Header (textual)
Class: MSP430-16
Type: EXEC (linked image)

.text Section
Address | Code
--------|-------
0000 | 4034
0002 | 1234

.data Section
Address | Code
--------|-------
0200 | 00AA

.symtab Section
Symbol | Value | Type | Section | Defined | Global | File
-------------------------------------------
START | 0000 | relative | text | True | True | a.obj

Linker Summary
Text instructions: 2
Data entries: 1
Symbols: 1
Relocations: 0
Input files: a.obj
`

func TestLoadPlacesWordsAtBases(t *testing.T) {
	result, err := loader.Load(strings.NewReader(sampleImage), loader.DefaultTextBase, loader.DefaultDataBase)
	require.NoError(t, err)

	assert.Equal(t, 2, result.TextWritten)
	assert.Equal(t, 1, result.DataWritten)
	assert.Empty(t, result.Warnings)

	word, err := result.Memory.ReadWord(0x4400)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x4034), word)

	word, err = result.Memory.ReadWord(0x4402)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x1234), word)

	// Data rows carry the linker's 0x0200 base, so the first one lands
	// at dataBase+0x0200.
	word, err = result.Memory.ReadWord(0x1C00 + 0x0200)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x00AA), word)
}

func TestLoadStoresLittleEndian(t *testing.T) {
	result, err := loader.Load(strings.NewReader(sampleImage), loader.DefaultTextBase, loader.DefaultDataBase)
	require.NoError(t, err)

	flash := result.Memory.Region(loader.RegionFlash)
	assert.Equal(t, byte(0x34), flash[0])
	assert.Equal(t, byte(0x40), flash[1])
}

func TestLoadWarnsOnUnparseableRowAndContinues(t *testing.T) {
	image := ".text Section\nAddress | Code\n--------|-------\nZZZZ | 1234\n0000 | 4303\n"

	result, err := loader.Load(strings.NewReader(image), loader.DefaultTextBase, loader.DefaultDataBase)
	require.NoError(t, err)

	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "ZZZZ")
	assert.Equal(t, 1, result.TextWritten)
}

func TestLoadFailsOnRegionOverflow(t *testing.T) {
	image := ".text Section\nAddress | Code\n--------|-------\n0000 | 4303\n"

	// A word at the very last flash byte cannot fit its high byte.
	_, err := loader.Load(strings.NewReader(image), 0xFFBF, loader.DefaultDataBase)
	require.Error(t, err)
	assert.ErrorIs(t, err, loader.ErrOverflow)
}

func TestLoadFailsOutsideModeledRegions(t *testing.T) {
	image := ".text Section\nAddress | Code\n--------|-------\n0000 | 4303\n"

	_, err := loader.Load(strings.NewReader(image), 0x2400, loader.DefaultDataBase)
	require.Error(t, err)
	assert.ErrorIs(t, err, loader.ErrInvalidAddress)
}

func TestLocateRegionBoundaries(t *testing.T) {
	cases := []struct {
		addr   uint32
		region loader.Region
	}{
		{0x0000, loader.RegionSFR},
		{0x01FF, loader.RegionSFR},
		{0x0200, loader.RegionPeriph},
		{0x1C00, loader.RegionRAM},
		{0x23FF, loader.RegionRAM},
		{0x4400, loader.RegionFlash},
		{0xFFBF, loader.RegionFlash},
		{0xFFC0, loader.RegionVectors},
		{0xFFFF, loader.RegionVectors},
	}

	for _, tc := range cases {
		region, _, err := loader.Locate(tc.addr)
		require.NoError(t, err)
		assert.Equal(t, tc.region, region)
	}

	_, _, err := loader.Locate(0x2400)
	require.Error(t, err)
	assert.ErrorIs(t, err, loader.ErrInvalidAddress)
}

func TestReportListsRegionsAndCounts(t *testing.T) {
	result, err := loader.Load(strings.NewReader(sampleImage), loader.DefaultTextBase, loader.DefaultDataBase)
	require.NoError(t, err)

	report := loader.Report(result, loader.DefaultTextBase, loader.DefaultDataBase)
	assert.Contains(t, report, "Text words written: 2")
	assert.Contains(t, report, "Data words written: 1")
	assert.Contains(t, report, "FLASH")
	assert.Contains(t, report, "VECTORS")
}
