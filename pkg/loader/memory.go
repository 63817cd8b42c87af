// Package loader places a linked image's text and data words into a
// modeled MSP430 memory map, one fixed region at a time, little-endian.
package loader

import "github.com/msp430dev/toolchain/pkg/utils"

// Region names the five fixed MSP430 memory regions.
type Region string

const (
	RegionSFR     Region = "SFR"
	RegionPeriph  Region = "PERIPH"
	RegionRAM     Region = "RAM"
	RegionFlash   Region = "FLASH"
	RegionVectors Region = "VECTORS"
)

type regionBounds struct {
	region Region
	start  uint32
	end    uint32
}

// regionTable is ordered by start address; addresses are matched by a
// linear scan since there are only five fixed regions.
var regionTable = []regionBounds{
	{RegionSFR, 0x0000, 0x01FF},
	{RegionPeriph, 0x0200, 0x1BFF},
	{RegionRAM, 0x1C00, 0x23FF},
	{RegionFlash, 0x4400, 0xFFBF},
	{RegionVectors, 0xFFC0, 0xFFFF},
}

// Memory is the modeled MSP430 address space: one byte slice per fixed
// region, addressed by the region's own base-relative offset.
type Memory struct {
	regions map[Region][]byte
}

// NewMemory returns an all-zero memory image sized to the five fixed
// regions.
func NewMemory() *Memory {
	m := &Memory{regions: make(map[Region][]byte, len(regionTable))}
	for _, rb := range regionTable {
		m.regions[rb.region] = make([]byte, rb.end-rb.start+1)
	}
	return m
}

// Locate returns which region address falls in and the region-relative
// byte offset, or an error if address is not in any modeled region.
func Locate(address uint32) (Region, uint32, error) {
	for _, rb := range regionTable {
		if address >= rb.start && address <= rb.end {
			return rb.region, address - rb.start, nil
		}
	}
	return "", 0, utils.MakeError(ErrInvalidAddress, "address %#06x is outside every modeled region", address)
}

// WriteWord stores value little-endian at address, failing with an
// overflow error if either of its two bytes falls outside the owning
// region's bounds.
func (m *Memory) WriteWord(address uint32, value uint16) error {
	region, offset, err := Locate(address)
	if err != nil {
		return err
	}
	bytes := m.regions[region]
	if int(offset)+1 >= len(bytes) {
		return utils.MakeError(ErrOverflow, "write at %#06x overflows region %s", address, region)
	}
	bytes[offset] = byte(value)
	bytes[offset+1] = byte(value >> 8)
	return nil
}

// ReadWord reads the little-endian 16-bit value at address.
func (m *Memory) ReadWord(address uint32) (uint16, error) {
	region, offset, err := Locate(address)
	if err != nil {
		return 0, err
	}
	bytes := m.regions[region]
	if int(offset)+1 >= len(bytes) {
		return 0, utils.MakeError(ErrOverflow, "read at %#06x overflows region %s", address, region)
	}
	return uint16(bytes[offset]) | uint16(bytes[offset+1])<<8, nil
}

// Region returns a region's raw backing bytes, for dumping a memory map.
func (m *Memory) Region(r Region) []byte {
	return m.regions[r]
}
