// Package linker implements the static linker: it concatenates
// sections from multiple assembled objects, rebases
// symbols and relocation offsets, merges the global symbol table,
// and patches every relocation into the linked image.
package linker

import (
	"sort"
	"strings"

	"github.com/msp430dev/toolchain/pkg/object"
	"github.com/msp430dev/toolchain/pkg/utils"
)

// Input is one object file to link, tagged with the path it was read
// from (carried into the linked image's symbol-table File column).
type Input struct {
	Name string
	File object.File
}

const (
	defaultTextBase = 0x0000
	defaultDataBase = 0x0200
)

// pendingReloc is a relocation entry waiting for the patch pass, its
// offset already rebased by its owning object's section base into the
// linked image's address space.
type pendingReloc struct {
	object.Relocation
}

// Link links inputs in the given order. Ordering determines section
// base assignment and is an observable property of the output.
func Link(inputs []Input) (object.File, error) {
	var linked object.File
	linked.Linked = true

	textBase := uint16(defaultTextBase)
	dataBase := uint16(defaultDataBase)

	global := make(map[string]*object.Symbol)
	var globalOrder []string
	var relocs []pendingReloc

	for _, in := range inputs {
		linked.Inputs = append(linked.Inputs, in.Name)

		fileTextBase := textBase
		fileDataBase := dataBase

		for _, w := range in.File.Text {
			linked.Text = append(linked.Text, object.Word{Address: w.Address + fileTextBase, Code: w.Code})
		}
		for _, w := range in.File.Data {
			linked.Data = append(linked.Data, object.Word{Address: w.Address + fileDataBase, Code: w.Code})
		}

		for _, sym := range in.File.Symbols {
			updated := sym
			switch sym.Section {
			case "text":
				updated.Value += fileTextBase
			case "data":
				updated.Value += fileDataBase
			}
			updated.File = in.Name

			existing, ok := global[sym.Name]
			switch {
			case !ok:
				global[sym.Name] = &updated
				globalOrder = append(globalOrder, sym.Name)
			case existing.Defined && updated.Defined:
				return object.File{}, utils.MakeError(ErrSymbolCollision, "symbol collision: %q defined in both %q and %q", sym.Name, existing.File, in.Name)
			case updated.Defined:
				global[sym.Name] = &updated
			// else: existing definition (or an earlier undefined
			// reference) wins; two undefined references collapse to
			// one.
			default:
			}
		}

		for _, r := range in.File.Relocations {
			base := fileTextBase
			if r.Section == "data" {
				base = fileDataBase
			}
			relocs = append(relocs, pendingReloc{object.Relocation{
				Offset:  r.Offset + base,
				Symbol:  r.Symbol,
				Type:    r.Type,
				Section: r.Section,
			}})
		}

		textBase += uint16(2 * len(in.File.Text))
		dataBase += uint16(2 * len(in.File.Data))
	}

	if err := patchRelocations(&linked, relocs, global); err != nil {
		return object.File{}, err
	}

	sort.Strings(globalOrder)
	for _, name := range globalOrder {
		linked.Symbols = append(linked.Symbols, *global[name])
	}

	return linked, nil
}

// patchRelocations resolves every relocation against the merged global
// symbol table and overwrites the corresponding word in the linked
// image, appending a RESOLVED record of each to the output's
// relocation table.
func patchRelocations(linked *object.File, relocs []pendingReloc, global map[string]*object.Symbol) error {
	for _, r := range relocs {
		name := strings.TrimLeft(r.Symbol, "#@")
		sym, ok := global[name]
		if !ok || !sym.Defined {
			return utils.MakeError(ErrUndefinedSymbol, "undefined symbol %q", name)
		}

		words := linked.Text
		if r.Section == "data" {
			words = linked.Data
		}
		idx := wordIndex(words, r.Offset)
		if idx < 0 {
			return utils.MakeError(ErrMalformedObject, "relocation offset %04X has no matching word in section %q", r.Offset, r.Section)
		}

		switch r.Type {
		case object.RelocAbsolute16:
			words[idx].Code = sym.Value

		case object.RelocPCRelative:
			disp := (int64(sym.Value) - (int64(r.Offset) + 2)) / 2
			words[idx].Code = words[idx].Code | (uint16(disp) & 0x03FF)

		default:
			return utils.MakeError(ErrMalformedObject, "unknown relocation type %q", r.Type)
		}

		linked.Relocations = append(linked.Relocations, object.Relocation{
			Offset: r.Offset, Symbol: name, Type: r.Type, Section: r.Section, Status: object.StatusResolved,
		})
	}
	return nil
}

func wordIndex(words []object.Word, addr uint16) int {
	for i, w := range words {
		if w.Address == addr {
			return i
		}
	}
	return -1
}
