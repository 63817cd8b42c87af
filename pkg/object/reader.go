package object

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/msp430dev/toolchain/pkg/utils"
)

// section is the parser's notion of which table the scan is inside.
type section int

const (
	sectionNone section = iota
	sectionText
	sectionData
	sectionSymtab
	sectionReloc
)

// Parse reads a textual object file or linked image. It is defensive:
// unrecognized section headers are skipped, blank lines are ignored,
// and a malformed data row is a hard error carrying its source line
// number — parsers never silently drop a row they attempted to
// interpret.
func Parse(r io.Reader) (File, error) {
	var f File
	mode := sectionNone

	scanner := bufio.NewScanner(r)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, ".text Section"):
			mode = sectionText
			continue
		case strings.HasPrefix(line, ".data Section"):
			mode = sectionData
			continue
		case strings.HasPrefix(line, ".symtab Section"):
			mode = sectionSymtab
			continue
		case strings.HasPrefix(line, ".rel.text Section") || (strings.HasPrefix(line, ".rel") && strings.Contains(line, "Section")):
			mode = sectionReloc
			continue
		case strings.HasPrefix(line, ".shstrtab Section"):
			mode = sectionNone
			continue
		case strings.HasPrefix(line, "ELF Header") || strings.HasPrefix(line, "Class:") || strings.HasPrefix(line, "Type:"):
			continue
		case strings.HasPrefix(line, "Linker Summary") || strings.HasPrefix(line, "Text instructions:") ||
			strings.HasPrefix(line, "Data entries:") || strings.HasPrefix(line, "Symbols:") ||
			strings.HasPrefix(line, "Relocations:") || strings.HasPrefix(line, "Input files:"):
			continue
		case strings.HasPrefix(line, "---"):
			continue
		case strings.HasPrefix(line, "(placeholder)"):
			continue
		}

		if !strings.Contains(line, "|") {
			// A header row ("Address | Code", etc.) also contains "|" so
			// this only skips stray non-tabular noise.
			continue
		}
		if isHeaderRow(line) {
			if mode == sectionSymtab && strings.Contains(line, "File") {
				f.Linked = true
			}
			if mode == sectionReloc && strings.Contains(line, "Status") {
				f.Linked = true
			}
			continue
		}

		cols := splitColumns(line)

		switch mode {
		case sectionText:
			w, err := parseWordRow(cols, lineNo)
			if err != nil {
				return File{}, err
			}
			f.Text = append(f.Text, w)

		case sectionData:
			w, err := parseWordRow(cols, lineNo)
			if err != nil {
				return File{}, err
			}
			f.Data = append(f.Data, w)

		case sectionSymtab:
			s, err := parseSymbolRow(cols, lineNo)
			if err != nil {
				return File{}, err
			}
			f.Symbols = append(f.Symbols, s)

		case sectionReloc:
			rel, err := parseRelocationRow(cols, lineNo)
			if err != nil {
				return File{}, err
			}
			f.Relocations = append(f.Relocations, rel)
		}
	}

	if err := scanner.Err(); err != nil {
		return File{}, utils.MakeError(ErrParse, "reading object file: %v", err)
	}

	return f, nil
}

func isHeaderRow(line string) bool {
	return strings.HasPrefix(line, "Address") || strings.HasPrefix(line, "Symbol") ||
		strings.HasPrefix(line, "Offset")
}

func splitColumns(line string) []string {
	parts := strings.Split(line, "|")
	cols := make([]string, len(parts))
	for i, p := range parts {
		cols[i] = strings.TrimSpace(p)
	}
	return cols
}

func parseWordRow(cols []string, lineNo int) (Word, error) {
	if len(cols) < 2 {
		return Word{}, malformedRow(lineNo, "word row")
	}
	addr, err := strconv.ParseUint(cols[0], 16, 16)
	if err != nil {
		return Word{}, malformedRow(lineNo, "address %q", cols[0])
	}
	code, err := strconv.ParseUint(cols[1], 16, 16)
	if err != nil {
		return Word{}, malformedRow(lineNo, "code %q", cols[1])
	}
	return Word{Address: uint16(addr), Code: uint16(code)}, nil
}

func parseSymbolRow(cols []string, lineNo int) (Symbol, error) {
	if len(cols) < 6 {
		return Symbol{}, malformedRow(lineNo, "symbol row")
	}
	value, err := strconv.ParseUint(cols[1], 16, 16)
	if err != nil {
		return Symbol{}, malformedRow(lineNo, "symbol value %q", cols[1])
	}
	s := Symbol{
		Name:    cols[0],
		Value:   uint16(value),
		Type:    SymbolType(cols[2]),
		Section: cols[3],
		Defined: strings.EqualFold(cols[4], "true"),
		Global:  strings.EqualFold(cols[5], "true"),
	}
	if len(cols) >= 7 {
		s.File = cols[6]
	}
	return s, nil
}

func parseRelocationRow(cols []string, lineNo int) (Relocation, error) {
	if len(cols) < 4 {
		return Relocation{}, malformedRow(lineNo, "relocation row")
	}
	offset, err := strconv.ParseUint(cols[0], 16, 16)
	if err != nil {
		return Relocation{}, malformedRow(lineNo, "relocation offset %q", cols[0])
	}
	rel := Relocation{
		Offset:  uint16(offset),
		Symbol:  cols[1],
		Type:    RelocationType(cols[2]),
		Section: cols[3],
	}
	if len(cols) >= 5 {
		rel.Status = RelocationStatus(cols[4])
	}
	return rel, nil
}

func malformedRow(lineNo int, format string, args ...any) error {
	return utils.MakeError(ErrParse, "line %d: malformed "+format, append([]any{lineNo}, args...)...)
}
