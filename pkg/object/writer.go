package object

import (
	"fmt"
	"io"

	"github.com/msp430dev/toolchain/pkg/utils"
)

// Write serializes f as plain text in the fixed section order the
// linker expects: an ELF-style header (decorative), then
// `.text`, `.data`, `.symtab`, a `.shstrtab` placeholder, and
// `.rel.text` when relocations exist. The writer is total: any
// well-formed File value produces parseable output.
func Write(w io.Writer, f File) error {
	fw := &fileWriter{w: w, f: f}
	return fw.write()
}

type fileWriter struct {
	w io.Writer
	f File
}

func (fw *fileWriter) write() error {
	steps := []func() error{
		fw.writeHeader,
		fw.writeWords,
		fw.writeSymtab,
		fw.writeShstrtab,
		fw.writeRelocations,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return utils.MakeError(ErrWrite, "%v", err)
		}
	}
	if fw.f.Linked {
		return fw.writeSummary()
	}
	return nil
}

func (fw *fileWriter) printf(format string, args ...any) error {
	_, err := fmt.Fprintf(fw.w, format, args...)
	return err
}

func (fw *fileWriter) writeHeader() error {
	return fw.printf("ELF Header (textual)\nClass: MSP430-16\nType: %s\n\n", headerType(fw.f))
}

func headerType(f File) string {
	if f.Linked {
		return "EXEC (linked image)"
	}
	return "REL (relocatable object)"
}

func (fw *fileWriter) writeWords() error {
	if err := fw.writeWordSection(".text", fw.f.Text); err != nil {
		return err
	}
	return fw.writeWordSection(".data", fw.f.Data)
}

func (fw *fileWriter) writeWordSection(name string, words []Word) error {
	if err := fw.printf("%s Section\n", name); err != nil {
		return err
	}
	if err := fw.printf("Address | Code\n"); err != nil {
		return err
	}
	if err := fw.printf("--------|-------\n"); err != nil {
		return err
	}
	for _, w := range words {
		if err := fw.printf("%04X | %04X\n", w.Address, w.Code); err != nil {
			return err
		}
	}
	return fw.printf("\n")
}

func (fw *fileWriter) writeSymtab() error {
	if err := fw.printf(".symtab Section\n"); err != nil {
		return err
	}
	header := "Symbol | Value | Type | Section | Defined | Global"
	if fw.f.Linked {
		header += " | File"
	}
	if err := fw.printf("%s\n", header); err != nil {
		return err
	}
	if err := fw.printf("-------------------------------------------\n"); err != nil {
		return err
	}
	for _, s := range fw.f.Symbols {
		row := fmt.Sprintf("%s | %04X | %s | %s | %s | %s",
			s.Name, s.Value, s.Type, s.Section, formatBool(s.Defined), formatBool(s.Global))
		if fw.f.Linked {
			row += " | " + s.File
		}
		if err := fw.printf("%s\n", row); err != nil {
			return err
		}
	}
	return fw.printf("\n")
}

func (fw *fileWriter) writeShstrtab() error {
	return fw.printf(".shstrtab Section\n(placeholder)\n\n")
}

func (fw *fileWriter) writeRelocations() error {
	if len(fw.f.Relocations) == 0 {
		return nil
	}
	if err := fw.printf(".rel.text Section\n"); err != nil {
		return err
	}
	header := "Offset | Symbol | Type | Section"
	if fw.f.Linked {
		header += " | Status"
	}
	if err := fw.printf("%s\n", header); err != nil {
		return err
	}
	if err := fw.printf("-------------------------------\n"); err != nil {
		return err
	}
	for _, r := range fw.f.Relocations {
		row := fmt.Sprintf("%04X | %s | %s | %s", r.Offset, r.Symbol, r.Type, r.Section)
		if fw.f.Linked {
			row += " | " + string(r.Status)
		}
		if err := fw.printf("%s\n", row); err != nil {
			return err
		}
	}
	return fw.printf("\n")
}

func (fw *fileWriter) writeSummary() error {
	if err := fw.printf("Linker Summary\n"); err != nil {
		return err
	}
	if err := fw.printf("Text instructions: %d\n", len(fw.f.Text)); err != nil {
		return err
	}
	if err := fw.printf("Data entries: %d\n", len(fw.f.Data)); err != nil {
		return err
	}
	if err := fw.printf("Symbols: %d\n", len(fw.f.Symbols)); err != nil {
		return err
	}
	if err := fw.printf("Relocations: %d\n", len(fw.f.Relocations)); err != nil {
		return err
	}
	if err := fw.printf("Input files: %s\n", utils.FormatSlice(fw.f.Inputs, ", ")); err != nil {
		return err
	}
	return nil
}

func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
