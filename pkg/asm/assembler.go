package asm

import (
	"log/slog"

	"github.com/msp430dev/toolchain/pkg/utils"
)

// Context is the single, explicit piece of state threaded through every
// phase of one assembly run: the macro table and its expansion counter,
// every section's words and location counter, the symbol table, and the
// relocation entries Pass 2 produces. Nothing here is a package-level
// global.
type Context struct {
	Macros           MacroTable
	expansionCounter int

	Symbols  *SymbolTable
	Sections map[string]*Section
	order    []string
	current  string

	Relocations []Relocation

	Logger *slog.Logger
}

// NewContext returns a fresh assembly context with the three default
// sections pre-created and text selected as current.
func NewContext(logger *slog.Logger) *Context {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Context{
		Symbols:  NewSymbolTable(),
		Sections: make(map[string]*Section),
		Logger:   logger,
	}
	c.section(SectionText, false)
	c.section(SectionData, false)
	c.section(SectionBSS, true)
	c.current = SectionText
	return c
}

// section returns the named section, creating it on first use (for
// `.sect`/`.usect`-introduced named sections).
func (c *Context) section(name string, bss bool) *Section {
	if s, ok := c.Sections[name]; ok {
		return s
	}
	s := NewSection(name, bss)
	c.Sections[name] = s
	c.order = append(c.order, name)
	return s
}

// Current returns the section currently receiving emitted words.
func (c *Context) Current() *Section {
	return c.section(c.current, false)
}

// SwitchSection makes name the current section.
func (c *Context) SwitchSection(name string, bss bool) {
	c.section(name, bss)
	c.current = name
}

// SectionNames returns every section name in first-seen order.
func (c *Context) SectionNames() []string {
	names := make([]string, len(c.order))
	copy(names, c.order)
	return names
}

// AssembleResult is everything Assemble produces for one translation
// unit: the populated context.
type AssembleResult struct {
	Context *Context
}

// Assemble runs the full pipeline over raw source lines:
// macro collection, macro expansion, Pass 1 symbol collection with its
// forward-reference fixpoint, and Pass 2 instruction/data emission.
func Assemble(source []string, logger *slog.Logger) (*AssembleResult, error) {
	ctx := NewContext(logger)

	withoutMacroDefs, err := ctx.CollectMacros(source)
	if err != nil {
		return nil, err
	}
	ctx.Logger.Debug("collected macros", "count", len(ctx.Macros))

	expanded, err := ctx.ExpandMacros(withoutMacroDefs)
	if err != nil {
		return nil, err
	}
	ctx.Logger.Debug("expanded macro call sites", "lines", len(expanded))

	lines, err := ctx.runPass1(expanded)
	if err != nil {
		return nil, err
	}

	if err := ctx.Symbols.ResolveForward(); err != nil {
		return nil, err
	}
	if pending := ctx.Symbols.PendingNames(); len(pending) > 0 {
		return nil, utils.MakeError(ErrSemantic, "unresolved constant expressions: %v", pending)
	}
	ctx.Logger.Debug("pass 1 complete", "symbols", len(ctx.Symbols.Names()))

	if err := ctx.runPass2(lines); err != nil {
		return nil, err
	}
	ctx.Logger.Debug("pass 2 complete", "relocations", len(ctx.Relocations))

	return &AssembleResult{Context: ctx}, nil
}
