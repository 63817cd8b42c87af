// Package cmd implements the msp430 CLI: the assembler, linker and
// loader subcommands plus miscellaneous tooling.
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/msp430dev/toolchain/cmd/tools"
)

// RootCmd is the base command when msp430 is invoked without arguments.
var RootCmd = &cobra.Command{
	Use:   "msp430",
	Short: "An assembler, linker and loader for the MSP430 instruction set",
	Long: `msp430 is a two-pass assembler, static linker and memory-map loader
for the MSP430 16-bit microcontroller instruction set.

Subcommands:
  asm   assemble an MSP430 source file into a relocatable object file
  link  statically link one or more object files into an executable image
  load  place a linked image into the modeled MSP430 memory map
  tools docs   dump instruction-set and addressing-mode documentation`,
}

// Execute runs the root command. This is called once from main.main.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	RootCmd.AddCommand(tools.ToolsCmd)
	RootCmd.PersistentFlags().Bool("debug", false, "enable debug-level structured logging")
	RootCmd.PersistentFlags().String("log-file", "", "also fan out structured logs, as JSON, to this file")
}
