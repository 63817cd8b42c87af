package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/msp430dev/toolchain/pkg/asm"
	"github.com/msp430dev/toolchain/pkg/object"
)

var asmOutput string

var asmCmd = &cobra.Command{
	Use:   "asm <source.s>",
	Short: "Assemble an MSP430 source file into a relocatable object file",
	Args:  cobra.ExactArgs(1),
	Run:   runAsm,
}

func init() {
	RootCmd.AddCommand(asmCmd)
	asmCmd.Flags().StringVarP(&asmOutput, "output", "o", "", "output object file path (default: input path with .obj extension)")
}

func runAsm(cmd *cobra.Command, args []string) {
	debug, _ := cmd.Flags().GetBool("debug")
	logFile, _ := cmd.Flags().GetString("log-file")
	logger, closeLogger, err := newLogger(logFile, debug)
	if err != nil {
		os.Exit(fail(err))
	}
	defer closeLogger()

	sourcePath := args[0]
	data, err := os.ReadFile(sourcePath)
	if err != nil {
		os.Exit(fail(err))
	}

	lines := strings.Split(string(data), "\n")

	result, err := asm.Assemble(lines, logger)
	if err != nil {
		os.Exit(fail(err))
	}

	outputPath := asmOutput
	if outputPath == "" {
		outputPath = objectPathFor(sourcePath)
	}

	out, err := os.Create(outputPath)
	if err != nil {
		os.Exit(fail(err))
	}
	defer out.Close()

	if err := object.Write(out, result.Context.ToObjectFile()); err != nil {
		os.Exit(fail(err))
	}
}

func objectPathFor(sourcePath string) string {
	if idx := strings.LastIndexByte(sourcePath, '.'); idx >= 0 {
		return sourcePath[:idx] + ".obj"
	}
	return sourcePath + ".obj"
}
