package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/msp430dev/toolchain/pkg/loader"
)

var (
	loadTextBase string
	loadDataBase string
	loadCfgFile  string
)

var loadCmd = &cobra.Command{
	Use:   "load <linked-image>",
	Short: "Place a linked MSP430 image into the modeled memory map",
	Long: `load parses a linker's textual output and writes each text/data
word into the modeled five-region MSP430 memory map, printing a textual
summary of what was written and where.`,
	Args: cobra.ExactArgs(1),
	Run:  runLoad,
}

func init() {
	RootCmd.AddCommand(loadCmd)
	loadCmd.Flags().StringVar(&loadTextBase, "text-base", "", "text section placement base (default 0x4400)")
	loadCmd.Flags().StringVar(&loadDataBase, "data-base", "", "data section placement base (default 0x1C00)")
	loadCmd.Flags().StringVar(&loadCfgFile, "config", "", "YAML config file providing default placement bases")
}

func runLoad(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig(loadCfgFile)
	if err != nil {
		os.Exit(fail(err))
	}

	textBase := loader.DefaultTextBase
	dataBase := loader.DefaultDataBase

	if cfg.TextBase != "" {
		textBase, err = parseBase(cfg.TextBase)
		if err != nil {
			os.Exit(fail(err))
		}
	}
	if cfg.DataBase != "" {
		dataBase, err = parseBase(cfg.DataBase)
		if err != nil {
			os.Exit(fail(err))
		}
	}
	if loadTextBase != "" {
		textBase, err = parseBase(loadTextBase)
		if err != nil {
			os.Exit(fail(err))
		}
	}
	if loadDataBase != "" {
		dataBase, err = parseBase(loadDataBase)
		if err != nil {
			os.Exit(fail(err))
		}
	}

	file, err := os.Open(args[0])
	if err != nil {
		os.Exit(fail(err))
	}
	defer file.Close()

	result, err := loader.Load(file, textBase, dataBase)
	if err != nil {
		os.Exit(fail(err))
	}
	for _, w := range result.Warnings {
		warn(w)
	}

	fmt.Print(loader.Report(result, textBase, dataBase))
}

// parseBase accepts decimal, 0x-prefixed hex, and 0b-prefixed binary
// placement-base literals.
func parseBase(s string) (uint32, error) {
	n, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, err
	}
	return uint32(n), nil
}
