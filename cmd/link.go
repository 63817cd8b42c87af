package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/msp430dev/toolchain/pkg/linker"
	"github.com/msp430dev/toolchain/pkg/object"
)

var (
	linkOutput  string
	linkCfgFile string
)

var linkCmd = &cobra.Command{
	Use:   "link <object-file> [object-file...]",
	Short: "Statically link one or more MSP430 object files into an executable image",
	Long: `link reads object files in the given order, rebases each one's
text/data sections and symbols, merges the global symbol table, patches
every relocation, and writes a linked image with zero UNRESOLVED entries.
Input order determines section base assignment.`,
	Args: cobra.MinimumNArgs(1),
	Run:  runLink,
}

func init() {
	RootCmd.AddCommand(linkCmd)
	linkCmd.Flags().StringVarP(&linkOutput, "output", "o", "a.out.obj", "linked image output path")
	linkCmd.Flags().StringVar(&linkCfgFile, "config", "", "YAML config file overriding the output path")
}

func runLink(cmd *cobra.Command, args []string) {
	debug, _ := cmd.Flags().GetBool("debug")
	logFile, _ := cmd.Flags().GetString("log-file")
	logger, closeLogger, err := newLogger(logFile, debug)
	if err != nil {
		os.Exit(fail(err))
	}
	defer closeLogger()

	cfg, err := loadConfig(linkCfgFile)
	if err != nil {
		os.Exit(fail(err))
	}
	output := linkOutput
	if !cmd.Flags().Changed("output") && cfg.Output != "" {
		output = cfg.Output
	}

	var inputs []linker.Input
	for _, path := range args {
		file, err := os.Open(path)
		if err != nil {
			os.Exit(fail(err))
		}
		obj, err := object.Parse(file)
		file.Close()
		if err != nil {
			os.Exit(fail(err))
		}
		inputs = append(inputs, linker.Input{Name: path, File: obj})
		logger.Debug("read object", "path", path, "text_words", len(obj.Text), "data_words", len(obj.Data))
	}

	linked, err := linker.Link(inputs)
	if err != nil {
		os.Exit(fail(err))
	}
	logger.Debug("linked", "symbols", len(linked.Symbols), "relocations", len(linked.Relocations))

	out, err := os.Create(output)
	if err != nil {
		os.Exit(fail(err))
	}
	defer out.Close()

	if err := object.Write(out, linked); err != nil {
		os.Exit(fail(err))
	}
}
