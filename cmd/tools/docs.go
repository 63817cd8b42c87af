package tools

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/msp430dev/toolchain/pkg/asm"
	"github.com/msp430dev/toolchain/pkg/utils"
)

var supportedModules = map[string]func() string{
	"asm.instructions": asm.DocString,
}

var docsCmd = &cobra.Command{
	Use:   "docs module",
	Short: "Show msp430 toolchain documentation",
	Long: `Dumps the documentation of the specified msp430 module.
By default the tool dumps the documentation to stdout, but it can be
redirected to a file using the --output flag.

Supported modules:
` + strings.Join(utils.Map(utils.Keys(supportedModules), func(m string) string { return "  " + m }), "\n"),
	Args:      cobra.MatchAll(cobra.OnlyValidArgs, cobra.ExactArgs(1)),
	ValidArgs: utils.Keys(supportedModules),
	Run: func(cmd *cobra.Command, args []string) {
		module := args[0]
		outputFile, _ := cmd.Flags().GetString("output")
		if outputFile != "" {
			file, err := os.Create(outputFile)
			if err != nil {
				fmt.Fprintln(os.Stderr, "io: creating output file:", err)
				os.Exit(1)
			}
			defer file.Close()
			fmt.Fprintln(file, supportedModules[module]())
		} else {
			fmt.Println(supportedModules[module]())
		}
	},
}

func init() {
	ToolsCmd.AddCommand(docsCmd)
	docsCmd.Flags().StringP("output", "o", "", "output file. If not specified, documentation is dumped to stdout.")
}
