// Package tools groups miscellaneous msp430 CLI helpers that are not
// themselves pipeline stages.
package tools

import (
	"github.com/spf13/cobra"
)

// ToolsCmd is the `msp430 tools` command group.
var ToolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "msp430 miscellaneous tools",
}
