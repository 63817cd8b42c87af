package loader

import (
	"fmt"
	"strings"

	"github.com/msp430dev/toolchain/pkg/utils"
)

// Report renders a textual memory-map summary: each region's bounds,
// how many of its bytes are non-zero, and the word counts placed by
// Load. A written byte whose value is zero is not counted as used.
func Report(result *Result, textBase, dataBase uint32) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Text base: %s\n", utils.FormatUintHex(uint64(textBase), 4))
	fmt.Fprintf(&b, "Data base: %s\n", utils.FormatUintHex(uint64(dataBase), 4))
	fmt.Fprintf(&b, "Text words written: %d\n", result.TextWritten)
	fmt.Fprintf(&b, "Data words written: %d\n\n", result.DataWritten)

	fmt.Fprintln(&b, "Region   | Range               | Bytes used")
	fmt.Fprintln(&b, "---------|---------------------|-----------")
	for _, rb := range regionTable {
		used := 0
		for _, v := range result.Memory.Region(rb.region) {
			if v != 0 {
				used++
			}
		}
		fmt.Fprintf(&b, "%-8s | %s-%s | %d\n",
			rb.region,
			utils.FormatUintHex(uint64(rb.start), 4),
			utils.FormatUintHex(uint64(rb.end), 4),
			used)
	}

	if len(result.Warnings) > 0 {
		fmt.Fprintln(&b, "\nWarnings:")
		for _, w := range result.Warnings {
			fmt.Fprintf(&b, "  %s\n", w)
		}
	}

	return b.String()
}
