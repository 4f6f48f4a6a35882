// Command graphcol inspects GraphCol chunk files: header statistics,
// checksum verification, entity listing, and single-entity or full dumps.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "graphcol",
		Short: "Inspect GraphCol chunk files",
		Long: `graphcol inspects chunk files produced by the GraphCol codec.

Chunks are opened read-only via mmap; nothing is ever modified.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newStatsCommand(),
		newVerifyCommand(),
		newEntitiesCommand(),
		newGetCommand(),
		newDumpCommand(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
