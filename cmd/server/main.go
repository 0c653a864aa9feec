// Command server runs the protocol registry: an HTTP ledger that numbers
// incoming and outgoing documents across the common, confidential and
// signals books.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"protokollo/internal/platform/config"
	"protokollo/internal/platform/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "protokollo",
		Short:         "Protocol registry for the records office",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cfg := config.FromEnv()
	log := logger.New()

	root.AddCommand(newServeCmd(cfg, log))
	root.AddCommand(newSeedCmd(cfg, log))
	root.AddCommand(newArchiveCmd(cfg, log))
	return root
}
