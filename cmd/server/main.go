package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "starships-server",
		Short: "REST API for starships and starship classes",
		Long: `starships-server stores starship classes and the starships built from them.
A starship's fuel and hull points are copied from its class, and changing a
class's capacity rewrites every starship of that class in one transaction.

Running without a subcommand starts the HTTP server.`,
		SilenceUsage: true,
	}

	serve := newServeCmd()
	root.RunE = serve.RunE
	root.AddCommand(serve, newMigrateCmd(), newSeedCmd(), newTokenCmd())

	return root
}
