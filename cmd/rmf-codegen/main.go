// Command rmf-codegen generates SDK code from API descriptions.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/markkovari/rmf-codegen/cmd/rmf-codegen/commands"
	"github.com/markkovari/rmf-codegen/internal/cliutil"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := commands.NewRootCmd().ExecuteContext(ctx); err != nil {
		cliutil.WriteError(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
