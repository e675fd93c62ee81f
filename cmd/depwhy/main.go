// depwhy explains dependency upgrades from static fact tables.
//
// Usage:
//
//	depwhy explain <package> <from> <to> [--ecosystem eco] [--context text]
//	depwhy chat [--ecosystem eco]
//	depwhy facts list
//	depwhy facts validate [dir]
//	depwhy test <scenarios-dir> [--filter glob]
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/roach88/depwhy/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := cli.NewRootCommand().ExecuteContext(ctx)
	stop()

	// Ctrl-C ends a chat session normally.
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(cli.GetExitCode(err))
}
