// Package main provides the CLI entry point for batchren.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"batchren/internal/cli"
)

// exitPanic is used when the program panics.
const exitPanic = 3

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "panic: %v\n%s\n", r, debug.Stack())
			os.Exit(exitPanic)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.Execute(ctx, os.Args[1:], cli.DefaultStreams())
	stop()

	os.Exit(cli.ExitCodeForError(err))
}
