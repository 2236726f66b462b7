// Jackline - a line-oriented TCP client for auction-style servers.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"jackline/cmd"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := cmd.Execute(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "jackline: %v\n", err)
		os.Exit(1)
	}
}
