// sockyc sends one message over TCP/IPv4, terminated by an EOT byte.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spephton/sockyc/cmd"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := cmd.Execute(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "sockyc: %v\n", err)
		cancel()
		os.Exit(cmd.ExitCode(err))
	}
}
