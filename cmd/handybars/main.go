package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/randalmurphal/handybars/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := cli.Run(ctx, os.Exit, os.Args[1:]...)
	stop()
	if err != nil {
		// cli.Run has already logged the error.
		os.Exit(1)
	}
}
