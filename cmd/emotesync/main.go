package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/emote-tools/emotesync/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.Run(ctx, os.Args); err != nil {
		if errors.Is(err, context.Canceled) {
			// Interrupted by the user; nothing to report.
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
