package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/danmuck/wotreplay/internal/logging"
)

func main() {
	logging.ConfigureRuntime()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "wotreplay: %v\n", err)
		stop()
		os.Exit(1)
	}
}
