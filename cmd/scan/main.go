package main

import (
	"context"
	"os/signal"
	"syscall"

	"lima-segura/cmd/scan/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	commands.ExecuteContext(ctx)
}
