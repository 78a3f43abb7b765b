package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/appmarket/appship/internal/cli"
	"github.com/appmarket/appship/internal/config"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := config.Load()
	app := cli.NewApp(cfg)

	if err := app.Run(ctx); err != nil {
		os.Exit(1)
	}
}
