package main

import (
	"context"
	"fmt"
	"os"

	"OpimeNotify/internal/app"
	"OpimeNotify/internal/config"
	"OpimeNotify/internal/logging"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <fetch|notify|realtime>\n", os.Args[0])
		os.Exit(2)
	}
	command := os.Args[1]

	ctx := context.Background()
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer application.Close()

	if err := application.Run(ctx, command); err != nil {
		logger.Error("command failed", "command", command, "error", err)
		os.Exit(1)
	}
}
